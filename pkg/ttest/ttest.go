// Package ttest implements an online Welch's t-test over two populations.
//
// Means and variances are estimated on the fly with Welford's method, so a
// single pass over the samples is enough and precision does not degrade as
// counts and sample magnitudes grow.
package ttest

import "math"

// Classes is the number of populations an Accumulator compares.
const Classes = 2

// Accumulator keeps running statistics for class 0 and class 1.
// The zero value is ready to use. Only Push mutates it, so a copy is a
// consistent snapshot.
type Accumulator struct {
	n    [Classes]uint64
	mean [Classes]float64
	m2   [Classes]float64
}

// Push adds one observation x to the given class.
// class must be 0 or 1.
func (a *Accumulator) Push(x float64, class uint8) {
	a.n[class]++
	delta := x - a.mean[class]
	a.mean[class] += delta / float64(a.n[class])
	a.m2[class] += delta * (x - a.mean[class])
}

// Count returns the number of observations pushed to class.
func (a Accumulator) Count(class uint8) uint64 {
	return a.n[class]
}

// Total returns the number of observations over both classes.
func (a Accumulator) Total() uint64 {
	return a.n[0] + a.n[1]
}

// Mean returns the running mean of class.
func (a Accumulator) Mean(class uint8) float64 {
	return a.mean[class]
}

// Variance returns the unbiased sample variance of class.
// It is NaN unless Count(class) > 1.
func (a Accumulator) Variance(class uint8) float64 {
	if a.n[class] < 2 {
		return math.NaN()
	}
	return a.m2[class] / float64(a.n[class]-1)
}

// Ready reports whether both classes hold enough observations for T.
func (a Accumulator) Ready() bool {
	return a.n[0] > 1 && a.n[1] > 1
}

// T returns Welch's t statistic for the difference of means
// (class 0 minus class 1). Callers must check Ready first; the result
// is NaN otherwise.
func (a Accumulator) T() float64 {
	v0 := a.Variance(0)
	v1 := a.Variance(1)
	num := a.mean[0] - a.mean[1]
	den := math.Sqrt(v0/float64(a.n[0]) + v1/float64(a.n[1]))
	return num / den
}
