// Package percentile derives cropping thresholds from a batch of timings.
package percentile

import (
	"math"
	"slices"
)

// Fraction returns the quantile used for threshold i out of count.
//
// The schedule 1 - 0.5^(10(i+1)/count) spreads thresholds exponentially:
// early ones keep only the fastest timings, the last one sits near the
// 1-0.5^10 quantile and crops almost nothing.
func Fraction(i, count int) float64 {
	return 1 - math.Pow(0.5, 10*float64(i+1)/float64(count))
}

// Thresholds sorts deltas in place and fills dst with one cutoff per
// element of dst, using the schedule of Fraction. deltas must not be empty.
// The resulting cutoffs are non-decreasing.
func Thresholds(dst []int64, deltas []int64) {
	slices.Sort(deltas)
	for i := range dst {
		dst[i] = at(deltas, Fraction(i, len(dst)))
	}
}

// at returns the element of sorted a at position floor(len(a) * which).
func at(sorted []int64, which float64) int64 {
	pos := int(float64(len(sorted)) * which)
	if pos >= len(sorted) {
		pos = len(sorted) - 1
	}
	return sorted[pos]
}
