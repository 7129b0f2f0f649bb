package engine

import "math"

// meaningful reports whether a test has enough class 0 measurements to take
// part in classification. The class 1 check keeps T defined.
func (e *Engine[T]) meaningful(i int) bool {
	acc := &e.tests[i]
	return acc.Count(0) >= e.cfg.EnoughMeasurements && acc.Count(1) > 1
}

// classify picks the meaningful test with the largest |t| and maps it to a
// verdict. Absence of evidence is never reported as proof of constant time.
func (e *Engine[T]) classify() Report {
	best := -1
	maxT := 0.0
	for i := range e.tests {
		if !e.meaningful(i) {
			continue
		}
		if t := absT(&e.tests[i]); best < 0 || t > maxT {
			best, maxT = i, t
		}
	}

	if best < 0 {
		return e.notEnough()
	}

	acc := &e.tests[best]
	samples := acc.Total()
	maxTau := maxT / math.Sqrt(float64(samples))

	rep := Report{
		Verdict:              NoLeakageEvidenceYet,
		Test:                 e.testID(best),
		MaxT:                 maxT,
		MaxTau:               maxTau,
		MeasurementsToDetect: (e.cfg.DetectSigma * e.cfg.DetectSigma) / (maxTau * maxTau),
		Samples:              samples,
		Step:                 e.steps,
		Dropped:              e.dropped,
		Timings:              e.summary.String(),
	}

	switch {
	case maxT > e.cfg.OverwhelmingT:
		rep.Verdict, rep.Strength = LeakageFound, StrengthOverwhelming
	case maxT > e.cfg.ProbableT:
		rep.Verdict, rep.Strength = LeakageFound, StrengthProbable
	}
	return rep
}

// notEnough reports the test closest to the gate.
func (e *Engine[T]) notEnough() Report {
	best := 0
	for i := range e.tests {
		if e.tests[i].Count(0) > e.tests[best].Count(0) {
			best = i
		}
	}

	acc := &e.tests[best]
	var remaining uint64
	if n := acc.Count(0); n < e.cfg.EnoughMeasurements {
		remaining = e.cfg.EnoughMeasurements - n
	}

	return Report{
		Verdict:   NotEnoughMeasurements,
		Remaining: remaining,
		Test:      e.testID(best),
		Samples:   acc.Total(),
		Step:      e.steps,
		Dropped:   e.dropped,
		Timings:   e.summary.String(),
	}
}
