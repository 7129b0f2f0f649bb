package engine

import (
	"fmt"
	"strings"
)

type Verdict int

const (
	NotEnoughMeasurements Verdict = iota
	NoLeakageEvidenceYet
	LeakageFound
)

func (v Verdict) String() string {
	switch v {
	case NotEnoughMeasurements:
		return "not enough measurements"
	case NoLeakageEvidenceYet:
		return "no leakage evidence yet"
	case LeakageFound:
		return "leakage found"
	default:
		return "unknown"
	}
}

// Strength grades a LeakageFound verdict.
type Strength int

const (
	StrengthNone Strength = iota
	StrengthProbable
	StrengthOverwhelming
)

func (s Strength) String() string {
	switch s {
	case StrengthNone:
		return "none"
	case StrengthProbable:
		return "probable"
	case StrengthOverwhelming:
		return "overwhelming"
	default:
		return "unknown"
	}
}

type TestKind int

const (
	TestRaw TestKind = iota
	TestCropped
	TestSecondOrder
)

func (k TestKind) String() string {
	switch k {
	case TestRaw:
		return "raw"
	case TestCropped:
		return "cropped"
	case TestSecondOrder:
		return "second-order"
	default:
		return "unknown"
	}
}

// TestID names one of the t-tests an engine runs.
type TestID struct {
	Kind TestKind
	// Percentile and Threshold are set for cropped tests only.
	Percentile int
	Threshold  int64
}

func (id TestID) String() string {
	if id.Kind == TestCropped {
		return fmt.Sprintf("cropped[%d] <%d", id.Percentile, id.Threshold)
	}
	return id.Kind.String()
}

// Report is the outcome of one engine step.
type Report struct {
	Verdict  Verdict
	Strength Strength

	// Calibration is set on the first step, whose batch only sets thresholds.
	Calibration bool
	// Remaining is how many more class 0 measurements the most advanced
	// test needs before a verdict. Only meaningful for NotEnoughMeasurements.
	Remaining uint64

	// Test that produced the largest |t|.
	Test TestID
	// MaxT is the largest |t| over all tests past the gate.
	MaxT float64
	// MaxTau is MaxT normalized by the square root of the sample count.
	MaxTau float64
	// MeasurementsToDetect is (DetectSigma/MaxTau)^2.
	MeasurementsToDetect float64
	// Samples counts both classes of the selected test.
	Samples uint64

	// Step is the 1-based number of the step that produced this report.
	Step uint64
	// Dropped counts negative deltas thrown away so far.
	Dropped uint64
	// Timings summarizes per-class quantiles, empty on calibration.
	Timings string
}

// Decided reports whether r carries a real verdict.
func (r Report) Decided() bool {
	return r.Verdict != NotEnoughMeasurements
}

// String renders a one-line progress message.
func (r Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "meas: %7.2f M, ", float64(r.Samples)/1e6)

	if r.Calibration {
		sb.WriteString("calibrating cropping thresholds.")
		return sb.String()
	}
	if r.Verdict == NotEnoughMeasurements {
		fmt.Fprintf(&sb, "not enough measurements (%d still to go).", r.Remaining)
		return sb.String()
	}

	fmt.Fprintf(&sb, "max t: %+7.2f, max tau: %.2e, to detect: %.2e.", r.MaxT, r.MaxTau, r.MeasurementsToDetect)
	switch {
	case r.Strength == StrengthOverwhelming:
		sb.WriteString(" Definitely not constant time.")
	case r.Strength == StrengthProbable:
		sb.WriteString(" Probably not constant time.")
	default:
		sb.WriteString(" For the moment, maybe constant time.")
	}
	return sb.String()
}
