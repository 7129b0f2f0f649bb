package engine

import (
	"github.com/pg-sharding/timeleak/pkg/cycles"
	"github.com/pg-sharding/timeleak/pkg/models/tlerror"
)

const (
	DefaultBatchSize          = 150
	DefaultTrialSize          = 16
	DefaultPercentiles        = 100
	DefaultEnoughMeasurements = 10000
	DefaultSecondOrderAfter   = 10000
	DefaultWarmupDiscard      = 10
	// test failed with overwhelming probability
	DefaultOverwhelmingT float64 = 500
	// test failed. 4.5 is the textbook value, 10 keeps false positives rare
	DefaultProbableT   float64 = 10
	DefaultDetectSigma float64 = 5
)

// Config is fixed for the lifetime of an Engine.
type Config struct {
	// BatchSize is the number of trials timed per step.
	BatchSize int
	// TrialSize is forwarded untouched to Workload.Compute.
	TrialSize int
	// Percentiles is the number of cropped tests.
	Percentiles int
	// EnoughMeasurements is the class 0 count a test needs before it takes
	// part in classification.
	EnoughMeasurements uint64
	// SecondOrderAfter is the raw class count after which squared centered
	// timings feed the second-order test.
	SecondOrderAfter uint64
	// WarmupDiscard deltas at the start of every batch are ignored.
	WarmupDiscard int

	ProbableT     float64
	OverwhelmingT float64
	// DetectSigma is the |t| used when estimating how many measurements a
	// leak of the current size would need to be detected.
	DetectSigma float64

	// Quantiles reported by the timing summary. Empty means the defaults.
	Quantiles []float64

	// Timer returns the current cycle count. Nil means cycles.Read.
	Timer func() int64
}

// DefaultConfig returns the configuration the command line tool starts from.
func DefaultConfig() Config {
	return Config{
		BatchSize:          DefaultBatchSize,
		TrialSize:          DefaultTrialSize,
		Percentiles:        DefaultPercentiles,
		EnoughMeasurements: DefaultEnoughMeasurements,
		SecondOrderAfter:   DefaultSecondOrderAfter,
		WarmupDiscard:      DefaultWarmupDiscard,
		ProbableT:          DefaultProbableT,
		OverwhelmingT:      DefaultOverwhelmingT,
		DetectSigma:        DefaultDetectSigma,
		Timer:              cycles.Read,
	}
}

// Validate checks that cfg describes a usable engine.
func (cfg *Config) Validate() error {
	switch {
	case cfg.WarmupDiscard < 0:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "warmup discard %d is negative", cfg.WarmupDiscard)
	case cfg.BatchSize < cfg.WarmupDiscard+2:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG,
			"batch size %d leaves no timing after discarding %d warm-up deltas", cfg.BatchSize, cfg.WarmupDiscard)
	case cfg.TrialSize < 0:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "trial size %d is negative", cfg.TrialSize)
	case cfg.Percentiles < 1:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "need at least one percentile, got %d", cfg.Percentiles)
	case cfg.EnoughMeasurements < 2:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG,
			"enough measurements must be at least 2, got %d", cfg.EnoughMeasurements)
	case !(cfg.ProbableT > 0):
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "probable t threshold %v must be positive", cfg.ProbableT)
	case !(cfg.OverwhelmingT >= cfg.ProbableT):
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG,
			"overwhelming t threshold %v is below probable threshold %v", cfg.OverwhelmingT, cfg.ProbableT)
	case !(cfg.DetectSigma > 0):
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "detect sigma %v must be positive", cfg.DetectSigma)
	}
	return nil
}
