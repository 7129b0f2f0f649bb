package config

import (
	"encoding/json"
	"log"
	"os"
	"slices"

	"github.com/pg-sharding/timeleak/pkg/engine"
	"github.com/pg-sharding/timeleak/pkg/models/tlerror"
	"github.com/pg-sharding/timeleak/pkg/workload"
)

type Checker struct {
	LogLevel  string `json:"log_level" toml:"log_level" yaml:"log_level"`
	PrettyLog bool   `json:"pretty_log" toml:"pretty_log" yaml:"pretty_log"`
	LogFile   string `json:"log_file" toml:"log_file" yaml:"log_file"`

	BatchSize          int     `json:"batch_size" toml:"batch_size" yaml:"batch_size"`
	TrialSize          int     `json:"trial_size" toml:"trial_size" yaml:"trial_size"`
	Percentiles        int     `json:"percentiles" toml:"percentiles" yaml:"percentiles"`
	EnoughMeasurements uint64  `json:"enough_measurements" toml:"enough_measurements" yaml:"enough_measurements"`
	SecondOrderAfter   uint64  `json:"second_order_after" toml:"second_order_after" yaml:"second_order_after"`
	WarmupDiscard      int     `json:"warmup_discard" toml:"warmup_discard" yaml:"warmup_discard"`
	ProbableT          float64 `json:"t_threshold_probable" toml:"t_threshold_probable" yaml:"t_threshold_probable"`
	OverwhelmingT      float64 `json:"t_threshold_overwhelming" toml:"t_threshold_overwhelming" yaml:"t_threshold_overwhelming"`
	DetectSigma        float64 `json:"detect_sigma" toml:"detect_sigma" yaml:"detect_sigma"`
	// TimeQuantiles are the per-class timing quantiles shown in diagnostics.
	TimeQuantiles []float64 `json:"time_quantiles" toml:"time_quantiles" yaml:"time_quantiles"`

	// Tries is the number of independent campaigns an operation gets before
	// it is declared not constant time.
	Tries int `json:"tries" toml:"tries" yaml:"tries"`
	// MaxSteps bounds the steps of one campaign, 0 means unbounded.
	MaxSteps   int      `json:"max_steps" toml:"max_steps" yaml:"max_steps"`
	Jobs       int      `json:"jobs" toml:"jobs" yaml:"jobs"`
	Operations []string `json:"operations" toml:"operations" yaml:"operations"`
}

var cfgChecker = DefaultChecker()

// DefaultChecker returns the built-in configuration.
func DefaultChecker() Checker {
	return Checker{
		LogLevel:           "info",
		BatchSize:          engine.DefaultBatchSize,
		TrialSize:          engine.DefaultTrialSize,
		Percentiles:        engine.DefaultPercentiles,
		EnoughMeasurements: engine.DefaultEnoughMeasurements,
		SecondOrderAfter:   engine.DefaultSecondOrderAfter,
		WarmupDiscard:      engine.DefaultWarmupDiscard,
		ProbableT:          engine.DefaultProbableT,
		OverwhelmingT:      engine.DefaultOverwhelmingT,
		DetectSigma:        engine.DefaultDetectSigma,
		Tries:              10,
		Jobs:               1,
		Operations:         slices.Clone(workload.DefaultOperations),
	}
}

// LoadCheckerCfg loads the checker configuration from the specified file
// path on top of the defaults.
//
// Parameters:
//   - cfgPath (string): The path of the configuration file.
//
// Returns:
//   - string: JSON-formatted config
//   - error: An error if any occurred during the loading process.
func LoadCheckerCfg(cfgPath string) (string, error) {
	ccfg := DefaultChecker()
	file, err := os.Open(cfgPath)
	if err != nil {
		return "", err
	}
	defer func(file *os.File) {
		err := file.Close()
		if err != nil {
			log.Printf("failed to close config file: %v", err)
		}
	}(file)

	if err := initConfig(file, &ccfg); err != nil {
		return "", err
	}
	if err := ccfg.Validate(); err != nil {
		return "", err
	}
	cfgChecker = ccfg

	configBytes, err := json.MarshalIndent(&cfgChecker, "", "  ")
	if err != nil {
		return "", err
	}
	return string(configBytes), nil
}

// CheckerConfig returns a pointer to the loaded checker configuration.
func CheckerConfig() *Checker {
	return &cfgChecker
}

// Validate checks the fields the engine does not check itself.
func (c *Checker) Validate() error {
	switch {
	case c.Tries < 1:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "tries must be at least 1, got %d", c.Tries)
	case c.MaxSteps < 0:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "max steps %d is negative", c.MaxSteps)
	case c.Jobs < 1:
		return tlerror.Newf(tlerror.TL_INVALID_CONFIG, "jobs must be at least 1, got %d", c.Jobs)
	}
	ecfg := c.EngineConfig()
	return ecfg.Validate()
}

// EngineConfig converts c into the configuration of one engine, timed with
// the hardware cycle counter.
func (c *Checker) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.BatchSize = c.BatchSize
	cfg.TrialSize = c.TrialSize
	cfg.Percentiles = c.Percentiles
	cfg.EnoughMeasurements = c.EnoughMeasurements
	cfg.SecondOrderAfter = c.SecondOrderAfter
	cfg.WarmupDiscard = c.WarmupDiscard
	cfg.ProbableT = c.ProbableT
	cfg.OverwhelmingT = c.OverwhelmingT
	cfg.DetectSigma = c.DetectSigma
	cfg.Quantiles = c.TimeQuantiles
	return cfg
}
