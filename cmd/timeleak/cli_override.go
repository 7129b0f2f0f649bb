package main

import (
	"fmt"

	"github.com/pg-sharding/timeleak/pkg/config"
	"github.com/pg-sharding/timeleak/pkg/workload"
	"github.com/spf13/cobra"
)

type overrideRule struct {
	name     string
	changed  func() bool
	validate func() error
	apply    func()
}

func positive(name string, v int) func() error {
	return func() error {
		if v < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", name, v)
		}
		return nil
	}
}

func buildOverrideRules(cmd *cobra.Command, cfg *config.Checker) []overrideRule {
	changed := func(name string) func() bool {
		return func() bool { return cmd.Flags().Changed(name) }
	}
	return []overrideRule{
		{
			name:    "log-level",
			changed: changed("log-level"),
			apply:   func() { cfg.LogLevel = logLevel },
		},
		{
			name:    "pretty-log",
			changed: changed("pretty-log"),
			apply:   func() { cfg.PrettyLog = prettyLogging },
		},
		{
			name:    "op",
			changed: changed("op"),
			validate: func() error {
				if len(operations) == 0 {
					return fmt.Errorf("at least one operation is required")
				}
				_, err := workload.LookupAll(operations)
				return err
			},
			apply: func() { cfg.Operations = operations },
		},
		{
			name:     "tries",
			changed:  changed("tries"),
			validate: positive("tries", tries),
			apply:    func() { cfg.Tries = tries },
		},
		{
			name:     "batch-size",
			changed:  changed("batch-size"),
			validate: positive("batch-size", batchSize),
			apply:    func() { cfg.BatchSize = batchSize },
		},
		{
			name:     "jobs",
			changed:  changed("jobs"),
			validate: positive("jobs", jobs),
			apply:    func() { cfg.Jobs = jobs },
		},
		{
			name:    "max-steps",
			changed: changed("max-steps"),
			validate: func() error {
				if maxSteps < 0 {
					return fmt.Errorf("max-steps %d is negative", maxSteps)
				}
				return nil
			},
			apply: func() { cfg.MaxSteps = maxSteps },
		},
	}
}

func applyOverrides(cmd *cobra.Command, cfg *config.Checker) error {
	rules := buildOverrideRules(cmd, cfg)
	for _, r := range rules {
		if r.changed() && r.validate != nil {
			if err := r.validate(); err != nil {
				return fmt.Errorf("%s: %w", r.name, err)
			}
		}
	}
	for _, r := range rules {
		if r.changed() {
			r.apply()
		}
	}
	return nil
}
