package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/pg-sharding/timeleak/pkg"
	"github.com/pg-sharding/timeleak/pkg/config"
	"github.com/pg-sharding/timeleak/pkg/engine"
	"github.com/pg-sharding/timeleak/pkg/runner"
	"github.com/pg-sharding/timeleak/pkg/tllog"
	"github.com/pg-sharding/timeleak/pkg/workload"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	cfgPath       string
	logLevel      string
	prettyLogging bool

	operations   []string
	tries        int
	batchSize    int
	jobs         int
	maxSteps     int
	showProgress bool
)

var rootCmd = &cobra.Command{
	Use:   "timeleak run --config `path-to-config`",
	Short: "timeleak",
	Long:  "Statistical detection of timing leakage in operations that should run in constant time",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		tllog.Zero.Error().Err(err).Msg("")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level")
	rootCmd.PersistentFlags().BoolVarP(&prettyLogging, "pretty-log", "P", false, "write logs in pretty format")

	runCmd.Flags().StringSliceVarP(&operations, "op", "o", nil, "operations to check, see `list`")
	runCmd.Flags().IntVar(&tries, "tries", 0, "campaigns per operation before it is declared leaking")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 0, "measurements per step")
	runCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "operations checked concurrently")
	runCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "step bound of one campaign, 0 is unbounded")
	runCmd.Flags().BoolVar(&showProgress, "progress", false, "print the report of every step")

	rootCmd.AddCommand(runCmd, listCmd, versionCmd)
}

// loadConfig returns the file configuration, or the defaults when no file
// was given, with command line overrides applied.
func loadConfig(cmd *cobra.Command) (*config.Checker, error) {
	if cfgPath != "" {
		cfgStr, err := config.LoadCheckerCfg(cfgPath)
		if err != nil {
			return nil, err
		}
		tllog.Zero.Debug().Str("config", cfgStr).Msg("loaded config")
	}
	cfg := config.CheckerConfig()
	if err := applyOverrides(cmd, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tllog.ReloadLogger(cfg.LogFile, cfg.PrettyLog)
	tllog.UpdateZeroLogLevel(cfg.LogLevel)
	return cfg, nil
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "check operations for timing leakage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cases, err := workload.LookupAll(cfg.Operations)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		opts := []runner.Option{}
		if showProgress {
			opts = append(opts, runner.WithProgress(func(op string, try int, rep engine.Report) {
				mu.Lock()
				defer mu.Unlock()
				_, _ = fmt.Fprintf(out, "%-12s try %2d: %s\n", op, try, rep)
			}))
		}

		r := runner.New(cfg, opts...)
		tllog.Zero.Info().
			Str("run_id", r.RunID().String()).
			Strs("operations", cfg.Operations).
			Int("tries", cfg.Tries).
			Int("jobs", cfg.Jobs).
			Msg("starting timing checks")

		sum, err := r.CheckAll(ctx, cases)
		if err != nil {
			return errors.Wrap(err, "timing check aborted")
		}

		for _, res := range sum.Results {
			_, _ = fmt.Fprintln(out, formatResult(res))
		}
		if !sum.AllConstant() {
			return fmt.Errorf("%d of %d operations are not constant time", sum.Failed, len(sum.Results))
		}
		return nil
	},
}

func formatResult(res runner.Result) string {
	status := "constant time"
	switch {
	case res.Constant:
	case res.Inconclusive:
		status = "inconclusive"
	default:
		status = "NOT constant time"
	}
	return fmt.Sprintf("%-12s %-18s tries: %d, %s", res.Operation, status, res.Tries, res.Last)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "list the operations that can be checked",
	Run: func(cmd *cobra.Command, args []string) {
		for _, c := range workload.Cases() {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", c.Name, c.Description)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the version",
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "timeleak %s\n", pkg.TimeleakVersionRevision)
	},
}

func main() {
	Execute()
}
