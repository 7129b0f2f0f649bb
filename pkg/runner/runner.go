// Package runner drives engines until they reach a verdict, retrying whole
// measurement campaigns the way a flaky hardware measurement needs.
package runner

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pg-sharding/timeleak/pkg/config"
	"github.com/pg-sharding/timeleak/pkg/engine"
	"github.com/pg-sharding/timeleak/pkg/tllog"
	"github.com/pg-sharding/timeleak/pkg/workload"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	retry "github.com/sethvargo/go-retry"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

var errNotConstant = errors.New("leakage found or no verdict reached")

// ProgressFunc observes every step report. try is 1-based.
type ProgressFunc func(op string, try int, rep engine.Report)

// Result is the outcome of checking one operation.
type Result struct {
	Operation string
	// Constant means some campaign ended with no leakage evidence. It is
	// never a proof of constant time.
	Constant bool
	// Inconclusive is set when the last campaign hit the step bound before
	// any test passed the measurement gate.
	Inconclusive bool
	Tries        int
	Last         engine.Report
}

type Summary struct {
	Results []Result
	Passed  uint64
	Failed  uint64
}

// AllConstant reports whether no checked operation showed leakage.
func (s Summary) AllConstant() bool {
	return s.Failed == 0
}

type Runner struct {
	engineCfg engine.Config
	tries     int
	maxSteps  int
	jobs      int
	pause     time.Duration

	src      io.Reader
	progress ProgressFunc

	runID  uuid.UUID
	log    zerolog.Logger
	passed *atomic.Uint64
	failed *atomic.Uint64
}

type Option func(r *Runner)

// WithEntropy replaces crypto/rand as the source of workload randomness.
// The reader must be safe for concurrent use when jobs > 1.
func WithEntropy(src io.Reader) Option {
	return func(r *Runner) {
		r.src = src
	}
}

// WithTimer replaces the hardware cycle counter.
func WithTimer(timer func() int64) Option {
	return func(r *Runner) {
		r.engineCfg.Timer = timer
	}
}

func WithProgress(f ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = f
	}
}

// WithPause sets the wait between two campaigns of one operation.
func WithPause(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.pause = d
		}
	}
}

// New creates a runner for an already validated configuration. Tries and
// jobs below 1 are raised to 1.
func New(cfg *config.Checker, opts ...Option) *Runner {
	r := &Runner{
		engineCfg: cfg.EngineConfig(),
		tries:     max(cfg.Tries, 1),
		maxSteps:  max(cfg.MaxSteps, 0),
		jobs:      max(cfg.Jobs, 1),
		pause:     time.Millisecond,
		src:       rand.Reader,
		runID:     uuid.New(),
		passed:    atomic.NewUint64(0),
		failed:    atomic.NewUint64(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = tllog.Zero.With().Str("run_id", r.runID.String()).Logger()
	return r
}

func (r *Runner) RunID() uuid.UUID {
	return r.runID
}

// Check runs up to tries campaigns for c and stops at the first one that
// finds no leakage evidence. A leakage verdict is a result, not an error;
// errors come from configuration, workloads or ctx.
func (r *Runner) Check(ctx context.Context, c workload.Case) (Result, error) {
	res := Result{Operation: c.Name}

	backoff := retry.WithMaxRetries(uint64(r.tries-1), retry.NewConstant(r.pause))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		res.Tries++
		rep, err := r.campaign(ctx, c, res.Tries)
		res.Last = rep
		if err != nil {
			return err
		}

		r.log.Info().
			Str("op", c.Name).
			Int("try", res.Tries).
			Str("verdict", rep.Verdict.String()).
			Str("strength", rep.Strength.String()).
			Float64("max_t", rep.MaxT).
			Uint64("samples", rep.Samples).
			Msg("campaign finished")

		if rep.Verdict == engine.NoLeakageEvidenceYet {
			return nil
		}
		return retry.RetryableError(errNotConstant)
	})

	switch {
	case err == nil:
		res.Constant = true
		r.passed.Inc()
	case errors.Is(err, errNotConstant):
		res.Inconclusive = !res.Last.Decided()
		r.failed.Inc()
	default:
		return res, err
	}
	return res, nil
}

// campaign steps one fresh engine until it reaches a verdict or the step
// bound. ctx is only checked between steps, never inside a batch.
func (r *Runner) campaign(ctx context.Context, c workload.Case, try int) (engine.Report, error) {
	if err := ctx.Err(); err != nil {
		return engine.Report{}, err
	}
	e, err := c.New(r.engineCfg, r.src)
	if err != nil {
		return engine.Report{}, errors.Wrapf(err, "create engine for %s", c.Name)
	}
	defer func() {
		if err := e.Close(); err != nil {
			r.log.Error().Err(err).Str("op", c.Name).Msg("failed to close engine")
		}
	}()

	var rep engine.Report
	for step := 0; r.maxSteps == 0 || step < r.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		rep, err = e.Step()
		if err != nil {
			return rep, errors.Wrapf(err, "step %d of %s", step+1, c.Name)
		}
		if r.progress != nil {
			r.progress(c.Name, try, rep)
		}
		if rep.Decided() {
			return rep, nil
		}
	}

	r.log.Warn().
		Str("op", c.Name).
		Int("try", try).
		Int("max_steps", r.maxSteps).
		Uint64("remaining", rep.Remaining).
		Msg("step bound reached without a verdict")
	return rep, nil
}

// CheckAll checks every case, at most jobs of them at once, each on its own
// engine. Results keep the order of cases.
func (r *Runner) CheckAll(ctx context.Context, cases []workload.Case) (Summary, error) {
	results := make([]Result, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, c := range cases {
		g.Go(func() error {
			res, err := r.Check(gctx, c)
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	return Summary{
		Results: results,
		Passed:  r.passed.Load(),
		Failed:  r.failed.Load(),
	}, err
}
