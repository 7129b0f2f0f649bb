// Package engine detects data-dependent timing differences in an operation.
//
// Every step times one batch of trials whose inputs were split into two
// classes by a Workload, then feeds the timings into a family of online
// Welch's t-tests: one on raw timings, one per cropping percentile and one
// second-order test on squared centered timings. The first step only
// calibrates the cropping percentiles. The test with the largest |t| decides
// the verdict.
//
// An Engine owns all of its buffers and is not safe for concurrent use.
// Independent engines share nothing and may run on separate goroutines,
// although any parallel work adds noise to the measurement.
package engine

import (
	"math"

	"github.com/pg-sharding/timeleak/pkg/cycles"
	"github.com/pg-sharding/timeleak/pkg/models/tlerror"
	"github.com/pg-sharding/timeleak/pkg/percentile"
	"github.com/pg-sharding/timeleak/pkg/statistics"
	"github.com/pg-sharding/timeleak/pkg/tllog"
	"github.com/pg-sharding/timeleak/pkg/ttest"
)

type Engine[T any] struct {
	cfg      Config
	workload Workload[T]
	timer    func() int64

	slots   []T
	classes []uint8
	ticks   []int64
	deltas  []int64

	// tests[0] is raw, tests[1:1+P] are cropped, the last one is second-order.
	tests      []ttest.Accumulator
	thresholds []int64
	calibrated bool

	summary *statistics.TimingSummary

	steps   uint64
	dropped uint64
	closed  bool
}

var _ Stepper = (*Engine[int])(nil)

// New validates cfg and allocates every buffer the engine will need, so no
// allocation happens while timing. On error nothing is returned.
func New[T any](cfg Config, w Workload[T]) (*Engine[T], error) {
	if w == nil {
		return nil, tlerror.New(tlerror.TL_INVALID_CONFIG, "workload is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	summary, err := statistics.NewTimingSummary(cfg.Quantiles...)
	if err != nil {
		return nil, tlerror.Newf(tlerror.TL_INVALID_CONFIG, "timing summary: %w", err)
	}

	timer := cfg.Timer
	if timer == nil {
		timer = cycles.Read
	}

	return &Engine[T]{
		cfg:        cfg,
		workload:   w,
		timer:      timer,
		slots:      make([]T, cfg.BatchSize),
		classes:    make([]uint8, cfg.BatchSize),
		ticks:      make([]int64, cfg.BatchSize),
		deltas:     make([]int64, cfg.BatchSize-1),
		tests:      make([]ttest.Accumulator, cfg.Percentiles+2),
		thresholds: make([]int64, cfg.Percentiles),
		summary:    summary,
	}, nil
}

// Step measures one fresh batch. The first step calibrates the cropping
// thresholds and always reports NotEnoughMeasurements; later steps update
// the statistics and classify them.
func (e *Engine[T]) Step() (Report, error) {
	if e.closed {
		return Report{}, tlerror.New(tlerror.TL_CLOSED, "step on a closed engine")
	}

	if err := e.workload.Prepare(e.slots, e.classes); err != nil {
		return Report{}, tlerror.Newf(tlerror.TL_PREPARE_FAILED, "prepare batch: %w", err)
	}
	for i, c := range e.classes {
		if c > 1 {
			return Report{}, tlerror.Newf(tlerror.TL_PREPARE_FAILED, "trial %d labeled with class %d", i, c)
		}
	}

	e.measure()
	e.steps++

	if !e.calibrated {
		// the first batch warms things up and is thrown away after calibration
		percentile.Thresholds(e.thresholds, e.deltas)
		e.calibrated = true

		tllog.Zero.Debug().
			Int64("lowest", e.thresholds[0]).
			Int64("highest", e.thresholds[len(e.thresholds)-1]).
			Int("percentiles", len(e.thresholds)).
			Msg("cropping thresholds calibrated")

		return Report{
			Verdict:     NotEnoughMeasurements,
			Calibration: true,
			Remaining:   e.cfg.EnoughMeasurements,
			Step:        e.steps,
		}, nil
	}

	e.update()
	rep := e.classify()

	tllog.Zero.Debug().
		Uint64("step", rep.Step).
		Str("verdict", rep.Verdict.String()).
		Str("test", rep.Test.String()).
		Float64("max_t", rep.MaxT).
		Uint64("samples", rep.Samples).
		Msg("engine step classified")

	return rep, nil
}

// Close releases the slots through the workload, if it is a Releaser, and
// drops every buffer. Calling Close again does nothing.
func (e *Engine[T]) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if r, ok := e.workload.(Releaser[T]); ok {
		for _, slot := range e.slots {
			r.Release(slot)
		}
	}

	e.slots = nil
	e.classes = nil
	e.ticks = nil
	e.deltas = nil
	return nil
}

func (e *Engine[T]) Calibrated() bool {
	return e.calibrated
}

// Thresholds returns a copy of the cropping thresholds.
func (e *Engine[T]) Thresholds() []int64 {
	return append([]int64(nil), e.thresholds...)
}

// Raw returns a snapshot of the t-test on uncropped timings.
func (e *Engine[T]) Raw() ttest.Accumulator {
	return e.tests[0]
}

// Cropped returns a snapshot of the t-test for cropping percentile i.
func (e *Engine[T]) Cropped(i int) ttest.Accumulator {
	return e.tests[i+1]
}

// SecondOrder returns a snapshot of the second-order t-test.
func (e *Engine[T]) SecondOrder() ttest.Accumulator {
	return e.tests[len(e.tests)-1]
}

func (e *Engine[T]) Summary() *statistics.TimingSummary {
	return e.summary
}

func (e *Engine[T]) Dropped() uint64 {
	return e.dropped
}

func (e *Engine[T]) testID(i int) TestID {
	switch {
	case i == 0:
		return TestID{Kind: TestRaw}
	case i == len(e.tests)-1:
		return TestID{Kind: TestSecondOrder}
	default:
		return TestID{Kind: TestCropped, Percentile: i - 1, Threshold: e.thresholds[i-1]}
	}
}

// absT returns |t| of a test, with an undefined statistic (both classes
// constant) counted as no evidence.
func absT(acc *ttest.Accumulator) float64 {
	t := math.Abs(acc.T())
	if math.IsNaN(t) {
		return 0
	}
	return t
}
