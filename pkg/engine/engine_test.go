package engine_test

import (
	"math/rand/v2"
	"testing"

	"github.com/pg-sharding/timeleak/pkg/engine"
	"github.com/pg-sharding/timeleak/pkg/models/tlerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstStepOnlyCalibrates(t *testing.T) {
	assert := assert.New(t)

	// a blatant leak must still not be reported on the first step
	w := newSynthetic(1, normal(100, 1), normal(10000, 1))
	e, err := engine.New[int64](testConfig(w.clock), w)
	require.NoError(t, err)
	defer e.Close()

	assert.False(e.Calibrated())

	rep, err := e.Step()
	require.NoError(t, err)

	assert.Equal(engine.NotEnoughMeasurements, rep.Verdict)
	assert.True(rep.Calibration)
	assert.True(e.Calibrated())
	assert.Equal(uint64(0), e.Raw().Total())
	assert.Equal(uint64(0), e.SecondOrder().Total())
	for i := range engine.DefaultPercentiles {
		assert.Equal(uint64(0), e.Cropped(i).Total())
	}
}

func TestThresholdsFrozenAfterCalibration(t *testing.T) {
	w := newSynthetic(2, normal(100, 3), normal(100, 3))
	e, err := engine.New[int64](testConfig(w.clock), w)
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Step()
	require.NoError(t, err)
	thresholds := e.Thresholds()

	for i := 1; i < len(thresholds); i++ {
		assert.LessOrEqual(t, thresholds[i-1], thresholds[i])
	}

	// shift the distribution; thresholds must not follow
	w.cost = [2]func(r *rand.Rand) int64{normal(5000, 3), normal(5000, 3)}
	for range 5 {
		rep, err := e.Step()
		require.NoError(t, err)
		assert.False(t, rep.Calibration)
		assert.Equal(t, thresholds, e.Thresholds())
	}
}

func TestDeterministicReplay(t *testing.T) {
	run := func() ([]engine.Report, *engine.Engine[int64]) {
		w := newSynthetic(42, normal(100, 2), normal(101, 2))
		cfg := testConfig(w.clock)
		cfg.EnoughMeasurements = 500
		e, err := engine.New[int64](cfg, w)
		require.NoError(t, err)

		var reps []engine.Report
		for range 20 {
			rep, err := e.Step()
			require.NoError(t, err)
			reps = append(reps, rep)
		}
		return reps, e
	}

	repsA, a := run()
	repsB, b := run()

	assert.Equal(t, repsA, repsB)
	assert.Equal(t, a.Raw(), b.Raw())
	assert.Equal(t, a.SecondOrder(), b.SecondOrder())
	for i := range engine.DefaultPercentiles {
		assert.Equal(t, a.Cropped(i), b.Cropped(i))
	}
	assert.Equal(t, a.Thresholds(), b.Thresholds())
}

func TestEnoughMeasurementsBoundary(t *testing.T) {
	assert := assert.New(t)

	const enough = 100
	const n = 102 // 101 deltas per batch

	w := &scriptedWorkload{
		clock: &fakeClock{},
		batches: [][]trial{
			batch(n, 50, 100),       // calibration
			batch(n, enough-1, 100), // class 0 reaches enough-1
			batch(n, 1, 100),        // one more class 0 measurement
		},
	}
	cfg := testConfig(w.clock)
	cfg.BatchSize = n
	cfg.WarmupDiscard = 0
	cfg.Percentiles = 1
	cfg.EnoughMeasurements = enough
	cfg.SecondOrderAfter = 1 << 40

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Step()
	require.NoError(t, err)

	rep, err := e.Step()
	require.NoError(t, err)
	assert.Equal(uint64(enough-1), e.Raw().Count(0))
	assert.Equal(engine.NotEnoughMeasurements, rep.Verdict)
	assert.Equal(uint64(1), rep.Remaining)
	assert.Equal(engine.TestRaw, rep.Test.Kind)

	rep, err = e.Step()
	require.NoError(t, err)
	assert.Equal(uint64(enough), e.Raw().Count(0))
	assert.True(rep.Decided())
	assert.Equal(engine.NoLeakageEvidenceYet, rep.Verdict)
	assert.Equal(engine.StrengthNone, rep.Strength)
}

func TestSecondOrderStartsAfterThreshold(t *testing.T) {
	for _, tt := range []struct {
		name   string
		deltas int
		want   uint64
	}{
		{name: "exactly 10000", deltas: 10000, want: 0},
		{name: "10001", deltas: 10001, want: 1},
	} {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.deltas + 1
			w := &scriptedWorkload{
				clock:   &fakeClock{},
				batches: [][]trial{batch(n, n, 100)},
			}
			cfg := testConfig(w.clock)
			cfg.BatchSize = n
			cfg.WarmupDiscard = 0

			e, err := engine.New[int64](cfg, w)
			require.NoError(t, err)
			defer e.Close()

			for range 2 {
				_, err := e.Step()
				require.NoError(t, err)
			}

			assert.Equal(t, uint64(tt.deltas), e.Raw().Count(0))
			assert.Equal(t, tt.want, e.SecondOrder().Total())
		})
	}
}

func TestNegativeDeltasDropped(t *testing.T) {
	assert := assert.New(t)

	const n = 20
	trials := batch(n, n/2, 100)
	trials[5].cost = -1000 // counter wraparound
	trials[12].cost = -1

	w := &scriptedWorkload{clock: &fakeClock{}, batches: [][]trial{trials}}
	cfg := testConfig(w.clock)
	cfg.BatchSize = n
	cfg.WarmupDiscard = 0

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	for range 2 {
		_, err := e.Step()
		require.NoError(t, err)
	}

	assert.Equal(uint64(2), e.Dropped())
	assert.Equal(uint64(n-1-2), e.Raw().Total())
}

func TestWarmupDeltasDiscarded(t *testing.T) {
	const n = 40
	w := &scriptedWorkload{clock: &fakeClock{}, batches: [][]trial{batch(n, n/2, 100)}}
	cfg := testConfig(w.clock)
	cfg.BatchSize = n

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	for range 3 {
		_, err := e.Step()
		require.NoError(t, err)
	}

	assert.Equal(t, uint64(2*(n-1-engine.DefaultWarmupDiscard)), e.Raw().Total())
}

func TestCroppedTiersNest(t *testing.T) {
	w := newSynthetic(5, normal(100, 10), normal(100, 10))
	cfg := testConfig(w.clock)
	cfg.BatchSize = 500

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	for range 10 {
		_, err := e.Step()
		require.NoError(t, err)
	}

	// a delta below a threshold is below every larger one too
	for i := 1; i < engine.DefaultPercentiles; i++ {
		assert.LessOrEqual(t, e.Cropped(i-1).Total(), e.Cropped(i).Total())
	}
	assert.LessOrEqual(t, e.Cropped(engine.DefaultPercentiles-1).Total(), e.Raw().Total())
}

func TestNoLeakageOnIdenticalDistributions(t *testing.T) {
	assert := assert.New(t)

	w := newSynthetic(7, normal(100, 1), normal(100, 1))
	cfg := testConfig(w.clock)
	cfg.BatchSize = 1001

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	var rep engine.Report
	for range 100 {
		rep, err = e.Step()
		require.NoError(t, err)
		if e.Raw().Total() >= 20000 && rep.Decided() {
			break
		}
	}

	assert.GreaterOrEqual(e.Raw().Total(), uint64(20000))
	assert.Equal(engine.NoLeakageEvidenceYet, rep.Verdict, rep.String())
	assert.Less(rep.MaxT, engine.DefaultProbableT)
}

func TestLeakageOnShiftedDistribution(t *testing.T) {
	assert := assert.New(t)

	w := newSynthetic(8, normal(100, 1), normal(200, 1))
	cfg := testConfig(w.clock)
	cfg.BatchSize = 1001

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	var rep engine.Report
	steps := 0
	for !rep.Decided() && steps < 30 {
		rep, err = e.Step()
		require.NoError(t, err)
		steps++
	}

	assert.Equal(engine.LeakageFound, rep.Verdict)
	assert.Equal(engine.StrengthOverwhelming, rep.Strength)
	assert.Greater(rep.MaxT, engine.DefaultOverwhelmingT)
	assert.Greater(rep.MaxTau, 0.0)
	assert.Contains(rep.String(), "Definitely not constant time.")
}

func TestProbableLeakage(t *testing.T) {
	w := newSynthetic(9, normal(100, 5), normal(100.5, 5))
	cfg := testConfig(w.clock)
	cfg.BatchSize = 1001
	cfg.OverwhelmingT = 1e9

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	var rep engine.Report
	for range 200 {
		rep, err = e.Step()
		require.NoError(t, err)
		if rep.Verdict == engine.LeakageFound {
			break
		}
	}

	assert.Equal(t, engine.LeakageFound, rep.Verdict)
	assert.Equal(t, engine.StrengthProbable, rep.Strength)
	assert.Contains(t, rep.String(), "Probably not constant time.")
}

func TestConstantTimingsAreNotEvidence(t *testing.T) {
	const n = 200
	w := &scriptedWorkload{clock: &fakeClock{}, batches: [][]trial{func() []trial {
		out := make([]trial, n)
		for i := range out {
			out[i] = trial{class: uint8(i % 2), cost: 100}
		}
		return out
	}()}}
	cfg := testConfig(w.clock)
	cfg.BatchSize = n
	cfg.EnoughMeasurements = 50

	e, err := engine.New[int64](cfg, w)
	require.NoError(t, err)
	defer e.Close()

	for range 3 {
		_, err = e.Step()
		require.NoError(t, err)
	}
	rep, err := e.Step()
	require.NoError(t, err)

	assert.Equal(t, engine.NoLeakageEvidenceYet, rep.Verdict)
	assert.Equal(t, 0.0, rep.MaxT)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	w := newSynthetic(1, normal(1, 0), normal(1, 0))

	for _, tt := range []struct {
		name   string
		mutate func(cfg *engine.Config)
	}{
		{name: "batch too small", mutate: func(cfg *engine.Config) { cfg.BatchSize = cfg.WarmupDiscard + 1 }},
		{name: "negative warmup", mutate: func(cfg *engine.Config) { cfg.WarmupDiscard = -1 }},
		{name: "negative trial size", mutate: func(cfg *engine.Config) { cfg.TrialSize = -1 }},
		{name: "no percentiles", mutate: func(cfg *engine.Config) { cfg.Percentiles = 0 }},
		{name: "gate below two", mutate: func(cfg *engine.Config) { cfg.EnoughMeasurements = 1 }},
		{name: "zero probable t", mutate: func(cfg *engine.Config) { cfg.ProbableT = 0 }},
		{name: "overwhelming below probable", mutate: func(cfg *engine.Config) { cfg.OverwhelmingT = 5 }},
		{name: "zero sigma", mutate: func(cfg *engine.Config) { cfg.DetectSigma = 0 }},
		{name: "bad quantile", mutate: func(cfg *engine.Config) { cfg.Quantiles = []float64{2} }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(w.clock)
			tt.mutate(&cfg)

			e, err := engine.New[int64](cfg, w)
			assert.Nil(t, e)
			assert.True(t, tlerror.HasCode(err, tlerror.TL_INVALID_CONFIG), "%v", err)
		})
	}

	e, err := engine.New[int64](engine.DefaultConfig(), nil)
	assert.Nil(t, e)
	assert.Error(t, err)
}

func TestStepAfterClose(t *testing.T) {
	w := newSynthetic(1, normal(100, 1), normal(100, 1))
	e, err := engine.New[int64](testConfig(w.clock), w)
	require.NoError(t, err)

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	_, err = e.Step()
	assert.True(t, tlerror.HasCode(err, tlerror.TL_CLOSED))
}
