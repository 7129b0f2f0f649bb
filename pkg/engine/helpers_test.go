package engine_test

import (
	"math"
	"math/rand/v2"

	"github.com/pg-sharding/timeleak/pkg/engine"
)

// fakeClock advances only when a synthetic trial runs, so a delta equals the
// cost stored in the slot that was just computed.
type fakeClock struct {
	now int64
}

func (c *fakeClock) Read() int64 {
	return c.now
}

// syntheticWorkload draws a random class per trial and a cost from the
// distribution of that class. Slots hold the cost in cycles.
type syntheticWorkload struct {
	clock *fakeClock
	rng   *rand.Rand
	cost  [2]func(r *rand.Rand) int64
}

func newSynthetic(seed uint64, cost0, cost1 func(r *rand.Rand) int64) *syntheticWorkload {
	return &syntheticWorkload{
		clock: &fakeClock{now: 1 << 20},
		rng:   rand.New(rand.NewPCG(seed, seed+1)),
		cost:  [2]func(r *rand.Rand) int64{cost0, cost1},
	}
}

func (w *syntheticWorkload) Prepare(slots []int64, classes []uint8) error {
	for i := range slots {
		classes[i] = uint8(w.rng.IntN(2))
		slots[i] = w.cost[classes[i]](w.rng)
	}
	return nil
}

func (w *syntheticWorkload) Compute(_ int, slot int64) {
	w.clock.now += slot
}

func normal(mean, sd float64) func(r *rand.Rand) int64 {
	return func(r *rand.Rand) int64 {
		return int64(math.Round(mean + sd*r.NormFloat64()))
	}
}

// scriptedWorkload replays fixed batches of (class, cost) pairs.
type scriptedWorkload struct {
	clock   *fakeClock
	batches [][]trial
	next    int
}

type trial struct {
	class uint8
	cost  int64
}

func (w *scriptedWorkload) Prepare(slots []int64, classes []uint8) error {
	b := w.batches[w.next%len(w.batches)]
	w.next++
	for i := range slots {
		classes[i] = b[i].class
		slots[i] = b[i].cost
	}
	return nil
}

func (w *scriptedWorkload) Compute(_ int, slot int64) {
	w.clock.now += slot
}

// batch builds n trials: the first n0 are class 0, the rest class 1. Costs
// alternate between base and base+1 within each class.
func batch(n, n0 int, base int64) []trial {
	out := make([]trial, n)
	for i := range out {
		if i < n0 {
			out[i] = trial{class: 0, cost: base + int64(i%2)}
		} else {
			out[i] = trial{class: 1, cost: base + int64(i%2)}
		}
	}
	return out
}

func testConfig(clock *fakeClock) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Timer = clock.Read
	return cfg
}
