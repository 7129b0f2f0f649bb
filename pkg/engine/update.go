package engine

import "github.com/pg-sharding/timeleak/pkg/tllog"

// update pushes the batch deltas into every test. Tests accumulate over the
// whole life of the engine.
func (e *Engine[T]) update() {
	raw := &e.tests[0]
	second := &e.tests[len(e.tests)-1]
	cropped := e.tests[1 : len(e.tests)-1]

	for i := e.cfg.WarmupDiscard; i < len(e.deltas); i++ {
		d := e.deltas[i]
		if d < 0 {
			// the counter wrapped around
			e.dropped++
			continue
		}
		class := e.classes[i]
		x := float64(d)

		raw.Push(x, class)

		// a delta lands in every tier whose threshold it is below
		for j, th := range e.thresholds {
			if d < th {
				cropped[j].Push(x, class)
			}
		}

		if raw.Count(0) > e.cfg.SecondOrderAfter || raw.Count(1) > e.cfg.SecondOrderAfter {
			centered := x - raw.Mean(class)
			second.Push(centered*centered, class)
		}

		if err := e.summary.Add(class, x); err != nil {
			tllog.Zero.Debug().Err(err).Uint8("class", class).Msg("timing summary skipped a delta")
		}
	}
}
