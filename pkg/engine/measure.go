package engine

// measure times every trial of the batch. One timer read per trial keeps the
// overhead low; delta i spans trial i plus loop overhead, which is the same
// for both classes.
func (e *Engine[T]) measure() {
	size := e.cfg.TrialSize
	for i := range e.slots {
		e.ticks[i] = e.timer()
		e.workload.Compute(size, e.slots[i])
	}

	for i := range e.deltas {
		e.deltas[i] = e.ticks[i+1] - e.ticks[i]
	}
}
