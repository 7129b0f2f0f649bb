package engine

//go:generate mockgen -source=pkg/engine/workload.go -destination=pkg/mock/workload/workload_mock.go -package=mock_workload

// Workload is the operation under test together with the inputs it runs on.
// T is the per-trial input state.
type Workload[T any] interface {
	// Prepare fills every slot with a fresh input and labels it with class
	// 0 or 1. It is called once per batch, outside the timed region.
	Prepare(slots []T, classes []uint8) error
	// Compute runs one trial on slot. Its cost is what gets measured.
	Compute(size int, slot T)
}

// Releaser is implemented by workloads whose slots hold resources that must
// be dropped when the engine is closed.
type Releaser[T any] interface {
	Release(slot T)
}

// Stepper is an Engine with its input type erased.
type Stepper interface {
	Step() (Report, error)
	Close() error
}
