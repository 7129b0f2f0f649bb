// Package workload provides the operations the command line tool checks for
// timing leaks, each packaged with the input populations it is checked on.
package workload

import (
	"io"
	"slices"

	"github.com/pg-sharding/timeleak/pkg/engine"
	"github.com/pg-sharding/timeleak/pkg/models/tlerror"
	"github.com/pg-sharding/timeleak/pkg/queue"
)

// Case builds a fresh engine for one named operation.
type Case struct {
	Name        string
	Description string

	// New creates a workload drawing randomness from src and an engine
	// driving it.
	New func(cfg engine.Config, src io.Reader) (engine.Stepper, error)
}

func queueCase(name, description string, op queueOp) Case {
	return Case{
		Name:        name,
		Description: description,
		New: func(cfg engine.Config, src io.Reader) (engine.Stepper, error) {
			w, err := newQueueWorkload(op, cfg.TrialSize, src)
			if err != nil {
				return nil, err
			}
			e, err := engine.New[*queue.Queue](cfg, w)
			if err != nil {
				return nil, err
			}
			return e, nil
		},
	}
}

func hashCase(name, description string, hash func([]byte) uint64) Case {
	return Case{
		Name:        name,
		Description: description,
		New: func(cfg engine.Config, src io.Reader) (engine.Stepper, error) {
			e, err := engine.New[[]byte](cfg, newHashWorkload(hash, cfg.TrialSize, src))
			if err != nil {
				return nil, err
			}
			return e, nil
		},
	}
}

var cases = []Case{
	queueCase("insert_head", "insert an element at the head of a queue", insertHead),
	queueCase("insert_tail", "insert an element at the tail of a queue", insertTail),
	queueCase("remove_head", "remove the head element of a queue", removeHead),
	queueCase("remove_tail", "remove the tail element of a queue", removeTail),
	// linear in the queue length, so expected to leak
	queueCase("delete_mid", "delete the middle element of a queue", deleteMid),
	hashCase("murmur3", "64-bit murmur3 of a fixed-size key", murmur3Hash),
	hashCase("cityhash", "64-bit CityHash of a fixed-size key", cityHash),
}

// DefaultOperations are the queue operations checked when none are named.
var DefaultOperations = []string{"insert_head", "insert_tail", "remove_head", "remove_tail"}

// Cases returns every registered case in registration order.
func Cases() []Case {
	return slices.Clone(cases)
}

func Names() []string {
	names := make([]string, 0, len(cases))
	for _, c := range cases {
		names = append(names, c.Name)
	}
	return names
}

// Lookup finds a case by name.
func Lookup(name string) (Case, error) {
	for _, c := range cases {
		if c.Name == name {
			return c, nil
		}
	}
	return Case{}, tlerror.Newf(tlerror.TL_UNKNOWN_OP, "no operation named %q", name)
}

// LookupAll resolves names in order, failing on the first unknown one.
func LookupAll(names []string) ([]Case, error) {
	out := make([]Case, 0, len(names))
	for _, name := range names {
		c, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
