package workload

import (
	"io"

	"github.com/go-faster/city"
	"github.com/pg-sharding/timeleak/pkg/engine"
	"github.com/spaolacci/murmur3"
)

// HashWorkload hashes either an all-zero key (class 0) or a random key
// (class 1) of the same length.
type HashWorkload struct {
	hash func([]byte) uint64
	size int
	rnd  entropy

	sink uint64
}

var _ engine.Workload[[]byte] = (*HashWorkload)(nil)

func newHashWorkload(hash func([]byte) uint64, trialSize int, src io.Reader) *HashWorkload {
	return &HashWorkload{
		hash: hash,
		size: trialSize,
		rnd:  entropy{src: src},
	}
}

func (w *HashWorkload) Prepare(slots [][]byte, classes []uint8) error {
	b, err := w.rnd.fill(len(slots) * (w.size + 1))
	if err != nil {
		return err
	}

	for i := range slots {
		if slots[i] == nil {
			slots[i] = make([]byte, w.size)
		}
		chunk := b[i*(w.size+1) : (i+1)*(w.size+1)]
		classes[i] = chunk[0] & 1
		if classes[i] == 0 {
			clear(slots[i])
		} else {
			copy(slots[i], chunk[1:])
		}
	}
	return nil
}

func (w *HashWorkload) Compute(_ int, key []byte) {
	w.sink ^= w.hash(key)
}

func murmur3Hash(key []byte) uint64 {
	return murmur3.Sum64(key)
}

func cityHash(key []byte) uint64 {
	return city.Hash64(key)
}
