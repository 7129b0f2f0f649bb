package cycles_test

import (
	"testing"

	"github.com/pg-sharding/timeleak/pkg/cycles"
	"github.com/stretchr/testify/assert"
)

func TestReadIsNonDecreasing(t *testing.T) {
	assert := assert.New(t)

	prev := cycles.Read()
	for range 10000 {
		cur := cycles.Read()
		assert.GreaterOrEqual(cur, prev)
		prev = cur
	}
}

func TestReadAdvancesOverWork(t *testing.T) {
	assert := assert.New(t)

	start := cycles.Read()
	acc := 0
	for i := range 1_000_000 {
		acc += i * i
	}
	end := cycles.Read()

	assert.NotZero(acc)
	assert.Greater(end, start)
}

func BenchmarkRead(b *testing.B) {
	for b.Loop() {
		_ = cycles.Read()
	}
}
