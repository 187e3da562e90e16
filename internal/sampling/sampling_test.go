package sampling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgMax_BreaksTiesUniformly(t *testing.T) {
	rng := NewRand(1)
	scores := []float64{0.1, 0.7, 0.3, 0.7, 0.7}

	counts := make(map[int]int)
	const n = 30000
	for i := 0; i < n; i++ {
		counts[ArgMax(rng, scores)]++
	}

	assert.Len(t, counts, 3)
	for _, idx := range []int{1, 3, 4} {
		frac := float64(counts[idx]) / n
		assert.InDelta(t, 1.0/3, frac, 0.02, "index %d", idx)
	}
}

func TestArgMax_SingleMaximum(t *testing.T) {
	rng := NewRand(2)
	for i := 0; i < 100; i++ {
		assert.Equal(t, 2, ArgMax(rng, []float64{-1, 0.5, 0.9, 0.2}))
	}
}

func TestBernoulli_Extremes(t *testing.T) {
	rng := NewRand(3)
	for i := 0; i < 100; i++ {
		assert.False(t, Bernoulli(rng, 0))
		assert.True(t, Bernoulli(rng, 1))
	}
}

func TestUniformIndex_PanicsOnEmpty(t *testing.T) {
	assert.Panics(t, func() { UniformIndex(NewRand(4), 0) })
}
