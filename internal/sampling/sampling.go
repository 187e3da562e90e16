// Package sampling holds the random selection helpers shared by the policies.
// Every helper draws from a caller-owned generator so that episodes stay
// reproducible and parallel workers never share an rng.
package sampling

import (
	"golang.org/x/exp/rand"
)

// Bernoulli returns true with probability p.
func Bernoulli(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	} else if p >= 1 {
		return true
	}

	return rng.Float64() < p
}

// UniformIndex returns an index in [0, n) chosen uniformly at random.
func UniformIndex(rng *rand.Rand, n int) int {
	if n <= 0 {
		panic("cannot sample from an empty set")
	}

	return rng.Intn(n)
}

// Choice returns one element of items uniformly at random.
func Choice[T any](rng *rand.Rand, items []T) T {
	return items[UniformIndex(rng, len(items))]
}

// ArgMax returns the index of the largest score. Ties are broken uniformly
// at random among all indices holding the maximum.
func ArgMax(rng *rand.Rand, scores []float64) int {
	if len(scores) == 0 {
		panic("cannot take argmax of an empty slice")
	}

	best := scores[0]
	nBest := 1
	choice := 0
	for i := 1; i < len(scores); i++ {
		switch s := scores[i]; {
		case s > best:
			best = s
			nBest = 1
			choice = i
		case s == best:
			// Reservoir sampling over the tied set.
			nBest++
			if rng.Intn(nBest) == 0 {
				choice = i
			}
		}
	}

	return choice
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
