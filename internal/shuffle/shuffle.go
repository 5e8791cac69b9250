// Package shuffle provides uniform random permutations over an injected,
// seedable random source.
package shuffle

import (
	"math/rand/v2"
)

// Shuffler produces permutations from a single random stream.
// It is not safe for concurrent use.
type Shuffler struct {
	rng *rand.Rand
}

// New returns a Shuffler drawing from src.
func New(src rand.Source) *Shuffler {
	return &Shuffler{rng: rand.New(src)}
}

// NewSeeded returns a Shuffler whose output is fully determined by seed.
func NewSeeded(seed uint64) *Shuffler {
	return New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandom returns a Shuffler seeded from the runtime's random source.
func NewRandom() *Shuffler {
	return New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Perm returns a uniformly random permutation of [0, n).
func (s *Shuffler) Perm(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	s.permute(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx
}

// Float64 returns a value in [0, 1) from the same stream.
func (s *Shuffler) Float64() float64 {
	return s.rng.Float64()
}

// permute runs Fisher–Yates over n positions using swap.
func (s *Shuffler) permute(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		swap(i, j)
	}
}

// Shuffle returns a shuffled copy of items. The input is never mutated.
func Shuffle[T any](s *Shuffler, items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	s.permute(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
