package engine

import "math/rand/v2"

// RandomSource is the randomness the engine needs for spawning tiles.
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	IntN(n int) int
	Float64() float64
}

// globalSource forwards to the process-wide generator
type globalSource struct{}

func (globalSource) IntN(n int) int   { return rand.IntN(n) }
func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns the shared, automatically seeded source
func DefaultSource() RandomSource {
	return globalSource{}
}

// NewSeededSource returns a deterministic source. Two engines built with the
// same seed and fed the same moves produce identical games.
func NewSeededSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
