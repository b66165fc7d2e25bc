package session

import "math/rand"

// Rand is the randomness the question selector consumes. Tests supply
// deterministic sequences to pin down selections and option orderings.
type Rand interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int
	// Shuffle pseudo-randomizes the order of n elements via swap.
	Shuffle(n int, swap func(i, j int))
}

// NewRand returns a Rand seeded from the global source.
func NewRand() Rand {
	return rand.New(rand.NewSource(rand.Int63()))
}
