package bayes

import "math/rand/v2"

// DefaultRNG wraps the top-level math/rand/v2 generator, seeded
// automatically by the runtime. It is the RNG a hosting shell wires in when
// it has no reason to pin a seed.
type DefaultRNG struct{}

// IntN returns a pseudo-random integer in [0, n).
func (DefaultRNG) IntN(n int) int {
	return rand.IntN(n)
}

// SeededRNG is a deterministic RNG for reproducible sampling, wrapping a
// seeded math/rand/v2.Rand.
type SeededRNG struct {
	r *rand.Rand
}

// NewSeededRNG returns an RNG whose draws are a deterministic function of
// seed.
func NewSeededRNG(seed uint64) *SeededRNG {
	return &SeededRNG{r: rand.New(rand.NewPCG(seed, seed))}
}

// IntN returns a pseudo-random integer in [0, n).
func (s *SeededRNG) IntN(n int) int {
	return s.r.IntN(n)
}
