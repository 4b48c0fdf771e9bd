package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
// Every draw advances one sequential stream, so a run is reproducible from its seed
// as long as draws happen in the same order.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	return r.r.Float64()
}

// Bernoulli reports success with probability p. Values of p at or above 1
// always succeed and values at or below 0 never do.
func (r *RNG) Bernoulli(p float64) bool {
	return r.r.Float64() < p
}

// Uniform returns a value in [lo, hi).
func (r *RNG) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

// Geometric returns the number of failed trials before the first success,
// each trial succeeding with probability p, capped at max.
func (r *RNG) Geometric(p float64, max int) int {
	k := 0
	for k < max && r.r.Float64() >= p {
		k++
	}
	return k
}

// Shuffle permutes n elements using the provided swap function.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.r.Shuffle(n, swap)
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
