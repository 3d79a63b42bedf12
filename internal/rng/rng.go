// Package rng provides the random source passed explicitly into every
// simulation call. There is no package-global generator: each request gets
// its own source, so simulations stay independently testable and safe to
// run in parallel.
package rng

import (
	"math/rand"
	"sync/atomic"
	"time"
)

var counter atomic.Int64

type Source struct {
	r *rand.Rand
}

// New returns a source with a fresh seed. The atomic counter keeps two
// sources created in the same nanosecond from sharing a stream.
func New() *Source {
	seed := time.Now().UnixNano() ^ (counter.Add(1) << 32)
	return NewSeeded(seed)
}

// NewSeeded returns a reproducible source for tests.
func NewSeeded(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (s *Source) Intn(n int) int {
	return s.r.Intn(n)
}

// Between returns a uniform int in [lo, hi] inclusive.
func (s *Source) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.Intn(hi-lo+1)
}

// Float64 returns a uniform float in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Uniform returns a uniform float in [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

// Chance reports true with probability p.
func (s *Source) Chance(p float64) bool {
	return s.r.Float64() < p
}

// Shuffle permutes n elements via the provided swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}
