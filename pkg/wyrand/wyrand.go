// Package wyrand implements the wyhash64 pseudo-random generator.
package wyrand

import "math/bits"

const (
	increment = 0x60bee2bee120fc15
	mulFirst  = 0xa3b195354a39b70d
	mulSecond = 0x1b03738712fad5c9
)

// Source is a deterministic 64-bit generator whose whole state is one word.
// It satisfies math/rand/v2.Source. A Source is not safe for concurrent use.
type Source struct {
	state uint64
}

func New(seed uint64) *Source {
	return &Source{state: seed}
}

// Seed restarts the sequence from seed.
func (s *Source) Seed(seed uint64) {
	s.state = seed
}

// State returns the current state word.
func (s *Source) State() uint64 {
	return s.state
}

func (s *Source) Uint64() uint64 {
	s.state += increment

	hi, lo := bits.Mul64(s.state, mulFirst)
	m1 := hi ^ lo

	hi, lo = bits.Mul64(m1, mulSecond)

	return hi ^ lo
}
