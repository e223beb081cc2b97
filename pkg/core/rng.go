package core

import "math/rand/v2"

// Mix32 is the lowbias32 integer avalanche mixer. It is used both to advance
// seeds and to derive feature point offsets from tile indices.
func Mix32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// SeedSource hands out decorrelated channel seeds. It is owned by whoever
// builds the channel list and is never consulted while sampling.
type SeedSource struct {
	state uint32
}

// zeroState replaces a zero initial state, which is a fixed point of Mix32.
const zeroState = 0x9e3779b9

// NewSeedSource creates a deterministic seed source from the initial state.
func NewSeedSource(state uint32) *SeedSource {
	if state == 0 {
		state = zeroState
	}
	return &SeedSource{state: state}
}

// RandomSeedSource creates a seed source with a randomly drawn initial state.
func RandomSeedSource() *SeedSource {
	return NewSeedSource(rand.Uint32())
}

// Next advances the state and returns it as a fresh seed.
func (s *SeedSource) Next() uint32 {
	s.state = Mix32(s.state)
	return s.state
}

// State reports the current internal state without advancing it.
func (s *SeedSource) State() uint32 { return s.state }
