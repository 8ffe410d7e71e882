// random.go - pluggable 8-bit random source for the random waveform

package main

import "math/rand/v2"

// RandomSource supplies the single byte per call the random waveform needs.
// Any 8-bit source can be plugged in; the firmware this is modeled on reads
// a byte from the AVR's PRNG, seeded once from the first measured tap period.
type RandomSource interface {
	// Next8 returns the next pseudo-random byte.
	Next8() uint8
	// Reseed re-seeds the source from a 32-bit value. Called exactly once,
	// from the first tap measurement, to decorrelate the waveform between
	// power cycles without needing any persistent storage.
	Reseed(seed uint64)
}

// mathRandSource is the default RandomSource, backed by math/rand/v2.
type mathRandSource struct {
	rng *rand.Rand
}

// NewMathRandSource builds a RandomSource seeded with an arbitrary starting
// value; call Reseed once real entropy (the first tap period) is available.
func NewMathRandSource() *mathRandSource {
	return &mathRandSource{rng: rand.New(rand.NewPCG(0, 0))}
}

func (s *mathRandSource) Next8() uint8 {
	return uint8(s.rng.IntN(256))
}

func (s *mathRandSource) Reseed(seed uint64) {
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
