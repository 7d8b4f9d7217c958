package game

import "strconv"

// ZeroSeedFallback replaces a zero seed, which would lock xorshift at zero forever
const ZeroSeedFallback uint32 = 0x9E3779B9

// XorShift32 is the round's only entropy stream. One instance is owned by one
// round and threaded through peg map construction and then path simulation.
type XorShift32 struct {
	state uint32
	draws int
}

// NewXorShift32 seeds a stream, substituting ZeroSeedFallback for zero
func NewXorShift32(seed uint32) *XorShift32 {
	if seed == 0 {
		seed = ZeroSeedFallback
	}
	return &XorShift32{state: seed}
}

// SeedFromHex parses the first 8 hex characters of a combined seed as a
// uint32. A parse failure yields 0, which NewXorShift32 maps to the fallback.
func SeedFromHex(combinedSeedHex string) uint32 {
	head := combinedSeedHex
	if len(head) > 8 {
		head = head[:8]
	}
	v, err := strconv.ParseUint(head, 16, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

// NewSeededRNG builds the stream for a combined seed
func NewSeededRNG(combinedSeedHex string) *XorShift32 {
	return NewXorShift32(SeedFromHex(combinedSeedHex))
}

// Next advances the state and returns a float in [0,1)
func (x *XorShift32) Next() float64 {
	s := x.state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	x.state = s
	x.draws++
	return float64(s) / 4294967296.0
}

// Draws reports how many values have been taken from the stream
func (x *XorShift32) Draws() int {
	return x.draws
}

// SamplePRNG returns the first count draws for a combined seed, rounded to
// 10 digits the way path steps record them
func SamplePRNG(combinedSeedHex string, count int) []float64 {
	rng := NewSeededRNG(combinedSeedHex)
	out := make([]float64, count)
	for i := range out {
		out[i] = RoundToDecimal(rng.Next(), RandomPrecision)
	}
	return out
}
