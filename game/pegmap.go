package game

import (
	"strings"

	"plinkoServer/crypto"
)

// PegMap holds one left bias per peg; row r has r+1 pegs
type PegMap [][]float64

// BuildPegMap draws PegCount values from rng, row by row, left to right
func BuildPegMap(rng *XorShift32) PegMap {
	pegMap := make(PegMap, Rows)
	for row := 0; row < Rows; row++ {
		pegs := make([]float64, row+1)
		for i := range pegs {
			raw := 0.5 + (rng.Next()-0.5)*BiasSpread
			pegs[i] = RoundToDecimal(raw, BiasPrecision)
		}
		pegMap[row] = pegs
	}
	return pegMap
}

// Canonical is the pinned serialization the peg map hash commits to:
// [[a],[b,c],...] with every value printed with exactly six fractional digits.
func (p PegMap) Canonical() string {
	var b strings.Builder
	b.WriteByte('[')
	for r, row := range p {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		for i, v := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(FormatFixed(v, BiasPrecision))
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// Hash returns the SHA-256 of the canonical serialization
func (p PegMap) Hash() string {
	return crypto.SHA256Hex(p.Canonical())
}

// Clone returns a deep copy
func (p PegMap) Clone() PegMap {
	if p == nil {
		return nil
	}
	out := make(PegMap, len(p))
	for i, row := range p {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
