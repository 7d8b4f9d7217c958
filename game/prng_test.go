package game

import (
	"math"
	"testing"
)

func TestXorShift32Vector(t *testing.T) {
	rng := NewSeededRNG(vector.combinedSeed)

	for i, want := range vector.prng {
		got := rng.Next()
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("draw %d: want %.10f, got %.10f", i, want, got)
		}
	}
	if rng.Draws() != len(vector.prng) {
		t.Fatalf("expected %d draws, got %d", len(vector.prng), rng.Draws())
	}
}

func TestSamplePRNG(t *testing.T) {
	got := SamplePRNG(vector.combinedSeed, len(vector.prng))
	for i, want := range vector.prng {
		if got[i] != want {
			t.Errorf("sample %d: want %v, got %v", i, want, got[i])
		}
	}
}

func TestSeedFromHex(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want uint32
	}{
		{name: "Vector", hex: vector.combinedSeed, want: 0xe1dddf77},
		{name: "Uppercase", hex: "FFFFFFFF00", want: 0xffffffff},
		{name: "Short", hex: "1f", want: 0x1f},
		{name: "Zero", hex: "00000000ab", want: 0},
		{name: "Malformed", hex: "zzzzzzzz", want: 0},
		{name: "Empty", hex: "", want: 0},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := SeedFromHex(tc.hex); got != tc.want {
				t.Errorf("unexpected seed, want: %#x, got: %#x", tc.want, got)
			}
		})
	}
}

func TestXorShift32ZeroSeedFallback(t *testing.T) {
	zero := NewXorShift32(0)
	fallback := NewXorShift32(ZeroSeedFallback)

	first := zero.Next()
	if first != fallback.Next() {
		t.Fatal("zero seed must behave like the fallback constant")
	}
	if math.Abs(first-0.31659353361465037) > 1e-15 {
		t.Fatalf("unexpected first draw from fallback seed: %v", first)
	}
	if NewSeededRNG("00000000ff").Next() != first {
		t.Fatal("a zero hex prefix must use the fallback constant")
	}
}

func TestXorShift32Range(t *testing.T) {
	rng := NewXorShift32(1)
	for i := 0; i < 10000; i++ {
		v := rng.Next()
		if v < 0 || v >= 1 {
			t.Fatalf("draw %d out of [0,1): %v", i, v)
		}
	}
}

func TestRoundConsumesNinetyDraws(t *testing.T) {
	rng := NewSeededRNG(vector.combinedSeed)

	pegMap := BuildPegMap(rng)
	if rng.Draws() != PegCount {
		t.Fatalf("peg map should take %d draws, took %d", PegCount, rng.Draws())
	}

	if _, err := SimulatePath(rng, CenterColumn, pegMap); err != nil {
		t.Fatalf("SimulatePath failed: %v", err)
	}
	if rng.Draws() != DrawsPerRound || DrawsPerRound != 90 {
		t.Fatalf("round should take 90 draws, took %d", rng.Draws())
	}
}
