package game

// RoundComparison reports how recomputed artifacts line up with a recorded round
type RoundComparison struct {
	RoundID           string `json:"roundId"`
	CommitMatch       bool   `json:"commitMatch"`
	CombinedSeedMatch bool   `json:"combinedSeedMatch"`
	PegMapHashMatch   bool   `json:"pegMapHashMatch"`
	BinIndexMatch     bool   `json:"binIndexMatch"`
	Status            Status `json:"status"`
}

// Matches is true when all four flags agree
func (c *RoundComparison) Matches() bool {
	return c.CommitMatch && c.CombinedSeedMatch && c.PegMapHashMatch && c.BinIndexMatch
}

// Verification is the public recomputation of a round
type Verification struct {
	Artifacts
	RoundComparison *RoundComparison `json:"roundComparison"`
}

// Verify recomputes a round from disclosed values only. When known is nil no
// comparison is produced; a mismatch is reported through the flags, not as an error.
func Verify(in RoundInputs, known *Round) (*Verification, error) {
	artifacts, err := CreateRoundArtifacts(in)
	if err != nil {
		return nil, err
	}

	v := &Verification{Artifacts: *artifacts}
	if known != nil {
		v.RoundComparison = Compare(artifacts, known)
	}
	return v, nil
}

// Compare diffs recomputed artifacts against a recorded round
func Compare(artifacts *Artifacts, known *Round) *RoundComparison {
	return &RoundComparison{
		RoundID:           known.ID,
		CommitMatch:       known.CommitHex == artifacts.CommitHex,
		CombinedSeedMatch: known.CombinedSeed == artifacts.CombinedSeed,
		PegMapHashMatch:   known.PegMapHash == artifacts.PegMapHash,
		BinIndexMatch:     known.BinIndex != nil && *known.BinIndex == artifacts.BinIndex,
		Status:            known.Status,
	}
}
