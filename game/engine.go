package game

import "plinkoServer/crypto"

// RoundInputs are the values that fully determine a round once disclosed
type RoundInputs struct {
	ServerSeed string `json:"serverSeed"`
	ClientSeed string `json:"clientSeed"`
	Nonce      string `json:"nonce"`
	DropColumn int    `json:"dropColumn"`
}

// Validate checks every input before anything is computed
func (in RoundInputs) Validate() error {
	if !serverSeedPattern.MatchString(in.ServerSeed) {
		return ErrInvalidServerSeed
	}
	if in.ClientSeed == "" {
		return ErrEmptyClientSeed
	}
	if in.Nonce == "" {
		return ErrEmptyNonce
	}
	return ValidateDropColumn(in.DropColumn)
}

// Artifacts is everything a round derives from its inputs
type Artifacts struct {
	CommitHex    string `json:"commitHex"`
	CombinedSeed string `json:"combinedSeed"`
	PegMap       PegMap `json:"pegMap"`
	PegMapHash   string `json:"pegMapHash"`
	Simulation
}

// CombineSeeds computes sha256(serverSeed ":" clientSeed ":" nonce)
func CombineSeeds(serverSeed, clientSeed, nonce string) string {
	return crypto.SHA256Hex(serverSeed + ":" + clientSeed + ":" + nonce)
}

// CreateRoundArtifacts runs the whole pipeline. The peg map and the path share
// one stream: the peg map takes the first PegCount draws, the descent the next Rows.
func CreateRoundArtifacts(in RoundInputs) (*Artifacts, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	combinedSeed := CombineSeeds(in.ServerSeed, in.ClientSeed, in.Nonce)
	rng := NewSeededRNG(combinedSeed)

	pegMap := BuildPegMap(rng)

	sim, err := SimulatePath(rng, in.DropColumn, pegMap)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		CommitHex:    crypto.DeriveCommit(in.ServerSeed, in.Nonce),
		CombinedSeed: combinedSeed,
		PegMap:       pegMap,
		PegMapHash:   pegMap.Hash(),
		Simulation:   *sim,
	}, nil
}
