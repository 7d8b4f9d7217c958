package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ServerSeedBytes is the size of a server seed before hex encoding
const ServerSeedBytes = 32

// entropy is the secure source for seeds and nonces. Tests swap it out to
// simulate a failing source.
var entropy io.Reader = rand.Reader

// Commitment is what the server holds before any client input arrives.
// Only Nonce and CommitHex are published; ServerSeed stays secret until reveal.
type Commitment struct {
	ServerSeed string
	Nonce      string
	CommitHex  string
}

// GenerateServerSeed returns 32 secure random bytes, hex encoded
func GenerateServerSeed() (string, error) {
	bytes := make([]byte, ServerSeedBytes)
	if _, err := io.ReadFull(entropy, bytes); err != nil {
		return "", fmt.Errorf("failed to read server seed entropy: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// GenerateNonce returns a random UUID drawn from the same secure source
func GenerateNonce() (string, error) {
	id, err := uuid.NewRandomFromReader(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to read nonce entropy: %w", err)
	}
	return id.String(), nil
}

// DeriveCommit computes sha256(serverSeed ":" nonce)
func DeriveCommit(serverSeed, nonce string) string {
	return SHA256Hex(serverSeed + ":" + nonce)
}

// GenerateCommitment creates a fresh server seed, nonce and commit hash.
// A failing entropy source is returned as an error, never replaced.
func GenerateCommitment() (*Commitment, error) {
	seed, err := GenerateServerSeed()
	if err != nil {
		return nil, err
	}

	nonce, err := GenerateNonce()
	if err != nil {
		return nil, err
	}

	return &Commitment{
		ServerSeed: seed,
		Nonce:      nonce,
		CommitHex:  DeriveCommit(seed, nonce),
	}, nil
}

// VerifyCommit checks a disclosed seed and nonce against a published commit
func VerifyCommit(serverSeed, nonce, commitHex string) bool {
	return DeriveCommit(serverSeed, nonce) == commitHex
}
