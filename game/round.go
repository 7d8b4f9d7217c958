package game

import (
	"fmt"
	"math"
	"time"

	"plinkoServer/crypto"

	"github.com/google/uuid"
)

// Status is a round's lifecycle stage; transitions only move forward
type Status string

const (
	StatusCreated  Status = "created"
	StatusStarted  Status = "started"
	StatusRevealed Status = "revealed"
)

// Round is the full record of one drop. ServerSeed is populated in memory from
// creation on but must only be shown once Status is StatusRevealed; use Public
// before handing a round to anyone outside the server.
type Round struct {
	ID               string     `json:"roundId"`
	ServerSeed       string     `json:"serverSeed,omitempty"`
	Nonce            string     `json:"nonce"`
	CommitHex        string     `json:"commitHex"`
	ClientSeed       string     `json:"clientSeed,omitempty"`
	CombinedSeed     string     `json:"combinedSeed,omitempty"`
	PegMap           PegMap     `json:"pegMap,omitempty"`
	PegMapHash       string     `json:"pegMapHash,omitempty"`
	Path             []PathStep `json:"path,omitempty"`
	DropColumn       *int       `json:"dropColumn,omitempty"`
	BinIndex         *int       `json:"binIndex,omitempty"`
	BetCents         int64      `json:"betCents,omitempty"`
	PayoutMultiplier float64    `json:"payoutMultiplier,omitempty"`
	PayoutCents      int64      `json:"payoutCents,omitempty"`
	Rows             int        `json:"rows,omitempty"`
	Status           Status     `json:"status"`
	CreatedAt        time.Time  `json:"createdAt"`
	StartedAt        *time.Time `json:"startedAt,omitempty"`
	RevealedAt       *time.Time `json:"revealedAt,omitempty"`
}

// NewRound commits to a fresh server seed and nonce
func NewRound(now time.Time) (*Round, error) {
	commitment, err := crypto.GenerateCommitment()
	if err != nil {
		return nil, fmt.Errorf("failed to generate commitment: %w", err)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("failed to generate round id: %w", err)
	}

	return &Round{
		ID:         id.String(),
		ServerSeed: commitment.ServerSeed,
		Nonce:      commitment.Nonce,
		CommitHex:  commitment.CommitHex,
		Status:     StatusCreated,
		CreatedAt:  now,
	}, nil
}

// Start fixes the client seed and drop column and computes the outcome once.
// Nothing on the round changes if any input is rejected.
func (r *Round) Start(clientSeed string, dropColumn int, betCents int64, now time.Time) error {
	if r.Status != StatusCreated {
		return ErrRoundAlreadyStarted
	}
	if betCents <= 0 {
		return ErrInvalidBet
	}

	artifacts, err := CreateRoundArtifacts(RoundInputs{
		ServerSeed: r.ServerSeed,
		ClientSeed: clientSeed,
		Nonce:      r.Nonce,
		DropColumn: dropColumn,
	})
	if err != nil {
		return err
	}

	bin := artifacts.BinIndex
	r.ClientSeed = clientSeed
	r.CombinedSeed = artifacts.CombinedSeed
	r.PegMap = artifacts.PegMap
	r.PegMapHash = artifacts.PegMapHash
	r.Path = artifacts.Path
	r.DropColumn = &dropColumn
	r.BinIndex = &bin
	r.BetCents = betCents
	r.PayoutMultiplier = artifacts.PayoutMultiplier
	r.PayoutCents = int64(math.Round(float64(betCents) * artifacts.PayoutMultiplier))
	r.Rows = Rows
	r.Status = StatusStarted
	r.StartedAt = &now
	return nil
}

// Reveal discloses the server seed. Revealing twice returns the same seed
// without touching the round.
func (r *Round) Reveal(now time.Time) (string, error) {
	switch r.Status {
	case StatusCreated:
		return "", ErrRoundNotStarted
	case StatusRevealed:
		return r.ServerSeed, nil
	}

	r.Status = StatusRevealed
	r.RevealedAt = &now
	return r.ServerSeed, nil
}

// Public returns a copy that is safe to publish
func (r *Round) Public() *Round {
	out := r.Clone()
	if out.Status != StatusRevealed {
		out.ServerSeed = ""
	}
	return out
}

// Clone returns a deep copy
func (r *Round) Clone() *Round {
	out := *r
	out.PegMap = r.PegMap.Clone()
	if r.Path != nil {
		out.Path = append([]PathStep(nil), r.Path...)
	}
	out.DropColumn = copyPtr(r.DropColumn)
	out.BinIndex = copyPtr(r.BinIndex)
	out.StartedAt = copyPtr(r.StartedAt)
	out.RevealedAt = copyPtr(r.RevealedAt)
	return &out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
