// Package state holds the round store contract and an in-memory implementation.
//
// The server persists rounds through RoundStore. PostgreSQL backs it in
// production (see db.PostgresStore); MemoryStore keeps rounds in process when no
// database is configured and in tests.
package state

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"plinkoServer/game"
)

var (
	ErrRoundNotFound = errors.New("round not found")
	// ErrRoundConflict means the stored round is not in the status a transition expects
	ErrRoundConflict = errors.New("round status conflict")
)

// RoundStore persists rounds. Implementations must apply SaveStarted and
// SaveRevealed only when the stored status allows the transition, so that two
// concurrent starts of the same round cannot both succeed.
type RoundStore interface {
	CreateRound(ctx context.Context, round *game.Round) error
	// GetRound returns the full round, server seed included
	GetRound(ctx context.Context, id string) (*game.Round, error)
	// SaveStarted stores a round's outcome if it is still created
	SaveStarted(ctx context.Context, round *game.Round) error
	// SaveRevealed marks a started round revealed
	SaveRevealed(ctx context.Context, id string, revealedAt time.Time) error
	RecentRounds(ctx context.Context, limit int) ([]*game.Round, error)
}

// MemoryStore is a RoundStore kept in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	rounds map[string]*game.Round
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rounds: make(map[string]*game.Round),
	}
}

func (s *MemoryStore) CreateRound(ctx context.Context, round *game.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rounds[round.ID]; exists {
		return ErrRoundConflict
	}
	s.rounds[round.ID] = round.Clone()
	return nil
}

func (s *MemoryStore) GetRound(ctx context.Context, id string) (*game.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	round, ok := s.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	return round.Clone(), nil
}

func (s *MemoryStore) SaveStarted(ctx context.Context, round *game.Round) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rounds[round.ID]
	if !ok {
		return ErrRoundNotFound
	}
	if stored.Status != game.StatusCreated {
		return ErrRoundConflict
	}
	s.rounds[round.ID] = round.Clone()
	return nil
}

func (s *MemoryStore) SaveRevealed(ctx context.Context, id string, revealedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.rounds[id]
	if !ok {
		return ErrRoundNotFound
	}
	if stored.Status != game.StatusStarted {
		return ErrRoundConflict
	}
	stored.Status = game.StatusRevealed
	stored.RevealedAt = &revealedAt
	return nil
}

// RecentRounds returns up to limit rounds, newest first
func (s *MemoryStore) RecentRounds(ctx context.Context, limit int) ([]*game.Round, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rounds := make([]*game.Round, 0, len(s.rounds))
	for _, round := range s.rounds {
		rounds = append(rounds, round.Clone())
	}

	// Same order as the postgres listing: newest first, then ID descending
	sort.SliceStable(rounds, func(i, j int) bool {
		if !rounds[i].CreatedAt.Equal(rounds[j].CreatedAt) {
			return rounds[i].CreatedAt.After(rounds[j].CreatedAt)
		}
		return rounds[i].ID > rounds[j].ID
	})

	if limit >= 0 && len(rounds) > limit {
		rounds = rounds[:limit]
	}
	return rounds, nil
}
