package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"plinkoServer/game"
)

func newStartedRound(t *testing.T, store *MemoryStore) *game.Round {
	t.Helper()
	ctx := context.Background()

	round, err := game.NewRound(time.Now())
	if err != nil {
		t.Fatalf("NewRound failed: %v", err)
	}
	if err := store.CreateRound(ctx, round); err != nil {
		t.Fatalf("CreateRound failed: %v", err)
	}
	if err := round.Start("client-seed", 6, 100, time.Now()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := store.SaveStarted(ctx, round); err != nil {
		t.Fatalf("SaveStarted failed: %v", err)
	}
	return round
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	round := newStartedRound(t, store)

	stored, err := store.GetRound(ctx, round.ID)
	if err != nil {
		t.Fatalf("GetRound failed: %v", err)
	}
	if stored.Status != game.StatusStarted || stored.PegMapHash != round.PegMapHash {
		t.Fatalf("unexpected stored round: %+v", stored)
	}

	if err := store.SaveStarted(ctx, round); !errors.Is(err, ErrRoundConflict) {
		t.Fatalf("expected ErrRoundConflict on second start, got %v", err)
	}

	if err := store.SaveRevealed(ctx, round.ID, time.Now()); err != nil {
		t.Fatalf("SaveRevealed failed: %v", err)
	}
	if err := store.SaveRevealed(ctx, round.ID, time.Now()); !errors.Is(err, ErrRoundConflict) {
		t.Fatalf("expected ErrRoundConflict on second reveal, got %v", err)
	}

	stored, _ = store.GetRound(ctx, round.ID)
	if stored.Status != game.StatusRevealed || stored.RevealedAt == nil {
		t.Fatalf("expected revealed round, got %+v", stored)
	}
}

func TestMemoryStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.GetRound(ctx, "missing"); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
	if err := store.SaveStarted(ctx, &game.Round{ID: "missing"}); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
	if err := store.SaveRevealed(ctx, "missing", time.Now()); !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("expected ErrRoundNotFound, got %v", err)
	}
}

func TestMemoryStoreRevealRequiresStart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	round, _ := game.NewRound(time.Now())
	_ = store.CreateRound(ctx, round)

	if err := store.SaveRevealed(ctx, round.ID, time.Now()); !errors.Is(err, ErrRoundConflict) {
		t.Fatalf("expected ErrRoundConflict, got %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	round := newStartedRound(t, store)

	first, _ := store.GetRound(ctx, round.ID)
	first.Status = game.StatusCreated
	first.PegMap[0][0] = 0

	second, _ := store.GetRound(ctx, round.ID)
	if second.Status != game.StatusStarted || second.PegMap[0][0] == 0 {
		t.Fatal("store handed out a shared reference")
	}
}

func TestMemoryStoreRecentRounds(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Unix(1700000000, 0)

	for i := 0; i < 5; i++ {
		round, _ := game.NewRound(base.Add(time.Duration(i) * time.Minute))
		_ = store.CreateRound(ctx, round)
	}

	rounds, err := store.RecentRounds(ctx, 3)
	if err != nil {
		t.Fatalf("RecentRounds failed: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("expected 3 rounds, got %d", len(rounds))
	}
	for i := 1; i < len(rounds); i++ {
		if rounds[i].CreatedAt.After(rounds[i-1].CreatedAt) {
			t.Fatal("rounds are not newest first")
		}
	}
	if !rounds[0].CreatedAt.Equal(base.Add(4 * time.Minute)) {
		t.Fatalf("unexpected newest round: %v", rounds[0].CreatedAt)
	}
}

func TestMemoryStoreRecentRoundsTieOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	createdAt := time.Unix(1700000000, 0)

	for i := 0; i < 8; i++ {
		round, _ := game.NewRound(createdAt)
		_ = store.CreateRound(ctx, round)
	}

	first, err := store.RecentRounds(ctx, 8)
	if err != nil {
		t.Fatalf("RecentRounds failed: %v", err)
	}
	for i := 1; i < len(first); i++ {
		if first[i].ID > first[i-1].ID {
			t.Fatalf("rounds with the same timestamp are not ordered by ID: %s before %s", first[i-1].ID, first[i].ID)
		}
	}

	for attempt := 0; attempt < 10; attempt++ {
		again, _ := store.RecentRounds(ctx, 8)
		for i := range first {
			if again[i].ID != first[i].ID {
				t.Fatalf("attempt %d: order changed at %d", attempt, i)
			}
		}
	}
}

func TestMemoryStoreConcurrentStart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	round, _ := game.NewRound(time.Now())
	_ = store.CreateRound(ctx, round)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			local, err := store.GetRound(ctx, round.ID)
			if err != nil {
				return
			}
			if err := local.Start("client-seed", 6, 100, time.Now()); err != nil {
				return
			}
			if err := store.SaveStarted(ctx, local); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one start to win, got %d", successes)
	}
}
