package db

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"plinkoServer/game"
	"plinkoServer/state"

	"github.com/joho/godotenv"
)

func TestPostgresStoreRounds(t *testing.T) {
	_ = godotenv.Load("../.env")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	if err := InitPostgres(databaseURL); err != nil {
		t.Fatalf("Failed to init postgres: %v", err)
	}
	defer ClosePostgres()

	ctx := context.Background()
	store := NewPostgresStore(PostgresPool)

	round, err := game.NewRound(time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		t.Fatalf("NewRound failed: %v", err)
	}
	defer PostgresPool.Exec(ctx, "DELETE FROM rounds WHERE id = $1", round.ID)

	t.Run("CreateRound", func(t *testing.T) {
		if err := store.CreateRound(ctx, round); err != nil {
			t.Fatalf("CreateRound failed: %v", err)
		}
		if err := store.CreateRound(ctx, round); !errors.Is(err, state.ErrRoundConflict) {
			t.Fatalf("Expected ErrRoundConflict on duplicate, got %v", err)
		}
	})

	t.Run("RevealBeforeStart", func(t *testing.T) {
		if err := store.SaveRevealed(ctx, round.ID, time.Now()); !errors.Is(err, state.ErrRoundConflict) {
			t.Fatalf("Expected ErrRoundConflict, got %v", err)
		}
	})

	t.Run("SaveStarted", func(t *testing.T) {
		if err := round.Start("postgres-client", 6, 250, time.Now().UTC().Truncate(time.Microsecond)); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		if err := store.SaveStarted(ctx, round); err != nil {
			t.Fatalf("SaveStarted failed: %v", err)
		}
		if err := store.SaveStarted(ctx, round); !errors.Is(err, state.ErrRoundConflict) {
			t.Fatalf("Expected ErrRoundConflict on second start, got %v", err)
		}

		stored, err := store.GetRound(ctx, round.ID)
		if err != nil {
			t.Fatalf("GetRound failed: %v", err)
		}
		if stored.PegMap.Hash() != round.PegMapHash {
			t.Errorf("Peg map did not survive storage: %s != %s", stored.PegMap.Hash(), round.PegMapHash)
		}
		if len(stored.Path) != game.Rows {
			t.Errorf("Expected %d path steps, got %d", game.Rows, len(stored.Path))
		}
		if stored.BinIndex == nil || *stored.BinIndex != *round.BinIndex {
			t.Errorf("Bin index mismatch: %v", stored.BinIndex)
		}
		if stored.Status != game.StatusStarted {
			t.Errorf("Expected started, got %s", stored.Status)
		}
	})

	t.Run("SaveRevealed", func(t *testing.T) {
		if err := store.SaveRevealed(ctx, round.ID, time.Now()); err != nil {
			t.Fatalf("SaveRevealed failed: %v", err)
		}

		stored, err := store.GetRound(ctx, round.ID)
		if err != nil {
			t.Fatalf("GetRound failed: %v", err)
		}
		if stored.Status != game.StatusRevealed || stored.RevealedAt == nil {
			t.Errorf("Expected revealed round, got %+v", stored)
		}
	})

	t.Run("RecentRounds", func(t *testing.T) {
		rounds, err := store.RecentRounds(ctx, 5)
		if err != nil {
			t.Fatalf("RecentRounds failed: %v", err)
		}
		if len(rounds) == 0 || len(rounds) > 5 {
			t.Fatalf("Unexpected number of rounds: %d", len(rounds))
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := store.GetRound(ctx, "missing-round"); !errors.Is(err, state.ErrRoundNotFound) {
			t.Fatalf("Expected ErrRoundNotFound, got %v", err)
		}
		if err := store.SaveRevealed(ctx, "missing-round", time.Now()); !errors.Is(err, state.ErrRoundNotFound) {
			t.Fatalf("Expected ErrRoundNotFound, got %v", err)
		}
	})
}
