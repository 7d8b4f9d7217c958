package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"plinkoServer/config"
	"plinkoServer/db"
	"plinkoServer/game"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	if err := db.InitPostgres(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to init postgres: %v", err)
	}
	defer db.ClosePostgres()

	ctx := context.Background()
	store := db.NewPostgresStore(db.PostgresPool)

	// Demo players across the board
	demoRounds := []struct {
		clientSeed string
		dropColumn int
		betCents   int64
	}{
		{"demo-alice", 6, 100},
		{"demo-bob", 0, 250},
		{"demo-carol", 12, 500},
		{"demo-dave", 3, 1000},
		{"demo-erin", 9, 50},
	}

	fmt.Println("Seeding demo rounds...")

	now := time.Now().UTC()
	for i, d := range demoRounds {
		createdAt := now.Add(time.Duration(i-len(demoRounds)) * time.Minute)

		round, err := game.NewRound(createdAt)
		if err != nil {
			log.Fatalf("Failed to create round: %v", err)
		}
		if err := store.CreateRound(ctx, round); err != nil {
			log.Printf("Failed to store round: %v", err)
			continue
		}

		if err := round.Start(d.clientSeed, d.dropColumn, d.betCents, createdAt.Add(10*time.Second)); err != nil {
			log.Printf("Failed to start round %s: %v", round.ID, err)
			continue
		}
		if err := store.SaveStarted(ctx, round); err != nil {
			log.Printf("Failed to save round %s: %v", round.ID, err)
			continue
		}

		if _, err := round.Reveal(createdAt.Add(20 * time.Second)); err != nil {
			log.Printf("Failed to reveal round %s: %v", round.ID, err)
			continue
		}
		if err := store.SaveRevealed(ctx, round.ID, *round.RevealedAt); err != nil {
			log.Printf("Failed to save reveal %s: %v", round.ID, err)
			continue
		}

		fmt.Printf("  %s column %2d -> bin %2d (%.1fx, %d cents)\n",
			round.ID[:8], d.dropColumn, *round.BinIndex, round.PayoutMultiplier, round.PayoutCents)
	}

	fmt.Println("\nDone! Recent rounds:")

	rounds, err := store.RecentRounds(ctx, len(demoRounds))
	if err != nil {
		log.Fatalf("Failed to get recent rounds: %v", err)
	}

	for _, r := range rounds {
		fmt.Printf("  %s %-8s commit %s...\n", r.ID[:8], r.Status, r.CommitHex[:16])
	}
}
