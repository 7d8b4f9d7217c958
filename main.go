package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"plinkoServer/api"
	"plinkoServer/config"
	"plinkoServer/contract"
	"plinkoServer/db"
	"plinkoServer/state"
	"plinkoServer/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("❌ Invalid configuration:", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Round storage: PostgreSQL when configured, memory otherwise
	var store state.RoundStore
	opts := api.Options{ClientOrigin: cfg.ClientOrigin}

	if err := db.InitPostgres(cfg.DatabaseURL); err != nil {
		log.Printf("⚠️  Warning: PostgreSQL initialization failed: %v", err)
		log.Println("   Rounds will be kept in memory and lost on restart")
		store = state.NewMemoryStore()
	} else {
		store = db.NewPostgresStore(db.PostgresPool)
		opts.PostgresHealth = db.HealthCheckPostgres
	}
	defer db.ClosePostgres()

	if err := db.InitRedis(cfg); err != nil {
		log.Printf("⚠️  Warning: Redis initialization failed: %v", err)
		log.Println("   Rate limiting and the revealed round cache are disabled")
	} else {
		opts.Limiter = db.NewRedisLimiter(db.RedisClient, cfg.RateLimitPerMinute, config.RateLimitWindow)
		opts.Cache = db.NewRedisRoundCache(db.RedisClient, config.RevealedRoundTTL)
		opts.RedisHealth = db.HealthCheck
	}
	defer db.CloseRedis()

	if cfg.Anchor.Enabled() {
		anchor, err := contract.NewCommitAnchor(cfg.Anchor)
		if err != nil {
			log.Printf("⚠️  Warning: Commit anchor initialization failed: %v", err)
			log.Println("   Commitments will not be anchored on chain")
		} else {
			opts.Anchorer = anchor
			defer anchor.Close()
		}
	}

	hub := ws.NewHub(store, cfg.ClientOrigin)
	go hub.Run(ctx)
	opts.Publisher = hub

	server := api.NewServer(store, opts)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           server.Router(hub),
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}

	log.Printf("🚀 Server starting on %s", cfg.Addr())
	log.Println("")
	log.Println("📡 WebSocket Endpoint:")
	log.Printf("   ws://localhost:%d/ws - subscribe to 'rounds' for round events + history", cfg.Port)
	log.Println("")
	log.Println("🔌 API Endpoints:")
	log.Println("   POST /api/rounds/commit - Commit to a new round")
	log.Println("   POST /api/rounds/:id/start - Start a round with a client seed and drop column")
	log.Println("   POST /api/rounds/:id/reveal - Reveal a round's server seed")
	log.Println("   GET  /api/rounds/:id - Get a round")
	log.Println("   GET  /api/rounds - Recent rounds")
	log.Println("   GET  /api/verify - Recompute and verify a round")
	log.Println("   GET  /api/health - Health check (PostgreSQL + Redis)")
	log.Println("")

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server error:", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Graceful shutdown failed: %v", err)
	}
}
