package api

import (
	"context"
	"net/http"
	"time"

	"plinkoServer/config"
	"plinkoServer/game"
	"plinkoServer/state"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Publisher pushes round transitions to live subscribers
type Publisher interface {
	PublishCommitted(round *game.Round)
	PublishStarted(round *game.Round)
	PublishRevealed(round *game.Round)
}

// Anchorer publishes a round's commitment on chain
type Anchorer interface {
	AnchorCommit(ctx context.Context, roundID, commitHex string) (common.Hash, error)
}

// Limiter counts requests per client key
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RoundCache holds revealed rounds
type RoundCache interface {
	GetRound(ctx context.Context, id string) (*game.Round, error)
	SetRound(ctx context.Context, round *game.Round) error
}

// HealthCheck pings a backing service
type HealthCheck func(ctx context.Context) error

// Options are the optional collaborators of a Server. Nil fields disable the
// feature they back.
type Options struct {
	Publisher    Publisher
	Anchorer     Anchorer
	Limiter      Limiter
	Cache        RoundCache
	ClientOrigin string

	PostgresHealth HealthCheck
	RedisHealth    HealthCheck
}

// Server serves the round API
type Server struct {
	store     state.RoundStore
	opts      Options
	validator *validator.Validate
	now       func() time.Time
}

func NewServer(store state.RoundStore, opts Options) *Server {
	return &Server{
		store:     store,
		opts:      opts,
		validator: newValidator(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Router builds the HTTP routes. ws, when not nil, is mounted at /ws.
func (s *Server) Router(ws http.Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(corsMiddleware(s.opts.ClientOrigin))

	if ws != nil {
		router.Handle("/ws", ws)
	}

	router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(config.RequestTimeout))
		r.Use(middleware.RequestSize(config.MaxBodyBytes))
		r.Use(s.rateLimit)

		r.Get("/health", s.HandleHealthCheck)
		r.Get("/verify", s.HandleVerify)

		r.Route("/rounds", func(r chi.Router) {
			r.Get("/", s.HandleRecentRounds)
			r.Post("/commit", s.HandleCommitRound)
			r.Get("/{id}", s.HandleGetRound)
			r.Post("/{id}/start", s.HandleStartRound)
			r.Post("/{id}/reveal", s.HandleRevealRound)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, r, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		sendError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return router
}
