package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"plinkoServer/config"
	"plinkoServer/game"
	"plinkoServer/state"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

/* =========================
   REQUEST/RESPONSE TYPES
========================= */

// CommitResponse is returned when a round is created
type CommitResponse struct {
	RoundID   string `json:"roundId"`
	CommitHex string `json:"commitHex"`
	Nonce     string `json:"nonce"`
}

// StartRequest fixes the player's inputs for a round
type StartRequest struct {
	ClientSeed string `json:"clientSeed" validate:"required,min=3,max=128"`
	BetCents   *int64 `json:"betCents" validate:"required,min=1,max=1000000"`
	DropColumn *int   `json:"dropColumn" validate:"required,min=0,max=12"`
}

// StartResponse is the outcome of a started round
type StartResponse struct {
	RoundID          string          `json:"roundId"`
	PegMapHash       string          `json:"pegMapHash"`
	Rows             int             `json:"rows"`
	DropColumn       int             `json:"dropColumn"`
	BinIndex         int             `json:"binIndex"`
	PayoutMultiplier float64         `json:"payoutMultiplier"`
	PayoutCents      int64           `json:"payoutCents"`
	Path             []game.PathStep `json:"path"`
	CombinedSeed     string          `json:"combinedSeed"`
}

// RevealResponse discloses the server seed
type RevealResponse struct {
	RoundID    string `json:"roundId"`
	ServerSeed string `json:"serverSeed"`
}

// RoundsResponse lists public round views
type RoundsResponse struct {
	Rounds []*game.Round `json:"rounds"`
}

/* =========================
   ROUND ENDPOINTS
========================= */

// HandleCommitRound creates a round committed to a fresh server seed
// POST /api/rounds/commit
func (s *Server) HandleCommitRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	round, err := game.NewRound(s.now())
	if err != nil {
		sendDomainError(w, r, err)
		return
	}

	if err := s.store.CreateRound(ctx, round); err != nil {
		sendDomainError(w, r, err)
		return
	}

	log.Printf("🎲 Round %s committed: %s", round.ID, round.CommitHex)

	if s.opts.Publisher != nil {
		s.opts.Publisher.PublishCommitted(round)
	}
	if s.opts.Anchorer != nil {
		go s.anchorCommit(round.ID, round.CommitHex)
	}

	sendJSON(w, r, http.StatusCreated, CommitResponse{
		RoundID:   round.ID,
		CommitHex: round.CommitHex,
		Nonce:     round.Nonce,
	})
}

// anchorCommit runs outside the request so a slow chain never delays a commit
func (s *Server) anchorCommit(roundID, commitHex string) {
	ctx, cancel := context.WithTimeout(context.Background(), config.AnchorTxTimeout)
	defer cancel()

	if _, err := s.opts.Anchorer.AnchorCommit(ctx, roundID, commitHex); err != nil {
		log.Printf("⚠️  Failed to anchor commit for round %s: %v", roundID, err)
	}
}

// HandleStartRound fixes the client seed and drop column and computes the outcome
// POST /api/rounds/{id}/start
func (s *Server) HandleStartRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	round, err := s.store.GetRound(ctx, chi.URLParam(r, "id"))
	if err != nil {
		sendDomainError(w, r, err)
		return
	}
	if round.Status != game.StatusCreated {
		sendDomainError(w, r, game.ErrRoundAlreadyStarted)
		return
	}

	var req StartRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		sendError(w, r, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		sendError(w, r, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	if err := round.Start(req.ClientSeed, *req.DropColumn, *req.BetCents, s.now()); err != nil {
		sendDomainError(w, r, err)
		return
	}

	if err := s.store.SaveStarted(ctx, round); err != nil {
		sendDomainError(w, r, err)
		return
	}

	log.Printf("🎯 Round %s started - column %d, bin %d, payout %.1fx", round.ID, *round.DropColumn, *round.BinIndex, round.PayoutMultiplier)

	if s.opts.Publisher != nil {
		s.opts.Publisher.PublishStarted(round)
	}

	sendJSON(w, r, http.StatusOK, StartResponse{
		RoundID:          round.ID,
		PegMapHash:       round.PegMapHash,
		Rows:             round.Rows,
		DropColumn:       *round.DropColumn,
		BinIndex:         *round.BinIndex,
		PayoutMultiplier: round.PayoutMultiplier,
		PayoutCents:      round.PayoutCents,
		Path:             round.Path,
		CombinedSeed:     round.CombinedSeed,
	})
}

// HandleRevealRound discloses the server seed of a started round. Revealing
// an already revealed round returns the same seed.
// POST /api/rounds/{id}/reveal
func (s *Server) HandleRevealRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	round, err := s.store.GetRound(ctx, id)
	if err != nil {
		sendDomainError(w, r, err)
		return
	}

	wasRevealed := round.Status == game.StatusRevealed

	serverSeed, err := round.Reveal(s.now())
	if err != nil {
		sendDomainError(w, r, err)
		return
	}

	if !wasRevealed {
		err := s.store.SaveRevealed(ctx, id, *round.RevealedAt)
		if errors.Is(err, state.ErrRoundConflict) {
			// Lost a race with another reveal; the stored round is authoritative
			round, err = s.store.GetRound(ctx, id)
			if err == nil && round.Status != game.StatusRevealed {
				err = state.ErrRoundConflict
			}
			wasRevealed = true
		}
		if err != nil {
			sendDomainError(w, r, err)
			return
		}
	}

	if !wasRevealed {
		log.Printf("🔓 Round %s revealed", round.ID)
		s.cacheRound(ctx, round)
		if s.opts.Publisher != nil {
			s.opts.Publisher.PublishRevealed(round)
		}
	}

	sendJSON(w, r, http.StatusOK, RevealResponse{
		RoundID:    round.ID,
		ServerSeed: serverSeed,
	})
}

// HandleGetRound returns a round's public view
// GET /api/rounds/{id}
func (s *Server) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	if s.opts.Cache != nil {
		cached, err := s.opts.Cache.GetRound(ctx, id)
		if err != nil {
			log.Printf("⚠️  Round cache read failed for %s: %v", id, err)
		} else if cached != nil {
			sendJSON(w, r, http.StatusOK, cached.Public())
			return
		}
	}

	round, err := s.store.GetRound(ctx, id)
	if err != nil {
		sendDomainError(w, r, err)
		return
	}

	s.cacheRound(ctx, round)
	sendJSON(w, r, http.StatusOK, round.Public())
}

// HandleRecentRounds lists the most recent rounds, newest first
// GET /api/rounds?limit=n
func (s *Server) HandleRecentRounds(w http.ResponseWriter, r *http.Request) {
	limit := config.DefaultRecentRounds
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > config.MaxRecentRounds {
			sendError(w, r, http.StatusUnprocessableEntity, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	rounds, err := s.store.RecentRounds(r.Context(), limit)
	if err != nil {
		sendDomainError(w, r, err)
		return
	}

	public := make([]*game.Round, 0, len(rounds))
	for _, round := range rounds {
		public = append(public, round.Public())
	}

	sendJSON(w, r, http.StatusOK, RoundsResponse{Rounds: public})
}

// cacheRound stores revealed rounds in the cache, if one is configured
func (s *Server) cacheRound(ctx context.Context, round *game.Round) {
	if s.opts.Cache == nil || round.Status != game.StatusRevealed {
		return
	}
	if err := s.opts.Cache.SetRound(ctx, round); err != nil {
		log.Printf("⚠️  Failed to cache round %s: %v", round.ID, err)
	}
}
