package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"plinkoServer/game"
	"plinkoServer/state"
)

// VerifyQuery holds the disclosed values a player recomputes a round from
type VerifyQuery struct {
	ServerSeed string `json:"serverSeed" validate:"required,len=64,hexadecimal"`
	ClientSeed string `json:"clientSeed" validate:"required"`
	Nonce      string `json:"nonce" validate:"required"`
	DropColumn *int   `json:"dropColumn" validate:"required,min=0,max=12"`
	RoundID    string `json:"roundId"`
}

func parseVerifyQuery(r *http.Request) (VerifyQuery, error) {
	q := r.URL.Query()
	query := VerifyQuery{
		ServerSeed: q.Get("serverSeed"),
		ClientSeed: q.Get("clientSeed"),
		Nonce:      q.Get("nonce"),
		RoundID:    q.Get("roundId"),
	}

	if raw := q.Get("dropColumn"); raw != "" {
		dropColumn, err := strconv.Atoi(raw)
		if err != nil {
			return query, errors.New("field dropColumn must be an integer")
		}
		query.DropColumn = &dropColumn
	}

	return query, nil
}

/* =========================
   VERIFY ENDPOINT
========================= */

// HandleVerify recomputes a round from disclosed values and, given a roundId,
// compares the result with the recorded round
// GET /api/verify?serverSeed&clientSeed&nonce&dropColumn[&roundId]
func (s *Server) HandleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := parseVerifyQuery(r)
	if err != nil {
		sendError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := s.validator.Struct(query); err != nil {
		sendError(w, r, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	var known *game.Round
	if query.RoundID != "" {
		known, err = s.store.GetRound(ctx, query.RoundID)
		if errors.Is(err, state.ErrRoundNotFound) {
			known, err = nil, nil
		}
		if err != nil {
			sendDomainError(w, r, err)
			return
		}
	}

	verification, err := game.Verify(game.RoundInputs{
		ServerSeed: query.ServerSeed,
		ClientSeed: query.ClientSeed,
		Nonce:      query.Nonce,
		DropColumn: *query.DropColumn,
	}, known)
	if err != nil {
		sendDomainError(w, r, err)
		return
	}

	sendJSON(w, r, http.StatusOK, verification)
}

/* =========================
   HEALTH CHECK ENDPOINT
========================= */

// HealthResponse reports the state of backing services
type HealthResponse struct {
	Status    string `json:"status"`
	Postgres  string `json:"postgres"`
	Redis     string `json:"redis"`
	Timestamp string `json:"timestamp"`
}

// HandleHealthCheck handles health check requests. Disabled services are
// reported but do not fail the check, since the server runs without them.
// GET /api/health
func (s *Server) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	response := HealthResponse{
		Status:    "ok",
		Postgres:  checkHealth(ctx, s.opts.PostgresHealth),
		Redis:     checkHealth(ctx, s.opts.RedisHealth),
		Timestamp: s.now().Format(time.RFC3339),
	}

	statusCode := http.StatusOK
	if response.Postgres != "ok" && response.Postgres != "disabled" {
		response.Status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	sendJSON(w, r, statusCode, response)
}
