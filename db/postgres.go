package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"plinkoServer/config"
	"plinkoServer/game"
	"plinkoServer/state"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// PostgresPool is the global PostgreSQL connection pool
	PostgresPool *pgxpool.Pool
)

// InitPostgres initializes the PostgreSQL connection pool and schema
func InitPostgres(databaseURL string) error {
	log.Println("🔌 Connecting to PostgreSQL...")

	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Configure pool settings
	poolConfig.MaxConns = config.MaxOpenConns
	poolConfig.MinConns = config.MinConns
	poolConfig.MaxConnLifetime = config.ConnMaxLifetime

	PostgresPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := PostgresPool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ PostgreSQL connected successfully")

	if err := InitSchema(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// ClosePostgres closes the PostgreSQL connection pool
func ClosePostgres() {
	if PostgresPool != nil {
		log.Println("🔌 Closing PostgreSQL connection...")
		PostgresPool.Close()
	}
}

// InitSchema creates the rounds table if it doesn't exist
func InitSchema(ctx context.Context) error {
	log.Println("📋 Initializing database schema...")

	roundsSchema := `
	CREATE TABLE IF NOT EXISTS rounds (
		id TEXT PRIMARY KEY,
		server_seed TEXT NOT NULL,
		nonce TEXT NOT NULL,
		commit_hex TEXT NOT NULL,
		client_seed TEXT NOT NULL DEFAULT '',
		combined_seed TEXT NOT NULL DEFAULT '',
		peg_map JSONB,
		peg_map_hash TEXT NOT NULL DEFAULT '',
		path JSONB,
		drop_column INTEGER,
		bin_index INTEGER,
		bet_cents BIGINT NOT NULL DEFAULT 0,
		payout_multiplier DOUBLE PRECISION NOT NULL DEFAULT 0,
		payout_cents BIGINT NOT NULL DEFAULT 0,
		row_count INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'created',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		started_at TIMESTAMPTZ,
		revealed_at TIMESTAMPTZ
	);

	-- Index on created_at for the recent rounds feed
	CREATE INDEX IF NOT EXISTS idx_rounds_created_at ON rounds(created_at DESC);
	`

	if _, err := PostgresPool.Exec(ctx, roundsSchema); err != nil {
		return fmt.Errorf("failed to create rounds table: %w", err)
	}

	log.Println("✅ Database schema initialized")
	return nil
}

/* =========================
   ROUNDS
========================= */

// PostgresStore is a state.RoundStore backed by the rounds table
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ state.RoundStore = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const roundColumns = `
	id, server_seed, nonce, commit_hex, client_seed, combined_seed,
	peg_map, peg_map_hash, path, drop_column, bin_index, bet_cents,
	payout_multiplier, payout_cents, row_count, status,
	created_at, started_at, revealed_at
`

// CreateRound inserts a freshly committed round
func (s *PostgresStore) CreateRound(ctx context.Context, round *game.Round) error {
	query := `
		INSERT INTO rounds (id, server_seed, nonce, commit_hex, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := s.pool.Exec(
		ctx,
		query,
		round.ID,
		round.ServerSeed,
		round.Nonce,
		round.CommitHex,
		string(round.Status),
		round.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store round: %w", err)
	}
	if result.RowsAffected() == 0 {
		return state.ErrRoundConflict
	}

	return nil
}

// GetRound retrieves a round by ID
func (s *PostgresStore) GetRound(ctx context.Context, id string) (*game.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	round, err := scanRound(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, state.ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}

	return round, nil
}

// SaveStarted writes a round's outcome, only while the stored round is still created
func (s *PostgresStore) SaveStarted(ctx context.Context, round *game.Round) error {
	pegMapJSON, err := json.Marshal(round.PegMap)
	if err != nil {
		return fmt.Errorf("failed to marshal peg map: %w", err)
	}

	pathJSON, err := json.Marshal(round.Path)
	if err != nil {
		return fmt.Errorf("failed to marshal path: %w", err)
	}

	query := `
		UPDATE rounds
		SET client_seed = $2,
			combined_seed = $3,
			peg_map = $4,
			peg_map_hash = $5,
			path = $6,
			drop_column = $7,
			bin_index = $8,
			bet_cents = $9,
			payout_multiplier = $10,
			payout_cents = $11,
			row_count = $12,
			status = $13,
			started_at = $14
		WHERE id = $1 AND status = 'created'
	`

	result, err := s.pool.Exec(
		ctx,
		query,
		round.ID,
		round.ClientSeed,
		round.CombinedSeed,
		pegMapJSON,
		round.PegMapHash,
		pathJSON,
		round.DropColumn,
		round.BinIndex,
		round.BetCents,
		round.PayoutMultiplier,
		round.PayoutCents,
		round.Rows,
		string(round.Status),
		round.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to start round: %w", err)
	}

	if result.RowsAffected() == 0 {
		return s.transitionError(ctx, round.ID)
	}

	log.Printf("✅ Round %s started (bin %d)", round.ID, derefInt(round.BinIndex))
	return nil
}

// SaveRevealed marks a started round revealed
func (s *PostgresStore) SaveRevealed(ctx context.Context, id string, revealedAt time.Time) error {
	query := `
		UPDATE rounds
		SET status = 'revealed', revealed_at = $2
		WHERE id = $1 AND status = 'started'
	`

	result, err := s.pool.Exec(ctx, query, id, revealedAt)
	if err != nil {
		return fmt.Errorf("failed to reveal round: %w", err)
	}

	if result.RowsAffected() == 0 {
		return s.transitionError(ctx, id)
	}

	log.Printf("✅ Round %s revealed", id)
	return nil
}

// RecentRounds retrieves the N most recent rounds, newest first
func (s *PostgresStore) RecentRounds(ctx context.Context, limit int) ([]*game.Round, error) {
	query := `SELECT ` + roundColumns + ` FROM rounds ORDER BY created_at DESC, id COLLATE "C" DESC LIMIT $1`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := []*game.Round{}
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rounds = append(rounds, round)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return rounds, nil
}

// transitionError tells a missing round apart from one in the wrong status
func (s *PostgresStore) transitionError(ctx context.Context, id string) error {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rounds WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check round: %w", err)
	}
	if !exists {
		return state.ErrRoundNotFound
	}
	return state.ErrRoundConflict
}

func scanRound(row pgx.Row) (*game.Round, error) {
	var (
		round      game.Round
		status     string
		pegMapJSON []byte
		pathJSON   []byte
	)

	if err := row.Scan(
		&round.ID,
		&round.ServerSeed,
		&round.Nonce,
		&round.CommitHex,
		&round.ClientSeed,
		&round.CombinedSeed,
		&pegMapJSON,
		&round.PegMapHash,
		&pathJSON,
		&round.DropColumn,
		&round.BinIndex,
		&round.BetCents,
		&round.PayoutMultiplier,
		&round.PayoutCents,
		&round.Rows,
		&status,
		&round.CreatedAt,
		&round.StartedAt,
		&round.RevealedAt,
	); err != nil {
		return nil, err
	}
	round.Status = game.Status(status)

	if len(pegMapJSON) > 0 {
		if err := json.Unmarshal(pegMapJSON, &round.PegMap); err != nil {
			return nil, fmt.Errorf("failed to unmarshal peg map: %w", err)
		}
	}
	if len(pathJSON) > 0 {
		if err := json.Unmarshal(pathJSON, &round.Path); err != nil {
			return nil, fmt.Errorf("failed to unmarshal path: %w", err)
		}
	}

	return &round, nil
}

func derefInt(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

// HealthCheckPostgres checks if PostgreSQL is healthy
func HealthCheckPostgres(ctx context.Context) error {
	if PostgresPool == nil {
		return fmt.Errorf("PostgreSQL not initialized")
	}
	return PostgresPool.Ping(ctx)
}
