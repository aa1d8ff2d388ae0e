// Package db provides a pgxpool-based connection pool with prepared statement
// registration, schema bootstrap and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/overs-pool/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. The picks schema is
// bootstrapped on a dedicated connection first, since prepared statements
// registered on each pooled connection reference those tables.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	if err := bootstrap(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

func bootstrap(ctx context.Context, dbURL string) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())
	return EnsureSchema(ctx, conn)
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// schema creates the picks tables. Participants keep their sheet order via
// position; predictions keep row order the same way.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS pool_participants (
		season   INT  NOT NULL,
		name     TEXT NOT NULL,
		position INT  NOT NULL,
		PRIMARY KEY (season, name)
	)`,
	`CREATE TABLE IF NOT EXISTS ` + config.PicksTable + ` (
		season     INT              NOT NULL,
		team       TEXT             NOT NULL,
		line       DOUBLE PRECISION NOT NULL,
		picks      JSONB            NOT NULL,
		position   INT              NOT NULL,
		updated_at TIMESTAMPTZ      NOT NULL DEFAULT NOW(),
		PRIMARY KEY (season, team)
	)`,
}

// Execer is satisfied by *pgx.Conn, *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// EnsureSchema creates the picks tables if they do not exist.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// registerPreparedStatements registers all statements the API and CLI use.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Picks: reads
		"participants_by_season": "SELECT name FROM pool_participants WHERE season = $1 ORDER BY position, name",
		"picks_by_season":        "SELECT team, line, picks FROM " + config.PicksTable + " WHERE season = $1 ORDER BY position, team",

		// Picks: writes
		"delete_participants_by_season": "DELETE FROM pool_participants WHERE season = $1",
		"delete_picks_by_season":        "DELETE FROM " + config.PicksTable + " WHERE season = $1",
		"upsert_participant": `INSERT INTO pool_participants (season, name, position) VALUES ($1, $2, $3)
			ON CONFLICT (season, name) DO UPDATE SET position = EXCLUDED.position`,
		"upsert_pick": `INSERT INTO ` + config.PicksTable + ` (season, team, line, picks, position) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (season, team) DO UPDATE SET line = EXCLUDED.line, picks = EXCLUDED.picks,
				position = EXCLUDED.position, updated_at = NOW()`,
		"notify_picks_changed": "SELECT pg_notify('" + config.PicksChangedChannel + "', $1::text)",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
