package picks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/overs-pool/internal/pool"
)

// Store keeps prediction sheets in Postgres, one season per Book. Queries go
// through statements prepared by the db package.
type Store struct {
	pool   *pgxpool.Pool
	season int
	logger *slog.Logger
}

// NewStore returns a Store serving the given season.
func NewStore(p *pgxpool.Pool, season int, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{pool: p, season: season, logger: logger}
}

// Load implements Source.
func (s *Store) Load(ctx context.Context) (Book, error) {
	book := Book{Season: s.season}

	rows, err := s.pool.Query(ctx, "participants_by_season", s.season)
	if err != nil {
		return Book{}, fmt.Errorf("list participants: %w", err)
	}
	book.Participants, err = pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return Book{}, fmt.Errorf("scan participant: %w", err)
	}

	rows, err = s.pool.Query(ctx, "picks_by_season", s.season)
	if err != nil {
		return Book{}, fmt.Errorf("list picks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			team string
			line float64
			raw  []byte
		)
		if err := rows.Scan(&team, &line, &raw); err != nil {
			return Book{}, fmt.Errorf("scan pick: %w", err)
		}
		picks, err := decodePicks(raw)
		if err != nil {
			return Book{}, fmt.Errorf("team %s: %w", team, err)
		}
		book.Predictions = append(book.Predictions, pool.Prediction{Team: team, Line: line, Picks: picks})
	}
	if err := rows.Err(); err != nil {
		return Book{}, fmt.Errorf("list picks: %w", err)
	}
	return book, nil
}

func decodePicks(raw []byte) (map[string]pool.Pick, error) {
	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode picks: %w", err)
	}
	out := make(map[string]pool.Pick, len(m))
	for name, v := range m {
		p, err := pool.ParsePick(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out[name] = p
	}
	return out, nil
}

// querier is the subset of pgxpool.Pool and pgx.Tx used for writes.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func (s *Store) upsertPick(ctx context.Context, q querier, position int, pred pool.Prediction) error {
	raw, err := json.Marshal(pred.Picks)
	if err != nil {
		return fmt.Errorf("encode picks: %w", err)
	}
	if _, err := q.Exec(ctx, "upsert_pick", s.season, pred.Team, pred.Line, raw, position); err != nil {
		return fmt.Errorf("upsert pick %s: %w", pred.Team, err)
	}
	return nil
}

func (s *Store) notify(ctx context.Context, q querier) error {
	if _, err := q.Exec(ctx, "notify_picks_changed", strconv.Itoa(s.season)); err != nil {
		return fmt.Errorf("notify picks changed: %w", err)
	}
	return nil
}

// Upsert writes a single prediction row at the given sheet position and
// notifies listeners.
func (s *Store) Upsert(ctx context.Context, position int, pred pool.Prediction) error {
	if err := s.upsertPick(ctx, s.pool, position, pred); err != nil {
		return err
	}
	return s.notify(ctx, s.pool)
}

// ImportResult tracks counts and errors from an import.
type ImportResult struct {
	ParticipantsUpserted int
	PicksUpserted        int
	Errors               []string
}

// AddErrorf records a formatted error message.
func (r *ImportResult) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the import.
func (r *ImportResult) Summary() string {
	return fmt.Sprintf("participants=%d picks=%d errors=%d",
		r.ParticipantsUpserted, r.PicksUpserted, len(r.Errors))
}

// Import replaces the season's sheet with book in one transaction. Rows for
// participants or teams missing from book are removed. Any failure rolls the
// season back to its previous state and is reported in the result.
func (s *Store) Import(ctx context.Context, book Book) ImportResult {
	var result ImportResult
	if err := book.Validate(); err != nil {
		result.AddErrorf("validate: %v", err)
		return result
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "delete_participants_by_season", s.season); err != nil {
			return fmt.Errorf("clear participants: %w", err)
		}
		if _, err := tx.Exec(ctx, "delete_picks_by_season", s.season); err != nil {
			return fmt.Errorf("clear picks: %w", err)
		}
		for i, name := range book.Participants {
			if _, err := tx.Exec(ctx, "upsert_participant", s.season, name, i); err != nil {
				return fmt.Errorf("upsert participant %s: %w", name, err)
			}
			result.ParticipantsUpserted++
		}
		for i, pred := range book.Predictions {
			if err := s.upsertPick(ctx, tx, i, pred); err != nil {
				return err
			}
			result.PicksUpserted++
		}
		return s.notify(ctx, tx)
	})
	if err != nil {
		result.AddErrorf("import season %d: %v", s.season, err)
		result.ParticipantsUpserted, result.PicksUpserted = 0, 0
		return result
	}

	s.logger.Info("Picks imported", "season", s.season, "summary", result.Summary())
	return result
}
