// Package tracker assembles the pool view: it loads the picks sheet, fetches
// standings, runs the calculator and caches the encoded result.
package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/albapepper/overs-pool/internal/cache"
	"github.com/albapepper/overs-pool/internal/metrics"
	"github.com/albapepper/overs-pool/internal/picks"
	"github.com/albapepper/overs-pool/internal/pool"
	"github.com/albapepper/overs-pool/internal/provider"
)

const loadTimeout = 45 * time.Second

// ErrPicks marks a picks sheet that could not be loaded or validated.
var ErrPicks = errors.New("picks unavailable")

// StandingsSource fetches current standings.
type StandingsSource interface {
	FetchStandings(ctx context.Context) ([]provider.Standing, error)
}

// Options configures a Tracker.
type Options struct {
	Standings StandingsSource
	Picks     picks.Source
	// Participants overrides the sheet's participant order when set.
	Participants []string
	Aliases      pool.AliasTable
	SeasonGames  int
	Season       int

	Cache    *cache.Cache
	CacheTTL time.Duration
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
	Now      func() time.Time
}

// Tracker serves pool snapshots.
type Tracker struct {
	opts Options
}

// New creates a Tracker. A nil cache disables caching; a nil Aliases table
// falls back to pool.DefaultAliases.
func New(opts Options) *Tracker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Cache == nil {
		opts.Cache = cache.New(false)
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 12 * time.Hour
	}
	if opts.Aliases.Len() == 0 {
		opts.Aliases = pool.DefaultAliases()
	}
	if opts.SeasonGames <= 0 {
		opts.SeasonGames = pool.DefaultSeasonGames
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{opts: opts}
}

// cacheKey scopes cached snapshots to the configured season.
func (t *Tracker) cacheKey() string {
	return "pool:" + strconv.Itoa(t.opts.Season)
}

// Book loads and validates the picks sheet.
func (t *Tracker) Book(ctx context.Context) (picks.Book, error) {
	book, err := t.opts.Picks.Load(ctx)
	if err != nil {
		return picks.Book{}, fmt.Errorf("%w: %v", ErrPicks, err)
	}
	book = book.WithParticipants(t.opts.Participants)
	if err := book.Validate(); err != nil {
		return picks.Book{}, fmt.Errorf("%w: %v", ErrPicks, err)
	}
	return book, nil
}

// Standings fetches standings and records the fetch.
func (t *Tracker) Standings(ctx context.Context) ([]provider.Standing, error) {
	start := time.Now()
	standings, err := t.opts.Standings.FetchStandings(ctx)
	t.opts.Metrics.StandingsFetch(time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("fetch standings: %w", err)
	}
	return standings, nil
}

// Snapshot computes a fresh pool result, bypassing the cache.
func (t *Tracker) Snapshot(ctx context.Context) (pool.Result, error) {
	book, err := t.Book(ctx)
	if err != nil {
		return pool.Result{}, err
	}
	standings, err := t.Standings(ctx)
	if err != nil {
		return pool.Result{}, err
	}

	calc := &pool.Calculator{
		Participants: book.Participants,
		Aliases:      t.opts.Aliases,
		SeasonGames:  t.opts.SeasonGames,
		Now:          t.opts.Now,
	}
	res := calc.Compute(book.Predictions, standings)

	unmatched := res.Unmatched()
	for _, team := range unmatched {
		t.opts.Logger.Warn("Team not found in standings; scoring as 0-0", "team", team)
	}
	t.opts.Metrics.Computed(res.UpdatedAt, len(unmatched))
	t.opts.Logger.Info("Pool computed",
		"teams", len(res.Teams),
		"participants", len(res.Leaderboard),
		"standings", len(standings),
		"unmatched", len(unmatched))
	return res, nil
}

// SnapshotJSON returns the encoded pool result, computing it at most once
// per cache TTL. The bool reports whether the bytes came from the cache.
func (t *Tracker) SnapshotJSON(ctx context.Context) (cache.Entry, bool, error) {
	return t.opts.Cache.GetOrLoad(t.cacheKey(), t.opts.CacheTTL, func() ([]byte, error) {
		// The load is shared by every waiting request, so it must not die
		// with the one that started it.
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		res, err := t.Snapshot(loadCtx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(res)
	})
}

// Result returns the cached pool result decoded for partial views.
func (t *Tracker) Result(ctx context.Context) (pool.Result, error) {
	entry, _, err := t.SnapshotJSON(ctx)
	if err != nil {
		return pool.Result{}, err
	}
	var res pool.Result
	if err := json.Unmarshal(entry.Data, &res); err != nil {
		return pool.Result{}, fmt.Errorf("decode cached result: %w", err)
	}
	return res, nil
}

// Invalidate drops the cached snapshot. A computation already running is
// not cached when it finishes.
func (t *Tracker) Invalidate() {
	t.opts.Cache.Delete(t.cacheKey())
}

// Refresh recomputes the snapshot and replaces the cached copy. The old
// copy keeps serving until the new one is ready; on failure it is kept. A
// result overtaken by Invalidate is discarded.
func (t *Tracker) Refresh(ctx context.Context) error {
	gen := t.opts.Cache.Generation(t.cacheKey())
	res, err := t.Snapshot(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if _, stored := t.opts.Cache.SetIfGeneration(t.cacheKey(), gen, data, t.opts.CacheTTL); !stored {
		t.opts.Logger.Info("Refreshed snapshot discarded; picks changed during refresh")
	}
	return nil
}
