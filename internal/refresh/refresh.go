// Package refresh runs periodic background tasks as Go tickers: warming the
// pool snapshot before it expires and evicting stale cache entries.
package refresh

import (
	"context"
	"log/slog"
	"time"
)

// Config controls task intervals. Zero duration disables a task.
type Config struct {
	WarmInterval  time.Duration // Recompute the pool snapshot
	EvictInterval time.Duration // Drop expired cache entries
	// WarmOnStart computes a snapshot immediately instead of waiting for
	// the first tick.
	WarmOnStart bool
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		WarmInterval:  6 * time.Hour,
		EvictInterval: 5 * time.Minute,
		WarmOnStart:   true,
	}
}

// Warmer recomputes and caches the pool snapshot.
type Warmer interface {
	Refresh(ctx context.Context) error
}

// Evicter drops expired cache entries.
type Evicter interface {
	Evict() int
}

// Start launches all configured tickers. Blocks until ctx is cancelled.
// Intended to be called with `go`.
func Start(ctx context.Context, w Warmer, e Evicter, cfg Config, logger *slog.Logger) {
	logger.Info("Refresh tickers started",
		"warm", cfg.WarmInterval,
		"evict", cfg.EvictInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.WarmOnStart && w != nil {
		go warm(ctx, w, logger)
	}

	// Warm: recompute before the cached snapshot expires
	if cfg.WarmInterval > 0 && w != nil {
		t := time.NewTicker(cfg.WarmInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { warm(ctx, w, logger) })
	}

	// Evict: reclaim memory from expired entries
	if cfg.EvictInterval > 0 && e != nil {
		t := time.NewTicker(cfg.EvictInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() {
			if n := e.Evict(); n > 0 {
				logger.Debug("Evicted expired cache entries", "count", n)
			}
		})
	}

	<-ctx.Done()
	logger.Info("Refresh tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func warm(ctx context.Context, w Warmer, logger *slog.Logger) {
	start := time.Now()
	if err := w.Refresh(ctx); err != nil {
		if ctx.Err() == nil {
			logger.Warn("Pool refresh failed; serving previous snapshot", "error", err)
		}
		return
	}
	logger.Info("Pool refreshed", "duration", time.Since(start).Round(time.Millisecond))
}
