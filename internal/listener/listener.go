// Package listener provides a Postgres LISTEN/NOTIFY consumer for picks
// changes. It holds a dedicated pgx connection (not from the pool) listening
// on the pool_picks_changed channel.
//
// The picks store fires pg_notify with the season as payload whenever rows
// are upserted; the consumer hands that season to a callback, which drops
// the cached pool snapshot so the next request recomputes it.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/overs-pool/internal/config"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// ChangeFunc is called once per notification with the changed season.
type ChangeFunc func(season int)

// Start opens a dedicated connection and listens for picks changes. It
// reconnects automatically on connection loss. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, onChange ChangeFunc, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, onChange, logger)
		if ctx.Err() != nil {
			logger.Info("Picks listener stopped (context cancelled)")
			return
		}

		logger.Error("Picks listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = nextBackoff(backoff)
		case <-ctx.Done():
			return
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	return min(d*2, maxReconnect)
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, onChange ChangeFunc, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+config.PicksChangedChannel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", config.PicksChangedChannel, err)
	}
	logger.Info("Picks listener connected", "channel", config.PicksChangedChannel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		season, err := parseSeason(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse picks change",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Picks change received", "season", season)
		onChange(season)
	}
}

func parseSeason(payload string) (int, error) {
	season, err := strconv.Atoi(strings.TrimSpace(payload))
	if err != nil {
		return 0, fmt.Errorf("season payload: %w", err)
	}
	return season, nil
}
