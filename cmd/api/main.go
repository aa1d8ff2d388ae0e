// Command api is the Overs Pool API server.
//
// Usage:
//
//	overs-pool-api
//	API_PORT=8080 POOL_PICKS_FILE=data/picks-2025.json overs-pool-api

// @title Overs Pool API
// @version 1.0.0
// @description Over/Under win-total pool: live NBA standings joined with each participant's picks, projected to a full season and scored.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Overs Pool
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/overs-pool/internal/api"
	"github.com/albapepper/overs-pool/internal/cache"
	"github.com/albapepper/overs-pool/internal/config"
	"github.com/albapepper/overs-pool/internal/db"
	"github.com/albapepper/overs-pool/internal/listener"
	"github.com/albapepper/overs-pool/internal/metrics"
	"github.com/albapepper/overs-pool/internal/picks"
	"github.com/albapepper/overs-pool/internal/provider/espn"
	"github.com/albapepper/overs-pool/internal/refresh"
	"github.com/albapepper/overs-pool/internal/tracker"

	_ "github.com/albapepper/overs-pool/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
		slog.SetDefault(logger)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Picks source: Postgres when configured, the picks file otherwise
	var (
		pool   *db.Pool
		source picks.Source
	)
	if cfg.HasDatabase() {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
		source = picks.NewStore(pool.Pool, cfg.Season, logger)
	} else {
		logger.Info("No DATABASE_URL; reading picks from file", "path", cfg.PicksFile)
		source = picks.FileSource{Path: cfg.PicksFile}
	}

	// Initialize cache and metrics
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", appCache.Enabled(), "ttl", cfg.PoolCacheTTL)
	appMetrics := metrics.New(nil)
	appCache.OnHit = appMetrics.CacheHit
	appCache.OnMiss = appMetrics.CacheMiss

	// Standings provider
	client := espn.NewClient(cfg.StandingsURL, cfg.StandingsUserAgent, cfg.StandingsRequestsPerMinute, logger)

	t := tracker.New(tracker.Options{
		Standings:    client,
		Picks:        source,
		Participants: cfg.Participants,
		SeasonGames:  cfg.SeasonGames(),
		Season:       cfg.Season,
		Cache:        appCache,
		CacheTTL:     cfg.PoolCacheTTL,
		Metrics:      appMetrics,
		Logger:       logger,
	})

	// Start LISTEN/NOTIFY consumer so edited picks show up without a restart
	if pool != nil {
		go listener.Start(ctx, cfg.DatabaseURL, func(season int) {
			if season == cfg.Season {
				t.Invalidate()
				logger.Info("Pool snapshot invalidated", "season", season)
			}
		}, logger)
	}

	// Start refresh tickers (snapshot warm-up, cache eviction)
	refreshCfg := refresh.DefaultConfig()
	refreshCfg.WarmInterval = cfg.RefreshInterval
	go refresh.Start(ctx, t, appCache, refreshCfg, logger)

	// Create router
	router := api.NewRouter(api.Deps{
		Tracker: t,
		Cache:   appCache,
		DB:      pool,
		Metrics: appMetrics,
	}, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Overs Pool API",
			"addr", addr,
			"environment", cfg.Environment,
			"league", cfg.League,
			"season", cfg.Season,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
