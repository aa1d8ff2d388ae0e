// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/poolctl.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// League registry
// --------------------------------------------------------------------------

type LeagueConfig struct {
	ID            string
	Name          string
	SeasonGames   int
	CurrentSeason int
}

var LeagueRegistry = map[string]LeagueConfig{
	"NBA": {ID: "NBA", Name: "National Basketball Association", SeasonGames: 82, CurrentSeason: 2025},
}

// --------------------------------------------------------------------------
// Table names: single source of truth for the picks schema
// --------------------------------------------------------------------------

const (
	PicksTable = "pool_picks"

	// PicksChangedChannel is the LISTEN/NOTIFY channel fired on picks upserts.
	PicksChangedChannel = "pool_picks_changed"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database (optional: picks come from PicksFile when unset)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Standings provider
	StandingsURL               string
	StandingsRequestsPerMinute int
	StandingsUserAgent         string

	// Pool
	League       string
	Season       int
	PicksFile    string
	Participants []string

	// Cache and refresh
	CacheEnabled    bool
	PoolCacheTTL    time.Duration
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	league := strings.ToUpper(envOr("POOL_LEAGUE", "NBA"))
	lc, ok := LeagueRegistry[league]
	if !ok {
		return nil, fmt.Errorf("unsupported POOL_LEAGUE %q", league)
	}

	cfg := &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 4),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		StandingsURL:               envOr("STANDINGS_URL", ""),
		StandingsRequestsPerMinute: envInt("STANDINGS_REQUESTS_PER_MINUTE", 30),
		StandingsUserAgent:         envOr("STANDINGS_USER_AGENT", "overs-pool/1.0"),

		League:       lc.ID,
		Season:       envInt("POOL_SEASON", lc.CurrentSeason),
		PicksFile:    envOr("POOL_PICKS_FILE", "data/picks-2025.json"),
		Participants: envList("POOL_PARTICIPANTS", nil),

		CacheEnabled:    envBool("CACHE_ENABLED", true),
		PoolCacheTTL:    envDuration("POOL_CACHE_TTL", 12*time.Hour),
		RefreshInterval: envDuration("POOL_REFRESH_INTERVAL", 6*time.Hour),
	}

	if cfg.RateLimitEnabled && (cfg.RateLimitRequests <= 0 || cfg.RateLimitWindow <= 0) {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive")
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether a Postgres picks store is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// SeasonGames returns the regular-season length of the configured league.
func (c *Config) SeasonGames() int {
	return LeagueRegistry[c.League].SeasonGames
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go duration strings ("90m", "12h"); "0" disables.
func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
