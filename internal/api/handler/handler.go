// Package handler provides HTTP handlers for all API endpoints.
// Handlers read through the tracker, which owns caching of the pool view.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/albapepper/overs-pool/internal/api/respond"
	"github.com/albapepper/overs-pool/internal/cache"
	"github.com/albapepper/overs-pool/internal/config"
	"github.com/albapepper/overs-pool/internal/db"
	"github.com/albapepper/overs-pool/internal/provider/espn"
	"github.com/albapepper/overs-pool/internal/tracker"
)

// Standings change a few times a night; a short TTL keeps the provider
// from seeing one request per page view.
const ttlStandings = 10 * time.Minute

const standingsLoadTimeout = 45 * time.Second

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	tracker *tracker.Tracker
	cache   *cache.Cache
	db      *db.Pool // nil when picks come from a file
	cfg     *config.Config
}

// New creates a Handler with shared dependencies. pool may be nil.
func New(t *tracker.Tracker, c *cache.Cache, pool *db.Pool, cfg *config.Config) *Handler {
	return &Handler{
		tracker: t,
		cache:   c,
		db:      pool,
		cfg:     cfg,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and the configured season.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	picksSource := "file"
	if h.db != nil {
		picksSource = "postgres"
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":         "Overs Pool API",
		"version":      "1.0.0",
		"status":       "running",
		"docs":         "/docs",
		"league":       h.cfg.League,
		"season":       h.cfg.Season,
		"picks_source": picksSource,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity when a picks database is configured.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeTrackerError maps tracker failures onto HTTP errors: an unreachable
// standings provider is a 502, a broken picks sheet a 500. Error details are
// withheld in production.
func (h *Handler) writeTrackerError(w http.ResponseWriter, err error) {
	detail := err.Error()
	if h.cfg.IsProduction() {
		detail = ""
	}
	switch {
	case errors.Is(err, espn.ErrUpstream):
		respond.WriteErrorDetail(w, respond.CodeUpstreamUnavailable, "Failed to fetch standings", detail)
	case errors.Is(err, tracker.ErrPicks):
		respond.WriteErrorDetail(w, respond.CodePicksUnavailable, "Failed to load picks", detail)
	default:
		respond.WriteErrorDetail(w, respond.CodeInternal, "Exception while building pool", detail)
	}
}
