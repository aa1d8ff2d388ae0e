package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/overs-pool/internal/api/handler"
	"github.com/albapepper/overs-pool/internal/cache"
	"github.com/albapepper/overs-pool/internal/config"
	"github.com/albapepper/overs-pool/internal/db"
	"github.com/albapepper/overs-pool/internal/metrics"
	"github.com/albapepper/overs-pool/internal/tracker"
)

// Deps are the shared services the router hands to its handlers.
type Deps struct {
	Tracker *tracker.Tracker
	Cache   *cache.Cache
	DB      *db.Pool // optional
	Metrics *metrics.Metrics
}

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps Deps, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(MetricsMiddleware(deps.Metrics))
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(deps.Tracker, deps.Cache, deps.DB, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", deps.Metrics.Handler())

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Pool
		r.Get("/pool", h.GetPool)
		r.Get("/pool/leaderboard", h.GetLeaderboard)
		r.Get("/pool/teams", h.GetTeams)
		r.Get("/pool/teams/{team}", h.GetTeam)

		// Inputs
		r.Get("/standings", h.GetStandings)
		r.Get("/picks", h.GetPicks)
	})

	return r
}
