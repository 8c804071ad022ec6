package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/nba-stats-bot/internal/api/handler"
	"github.com/albapepper/nba-stats-bot/internal/cache"
	"github.com/albapepper/nba-stats-bot/internal/config"
	"github.com/albapepper/nba-stats-bot/internal/metrics"
)

// Deps are the dependencies of the router.
type Deps struct {
	Answerer handler.Answerer
	Store    handler.Reader
	DB       handler.Pinger
	Cache    *cache.Cache
	Metrics  *metrics.Metrics
	Config   *config.Config
	Logger   *slog.Logger
}

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(d Deps) *chi.Mux {
	cfg := d.Config
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(d.Logger))
	r.Use(middleware.Recoverer)
	r.Use(TimingMiddleware)
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "X-Request-Id", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow, d.Metrics.RecordRateLimitHit))
	}

	// --- Handler dependencies ---
	h := handler.New(handler.Deps{
		Answerer: d.Answerer,
		Store:    d.Store,
		DB:       d.DB,
		Cache:    d.Cache,
		Metrics:  d.Metrics,
		Config:   cfg,
		Logger:   d.Logger,
	})

	// --- Routes ---

	// Probes
	r.Get("/", h.Root)
	r.Get("/healthz", h.Healthz)
	r.Route("/health", func(r chi.Router) {
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Chat
	r.Post("/chat", h.Chat)
	r.Get("/ui", h.UI)

	// Ops
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	// Read API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/teams", h.GetTeams)
		r.Get("/leaders", h.GetLeaders)
		r.Get("/team-stats", h.GetTeamStats)
	})

	return r
}
