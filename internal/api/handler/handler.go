// Package handler provides HTTP handlers for all API endpoints. /chat runs
// the answer pipeline; the read API serves store rows as cached JSON.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/nba-stats-bot/internal/answer"
	"github.com/albapepper/nba-stats-bot/internal/api/respond"
	"github.com/albapepper/nba-stats-bot/internal/cache"
	"github.com/albapepper/nba-stats-bot/internal/config"
	"github.com/albapepper/nba-stats-bot/internal/metrics"
	"github.com/albapepper/nba-stats-bot/internal/store"
	"github.com/albapepper/nba-stats-bot/internal/team"
)

// Answerer is the question pipeline. *answer.Service implements it.
type Answerer interface {
	Answer(ctx context.Context, question string) (answer.Reply, error)
	Resolver() *team.Resolver
	Reload(ctx context.Context) error
}

// Reader is the read side of the store used by the read API.
type Reader interface {
	Teams(ctx context.Context) ([]store.Team, error)
	SeasonLeaders(ctx context.Context, season, limit int) ([]store.SeasonLeader, error)
	TeamStats(ctx context.Context, keys []string, season int) (store.TeamSeasonStat, bool, error)
	LatestSeason(ctx context.Context) (int, bool, error)
	LatestRun(ctx context.Context) (store.ETLRun, bool, error)
}

// Pinger checks database connectivity. *db.DB implements it.
type Pinger interface {
	HealthCheck(ctx context.Context) error
	Driver() string
}

// Deps are the shared dependencies of every handler.
type Deps struct {
	Answerer Answerer
	Store    Reader
	DB       Pinger
	Cache    *cache.Cache
	Metrics  *metrics.Metrics
	Config   *config.Config
	Logger   *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	svc     Answerer
	store   Reader
	db      Pinger
	cache   *cache.Cache
	metrics *metrics.Metrics
	cfg     *config.Config
	logger  *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	return &Handler{
		svc:     d.Answerer,
		store:   d.Store,
		db:      d.DB,
		cache:   d.Cache,
		metrics: d.Metrics,
		cfg:     d.Config,
		logger:  d.Logger,
	}
}

// Root is the plain-text liveness probe at /.
// @Summary Root probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "OK"
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteText(w, http.StatusOK, "OK")
}

// Healthz is the plain-text health probe.
// @Summary Health probe
// @Tags health
// @Produce plain
// @Success 200 {string} string "healthy"
// @Router /healthz [get]
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respond.WriteText(w, http.StatusOK, "healthy")
}

// HealthCheckDB verifies database connectivity and reports the latest ETL run.
// @Summary Database health check
// @Description Verifies store connectivity and reports the latest ETL run, or data "not_ready" before the first run.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)

	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": now,
		})
		return
	}

	body := map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"driver":    h.db.Driver(),
		"timestamp": now,
	}

	run, ok, err := h.store.LatestRun(r.Context())
	switch {
	case errors.Is(err, store.ErrNotReady) || (err == nil && !ok):
		body["data"] = "not_ready"
	case err != nil:
		h.logger.Error("Failed to read ETL marker", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "connected",
			"error":     "ETL marker check failed",
			"timestamp": now,
		})
		return
	default:
		body["data"] = "ready"
		body["last_run"] = run
		body["resolver_teams"] = h.svc.Resolver().Len()
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns read-API cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
