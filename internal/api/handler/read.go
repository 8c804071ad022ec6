package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/albapepper/nba-stats-bot/internal/api/respond"
	"github.com/albapepper/nba-stats-bot/internal/cache"
	"github.com/albapepper/nba-stats-bot/internal/provider"
	"github.com/albapepper/nba-stats-bot/internal/store"
	"github.com/albapepper/nba-stats-bot/internal/team"
)

const (
	defaultLeaderLimit = 10
	maxLeaderLimit     = 100
)

// notFound is a load result that maps to 404 with its message.
type notFound string

func (e notFound) Error() string { return string(e) }

// badRequest maps to 400 with its message.
type badRequest string

func (e badRequest) Error() string { return string(e) }

// GetTeams lists every team.
// @Summary List teams
// @Description Returns all teams loaded by the last ETL run.
// @Tags data
// @Produce json
// @Success 200 {array} store.Team
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/teams [get]
func (h *Handler) GetTeams(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "teams", cache.TTLTeams, func(ctx context.Context) (any, error) {
		teams, err := h.store.Teams(ctx)
		if err != nil {
			return nil, err
		}
		if len(teams) == 0 {
			return nil, notFound("No teams found")
		}
		return teams, nil
	})
}

// GetLeaders lists season scoring leaders.
// @Summary Season scoring leaders
// @Description Returns points-per-game leaders for a season (end year, e.g. 2024 or 2023-24). Defaults to the latest season loaded.
// @Tags data
// @Produce json
// @Param season query string false "Season"
// @Param limit query int false "Maximum rows (1-100)" default(10)
// @Success 200 {array} store.SeasonLeader
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/leaders [get]
func (h *Handler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxLeaderLimit {
			respond.WriteError(w, http.StatusBadRequest, fmt.Sprintf("limit must be an integer between 1 and %d", maxLeaderLimit))
			return
		}
		limit = n
	}
	season, err := h.season(r)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	key := fmt.Sprintf("leaders:%d:%d", season, limit)
	h.serveCached(w, r, key, cache.TTLLeaders, func(ctx context.Context) (any, error) {
		leaders, err := h.store.SeasonLeaders(ctx, season, limit)
		if err != nil {
			return nil, err
		}
		if len(leaders) == 0 {
			return nil, notFound(fmt.Sprintf("No leaders found for %d", season))
		}
		return leaders, nil
	})
}

// GetTeamStats returns the CSV team stats row for a team and season.
// @Summary Team season stats
// @Description Best-effort lookup of the CSV team stats, matching the team's full name, city and mascot, or abbreviation.
// @Tags data
// @Produce json
// @Param team query string true "Team name, nickname or abbreviation"
// @Param season query string false "Season"
// @Success 200 {object} store.TeamSeasonStat
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 503 {object} respond.ErrorResponse
// @Router /api/v1/team-stats [get]
func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	fragment := strings.TrimSpace(r.URL.Query().Get("team"))
	if fragment == "" {
		respond.WriteError(w, http.StatusBadRequest, "team query parameter is required")
		return
	}
	season, err := h.season(r)
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	res, err := h.resolver(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	t, ok := res.Resolve(fragment)
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "Team not recognised")
		return
	}

	key := fmt.Sprintf("team-stats:%d:%d", t.ID, season)
	h.serveCached(w, r, key, cache.TTLTeamStats, func(ctx context.Context) (any, error) {
		st, ok, err := h.store.TeamStats(ctx, team.Keys(t), season)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, notFound(fmt.Sprintf("No team stats found for %s in %d", t.Name, season))
		}
		return st, nil
	})
}

// serveCached answers from the cache when possible, honouring If-None-Match,
// and otherwise encodes the result of load and caches it.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, load func(context.Context) (any, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := load(r.Context())
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.writeFailure(w, r, fmt.Errorf("encode %s: %w", key, err))
		return
	}

	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// writeFailure maps load errors to status codes. Unclassified errors are
// faults and are logged with the request id.
func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var (
		nf notFound
		br badRequest
	)
	switch {
	case errors.As(err, &br):
		respond.WriteError(w, http.StatusBadRequest, string(br))
	case errors.As(err, &nf):
		respond.WriteError(w, http.StatusNotFound, string(nf))
	case errors.Is(err, store.ErrNotReady):
		h.logger.Warn("Stats not loaded, needs ETL", "path", r.URL.Path, "error", err)
		respond.WriteError(w, http.StatusServiceUnavailable, "Stats are not loaded yet")
	default:
		h.logger.Error("Read request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err)
		respond.WriteError(w, http.StatusInternalServerError, "Server error")
	}
}

// season parses the season query parameter, falling back to the latest
// season in the store and then the configured default.
func (h *Handler) season(r *http.Request) (int, error) {
	if v := r.URL.Query().Get("season"); v != "" {
		s, ok := provider.ParseSeason(v)
		if !ok {
			return 0, badRequest("season must look like 2024 or 2023-24")
		}
		return s, nil
	}
	latest, ok, err := h.store.LatestSeason(r.Context())
	if err != nil {
		return 0, err
	}
	if !ok {
		return h.cfg.DefaultSeason, nil
	}
	return latest, nil
}

// resolver returns the current resolver, loading it if empty.
func (h *Handler) resolver(ctx context.Context) (*team.Resolver, error) {
	res := h.svc.Resolver()
	if res.Len() > 0 {
		return res, nil
	}
	if err := h.svc.Reload(ctx); err != nil {
		return nil, err
	}
	return h.svc.Resolver(), nil
}
