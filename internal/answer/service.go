package answer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/albapepper/nba-stats-bot/internal/intent"
	"github.com/albapepper/nba-stats-bot/internal/query"
	"github.com/albapepper/nba-stats-bot/internal/store"
	"github.com/albapepper/nba-stats-bot/internal/team"
)

// Source is the read side of the store the pipeline needs.
type Source interface {
	query.Reader
	Teams(ctx context.Context) ([]store.Team, error)
}

// Service answers questions. The team resolver is rebuilt by Reload and
// swapped atomically; requests in flight keep the resolver they loaded.
type Service struct {
	src           Source
	engine        *query.Engine
	aliases       team.Aliases
	defaultSeason int
	logger        *slog.Logger

	resolver atomic.Pointer[team.Resolver]
}

// NewService returns a pipeline over src with an empty resolver. Call Reload
// once at startup; a request that finds the resolver empty reloads it.
func NewService(src Source, aliases team.Aliases, defaultSeason int, logger *slog.Logger) *Service {
	s := &Service{
		src:           src,
		engine:        query.New(src),
		aliases:       aliases,
		defaultSeason: defaultSeason,
		logger:        logger,
	}
	s.resolver.Store(team.NewResolver(aliases, nil))
	return s
}

// Reload rebuilds the resolver from the teams relation. On error the previous
// resolver stays in place.
func (s *Service) Reload(ctx context.Context) error {
	teams, err := s.src.Teams(ctx)
	if err != nil {
		return fmt.Errorf("reload teams: %w", err)
	}
	s.resolver.Store(team.NewResolver(s.aliases, teams))
	return nil
}

// Resolver returns the current resolver.
func (s *Service) Resolver() *team.Resolver {
	return s.resolver.Load()
}

// Answer runs the pipeline for question. The error is non-nil only for
// faults; not-ready data, unknown teams and missing games are normal replies.
func (s *Service) Answer(ctx context.Context, question string) (Reply, error) {
	p := intent.Parse(question)
	reply := Reply{Intent: p.Intent}

	if p.Intent == intent.Unknown {
		return s.finish(reply, OutcomeHelp), nil
	}

	r := s.resolver.Load()
	if r.Len() == 0 {
		if err := s.Reload(ctx); err != nil {
			return s.fail(reply, err)
		}
		r = s.resolver.Load()
	}

	t, ok := r.Resolve(p.Fragment)
	if !ok {
		s.logger.Debug("Team not resolved", "fragment", p.Fragment, "intent", p.Intent)
		return s.finish(reply, OutcomeUnrecognised), nil
	}
	reply.Resolved = true
	reply.Team = t.Name

	switch p.Intent {
	case intent.AveragePoints:
		season, err := s.season(ctx, p.Season)
		if err != nil {
			return s.fail(reply, err)
		}
		reply.Season = season

		if name := s.engine.TeamName(ctx, t.ID); name.Status == query.Found {
			reply.Team = name.Value
		}

		res := s.engine.AveragePoints(ctx, t.ID, season)
		if res.Err != nil {
			return s.fail(reply, res.Err)
		}
		reply.Status = res.Status
		reply.Average = res.Value

	case intent.LastGame:
		res := s.engine.LastGame(ctx, t.ID)
		if res.Err != nil {
			return s.fail(reply, res.Err)
		}
		reply.Status = res.Status
		reply.Game = res.Value
	}

	if reply.Status == query.Found {
		return s.finish(reply, OutcomeAnswered), nil
	}
	return s.finish(reply, OutcomeNoData), nil
}

// season returns the explicit season, else the latest season in the store,
// else the configured default.
func (s *Service) season(ctx context.Context, explicit *int) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}
	latest := s.engine.LatestSeason(ctx)
	switch latest.Status {
	case query.Found:
		return latest.Value, nil
	case query.NotFound:
		return s.defaultSeason, nil
	default:
		return 0, latest.Err
	}
}

func (s *Service) finish(r Reply, o Outcome) Reply {
	r.Outcome = o
	r.Text = Format(r)
	return r
}

// fail classifies err: missing relations become a not-ready reply, anything
// else is returned as a fault.
func (s *Service) fail(r Reply, err error) (Reply, error) {
	if errors.Is(err, store.ErrNotReady) {
		s.logger.Warn("Stats not loaded, needs ETL", "intent", r.Intent, "error", err)
		r.Status = query.DataUnavailable
		return s.finish(r, OutcomeNotReady), nil
	}
	r.Status = query.Fault
	r.Outcome = OutcomeError
	return r, fmt.Errorf("answer %s question: %w", r.Intent, err)
}
