package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/nba-stats-bot/internal/provider"
	"github.com/albapepper/nba-stats-bot/internal/provider/csvstats"
	"github.com/albapepper/nba-stats-bot/internal/store"
)

// Fetcher is the upstream source. *bdl.NBAHandler implements it.
type Fetcher interface {
	GetTeams(ctx context.Context) ([]provider.Team, error)
	GetGames(ctx context.Context, startYear int, fn func([]provider.Game) error) error
	GetLeaders(ctx context.Context, startYear int, statType string) ([]provider.Leader, error)
}

// Writer replaces the store snapshot. *store.Store implements it.
type Writer interface {
	Replace(ctx context.Context, snap store.Snapshot, run store.ETLRun) error
}

// Options configures one NBA run.
type Options struct {
	Season      int    // end-year convention
	CSVPath     string // optional team stats export
	SkipLeaders bool
}

// SeedNBA runs the full NBA flow: teams -> games -> leaders -> CSV, then a
// single Replace. Any upstream failure aborts the run before the store is
// touched. A missing CSV is skipped and leaves team_stats as it was.
func SeedNBA(ctx context.Context, w Writer, src Fetcher, opts Options, logger *slog.Logger) (Result, error) {
	result := Result{RunID: uuid.NewString(), Season: opts.Season}
	startYear := provider.StartYear(opts.Season)
	logger = logger.With("run_id", result.RunID)

	// 1. Teams
	logger.Info("Fetching NBA teams...")
	rawTeams, err := src.GetTeams(ctx)
	if err != nil {
		return result, fmt.Errorf("teams: %w", err)
	}
	teams := ToTeams(rawTeams)
	result.Teams = len(teams)
	logger.Info("NBA teams done", "count", result.Teams)

	// 2. Games
	logger.Info("Fetching NBA games...", "season", provider.SeasonLabel(opts.Season))
	var rawGames []provider.Game
	err = src.GetGames(ctx, startYear, func(page []provider.Game) error {
		rawGames = append(rawGames, page...)
		if len(rawGames)%500 < len(page) {
			logger.Info("NBA games progress", "fetched", len(rawGames))
		}
		return nil
	})
	if err != nil {
		return result, fmt.Errorf("games: %w", err)
	}
	games, skipped := FilterGames(rawGames, opts.Season)
	result.Games, result.GamesSkipped = len(games), skipped
	logger.Info("NBA games done", "count", result.Games, "skipped", skipped)

	snap := store.Snapshot{Teams: teams, Games: games}

	// 3. Leaders
	if !opts.SkipLeaders {
		logger.Info("Fetching NBA scoring leaders...")
		rawLeaders, err := src.GetLeaders(ctx, startYear, "pts")
		if err != nil {
			return result, fmt.Errorf("leaders: %w", err)
		}
		snap.Leaders = ToLeaders(rawLeaders, teams, opts.Season)
		result.Leaders = len(snap.Leaders)
		logger.Info("NBA leaders done", "count", result.Leaders)
	}

	// 4. Optional CSV
	if opts.CSVPath != "" {
		stats, err := loadCSV(opts.CSVPath, &result, logger)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Info("No team stats CSV, keeping existing team_stats", "path", opts.CSVPath)
		case err != nil:
			result.AddErrorf("team stats csv: %v", err)
			logger.Warn("Skipping team stats CSV", "path", opts.CSVPath, "error", err)
		default:
			snap.TeamStats = stats
		}
	}

	if err := w.Replace(ctx, snap, runMarker(result)); err != nil {
		return result, fmt.Errorf("replace snapshot: %w", err)
	}
	logger.Info("NBA ETL complete", "summary", result.Summary())
	return result, nil
}

// SeedCSV loads only the team stats export. Unlike SeedNBA, a missing file is
// an error.
func SeedCSV(ctx context.Context, w Writer, path string, season int, logger *slog.Logger) (Result, error) {
	result := Result{RunID: uuid.NewString(), Season: season}
	logger = logger.With("run_id", result.RunID)

	stats, err := loadCSV(path, &result, logger)
	if err != nil {
		return result, err
	}
	if err := w.Replace(ctx, store.Snapshot{TeamStats: stats}, runMarker(result)); err != nil {
		return result, fmt.Errorf("replace team stats: %w", err)
	}
	logger.Info("Team stats CSV loaded", "summary", result.Summary())
	return result, nil
}

func loadCSV(path string, result *Result, logger *slog.Logger) ([]store.TeamSeasonStat, error) {
	parsed, err := csvstats.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stats, dups := ToTeamStats(parsed.Rows)
	result.TeamStats = len(stats)
	result.TeamStatsSkipped = parsed.Skipped + dups
	logger.Info("Team stats CSV parsed", "rows", result.TeamStats, "skipped", result.TeamStatsSkipped)
	return stats, nil
}

func runMarker(r Result) store.ETLRun {
	return store.ETLRun{
		RunID:      r.RunID,
		Season:     r.Season,
		Teams:      r.Teams,
		Games:      r.Games,
		TeamStats:  r.TeamStats,
		Leaders:    r.Leaders,
		FinishedAt: time.Now(),
	}
}
