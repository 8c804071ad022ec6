// Command ingest loads NBA data into the store the API reads.
//
// Usage:
//
//	nba-ingest etl --season 2024
//	nba-ingest etl --season 2023-24 --csv "NBA Team Stats.csv"
//	nba-ingest csv --file "NBA Team Stats.csv" --season 2024
//	nba-ingest status
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/nba-stats-bot/internal/config"
	"github.com/albapepper/nba-stats-bot/internal/db"
	"github.com/albapepper/nba-stats-bot/internal/logging"
	"github.com/albapepper/nba-stats-bot/internal/maintenance"
	"github.com/albapepper/nba-stats-bot/internal/provider"
	"github.com/albapepper/nba-stats-bot/internal/provider/bdl"
	"github.com/albapepper/nba-stats-bot/internal/seed"
	"github.com/albapepper/nba-stats-bot/internal/store"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "nba-ingest",
		Short:         "NBA stats ETL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(etlCmd())
	root.AddCommand(csvCmd())
	root.AddCommand(statusCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "nba-ingest: %v\n", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// etl command
// --------------------------------------------------------------------------

func etlCmd() *cobra.Command {
	var (
		seasonArg   string
		csvPath     string
		skipCSV     bool
		skipLeaders bool
	)
	cmd := &cobra.Command{
		Use:   "etl",
		Short: "Fetch teams, games and leaders from BallDontLie and replace the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, cfg *config.Config, d *db.DB, logger *slog.Logger) error {
				season, err := resolveSeason(seasonArg, cfg)
				if err != nil {
					return err
				}
				if cfg.BDLAPIKey == "" {
					logger.Warn("BALLDONTLIE_API_KEY is not set; requests may be rejected")
				}
				opts := seed.Options{Season: season, SkipLeaders: skipLeaders}
				if !skipCSV {
					opts.CSVPath = csvPath
					if opts.CSVPath == "" {
						opts.CSVPath = cfg.TeamStatsCSV
					}
				}

				client := bdl.NewClient(cfg.BDLBaseURL, cfg.BDLAPIKey, cfg.BDLRequestsPerMinute, logger)
				handler := bdl.NewNBAHandler(client, logger)

				logger.Info("Starting NBA ETL",
					"season", season,
					"season_label", provider.SeasonLabel(season),
					"driver", d.Driver())
				start := time.Now()
				result, err := seed.SeedNBA(ctx, store.New(d), handler, opts, logger)
				if err != nil {
					return fmt.Errorf("etl season %d: %w", season, err)
				}
				logSeedErrors(result, logger)
				logger.Info("NBA ETL finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())

				// Stale planner stats only slow reads; the run already committed.
				_ = maintenance.AnalyzeTables(ctx, d, logger)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&seasonArg, "season", "", "Season end year, e.g. 2024 or 2023-24 (default DEFAULT_SEASON)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Team stats CSV export (default TEAM_STATS_CSV)")
	cmd.Flags().BoolVar(&skipCSV, "skip-csv", false, "Do not load the team stats CSV")
	cmd.Flags().BoolVar(&skipLeaders, "skip-leaders", false, "Do not fetch season scoring leaders")
	return cmd
}

// --------------------------------------------------------------------------
// csv command
// --------------------------------------------------------------------------

func csvCmd() *cobra.Command {
	var (
		seasonArg string
		path      string
	)
	cmd := &cobra.Command{
		Use:   "csv",
		Short: "Load only the team stats CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, cfg *config.Config, d *db.DB, logger *slog.Logger) error {
				season, err := resolveSeason(seasonArg, cfg)
				if err != nil {
					return err
				}
				if path == "" {
					path = cfg.TeamStatsCSV
				}

				result, err := seed.SeedCSV(ctx, store.New(d), path, season, logger)
				if err != nil {
					return fmt.Errorf("load %s: %w", path, err)
				}
				logger.Info("Team stats load finished", "summary", result.Summary())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "CSV path (default TEAM_STATS_CSV)")
	cmd.Flags().StringVar(&seasonArg, "season", "", "Season recorded on the run marker (default DEFAULT_SEASON)")
	return cmd
}

// --------------------------------------------------------------------------
// status command
// --------------------------------------------------------------------------

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the latest ETL run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, cfg *config.Config, d *db.DB, logger *slog.Logger) error {
				run, ok, err := store.New(d).LatestRun(ctx)
				if errors.Is(err, store.ErrNotReady) || (err == nil && !ok) {
					fmt.Fprintln(cmd.OutOrStdout(), "No ETL run recorded.")
					return nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"run %s\nseason %s\nteams %d, games %d, leaders %d, team stats %d\nfinished %s\n",
					run.RunID, provider.SeasonLabel(run.Season),
					run.Teams, run.Games, run.Leaders, run.TeamStats,
					run.FinishedAt.Format(time.RFC3339))
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// runSeed handles config loading, logging, DB connection, and context
// cancellation.
func runSeed(fn func(ctx context.Context, cfg *config.Config, d *db.DB, logger *slog.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFile)

	d, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer d.Close()

	return fn(ctx, cfg, d, logger)
}

func resolveSeason(arg string, cfg *config.Config) (int, error) {
	if arg == "" {
		return cfg.DefaultSeason, nil
	}
	season, ok := provider.ParseSeason(arg)
	if !ok || season < 1947 {
		return 0, fmt.Errorf("invalid season %q: want an end year such as 2024 or 2023-24", arg)
	}
	return season, nil
}

func logSeedErrors(r seed.Result, logger *slog.Logger) {
	for _, e := range r.Errors {
		logger.Error("seed error", "error", e)
	}
}
