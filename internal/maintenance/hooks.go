package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/nba-stats-bot/internal/config"
	"github.com/albapepper/nba-stats-bot/internal/db"
)

// AnalyzeTables refreshes planner statistics after ingestion so the first
// queries against a new snapshot use the game indexes. Call this after a
// successful ETL run.
func AnalyzeTables(ctx context.Context, d *db.DB, logger *slog.Logger) error {
	tables := []string{
		config.TeamsTable,
		config.GamesTable,
		config.SeasonLeadersTable,
	}

	for _, t := range tables {
		start := time.Now()
		_, err := d.ExecContext(ctx, "ANALYZE "+t)
		dur := time.Since(start).Round(time.Millisecond)

		if err != nil {
			logger.Warn("Failed to analyze table", "table", t, "duration", dur, "error", err)
			return fmt.Errorf("analyze %s: %w", t, err)
		}
		logger.Debug("Analyzed table", "table", t, "duration", dur)
	}
	return nil
}
