// Package maintenance runs periodic background tasks for the API as Go
// tickers: watching for new ETL runs and pruning the run history.
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	RefreshInterval time.Duration // Poll etl_runs for a new snapshot
	PruneInterval   time.Duration // Trim old etl_runs rows
	KeepRuns        int
}

// DefaultConfig returns production defaults with the given refresh interval.
func DefaultConfig(refresh time.Duration) Config {
	return Config{
		RefreshInterval: refresh,
		PruneInterval:   6 * time.Hour,
		KeepRuns:        100,
	}
}

// RunPruner deletes all but the newest keep run markers.
type RunPruner interface {
	PruneRuns(ctx context.Context, keep int) (int64, error)
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, r *Refresher, pruner RunPruner, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"refresh", cfg.RefreshInterval,
		"prune", cfg.PruneInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Refresh: pick up runs the listener missed, or every run on SQLite
	if cfg.RefreshInterval > 0 && r != nil {
		t := time.NewTicker(cfg.RefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "refresh", func() { r.Check(ctx) })
	}

	// Prune: keep the run history bounded
	if cfg.PruneInterval > 0 && pruner != nil && cfg.KeepRuns > 0 {
		t := time.NewTicker(cfg.PruneInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, "prune", func() { prune(ctx, pruner, cfg.KeepRuns, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, name string, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func prune(ctx context.Context, p RunPruner, keep int, logger *slog.Logger) {
	n, err := p.PruneRuns(ctx, keep)
	if err != nil {
		logger.Warn("Prune: failed to trim etl_runs", "error", err)
		return
	}
	if n > 0 {
		logger.Info("Prune: trimmed etl_runs", "count", n)
	}
}
