package maintenance

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/albapepper/nba-stats-bot/internal/store"
)

// RunSource reports the latest ETL run.
type RunSource interface {
	LatestRun(ctx context.Context) (store.ETLRun, bool, error)
}

// Refresher calls OnNewRun once for every ETL run it has not seen yet.
// Check is safe to call concurrently from the ticker and the listener.
type Refresher struct {
	src      RunSource
	onNewRun func(ctx context.Context, run store.ETLRun)
	logger   *slog.Logger

	mu     sync.Mutex
	lastID string
}

// NewRefresher returns a refresher that has seen no run.
func NewRefresher(src RunSource, onNewRun func(ctx context.Context, run store.ETLRun), logger *slog.Logger) *Refresher {
	return &Refresher{src: src, onNewRun: onNewRun, logger: logger}
}

// Check reads the latest run marker and fires OnNewRun when it changed. It
// reports whether a new run was seen.
func (r *Refresher) Check(ctx context.Context) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok, err := r.src.LatestRun(ctx)
	switch {
	case errors.Is(err, store.ErrNotReady):
		r.logger.Debug("Refresh: no ETL run recorded yet")
		return false
	case err != nil:
		r.logger.Warn("Refresh: failed to read ETL marker", "error", err)
		return false
	case !ok || run.RunID == r.lastID:
		return false
	}

	r.logger.Info("ETL marker changed",
		"run_id", run.RunID,
		"season", run.Season,
		"teams", run.Teams,
		"games", run.Games,
		"finished_at", run.FinishedAt)
	r.lastID = run.RunID
	r.onNewRun(ctx, run)
	return true
}

// LastRunID returns the id of the most recent run handled.
func (r *Refresher) LastRunID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastID
}
