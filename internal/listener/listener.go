// Package listener provides a Postgres LISTEN/NOTIFY consumer that reloads
// the API as soon as an ETL run commits. It holds a dedicated pgx connection
// (not from the database/sql pool) listening on the `etl_complete` channel.
//
// The ETL writer calls pg_notify inside its replace transaction, so the
// notification arrives only after the new snapshot is visible.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/albapepper/nba-stats-bot/internal/store"
)

const (
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Start opens a dedicated connection and listens on the etl_complete
// channel, calling onRun with each committed run id. It reconnects
// automatically on connection loss. Blocks until ctx is cancelled. Intended
// to be called with `go`.
func Start(ctx context.Context, dbURL string, onRun func(ctx context.Context, runID string), logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, onRun, logger)
		if ctx.Err() != nil {
			logger.Info("ETL listener stopped (context cancelled)")
			return
		}

		logger.Error("ETL listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, onRun func(context.Context, string), logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+store.NotifyChannel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", store.NotifyChannel, err)
	}
	logger.Info("ETL listener connected", "channel", store.NotifyChannel)

	// A run may have committed while we were disconnected.
	onRun(ctx, "")

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}
		handle(ctx, notification.Payload, onRun, logger)
	}
}

// handle validates a notification payload and forwards the run id.
func handle(ctx context.Context, payload string, onRun func(context.Context, string), logger *slog.Logger) bool {
	id, err := uuid.Parse(payload)
	if err != nil {
		logger.Warn("Ignoring malformed etl_complete payload",
			"payload", payload, "error", err)
		return false
	}

	logger.Info("ETL run committed", "run_id", id.String())
	onRun(ctx, id.String())
	return true
}
