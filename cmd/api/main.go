// Command api is the NBA stats question-answering server.
//
// Usage:
//
//	nba-api
//	API_PORT=8080 DB_PATH=nba_stats.db nba-api

// @title NBA Stats Bot API
// @version 1.0
// @description Answers simple questions about NBA team scoring and recent games, backed by data loaded by nba-ingest.
// @BasePath /
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/nba-stats-bot/internal/answer"
	"github.com/albapepper/nba-stats-bot/internal/api"
	"github.com/albapepper/nba-stats-bot/internal/cache"
	"github.com/albapepper/nba-stats-bot/internal/config"
	"github.com/albapepper/nba-stats-bot/internal/db"
	"github.com/albapepper/nba-stats-bot/internal/listener"
	"github.com/albapepper/nba-stats-bot/internal/logging"
	"github.com/albapepper/nba-stats-bot/internal/maintenance"
	"github.com/albapepper/nba-stats-bot/internal/metrics"
	"github.com/albapepper/nba-stats-bot/internal/store"
	"github.com/albapepper/nba-stats-bot/internal/team"

	_ "github.com/albapepper/nba-stats-bot/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFile)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Open the store. Tables may not exist yet; requests report not-ready
	// until the first ETL run.
	logger.Info("Connecting to database...", "driver", cfg.DBDriver)
	database, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	st := store.New(database)
	logger.Info("Database connected", "driver", database.Driver())

	aliases, err := team.LoadAliases(cfg.AliasesFile)
	if err != nil {
		logger.Error("Failed to load team aliases", "file", cfg.AliasesFile, "error", err)
		os.Exit(1)
	}

	svc := answer.NewService(st, aliases, cfg.DefaultSeason, logger)
	appMetrics := metrics.New()

	// Initialize cache
	appCache := cache.New(ctx, cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Every new ETL run rebuilds the resolver and drops cached responses.
	refresher := maintenance.NewRefresher(st, func(ctx context.Context, run store.ETLRun) {
		err := svc.Reload(ctx)
		appMetrics.RecordReload(svc.Resolver().Len(), err)
		if err != nil {
			logger.Warn("Resolver reload failed", "run_id", run.RunID, "error", err)
			return
		}
		appCache.Purge()
		logger.Info("Resolver reloaded", "run_id", run.RunID, "teams", svc.Resolver().Len())
	}, logger)
	if !refresher.Check(ctx) {
		logger.Warn("No ETL run recorded yet; answers report not-ready until nba-ingest runs")
	}

	// Postgres pushes run commits; SQLite relies on the refresh ticker alone.
	if database.Driver() == db.DriverPostgres {
		go listener.Start(ctx, cfg.DatabaseURL, func(ctx context.Context, _ string) {
			refresher.Check(ctx)
		}, logger)
	}

	// Start maintenance tickers (refresh, prune)
	go maintenance.Start(ctx, refresher, st, maintenance.DefaultConfig(cfg.RefreshInterval), logger)

	// Create router
	router := api.NewRouter(api.Deps{
		Answerer: svc,
		Store:    st,
		DB:       database,
		Cache:    appCache,
		Metrics:  appMetrics,
		Config:   cfg,
		Logger:   logger,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting NBA stats API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
