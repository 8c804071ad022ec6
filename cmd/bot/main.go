// Command bot relays Discord chat commands to the NBA stats API.
//
// Usage:
//
//	DISCORD_TOKEN=... BOT_CHAT_URL=http://localhost:8080/chat nba-bot
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/albapepper/nba-stats-bot/internal/bot"
	"github.com/albapepper/nba-stats-bot/internal/config"
	"github.com/albapepper/nba-stats-bot/internal/logging"
	"github.com/albapepper/nba-stats-bot/internal/relay"
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFile)

	if cfg.DiscordToken == "" {
		logger.Error("DISCORD_TOKEN environment variable is missing")
		os.Exit(1)
	}
	if cfg.BotChatURL == "" {
		logger.Warn("BOT_CHAT_URL is empty; questions will get a configuration warning")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Cooldown: shared through Redis when configured, otherwise per process.
	var cooldown bot.Cooldown = bot.NewMemoryCooldown(cfg.BotCooldown)
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to parse REDIS_URL", "error", err)
			os.Exit(1)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unreachable, using in-process cooldown", "error", err)
		} else {
			cooldown = bot.NewRedisCooldown(rdb, cfg.BotCooldown)
			logger.Info("Connected to Redis for cooldowns")
		}
	}

	b := bot.New(cfg.BotPrefix, relay.New(cfg.BotChatURL, cfg.BotRelayTimeout, logger), cooldown, logger)

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Error("Failed to create Discord session", "error", err)
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	session.AddHandler(b.OnReady)
	session.AddHandler(b.OnMessageCreate)

	// Health server for the hosting platform's liveness checks
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	health := &http.Server{
		Addr:              addr,
		Handler:           bot.HealthRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Starting health server", "addr", addr)
		if err := health.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Health server failed", "error", err)
		}
	}()

	if err := session.Open(); err != nil {
		logger.Error("Failed to connect to Discord", "error", err)
		os.Exit(1)
	}
	logger.Info("Bot running", "prefix", cfg.BotPrefix, "chat_url", cfg.BotChatURL)

	<-ctx.Done()
	logger.Info("Shutting down...")

	if err := session.Close(); err != nil {
		logger.Warn("Discord close error", "error", err)
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := health.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Bot stopped")
}
