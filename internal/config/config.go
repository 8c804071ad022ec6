// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/api, cmd/ingest and cmd/bot.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Season defaults
// --------------------------------------------------------------------------

// DefaultSeason is used when a question names no season and the store has no
// games to derive one from. Seasons use the end-year convention (2024 = 2023-24).
const DefaultSeason = 2024

// --------------------------------------------------------------------------
// Table names — single source of truth, matches store/schema.go
// --------------------------------------------------------------------------

const (
	TeamsTable         = "teams"
	GamesTable         = "games"
	TeamStatsTable     = "team_stats"
	SeasonLeadersTable = "season_leaders"
	ETLRunsTable       = "etl_runs"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DBDriver       string // sqlite or postgres
	DBPath         string // sqlite file
	DatabaseURL    string // postgres DSN
	DBMaxOpenConns int

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	LogLevel    string
	LogFile     string

	// CORS
	CORSAllowOrigins []string

	// Cache
	CacheEnabled bool

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Question answering
	DefaultSeason   int
	AliasesFile     string
	RefreshInterval time.Duration

	// ETL
	BDLAPIKey            string
	BDLBaseURL           string
	BDLRequestsPerMinute int
	TeamStatsCSV         string

	// Bot relay
	DiscordToken    string
	BotChatURL      string
	BotRelayTimeout time.Duration
	BotPrefix       string
	BotCooldown     time.Duration
	RedisURL        string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DBDriver:       strings.ToLower(envOr("DB_DRIVER", "sqlite")),
		DBPath:         envOr("DB_PATH", "nba_stats.db"),
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBMaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 10),

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8080)),
		Environment: envOr("ENVIRONMENT", "development"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
		LogFile:     envOr("LOG_FILE", ""),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{"*"}),

		CacheEnabled: envBool("CACHE_ENABLED", true),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		DefaultSeason:   envInt("DEFAULT_SEASON", DefaultSeason),
		AliasesFile:     envOr("ALIASES_FILE", ""),
		RefreshInterval: envDuration("REFRESH_INTERVAL", time.Minute),

		BDLAPIKey:            envOr("BALLDONTLIE_API_KEY", ""),
		BDLBaseURL:           strings.TrimRight(envOr("BALLDONTLIE_BASE_URL", "https://api.balldontlie.io/v1"), "/"),
		BDLRequestsPerMinute: envInt("BDL_REQUESTS_PER_MINUTE", 60),
		TeamStatsCSV:         envOr("TEAM_STATS_CSV", "NBA Team Stats.csv"),

		DiscordToken:    envOr("DISCORD_TOKEN", ""),
		BotChatURL:      strings.TrimRight(envOr("BOT_CHAT_URL", "http://localhost:8080/chat"), "/"),
		BotRelayTimeout: envDuration("BOT_RELAY_TIMEOUT", 15*time.Second),
		BotPrefix:       envOr("BOT_PREFIX", "!"),
		BotCooldown:     envDuration("BOT_COOLDOWN", 3*time.Second),
		RedisURL:        envOr("REDIS_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later in a confusing way.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "sqlite3":
		c.DBDriver = "sqlite"
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH must be set for the sqlite driver")
		}
	case "postgres", "postgresql", "pgx":
		c.DBDriver = "postgres"
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("API_PORT must be between 1 and 65535, got %d", c.APIPort)
	}
	if c.DefaultSeason < 1947 {
		return fmt.Errorf("DEFAULT_SEASON must be a season end year, got %d", c.DefaultSeason)
	}
	if c.BotRelayTimeout <= 0 {
		return fmt.Errorf("BOT_RELAY_TIMEOUT must be positive, got %v", c.BotRelayTimeout)
	}
	if c.BDLRequestsPerMinute <= 0 {
		return fmt.Errorf("BDL_REQUESTS_PER_MINUTE must be positive, got %d", c.BDLRequestsPerMinute)
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go durations ("15s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n, err := strconv.Atoi(v); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
