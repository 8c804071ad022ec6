// Package db opens the relational store behind the service. SQLite (a local
// file written by the ETL job) is the default; Postgres is supported for
// shared deployments through pgx's database/sql driver.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/albapepper/nba-stats-bot/internal/config"
)

// Driver names as configured.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps sql.DB with the dialect helpers the store needs.
type DB struct {
	*sql.DB
	driver string
}

// New opens and validates a connection for the configured driver.
func New(ctx context.Context, cfg *config.Config) (*DB, error) {
	switch cfg.DBDriver {
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.DBPath)
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxOpenConns)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DBDriver)
	}
}

// OpenSQLite opens (creating if needed) the SQLite file at path.
// WAL and busy_timeout let the ETL job replace tables while the API reads.
func OpenSQLite(ctx context.Context, path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	d := &DB{DB: sqlDB, driver: DriverSQLite}
	if err := d.ping(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

// OpenPostgres opens a pgx-backed pool for the given DSN.
func OpenPostgres(ctx context.Context, dsn string, maxOpen int) (*DB, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if maxOpen > 0 {
		sqlDB.SetMaxOpenConns(maxOpen)
		sqlDB.SetMaxIdleConns(maxOpen / 2)
	}
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	d := &DB{DB: sqlDB, driver: DriverPostgres}
	if err := d.ping(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := d.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Driver returns DriverSQLite or DriverPostgres.
func (d *DB) Driver() string {
	return d.driver
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (d *DB) HealthCheck(ctx context.Context) error {
	var n int
	return d.QueryRowContext(ctx, "SELECT 1").Scan(&n)
}

// Rebind rewrites '?' placeholders into the driver's native form. Queries in
// this repository are written with '?' and never contain literal question
// marks.
func (d *DB) Rebind(query string) string {
	if d.driver != DriverPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}
