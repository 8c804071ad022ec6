// Package store is the relational snapshot of teams, games and season stats
// that the ETL job writes and the question-answering pipeline reads.
//
// Every table may be absent (ETL not run yet). Readers report that case as
// ErrNotReady so callers can tell "needs ETL" apart from a broken database.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/nba-stats-bot/internal/db"
)

// ErrNotReady is returned when a relation the query needs does not exist.
var ErrNotReady = errors.New("data not loaded: run the ETL job first")

// Team is one row of the teams relation.
type Team struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Abbrev     string `json:"abbreviation"`
	City       string `json:"city"`
	Conference string `json:"conference,omitempty"`
	Division   string `json:"division,omitempty"`
}

// Game is one completed game. Date is YYYY-MM-DD; Season uses the end-year
// convention.
type Game struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	HomeID    int    `json:"home_id"`
	AwayID    int    `json:"away_id"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Season    int    `json:"season"`
}

// GameResult is a Game with both team names attached.
type GameResult struct {
	Game
	HomeName string `json:"home_name"`
	AwayName string `json:"away_name"`
}

// TeamSeasonStat is one row of the CSV-sourced team_stats relation. Team is
// the free-text name from the source file; TeamKey is its normalized form.
type TeamSeasonStat struct {
	Team    string   `json:"team"`
	TeamKey string   `json:"-"`
	Season  int      `json:"season"`
	PTS     *float64 `json:"pts"`
	FGPct   *float64 `json:"fg_pct"`
	AST     *float64 `json:"ast"`
	TRB     *float64 `json:"trb"`
}

// SeasonLeader is one row of the season scoring leaders.
type SeasonLeader struct {
	Season      int     `json:"season"`
	Rank        int     `json:"rank"`
	PlayerID    int     `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	TeamAbbrev  string  `json:"team"`
	GamesPlayed int     `json:"games_played"`
	PTS         float64 `json:"pts"`
}

// ETLRun records a completed ETL run.
type ETLRun struct {
	RunID      string    `json:"run_id"`
	Season     int       `json:"season"`
	Teams      int       `json:"teams"`
	Games      int       `json:"games"`
	TeamStats  int       `json:"team_stats"`
	Leaders    int       `json:"leaders"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store reads and replaces the snapshot.
type Store struct {
	db *db.DB
}

// New wraps an open database.
func New(d *db.DB) *Store {
	return &Store{db: d}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *db.DB {
	return s.db
}

// classify turns driver errors for missing relations into ErrNotReady.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isMissingTable(err) {
		return fmt.Errorf("%s: %w", op, ErrNotReady)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isMissingTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01" // undefined_table
	}
	return strings.Contains(err.Error(), "no such table")
}
