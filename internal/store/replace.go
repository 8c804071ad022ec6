package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/albapepper/nba-stats-bot/internal/config"
	"github.com/albapepper/nba-stats-bot/internal/db"
)

// NotifyChannel is the Postgres channel signalled when a run commits.
const NotifyChannel = "etl_complete"

// Snapshot is the data one ETL run writes. A nil slice leaves that relation
// untouched; an empty non-nil slice replaces it with an empty table.
type Snapshot struct {
	Teams     []Team
	Games     []Game
	TeamStats []TeamSeasonStat
	Leaders   []SeasonLeader
}

// Replace drops, recreates and fills every relation present in snap, then
// records run, all in one transaction. Readers see either the previous
// snapshot or the new one.
func (s *Store) Replace(ctx context.Context, snap Snapshot, run ETLRun) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback()

	if snap.Teams != nil {
		if err := s.replaceTeams(ctx, tx, snap.Teams); err != nil {
			return err
		}
	}
	if snap.Games != nil {
		if err := s.replaceGames(ctx, tx, snap.Games); err != nil {
			return err
		}
	}
	if snap.TeamStats != nil {
		if err := s.replaceTeamStats(ctx, tx, snap.TeamStats); err != nil {
			return err
		}
	}
	if snap.Leaders != nil {
		if err := s.replaceLeaders(ctx, tx, snap.Leaders); err != nil {
			return err
		}
	}
	if err := s.recordRun(ctx, tx, run); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

func recreate(ctx context.Context, tx *sql.Tx, table string, ddl ...string) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+table); err != nil {
		return fmt.Errorf("drop %s: %w", table, err)
	}
	for _, stmt := range ddl {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

// insertAll prepares query once and executes it for each of n rows.
func (s *Store) insertAll(ctx context.Context, tx *sql.Tx, table, query string, n int, args func(i int) []any) error {
	stmt, err := tx.PrepareContext(ctx, s.db.Rebind(query))
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}

func (s *Store) replaceTeams(ctx context.Context, tx *sql.Tx, teams []Team) error {
	if err := recreate(ctx, tx, config.TeamsTable, createTeams); err != nil {
		return err
	}
	return s.insertAll(ctx, tx, config.TeamsTable,
		`INSERT INTO teams (team_id, team_name, abbrev, city, conference, division) VALUES (?, ?, ?, ?, ?, ?)`,
		len(teams), func(i int) []any {
			t := teams[i]
			return []any{t.ID, t.Name, t.Abbrev, t.City, t.Conference, t.Division}
		})
}

func (s *Store) replaceGames(ctx context.Context, tx *sql.Tx, games []Game) error {
	if err := recreate(ctx, tx, config.GamesTable, createGames...); err != nil {
		return err
	}
	return s.insertAll(ctx, tx, config.GamesTable,
		`INSERT INTO games (game_id, date, home_id, away_id, home_score, away_score, season) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(games), func(i int) []any {
			g := games[i]
			return []any{g.ID, g.Date, g.HomeID, g.AwayID, g.HomeScore, g.AwayScore, g.Season}
		})
}

func (s *Store) replaceTeamStats(ctx context.Context, tx *sql.Tx, stats []TeamSeasonStat) error {
	if err := recreate(ctx, tx, config.TeamStatsTable, createTeamStats...); err != nil {
		return err
	}
	return s.insertAll(ctx, tx, config.TeamStatsTable,
		`INSERT INTO team_stats (team, team_key, season, pts, fg_pct, ast, trb) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(stats), func(i int) []any {
			st := stats[i]
			return []any{st.Team, st.TeamKey, st.Season, nullable(st.PTS), nullable(st.FGPct), nullable(st.AST), nullable(st.TRB)}
		})
}

func (s *Store) replaceLeaders(ctx context.Context, tx *sql.Tx, leaders []SeasonLeader) error {
	if err := recreate(ctx, tx, config.SeasonLeadersTable, createSeasonLeaders); err != nil {
		return err
	}
	return s.insertAll(ctx, tx, config.SeasonLeadersTable,
		`INSERT INTO season_leaders (season, rank, player_id, player_name, team_abbrev, games_played, pts) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		len(leaders), func(i int) []any {
			l := leaders[i]
			return []any{l.Season, l.Rank, l.PlayerID, l.PlayerName, l.TeamAbbrev, l.GamesPlayed, l.PTS}
		})
}

func (s *Store) recordRun(ctx context.Context, tx *sql.Tx, run ETLRun) error {
	if _, err := tx.ExecContext(ctx, createETLRuns); err != nil {
		return fmt.Errorf("create %s: %w", config.ETLRunsTable, err)
	}
	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	_, err := tx.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO etl_runs (run_id, season, teams, games, team_stats, leaders, finished_at) VALUES (?, ?, ?, ?, ?, ?, ?)`),
		run.RunID, run.Season, run.Teams, run.Games, run.TeamStats, run.Leaders, finished.UTC().Format(finishedAtLayout))
	if err != nil {
		return fmt.Errorf("record etl run: %w", err)
	}

	// Delivered to listeners only when the transaction commits.
	if s.db.Driver() == db.DriverPostgres {
		if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, NotifyChannel, run.RunID); err != nil {
			return fmt.Errorf("notify %s: %w", NotifyChannel, err)
		}
	}
	return nil
}

// PruneRuns deletes all but the keep most recent run markers and returns the
// number removed.
func (s *Store) PruneRuns(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM etl_runs WHERE run_id NOT IN (
			SELECT run_id FROM etl_runs ORDER BY finished_at DESC LIMIT ?
		)`), keep)
	if err != nil {
		return 0, classify("prune etl runs", err)
	}
	return res.RowsAffected()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
