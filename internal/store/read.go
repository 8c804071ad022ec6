package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Teams returns every team ordered by id.
func (s *Store) Teams(ctx context.Context) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT team_id, team_name, abbrev, city, COALESCE(conference, ''), COALESCE(division, '')
		 FROM teams ORDER BY team_id`)
	if err != nil {
		return nil, classify("list teams", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Abbrev, &t.City, &t.Conference, &t.Division); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, classify("list teams", rows.Err())
}

// TeamName returns the canonical name for id. ok is false when no such team.
func (s *Store) TeamName(ctx context.Context, id int) (name string, ok bool, err error) {
	err = s.db.QueryRowContext(ctx, s.db.Rebind(`SELECT team_name FROM teams WHERE team_id = ?`), id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("team name", err)
	}
	return name, true, nil
}

// LatestSeason returns the highest season present in games. ok is false when
// the relation is empty.
func (s *Store) LatestSeason(ctx context.Context) (season int, ok bool, err error) {
	var v sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(season) FROM games`).Scan(&v); err != nil {
		return 0, false, classify("latest season", err)
	}
	if !v.Valid {
		return 0, false, nil
	}
	return int(v.Int64), true, nil
}

// AveragePoints returns the mean points scored by teamID across all of its
// games in season, rounded to one decimal. ok is false when the team played
// no games that season.
func (s *Store) AveragePoints(ctx context.Context, teamID, season int) (avg float64, ok bool, err error) {
	q := s.db.Rebind(`
		SELECT CAST(AVG(pts) AS DOUBLE PRECISION) FROM (
			SELECT home_score AS pts FROM games WHERE season = ? AND home_id = ?
			UNION ALL
			SELECT away_score AS pts FROM games WHERE season = ? AND away_id = ?
		) scored`)

	var v sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, q, season, teamID, season, teamID).Scan(&v); err != nil {
		return 0, false, classify("average points", err)
	}
	if !v.Valid {
		return 0, false, nil
	}
	return math.Round(v.Float64*10) / 10, true, nil
}

// LastGame returns the most recent game involving teamID across all seasons.
// Games on the same date are ordered by highest game id.
func (s *Store) LastGame(ctx context.Context, teamID int) (GameResult, bool, error) {
	q := s.db.Rebind(`
		SELECT g.game_id, g.date, g.home_id, g.away_id, g.home_score, g.away_score, g.season,
		       COALESCE(h.team_name, ''), COALESCE(a.team_name, '')
		FROM games g
		LEFT JOIN teams h ON h.team_id = g.home_id
		LEFT JOIN teams a ON a.team_id = g.away_id
		WHERE g.home_id = ? OR g.away_id = ?
		ORDER BY g.date DESC, g.game_id DESC
		LIMIT 1`)

	var r GameResult
	err := s.db.QueryRowContext(ctx, q, teamID, teamID).Scan(
		&r.ID, &r.Date, &r.HomeID, &r.AwayID, &r.HomeScore, &r.AwayScore, &r.Season,
		&r.HomeName, &r.AwayName,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GameResult{}, false, nil
	}
	if err != nil {
		return GameResult{}, false, classify("last game", err)
	}
	return r, true, nil
}

// SeasonLeaders returns up to limit scoring leaders for season by rank.
func (s *Store) SeasonLeaders(ctx context.Context, season, limit int) ([]SeasonLeader, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT season, rank, player_id, player_name, COALESCE(team_abbrev, ''),
		       COALESCE(games_played, 0), COALESCE(pts, 0)
		FROM season_leaders
		WHERE season = ?
		ORDER BY rank, player_id
		LIMIT ?`), season, limit)
	if err != nil {
		return nil, classify("season leaders", err)
	}
	defer rows.Close()

	var out []SeasonLeader
	for rows.Next() {
		var l SeasonLeader
		if err := rows.Scan(&l.Season, &l.Rank, &l.PlayerID, &l.PlayerName, &l.TeamAbbrev, &l.GamesPlayed, &l.PTS); err != nil {
			return nil, fmt.Errorf("scan leader: %w", err)
		}
		out = append(out, l)
	}
	return out, classify("season leaders", rows.Err())
}

// TeamStats returns the first team_stats row for season whose team_key is one
// of keys. Keys are tried in the order given.
func (s *Store) TeamStats(ctx context.Context, keys []string, season int) (TeamSeasonStat, bool, error) {
	if len(keys) == 0 {
		return TeamSeasonStat{}, false, nil
	}

	args := make([]any, 0, len(keys)+1)
	args = append(args, season)
	for _, k := range keys {
		args = append(args, k)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT team, team_key, season, pts, fg_pct, ast, trb
		FROM team_stats
		WHERE season = ? AND team_key IN (`+placeholders+`)`), args...)
	if err != nil {
		return TeamSeasonStat{}, false, classify("team stats", err)
	}
	defer rows.Close()

	found := make(map[string]TeamSeasonStat, len(keys))
	for rows.Next() {
		var (
			st                TeamSeasonStat
			pts, fg, ast, trb sql.NullFloat64
		)
		if err := rows.Scan(&st.Team, &st.TeamKey, &st.Season, &pts, &fg, &ast, &trb); err != nil {
			return TeamSeasonStat{}, false, fmt.Errorf("scan team stats: %w", err)
		}
		st.PTS, st.FGPct, st.AST, st.TRB = floatPtr(pts), floatPtr(fg), floatPtr(ast), floatPtr(trb)
		if _, dup := found[st.TeamKey]; !dup {
			found[st.TeamKey] = st
		}
	}
	if err := rows.Err(); err != nil {
		return TeamSeasonStat{}, false, classify("team stats", err)
	}

	for _, k := range keys {
		if st, ok := found[k]; ok {
			return st, true, nil
		}
	}
	return TeamSeasonStat{}, false, nil
}

// LatestRun returns the most recently finished ETL run.
func (s *Store) LatestRun(ctx context.Context) (ETLRun, bool, error) {
	var (
		r        ETLRun
		finished string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, season, teams, games, team_stats, leaders, finished_at
		FROM etl_runs
		ORDER BY finished_at DESC
		LIMIT 1`).Scan(&r.RunID, &r.Season, &r.Teams, &r.Games, &r.TeamStats, &r.Leaders, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return ETLRun{}, false, nil
	}
	if err != nil {
		return ETLRun{}, false, classify("latest etl run", err)
	}
	r.FinishedAt, err = time.Parse(finishedAtLayout, finished)
	if err != nil {
		return ETLRun{}, false, fmt.Errorf("parse finished_at %q: %w", finished, err)
	}
	return r, true, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
