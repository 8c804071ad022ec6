package store

import "github.com/albapepper/nba-stats-bot/internal/config"

// DDL shared by SQLite and Postgres. DOUBLE PRECISION maps to REAL affinity
// in SQLite.
var (
	createTeams = `CREATE TABLE ` + config.TeamsTable + ` (
		team_id    INTEGER PRIMARY KEY,
		team_name  TEXT NOT NULL,
		abbrev     TEXT NOT NULL,
		city       TEXT NOT NULL,
		conference TEXT,
		division   TEXT
	)`

	createGames = []string{
		`CREATE TABLE ` + config.GamesTable + ` (
			game_id    BIGINT PRIMARY KEY,
			date       TEXT NOT NULL,
			home_id    INTEGER NOT NULL,
			away_id    INTEGER NOT NULL,
			home_score INTEGER NOT NULL CHECK (home_score >= 0),
			away_score INTEGER NOT NULL CHECK (away_score >= 0),
			season     INTEGER NOT NULL,
			CHECK (home_id <> away_id)
		)`,
		`CREATE INDEX idx_games_home ON ` + config.GamesTable + ` (home_id, season)`,
		`CREATE INDEX idx_games_away ON ` + config.GamesTable + ` (away_id, season)`,
		`CREATE INDEX idx_games_date ON ` + config.GamesTable + ` (date)`,
	}

	createTeamStats = []string{
		`CREATE TABLE ` + config.TeamStatsTable + ` (
			team     TEXT NOT NULL,
			team_key TEXT NOT NULL,
			season   INTEGER NOT NULL,
			pts      DOUBLE PRECISION,
			fg_pct   DOUBLE PRECISION,
			ast      DOUBLE PRECISION,
			trb      DOUBLE PRECISION,
			PRIMARY KEY (team, season)
		)`,
		`CREATE INDEX idx_team_stats_key ON ` + config.TeamStatsTable + ` (team_key, season)`,
	}

	createSeasonLeaders = `CREATE TABLE ` + config.SeasonLeadersTable + ` (
		season       INTEGER NOT NULL,
		rank         INTEGER NOT NULL,
		player_id    INTEGER NOT NULL,
		player_name  TEXT NOT NULL,
		team_abbrev  TEXT,
		games_played INTEGER,
		pts          DOUBLE PRECISION,
		PRIMARY KEY (season, player_id)
	)`

	createETLRuns = `CREATE TABLE IF NOT EXISTS ` + config.ETLRunsTable + ` (
		run_id      TEXT PRIMARY KEY,
		season      INTEGER NOT NULL,
		teams       INTEGER NOT NULL,
		games       INTEGER NOT NULL,
		team_stats  INTEGER NOT NULL,
		leaders     INTEGER NOT NULL,
		finished_at TEXT NOT NULL
	)`
)

// finishedAtLayout is fixed-width so finished_at sorts lexically.
const finishedAtLayout = "2006-01-02T15:04:05.000000Z"
