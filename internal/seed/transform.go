package seed

import (
	"github.com/albapepper/nba-stats-bot/internal/provider"
	"github.com/albapepper/nba-stats-bot/internal/store"
	"github.com/albapepper/nba-stats-bot/internal/team"
)

const statusFinal = "Final"

// ToTeams converts upstream teams into store rows keyed by full name.
func ToTeams(teams []provider.Team) []store.Team {
	out := make([]store.Team, 0, len(teams))
	for _, t := range teams {
		out = append(out, store.Team{
			ID:         t.ID,
			Name:       t.FullName,
			Abbrev:     t.ShortCode,
			City:       t.City,
			Conference: t.Conference,
			Division:   t.Division,
		})
	}
	return out
}

// FilterGames keeps completed regular-season games with distinct teams and
// non-negative scores, tagging each with season (end-year convention).
// Duplicate ids keep the last occurrence. It returns the kept games and how
// many were dropped.
func FilterGames(games []provider.Game, season int) ([]store.Game, int) {
	out := make([]store.Game, 0, len(games))
	index := make(map[int64]int, len(games))
	skipped := 0

	for _, g := range games {
		if g.Status != statusFinal || g.Postseason || g.Date == "" ||
			g.HomeTeamID == g.VisitorTeamID || g.HomeScore < 0 || g.VisitorScore < 0 {
			skipped++
			continue
		}
		row := store.Game{
			ID:        g.ID,
			Date:      g.Date,
			HomeID:    g.HomeTeamID,
			AwayID:    g.VisitorTeamID,
			HomeScore: g.HomeScore,
			AwayScore: g.VisitorScore,
			Season:    season,
		}
		if i, dup := index[g.ID]; dup {
			out[i] = row
			skipped++
			continue
		}
		index[g.ID] = len(out)
		out = append(out, row)
	}
	return out, skipped
}

// ToLeaders converts a points leaderboard, filling team abbreviations from
// teams.
func ToLeaders(leaders []provider.Leader, teams []store.Team, season int) []store.SeasonLeader {
	abbrev := make(map[int]string, len(teams))
	for _, t := range teams {
		abbrev[t.ID] = t.Abbrev
	}

	out := make([]store.SeasonLeader, 0, len(leaders))
	seen := make(map[int]bool, len(leaders))
	for _, l := range leaders {
		if seen[l.PlayerID] {
			continue
		}
		seen[l.PlayerID] = true

		row := store.SeasonLeader{
			Season:      season,
			Rank:        l.Rank,
			PlayerID:    l.PlayerID,
			PlayerName:  l.PlayerName,
			GamesPlayed: l.GamesPlayed,
			PTS:         l.Value,
		}
		if l.TeamID != nil {
			row.TeamAbbrev = abbrev[*l.TeamID]
		}
		out = append(out, row)
	}
	return out
}

// ToTeamStats converts CSV rows. A later row for the same team and season
// replaces an earlier one; the replaced row is counted as skipped.
func ToTeamStats(rows []provider.TeamSeasonRow) ([]store.TeamSeasonStat, int) {
	type key struct {
		team   string
		season int
	}
	out := make([]store.TeamSeasonStat, 0, len(rows))
	index := make(map[key]int, len(rows))
	skipped := 0

	for _, r := range rows {
		st := store.TeamSeasonStat{
			Team:    r.Team,
			TeamKey: team.Normalize(r.Team),
			Season:  r.Season,
			PTS:     stat(r.Stats, "pts"),
			FGPct:   stat(r.Stats, "fg_pct"),
			AST:     stat(r.Stats, "ast"),
			TRB:     stat(r.Stats, "trb"),
		}
		k := key{r.Team, r.Season}
		if i, dup := index[k]; dup {
			out[i] = st
			skipped++
			continue
		}
		index[k] = len(out)
		out = append(out, st)
	}
	return out, skipped
}

func stat(stats map[string]float64, name string) *float64 {
	v, ok := stats[name]
	if !ok {
		return nil
	}
	return &v
}
