package seed

import (
	"testing"

	"github.com/albapepper/nba-stats-bot/internal/provider"
)

func TestFilterGames(t *testing.T) {
	games := []provider.Game{
		{ID: 1, Date: "2024-01-05", Status: "Final", HomeTeamID: 14, VisitorTeamID: 2, HomeScore: 110, VisitorScore: 108},
		{ID: 2, Date: "2024-01-06", Status: "Final", HomeTeamID: 14, VisitorTeamID: 14, HomeScore: 1, VisitorScore: 2},
		{ID: 3, Date: "2024-01-07", Status: "Final", HomeTeamID: 2, VisitorTeamID: 14, HomeScore: -1, VisitorScore: 2},
		{ID: 4, Date: "2024-05-01", Status: "Final", Postseason: true, HomeTeamID: 2, VisitorTeamID: 14},
		{ID: 5, Date: "2024-01-08", Status: "1st Qtr", HomeTeamID: 2, VisitorTeamID: 14},
		{ID: 1, Date: "2024-01-05", Status: "Final", HomeTeamID: 14, VisitorTeamID: 2, HomeScore: 111, VisitorScore: 108},
	}

	got, skipped := FilterGames(games, 2024)
	if len(got) != 1 || skipped != 5 {
		t.Fatalf("FilterGames() = %d kept, %d skipped; want 1, 5", len(got), skipped)
	}
	if got[0].HomeScore != 111 || got[0].Season != 2024 || got[0].AwayID != 2 {
		t.Errorf("FilterGames()[0] = %+v, want later duplicate with season 2024", got[0])
	}
}

func TestToTeamStatsLaterRowWins(t *testing.T) {
	rows := []provider.TeamSeasonRow{
		{Team: "Boston Celtics", Season: 2024, Stats: map[string]float64{"pts": 100}},
		{Team: "Boston Celtics", Season: 2023, Stats: map[string]float64{"pts": 117.9}},
		{Team: "Boston Celtics", Season: 2024, Stats: map[string]float64{"pts": 120.6, "trb": 46.3}},
	}
	got, dups := ToTeamStats(rows)
	if len(got) != 2 || dups != 1 {
		t.Fatalf("ToTeamStats() = %d rows, %d dups; want 2, 1", len(got), dups)
	}
	if *got[0].PTS != 120.6 || got[0].TRB == nil || got[0].AST != nil {
		t.Errorf("ToTeamStats()[0] = %+v", got[0])
	}
	if got[0].TeamKey != "boston celtics" {
		t.Errorf("TeamKey = %q", got[0].TeamKey)
	}
}

func TestToTeamsUsesFullName(t *testing.T) {
	got := ToTeams([]provider.Team{{ID: 30, Name: "Wizards", FullName: "Washington Wizards", ShortCode: "WAS", City: "Washington"}})
	if len(got) != 1 || got[0].Name != "Washington Wizards" || got[0].Abbrev != "WAS" {
		t.Errorf("ToTeams() = %+v", got)
	}
}
