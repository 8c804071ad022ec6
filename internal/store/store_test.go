package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/albapepper/nba-stats-bot/internal/db"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	d, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nba_stats.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return New(d)
}

var testTeams = []Team{
	{ID: 2, Name: "Boston Celtics", Abbrev: "BOS", City: "Boston", Conference: "East", Division: "Atlantic"},
	{ID: 14, Name: "Los Angeles Lakers", Abbrev: "LAL", City: "Los Angeles", Conference: "West", Division: "Pacific"},
	{ID: 30, Name: "Washington Wizards", Abbrev: "WAS", City: "Washington", Conference: "East", Division: "Southeast"},
}

var testGames = []Game{
	{ID: 100, Date: "2024-01-10", HomeID: 14, AwayID: 2, HomeScore: 110, AwayScore: 101, Season: 2024},
	{ID: 101, Date: "2024-02-02", HomeID: 2, AwayID: 14, HomeScore: 99, AwayScore: 120, Season: 2024},
	{ID: 102, Date: "2024-03-01", HomeID: 30, AwayID: 2, HomeScore: 100, AwayScore: 105, Season: 2024},
	{ID: 90, Date: "2023-03-01", HomeID: 14, AwayID: 30, HomeScore: 90, AwayScore: 80, Season: 2023},
}

var runSeq int

func seedStore(t *testing.T, s *Store, snap Snapshot) {
	t.Helper()
	runSeq++
	run := ETLRun{RunID: fmt.Sprintf("run-%d", runSeq), Season: 2024,
		Teams: len(snap.Teams), Games: len(snap.Games)}
	if err := s.Replace(context.Background(), snap, run); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
}

func TestReadsBeforeETL(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.Teams(ctx); !errors.Is(err, ErrNotReady) {
		t.Errorf("Teams() error = %v, want ErrNotReady", err)
	}
	if _, _, err := s.LatestSeason(ctx); !errors.Is(err, ErrNotReady) {
		t.Errorf("LatestSeason() error = %v, want ErrNotReady", err)
	}
	if _, _, err := s.AveragePoints(ctx, 14, 2024); !errors.Is(err, ErrNotReady) {
		t.Errorf("AveragePoints() error = %v, want ErrNotReady", err)
	}
	if _, _, err := s.LastGame(ctx, 14); !errors.Is(err, ErrNotReady) {
		t.Errorf("LastGame() error = %v, want ErrNotReady", err)
	}
	if _, _, err := s.LatestRun(ctx); !errors.Is(err, ErrNotReady) {
		t.Errorf("LatestRun() error = %v, want ErrNotReady", err)
	}
	if _, _, err := s.TeamStats(ctx, []string{"lakers"}, 2024); !errors.Is(err, ErrNotReady) {
		t.Errorf("TeamStats() error = %v, want ErrNotReady", err)
	}
}

func TestAveragePoints(t *testing.T) {
	s := openTestStore(t)
	seedStore(t, s, Snapshot{Teams: testTeams, Games: testGames})
	ctx := context.Background()

	tests := []struct {
		name   string
		team   int
		season int
		want   float64
		wantOK bool
	}{
		{"home and away games", 14, 2024, 115.0, true},
		{"rounded to one decimal", 2, 2024, 101.7, true}, // (101+99+105)/3
		{"single game", 30, 2023, 80.0, true},
		{"no games that season", 30, 2022, 0, false},
		{"unknown team", 99, 2024, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := s.AveragePoints(ctx, tt.team, tt.season)
			if err != nil {
				t.Fatalf("AveragePoints() error = %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("AveragePoints(%d, %d) = %v, %v; want %v, %v", tt.team, tt.season, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestLastGame(t *testing.T) {
	s := openTestStore(t)
	games := append([]Game{}, testGames...)
	// Two games on the same date: the higher id wins.
	games = append(games,
		Game{ID: 200, Date: "2024-04-01", HomeID: 14, AwayID: 30, HomeScore: 111, AwayScore: 109, Season: 2024},
		Game{ID: 201, Date: "2024-04-01", HomeID: 30, AwayID: 14, HomeScore: 95, AwayScore: 97, Season: 2024},
	)
	seedStore(t, s, Snapshot{Teams: testTeams, Games: games})
	ctx := context.Background()

	got, ok, err := s.LastGame(ctx, 2)
	if err != nil || !ok {
		t.Fatalf("LastGame(2) = %v, %v", ok, err)
	}
	if got.Date != "2024-03-01" || got.HomeName != "Washington Wizards" || got.AwayName != "Boston Celtics" {
		t.Errorf("LastGame(2) = %+v, want 2024-03-01 Wizards vs Celtics", got)
	}
	if got.HomeScore != 100 || got.AwayScore != 105 {
		t.Errorf("LastGame(2) scores = %d-%d, want 100-105", got.HomeScore, got.AwayScore)
	}

	got, ok, err = s.LastGame(ctx, 14)
	if err != nil || !ok {
		t.Fatalf("LastGame(14) = %v, %v", ok, err)
	}
	if got.ID != 201 {
		t.Errorf("LastGame(14) id = %d, want 201 (same-date tie broken by id)", got.ID)
	}

	if _, ok, err := s.LastGame(ctx, 99); err != nil || ok {
		t.Errorf("LastGame(99) = %v, %v; want not found", ok, err)
	}
}

func TestLatestSeasonAndTeamName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedStore(t, s, Snapshot{Teams: testTeams, Games: []Game{}})

	if _, ok, err := s.LatestSeason(ctx); err != nil || ok {
		t.Errorf("LatestSeason() on empty games = %v, %v; want not found", ok, err)
	}

	seedStore(t, s, Snapshot{Games: testGames})
	season, ok, err := s.LatestSeason(ctx)
	if err != nil || !ok || season != 2024 {
		t.Errorf("LatestSeason() = %d, %v, %v; want 2024", season, ok, err)
	}

	name, ok, err := s.TeamName(ctx, 14)
	if err != nil || !ok || name != "Los Angeles Lakers" {
		t.Errorf("TeamName(14) = %q, %v, %v", name, ok, err)
	}
	if _, ok, err := s.TeamName(ctx, 99); err != nil || ok {
		t.Errorf("TeamName(99) = %v, %v; want not found", ok, err)
	}
}

func TestReplaceTwiceIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	snap := Snapshot{Teams: testTeams, Games: testGames}

	seedStore(t, s, snap)
	firstTeams, _ := s.Teams(ctx)
	firstGame, _, _ := s.LastGame(ctx, 14)

	seedStore(t, s, snap)
	secondTeams, err := s.Teams(ctx)
	if err != nil {
		t.Fatalf("Teams() error = %v", err)
	}
	secondGame, _, _ := s.LastGame(ctx, 14)

	if !reflect.DeepEqual(firstTeams, secondTeams) {
		t.Errorf("teams changed across identical runs:\n%v\n%v", firstTeams, secondTeams)
	}
	if firstGame != secondGame {
		t.Errorf("last game changed across identical runs: %+v vs %+v", firstGame, secondGame)
	}
	if avg, _, _ := s.AveragePoints(ctx, 14, 2024); avg != 115.0 {
		t.Errorf("AveragePoints after second run = %v, want 115.0", avg)
	}
}

func TestReplaceLeavesNilRelations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedStore(t, s, Snapshot{Teams: testTeams, Games: testGames})

	pts := 118.9
	seedStore(t, s, Snapshot{TeamStats: []TeamSeasonStat{{Team: "Lakers", TeamKey: "lakers", Season: 2024, PTS: &pts}}})

	teams, err := s.Teams(ctx)
	if err != nil || len(teams) != len(testTeams) {
		t.Errorf("Teams() after stats-only run = %d, %v; want %d", len(teams), err, len(testTeams))
	}
}

func TestReplaceRejectsInvalidGame(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	seedStore(t, s, Snapshot{Teams: testTeams, Games: testGames})

	bad := Snapshot{Games: []Game{{ID: 1, Date: "2024-01-01", HomeID: 14, AwayID: 14, Season: 2024}}}
	if err := s.Replace(ctx, bad, ETLRun{RunID: "bad"}); err == nil {
		t.Fatal("Replace() with home == away should fail")
	}

	// The failed run rolled back; the previous snapshot is intact.
	if avg, ok, err := s.AveragePoints(ctx, 14, 2024); err != nil || !ok || avg != 115.0 {
		t.Errorf("AveragePoints after rollback = %v, %v, %v; want 115.0", avg, ok, err)
	}
}

func TestTeamStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pts, fg := 118.9, 49.7
	seedStore(t, s, Snapshot{TeamStats: []TeamSeasonStat{
		{Team: "Los Angeles Lakers", TeamKey: "los angeles lakers", Season: 2024, PTS: &pts, FGPct: &fg},
		{Team: "LAL", TeamKey: "lal", Season: 2024},
	}})

	got, ok, err := s.TeamStats(ctx, []string{"los angeles lakers", "lal"}, 2024)
	if err != nil || !ok {
		t.Fatalf("TeamStats() = %v, %v", ok, err)
	}
	if got.Team != "Los Angeles Lakers" || got.PTS == nil || *got.PTS != 118.9 {
		t.Errorf("TeamStats() = %+v, want full-name row", got)
	}
	if got.AST != nil {
		t.Errorf("TeamStats().AST = %v, want nil", *got.AST)
	}

	got, ok, _ = s.TeamStats(ctx, []string{"lal", "los angeles lakers"}, 2024)
	if !ok || got.Team != "LAL" {
		t.Errorf("TeamStats() key order not respected: %+v", got)
	}

	if _, ok, err := s.TeamStats(ctx, []string{"lal"}, 2023); err != nil || ok {
		t.Errorf("TeamStats() other season = %v, %v; want not found", ok, err)
	}
}

func TestSeasonLeadersAndLatestRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	leaders := []SeasonLeader{
		{Season: 2024, Rank: 2, PlayerID: 7, PlayerName: "Luka Doncic", TeamAbbrev: "DAL", GamesPlayed: 70, PTS: 33.9},
		{Season: 2024, Rank: 1, PlayerID: 3, PlayerName: "Joel Embiid", TeamAbbrev: "PHI", GamesPlayed: 39, PTS: 34.7},
	}
	finished := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := s.Replace(ctx, Snapshot{Leaders: leaders}, ETLRun{RunID: "a", Season: 2024, Leaders: 2, FinishedAt: finished}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := s.Replace(ctx, Snapshot{Leaders: leaders}, ETLRun{RunID: "b", Season: 2024, Leaders: 2, FinishedAt: finished.Add(time.Hour)}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := s.SeasonLeaders(ctx, 2024, 1)
	if err != nil {
		t.Fatalf("SeasonLeaders() error = %v", err)
	}
	if len(got) != 1 || got[0].PlayerName != "Joel Embiid" {
		t.Errorf("SeasonLeaders(2024, 1) = %+v, want Embiid first", got)
	}

	run, ok, err := s.LatestRun(ctx)
	if err != nil || !ok {
		t.Fatalf("LatestRun() = %v, %v", ok, err)
	}
	if run.RunID != "b" || !run.FinishedAt.Equal(finished.Add(time.Hour)) {
		t.Errorf("LatestRun() = %+v, want run b", run)
	}
}

func TestPruneRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"r1", "r2", "r3"} {
		run := ETLRun{RunID: id, Season: 2024, FinishedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.Replace(ctx, Snapshot{Teams: testTeams}, run); err != nil {
			t.Fatalf("Replace(%s) error = %v", id, err)
		}
	}

	n, err := s.PruneRuns(ctx, 1)
	if err != nil {
		t.Fatalf("PruneRuns() error = %v", err)
	}
	if n != 2 {
		t.Errorf("PruneRuns() removed %d, want 2", n)
	}
	run, ok, err := s.LatestRun(ctx)
	if err != nil || !ok || run.RunID != "r3" {
		t.Errorf("LatestRun() after prune = %+v, %v, %v; want r3", run, ok, err)
	}
}
