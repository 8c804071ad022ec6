package answer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/albapepper/nba-stats-bot/internal/db"
	"github.com/albapepper/nba-stats-bot/internal/query"
	"github.com/albapepper/nba-stats-bot/internal/store"
	"github.com/albapepper/nba-stats-bot/internal/team"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	d, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nba_stats.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return store.New(d)
}

func seeded(t *testing.T) *store.Store {
	t.Helper()
	s := newTestStore(t)
	snap := store.Snapshot{
		Teams: []store.Team{
			{ID: 2, Name: "Boston Celtics", Abbrev: "BOS", City: "Boston"},
			{ID: 14, Name: "Los Angeles Lakers", Abbrev: "LAL", City: "Los Angeles"},
			{ID: 16, Name: "Miami Heat", Abbrev: "MIA", City: "Miami"},
			{ID: 30, Name: "Washington Wizards", Abbrev: "WAS", City: "Washington"},
		},
		Games: []store.Game{
			{ID: 1, Date: "2024-01-05", HomeID: 14, AwayID: 2, HomeScore: 110, AwayScore: 108, Season: 2024},
			{ID: 2, Date: "2024-02-11", HomeID: 16, AwayID: 14, HomeScore: 101, AwayScore: 120, Season: 2024},
			{ID: 3, Date: "2024-03-01", HomeID: 30, AwayID: 2, HomeScore: 100, AwayScore: 105, Season: 2024},
		},
	}
	if err := s.Replace(context.Background(), snap, store.ETLRun{RunID: "test", Season: 2024}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	return s
}

func TestAnswerScenarios(t *testing.T) {
	svc := NewService(seeded(t), team.DefaultAliases(), 2024, discard)
	ctx := context.Background()

	tests := []struct {
		name     string
		question string
		outcome  Outcome
		contains []string
	}{
		{"average with season", "Lakers average points 2024", OutcomeAnswered, []string{"115.0", "Los Angeles Lakers", "2024"}},
		{"average default season", "What did the Lakers average points?", OutcomeAnswered, []string{"115.0", "in 2024"}},
		{"average no games", "average ppg for the heat in 1999", OutcomeNoData, []string{"No games found for Miami Heat in 1999."}},
		{"last game alias", "Last game for the Wiz", OutcomeAnswered, []string{"2024-03-01", "100", "105", "Washington Wizards", "Boston Celtics"}},
		{"last game abbreviation", "last game for LAL?", OutcomeAnswered, []string{"2024-02-11"}},
		{"help", "asdf", OutcomeHelp, []string{HelpText}},
		{"unknown team", "average points for Atlantis", OutcomeUnrecognised, []string{"Team not recognised."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := svc.Answer(ctx, tt.question)
			if err != nil {
				t.Fatalf("Answer(%q) error = %v", tt.question, err)
			}
			if reply.Outcome != tt.outcome {
				t.Errorf("Answer(%q).Outcome = %v, want %v", tt.question, reply.Outcome, tt.outcome)
			}
			for _, want := range tt.contains {
				if !strings.Contains(reply.Text, want) {
					t.Errorf("Answer(%q) = %q, want it to contain %q", tt.question, reply.Text, want)
				}
			}
		})
	}
}

func TestAnswerLastGameNoGames(t *testing.T) {
	s := newTestStore(t)
	snap := store.Snapshot{Teams: []store.Team{{ID: 16, Name: "Miami Heat", Abbrev: "MIA", City: "Miami"}}, Games: []store.Game{}}
	if err := s.Replace(context.Background(), snap, store.ETLRun{RunID: "empty"}); err != nil {
		t.Fatal(err)
	}
	svc := NewService(s, team.DefaultAliases(), 2024, discard)

	reply, err := svc.Answer(context.Background(), "last game for the heat")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if reply.Text != NoRecentGames || reply.Outcome != OutcomeNoData {
		t.Errorf("Answer() = %q (%v), want %q", reply.Text, reply.Outcome, NoRecentGames)
	}

	// No games at all: the configured season is used.
	reply, _ = svc.Answer(context.Background(), "heat average points")
	if reply.Text != "No games found for Miami Heat in 2024." {
		t.Errorf("Answer() = %q, want fallback season 2024", reply.Text)
	}
}

func TestAnswerBeforeETL(t *testing.T) {
	svc := NewService(newTestStore(t), team.DefaultAliases(), 2024, discard)

	reply, err := svc.Answer(context.Background(), "last game for the lakers")
	if err != nil {
		t.Fatalf("Answer() error = %v, want not-ready reply", err)
	}
	if reply.Status != query.DataUnavailable || reply.Text != NotReadyText {
		t.Errorf("Answer() = %+v, want not-ready reply", reply)
	}

	// Help never touches the store.
	if reply, err := svc.Answer(context.Background(), "hello"); err != nil || reply.Text != HelpText {
		t.Errorf("Answer(hello) = %q, %v", reply.Text, err)
	}
}

func TestAnswerReloadsAfterETL(t *testing.T) {
	s := newTestStore(t)
	svc := NewService(s, team.DefaultAliases(), 2024, discard)
	ctx := context.Background()

	if err := svc.Reload(ctx); !errors.Is(err, store.ErrNotReady) {
		t.Fatalf("Reload() before ETL error = %v, want ErrNotReady", err)
	}

	snap := store.Snapshot{
		Teams: []store.Team{{ID: 16, Name: "Miami Heat", Abbrev: "MIA", City: "Miami"}},
		Games: []store.Game{{ID: 9, Date: "2024-04-14", HomeID: 16, AwayID: 2, HomeScore: 90, AwayScore: 88, Season: 2024}},
	}
	if err := s.Replace(ctx, snap, store.ETLRun{RunID: "r1"}); err != nil {
		t.Fatal(err)
	}

	reply, err := svc.Answer(ctx, "last game heat")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if !strings.Contains(reply.Text, "2024-04-14") {
		t.Errorf("Answer() = %q, want game after lazy reload", reply.Text)
	}
	if svc.Resolver().Len() != 1 {
		t.Errorf("Resolver().Len() = %d, want 1", svc.Resolver().Len())
	}
}

type faultySource struct{}

func (faultySource) Teams(context.Context) ([]store.Team, error) {
	return []store.Team{{ID: 14, Name: "Los Angeles Lakers", Abbrev: "LAL", City: "Los Angeles"}}, nil
}

func (faultySource) AveragePoints(context.Context, int, int) (float64, bool, error) {
	return 0, false, errors.New("database is locked")
}

func (faultySource) LastGame(context.Context, int) (store.GameResult, bool, error) {
	return store.GameResult{}, false, errors.New("database is locked")
}

func (faultySource) TeamName(context.Context, int) (string, bool, error) {
	return "Los Angeles Lakers", true, nil
}

func (faultySource) LatestSeason(context.Context) (int, bool, error) {
	return 2024, true, nil
}

func TestAnswerFault(t *testing.T) {
	svc := NewService(faultySource{}, team.DefaultAliases(), 2024, discard)

	reply, err := svc.Answer(context.Background(), "last game for the lakers")
	if err == nil {
		t.Fatal("Answer() should return the store fault")
	}
	if reply.Status != query.Fault || reply.Outcome != OutcomeError {
		t.Errorf("Answer() = %+v, want fault", reply)
	}
}
