package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/albapepper/nba-stats-bot/internal/db"
	"github.com/albapepper/nba-stats-bot/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeRuns struct {
	run store.ETLRun
	ok  bool
	err error
}

func (f *fakeRuns) LatestRun(context.Context) (store.ETLRun, bool, error) {
	return f.run, f.ok, f.err
}

func TestRefresherCheck(t *testing.T) {
	src := &fakeRuns{err: store.ErrNotReady}
	var seen []string
	r := NewRefresher(src, func(_ context.Context, run store.ETLRun) {
		seen = append(seen, run.RunID)
	}, discard)
	ctx := context.Background()

	if r.Check(ctx) {
		t.Error("Check() before any run = true, want false")
	}

	src.err, src.ok, src.run = nil, true, store.ETLRun{RunID: "a"}
	if !r.Check(ctx) {
		t.Error("Check() first run = false, want true")
	}
	if r.Check(ctx) {
		t.Error("Check() same run = true, want false")
	}

	src.err = errors.New("connection reset")
	if r.Check(ctx) {
		t.Error("Check() on error = true, want false")
	}

	src.err, src.run = nil, store.ETLRun{RunID: "b"}
	r.Check(ctx)

	if len(seen) != 2 || seen[0] != "a" || seen[1] != "b" {
		t.Errorf("onNewRun calls = %v, want [a b]", seen)
	}
	if got := r.LastRunID(); got != "b" {
		t.Errorf("LastRunID() = %q, want b", got)
	}
}

type countingPruner struct {
	mu    sync.Mutex
	calls int
}

func (p *countingPruner) PruneRuns(context.Context, int) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return 1, nil
}

func (p *countingPruner) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestStartRunsTickersUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pruner := &countingPruner{}
	done := make(chan struct{})

	go func() {
		Start(ctx, nil, pruner, Config{PruneInterval: 5 * time.Millisecond, KeepRuns: 1}, discard)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for pruner.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("prune ticker never fired")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}

func TestAnalyzeTables(t *testing.T) {
	ctx := context.Background()
	d, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "nba_stats.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer d.Close()

	s := store.New(d)
	snap := store.Snapshot{
		Teams:   []store.Team{{ID: 14, Name: "Los Angeles Lakers", Abbrev: "LAL", City: "Los Angeles"}},
		Games:   []store.Game{},
		Leaders: []store.SeasonLeader{},
	}
	if err := s.Replace(ctx, snap, store.ETLRun{RunID: "r1", Season: 2024}); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	if err := AnalyzeTables(ctx, d, discard); err != nil {
		t.Errorf("AnalyzeTables() error = %v", err)
	}
}
