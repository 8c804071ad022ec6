package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/albapepper/nba-stats-bot/internal/config"
)

func TestRebindDollar(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"SELECT 1", "SELECT 1"},
		{"SELECT * FROM games WHERE season = ? AND home_id = ?", "SELECT * FROM games WHERE season = $1 AND home_id = $2"},
		{"INSERT INTO t VALUES (?,?,?)", "INSERT INTO t VALUES ($1,$2,$3)"},
	}
	for _, tt := range tests {
		if got := rebindDollar(tt.in); got != tt.want {
			t.Errorf("rebindDollar(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nba_stats.db")

	d, err := New(ctx, &config.Config{DBDriver: DriverSQLite, DBPath: path})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer d.Close()

	if d.Driver() != DriverSQLite {
		t.Errorf("Driver() = %q, want %q", d.Driver(), DriverSQLite)
	}
	if err := d.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	if got := d.Rebind("SELECT ?"); got != "SELECT ?" {
		t.Errorf("Rebind() on sqlite = %q, want unchanged", got)
	}
}

func TestNewUnsupportedDriver(t *testing.T) {
	if _, err := New(context.Background(), &config.Config{DBDriver: "oracle"}); err == nil {
		t.Error("New() with unknown driver should fail")
	}
}
