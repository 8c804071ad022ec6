package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/v1/teams", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil))
	m.RecordAnswer("last_game", "answered")
	m.RecordRateLimitHit()
	m.RecordReload(30, nil)
	m.RecordReload(0, errors.New("not ready"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`nba_stats_http_requests_total{method="GET",route="/api/v1/teams",status="418"} 1`,
		`nba_stats_answers_total{intent="last_game",outcome="answered"} 1`,
		`nba_stats_rate_limit_hits_total 1`,
		`nba_stats_resolver_reloads_total{result="error"} 1`,
		`nba_stats_resolver_teams 30`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewIsolatedRegistries(t *testing.T) {
	// A second instance must not panic on duplicate registration.
	a, b := New(), New()
	if a.Registry() == b.Registry() {
		t.Error("instances share a registry")
	}
}
