package bot

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HealthRouter answers liveness probes for the bot process.
func HealthRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	ok := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("OK"))
	}
	r.Get("/", ok)
	r.Get("/healthz", ok)
	return r
}
