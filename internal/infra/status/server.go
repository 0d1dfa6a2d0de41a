// Package status provides the kernel's optional HTTP status and metrics
// endpoint — reserved by the `--port` flag, off by default.
package status

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/granville-run/granville/internal/infra/engine"
	"github.com/granville-run/granville/internal/infra/queue"
)

// Server exposes /healthz and /metrics over HTTP. It never touches the
// IPC transport or the task pipeline directly — it only reads pool and
// queue state for reporting.
type Server struct {
	pool     *engine.Pool
	unranked *queue.Unranked
	ranked   *queue.Ranked
}

// New creates a status server reporting on pool and queues.
func New(pool *engine.Pool, unranked *queue.Unranked, ranked *queue.Ranked) *Server {
	return &Server{pool: pool, unranked: unranked, ranked: ranked}
}

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"models_loaded":  s.pool.Count(),
		"unranked_depth": s.unranked.Len(),
		"ranked_depth":   s.ranked.Len(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
