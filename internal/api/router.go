// Package api wires the HTTP routes.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dlazarev/finadvisor/internal/api/handlers"
	"github.com/dlazarev/finadvisor/internal/api/middleware"
	"github.com/dlazarev/finadvisor/internal/config"
)

// Handlers groups the route handlers the router mounts.
type Handlers struct {
	Advice  *handlers.AdviceHandler
	Entries *handlers.EntriesHandler
	Goals   *handlers.GoalsHandler
	Summary *handlers.SummaryHandler
	Uploads *handlers.UploadsHandler
	Jobs    *handlers.JobsHandler
}

// NewRouter builds the service router with the standard middleware chain.
func NewRouter(cfg config.ServerConfig, log zerolog.Logger, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.RequestID(log))
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth)

		r.Post("/advice", h.Advice.Advise)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/summary", h.Summary.Get)

			r.Get("/entries", h.Entries.List)
			r.Post("/entries", h.Entries.Create)
			r.Delete("/entries/{entryID}", h.Entries.Delete)

			r.Get("/goals", h.Goals.List)
			r.Post("/goals", h.Goals.Create)
			r.Delete("/goals/{goalID}", h.Goals.Delete)

			r.Post("/providers/{source}/upload", h.Uploads.Upload)
		})

		r.Get("/jobs", h.Jobs.List)
		r.Get("/jobs/{jobID}", h.Jobs.Get)
	})

	return r
}
