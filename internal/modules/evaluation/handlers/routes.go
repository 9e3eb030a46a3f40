package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// EvaluationTimeout bounds one evaluation request, fetches included.
const EvaluationTimeout = 120 * time.Second

// RegisterRoutes registers all evaluation routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/evaluations", func(r chi.Router) {
		// A run fetches one chain per expiration in the window
		r.Use(middleware.Timeout(EvaluationTimeout))

		r.Get("/", h.HandleEvaluate)
		r.Get("/export.csv", h.HandleExportCSV)
	})
}
