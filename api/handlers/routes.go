package handlers

import (
	"net/http"
	"time"

	"github.com/aria-lang/protalign-go/api/middleware"
	"github.com/aria-lang/protalign-go/internal/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the API router with its middleware stack.
func NewRouter(cfg *config.Config, timeout time.Duration) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if timeout > 0 {
		r.Use(chimiddleware.Timeout(timeout))
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	align := NewAlignment(cfg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/alignment", func(r chi.Router) {
			r.Post("/local", align.Local)
			r.Post("/score", align.Score)
			r.Post("/report", align.Report)
		})

		r.Route("/sequence", func(r chi.Router) {
			r.Post("/validate", ValidateHandler)
		})

		r.Get("/matrix/{a}/{b}", MatrixScoreHandler)
	})

	return r
}
