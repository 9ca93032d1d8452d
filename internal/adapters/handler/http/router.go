package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vncsmyrnk/polls/internal/metrics"
)

func NewHandler(questionHandler *QuestionHandler, healthHandler *HealthHandler, logger *slog.Logger, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger, m))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/", http.StatusFound)
	})
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	if m != nil {
		r.Method(http.MethodGet, "/metrics", m.Handler())
	}

	r.Route("/polls", func(r chi.Router) {
		r.Get("/", questionHandler.Index)
		r.Get("/{id}", questionHandler.Detail)
		r.Get("/{id}/results", questionHandler.Results)
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/questions", func(r chi.Router) {
			r.Get("/", questionHandler.ListQuestions)
			r.Get("/{id}", questionHandler.GetQuestion)
		})
	})

	return r
}
