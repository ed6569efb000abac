package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	appmatch "github.com/juliantomlin/card-game-midterm/internal/app/match"
)

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(svc *appmatch.Service, pinger Pinger) *chi.Mux {
	h := NewMatchHandlers(svc)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", healthHandler(pinger))

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Post("/users", h.Register())
		r.Post("/matches", h.CreateMatch())
		r.Post("/matches/quick", h.QuickMatch())
		r.Post("/matches/{match_id}/join", h.Join())
		r.Post("/matches/{match_id}/bids", h.Bid())
		r.Get("/matches/{match_id}", h.View())
	})

	return r
}

func healthHandler(pinger Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := pinger.Ping(r.Context()); err != nil {
			WriteHTTPError(w, http.StatusServiceUnavailable, "db_unavailable")
			return
		}
		writeJSON(w, map[string]string{"status": "ok"})
	}
}
