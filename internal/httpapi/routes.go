package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/DoyleJ11/fantasy-roster-backend/internal/engine"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/hub"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/metrics"
	"github.com/DoyleJ11/fantasy-roster-backend/internal/ws"
)

type Deps struct {
	Hub          *hub.Hub
	Metrics      *metrics.Recorder
	Logger       *zap.Logger
	DefaultState engine.State // roster used when POST /sessions has no body
	WS           ws.Options
}

func SetupRoutes(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// Public routes
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", d.Metrics.Handler())
	r.Get("/ws", ws.Handler(d.Hub, d.WS))

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", CreateSession(d.Hub, d.DefaultState, d.Logger))
		r.Route("/{code}", func(r chi.Router) {
			r.Get("/", GetSession(d.Hub))
			r.Delete("/", DeleteSession(d.Hub))
			r.Post("/gestures", PostGesture(d.Hub))
			r.Get("/slots/{slotID}/candidates", SlotCandidates(d.Hub))
		})
	})
	return r
}
