package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/elaralabs/elara/backend/internal/handler/chat"
	personahandler "github.com/elaralabs/elara/backend/internal/handler/persona"
	middlewarePkg "github.com/elaralabs/elara/backend/internal/middleware"
	personamodel "github.com/elaralabs/elara/backend/internal/model/persona"
	"github.com/elaralabs/elara/backend/internal/service/relay"
	"github.com/elaralabs/elara/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personamodel.Store, relaySvc *relay.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/health", handleHealth)

	chatHandler := chathandler.New(relaySvc)
	personaHandler := personahandler.New(personas)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		personaHandler.RegisterRoutes(api)
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
