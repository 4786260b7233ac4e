package persona

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	personamodel "github.com/elaralabs/elara/backend/internal/model/persona"
	"github.com/elaralabs/elara/backend/pkg/utils"
)

// Handler serves the public persona profile consumed by chat clients.
type Handler struct {
	store personamodel.Store
}

// New creates the persona handler.
func New(store personamodel.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts persona routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/persona", h.handleGetPersona)
}

func (h *Handler) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.Default().Profile())
}
