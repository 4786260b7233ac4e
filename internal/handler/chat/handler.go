package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/elaralabs/elara/backend/internal/model/chat"
	"github.com/elaralabs/elara/backend/internal/service/relay"
	"github.com/elaralabs/elara/backend/pkg/utils"
)

// Handler serves the conversational relay endpoint.
type Handler struct {
	relaySvc *relay.Service
}

// New creates the chat handler.
func New(relaySvc *relay.Service) *Handler {
	return &Handler{relaySvc: relaySvc}
}

// RegisterRoutes mounts chat routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Messages []chatmodel.Message `json:"messages"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Messages == nil {
		utils.RespondError(w, http.StatusBadRequest, "Messages array is required")
		return
	}

	reply, err := h.relaySvc.Relay(r.Context(), payload.Messages)
	if err != nil {
		respondRelayError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": reply})
}

// respondRelayError maps each relay failure class to its stable wire shape.
func respondRelayError(w http.ResponseWriter, err error) {
	var relayErr *relay.Error
	if !errors.As(err, &relayErr) {
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	switch relayErr.Kind {
	case relay.KindInvalidRequest:
		utils.RespondError(w, http.StatusBadRequest, "Messages array is required")
	case relay.KindServerMisconfigured:
		utils.RespondError(w, http.StatusInternalServerError, "Server configuration error")
	case relay.KindUpstreamError:
		status := relayErr.Status
		if status == 0 {
			// Unreachable upstream or timeout: no status to mirror.
			status = http.StatusBadGateway
		}
		body := map[string]interface{}{"error": "Failed to get response from AI"}
		if relayErr.Details != nil {
			body["details"] = relayErr.Details
		}
		utils.RespondJSON(w, status, body)
	case relay.KindInvalidUpstreamResponse:
		utils.RespondError(w, http.StatusInternalServerError, "Invalid response from AI")
	default:
		utils.RespondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": relayErr.Error(),
		})
	}
}
