package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alexandre-bismuth/PickYourCourses/internal/domain"
	"github.com/go-chi/chi/v5"
)

// WebhookHandler receives platform events over HTTP and replies with the
// rendered response payload in the webhook response body.
type WebhookHandler struct {
	engine Handler
}

// NewWebhookHandler creates a webhook handler over the engine.
func NewWebhookHandler(engine Handler) *WebhookHandler {
	return &WebhookHandler{engine: engine}
}

// RegisterRoutes mounts the webhook endpoint on the router.
func (h *WebhookHandler) RegisterRoutes(r chi.Router) {
	r.Post("/webhook", h.handleEvent)
}

func (h *WebhookHandler) handleEvent(w http.ResponseWriter, r *http.Request) {
	var event domain.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		Error(w, http.StatusBadRequest, "malformed event payload")
		return
	}
	if event.UserID == 0 {
		Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	switch event.Kind {
	case domain.EventCommand, domain.EventCallback, domain.EventText:
	default:
		Error(w, http.StatusBadRequest, "unknown event kind")
		return
	}

	resp := h.engine.HandleEvent(r.Context(), event)
	JSON(w, http.StatusOK, resp)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
