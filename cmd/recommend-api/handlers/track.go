package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/verdora-ai/recommend-engine/internal/analytics"
	"github.com/verdora-ai/recommend-engine/internal/observability"
)

// TrackHandler records client-side events.
type TrackHandler struct {
	logger  *observability.Logger
	tracker *analytics.Tracker
}

// NewTrackHandler creates a tracking handler. tracker may be nil.
func NewTrackHandler(logger *observability.Logger, tracker *analytics.Tracker) *TrackHandler {
	return &TrackHandler{logger: logger, tracker: tracker}
}

// ClickRequestDTO is a product click event.
type ClickRequestDTO struct {
	SessionID string `json:"sessionId"`
	ProductID string `json:"productId"`
}

// Click handles POST /track/click.
func (h *TrackHandler) Click(w http.ResponseWriter, r *http.Request) {
	var reqDTO ClickRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if reqDTO.SessionID == "" || reqDTO.ProductID == "" {
		writeError(w, http.StatusBadRequest, "sessionId and productId are required", "")
		return
	}

	if h.tracker != nil {
		h.tracker.TrackClick(r.Context(), reqDTO.SessionID, reqDTO.ProductID)
	}
	w.WriteHeader(http.StatusNoContent)
}
