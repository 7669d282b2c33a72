package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/verdora-ai/recommend-engine/internal/analytics"
	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/dialog"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
	"github.com/verdora-ai/recommend-engine/internal/present"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
	"github.com/verdora-ai/recommend-engine/internal/session"
)

// ChatHandler answers conversation turns.
type ChatHandler struct {
	logger    *observability.Logger
	engine    *retrieval.Engine
	generator dialog.Generator
	sessions  session.Store
	tracker   *analytics.Tracker
}

// NewChatHandler creates a chat handler. generator and tracker may be nil.
func NewChatHandler(logger *observability.Logger, engine *retrieval.Engine, generator dialog.Generator, sessions session.Store, tracker *analytics.Tracker) *ChatHandler {
	return &ChatHandler{
		logger:    logger,
		engine:    engine,
		generator: generator,
		sessions:  sessions,
		tracker:   tracker,
	}
}

// ChatRequestDTO is the API request for a turn.
type ChatRequestDTO struct {
	SessionID string         `json:"sessionId,omitempty"`
	Message   string         `json:"message"`
	Filter    *ChatFilterDTO `json:"filter,omitempty"`
}

// ChatFilterDTO restricts retrieval.
type ChatFilterDTO struct {
	Category string  `json:"category,omitempty"`
	MaxPrice float64 `json:"maxPrice,omitempty"`
}

// ChatResponseDTO is the API response for a turn.
type ChatResponseDTO struct {
	SessionID  string          `json:"sessionId"`
	Mode       string          `json:"mode"`
	Reply      string          `json:"reply,omitempty"`
	Products   []present.Card  `json:"products"`
	Comparison json.RawMessage `json:"comparison,omitempty"`
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if reqDTO.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	sessionID := reqDTO.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	snap, err := h.sessions.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, session.ErrNotFound) {
		h.logger.Error().Err(err).Msg("Session load failed")
		writeError(w, http.StatusInternalServerError, "session load failed", "")
		return
	}

	var filter *index.Filter
	if reqDTO.Filter != nil {
		filter = &index.Filter{
			Category: reqDTO.Filter.Category,
			MaxPrice: reqDTO.Filter.MaxPrice,
		}
	}

	result, err := h.engine.Respond(ctx, retrieval.Request{
		SessionID: sessionID,
		Message:   reqDTO.Message,
		History:   snap.History,
		ShownIDs:  snap.ShownIDs,
		Filter:    filter,
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Pipeline failed")
		if h.tracker != nil {
			h.tracker.TrackError(ctx, sessionID, reqDTO.Message)
		}
		writeError(w, http.StatusInternalServerError, "query failed", err.Error())
		return
	}

	reply, shown := h.generate(r, reqDTO.Message, snap.History, result)

	snap = snap.Append(catalog.Turn{Role: "user", Content: reqDTO.Message}, nil)
	snap = snap.Append(catalog.Turn{Role: "assistant", Content: reply.Text}, cardIDs(shown))
	if err := h.sessions.Put(ctx, sessionID, snap); err != nil {
		h.logger.Error().Err(err).Msg("Session save failed")
	}

	if h.tracker != nil {
		h.tracker.TrackQuery(ctx, sessionID, reqDTO.Message, string(result.Mode), len(shown))
	}

	writeJSON(w, http.StatusOK, ChatResponseDTO{
		SessionID:  sessionID,
		Mode:       string(result.Mode),
		Reply:      reply.Text,
		Products:   shown,
		Comparison: reply.Comparison,
	})
}

// generate runs the dialogue generator over the ranked candidates. When the
// generator picks a product subset, only that subset is shown, in its order;
// without a generator (or on generator failure) the ranked list stands as-is.
func (h *ChatHandler) generate(r *http.Request, message string, history []catalog.Turn, result *retrieval.Result) (dialog.Reply, []present.Card) {
	cards := present.FromRanked(result.Ranked)
	if h.generator == nil {
		return dialog.Reply{}, cards
	}

	productContext, err := dialog.FormatCandidates(result.Ranked)
	if err != nil {
		h.logger.Error().Err(err).Msg("Candidate formatting failed")
		return dialog.Reply{}, cards
	}

	raw, err := h.generator.Generate(r.Context(), message, history, productContext)
	if err != nil {
		h.logger.Error().Err(err).Msg("Dialog generation failed")
		return dialog.Reply{}, cards
	}

	reply := dialog.ParseReply(raw)

	known := make(map[string]bool, len(result.Ranked))
	for _, rr := range result.Ranked {
		known[rr.Product.ID] = true
	}
	chosen := dialog.FilterKnownIDs(reply.ProductIDs, known)
	if len(chosen) == 0 {
		return reply, cards
	}

	byID := make(map[string]present.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	picked := make([]present.Card, 0, len(chosen))
	for _, id := range chosen {
		picked = append(picked, byID[id])
	}
	return reply, picked
}

func cardIDs(cards []present.Card) []string {
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.ID)
	}
	return ids
}

// ResetSession handles DELETE /sessions/{sessionId}.
func (h *ChatHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "sessionId is required", "")
		return
	}
	if err := h.sessions.Delete(r.Context(), sessionID); err != nil {
		h.logger.Error().Err(err).Msg("Session delete failed")
		writeError(w, http.StatusInternalServerError, "session delete failed", "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
