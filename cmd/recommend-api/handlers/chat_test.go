package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/extract"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
	"github.com/verdora-ai/recommend-engine/internal/session"
)

type stubEmbedder struct{ vec []float32 }

func (s stubEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	out := make([]float32, len(s.vec))
	copy(out, s.vec)
	return out, nil
}
func (s stubEmbedder) Model() string  { return "stub" }
func (s stubEmbedder) Dimension() int { return len(s.vec) }

// stubGenerator returns a canned tagged reply.
type stubGenerator struct {
	raw string
	err error
}

func (g stubGenerator) Generate(context.Context, string, []catalog.Turn, string) (string, error) {
	return g.raw, g.err
}

func testHandler(t *testing.T, gen *stubGenerator) (*ChatHandler, session.Store) {
	t.Helper()
	cat, err := catalog.New([]catalog.Product{
		{ID: "m1", Name: "Robot mower A 1500", Category: "Robot lawnmowers", Price: "1299"},
		{ID: "m2", Name: "Robot mower A 3000", Category: "Robot lawnmowers", Price: "1899"},
	})
	require.NoError(t, err)
	idx, err := index.Build(cat, &index.VectorSet{
		Dimension: 2,
		Vectors:   map[string][]float32{"m1": {1, 0}, "m2": {0.9, 0.1}},
	})
	require.NoError(t, err)

	engine := retrieval.NewEngine(retrieval.EngineConfig{
		Extractor: extract.NewExtractor(8, 3),
		Retriever: retrieval.NewRetriever(idx, stubEmbedder{vec: []float32{1, 0}}, nil, 0),
		Reranker:  retrieval.NewReranker(retrieval.DefaultWeights()),
		Resolver:  retrieval.NewResolver(idx, 0, nil),
	})

	store := session.NewMemoryStore(time.Minute, 100)
	t.Cleanup(func() { store.Close() })

	h := NewChatHandler(observability.NopLogger(), engine, nil, store, nil)
	if gen != nil {
		h = NewChatHandler(observability.NopLogger(), engine, *gen, store, nil)
	}
	return h, store
}

func postChat(t *testing.T, h *ChatHandler, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Chat(rec, req)
	return rec
}

func TestChat(t *testing.T) {
	h, store := testHandler(t, nil)

	rec := postChat(t, h, ChatRequestDTO{Message: "show me robot lawnmowers"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "normal", resp.Mode)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "m1", resp.Products[0].ID)

	// the turn was persisted with the shown ids
	snap, err := store.Get(context.Background(), resp.SessionID)
	require.NoError(t, err)
	assert.Len(t, snap.History, 2)
	assert.Equal(t, []string{"m1", "m2"}, snap.ShownIDs)
}

func TestChatComparisonReplay(t *testing.T) {
	h, store := testHandler(t, nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", session.Snapshot{
		History: []catalog.Turn{
			{Role: "user", Content: "show me robot lawnmowers"},
			{Role: "assistant", Content: "here are two"},
		},
		ShownIDs: []string{"m2", "m1"},
	}))

	rec := postChat(t, h, ChatRequestDTO{SessionID: "s1", Message: "compare these please"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "comparison_replay", resp.Mode)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "m2", resp.Products[0].ID)
	assert.Equal(t, "m1", resp.Products[1].ID)
}

func TestChatGeneratorPicksSubset(t *testing.T) {
	gen := &stubGenerator{raw: "<reply>The A 1500 fits best.</reply><products>m1, made-up-id</products>"}
	h, _ := testHandler(t, gen)

	rec := postChat(t, h, ChatRequestDTO{Message: "show me robot lawnmowers"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The A 1500 fits best.", resp.Reply)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, "m1", resp.Products[0].ID)
}

func TestChatGeneratorFailureFallsBack(t *testing.T) {
	gen := &stubGenerator{err: assert.AnError}
	h, _ := testHandler(t, gen)

	rec := postChat(t, h, ChatRequestDTO{Message: "show me robot lawnmowers"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ChatResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Reply)
	assert.Len(t, resp.Products, 2)
}

func TestChatValidation(t *testing.T) {
	h, _ := testHandler(t, nil)

	t.Run("missing message", func(t *testing.T) {
		rec := postChat(t, h, ChatRequestDTO{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()
		h.Chat(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestResetSession(t *testing.T) {
	h, store := testHandler(t, nil)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "s1", session.Snapshot{ShownIDs: []string{"m1"}}))

	r := chi.NewRouter()
	r.Delete("/sessions/{sessionId}", h.ResetSession)

	req := httptest.NewRequest(http.MethodDelete, "/sessions/s1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrNotFound)
}
