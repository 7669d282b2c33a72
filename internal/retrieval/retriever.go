// Package retrieval implements the search pipeline: semantic retrieval with
// category enforcement, requirement-aware reranking, and comparison replay.
package retrieval

import (
	"context"
	"fmt"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/embedding"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
)

// Retriever embeds the enriched query and searches the index.
type Retriever struct {
	idx      *index.Index
	embedder embedding.Embedder
	log      *observability.Logger
	topK     int
}

// NewRetriever creates a Retriever. topK <= 0 defaults to 20.
func NewRetriever(idx *index.Index, embedder embedding.Embedder, log *observability.Logger, topK int) *Retriever {
	if topK <= 0 {
		topK = 20
	}
	if log == nil {
		log = observability.NopLogger()
	}
	return &Retriever{
		idx:      idx,
		embedder: embedder,
		log:      log.WithComponent("retriever"),
		topK:     topK,
	}
}

// Search embeds the enriched query and returns the topK matches. The raw
// message governs category enforcement: when it names a canonical category
// outright, results are hard-filtered to that exact category rather than
// trusting embedding proximity, which otherwise bleeds neighboring categories
// into the top ranks. The override takes precedence over a caller-supplied
// category filter; other filter fields still apply. An empty result under a
// filter is returned as-is, never silently widened.
func (r *Retriever) Search(ctx context.Context, raw, enriched string, filter *index.Filter) ([]index.Match, error) {
	query, err := r.embedder.EmbedSingle(ctx, enriched)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	effective := index.Filter{}
	if filter != nil {
		effective = *filter
	}
	if forced := CategoryOverride(raw); forced != "" {
		effective.Category = forced
	}

	matches, err := r.idx.Search(query, r.topK, &effective)
	if err != nil {
		return nil, fmt.Errorf("index search: %w", err)
	}

	r.log.Debug().
		Str("enriched_query", enriched).
		Str("category_filter", effective.Category).
		Int("matches", len(matches)).
		Msg("semantic search complete")

	if len(matches) == 0 && effective.Category != "" {
		r.log.Info().
			Str("category_filter", effective.Category).
			Msg("filtered search returned nothing; caller decides fallback")
	}
	return matches, nil
}

// CategoryOverride returns the canonical category to hard-filter on, or empty.
// The override fires when the raw message contains a canonical category name,
// unless the message is accessory-seeking and the named category is a primary
// one ("blades for robot lawnmowers" must not collapse onto the main robot
// mower category).
func CategoryOverride(raw string) string {
	canon := catalog.MatchCategory(raw)
	if canon == "" {
		return ""
	}
	if catalog.IsAccessoryQuery(raw) && !catalog.IsAccessoryCategory(canon) {
		return ""
	}
	return canon
}
