package retrieval

import (
	"context"
	"strings"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/extract"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
)

// Mode names how a turn was answered.
type Mode string

const (
	// ModeNormal is the full extract-enrich-search-rerank flow.
	ModeNormal Mode = "normal"
	// ModeComparisonReplay re-presents previously shown products.
	ModeComparisonReplay Mode = "comparison_replay"
)

// Request is one conversation turn plus the caller-owned session snapshot.
type Request struct {
	SessionID string
	Message   string
	History   []catalog.Turn // prior turns, oldest first, excluding Message
	ShownIDs  []string       // product ids shown in the previous assistant turn
	Filter    *index.Filter  // optional caller restriction
}

// Result is the ranked answer for one turn.
type Result struct {
	Mode          Mode                 `json:"mode"`
	Requirements  extract.Requirements `json:"requirements"`
	EnrichedQuery string               `json:"enriched_query,omitempty"`
	Ranked        []RankedResult       `json:"ranked"`
}

// Engine runs the full pipeline for a turn. It holds no session state and no
// mutable fields, so concurrent sessions can share one instance.
type Engine struct {
	extractor *extract.Extractor
	retriever *Retriever
	reranker  *Reranker
	resolver  *Resolver
	log       *observability.Logger

	displayLimit int
	showAllLimit int
}

// EngineConfig wires an Engine.
type EngineConfig struct {
	Extractor    *extract.Extractor
	Retriever    *Retriever
	Reranker     *Reranker
	Resolver     *Resolver
	Logger       *observability.Logger
	DisplayLimit int
	ShowAllLimit int
}

// NewEngine creates an Engine. Non-positive limits default to 10 and 20.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.DisplayLimit <= 0 {
		cfg.DisplayLimit = 10
	}
	if cfg.ShowAllLimit <= 0 {
		cfg.ShowAllLimit = 20
	}
	log := cfg.Logger
	if log == nil {
		log = observability.NopLogger()
	}
	return &Engine{
		extractor:    cfg.Extractor,
		retriever:    cfg.Retriever,
		reranker:     cfg.Reranker,
		resolver:     cfg.Resolver,
		log:          log.WithComponent("pipeline"),
		displayLimit: cfg.DisplayLimit,
		showAllLimit: cfg.ShowAllLimit,
	}
}

// Respond answers one turn. Comparison turns over on-screen products replay
// the stored list; everything else runs extraction, enrichment, semantic
// search and reranking. Comparison turns that name models explicitly resolve
// those names directly against the catalog and lead the ranking with them.
func (e *Engine) Respond(ctx context.Context, req Request) (*Result, error) {
	log := e.log.WithSession(req.SessionID).WithContext(ctx)

	if e.resolver.ShouldReplay(req.Message, req.ShownIDs) {
		ranked := e.resolver.Replay(req.ShownIDs)
		log.Info().
			Int("shown", len(req.ShownIDs)).
			Int("resolved", len(ranked)).
			Msg("comparison replay")
		return &Result{Mode: ModeComparisonReplay, Ranked: ranked}, nil
	}

	turns := make([]catalog.Turn, 0, len(req.History)+1)
	turns = append(turns, req.History...)
	turns = append(turns, catalog.Turn{Role: "user", Content: req.Message})

	requirements := e.extractor.Extract(turns)
	enriched := extract.Enrich(req.Message, requirements)

	matches, err := e.retriever.Search(ctx, req.Message, enriched, req.Filter)
	if err != nil {
		return nil, err
	}

	// Classified on the enriched query, not the raw message, so accessory
	// intent carried from history ("...perimeter wire" two turns ago, "under
	// 50 euro" now) keeps protecting accessories from suppression.
	accessoryQuery := catalog.IsAccessoryQuery(enriched)
	ranked := e.reranker.Rerank(matches, requirements, accessoryQuery)

	if IsComparisonRequest(req.Message) && extract.HasModelReference(req.Message) {
		ranked = mergeNamedFirst(e.resolver.ResolveNamed(req.Message), ranked)
	}

	limit := e.displayLimit
	if IsShowAllRequest(req.Message) {
		limit = e.showAllLimit
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	log.Info().
		Str("mode", string(ModeNormal)).
		Str("category", requirements.Category).
		Bool("accessory_query", accessoryQuery).
		Int("results", len(ranked)).
		Msg("pipeline complete")

	return &Result{
		Mode:          ModeNormal,
		Requirements:  requirements,
		EnrichedQuery: enriched,
		Ranked:        ranked,
	}, nil
}

// mergeNamedFirst puts direct name hits ahead of the semantic ranking,
// dropping semantic duplicates of the same products.
func mergeNamedFirst(named, ranked []RankedResult) []RankedResult {
	if len(named) == 0 {
		return ranked
	}
	seen := make(map[string]bool, len(named))
	out := make([]RankedResult, 0, len(named)+len(ranked))
	for _, n := range named {
		seen[n.Product.ID] = true
		out = append(out, n)
	}
	for _, r := range ranked {
		if !seen[r.Product.ID] {
			out = append(out, r)
		}
	}
	return out
}

var showAllPhrases = []string{
	"show all",
	"show me all",
	"show everything",
	"see all",
	"view all",
	"all of them",
	"show more",
	"more options",
	"more results",
}

// IsShowAllRequest reports whether the user asked for the extended result
// list.
func IsShowAllRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, p := range showAllPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
