package retrieval

import (
	"sort"
	"strings"

	"github.com/verdora-ai/recommend-engine/internal/extract"
	"github.com/verdora-ai/recommend-engine/internal/index"
	"github.com/verdora-ai/recommend-engine/internal/observability"
)

// ReasonComparisonRequested tags results replayed for a comparison turn.
const ReasonComparisonRequested = "comparison requested"

var comparisonKeywords = []string{
	"compare",
	"comparison",
	"versus",
	"difference",
	"differences",
	"which is better",
	"which one is better",
	"which would you",
	"pros and cons",
}

// IsComparisonRequest reports whether a message asks to compare products.
func IsComparisonRequest(message string) bool {
	lower := strings.ToLower(message)
	for _, kw := range comparisonKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	// standalone "vs" needs word bounds so "vscode" stays quiet
	for _, w := range strings.Fields(lower) {
		if w == "vs" || w == "vs." {
			return true
		}
	}
	return false
}

// Resolver decides between the normal retrieval flow and a comparison replay
// of previously shown products. Session state arrives as a snapshot; the
// resolver never stores it.
type Resolver struct {
	idx   *index.Index
	score float64
	log   *observability.Logger
}

// NewResolver creates a Resolver. score <= 0 defaults to 1.0, the fixed
// confidence assigned to replayed results.
func NewResolver(idx *index.Index, score float64, log *observability.Logger) *Resolver {
	if score <= 0 {
		score = 1.0
	}
	if log == nil {
		log = observability.NopLogger()
	}
	return &Resolver{idx: idx, score: score, log: log.WithComponent("comparison")}
}

// ShouldReplay reports whether the turn is a comparison over products already
// on screen: a comparison keyword, a non-empty shown list, and no model named
// in the message. Naming a model means the user wants specific products
// resolved fresh, not the prior list parroted back.
func (r *Resolver) ShouldReplay(message string, shownIDs []string) bool {
	return IsComparisonRequest(message) &&
		len(shownIDs) > 0 &&
		!extract.HasModelReference(message)
}

// Replay materializes the shown ids as ranked results, preserving the stored
// order under a fixed score. Ids the index no longer knows (catalog rotated
// under a live session) are skipped with a warning.
func (r *Resolver) Replay(shownIDs []string) []RankedResult {
	out := make([]RankedResult, 0, len(shownIDs))
	for _, id := range shownIDs {
		p, ok := r.idx.Get(id)
		if !ok {
			r.log.Warn().Str("product_id", id).Msg("shown id not in index, skipping")
			continue
		}
		out = append(out, RankedResult{
			Product: p,
			Score:   r.score,
			Reasons: []string{ReasonComparisonRequested},
		})
	}
	return out
}

// ResolveNamed finds products by direct name match for messages that name
// models explicitly. Exact name hits score 1.0, word-prefix hits 0.95, plain
// prefix hits 0.9; each product keeps its best score.
func (r *Resolver) ResolveNamed(message string) []RankedResult {
	refs := extract.ModelReferences(message)
	if len(refs) == 0 {
		return nil
	}

	best := make(map[string]RankedResult)
	for _, ref := range refs {
		lowRef := strings.ToLower(ref)
		for _, p := range r.idx.Catalog().Products {
			lowName := strings.ToLower(p.Name)

			var score float64
			switch {
			case lowName == lowRef:
				score = 1.0
			case strings.Contains(lowName, " "+lowRef+" ") || strings.HasSuffix(lowName, " "+lowRef):
				score = 0.95
			case strings.HasPrefix(lowName, lowRef) || strings.Contains(lowName, lowRef):
				score = 0.9
			default:
				continue
			}

			if prev, ok := best[p.ID]; ok && prev.Score >= score {
				continue
			}
			best[p.ID] = RankedResult{
				Product: p,
				Score:   score,
				Reasons: []string{"name match: " + ref},
			}
		}
	}

	out := make([]RankedResult, 0, len(best))
	for _, r := range best {
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Product.ID < out[j].Product.ID
	})
	return out
}
