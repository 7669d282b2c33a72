package retrieval

import (
	"fmt"
	"sort"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/extract"
	"github.com/verdora-ai/recommend-engine/internal/index"
)

// RankedResult is a product with its adjusted score and the human-readable
// reasons behind the adjustments. Reasons explain, they never reorder.
type RankedResult struct {
	Product catalog.Product `json:"product"`
	Score   float64         `json:"score"`
	Reasons []string        `json:"reasons,omitempty"`
}

// ReasonAccessorySuppressed tags accessories demoted out of primary-product
// queries.
const ReasonAccessorySuppressed = "accessory (suppressed)"

// Weights are the score adjustment multipliers. They compose multiplicatively
// in suppression, capacity, budget order.
type Weights struct {
	AccessorySuppression float64
	CapacityBoost        float64
	CapacitySlack        float64 // fraction of the requested area a product must cover
	BudgetBoost          float64
}

// DefaultWeights returns the production tuning.
func DefaultWeights() Weights {
	return Weights{
		AccessorySuppression: 0.1,
		CapacityBoost:        1.3,
		CapacitySlack:        0.8,
		BudgetBoost:          1.2,
	}
}

// Reranker adjusts similarity scores with requirement-aware multipliers.
type Reranker struct {
	w Weights
}

// NewReranker creates a Reranker. Zero-valued weights fall back to defaults.
func NewReranker(w Weights) *Reranker {
	def := DefaultWeights()
	if w.AccessorySuppression <= 0 {
		w.AccessorySuppression = def.AccessorySuppression
	}
	if w.CapacityBoost <= 0 {
		w.CapacityBoost = def.CapacityBoost
	}
	if w.CapacitySlack <= 0 {
		w.CapacitySlack = def.CapacitySlack
	}
	if w.BudgetBoost <= 0 {
		w.BudgetBoost = def.BudgetBoost
	}
	return &Reranker{w: w}
}

// Rerank applies the adjustments and re-sorts, descending by adjusted score.
// The sort is stable, so equal scores keep retrieval order and reruns over
// the same input produce identical output. Products with unparseable prices
// or capacities simply miss the corresponding boost.
func (r *Reranker) Rerank(matches []index.Match, req extract.Requirements, accessoryQuery bool) []RankedResult {
	ranked := make([]RankedResult, 0, len(matches))

	for _, m := range matches {
		score := m.Score
		var reasons []string

		if !accessoryQuery && catalog.IsAccessoryProduct(m.Product) {
			score *= r.w.AccessorySuppression
			reasons = append(reasons, ReasonAccessorySuppressed)
		}

		if req.AreaSqm > 0 {
			if area, ok := catalog.CuttingAreaSqm(m.Product); ok &&
				float64(area) >= r.w.CapacitySlack*float64(req.AreaSqm) {
				score *= r.w.CapacityBoost
				reasons = append(reasons, fmt.Sprintf("covers %d m²", area))
			}
		}

		if req.BudgetEUR > 0 {
			if price, ok := catalog.ParsePrice(m.Product.Price); ok &&
				price <= float64(req.BudgetEUR) {
				score *= r.w.BudgetBoost
				reasons = append(reasons, fmt.Sprintf("%.0f € within budget", price))
			}
		}

		ranked = append(ranked, RankedResult{Product: m.Product, Score: score, Reasons: reasons})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
