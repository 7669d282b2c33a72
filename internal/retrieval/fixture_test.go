package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/index"
)

// stubEmbedder returns a fixed vector for every query, so tests control the
// search ordering through the catalog vectors alone.
type stubEmbedder struct {
	vec []float32
	err error
}

func (s stubEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]float32, len(s.vec))
	copy(out, s.vec)
	return out, nil
}

func (s stubEmbedder) Model() string  { return "stub" }
func (s stubEmbedder) Dimension() int { return len(s.vec) }

// testIndex builds a small garden catalog where vectors are arranged so a
// {1,0,0,0} query ranks m1 > m2 > acc1 > ht1.
func testIndex(t *testing.T) *index.Index {
	t.Helper()
	cat, err := catalog.New([]catalog.Product{
		{
			ID: "m1", Name: "Robot mower A 1500", Category: "Robot lawnmowers",
			Price: "1299", Specs: map[string]string{"Cutting area up to": "1500 m²"},
		},
		{
			ID: "m2", Name: "Robot mower A 3000", Category: "Robot lawnmowers",
			Price: "1899", Specs: map[string]string{"Cutting area up to": "3000 m²"},
		},
		{
			ID: "acc1", Name: "Perimeter wire kit 150m", Category: "Accessories for robot lawnmowers",
			Price: "49.90",
		},
		{
			ID: "ht1", Name: "Hedge trimmer HT 60", Category: "Hedge trimmers",
			Price: "199",
		},
	})
	require.NoError(t, err)

	idx, err := index.Build(cat, &index.VectorSet{
		Model:     "test-embed",
		Dimension: 4,
		Vectors: map[string][]float32{
			"m1":   {1, 0, 0, 0},
			"m2":   {0.9, 0.1, 0, 0},
			"acc1": {0.8, 0.2, 0, 0},
			"ht1":  {0, 0, 1, 0},
		},
	})
	require.NoError(t, err)
	return idx
}

var errEmbed = fmt.Errorf("embedding service unavailable")
