package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Product{
		{ID: "p1", Name: "Robot mower A 1500", Category: "Robot lawnmowers", Price: "1299"},
		{ID: "p2", Name: "Robot mower A 3000", Category: "Robot lawnmowers", Price: "1899"},
		{ID: "p3", Name: "Perimeter wire 150m", Category: "Accessories for robot lawnmowers", Price: "49.90"},
		{ID: "p4", Name: "Hedge trimmer HT 60", Category: "Hedge trimmers", Price: "Contact us"},
	})
	require.NoError(t, err)
	return cat
}

func testVectors() *VectorSet {
	return &VectorSet{
		Model:     "test-embed",
		Dimension: 3,
		Vectors: map[string][]float32{
			"p1": {1, 0, 0},
			"p2": {0.9, 0.1, 0},
			"p3": {0, 1, 0},
			"p4": {0, 0, 1},
		},
	}
}

func TestBuild(t *testing.T) {
	t.Run("joins every product by id", func(t *testing.T) {
		idx, err := Build(testCatalog(t), testVectors())
		require.NoError(t, err)
		assert.Equal(t, 4, idx.Len())
		assert.Equal(t, 3, idx.Dimension())
		assert.Equal(t, "test-embed", idx.Model())
	})

	t.Run("missing vector fails the build", func(t *testing.T) {
		vs := testVectors()
		delete(vs.Vectors, "p3")
		_, err := Build(testCatalog(t), vs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing 1 catalog ids")
		assert.Contains(t, err.Error(), "p3")
	})

	t.Run("dimension mismatch fails the build", func(t *testing.T) {
		vs := testVectors()
		vs.Vectors["p2"] = []float32{1, 0}
		_, err := Build(testCatalog(t), vs)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dimension != 3")
		assert.Contains(t, err.Error(), "p2")
	})

	t.Run("dimension inferred when undeclared", func(t *testing.T) {
		vs := testVectors()
		vs.Dimension = 0
		idx, err := Build(testCatalog(t), vs)
		require.NoError(t, err)
		assert.Equal(t, 3, idx.Dimension())
	})
}

func TestSearch(t *testing.T) {
	idx, err := Build(testCatalog(t), testVectors())
	require.NoError(t, err)

	t.Run("orders by descending similarity", func(t *testing.T) {
		matches, err := idx.Search([]float32{1, 0, 0}, 0, nil)
		require.NoError(t, err)
		require.Len(t, matches, 4)
		assert.Equal(t, "p1", matches[0].Product.ID)
		assert.Equal(t, "p2", matches[1].Product.ID)
		assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
		assert.Greater(t, matches[0].Score, matches[1].Score)
	})

	t.Run("topK truncates", func(t *testing.T) {
		matches, err := idx.Search([]float32{1, 0, 0}, 2, nil)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("category filter is exact equality", func(t *testing.T) {
		matches, err := idx.Search([]float32{0, 1, 0}, 0, &Filter{Category: "Robot lawnmowers"})
		require.NoError(t, err)
		require.Len(t, matches, 2)
		// the accessory category nests the main label; substring matching would leak p3 in
		for _, m := range matches {
			assert.Equal(t, "Robot lawnmowers", m.Product.Category)
		}
	})

	t.Run("category filter is case-insensitive", func(t *testing.T) {
		matches, err := idx.Search([]float32{1, 0, 0}, 0, &Filter{Category: "robot LAWNMOWERS"})
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("max price excludes dearer and unpriced products", func(t *testing.T) {
		matches, err := idx.Search([]float32{1, 0, 0}, 0, &Filter{MaxPrice: 1500})
		require.NoError(t, err)
		require.Len(t, matches, 2) // p1 at 1299, p3 at 49.90; p4 has no parseable price
		ids := []string{matches[0].Product.ID, matches[1].Product.ID}
		assert.Contains(t, ids, "p1")
		assert.Contains(t, ids, "p3")
	})

	t.Run("filter matching nothing returns empty", func(t *testing.T) {
		matches, err := idx.Search([]float32{1, 0, 0}, 0, &Filter{Category: "Snow throwers"})
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("query dimension must match", func(t *testing.T) {
		_, err := idx.Search([]float32{1, 0}, 0, nil)
		assert.Error(t, err)
	})
}
