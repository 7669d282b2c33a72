// Package index holds the in-memory semantic index: the id-keyed join of the
// product catalog with its precomputed embedding vectors.
package index

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/embedding"
)

// VectorSet is the precomputed embedding file: vectors keyed by product id.
// Keying by id is the contract with the upstream embedding job; positional
// alignment against the catalog is never used.
type VectorSet struct {
	Model     string               `json:"model"`
	Dimension int                  `json:"dimension"`
	Vectors   map[string][]float32 `json:"vectors"`
}

// LoadVectors reads a vector set from a JSON file.
func LoadVectors(path string) (*VectorSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vectors: %w", err)
	}
	var vs VectorSet
	if err := json.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("parse vectors: %w", err)
	}
	if len(vs.Vectors) == 0 {
		return nil, fmt.Errorf("vector set is empty")
	}
	return &vs, nil
}

// Filter restricts a search. Category matching is exact equality,
// case-insensitive; substring matching is forbidden because category labels
// nest ("Robot lawnmowers" inside "Accessories for robot lawnmowers").
type Filter struct {
	Category string
	MaxPrice float64
}

// Match is one scored search hit.
type Match struct {
	Product catalog.Product
	Score   float64 // cosine similarity in [-1, 1]
}

type entry struct {
	product *catalog.Product
	vector  []float32 // unit length
}

// Index is the read-only search structure. Safe for concurrent searches once
// built.
type Index struct {
	cat       *catalog.Catalog
	entries   []entry
	dimension int
	model     string
}

// Build joins the catalog with the vector set by id. Every catalog id must
// have a vector of the declared dimension; anything else is a defect in the
// upstream embedding job and fails the build.
func Build(cat *catalog.Catalog, vs *VectorSet) (*Index, error) {
	dim := vs.Dimension
	if dim <= 0 {
		for _, v := range vs.Vectors {
			dim = len(v)
			break
		}
	}

	var missing, mismatched []string
	entries := make([]entry, 0, cat.Len())
	for i := range cat.Products {
		p := &cat.Products[i]
		vec, ok := vs.Vectors[p.ID]
		if !ok {
			missing = append(missing, p.ID)
			continue
		}
		if len(vec) != dim {
			mismatched = append(mismatched, p.ID)
			continue
		}
		normalized := make([]float32, len(vec))
		copy(normalized, vec)
		entries = append(entries, entry{product: p, vector: embedding.Normalize(normalized)})
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("vector set missing %d catalog ids: %s", len(missing), sample(missing))
	}
	if len(mismatched) > 0 {
		return nil, fmt.Errorf("%d vectors with dimension != %d: %s", len(mismatched), dim, sample(mismatched))
	}

	return &Index{
		cat:       cat,
		entries:   entries,
		dimension: dim,
		model:     vs.Model,
	}, nil
}

func sample(ids []string) string {
	const max = 5
	if len(ids) <= max {
		return strings.Join(ids, ", ")
	}
	return strings.Join(ids[:max], ", ") + ", ..."
}

// Search scores every indexed product against the query vector, applies the
// filter, and returns the topK matches by descending similarity. Ties keep
// catalog order. A filter that matches nothing returns an empty slice; the
// index never widens a filter on its own.
func (idx *Index) Search(query []float32, topK int, filter *Filter) ([]Match, error) {
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("query dimension %d, index dimension %d", len(query), idx.dimension)
	}

	q := make([]float32, len(query))
	copy(q, query)
	embedding.Normalize(q)

	matches := make([]Match, 0, topK)
	for _, e := range idx.entries {
		if !matchesFilter(*e.product, filter) {
			continue
		}
		matches = append(matches, Match{Product: *e.product, Score: dot(q, e.vector)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

func matchesFilter(p catalog.Product, f *Filter) bool {
	if f == nil {
		return true
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.MaxPrice > 0 {
		price, ok := catalog.ParsePrice(p.Price)
		if !ok || price > f.MaxPrice {
			return false
		}
	}
	return true
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Get returns an indexed product by id.
func (idx *Index) Get(id string) (catalog.Product, bool) {
	return idx.cat.Get(id)
}

// Catalog returns the underlying catalog.
func (idx *Index) Catalog() *catalog.Catalog {
	return idx.cat
}

// Len returns the number of indexed products.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimension returns the vector dimension.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// Model returns the embedding model the vectors were computed with.
func (idx *Index) Model() string {
	return idx.model
}
