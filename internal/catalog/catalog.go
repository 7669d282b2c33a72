package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Catalog is the loaded product set with id lookup. Read-only after Load.
type Catalog struct {
	Products []Product

	byID map[string]*Product
}

// Load reads the product catalog from a JSON file. Duplicate or empty ids are
// a feed defect and fail the load; the caller treats that as fatal.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(products)
}

// New builds a Catalog from an in-memory product list.
func New(products []Product) (*Catalog, error) {
	if len(products) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	c := &Catalog{
		Products: products,
		byID:     make(map[string]*Product, len(products)),
	}
	for i := range products {
		p := &products[i]
		if p.ID == "" {
			return nil, fmt.Errorf("product %q has no id", p.Name)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.byID[p.ID] = p
	}
	return c, nil
}

// Get returns the product with the given id, if present.
func (c *Catalog) Get(id string) (Product, bool) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return *p, true
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.Products)
}

// Categories returns the distinct category labels present in the catalog,
// sorted.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, p := range c.Products {
		if p.Category != "" {
			seen[p.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}
