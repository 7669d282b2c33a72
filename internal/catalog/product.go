// Package catalog holds the product domain model: the catalog itself, the
// canonical category vocabulary, and the spec/price parsing helpers the
// ranking layers depend on.
package catalog

// Product is one catalog entry. Prices stay as display strings because the
// upstream feed carries non-numeric values ("Contact us"); numeric access
// goes through ParsePrice.
type Product struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Description   string            `json:"description"`
	Price         string            `json:"price"`
	OriginalPrice string            `json:"original_price,omitempty"`
	URL           string            `json:"url,omitempty"`
	Images        []string          `json:"images,omitempty"`
	Specs         map[string]string `json:"specs,omitempty"`
}

// Turn is one message of a conversation snapshot. Session state is owned by
// the caller; the pipeline only ever reads these.
type Turn struct {
	Role    string `json:"role"` // user or assistant
	Content string `json:"content"`
}

// UserTurns filters a conversation down to user-authored messages, oldest first.
func UserTurns(turns []Turn) []Turn {
	out := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if t.Role == "user" {
			out = append(out, t)
		}
	}
	return out
}
