// Package present shapes ranked products into the cards API clients render.
package present

import (
	"regexp"
	"strings"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
	"github.com/verdora-ai/recommend-engine/internal/retrieval"
)

// Card is the client-facing product representation.
type Card struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Category      string            `json:"category"`
	Description   string            `json:"description,omitempty"`
	Price         string            `json:"price"`
	OriginalPrice string            `json:"originalPrice,omitempty"`
	URL           string            `json:"url,omitempty"`
	Image         string            `json:"image,omitempty"`
	Specs         map[string]string `json:"specs,omitempty"`
	Score         float64           `json:"score"`
	Reasons       []string          `json:"reasons,omitempty"`
}

// displaySpecKeys are the spec labels worth showing on a card, matched as
// case-insensitive prefixes against the feed's keys.
var displaySpecKeys = []string{
	"cutting area",
	"cutting width",
	"cutting height",
	"power",
	"battery capacity",
	"battery voltage",
	"max slope",
	"working width",
	"noise level",
	"weight",
}

const descriptionLimit = 220

var whitespaceRe = regexp.MustCompile(`\s+`)

// FromRanked builds cards for a ranked result list.
func FromRanked(ranked []retrieval.RankedResult) []Card {
	cards := make([]Card, 0, len(ranked))
	for _, r := range ranked {
		cards = append(cards, fromResult(r))
	}
	return cards
}

func fromResult(r retrieval.RankedResult) Card {
	p := r.Product
	return Card{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Description:   CleanDescription(p.Description),
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		URL:           p.URL,
		Image:         firstImage(p),
		Specs:         displaySpecs(p),
		Score:         r.Score,
		Reasons:       r.Reasons,
	}
}

// CleanDescription collapses whitespace and truncates at a word boundary.
// The feed embeds layout newlines and trailing marketing boilerplate that
// only wastes card space.
func CleanDescription(desc string) string {
	clean := whitespaceRe.ReplaceAllString(strings.TrimSpace(desc), " ")
	if len(clean) <= descriptionLimit {
		return clean
	}
	cut := strings.LastIndex(clean[:descriptionLimit], " ")
	if cut <= 0 {
		cut = descriptionLimit
	}
	return clean[:cut] + "…"
}

func firstImage(p catalog.Product) string {
	if len(p.Images) > 0 {
		return p.Images[0]
	}
	return ""
}

func displaySpecs(p catalog.Product) map[string]string {
	if len(p.Specs) == 0 {
		return nil
	}
	out := make(map[string]string)
	for key, val := range p.Specs {
		lower := strings.ToLower(key)
		for _, want := range displaySpecKeys {
			if strings.HasPrefix(lower, want) {
				out[key] = val
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
