package dialog

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Reply is the parsed generator output.
type Reply struct {
	Text       string          `json:"text"`
	ProductIDs []string        `json:"product_ids,omitempty"`
	Comparison json.RawMessage `json:"comparison,omitempty"`
}

var (
	replyRe      = regexp.MustCompile(`(?s)<reply>(.*?)</reply>`)
	productsRe   = regexp.MustCompile(`(?s)<products>(.*?)</products>`)
	comparisonRe = regexp.MustCompile(`(?s)<comparison>(.*?)</comparison>`)
)

// ParseReply extracts the structured parts from a raw generator response.
// A response without tags is treated as plain text; a malformed comparison
// table is dropped rather than failing the turn.
func ParseReply(raw string) Reply {
	var r Reply

	if m := replyRe.FindStringSubmatch(raw); m != nil {
		r.Text = strings.TrimSpace(m[1])
	} else {
		r.Text = strings.TrimSpace(raw)
	}

	if m := productsRe.FindStringSubmatch(raw); m != nil {
		for _, id := range strings.Split(m[1], ",") {
			id = strings.TrimSpace(id)
			if id != "" {
				r.ProductIDs = append(r.ProductIDs, id)
			}
		}
	}

	if m := comparisonRe.FindStringSubmatch(raw); m != nil {
		candidate := strings.TrimSpace(m[1])
		if json.Valid([]byte(candidate)) {
			r.Comparison = json.RawMessage(candidate)
		}
	}

	return r
}

// FilterKnownIDs keeps only ids present in the candidate set, preserving
// order. The generator occasionally invents ids; those never reach clients.
func FilterKnownIDs(ids []string, known map[string]bool) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out
}
