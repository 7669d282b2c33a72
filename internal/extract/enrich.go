package extract

import (
	"fmt"
	"strings"
)

// Enrich builds the retrieval query: the raw message verbatim, with the
// extracted requirement fields appended in a fixed order. The category is
// deliberately absent; appending it makes the embedding over-anchor on
// category tokens and drown out the rest of the request, so category intent
// is enforced by the retriever's filter instead.
func Enrich(raw string, req Requirements) string {
	parts := []string{raw}

	if req.AccessoryType != "" {
		parts = append(parts, req.AccessoryType)
	}
	if req.Model != "" {
		parts = append(parts, req.Model)
	}
	if req.AreaSqm > 0 {
		parts = append(parts, fmt.Sprintf("%dsqm", req.AreaSqm))
	}
	if req.PowerSource != "" {
		parts = append(parts, req.PowerSource)
	}

	return strings.Join(parts, " ")
}
