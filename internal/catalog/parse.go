package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	priceNumRe = regexp.MustCompile(`\d[\d.,]*`)
	areaNumRe  = regexp.MustCompile(`\d[\d.,]*`)
)

// ParsePrice extracts a numeric price from a display string. The feed mixes
// "1,299.00 €", "€1.299,00" and plain integers; non-numeric placeholders like
// "Contact us" report ok=false.
func ParsePrice(s string) (float64, bool) {
	raw := priceNumRe.FindString(s)
	if raw == "" {
		return 0, false
	}

	lastDot := strings.LastIndex(raw, ".")
	lastComma := strings.LastIndex(raw, ",")

	var normalized string
	switch {
	case lastDot == -1 && lastComma == -1:
		normalized = raw
	case lastDot > lastComma:
		// dot decimal, commas are thousands separators
		normalized = strings.ReplaceAll(raw, ",", "")
	case lastDot == -1 && len(raw)-lastComma-1 == 3:
		// a bare comma before exactly three digits is a thousands
		// separator ("1,500"), not a decimal
		normalized = strings.ReplaceAll(raw, ",", "")
	default:
		// comma decimal, dots are thousands separators
		normalized = strings.ReplaceAll(raw, ".", "")
		normalized = strings.Replace(normalized, ",", ".", 1)
	}

	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseArea extracts an integer square-metre value from a spec string such as
// "5,000 m²" or "up to 800 m²".
func ParseArea(s string) (int, bool) {
	raw := areaNumRe.FindString(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, ".", "")
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cuttingAreaKey is the spec label carrying a product's rated working area.
const cuttingAreaKey = "cutting area"

// CuttingAreaSqm returns the rated cutting area of a product, scanning spec
// keys case-insensitively ("Cutting area up to", "Cutting area"). Keys are
// scanned in sorted order so a product carrying both variants always resolves
// to the same one.
func CuttingAreaSqm(p Product) (int, bool) {
	keys := make([]string, 0, len(p.Specs))
	for key := range p.Specs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), cuttingAreaKey) {
			return ParseArea(p.Specs[key])
		}
	}
	return 0, false
}
