// Package extract derives structured purchase requirements from conversation
// snapshots and builds the enriched retrieval query.
package extract

import (
	"regexp"
	"strings"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
)

// Requirements is the structured snapshot distilled from a conversation.
// Zero values mean the user has not stated that field.
type Requirements struct {
	Category      string `json:"category,omitempty"`
	Model         string `json:"model,omitempty"`
	AccessoryType string `json:"accessory_type,omitempty"`
	AreaSqm       int    `json:"area_sqm,omitempty"`
	BudgetEUR     int    `json:"budget_eur,omitempty"`
	PowerSource   string `json:"power_source,omitempty"`
}

// categoryPattern pairs a canonical category with the utterance forms that
// name it. Order matters: compound names ("robot lawnmower") must be tried
// before their general substrings ("lawnmower"), so the generic mower entry
// is last.
type categoryPattern struct {
	canonical string
	re        *regexp.Regexp
}

var categoryPatterns = []categoryPattern{
	{"Accessories for robot lawnmowers", regexp.MustCompile(`(?i)\baccessor\w*\s+for\s+(?:a\s+|my\s+|the\s+)?robot|\brobot\s+(?:lawn\s?)?mower\s+accessor`)},
	{"Robot lawnmowers", regexp.MustCompile(`(?i)\brobot(?:ic)?[\s-]+(?:lawn\s?)?mowers?\b|\bautomowers?\b`)},
	{"Garden tractors", regexp.MustCompile(`(?i)\b(?:garden|lawn|riding)\s+tractors?\b|\bride[\s-]?on(?:\s+mowers?)?\b|\briding\s+mowers?\b`)},
	{"Hedge trimmers", regexp.MustCompile(`(?i)\bhedge\s+(?:trimmers?|cutters?|shears?)\b`)},
	{"Snow throwers", regexp.MustCompile(`(?i)\bsnow\s+(?:throwers?|blowers?|plou?ghs?)\b`)},
	{"Pressure washers", regexp.MustCompile(`(?i)\b(?:pressure|power)\s+washers?\b`)},
	{"Brushcutters and trimmers", regexp.MustCompile(`(?i)\bbrush\s?cutters?\b|\bstrimmers?\b|\b(?:grass|line)\s+trimmers?\b`)},
	{"Chainsaws", regexp.MustCompile(`(?i)\bchain\s?saws?\b`)},
	{"Leaf blowers and vacuums", regexp.MustCompile(`(?i)\b(?:leaf\s+)?blowers?\b|\bgarden\s+vac(?:uum)?s?\b`)},
	{"Tillers", regexp.MustCompile(`(?i)\btillers?\b|\bcultivators?\b|\brotavators?\b`)},
	{"Shredders", regexp.MustCompile(`(?i)\bshredders?\b|\bchippers?\b`)},
	{"Lawn scarifiers", regexp.MustCompile(`(?i)\bscarifiers?\b|\baerators?\b|\bdethatchers?\b`)},
	{"Lawnmowers", regexp.MustCompile(`(?i)\blawn\s?mowers?\b|\bpush\s+mowers?\b|\bmowers?\b`)},
}

// modelCodeRe matches letter-code model references ("A 1500", "RT300E").
// The short alpha prefix keeps it from swallowing arbitrary numbers, and
// codeStopwords filters prepositions that happen to precede one.
var modelCodeRe = regexp.MustCompile(`(?i)\b([a-z]{1,3})[\s-]?(\d{2,4})[\s-]?([a-z]{1,2})?\b`)

var codeStopwords = map[string]bool{
	"for": true, "of": true, "to": true, "in": true, "at": true,
	"on": true, "by": true, "or": true, "and": true, "the": true,
	"eur": true, "over": true, "per": true, "up": true, "top": true,
	"is": true, "an": true, "has": true, "was": true,
}

// modelFamilyRe matches named product families.
var modelFamilyRe = regexp.MustCompile(`(?i)\b(swift|estate|tornado|park|combi|multiclip|silex)\b(?:\s+(\d{2,4}))?`)

var accessoryTypes = []string{
	"perimeter wire",
	"boundary wire",
	"charging station",
	"mulching kit",
	"wheel kit",
	"grass bag",
	"collection bag",
	"guide bar",
	"spark plug",
	"air filter",
	"blade",
	"battery",
	"charger",
	"cover",
	"garage",
	"chain",
	"belt",
}

var (
	areaRe   = regexp.MustCompile(`(?i)(\d[\d.,]*)\s*(?:m²|m2|sqm|sq\.?\s?m\b|square\s+met(?:er|re)s?)`)
	budgetRe = regexp.MustCompile(`(?i)(?:€\s*(\d[\d.,]*)|(\d[\d.,]*)\s*(?:€|euros?\b|eur\b))`)
)

// powerPatterns fold power-source synonyms into three canonical values.
var powerPatterns = []struct {
	canonical string
	re        *regexp.Regexp
}{
	{"battery", regexp.MustCompile(`(?i)\bbatter(?:y|ies)\b|\bcordless\b|\brechargeable\b`)},
	{"petrol", regexp.MustCompile(`(?i)\bpetrol\b|\bgas(?:oline)?\b|\bcombustion\b`)},
	{"electric", regexp.MustCompile(`(?i)\belectric\b|\bcorded\b|\bmains[\s-]powered\b`)},
}

// Extractor derives Requirements from conversation snapshots.
type Extractor struct {
	recentWindow  int // messages considered for non-category fields
	contextWindow int // messages considered for category carryover
}

// NewExtractor creates an Extractor. Non-positive windows fall back to the
// defaults (8 recent, 3 for category context).
func NewExtractor(recentWindow, contextWindow int) *Extractor {
	if recentWindow <= 0 {
		recentWindow = 8
	}
	if contextWindow <= 0 {
		contextWindow = 3
	}
	return &Extractor{recentWindow: recentWindow, contextWindow: contextWindow}
}

// Extract scans the user turns of a conversation, newest first, and returns
// the requirement snapshot. The category field is biased harder toward the
// newest message than the rest: it is read from the latest message alone, and
// only when that names no category does a short context window apply. All
// other fields take the first match across the full recent window.
func (e *Extractor) Extract(turns []catalog.Turn) Requirements {
	users := catalog.UserTurns(turns)
	if len(users) > e.recentWindow {
		users = users[len(users)-e.recentWindow:]
	}

	var req Requirements
	if len(users) == 0 {
		return req
	}

	req.Category = e.extractCategory(users)

	for i := len(users) - 1; i >= 0; i-- {
		msg := users[i].Content
		if req.Model == "" {
			req.Model = extractModel(msg)
		}
		if req.AccessoryType == "" {
			req.AccessoryType = extractAccessoryType(msg)
		}
		if req.AreaSqm == 0 {
			req.AreaSqm = extractArea(msg)
		}
		if req.BudgetEUR == 0 {
			req.BudgetEUR = extractBudget(msg)
		}
		if req.PowerSource == "" {
			req.PowerSource = extractPower(msg)
		}
	}
	return req
}

// extractCategory applies the recency rule: newest message first, then the
// last contextWindow messages newest-first. An older mention never overrides
// a newer one.
func (e *Extractor) extractCategory(users []catalog.Turn) string {
	newest := users[len(users)-1].Content
	if cat := matchCategoryPattern(newest); cat != "" {
		return cat
	}

	start := len(users) - e.contextWindow
	if start < 0 {
		start = 0
	}
	for i := len(users) - 1; i >= start; i-- {
		if cat := matchCategoryPattern(users[i].Content); cat != "" {
			return cat
		}
	}
	return ""
}

func matchCategoryPattern(msg string) string {
	for _, cp := range categoryPatterns {
		if cp.re.MatchString(msg) {
			return cp.canonical
		}
	}
	return ""
}

func extractModel(msg string) string {
	if refs := ModelReferences(msg); len(refs) > 0 {
		return refs[0]
	}
	return ""
}

// HasModelReference reports whether a message names a specific model. The
// comparison resolver uses this to tell "compare them" apart from "compare
// the A 1500 and the A 3000".
func HasModelReference(msg string) bool {
	return extractModel(msg) != ""
}

// ModelReferences returns every model named in a message, in order of
// appearance, deduplicated.
func ModelReferences(msg string) []string {
	var refs []string
	seen := make(map[string]bool)
	add := func(ref string) {
		if ref != "" && !seen[ref] {
			seen[ref] = true
			refs = append(refs, ref)
		}
	}

	for _, m := range modelFamilyRe.FindAllStringSubmatch(msg, -1) {
		name := strings.ToLower(m[1])
		name = strings.ToUpper(name[:1]) + name[1:]
		if m[2] != "" {
			name += " " + m[2]
		}
		add(name)
	}

	for _, m := range modelCodeRe.FindAllStringSubmatch(msg, -1) {
		if codeStopwords[strings.ToLower(m[1])] {
			continue
		}
		code := strings.ToUpper(m[1]) + " " + m[2]
		if m[3] != "" {
			code += strings.ToUpper(m[3])
		}
		add(code)
	}
	return refs
}

func extractAccessoryType(msg string) string {
	lower := strings.ToLower(msg)
	for _, t := range accessoryTypes {
		if !matchWord(lower, t) {
			continue
		}
		// "battery-powered mower" states a power source, not a part request
		if t == "battery" && strings.Contains(lower, "powered") {
			continue
		}
		return t
	}
	return ""
}

func matchWord(lower, term string) bool {
	idx := strings.Index(lower, term)
	for idx >= 0 {
		before := idx == 0 || !isWordChar(lower[idx-1])
		afterIdx := idx + len(term)
		// allow a plural s
		if afterIdx < len(lower) && lower[afterIdx] == 's' {
			afterIdx++
		}
		after := afterIdx >= len(lower) || !isWordChar(lower[afterIdx])
		if before && after {
			return true
		}
		next := strings.Index(lower[idx+1:], term)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}

func extractArea(msg string) int {
	m := areaRe.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	v, ok := catalog.ParseArea(m[1])
	if !ok {
		return 0
	}
	return v
}

func extractBudget(msg string) int {
	m := budgetRe.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	v, ok := catalog.ParsePrice(raw)
	if !ok {
		return 0
	}
	return int(v)
}

func extractPower(msg string) string {
	for _, pp := range powerPatterns {
		if pp.re.MatchString(msg) {
			return pp.canonical
		}
	}
	return ""
}
