package catalog

import (
	"regexp"
	"strings"
)

// accessoryKeywords mark accessory-seeking language in queries and accessory
// items whose category label is missing or free-form.
var accessoryKeywords = []string{
	"accessor",
	"spare part",
	"replacement",
	"blade",
	"blades",
	"battery",
	"batteries",
	"charger",
	"charging station",
	"cover",
	"garage",
	"wheel kit",
	"perimeter wire",
	"boundary wire",
	"mulching kit",
	"grass bag",
	"collection bag",
	"chain",
	"guide bar",
	"belt",
	"spark plug",
	"air filter",
	"oil",
}

var wordRe = regexp.MustCompile(`[a-z0-9]+`)

// IsAccessoryQuery reports whether a message is asking for accessories rather
// than a primary product. Keywords match on word boundaries so that "soil"
// never triggers "oil".
func IsAccessoryQuery(message string) bool {
	words := wordRe.FindAllString(strings.ToLower(message), -1)
	norm := " " + strings.Join(words, " ") + " "
	for _, kw := range accessoryKeywords {
		if kw == "accessor" {
			if strings.Contains(norm, " accessor") {
				return true
			}
			continue
		}
		if strings.Contains(norm, " "+kw+" ") {
			return true
		}
	}
	return false
}

// IsAccessoryProduct classifies a product as an accessory. Category labels are
// authoritative: an accessory category wins, then a main category clears the
// product even if its name carries accessory words ("Hedge trimmer blade set"
// filed under "Hedge trimmers" is a primary product). Only uncategorized or
// free-form entries fall back to a name keyword scan.
func IsAccessoryProduct(p Product) bool {
	lowerCat := strings.ToLower(p.Category)

	for _, c := range AccessoryCategories {
		if strings.Contains(lowerCat, strings.ToLower(c)) {
			return true
		}
	}
	if strings.Contains(lowerCat, "accessor") || strings.Contains(lowerCat, "spare part") {
		return true
	}

	for _, c := range MainCategories {
		if lowerCat == strings.ToLower(c) {
			return false
		}
	}

	words := wordRe.FindAllString(strings.ToLower(p.Name), -1)
	norm := " " + strings.Join(words, " ") + " "
	for _, kw := range accessoryKeywords {
		if kw == "accessor" {
			// prefix keyword, matches "accessory" and "accessories"
			if strings.Contains(norm, " accessor") {
				return true
			}
			continue
		}
		if strings.Contains(norm, " "+kw+" ") {
			return true
		}
	}
	return false
}
