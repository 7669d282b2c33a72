package catalog

import (
	"sort"
	"strings"
)

// MainCategories is the canonical vocabulary for primary products. Values
// match the category strings in the catalog feed exactly.
var MainCategories = []string{
	"Robot lawnmowers",
	"Lawnmowers",
	"Garden tractors",
	"Brushcutters and trimmers",
	"Hedge trimmers",
	"Chainsaws",
	"Leaf blowers and vacuums",
	"Tillers",
	"Snow throwers",
	"Pressure washers",
	"Shredders",
	"Lawn scarifiers",
}

// AccessoryCategories is the canonical vocabulary for accessory products.
var AccessoryCategories = []string{
	"Accessories for robot lawnmowers",
	"Accessories for lawnmowers",
	"Accessories for garden tractors",
	"Accessories for chainsaws",
	"Batteries and chargers",
}

// byLengthDesc holds all canonical names, longest first, so that a contained
// compound name ("Accessories for robot lawnmowers") wins over its suffix
// ("Robot lawnmowers").
var byLengthDesc = func() []string {
	all := make([]string, 0, len(MainCategories)+len(AccessoryCategories))
	all = append(all, MainCategories...)
	all = append(all, AccessoryCategories...)
	sort.SliceStable(all, func(i, j int) bool {
		return len(all[i]) > len(all[j])
	})
	return all
}()

// MatchCategory returns the canonical category whose name is contained in the
// text, case-insensitively. Longest names are tried first. Empty string means
// no canonical category is named.
func MatchCategory(text string) string {
	lower := strings.ToLower(text)
	for _, name := range byLengthDesc {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	return ""
}

// IsAccessoryCategory reports whether a canonical category name denotes
// accessories.
func IsAccessoryCategory(name string) bool {
	lower := strings.ToLower(name)
	for _, c := range AccessoryCategories {
		if lower == strings.ToLower(c) {
			return true
		}
	}
	return strings.Contains(lower, "accessor")
}
