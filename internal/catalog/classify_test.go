package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchCategory(t *testing.T) {
	t.Run("longest canonical name wins", func(t *testing.T) {
		// "Accessories for robot lawnmowers" contains "Robot lawnmowers";
		// the longer label must win.
		got := MatchCategory("show me accessories for robot lawnmowers")
		assert.Equal(t, "Accessories for robot lawnmowers", got)
	})

	t.Run("case insensitive containment", func(t *testing.T) {
		assert.Equal(t, "Hedge trimmers", MatchCategory("I need HEDGE TRIMMERS today"))
	})

	t.Run("no canonical name", func(t *testing.T) {
		assert.Equal(t, "", MatchCategory("something for my garden"))
	})
}

func TestIsAccessoryQuery(t *testing.T) {
	assert.True(t, IsAccessoryQuery("I need spare blades"))
	assert.True(t, IsAccessoryQuery("looking for accessories"))
	assert.True(t, IsAccessoryQuery("a cover for my mower"))

	assert.False(t, IsAccessoryQuery("I need a lawnmower for 500 m²"))
	// word bounds: "soil" must not trigger the "oil" keyword
	assert.False(t, IsAccessoryQuery("a tiller for hard soil"))
}

func TestIsAccessoryProduct(t *testing.T) {
	t.Run("accessory category label wins", func(t *testing.T) {
		p := Product{Name: "Blade set", Category: "Accessories for robot lawnmowers"}
		assert.True(t, IsAccessoryProduct(p))
	})

	t.Run("main category clears accessory words in the name", func(t *testing.T) {
		// category label outranks the name keyword scan
		p := Product{Name: "Hedge trimmer blade set HT 200", Category: "Hedge trimmers"}
		assert.False(t, IsAccessoryProduct(p))
	})

	t.Run("name keywords decide uncategorized products", func(t *testing.T) {
		p := Product{Name: "Replacement blade 18cm", Category: "Misc"}
		assert.True(t, IsAccessoryProduct(p))

		p = Product{Name: "Perimeter wire 150m", Category: ""}
		assert.True(t, IsAccessoryProduct(p))
	})

	t.Run("plain product", func(t *testing.T) {
		p := Product{Name: "Robot mower A 1500", Category: "Robot lawnmowers"}
		assert.False(t, IsAccessoryProduct(p))
	})
}
