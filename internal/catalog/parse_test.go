package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	t.Run("plain integer", func(t *testing.T) {
		v, ok := ParsePrice("499")
		assert.True(t, ok)
		assert.InDelta(t, 499.0, v, 0.001)
	})

	t.Run("dot decimal with comma thousands", func(t *testing.T) {
		v, ok := ParsePrice("1,299.00 €")
		assert.True(t, ok)
		assert.InDelta(t, 1299.0, v, 0.001)
	})

	t.Run("comma decimal with dot thousands", func(t *testing.T) {
		v, ok := ParsePrice("€1.299,50")
		assert.True(t, ok)
		assert.InDelta(t, 1299.5, v, 0.001)
	})

	t.Run("bare thousands comma", func(t *testing.T) {
		// "1,500" is a thousands separator in the feed's locale, not 1.5
		v, ok := ParsePrice("1,500")
		assert.True(t, ok)
		assert.InDelta(t, 1500.0, v, 0.001)

		v, ok = ParsePrice("1,500,000")
		assert.True(t, ok)
		assert.InDelta(t, 1500000.0, v, 0.001)
	})

	t.Run("bare comma decimal keeps two digits", func(t *testing.T) {
		v, ok := ParsePrice("49,90 €")
		assert.True(t, ok)
		assert.InDelta(t, 49.9, v, 0.001)
	})

	t.Run("contact us placeholder", func(t *testing.T) {
		_, ok := ParsePrice("Contact us")
		assert.False(t, ok)
	})

	t.Run("empty", func(t *testing.T) {
		_, ok := ParsePrice("")
		assert.False(t, ok)
	})
}

func TestParseArea(t *testing.T) {
	v, ok := ParseArea("5,000 m²")
	assert.True(t, ok)
	assert.Equal(t, 5000, v)

	v, ok = ParseArea("up to 800 m²")
	assert.True(t, ok)
	assert.Equal(t, 800, v)

	_, ok = ParseArea("n/a")
	assert.False(t, ok)
}

func TestCuttingAreaSqm(t *testing.T) {
	p := Product{
		Specs: map[string]string{
			"Cutting area up to": "1,000 m²",
			"Cutting width":      "24 cm",
		},
	}
	v, ok := CuttingAreaSqm(p)
	assert.True(t, ok)
	assert.Equal(t, 1000, v)

	_, ok = CuttingAreaSqm(Product{Specs: map[string]string{"Power": "500 W"}})
	assert.False(t, ok)

	// two matching keys resolve the same way on every run: sorted order
	// picks "Cutting area" ahead of "Cutting area up to"
	both := Product{
		Specs: map[string]string{
			"Cutting area up to": "1,000 m²",
			"Cutting area":       "800 m²",
		},
	}
	for i := 0; i < 10; i++ {
		v, ok := CuttingAreaSqm(both)
		assert.True(t, ok)
		assert.Equal(t, 800, v)
	}

	_, ok = CuttingAreaSqm(Product{})
	assert.False(t, ok)
}
