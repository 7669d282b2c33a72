package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrich(t *testing.T) {
	t.Run("raw message stays verbatim as prefix", func(t *testing.T) {
		out := Enrich("I need a new blade", Requirements{AccessoryType: "blade"})
		assert.Equal(t, "I need a new blade blade", out)
	})

	t.Run("fields append in fixed order", func(t *testing.T) {
		req := Requirements{
			Category:      "Robot lawnmowers",
			Model:         "A 1500",
			AccessoryType: "charging station",
			AreaSqm:       800,
			PowerSource:   "battery",
		}
		out := Enrich("something for my lawn", req)
		assert.Equal(t, "something for my lawn charging station A 1500 800sqm battery", out)
	})

	t.Run("category never appears in the query", func(t *testing.T) {
		out := Enrich("show me mowers", Requirements{Category: "Lawnmowers"})
		assert.Equal(t, "show me mowers", out)
	})

	t.Run("zero requirements leave the message untouched", func(t *testing.T) {
		out := Enrich("hello", Requirements{})
		assert.Equal(t, "hello", out)
	})
}
