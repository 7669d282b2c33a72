package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	t.Run("lookup by id", func(t *testing.T) {
		c, err := New([]Product{
			{ID: "a-1", Name: "Mower A", Category: "Lawnmowers"},
			{ID: "b-2", Name: "Mower B", Category: "Lawnmowers"},
		})
		require.NoError(t, err)

		p, ok := c.Get("b-2")
		assert.True(t, ok)
		assert.Equal(t, "Mower B", p.Name)

		_, ok = c.Get("missing")
		assert.False(t, ok)
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		_, err := New([]Product{{ID: "a-1"}, {ID: "a-1"}})
		assert.Error(t, err)
	})

	t.Run("empty id fails", func(t *testing.T) {
		_, err := New([]Product{{Name: "no id"}})
		assert.Error(t, err)
	})

	t.Run("empty catalog fails", func(t *testing.T) {
		_, err := New(nil)
		assert.Error(t, err)
	})
}

func TestCategories(t *testing.T) {
	c, err := New([]Product{
		{ID: "1", Category: "Lawnmowers"},
		{ID: "2", Category: "Chainsaws"},
		{ID: "3", Category: "Lawnmowers"},
		{ID: "4", Category: ""},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Chainsaws", "Lawnmowers"}, c.Categories())
}

func TestUserTurns(t *testing.T) {
	turns := []Turn{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi"},
		{Role: "user", Content: "bye"},
	}
	users := UserTurns(turns)
	require.Len(t, users, 2)
	assert.Equal(t, "hello", users[0].Content)
	assert.Equal(t, "bye", users[1].Content)
}
