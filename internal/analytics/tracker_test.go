package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *Tracker {
	t.Helper()
	db, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewTracker(db, nil)
}

func TestTrackAndReadBack(t *testing.T) {
	tr := openTestDB(t)
	ctx := context.Background()

	tr.TrackQuery(ctx, "s1", "show me mowers", "normal", 5)
	tr.TrackClick(ctx, "s1", "p42")
	tr.TrackQuery(ctx, "other", "hedge trimmers", "normal", 3)

	events, err := tr.SessionEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, EventQuery, events[0].Type)
	assert.Equal(t, "show me mowers", events[0].Message)
	assert.Equal(t, "normal", events[0].Mode)
	assert.Equal(t, 5, events[0].ResultCount)

	assert.Equal(t, EventClick, events[1].Type)
	assert.Equal(t, "p42", events[1].ProductID)
	assert.False(t, events[1].CreatedAt.IsZero())
}

func TestTrackError(t *testing.T) {
	tr := openTestDB(t)
	ctx := context.Background()

	tr.TrackError(ctx, "s1", "embed query: timeout")

	events, err := tr.SessionEvents(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventError, events[0].Type)
}

func TestSessionEventsEmpty(t *testing.T) {
	tr := openTestDB(t)

	events, err := tr.SessionEvents(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestInsertFailureDoesNotPanic(t *testing.T) {
	db, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	tr := NewTracker(db, nil)
	// closed handle: the insert fails and is logged, nothing else happens
	tr.TrackQuery(context.Background(), "s1", "hello", "normal", 0)
}
