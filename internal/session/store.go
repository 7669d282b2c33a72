// Package session stores conversation state for the binaries. The pipeline
// itself is stateless; it receives snapshots from here and the handlers write
// the updated state back.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/verdora-ai/recommend-engine/internal/catalog"
)

// ErrNotFound indicates no session exists under the given id.
var ErrNotFound = errors.New("session not found")

// Snapshot is the state one turn of the pipeline needs: the conversation so
// far and the product ids shown in the last assistant turn.
type Snapshot struct {
	History   []catalog.Turn `json:"history"`
	ShownIDs  []string       `json:"shown_ids,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Append returns a copy of the snapshot with a turn added and, for assistant
// turns, the shown list replaced.
func (s Snapshot) Append(turn catalog.Turn, shownIDs []string) Snapshot {
	history := make([]catalog.Turn, 0, len(s.History)+1)
	history = append(history, s.History...)
	history = append(history, turn)

	next := Snapshot{History: history, ShownIDs: s.ShownIDs, UpdatedAt: time.Now()}
	if turn.Role == "assistant" {
		next.ShownIDs = shownIDs
	}
	return next
}

// Store persists session snapshots.
type Store interface {
	Get(ctx context.Context, id string) (Snapshot, error)
	Put(ctx context.Context, id string, snap Snapshot) error
	Delete(ctx context.Context, id string) error
	Close() error
}
