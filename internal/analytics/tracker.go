// Package analytics records query and click events for offline analysis.
// Tracking is best-effort: a failed insert is logged and never fails the
// request that produced it.
package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdora-ai/recommend-engine/internal/observability"
)

// ErrNotFound indicates no matching record.
var ErrNotFound = errors.New("record not found")

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Event types.
const (
	EventQuery = "query"
	EventClick = "click"
	EventError = "error"
)

// Event is one tracked occurrence.
type Event struct {
	ID          uuid.UUID
	SessionID   string
	Type        string
	Message     string
	Mode        string
	ProductID   string
	ResultCount int
	CreatedAt   time.Time
}

// Tracker writes events.
type Tracker struct {
	db  DB
	log *observability.Logger
}

// NewTracker creates a Tracker over an initialized database.
func NewTracker(db DB, log *observability.Logger) *Tracker {
	if log == nil {
		log = observability.NopLogger()
	}
	return &Tracker{db: db, log: log.WithComponent("analytics")}
}

// Open opens the analytics database for the given driver ("sqlite3" or
// "postgres") and ensures the schema exists.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			message TEXT,
			mode TEXT,
			product_id TEXT,
			result_count INTEGER,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init analytics schema: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_events_session ON events (session_id, created_at)`); err != nil {
		return fmt.Errorf("init analytics index: %w", err)
	}
	return nil
}

// TrackQuery records an answered turn.
func (t *Tracker) TrackQuery(ctx context.Context, sessionID, message, mode string, resultCount int) {
	t.insert(ctx, Event{
		SessionID:   sessionID,
		Type:        EventQuery,
		Message:     message,
		Mode:        mode,
		ResultCount: resultCount,
	})
}

// TrackClick records a product click.
func (t *Tracker) TrackClick(ctx context.Context, sessionID, productID string) {
	t.insert(ctx, Event{
		SessionID: sessionID,
		Type:      EventClick,
		ProductID: productID,
	})
}

// TrackError records a failed turn.
func (t *Tracker) TrackError(ctx context.Context, sessionID, message string) {
	t.insert(ctx, Event{
		SessionID: sessionID,
		Type:      EventError,
		Message:   message,
	})
}

func (t *Tracker) insert(ctx context.Context, e Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.CreatedAt = time.Now()

	query := `
		INSERT INTO events (id, session_id, event_type, message, mode, product_id, result_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := t.db.ExecContext(ctx, query,
		e.ID.String(), e.SessionID, e.Type, e.Message, e.Mode, e.ProductID, e.ResultCount, e.CreatedAt,
	)
	if err != nil {
		t.log.Warn().Err(err).Str("event_type", e.Type).Msg("event insert failed")
	}
}

// SessionEvents returns the events of one session, oldest first.
func (t *Tracker) SessionEvents(ctx context.Context, sessionID string) ([]Event, error) {
	query := `
		SELECT id, session_id, event_type, message, mode, product_id, result_count, created_at
		FROM events WHERE session_id = $1 ORDER BY created_at
	`
	rows, err := t.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var id string
		if err := rows.Scan(&id, &e.SessionID, &e.Type, &e.Message, &e.Mode,
			&e.ProductID, &e.ResultCount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.ID, _ = uuid.Parse(id)
		events = append(events, e)
	}
	return events, rows.Err()
}
