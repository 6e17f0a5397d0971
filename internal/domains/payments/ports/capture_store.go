package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCaptureConflict indicates an intent was already captured for a different payer token.
var ErrCaptureConflict = errors.New("payment capture conflict")

// CaptureRecord remembers an executed intent so duplicate callbacks can be replayed.
type CaptureRecord struct {
	IntentID      string
	RequestHash   string
	OrderID       int64
	State         string
	TransactionID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CaptureStore persists executed intents keyed by intent id.
type CaptureStore interface {
	// Get returns the stored record for the intent, or nil when unknown.
	Get(ctx context.Context, intentID string) (*CaptureRecord, error)
	// Save persists the record; if the intent already exists with the same hash and order, the stored record is returned.
	// When the intent exists with a different hash or order, ErrCaptureConflict is returned with the stored record.
	Save(ctx context.Context, record CaptureRecord) (*CaptureRecord, error)
}
