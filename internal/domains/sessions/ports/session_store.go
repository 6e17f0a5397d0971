package ports

import (
	"context"
	"errors"
	"time"
)

// DefaultSessionTTL provides the fallback TTL when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// ErrSessionNotFound is returned when a token is unknown or expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps bearer tokens issued by the auth provider to user ids.
type SessionStore interface {
	Save(ctx context.Context, userID int64, token string) error
	Resolve(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
	// PurgeExpired removes expired sessions and reports how many were removed.
	PurgeExpired(ctx context.Context) (int64, error)
}
