// Package identity carries the authenticated caller through request contexts.
package identity

import "context"

// Identity is the caller on whose behalf an operation runs.
type Identity struct {
	UserID int64
	System bool
}

// User returns the identity of an authenticated end user.
func User(id int64) Identity {
	return Identity{UserID: id}
}

// SystemIdentity returns the internal identity used by payment reconciliation.
func SystemIdentity() Identity {
	return Identity{System: true}
}

// Authenticated reports whether the identity names a user or the system.
func (i Identity) Authenticated() bool {
	return i.System || i.UserID > 0
}

type contextKey struct{}

// WithContext stores id on ctx.
func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored on ctx, if any.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || !id.Authenticated() {
		return Identity{}, false
	}
	return id, true
}
