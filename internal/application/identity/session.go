package identity

import (
	"context"

	"github.com/google/uuid"
)

// Session describes the authenticated principal behind a request.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// SessionProvider resolves the current session at call time. It is an
// explicit dependency of every service that stamps ownership, so tests can
// substitute a fixed principal without a real authentication backend.
//
// A nil session (no error) means no principal is authenticated; create
// operations then stamp a null owner instead of failing.
type SessionProvider interface {
	Current(ctx context.Context) *Session
}

// StaticSessionProvider always returns the same session. Used in tests and
// local tooling.
type StaticSessionProvider struct {
	Session *Session
}

// Current returns the configured session.
func (p StaticSessionProvider) Current(context.Context) *Session {
	return p.Session
}

// OwnerID returns the current principal's id or nil when unauthenticated.
func OwnerID(ctx context.Context, provider SessionProvider) *uuid.UUID {
	if provider == nil {
		return nil
	}
	session := provider.Current(ctx)
	if session == nil {
		return nil
	}
	id := session.UserID
	return &id
}
