package auth

import (
	"context"

	"github.com/bizops/backend/internal/application/identity"
)

// sessionContextKey is the context key under which the authenticated session
// is stored. Unexported so only this package can write it.
type sessionContextKey struct{}

// WithSession returns a context carrying the authenticated session.
func WithSession(ctx context.Context, session *identity.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the session stored in the context, or nil when
// the request is unauthenticated.
func SessionFromContext(ctx context.Context) *identity.Session {
	if session, ok := ctx.Value(sessionContextKey{}).(*identity.Session); ok {
		return session
	}
	return nil
}

// ContextSessionProvider resolves the current session from the request
// context, where the auth middleware placed it.
type ContextSessionProvider struct{}

// Current returns the session carried by the context, if any.
func (ContextSessionProvider) Current(ctx context.Context) *identity.Session {
	return SessionFromContext(ctx)
}

// Ensure ContextSessionProvider implements SessionProvider
var _ identity.SessionProvider = ContextSessionProvider{}
