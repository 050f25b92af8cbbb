package httpx

import (
	"context"

	domainauth "github.com/placementhub/portal-api/internal/domain/auth"
	"github.com/placementhub/portal-api/internal/session"
)

// sessionKey is an unexported context key type to avoid collisions across
// packages. All handlers and middleware use the same key.
type sessionKey struct{}

// storeKey carries the per-client session store for handlers that mutate
// the session (login, logout).
type storeKey struct{}

// clientIDKey carries the opaque client identifier from the portal cookie.
type clientIDKey struct{}

// SetSessionInContext returns a child context carrying the session snapshot.
func SetSessionInContext(ctx context.Context, sess domainauth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// GetSessionFromContext returns the session snapshot for the request. The
// zero Session (loading, unauthenticated) is returned when middleware did
// not run.
func GetSessionFromContext(ctx context.Context) domainauth.Session {
	if s, ok := ctx.Value(sessionKey{}).(domainauth.Session); ok {
		return s
	}
	return domainauth.Session{IsLoading: true}
}

// SetStoreInContext returns a child context carrying the client's session
// store.
func SetStoreInContext(ctx context.Context, store *session.Store) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// GetStoreFromContext returns the client's session store, or nil when the
// session middleware did not run.
func GetStoreFromContext(ctx context.Context) *session.Store {
	if s, ok := ctx.Value(storeKey{}).(*session.Store); ok {
		return s
	}
	return nil
}

// SetClientIDInContext returns a child context carrying the client ID.
func SetClientIDInContext(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey{}, clientID)
}

// GetClientIDFromContext returns the opaque client ID for the request.
func GetClientIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(clientIDKey{}).(string); ok {
		return id
	}
	return ""
}
