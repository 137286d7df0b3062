package middleware

import (
	"context"
	"net/http"

	"github.com/wrenchworks/repair-shop-service/internal/session"
)

// contextKey is a type for context keys
type contextKey string

const identityKey contextKey = "identity"

// Session resolves the session cookie and, when present, attaches the
// authenticated identity to the request context. Anonymous requests pass
// through untouched; the authz guard decides what they may reach.
func Session(manager *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := manager.Identity(r)
			if err == nil {
				ctx := context.WithValue(r.Context(), identityKey, identity)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetIdentity extracts the authenticated identity from the context.
func GetIdentity(ctx context.Context) (*session.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*session.Identity)
	return identity, ok
}
