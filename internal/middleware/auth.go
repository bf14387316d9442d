// Package middleware provides HTTP middlewares for identity gating and request logging.
package middleware

import (
	"context"
	"net/http"
)

type ctxKey string

const userKey ctxKey = "user"

// Identity reports the signed-in user.
type Identity interface {
	CurrentUser() (string, bool)
}

// RequireIdentity rejects requests with 401 while nobody is signed in.
//
// On success it stores the username in the request context, so handlers can
// read it with GetUserIDFromContext.
func RequireIdentity(identity Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := identity.CurrentUser()
			if !ok {
				http.Error(w, "login required", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext extracts the username stored by RequireIdentity.
// Returns an empty string if not found.
func GetUserIDFromContext(ctx context.Context) string {
	val := ctx.Value(userKey)
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}
