package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/talesai/narration-service/internal/core"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext returns the authenticated user id stored by
// RequireUser, or an empty string outside an authenticated request.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)

	return userID
}

// RequireUser resolves the request's bearer token to a user id through
// the identity provider and rejects requests without a valid session.
func RequireUser(identity core.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")

			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)

				return
			}

			userID, err := identity.UserID(r.Context(), token)
			if err != nil || userID == "" {
				http.Error(w, "invalid session", http.StatusUnauthorized)

				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
