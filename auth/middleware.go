// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
)

type contextKey int

const userKey contextKey = iota

// UserGetter resolves a verified token's user ID to a full identity.
type UserGetter interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// RequireAuth wraps a handler so it only runs with a verified identity in the
// request context. A missing, malformed, expired or unresolvable bearer token
// short-circuits with 401 before the handler sees the request.
func RequireAuth(tokens *TokenService, users UserGetter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing or malformed Authorization header")
			return
		}

		userID, err := tokens.VerifyToken(tokenString)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		user, err := users.GetUserByID(r.Context(), userID)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		next(w, r.WithContext(ContextWithUser(r.Context(), user)))
	}
}

// ContextWithUser returns ctx carrying the authenticated user. Exposed so
// tests can exercise protected handlers without minting a token.
func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userKey).(models.User)
	return user, ok
}
