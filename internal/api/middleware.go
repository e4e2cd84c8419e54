package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openfairway/roundlog/internal/auth"
)

// contextKey is a custom type used for keys in context.Context. Using a
// custom type prevents collisions with context keys from other packages.
type contextKey string

// playerContextKey is the key under which the authenticated player's ID is
// stored in the request context after successful authentication.
const playerContextKey = contextKey("playerID")

// authMiddleware protects routes that require a signed-in player. It accepts
// a JWT from either the 'Authorization: Bearer' header or a 'token' URL
// query parameter; the latter is needed for Server-Sent Events connections,
// where setting custom headers is not straightforward. On success the player
// ID is injected into the request context; otherwise the request ends with
// 401 Unauthorized.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""

		// Prefer the standard Authorization header.
		authHeader := r.Header.Get("Authorization")
		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) == 2 && strings.ToLower(headerParts[0]) == "bearer" {
			tokenString = headerParts[1]
		}

		// Fall back to the query parameter (SSE connections).
		if tokenString == "" {
			tokenString = r.URL.Query().Get("token")
		}

		if tokenString == "" {
			s.errorJSON(w, errors.New("authorization token is required"), http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateToken(tokenString, s.config.JwtSecret)
		if err != nil {
			s.errorJSON(w, errors.New("invalid or expired token"), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), playerContextKey, claims.PlayerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getPlayerIDFromContext retrieves the authenticated player's ID from the
// request context. Only valid behind authMiddleware; a missing value is a
// server-side wiring error, not a client fault.
func (s *Server) getPlayerIDFromContext(r *http.Request) (int64, error) {
	playerID, ok := r.Context().Value(playerContextKey).(int64)
	if !ok {
		return 0, errors.New("could not retrieve player ID from context")
	}
	return playerID, nil
}
