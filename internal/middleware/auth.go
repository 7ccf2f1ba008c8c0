package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/coursehub/backend/internal/models"
)

// TokenValidator validates access tokens
type TokenValidator interface {
	// ValidateAccessToken validates an access token
	//
	// "token" is the raw access token.
	//
	// Returns the identity carried by the token and an error if any.
	ValidateAccessToken(token string) (models.Identity, error)
}

// AuthMiddleware validates the JWT access token and stores the caller identity in the context
func AuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			identity, err := validator.ValidateAccessToken(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// RoleMiddleware rejects authenticated callers whose role differs from role.
// It must run after AuthMiddleware.
func RoleMiddleware(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := GetIdentity(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			if identity.Role != role {
				writeError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the token from the Authorization header or the access_token cookie
func extractToken(r *http.Request) string {
	// Expected format: "Bearer <token>"
	if parts := strings.Split(r.Header.Get("Authorization"), " "); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}

	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}

// ContextWithIdentity returns a copy of ctx carrying the caller identity
func ContextWithIdentity(ctx context.Context, identity models.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity retrieves the caller identity from context
func GetIdentity(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(models.Identity)
	return identity, ok
}
