package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/multiyo/banner-admin-api/internal/infrastructure/jwt"
)

type contextKey string

const claimsKey contextKey = "claims"

// ExtractBearer pulls the token out of an Authorization header. The header
// must be exactly the two-token "Bearer <token>" shape; the scheme is
// case-insensitive.
func ExtractBearer(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// Auth returns middleware that validates the Bearer JWT and injects the
// authenticated claims into the request context. Malformed headers are
// rejected before the token provider is ever invoked.
func Auth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := ExtractBearer(r.Header.Get("Authorization"))
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			claims, err := provider.Verify(token)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, err.Error())
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext extracts JWT claims from the request context.
func ClaimsFromContext(ctx context.Context) (*jwtinfra.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.Claims)
	return c, ok
}

// EmailFromContext returns the authenticated admin email, if any.
func EmailFromContext(ctx context.Context) (string, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return "", false
	}
	return c.Email, true
}
