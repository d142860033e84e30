package middleware

import (
	"context"
	"net/http"

	"egunkari/internal/httputil"
	"egunkari/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// ClaimsKey is the context key for the verified session claims
	ClaimsKey contextKey = "session_claims"
)

// SessionVerifier decodes a session token into claims.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*model.Claims, error)
}

// AuthMiddleware requires a valid session cookie. The token is read from the
// cookie only; an Authorization header is ignored.
func AuthMiddleware(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(model.SessionCookieName)
			if err != nil || cookie.Value == "" {
				httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Authentication required")
				return
			}

			// Same response for every failure cause.
			claims, err := verifier.Verify(r.Context(), cookie.Value)
			if err != nil {
				httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Authentication required")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaimsFromContext extracts the session claims from the request context
func GetClaimsFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*model.Claims)
	return claims, ok && claims != nil
}
