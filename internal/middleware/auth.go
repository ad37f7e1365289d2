package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/logging"
)

// TokenResolver verifies an access token and returns the principal id it
// was issued to. Implemented by the session manager; resolution is
// stateless so this middleware performs no store I/O.
type TokenResolver interface {
	Resolve(accessToken string) (string, error)
}

type principalKey struct{}

// PrincipalFromContext returns the acting principal id, or empty for an
// anonymous request.
func PrincipalFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(principalKey{}).(string); ok {
		return id
	}
	return ""
}

// WithPrincipal stores the acting principal id on the context. Exported
// for handler tests.
func WithPrincipal(ctx context.Context, principalID string) context.Context {
	return context.WithValue(ctx, principalKey{}, principalID)
}

// RequireAuth rejects requests that do not carry a valid access token.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principalID, err := resolvePrincipal(resolver, r)
			if err != nil {
				logging.FromContext(r.Context()).Warn("request rejected: invalid access token")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired access token"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principalID)))
		})
	}
}

// OptionalAuth attaches the acting principal when a valid access token is
// present and lets the request through anonymously otherwise. Reads use
// this so engagement flags can be viewer-relative without requiring login.
func OptionalAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if principalID, err := resolvePrincipal(resolver, r); err == nil {
				r = r.WithContext(WithPrincipal(r.Context(), principalID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func resolvePrincipal(resolver TokenResolver, r *http.Request) (string, error) {
	return resolver.Resolve(accessTokenFromRequest(r))
}

func accessTokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := r.Cookie(auth.AccessCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
