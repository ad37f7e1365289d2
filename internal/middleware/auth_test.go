package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cliptide/backend/internal/auth"
)

type staticResolver struct {
	valid map[string]string
}

func (r staticResolver) Resolve(token string) (string, error) {
	if id, ok := r.valid[token]; ok {
		return id, nil
	}
	return "", errors.New("unauthorized")
}

func TestRequireAuthBearerHeader(t *testing.T) {
	resolver := staticResolver{valid: map[string]string{"token-1": "principal-1"}}

	var seen string
	handler := RequireAuth(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if seen != "principal-1" {
		t.Fatalf("expected principal-1 got %q", seen)
	}
}

func TestRequireAuthCookieFallback(t *testing.T) {
	resolver := staticResolver{valid: map[string]string{"token-1": "principal-1"}}

	handler := RequireAuth(resolver)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessCookieName, Value: "token-1"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	resolver := staticResolver{valid: map[string]string{}}

	called := false
	handler := RequireAuth(resolver)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if called {
		t.Fatal("handler must not run without a valid token")
	}
}

func TestOptionalAuthAnonymous(t *testing.T) {
	resolver := staticResolver{valid: map[string]string{"token-1": "principal-1"}}

	var seen string
	handler := OptionalAuth(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if seen != "" {
		t.Fatalf("expected anonymous principal got %q", seen)
	}
}
