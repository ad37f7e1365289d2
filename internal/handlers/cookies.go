package handlers

import (
	"net/http"
	"time"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/models"
)

// setSessionCookies mirrors the token pair into secure, http-only cookies
// so browser clients never touch raw tokens in script. The response body
// carries the same pair for non-browser clients.
func setSessionCookies(w http.ResponseWriter, r *http.Request, tokens models.SessionTokens) {
	setTokenCookie(w, r, auth.AccessCookieName, tokens.AccessToken, tokens.AccessExpiresAt)
	setTokenCookie(w, r, auth.RefreshCookieName, tokens.RefreshToken, tokens.RefreshExpiresAt)
}

func clearSessionCookies(w http.ResponseWriter, r *http.Request) {
	expireTokenCookie(w, r, auth.AccessCookieName)
	expireTokenCookie(w, r, auth.RefreshCookieName)
}

func setTokenCookie(w http.ResponseWriter, r *http.Request, name, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
	})
}

func expireTokenCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteStrictMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
