package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cliptide/backend/internal/models"
)

// Issuer mints and verifies the signed session tokens. Access and refresh
// tokens are signed with distinct secrets so one can never stand in for
// the other. The issuer is stateless: verification needs no store lookup.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer constructs a token issuer. The secrets must be non-empty and
// distinct.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Issuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("auth: token secrets must not be empty")
	}
	if accessSecret == refreshSecret {
		return nil, errors.New("auth: access and refresh secrets must differ")
	}
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// MintPair issues a fresh access/refresh token pair for the principal.
func (i *Issuer) MintPair(principalID string, now time.Time) (models.SessionTokens, error) {
	if principalID == "" {
		return models.SessionTokens{}, errors.New("auth: principal id must be provided")
	}

	now = now.UTC()
	accessExpiry := now.Add(i.accessTTL)
	refreshExpiry := now.Add(i.refreshTTL)

	access, err := signToken(i.accessSecret, principalID, now, accessExpiry)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := signToken(i.refreshSecret, principalID, now, refreshExpiry)
	if err != nil {
		return models.SessionTokens{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return models.SessionTokens{
		AccessToken:      access,
		AccessExpiresAt:  accessExpiry,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// ParseAccess verifies an access token and returns the principal id it was
// issued to. Any verification failure maps to ErrUnauthorized.
func (i *Issuer) ParseAccess(token string) (string, error) {
	return parseToken(i.accessSecret, token)
}

// ParseRefresh verifies a refresh token signature and expiry and returns
// the embedded principal id. Whether the token is the currently live one
// for that principal is the session manager's concern, not the issuer's.
func (i *Issuer) ParseRefresh(token string) (string, error) {
	return parseToken(i.refreshSecret, token)
}

func signToken(secret []byte, subject string, now, expiry time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
		ID:        uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseToken(secret []byte, token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrUnauthorized
	}

	return claims.Subject, nil
}

// Fingerprint returns a deterministic SHA-256 digest of a token, encoded
// URL-safe. Session records store fingerprints rather than raw tokens so a
// leaked store never yields a usable credential.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
