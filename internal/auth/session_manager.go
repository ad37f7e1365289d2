package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/cliptide/backend/internal/models"
)

// Manager orchestrates the session lifecycle: login, access-token
// resolution, refresh rotation, and logout. Exactly one refresh token is
// live per principal; rotating mints a new pair and overwrites the stored
// record, which kills the previous refresh token immediately even if its
// own expiry has not passed.
type Manager struct {
	issuer     *Issuer
	store      SessionStore
	principals PrincipalDirectory
	now        func() time.Time
}

// NewManager constructs a session manager.
func NewManager(issuer *Issuer, store SessionStore, principals PrincipalDirectory) *Manager {
	if issuer == nil {
		panic("auth: issuer must not be nil")
	}
	if store == nil {
		panic("auth: session store must not be nil")
	}
	return &Manager{
		issuer:     issuer,
		store:      store,
		principals: principals,
		now:        time.Now,
	}
}

// WithNowFunc overrides the time source. Useful for tests.
func (m *Manager) WithNowFunc(now func() time.Time) *Manager {
	if now != nil {
		m.now = now
	}
	return m
}

// Login verifies the credential and starts a session, replacing any prior
// session for the principal. Performs exactly one session-store write.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (models.Principal, models.SessionTokens, error) {
	principal, err := Verifier{Principals: m.principals}.Verify(ctx, identifier, secret)
	if err != nil {
		return models.Principal{}, models.SessionTokens{}, err
	}

	tokens, err := m.issue(ctx, principal.ID)
	if err != nil {
		return models.Principal{}, models.SessionTokens{}, err
	}

	return principal, tokens, nil
}

// Issue mints and persists a fresh token pair for an already-verified
// principal, e.g. right after registration.
func (m *Manager) Issue(ctx context.Context, principalID string) (models.SessionTokens, error) {
	return m.issue(ctx, principalID)
}

// Resolve verifies an access token and returns the acting principal id.
// Access tokens are stateless, so resolution performs no store I/O and is
// unaffected by logout until the token's own TTL lapses.
func (m *Manager) Resolve(accessToken string) (string, error) {
	return m.issuer.ParseAccess(accessToken)
}

// Refresh exchanges a refresh token for a new pair. The presented token
// must both carry a valid signature and match the stored fingerprint for
// its principal; a rotated-out token fails the second check even when the
// first passes, which defends against replay of older tokens.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (models.SessionTokens, error) {
	principalID, err := m.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return models.SessionTokens{}, ErrUnauthorized
	}

	if m.principals != nil {
		if _, err := m.principals.FindByID(ctx, principalID); err != nil {
			if errors.Is(err, ErrPrincipalNotFound) {
				return models.SessionTokens{}, ErrUnauthorized
			}
			return models.SessionTokens{}, fmt.Errorf("lookup principal: %w", err)
		}
	}

	record, err := m.store.Find(ctx, principalID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return models.SessionTokens{}, ErrUnauthorized
		}
		return models.SessionTokens{}, fmt.Errorf("load session: %w", err)
	}

	presented := Fingerprint(refreshToken)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(record.RefreshTokenHash)) != 1 {
		// Stale or reused token: a newer pair has been issued since this
		// one was minted.
		return models.SessionTokens{}, ErrUnauthorized
	}

	return m.issue(ctx, principalID)
}

// Logout ends the principal's session. Logging out twice is not an error.
// Outstanding access tokens stay valid until their TTL expires; they are
// not individually revocable.
func (m *Manager) Logout(ctx context.Context, principalID string) error {
	if principalID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, principalID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *Manager) issue(ctx context.Context, principalID string) (models.SessionTokens, error) {
	now := m.now().UTC()

	tokens, err := m.issuer.MintPair(principalID, now)
	if err != nil {
		return models.SessionTokens{}, err
	}

	record := SessionRecord{
		PrincipalID:      principalID,
		RefreshTokenHash: Fingerprint(tokens.RefreshToken),
		IssuedAt:         now,
	}
	if err := m.store.Save(ctx, record); err != nil {
		return models.SessionTokens{}, fmt.Errorf("save session: %w", err)
	}

	return tokens, nil
}
