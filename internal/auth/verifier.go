package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/cliptide/backend/internal/models"
)

// PrincipalDirectory is the lookup surface the session layer needs.
// Implementations report an absent principal with an error matching
// ErrPrincipalNotFound.
type PrincipalDirectory interface {
	FindByHandleOrEmail(ctx context.Context, identifier string) (models.Principal, error)
	FindByID(ctx context.Context, id string) (models.Principal, error)
}

// Verifier checks a presented secret against a principal's stored hash.
type Verifier struct {
	Principals PrincipalDirectory
}

// Verify looks up exactly one principal by handle or email and compares
// the presented secret against the stored bcrypt hash. Both an unknown
// identifier and a mismatched secret yield ErrInvalidCredentials so the
// response does not reveal which half was wrong.
func (v Verifier) Verify(ctx context.Context, identifier, secret string) (models.Principal, error) {
	identifier = strings.TrimSpace(strings.ToLower(identifier))
	if identifier == "" || secret == "" {
		return models.Principal{}, ErrInvalidCredentials
	}

	principal, err := v.Principals.FindByHandleOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return models.Principal{}, ErrInvalidCredentials
		}
		return models.Principal{}, fmt.Errorf("lookup principal: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(secret)) != nil {
		return models.Principal{}, ErrInvalidCredentials
	}

	return principal, nil
}

// HashSecret produces the stored form of a registration secret.
func HashSecret(secret string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hashed), nil
}
