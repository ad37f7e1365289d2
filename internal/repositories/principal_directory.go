package repositories

import (
	"context"
	"errors"

	"github.com/cliptide/backend/internal/auth"
	"github.com/cliptide/backend/internal/models"
)

type principalLookup interface {
	FindByHandleOrEmail(ctx context.Context, identifier string) (models.Principal, error)
	FindByID(ctx context.Context, id string) (models.Principal, error)
}

// PrincipalDirectory adapts a user repository to the session layer's
// directory contract, translating this package's not-found sentinel into
// the one the contract documents.
type PrincipalDirectory struct {
	Users principalLookup
}

func (d PrincipalDirectory) FindByHandleOrEmail(ctx context.Context, identifier string) (models.Principal, error) {
	principal, err := d.Users.FindByHandleOrEmail(ctx, identifier)
	return principal, asDirectoryError(err)
}

func (d PrincipalDirectory) FindByID(ctx context.Context, id string) (models.Principal, error) {
	principal, err := d.Users.FindByID(ctx, id)
	return principal, asDirectoryError(err)
}

func asDirectoryError(err error) error {
	if errors.Is(err, ErrNotFound) {
		return auth.ErrPrincipalNotFound
	}
	return err
}

var _ auth.PrincipalDirectory = PrincipalDirectory{}
