package repositories

import (
	"context"

	"github.com/cliptide/backend/internal/models"
)

// UserRepository defines the data access contract for principals.
type UserRepository interface {
	Create(ctx context.Context, principal models.Principal) error
	FindByHandleOrEmail(ctx context.Context, identifier string) (models.Principal, error)
	FindByID(ctx context.Context, id string) (models.Principal, error)
	FindByHandle(ctx context.Context, handle string) (models.Principal, error)
	UpdateProfile(ctx context.Context, principal models.Principal) error
}
