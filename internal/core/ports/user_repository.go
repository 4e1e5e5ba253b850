package ports

import (
	"context"

	"github.com/medcare/health-portal/internal/core/domain"
)

// UserRepository is the user directory. Lookups expect a normalized national
// id and reject malformed ones before querying the store.
type UserRepository interface {
	FindByNationalID(ctx context.Context, nationalID string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByNationalID(ctx context.Context, nationalID string) (bool, error)
	// Create fails with domain.ErrUserExists when the national id or email is taken.
	Create(ctx context.Context, user *domain.User) error
	AddRole(ctx context.Context, id string, kind domain.RoleKind) error
	RemoveRole(ctx context.Context, id string, kind domain.RoleKind) error
	DeleteByID(ctx context.Context, id string) error
}
