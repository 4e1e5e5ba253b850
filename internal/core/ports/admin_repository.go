package ports

import (
	"context"

	"github.com/medcare/health-portal/internal/core/domain"
)

// AdminRepository is the admin override store.
type AdminRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
}

// AdminStore extends AdminRepository with the out-of-band management
// operations used by the CLI.
type AdminStore interface {
	AdminRepository
	Create(ctx context.Context, admin *domain.Admin) error
	DeleteByID(ctx context.Context, id string) error
}
