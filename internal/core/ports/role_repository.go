package ports

import (
	"context"

	"github.com/medcare/health-portal/internal/core/domain"
)

// RoleRepository stores the role records of a single kind, at most one per user.
type RoleRepository interface {
	Kind() domain.RoleKind
	// Create fails with domain.ErrRoleExists when the user already has a record.
	Create(ctx context.Context, rec *domain.RoleRecord) error
	FindByUserID(ctx context.Context, userID string) (*domain.RoleRecord, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	// DeleteByUserID returns the removed record, or domain.ErrRoleNotFound.
	DeleteByUserID(ctx context.Context, userID string) (*domain.RoleRecord, error)
	UpdateStatus(ctx context.Context, userID string, status domain.RoleStatus, active bool) (*domain.RoleRecord, error)
}
