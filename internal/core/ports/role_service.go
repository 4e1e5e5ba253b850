package ports

import (
	"context"

	"github.com/medcare/health-portal/internal/core/domain"
)

// RoleService manages role applications and their approval.
type RoleService interface {
	Apply(ctx context.Context, kind domain.RoleKind, payload domain.RolePayload) (*domain.RoleRecord, error)
	Get(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error)
	Exists(ctx context.Context, kind domain.RoleKind, userID string) (bool, error)
	Revoke(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error)
	Review(ctx context.Context, kind domain.RoleKind, userID string, approve bool) (*domain.RoleRecord, error)
}
