package ports

import (
	"context"

	"github.com/medcare/health-portal/internal/core/domain"
)

// AuditRepository persists the access audit trail.
type AuditRepository interface {
	InsertAccessEvent(ctx context.Context, event *domain.AccessEvent) error
}

// AuditService records access events.
type AuditService interface {
	Record(ctx context.Context, event domain.AccessEvent) error
}
