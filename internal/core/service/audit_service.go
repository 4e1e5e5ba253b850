package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists events to repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(ctx context.Context, event domain.AccessEvent) error {
	if err := s.repo.InsertAccessEvent(ctx, &event); err != nil {
		return fmt.Errorf("record access event: %w", err)
	}
	s.log.Debug().
		Str("subject_id", event.SubjectID).
		Str("state", string(event.State)).
		Str("path", event.Path).
		Msg("access event recorded")
	return nil
}
