package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

// RoleRegistry manages role records across every kind. Each kind has its own
// repository and its own pending/approved lifecycle.
type RoleRegistry struct {
	users ports.UserRepository
	repos map[domain.RoleKind]ports.RoleRepository
	log   zerolog.Logger
	now   func() time.Time
}

func NewRoleRegistry(users ports.UserRepository, repos []ports.RoleRepository, log zerolog.Logger) *RoleRegistry {
	return &RoleRegistry{
		users: users,
		repos: indexRoles(repos),
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *RoleRegistry) repo(kind domain.RoleKind) (ports.RoleRepository, error) {
	r, ok := s.repos[kind]
	if !ok {
		return nil, domain.ErrUnknownRoleKind
	}
	return r, nil
}

// Apply creates a pending, inactive record and tags the user with the kind.
// Whatever Active and Status the payload carries are ignored.
func (s *RoleRegistry) Apply(ctx context.Context, kind domain.RoleKind, payload domain.RolePayload) (*domain.RoleRecord, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}

	rec, err := domain.NewRoleRecord(kind, payload, s.now())
	if err != nil {
		return nil, err
	}

	if err := repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.users.AddRole(ctx, rec.UserID, kind); err != nil {
		// Undo so the record never outlives a failed tag.
		if _, delErr := repo.DeleteByUserID(ctx, rec.UserID); delErr != nil {
			s.log.Error().Err(delErr).Str("user_id", rec.UserID).Str("kind", string(kind)).Msg("rollback role create failed")
		}
		return nil, fmt.Errorf("apply %s: %w", kind, err)
	}

	s.log.Info().Str("user_id", rec.UserID).Str("kind", string(kind)).Msg("role application created")
	return rec, nil
}

func (s *RoleRegistry) Get(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	return repo.FindByUserID(ctx, userID)
}

func (s *RoleRegistry) Exists(ctx context.Context, kind domain.RoleKind, userID string) (bool, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return false, err
	}
	return repo.ExistsByUserID(ctx, userID)
}

// Revoke deletes the user's record of the given kind. A missing record is
// reported as domain.ErrRoleNotFound and changes nothing.
func (s *RoleRegistry) Revoke(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	rec, err := repo.DeleteByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RemoveRole(ctx, userID, kind); err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("revoke %s: %w", kind, err)
	}
	s.log.Info().Str("user_id", userID).Str("kind", string(kind)).Msg("role revoked")
	return rec, nil
}

// Review approves or rejects a role record. Approval fails with
// domain.ErrRoleConflict while the user holds another active role kind.
func (s *RoleRegistry) Review(ctx context.Context, kind domain.RoleKind, userID string, approve bool) (*domain.RoleRecord, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if _, err := repo.FindByUserID(ctx, userID); err != nil {
		return nil, err
	}

	if approve {
		for other, r := range s.repos {
			if other == kind {
				continue
			}
			rec, err := r.FindByUserID(ctx, userID)
			if errors.Is(err, domain.ErrRoleNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("review %s: %w", kind, err)
			}
			if rec.Active {
				return nil, domain.ErrRoleConflict
			}
		}
	}

	status := domain.StatusRejected
	if approve {
		status = domain.StatusApproved
	}
	rec, err := repo.UpdateStatus(ctx, userID, status, approve)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Str("kind", string(kind)).Str("status", string(status)).Msg("role reviewed")
	return rec, nil
}
