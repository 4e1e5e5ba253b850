package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

// AccessResolver decides, once per request, whether the bearer of an identity
// token is an ordinary user acting under a role, an admin, or someone who
// still has to register.
type AccessResolver struct {
	users  ports.UserRepository
	admins ports.AdminRepository
	log    zerolog.Logger
}

func NewAccessResolver(users ports.UserRepository, admins ports.AdminRepository, log zerolog.Logger) *AccessResolver {
	return &AccessResolver{users: users, admins: admins, log: log}
}

// Resolve returns the access state for token. A nil token resolves to
// AccessUnauthenticated with NoRole. Every non-nil error comes with
// AccessError; it is meant to be logged, not shown to the requester.
func (r *AccessResolver) Resolve(ctx context.Context, token *domain.IdentityToken) (domain.Access, error) {
	if token == nil {
		return domain.Access{State: domain.AccessUnauthenticated, Role: domain.NoRole}, nil
	}
	if token.SubjectID == "" || token.NationalID == "" {
		return failed(token, domain.ErrMalformedIdentity)
	}

	user, err := r.users.FindByNationalID(ctx, domain.NormalizeNationalID(token.NationalID))
	switch {
	case err == nil && user.ID == token.SubjectID:
		role, err := domain.ParseRoleName(token.ClaimedRoleName)
		if err != nil {
			return failed(token, fmt.Errorf("%w: role claim %q", domain.ErrMalformedIdentity, token.ClaimedRoleName))
		}
		return domain.Access{
			State:     domain.AccessOrdinaryUser,
			Role:      role,
			SubjectID: token.SubjectID,
			User:      user,
		}, nil
	case err == nil:
		// The national id belongs to someone else: never act on that user's data.
		r.log.Debug().
			Str("subject_id", token.SubjectID).
			Msg("identity mismatch, falling back to admin lookup")
	case errors.Is(err, domain.ErrUserNotFound):
	case errors.Is(err, domain.ErrInvalidNationalID):
		return failed(token, fmt.Errorf("%w: %w", domain.ErrMalformedIdentity, err))
	default:
		return failed(token, fmt.Errorf("resolve user: %w", err))
	}

	if _, err := r.admins.FindByID(ctx, token.SubjectID); err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return domain.Access{State: domain.AccessNeedsRegistration, SubjectID: token.SubjectID}, nil
		}
		return failed(token, fmt.Errorf("resolve admin: %w", err))
	}

	return domain.Access{State: domain.AccessAdmin, IsAdmin: true, SubjectID: token.SubjectID}, nil
}

func failed(token *domain.IdentityToken, err error) (domain.Access, error) {
	return domain.Access{State: domain.AccessError, SubjectID: token.SubjectID}, err
}
