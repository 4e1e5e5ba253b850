package ports

import (
	"context"

	"github.com/medcare/health-portal/internal/core/domain"
)

// LoginInput carries credentials and an optional role claim.
type LoginInput struct {
	Email    string
	Password string
	Role     string
}

type AuthService interface {
	Register(ctx context.Context, input domain.NewUserInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (string, *domain.User, error)
	Logout(ctx context.Context, token *domain.IdentityToken) error
	DeleteAccount(ctx context.Context, userID string) error
}

// TokenParser validates a bearer token and returns the identity it carries.
type TokenParser interface {
	Parse(token string) (*domain.IdentityToken, error)
}

// RevocationStore tracks tokens invalidated before their expiry.
type RevocationStore interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	Revoke(ctx context.Context, token *domain.IdentityToken) error
}
