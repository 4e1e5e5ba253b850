package ports

import (
	"context"

	"github.com/medcare/health-portal/internal/core/domain"
)

// AccessResolver maps a request's optional identity token to its access state.
// A nil token is a valid, unauthenticated request.
type AccessResolver interface {
	Resolve(ctx context.Context, token *domain.IdentityToken) (domain.Access, error)
}
