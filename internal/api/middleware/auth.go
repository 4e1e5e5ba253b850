package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

// Context keys shared with the handlers.
const (
	KeyIdentity = "identity"
	KeyAccess   = "access"
	KeyRole     = "role"
	KeyIsAdmin  = "is_admin"
	KeyUserID   = "user_id"
)

// Authenticate attaches the bearer token's identity to the context when one
// is presented. A missing header is not an error: the request proceeds
// unauthenticated. Malformed, invalid or revoked tokens are rejected with 401.
func Authenticate(parser ports.TokenParser, revocation ports.RevocationStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := parser.Parse(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if revocation != nil && identity.TokenID != "" {
				revoked, err := revocation.IsRevoked(c.Request().Context(), identity.TokenID)
				if err != nil {
					return err
				}
				if revoked {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(KeyIdentity, identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity attached by Authenticate, or nil.
func IdentityFrom(c echo.Context) *domain.IdentityToken {
	identity, _ := c.Get(KeyIdentity).(*domain.IdentityToken)
	return identity
}
