package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcare/health-portal/internal/core/domain"
)

// RequireRole lets through requests whose effective role is one of allowedRoles.
// Admins pass only when allowAdmin is set.
func RequireRole(allowAdmin bool, allowedRoles ...domain.RoleName) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isAdmin, _ := c.Get(KeyIsAdmin).(bool); isAdmin && allowAdmin {
				return next(c)
			}
			role, _ := c.Get(KeyRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// RequireUser lets through any resolved ordinary user, with or without a role.
func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := c.Get(KeyUserID).(string); !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireAdmin lets through admin-privileged requests only.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isAdmin, _ := c.Get(KeyIsAdmin).(bool); !isAdmin {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
