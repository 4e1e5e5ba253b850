package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcare/health-portal/internal/api/middleware"
	"github.com/medcare/health-portal/internal/core/domain"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

type profileResponse struct {
	Role    string       `json:"role,omitempty"`
	IsAdmin bool         `json:"is_admin"`
	User    *domain.User `json:"user,omitempty"`
}

// Profile handles GET /profile.
//
// @Summary      Current profile
// @Description  Returns the effective role and user record, or the admin marker.
// @Tags         account
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  errorResponse
// @Router       /profile [get]
func (h *ProfileHandler) Profile(c echo.Context) error {
	access, ok := middleware.AccessFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	switch access.State {
	case domain.AccessAdmin:
		return c.JSON(http.StatusOK, profileResponse{IsAdmin: true})
	case domain.AccessOrdinaryUser:
		return c.JSON(http.StatusOK, profileResponse{Role: string(access.Role), User: access.User})
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
}
