package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcare/health-portal/internal/api/middleware"
)

// ctxUserID returns the id of the ordinary user resolved for this request.
// Presence proves the access middleware ran and matched a registered user;
// admins and anonymous requests get a 401.
func ctxUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.KeyUserID).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return userID, nil
}
