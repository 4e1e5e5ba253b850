package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medcare/health-portal/internal/api/metrics"
	"github.com/medcare/health-portal/internal/api/middleware"
	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	birthdate, err := time.Parse(time.DateOnly, req.Birthdate)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "birthdate must be a date formatted as 2006-01-02")
	}

	user, err := h.authService.Register(c.Request().Context(), domain.NewUserInput{
		NationalID:  req.NationalID,
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Gender:      req.Gender,
		Birthdate:   birthdate,
		HomeAddress: req.HomeAddress,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	return c.JSON(http.StatusCreated, authResponse{User: user})
}

// Login authenticates a user and returns a JWT token, optionally carrying a
// role the user has been granted.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, user, err := h.authService.Login(c.Request().Context(), ports.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// Logout revokes the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	identity := middleware.IdentityFrom(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	if err := h.authService.Logout(c.Request().Context(), identity); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RegistrationInfo is where subjects without a user record are redirected.
//
// @Summary      Registration landing
// @Tags         auth
// @Produce      json
// @Success      200   {object}  registrationInfoResponse
// @Router       /auth/registration [get]
func (h *AuthHandler) RegistrationInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, registrationInfoResponse{
		Message:  "registration required",
		Register: "/auth/register",
	})
}

// DeleteAccount removes the caller's account and all of its role records.
//
// @Summary      Delete account
// @Tags         account
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /account [delete]
func (h *AuthHandler) DeleteAccount(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	if err := h.authService.DeleteAccount(c.Request().Context(), userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
