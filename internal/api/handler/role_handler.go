package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medcare/health-portal/internal/api/metrics"
	"github.com/medcare/health-portal/internal/api/middleware"
	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

// RoleHandler handles role applications and their review.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

// Apply handles POST /roles/:kind.
//
// @Summary      Apply for a role
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string            true  "Role kind (doctor, patient, monitor)"
// @Param        body  body      applyRoleRequest  true  "Role details"
// @Success      201   {object}  roleResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /roles/{kind} [post]
func (h *RoleHandler) Apply(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	kind, err := domain.ParseRoleKind(c.Param("kind"))
	if err != nil {
		return err
	}

	var req applyRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	rec, err := h.service.Apply(c.Request().Context(), kind, req.toPayload(userID))
	if err != nil {
		return err
	}

	metrics.RoleApplicationsTotal.WithLabelValues(string(kind)).Inc()
	return c.JSON(http.StatusCreated, toRoleResponse(rec))
}

// Get handles GET /roles/:kind.
//
// @Summary      Get the caller's role record
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Role kind"
// @Success      200   {object}  roleResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /roles/{kind} [get]
func (h *RoleHandler) Get(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	return h.get(c, c.Param("kind"), userID)
}

// Revoke handles DELETE /roles/:kind.
//
// @Summary      Withdraw a role
// @Tags         roles
// @Security     BearerAuth
// @Param        kind  path      string  true  "Role kind"
// @Success      204
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /roles/{kind} [delete]
func (h *RoleHandler) Revoke(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	kind, err := domain.ParseRoleKind(c.Param("kind"))
	if err != nil {
		return err
	}
	if _, err := h.service.Revoke(c.Request().Context(), kind, userID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Current handles GET /roles/current: the record backing the role claimed
// by the caller's token.
//
// @Summary      Get the active role record
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  roleResponse
// @Failure      403   {object}  errorResponse
// @Router       /roles/current [get]
func (h *RoleHandler) Current(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	role, _ := c.Get(middleware.KeyRole).(string)
	kind, ok := domain.RoleName(role).Kind()
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return h.get(c, string(kind), userID)
}

// AdminGet handles GET /admin/roles/:kind/:user_id.
//
// @Summary      Inspect a user's role record
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path      string  true  "Role kind"
// @Param        user_id  path      string  true  "User id"
// @Success      200      {object}  roleResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /admin/roles/{kind}/{user_id} [get]
func (h *RoleHandler) AdminGet(c echo.Context) error {
	return h.get(c, c.Param("kind"), c.Param("user_id"))
}

// Approve handles POST /admin/roles/:kind/:user_id/approve.
//
// @Summary      Approve a role application
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path      string  true  "Role kind"
// @Param        user_id  path      string  true  "User id"
// @Success      200      {object}  roleResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Failure      409      {object}  errorResponse
// @Router       /admin/roles/{kind}/{user_id}/approve [post]
func (h *RoleHandler) Approve(c echo.Context) error {
	return h.review(c, true)
}

// Reject handles POST /admin/roles/:kind/:user_id/reject.
//
// @Summary      Reject a role application
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        kind     path      string  true  "Role kind"
// @Param        user_id  path      string  true  "User id"
// @Success      200      {object}  roleResponse
// @Failure      403      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /admin/roles/{kind}/{user_id}/reject [post]
func (h *RoleHandler) Reject(c echo.Context) error {
	return h.review(c, false)
}

func (h *RoleHandler) get(c echo.Context, rawKind, userID string) error {
	kind, err := domain.ParseRoleKind(rawKind)
	if err != nil {
		return err
	}
	rec, err := h.service.Get(c.Request().Context(), kind, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRoleResponse(rec))
}

func (h *RoleHandler) review(c echo.Context, approve bool) error {
	kind, err := domain.ParseRoleKind(c.Param("kind"))
	if err != nil {
		return err
	}
	rec, err := h.service.Review(c.Request().Context(), kind, c.Param("user_id"), approve)
	if err != nil {
		return err
	}

	metrics.RoleReviewsTotal.WithLabelValues(string(kind), string(rec.Status)).Inc()
	return c.JSON(http.StatusOK, toRoleResponse(rec))
}
