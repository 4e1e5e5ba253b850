package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/medcare/health-portal/docs"
	"github.com/medcare/health-portal/internal/api/handler"
	"github.com/medcare/health-portal/internal/api/middleware"
	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Log        zerolog.Logger
	Auth       ports.AuthService
	Roles      ports.RoleService
	Tokens     ports.TokenParser
	Revocation ports.RevocationStore
	Resolver   ports.AccessResolver
	Recorder   middleware.AccessRecorder
	// Readiness lists the dependencies pinged by /health/ready.
	Readiness map[string]handler.Pinger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("portal"))

	authn := middleware.Authenticate(d.Tokens, d.Revocation)
	resolve := middleware.ResolveAccess(d.Resolver, d.Recorder, d.Log)

	authHandler := handler.NewAuthHandler(d.Auth)
	roleHandler := handler.NewRoleHandler(d.Roles)
	profileHandler := handler.NewProfileHandler()

	// --- Health probes and tooling (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Readiness).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET(middleware.RegistrationPath, authHandler.RegistrationInfo)
	e.POST("/auth/logout", authHandler.Logout, authn)

	// --- Resolved routes ---
	e.GET("/profile", profileHandler.Profile, authn, resolve)
	e.DELETE("/account", authHandler.DeleteAccount, authn, resolve, middleware.RequireUser())

	roles := e.Group("/roles", authn, resolve, middleware.RequireUser())
	roles.GET("/current", roleHandler.Current,
		middleware.RequireRole(false, domain.RoleNameDoctor, domain.RoleNamePatient, domain.RoleNameMonitor))
	roles.POST("/:kind", roleHandler.Apply)
	roles.GET("/:kind", roleHandler.Get)
	roles.DELETE("/:kind", roleHandler.Revoke)

	admin := e.Group("/admin", authn, resolve, middleware.RequireAdmin())
	admin.GET("/roles/:kind/:user_id", roleHandler.AdminGet)
	admin.POST("/roles/:kind/:user_id/approve", roleHandler.Approve)
	admin.POST("/roles/:kind/:user_id/reject", roleHandler.Reject)

	return e
}
