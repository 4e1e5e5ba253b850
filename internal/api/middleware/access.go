package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcare/health-portal/internal/api/metrics"
	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

// RegistrationPath is where unregistered subjects are sent.
const RegistrationPath = "/auth/registration"

// AccessRecorder receives one event per resolved request. Implementations
// must not block.
type AccessRecorder interface {
	Enqueue(event domain.AccessEvent) bool
}

// ResolveAccess runs the access resolver for every request and stores the
// outcome in the context. Subjects with no user or admin record are
// redirected to the registration endpoint; resolver failures are logged and
// answered with a generic 500.
func ResolveAccess(resolver ports.AccessResolver, recorder AccessRecorder, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			access, err := resolver.Resolve(c.Request().Context(), IdentityFrom(c))
			if err != nil {
				access.State = domain.AccessError
			}

			state := string(access.State)
			metrics.AccessResolutionsTotal.WithLabelValues(state).Inc()
			metrics.AccessResolutionDuration.WithLabelValues(state).Observe(time.Since(start).Seconds())

			if recorder != nil && access.SubjectID != "" {
				recorder.Enqueue(domain.AccessEvent{
					SubjectID: access.SubjectID,
					State:     access.State,
					Role:      access.Role,
					Method:    c.Request().Method,
					Path:      c.Path(),
					RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
					At:        start.UTC(),
				})
			}

			switch access.State {
			case domain.AccessError:
				log.Error().
					Err(err).
					Str("subject_id", access.SubjectID).
					Str("path", c.Path()).
					Msg("access resolution failed")
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			case domain.AccessNeedsRegistration:
				return c.Redirect(http.StatusFound, RegistrationPath)
			}

			c.Set(KeyAccess, access)
			if access.IsAdmin {
				c.Set(KeyIsAdmin, true)
			} else {
				c.Set(KeyRole, string(access.Role))
			}
			if access.User != nil {
				c.Set(KeyUserID, access.User.ID)
			}
			return next(c)
		}
	}
}

// AccessFrom returns the resolved access stored by ResolveAccess.
func AccessFrom(c echo.Context) (domain.Access, bool) {
	access, ok := c.Get(KeyAccess).(domain.Access)
	return access, ok
}
