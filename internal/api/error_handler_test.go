package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcare/health-portal/internal/core/domain"
)

func handle(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	NewHTTPErrorHandler(zerolog.Nop())(err, e.NewContext(req, rec))
	return rec
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrRoleNotFound, http.StatusNotFound},
		{domain.ErrUserExists, http.StatusConflict},
		{domain.ErrRoleExists, http.StatusConflict},
		{domain.ErrRoleConflict, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrMalformedIdentity, http.StatusUnauthorized},
		{domain.ErrRoleNotGranted, http.StatusForbidden},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrUnknownRoleKind, http.StatusBadRequest},
		{domain.ErrInvalidNationalID, http.StatusBadRequest},
		{fmt.Errorf("register: %w", domain.ErrUserExists), http.StatusConflict},
		{echo.NewHTTPError(http.StatusUnauthorized, "invalid token"), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			if rec := handle(t, tc.err); rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
		})
	}
}

func TestErrorHandler_Validation(t *testing.T) {
	err := domain.ValidationErrors{{Field: "national_id", Message: "must be 5 to 14 digits"}}
	rec := handle(t, err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(body.Fields) != 1 || body.Fields[0].Field != "national_id" {
		t.Fatalf("unexpected fields: %+v", body.Fields)
	}
}

func TestErrorHandler_HidesInfrastructureDetail(t *testing.T) {
	cause := errors.New("dial tcp 10.0.0.5:27017: connection refused")
	for _, err := range []error{
		cause,
		fmt.Errorf("find user: %w: %w", domain.ErrStoreUnavailable, cause),
		fmt.Errorf("find user: %w: %w", domain.ErrStoreUnavailable, domain.ErrUserNotFound),
	} {
		rec := handle(t, err)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "10.0.0.5") || !strings.Contains(rec.Body.String(), "internal server error") {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	}
}

func TestErrorHandler_HTTPError5xxIsGeneric(t *testing.T) {
	rec := handle(t, echo.NewHTTPError(http.StatusInternalServerError, "mongo: timeout"))
	if strings.Contains(rec.Body.String(), "mongo") {
		t.Fatalf("detail leaked: %s", rec.Body.String())
	}
}
