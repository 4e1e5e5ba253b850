package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidNationalID  = errors.New("invalid national id")

	ErrRoleNotFound    = errors.New("role not found")
	ErrRoleExists      = errors.New("role already exists")
	ErrRoleConflict    = errors.New("user already holds another active role")
	ErrRoleNotGranted  = errors.New("role not granted")
	ErrUnknownRoleKind = errors.New("unknown role kind")

	ErrAdminNotFound = errors.New("admin not found")
	ErrForbidden     = errors.New("access forbidden")

	// ErrMalformedIdentity is returned when a token is present but lacks the
	// identifiers needed to resolve it.
	ErrMalformedIdentity = errors.New("malformed identity token")

	// ErrStoreUnavailable marks failures of the backing store (network, timeout,
	// server errors). Callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the typed result of a failed construction-time check.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, fe := range v {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// IsValidation reports whether err carries ValidationErrors.
func IsValidation(err error) (ValidationErrors, bool) {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
