package domain

import "time"

// AccessState is the terminal state reached when resolving a request.
type AccessState string

const (
	AccessUnauthenticated   AccessState = "unauthenticated"
	AccessOrdinaryUser      AccessState = "ordinary_user"
	AccessAdmin             AccessState = "admin"
	AccessNeedsRegistration AccessState = "needs_registration"
	AccessError             AccessState = "error"
)

// Access is the outcome of resolving one request's identity.
//
// Role is meaningful for AccessUnauthenticated (always NoRole) and
// AccessOrdinaryUser. The admin override never implies a role kind, so Role
// stays empty for AccessAdmin.
type Access struct {
	State     AccessState
	Role      RoleName
	IsAdmin   bool
	SubjectID string
	User      *User
}

// Allowed reports whether the request may continue to its handler.
func (a Access) Allowed() bool {
	switch a.State {
	case AccessUnauthenticated, AccessOrdinaryUser, AccessAdmin:
		return true
	}
	return false
}

// AccessEvent is one entry of the access audit trail.
type AccessEvent struct {
	SubjectID string
	State     AccessState
	Role      RoleName
	Method    string
	Path      string
	RequestID string
	At        time.Time
}
