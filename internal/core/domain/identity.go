package domain

import "time"

// IdentityToken is the authenticated credential attached to a request. It is
// never persisted.
type IdentityToken struct {
	SubjectID       string
	NationalID      string
	ClaimedRoleName string // empty when the token carries no role claim
	TokenID         string
	ExpiresAt       time.Time
}
