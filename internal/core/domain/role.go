package domain

import (
	"strings"
	"time"
)

// RoleKind is one of the mutually exclusive professional categories.
type RoleKind string

const (
	RoleDoctor  RoleKind = "doctor"
	RolePatient RoleKind = "patient"
	RoleMonitor RoleKind = "monitor"
)

// RoleKinds lists every kind in a stable order.
var RoleKinds = []RoleKind{RoleDoctor, RolePatient, RoleMonitor}

// ParseRoleKind maps a case-insensitive name to a RoleKind.
func ParseRoleKind(s string) (RoleKind, error) {
	switch RoleKind(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	case RoleMonitor:
		return RoleMonitor, nil
	}
	return "", ErrUnknownRoleKind
}

// RoleName is the effective role attached to a request. It extends the role
// kinds with NoRole.
type RoleName string

const (
	RoleNamePatient RoleName = "patient"
	RoleNameMonitor RoleName = "monitor"
	RoleNameDoctor  RoleName = "doctor"
	NoRole          RoleName = "no role"
)

// ParseRoleName maps a claimed role to a RoleName. The empty string is NoRole.
func ParseRoleName(s string) (RoleName, error) {
	switch RoleName(s) {
	case "", NoRole:
		return NoRole, nil
	case RoleNamePatient, RoleNameMonitor, RoleNameDoctor:
		return RoleName(s), nil
	}
	return "", ErrUnknownRoleKind
}

// Kind returns the role kind backing r; ok is false for NoRole.
func (r RoleName) Kind() (kind RoleKind, ok bool) {
	if r == NoRole || r == "" {
		return "", false
	}
	return RoleKind(r), true
}

// RoleStatus is the approval state of a role record.
type RoleStatus string

const (
	StatusPending  RoleStatus = "PENDING"
	StatusApproved RoleStatus = "APPROVED"
	StatusRejected RoleStatus = "REJECTED"
)

// DoctorDetails carries doctor-specific attributes.
type DoctorDetails struct {
	Specialty     string `json:"specialty" bson:"specialty" validate:"required,max=100"`
	LicenseNumber string `json:"license_number" bson:"license_number" validate:"required,alphanum,max=32"`
}

// PatientDetails carries patient-specific attributes.
type PatientDetails struct {
	BloodType        string `json:"blood_type,omitempty" bson:"blood_type,omitempty" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	EmergencyContact string `json:"emergency_contact,omitempty" bson:"emergency_contact,omitempty" validate:"omitempty,phone"`
}

// MonitorDetails carries monitor-specific attributes.
type MonitorDetails struct {
	Organization string `json:"organization" bson:"organization" validate:"required,max=100"`
}

// RoleDetails is the kind-specific part of a role record. Exactly one field
// is set, matching the record's Kind.
type RoleDetails struct {
	Doctor  *DoctorDetails  `json:"doctor,omitempty"`
	Patient *PatientDetails `json:"patient,omitempty"`
	Monitor *MonitorDetails `json:"monitor,omitempty"`
}

// RoleRecord is a user's application for, or grant of, one role kind.
type RoleRecord struct {
	Kind      RoleKind    `json:"kind"`
	UserID    string      `json:"user_id"`
	Active    bool        `json:"active"`
	Status    RoleStatus  `json:"status"`
	Details   RoleDetails `json:"details"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Granted reports whether the record confers the role's capabilities.
func (r *RoleRecord) Granted() bool {
	return r.Active && r.Status == StatusApproved
}

// RolePayload is what a caller submits when applying for a role. Active and
// Status are accepted for wire compatibility but never honoured.
type RolePayload struct {
	UserID  string
	Active  bool
	Status  RoleStatus
	Details RoleDetails
}

// NewRoleRecord builds a pending, inactive record of the given kind. The
// caller's Active and Status are discarded: nobody approves themselves.
func NewRoleRecord(kind RoleKind, p RolePayload, now time.Time) (*RoleRecord, error) {
	if _, err := ParseRoleKind(string(kind)); err != nil {
		return nil, err
	}
	rec := &RoleRecord{
		Kind:      kind,
		UserID:    strings.TrimSpace(p.UserID),
		Active:    false,
		Status:    StatusPending,
		Details:   detailsFor(kind, p.Details),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ValidateRoleRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// detailsFor keeps only the variant matching kind.
func detailsFor(kind RoleKind, d RoleDetails) RoleDetails {
	switch kind {
	case RoleDoctor:
		return RoleDetails{Doctor: d.Doctor}
	case RolePatient:
		if d.Patient == nil {
			return RoleDetails{Patient: &PatientDetails{}}
		}
		return RoleDetails{Patient: d.Patient}
	case RoleMonitor:
		return RoleDetails{Monitor: d.Monitor}
	}
	return RoleDetails{}
}
