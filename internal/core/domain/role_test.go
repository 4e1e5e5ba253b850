package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewRoleRecord_ForcesPending(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, status := range []RoleStatus{StatusApproved, StatusRejected, StatusPending, ""} {
		rec, err := NewRoleRecord(RoleMonitor, RolePayload{
			UserID:  "u1",
			Active:  true,
			Status:  status,
			Details: RoleDetails{Monitor: &MonitorDetails{Organization: "Clinic"}},
		}, now)
		if err != nil {
			t.Fatalf("NewRoleRecord(%q) returned error: %v", status, err)
		}
		if rec.Active || rec.Status != StatusPending || rec.Granted() {
			t.Fatalf("expected inactive pending record for %q, got %+v", status, rec)
		}
	}
}

func TestNewRoleRecord_KeepsOnlyMatchingDetails(t *testing.T) {
	rec, err := NewRoleRecord(RoleDoctor, RolePayload{
		UserID: "u1",
		Details: RoleDetails{
			Doctor:  &DoctorDetails{Specialty: "cardiology", LicenseNumber: "LIC1"},
			Monitor: &MonitorDetails{Organization: "Clinic"},
		},
	}, time.Now())
	if err != nil {
		t.Fatalf("NewRoleRecord returned error: %v", err)
	}
	if rec.Details.Doctor == nil || rec.Details.Monitor != nil || rec.Details.Patient != nil {
		t.Fatalf("unexpected details: %+v", rec.Details)
	}
}

func TestNewRoleRecord_PatientDefaults(t *testing.T) {
	rec, err := NewRoleRecord(RolePatient, RolePayload{UserID: "u1"}, time.Now())
	if err != nil {
		t.Fatalf("NewRoleRecord returned error: %v", err)
	}
	if rec.Details.Patient == nil {
		t.Fatalf("expected empty patient details")
	}
}

func TestNewRoleRecord_Invalid(t *testing.T) {
	_, err := NewRoleRecord(RoleDoctor, RolePayload{
		Details: RoleDetails{Doctor: &DoctorDetails{Specialty: "cardiology", LicenseNumber: "LIC-1"}},
	}, time.Now())
	fields, ok := IsValidation(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(fields) != 2 {
		t.Fatalf("expected user_id and license_number to be rejected, got %+v", fields)
	}

	if _, err := NewRoleRecord(RoleKind("nurse"), RolePayload{UserID: "u1"}, time.Now()); !errors.Is(err, ErrUnknownRoleKind) {
		t.Fatalf("expected ErrUnknownRoleKind, got %v", err)
	}
}

func TestParseRoleName(t *testing.T) {
	cases := map[string]RoleName{
		"":        NoRole,
		"no role": NoRole,
		"doctor":  RoleNameDoctor,
		"patient": RoleNamePatient,
		"monitor": RoleNameMonitor,
	}
	for in, want := range cases {
		got, err := ParseRoleName(in)
		if err != nil || got != want {
			t.Fatalf("ParseRoleName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseRoleName("admin"); !errors.Is(err, ErrUnknownRoleKind) {
		t.Fatalf("expected ErrUnknownRoleKind, got %v", err)
	}
	if _, ok := NoRole.Kind(); ok {
		t.Fatalf("NoRole must not map to a kind")
	}
}

func TestParseRoleKind(t *testing.T) {
	if k, err := ParseRoleKind(" Doctor "); err != nil || k != RoleDoctor {
		t.Fatalf("ParseRoleKind = %q, %v", k, err)
	}
	if _, err := ParseRoleKind("admin"); !errors.Is(err, ErrUnknownRoleKind) {
		t.Fatalf("expected ErrUnknownRoleKind, got %v", err)
	}
}
