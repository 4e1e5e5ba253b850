package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/medcare/health-portal/internal/api/middleware"
	"github.com/medcare/health-portal/internal/core/domain"
)

type stubRoleService struct {
	applyFn  func(ctx context.Context, kind domain.RoleKind, p domain.RolePayload) (*domain.RoleRecord, error)
	getFn    func(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error)
	revokeFn func(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error)
	reviewFn func(ctx context.Context, kind domain.RoleKind, userID string, approve bool) (*domain.RoleRecord, error)
}

func (s *stubRoleService) Apply(ctx context.Context, kind domain.RoleKind, p domain.RolePayload) (*domain.RoleRecord, error) {
	return s.applyFn(ctx, kind, p)
}

func (s *stubRoleService) Get(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error) {
	return s.getFn(ctx, kind, userID)
}

func (s *stubRoleService) Exists(ctx context.Context, kind domain.RoleKind, userID string) (bool, error) {
	_, err := s.getFn(ctx, kind, userID)
	return err == nil, nil
}

func (s *stubRoleService) Revoke(ctx context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error) {
	return s.revokeFn(ctx, kind, userID)
}

func (s *stubRoleService) Review(ctx context.Context, kind domain.RoleKind, userID string, approve bool) (*domain.RoleRecord, error) {
	return s.reviewFn(ctx, kind, userID, approve)
}

func pendingRecord(kind domain.RoleKind, userID string) *domain.RoleRecord {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.RoleRecord{Kind: kind, UserID: userID, Status: domain.StatusPending, CreatedAt: now, UpdatedAt: now}
}

func TestRoleHandler_Apply_UsesCallerIdentity(t *testing.T) {
	stub := &stubRoleService{
		applyFn: func(_ context.Context, kind domain.RoleKind, p domain.RolePayload) (*domain.RoleRecord, error) {
			if kind != domain.RoleDoctor || p.UserID != "u1" {
				t.Fatalf("unexpected apply: %s %+v", kind, p)
			}
			if p.Details.Doctor == nil || p.Details.Doctor.LicenseNumber != "LIC123" {
				t.Fatalf("doctor details not mapped: %+v", p.Details)
			}
			return pendingRecord(kind, p.UserID), nil
		},
	}
	h := NewRoleHandler(stub)

	body := `{"active":true,"status":"APPROVED","doctor":{"specialty":"cardiology","license_number":"LIC123"}}`
	c, rec := newJSONContext(http.MethodPost, "/roles/doctor", body)
	c.SetParamNames("kind")
	c.SetParamValues("doctor")
	c.Set(middleware.KeyUserID, "u1")

	if err := h.Apply(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp roleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Active || resp.Status != "PENDING" || resp.Links.Self != "/roles/doctor" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRoleHandler_Apply_UnknownKind(t *testing.T) {
	h := NewRoleHandler(&stubRoleService{})

	c, _ := newJSONContext(http.MethodPost, "/roles/nurse", `{}`)
	c.SetParamNames("kind")
	c.SetParamValues("nurse")
	c.Set(middleware.KeyUserID, "u1")

	if err := h.Apply(c); !errors.Is(err, domain.ErrUnknownRoleKind) {
		t.Fatalf("expected ErrUnknownRoleKind, got %v", err)
	}
}

func TestRoleHandler_Apply_RequiresUser(t *testing.T) {
	h := NewRoleHandler(&stubRoleService{})

	c, _ := newJSONContext(http.MethodPost, "/roles/doctor", `{}`)
	c.SetParamNames("kind")
	c.SetParamValues("doctor")

	if code := httpCode(t, h.Apply(c)); code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", code)
	}
}

func TestRoleHandler_Revoke_NotFound(t *testing.T) {
	stub := &stubRoleService{
		revokeFn: func(context.Context, domain.RoleKind, string) (*domain.RoleRecord, error) {
			return nil, domain.ErrRoleNotFound
		},
	}
	h := NewRoleHandler(stub)

	c, _ := newJSONContext(http.MethodDelete, "/roles/patient", "")
	c.SetParamNames("kind")
	c.SetParamValues("patient")
	c.Set(middleware.KeyUserID, "u1")

	if err := h.Revoke(c); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRoleHandler_Current_FollowsClaimedRole(t *testing.T) {
	stub := &stubRoleService{
		getFn: func(_ context.Context, kind domain.RoleKind, userID string) (*domain.RoleRecord, error) {
			if kind != domain.RoleMonitor || userID != "u1" {
				t.Fatalf("unexpected lookup: %s %s", kind, userID)
			}
			return pendingRecord(kind, userID), nil
		},
	}
	h := NewRoleHandler(stub)

	c, rec := newJSONContext(http.MethodGet, "/roles/current", "")
	c.Set(middleware.KeyUserID, "u1")
	c.Set(middleware.KeyRole, "monitor")

	if err := h.Current(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRoleHandler_Current_NoRole(t *testing.T) {
	h := NewRoleHandler(&stubRoleService{})

	c, _ := newJSONContext(http.MethodGet, "/roles/current", "")
	c.Set(middleware.KeyUserID, "u1")
	c.Set(middleware.KeyRole, string(domain.NoRole))

	if code := httpCode(t, h.Current(c)); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRoleHandler_Approve(t *testing.T) {
	stub := &stubRoleService{
		reviewFn: func(_ context.Context, kind domain.RoleKind, userID string, approve bool) (*domain.RoleRecord, error) {
			if kind != domain.RolePatient || userID != "u2" || !approve {
				t.Fatalf("unexpected review: %s %s %v", kind, userID, approve)
			}
			rec := pendingRecord(kind, userID)
			rec.Active, rec.Status = true, domain.StatusApproved
			return rec, nil
		},
	}
	h := NewRoleHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/admin/roles/patient/u2/approve", "")
	c.SetParamNames("kind", "user_id")
	c.SetParamValues("patient", "u2")

	if err := h.Approve(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp roleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Active || resp.Status != "APPROVED" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestRoleHandler_Reject_PassesDecision(t *testing.T) {
	stub := &stubRoleService{
		reviewFn: func(_ context.Context, kind domain.RoleKind, userID string, approve bool) (*domain.RoleRecord, error) {
			if approve {
				t.Fatalf("reject must not approve")
			}
			rec := pendingRecord(kind, userID)
			rec.Status = domain.StatusRejected
			return rec, nil
		},
	}
	h := NewRoleHandler(stub)

	c, rec := newJSONContext(http.MethodPost, "/admin/roles/doctor/u2/reject", "")
	c.SetParamNames("kind", "user_id")
	c.SetParamValues("doctor", "u2")

	if err := h.Reject(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
