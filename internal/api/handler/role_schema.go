package handler

import "github.com/medcare/health-portal/internal/core/domain"

type doctorDetailsRequest struct {
	Specialty     string `json:"specialty"`
	LicenseNumber string `json:"license_number"`
}

type patientDetailsRequest struct {
	BloodType        string `json:"blood_type"`
	EmergencyContact string `json:"emergency_contact"`
}

type monitorDetailsRequest struct {
	Organization string `json:"organization"`
}

// applyRoleRequest accepts active and status so clients sending them are not
// rejected; both are discarded when the record is created.
type applyRoleRequest struct {
	Active  bool                   `json:"active"`
	Status  string                 `json:"status"`
	Doctor  *doctorDetailsRequest  `json:"doctor,omitempty"`
	Patient *patientDetailsRequest `json:"patient,omitempty"`
	Monitor *monitorDetailsRequest `json:"monitor,omitempty"`
}

func (r applyRoleRequest) toPayload(userID string) domain.RolePayload {
	p := domain.RolePayload{
		UserID: userID,
		Active: r.Active,
		Status: domain.RoleStatus(r.Status),
	}
	if r.Doctor != nil {
		p.Details.Doctor = &domain.DoctorDetails{
			Specialty:     r.Doctor.Specialty,
			LicenseNumber: r.Doctor.LicenseNumber,
		}
	}
	if r.Patient != nil {
		p.Details.Patient = &domain.PatientDetails{
			BloodType:        r.Patient.BloodType,
			EmergencyContact: r.Patient.EmergencyContact,
		}
	}
	if r.Monitor != nil {
		p.Details.Monitor = &domain.MonitorDetails{
			Organization: r.Monitor.Organization,
		}
	}
	return p
}

type roleLinks struct {
	Self string `json:"self"`
}

type roleResponse struct {
	Kind      string             `json:"kind"`
	UserID    string             `json:"user_id"`
	Active    bool               `json:"active"`
	Status    string             `json:"status"`
	Details   domain.RoleDetails `json:"details"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
	Links     roleLinks          `json:"_links"`
}

func toRoleResponse(rec *domain.RoleRecord) roleResponse {
	return roleResponse{
		Kind:      string(rec.Kind),
		UserID:    rec.UserID,
		Active:    rec.Active,
		Status:    string(rec.Status),
		Details:   rec.Details,
		CreatedAt: rec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Links:     roleLinks{Self: "/roles/" + string(rec.Kind)},
	}
}
