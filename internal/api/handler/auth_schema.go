package handler

import "github.com/medcare/health-portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string              `json:"error"`
	Fields []domain.FieldError `json:"fields,omitempty"`
}

type registerRequest struct {
	NationalID  string `json:"national_id"  validate:"required"`
	Email       string `json:"email"        validate:"required"`
	Password    string `json:"password"     validate:"required"`
	FirstName   string `json:"first_name"   validate:"required"`
	LastName    string `json:"last_name"    validate:"required"`
	Gender      string `json:"gender"       validate:"required"`
	Birthdate   string `json:"birthdate"    validate:"required,datetime=2006-01-02"`
	HomeAddress string `json:"home_address" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type registrationInfoResponse struct {
	Message  string `json:"message"`
	Register string `json:"register"`
}
