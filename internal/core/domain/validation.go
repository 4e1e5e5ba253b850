package domain

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	nationalIDPattern = regexp.MustCompile(`^[0-9]{5,14}$`)
	phonePattern      = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validator returns the shared validator with the portal's custom tags
// registered: nationalid, phone and notfuture.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("nationalid", func(fl validator.FieldLevel) bool {
			return ValidNationalID(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
			t, ok := fl.Field().Interface().(time.Time)
			return ok && !t.After(time.Now())
		})
		validate = v
	})
	return validate
}

// ValidNationalID reports whether id has the accepted format.
func ValidNationalID(id string) bool {
	return nationalIDPattern.MatchString(id)
}

type userRules struct {
	NationalID  string    `json:"national_id" validate:"required,nationalid"`
	Email       string    `json:"email" validate:"required,email"`
	Password    string    `json:"password" validate:"required,min=6,max=72"`
	FirstName   string    `json:"first_name" validate:"required,min=1,max=50"`
	LastName    string    `json:"last_name" validate:"required,min=1,max=50"`
	Gender      string    `json:"gender" validate:"required,oneof=male female"`
	Birthdate   time.Time `json:"birthdate" validate:"required,notfuture"`
	HomeAddress string    `json:"home_address" validate:"required"`
	PhoneNumber string    `json:"phone_number" validate:"required,phone"`
}

// ValidateNewUser normalizes in and checks every field, returning the
// normalized input or ValidationErrors listing each violation.
func ValidateNewUser(in NewUserInput) (NewUserInput, error) {
	in = in.Normalize()
	err := Validator().Struct(userRules{
		NationalID:  in.NationalID,
		Email:       in.Email,
		Password:    in.Password,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Gender:      in.Gender,
		Birthdate:   in.Birthdate,
		HomeAddress: in.HomeAddress,
		PhoneNumber: in.PhoneNumber,
	})
	if err != nil {
		return in, toValidationErrors(err)
	}
	return in, nil
}

// ValidateRoleRecord checks the user reference and the details variant for
// the record's kind.
func ValidateRoleRecord(r *RoleRecord) error {
	var errs ValidationErrors
	if r.UserID == "" {
		errs = append(errs, FieldError{Field: "user_id", Message: "is required"})
	}

	var details any
	switch r.Kind {
	case RoleDoctor:
		if r.Details.Doctor == nil {
			errs = append(errs, FieldError{Field: "doctor", Message: "is required"})
		} else {
			details = r.Details.Doctor
		}
	case RolePatient:
		if r.Details.Patient != nil {
			details = r.Details.Patient
		}
	case RoleMonitor:
		if r.Details.Monitor == nil {
			errs = append(errs, FieldError{Field: "monitor", Message: "is required"})
		} else {
			details = r.Details.Monitor
		}
	default:
		return ErrUnknownRoleKind
	}

	if details != nil {
		if err := Validator().Struct(details); err != nil {
			var ve ValidationErrors
			if errors.As(toValidationErrors(err), &ve) {
				errs = append(errs, ve...)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func toValidationErrors(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "nationalid":
		return "invalid national id"
	case "phone":
		return "invalid phone number"
	case "notfuture":
		return "must not be in the future"
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
