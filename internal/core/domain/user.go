package domain

import (
	"strings"
	"time"
)

// Gender is the declared gender of a user.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// User models a registered person. A user may hold several role kinds in
// Roles but at most one of them is active at a time.
type User struct {
	ID           string     `json:"id"`
	NationalID   string     `json:"national_id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Gender       Gender     `json:"gender"`
	Birthdate    time.Time  `json:"birthdate"`
	HomeAddress  string     `json:"home_address"`
	PhoneNumber  string     `json:"phone_number"`
	Roles        []RoleKind `json:"roles"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewUserInput is the raw registration payload.
type NewUserInput struct {
	NationalID  string
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Gender      string
	Birthdate   time.Time
	HomeAddress string
	PhoneNumber string
}

// Normalize trims every field except the password and lower-cases email
// and gender. The password is kept byte for byte.
func (in NewUserInput) Normalize() NewUserInput {
	in.NationalID = NormalizeNationalID(in.NationalID)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Gender = strings.ToLower(strings.TrimSpace(in.Gender))
	in.HomeAddress = strings.TrimSpace(in.HomeAddress)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	return in
}

// NormalizeNationalID trims surrounding whitespace. Lookups by national id
// expect normalized input.
func NormalizeNationalID(id string) string {
	return strings.TrimSpace(id)
}

// HasRole reports whether kind is among the user's role tags.
func (u *User) HasRole(kind RoleKind) bool {
	for _, r := range u.Roles {
		if r == kind {
			return true
		}
	}
	return false
}
