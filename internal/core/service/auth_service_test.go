package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

func newUserInput(nationalID, email string) domain.NewUserInput {
	return domain.NewUserInput{
		NationalID:  nationalID,
		Email:       email,
		Password:    "pass123",
		FirstName:   "Alice",
		LastName:    "Smith",
		Gender:      "Female",
		Birthdate:   time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC),
		HomeAddress: "1 Main St",
		PhoneNumber: "+5215512345678",
	}
}

type authFixture struct {
	svc        *AuthService
	users      *memUsers
	roles      map[domain.RoleKind]*memRoles
	tokens     *TokenManager
	revocation *memRevocation
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:      newMemUsers(),
		roles:      make(map[domain.RoleKind]*memRoles),
		tokens:     NewTokenManager("secret", time.Hour),
		revocation: &memRevocation{},
	}
	repos := make([]ports.RoleRepository, 0, len(domain.RoleKinds))
	for _, kind := range domain.RoleKinds {
		f.roles[kind] = newMemRoles(kind)
		repos = append(repos, f.roles[kind])
	}
	f.svc = NewAuthService(f.users, repos, f.tokens, f.revocation, zerolog.Nop())
	return f
}

func TestAuthService_Register_Success(t *testing.T) {
	f := newAuthFixture()

	user, err := f.svc.Register(context.Background(), newUserInput(" 12345 ", "Alice@Example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" || user.NationalID != "12345" || user.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Gender != domain.GenderFemale || len(user.Roles) != 0 {
		t.Fatalf("unexpected gender or roles: %+v", user)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DuplicateNationalID(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, newUserInput("12345", "a@example.com")); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	if _, err := f.svc.Register(ctx, newUserInput("12345", "b@example.com")); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(f.users.users) != 1 {
		t.Fatalf("expected exactly one user, got %d", len(f.users.users))
	}
}

func TestAuthService_Register_Invalid(t *testing.T) {
	f := newAuthFixture()
	in := newUserInput("12-AB", "not-an-email")
	in.Password = "123"

	_, err := f.svc.Register(context.Background(), in)
	fields, ok := domain.IsValidation(err)
	if !ok {
		t.Fatalf("expected validation errors, got %v", err)
	}

	got := map[string]bool{}
	for _, fe := range fields {
		got[fe.Field] = true
	}
	for _, want := range []string{"national_id", "email", "password"} {
		if !got[want] {
			t.Fatalf("expected %s to be rejected, got %+v", want, fields)
		}
	}
}

func TestAuthService_Register_MultiBytePasswordOverBcryptLimit(t *testing.T) {
	f := newAuthFixture()
	in := newUserInput("12345", "alice@example.com")
	// 40 runes pass the length rule but encode to 80 bytes.
	in.Password = strings.Repeat("é", 40)

	_, err := f.svc.Register(context.Background(), in)
	fields, ok := domain.IsValidation(err)
	if !ok || len(fields) != 1 || fields[0].Field != "password" {
		t.Fatalf("expected password validation error, got %v", err)
	}
	if len(f.users.users) != 0 {
		t.Fatalf("expected no user stored, got %d", len(f.users.users))
	}
}

func TestAuthService_RegisterThenLogin_PasswordWithSpaces(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	in := newUserInput("12345", "alice@example.com")
	in.Password = " pass123 "

	if _, err := f.svc.Register(ctx, in); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: " pass123 "}); err != nil {
		t.Fatalf("Login with the registered password returned error: %v", err)
	}
	if _, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "pass123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for trimmed password, got %v", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, err := f.svc.Register(ctx, newUserInput("12345", "alice@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	t.Run("no role claim", func(t *testing.T) {
		token, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ALICE@example.com", Password: "pass123"})
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		identity, err := f.tokens.Parse(token)
		if err != nil {
			t.Fatalf("Parse returned error: %v", err)
		}
		if identity.SubjectID != user.ID || identity.NationalID != "12345" || identity.ClaimedRoleName != "" {
			t.Fatalf("unexpected identity: %+v", identity)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "nope"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		if _, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "bob@example.com", Password: "pass123"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("pending role", func(t *testing.T) {
		rec, _ := domain.NewRoleRecord(domain.RolePatient, domain.RolePayload{UserID: user.ID}, time.Now())
		_ = f.roles[domain.RolePatient].Create(ctx, rec)

		if _, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "pass123", Role: "patient"}); !errors.Is(err, domain.ErrRoleNotGranted) {
			t.Fatalf("expected ErrRoleNotGranted, got %v", err)
		}
	})

	t.Run("approved role", func(t *testing.T) {
		_, _ = f.roles[domain.RolePatient].UpdateStatus(ctx, user.ID, domain.StatusApproved, true)

		token, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "pass123", Role: "patient"})
		if err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
		identity, _ := f.tokens.Parse(token)
		if identity.ClaimedRoleName != "patient" {
			t.Fatalf("expected patient claim, got %q", identity.ClaimedRoleName)
		}
	})

	t.Run("role never applied for", func(t *testing.T) {
		if _, _, err := f.svc.Login(ctx, ports.LoginInput{Email: "alice@example.com", Password: "pass123", Role: "doctor"}); !errors.Is(err, domain.ErrRoleNotGranted) {
			t.Fatalf("expected ErrRoleNotGranted, got %v", err)
		}
	})
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture()
	_, identity, err := f.tokens.Issue("u1", "12345", "")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if err := f.svc.Logout(context.Background(), identity); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if !f.revocation.revoked[identity.TokenID] {
		t.Fatalf("expected token %s to be revoked", identity.TokenID)
	}

	if err := f.svc.Logout(context.Background(), &domain.IdentityToken{SubjectID: "u1"}); !errors.Is(err, domain.ErrMalformedIdentity) {
		t.Fatalf("expected ErrMalformedIdentity for a token without id, got %v", err)
	}
}

func TestAuthService_DeleteAccount_Cascades(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()

	user, err := f.svc.Register(ctx, newUserInput("12345", "alice@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	doctor, _ := domain.NewRoleRecord(domain.RoleDoctor, domain.RolePayload{
		UserID:  user.ID,
		Details: domain.RoleDetails{Doctor: &domain.DoctorDetails{Specialty: "cardiology", LicenseNumber: "LIC1"}},
	}, time.Now())
	_ = f.roles[domain.RoleDoctor].Create(ctx, doctor)

	if err := f.svc.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("DeleteAccount returned error: %v", err)
	}
	if _, err := f.users.FindByID(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected user to be gone, got %v", err)
	}
	if ok, _ := f.roles[domain.RoleDoctor].ExistsByUserID(ctx, user.ID); ok {
		t.Fatalf("expected doctor record to be deleted")
	}

	if err := f.svc.DeleteAccount(ctx, user.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
