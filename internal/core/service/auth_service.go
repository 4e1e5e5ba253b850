package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/medcare/health-portal/internal/core/domain"
	"github.com/medcare/health-portal/internal/core/ports"
)

// AuthService implements registration, login, logout and account deletion.
type AuthService struct {
	users      ports.UserRepository
	roles      map[domain.RoleKind]ports.RoleRepository
	tokens     *TokenManager
	revocation ports.RevocationStore
	log        zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles []ports.RoleRepository,
	tokens *TokenManager,
	revocation ports.RevocationStore,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		roles:      indexRoles(roles),
		tokens:     tokens,
		revocation: revocation,
		log:        log,
	}
}

// Register validates the payload and stores a new user with no roles.
func (s *AuthService) Register(ctx context.Context, input domain.NewUserInput) (*domain.User, error) {
	in, err := domain.ValidateNewUser(input)
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByNationalID(ctx, in.NationalID)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.ValidationErrors{{Field: "password", Message: "must be at most 72 bytes"}}
	}
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		NationalID:   in.NationalID,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Gender:       domain.Gender(in.Gender),
		Birthdate:    in.Birthdate.UTC(),
		HomeAddress:  in.HomeAddress,
		PhoneNumber:  in.PhoneNumber,
		Roles:        []domain.RoleKind{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// The unique indexes still guard against a concurrent registration that
	// slipped past the existence check.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login checks credentials and issues a token. A role claim is embedded only
// if the user holds an active, approved record of that kind.
func (s *AuthService) Login(ctx context.Context, input ports.LoginInput) (string, *domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	roleName := ""
	if strings.TrimSpace(input.Role) != "" {
		kind, err := domain.ParseRoleKind(input.Role)
		if err != nil {
			return "", nil, err
		}
		if err := s.checkGranted(ctx, user.ID, kind); err != nil {
			return "", nil, err
		}
		roleName = string(kind)
	}

	token, _, err := s.tokens.Issue(user.ID, user.NationalID, roleName)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) checkGranted(ctx context.Context, userID string, kind domain.RoleKind) error {
	repo, ok := s.roles[kind]
	if !ok {
		return domain.ErrUnknownRoleKind
	}
	rec, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return domain.ErrRoleNotGranted
		}
		return err
	}
	if !rec.Granted() {
		return domain.ErrRoleNotGranted
	}
	return nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token *domain.IdentityToken) error {
	if token == nil || token.TokenID == "" {
		return domain.ErrMalformedIdentity
	}
	if err := s.revocation.Revoke(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// DeleteAccount removes the user's role records of every kind, then the user.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	for _, kind := range domain.RoleKinds {
		repo, ok := s.roles[kind]
		if !ok {
			continue
		}
		if _, err := repo.DeleteByUserID(ctx, userID); err != nil && !errors.Is(err, domain.ErrRoleNotFound) {
			return fmt.Errorf("delete %s role: %w", kind, err)
		}
	}
	if err := s.users.DeleteByID(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func indexRoles(repos []ports.RoleRepository) map[domain.RoleKind]ports.RoleRepository {
	m := make(map[domain.RoleKind]ports.RoleRepository, len(repos))
	for _, r := range repos {
		m[r.Kind()] = r
	}
	return m
}
