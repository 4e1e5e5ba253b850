package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/medcare/health-portal/internal/core/domain"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or
// algorithm checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload of an identity token.
type Claims struct {
	jwt.RegisteredClaims
	NationalID string `json:"national_id"`
	RoleName   string `json:"role_name,omitempty"`
}

// TokenManager issues and parses HS256 identity tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for the given subject. roleName may be empty.
func (m *TokenManager) Issue(subjectID, nationalID, roleName string) (string, *domain.IdentityToken, error) {
	now := m.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		NationalID: nationalID,
		RoleName:   roleName,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claimsToIdentity(&claims), nil
}

// Parse validates the token and returns the identity it carries. Only HS256
// is accepted.
func (m *TokenManager) Parse(token string) (*domain.IdentityToken, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claimsToIdentity(claims), nil
}

func claimsToIdentity(c *Claims) *domain.IdentityToken {
	id := &domain.IdentityToken{
		SubjectID:       c.Subject,
		NationalID:      c.NationalID,
		ClaimedRoleName: c.RoleName,
		TokenID:         c.ID,
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}
