package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medcare/health-portal/internal/core/domain"
)

// RevocationStore records revoked token ids in Redis.
// Key format: revoked:<token_id>
type RevocationStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationStore creates a RevocationStore wrapping the given Redis client.
func NewRevocationStore(client *redis.Client) *RevocationStore {
	return &RevocationStore{client: client, now: time.Now}
}

// IsRevoked reports whether the token id has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return n > 0, nil
}

// Revoke marks the token revoked until it expires. Already expired tokens
// need no entry.
func (s *RevocationStore) Revoke(ctx context.Context, token *domain.IdentityToken) error {
	ttl := token.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, key(token.TokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func key(tokenID string) string {
	return "revoked:" + tokenID
}
