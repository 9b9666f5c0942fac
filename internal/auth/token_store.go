package auth

import (
	"context"
	"time"

	"github.com/frahmantamala/deptdesk/internal/cache"
)

const revokedTokenKeyPrefix = "revoked:access_token:"

// RedisTokenStore keeps revoked token ids in Redis. When Redis is
// unavailable tokens are treated as not revoked.
type RedisTokenStore struct {
	cache *cache.Client
}

var _ TokenStore = (*RedisTokenStore)(nil)

func NewRedisTokenStore(c *cache.Client) *RedisTokenStore {
	return &RedisTokenStore{cache: c}
}

func (s *RedisTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

func (s *RedisTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
