// internal/pkg/session/store.go
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/redis"
)

// Store issues and validates anonymous visitor session keys. Keys live
// in Redis with a sliding TTL; a key Redis no longer knows is treated
// as expired and replaced.
type Store struct {
	redis  *redis.Client
	config *config.Config
}

// NewStore creates a new session store
func NewStore(redisClient *redis.Client, cfg *config.Config) *Store {
	return &Store{
		redis:  redisClient,
		config: cfg,
	}
}

// Issue creates a new session key and registers it
func (s *Store) Issue(ctx context.Context) (string, error) {
	key := uuid.New().String()
	if err := s.redis.Set(ctx, s.redisKey(key), "1", s.config.Session.TTL); err != nil {
		return "", fmt.Errorf("failed to store session key: %w", err)
	}
	return key, nil
}

// Validate reports whether the session key is known, refreshing its TTL
func (s *Store) Validate(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	_, err := s.redis.Get(ctx, s.redisKey(key))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check session key: %w", err)
	}
	if err := s.redis.Expire(ctx, s.redisKey(key), s.config.Session.TTL); err != nil {
		return false, fmt.Errorf("failed to refresh session key: %w", err)
	}
	return true, nil
}

// Revoke removes a session key, used after a cart merge on login
func (s *Store) Revoke(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	return s.redis.Del(ctx, s.redisKey(key))
}

func (s *Store) redisKey(key string) string {
	return "session:" + key
}
