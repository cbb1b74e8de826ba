package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/scanportal-client/internal/model"
)

var _ model.TokenStore = (*Store)(nil)

// Store keeps the token in Redis so several kiosk processes can share one sign-in.
type Store struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewStore creates a Redis-backed token store. The token lives under
// prefix+"token"; ttl of zero keeps it until logout.
func NewStore(client *redis.Client, prefix string, ttl time.Duration) *Store {
	return &Store{
		client: client,
		key:    prefix + model.TokenStorageKey,
		ttl:    ttl,
	}
}

// Key returns the Redis key the token is stored under.
func (s *Store) Key() string {
	return s.key
}

// Load returns the stored token, or an empty string when there is none.
func (s *Store) Load(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

// Save stores the token.
func (s *Store) Save(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	return nil
}

// Clear deletes the stored token.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
