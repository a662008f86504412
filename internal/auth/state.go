package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateLifetime bounds how long a user may take to approve our app on Twitch
const StateLifetime = 10 * time.Minute

var ErrStateCollision = errors.New("oauth state value is already in use")

// StateStore records the state values we've issued so that each one can be redeemed
// exactly once
type StateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

// generateState returns an unguessable value to be round-tripped through Twitch in the
// OAuth 'state' parameter
func generateState() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate OAuth state: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// RedisStateStore is a StateStore backed by Redis, so that pending logins survive
// across server instances
type RedisStateStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStateStore(addr string) *RedisStateStore {
	return &RedisStateStore{
		client: redis.NewClient(&redis.Options{
			Addr: addr,
		}),
		prefix: "moddeck:oauth-state:",
	}
}

func (s *RedisStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	ok, err := s.client.SetNX(ctx, s.prefix+state, "1", ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to record OAuth state: %w", err)
	}
	if !ok {
		return ErrStateCollision
	}
	return nil
}

func (s *RedisStateStore) Consume(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, s.prefix+state).Result()
	if err != nil {
		return false, fmt.Errorf("failed to redeem OAuth state: %w", err)
	}
	return n == 1, nil
}

func (s *RedisStateStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStateStore) Close() error {
	return s.client.Close()
}

var _ StateStore = (*RedisStateStore)(nil)
