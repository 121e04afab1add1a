package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage persists the session under the key <prefix>:<scope>.
type RedisStorage struct {
	client *redis.Client
	prefix string
	scope  string
	ttl    time.Duration
}

// NewRedisStorage creates a RedisStorage. ttl 0 keeps the session until Clear.
func NewRedisStorage(client *redis.Client, prefix, scope string, ttl time.Duration) *RedisStorage {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStorage{client: client, prefix: prefix, scope: scope, ttl: ttl}
}

// key returns the Redis key for this scope.
func (r *RedisStorage) key() string {
	return fmt.Sprintf("%s:%s", r.prefix, r.scope)
}

func (r *RedisStorage) Load(ctx context.Context) (*PersistedSession, error) {
	data, err := r.client.Get(ctx, r.key()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var s PersistedSession
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

func (r *RedisStorage) Save(ctx context.Context, s *PersistedSession) error {
	if s == nil {
		return errors.New("session is nil")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, r.key(), data, r.ttl).Err()
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}
