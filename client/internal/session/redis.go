package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStorage shares the session cell through Redis, so several client
// processes of one user see the same login. Keys are prefixed by namespace.
type RedisStorage struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStorage wraps client. ttl 0 keeps keys until removed.
func NewRedisStorage(client *redis.Client, namespace string, ttl time.Duration) *RedisStorage {
	if client == nil {
		panic("session.NewRedisStorage: redis client is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &RedisStorage{client: client, namespace: namespace, ttl: ttl}
}

func (r *RedisStorage) key(key string) string {
	if r.namespace == "" {
		return key
	}
	return r.namespace + ":" + key
}

func (r *RedisStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStorage) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}
