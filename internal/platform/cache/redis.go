package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRemote stores cache payloads in redis under a key prefix.
type RedisRemote struct {
	client *redis.Client
	prefix string
}

func NewRedisRemote(client *redis.Client, prefix string) *RedisRemote {
	return &RedisRemote{client: client, prefix: prefix}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

func (r *RedisRemote) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (r *RedisRemote) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, payload, ttl).Err()
}
