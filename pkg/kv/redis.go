package kv

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"ledger-service/pkg/config"
)

// RedisStore persists values as plain Redis strings.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection with a ping
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Get returns the string stored under key
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set stores value under key without expiry; collections are the canonical
// data, not a cache.
func (s *RedisStore) Set(ctx context.Context, key string, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
