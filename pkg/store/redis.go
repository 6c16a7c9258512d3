package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/BurakErdilli/biznet-analyzer/pkg/observability"
)

// RedisStore keeps the snapshot in a single Redis key with no expiry.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, url, key string) (*RedisStore, error) {
	if key == "" {
		key = "biznet:network"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client, key: key}, nil
}

// Load reads the snapshot key.
func (s *RedisStore) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.Store().OnLoad(ctx, "redis", 0, ErrNotFound)
		return nil, ErrNotFound
	}
	observability.Store().OnLoad(ctx, "redis", len(data), err)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// Save overwrites the snapshot key.
func (s *RedisStore) Save(ctx context.Context, data []byte) error {
	err := s.client.Set(ctx, s.key, data, 0).Err()
	observability.Store().OnSave(ctx, "redis", len(data), err)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Close shuts down the client connection pool.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
