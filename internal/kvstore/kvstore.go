package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dayrize/statelog/internal/config"
)

// KVStore is the cache store used to stage pending log entries. It makes no
// ordering or transactional guarantees and entries may be evicted or expire
// before they are read back.
type KVStore interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get returns (nil, nil) when the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Close()
}

type redisKVStore struct {
	client *redis.Client
}

func NewRedisKVStore(cfg *config.KvConfig) (KVStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Hostname, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("connecting to kv store: %w", err)
	}
	return &redisKVStore{client: client}, nil
}

func (s *redisKVStore) Close() {
	_ = s.client.Close()
}

func (s *redisKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed storing key: %w", err)
	}
	return nil
}

func (s *redisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	ret, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading key: %w", err)
	}
	return ret, nil
}

func (s *redisKVStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed deleting key: %w", err)
	}
	return nil
}
