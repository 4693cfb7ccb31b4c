package kvstore

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

type memoryKVStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryKVStore returns an in-process KVStore backed by a TTL cache. It is
// used by tests and by deployments that do not run a Redis instance; expiry
// semantics match the Redis implementation.
func NewMemoryKVStore(defaultTTL time.Duration) KVStore {
	cache := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](defaultTTL),
	)
	go cache.Start()
	return &memoryKVStore{cache: cache}
}

func (s *memoryKVStore) Close() {
	s.cache.Stop()
}

func (s *memoryKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *memoryKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	item := s.cache.Get(key)
	if item == nil {
		return nil, nil
	}
	return item.Value(), nil
}

func (s *memoryKVStore) Delete(ctx context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}
