// Package redis implements ports.CacheStore on Redis. Every cache shares one
// keyspace, partitioned as <prefix>:<cache>:<key>.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orders/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultPrefix namespaces the service's entries in a shared Redis.
	DefaultPrefix = "order-service"

	scanBatch = 500
)

// CacheStore is a ports.CacheStore backed by a go-redis client.
type CacheStore struct {
	client *redis.Client
	prefix string
}

var _ ports.CacheStore = (*CacheStore)(nil)

func NewCacheStore(client *redis.Client, prefix string) *CacheStore {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &CacheStore{client: client, prefix: prefix}
}

// Get reports a miss as found=false with no error.
func (s *CacheStore) Get(ctx context.Context, cacheName, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.generateKey(cacheName, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *CacheStore) Put(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.generateKey(cacheName, key), value, ttl).Err()
}

// EvictAll walks the cache's keys with SCAN and unlinks them batch by batch,
// so a large cache never blocks the server with one KEYS call.
func (s *CacheStore) EvictAll(ctx context.Context, cacheName string) error {
	pattern := s.generateKey(cacheName, "*")

	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			if err = s.client.Unlink(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("unlink %d keys of %s: %w", len(keys), cacheName, err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *CacheStore) generateKey(cacheName, key string) string {
	return fmt.Sprintf("%s:%s:%s", s.prefix, cacheName, key)
}
