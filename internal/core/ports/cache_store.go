package ports

import (
	"context"
	"time"
)

// Cache names shared by the cache layer and its backing stores.
const (
	CacheOrders         = "orders"
	CacheOrderLists     = "orderLists"
	CacheCustomerOrders = "customerOrders"
)

// CacheStore is the backing store behind the named caches. Values are opaque bytes.
// Every method may fail; callers treat failures as a miss or a no-op.
type CacheStore interface {
	// Get returns the value and true on a hit, or false on a miss.
	Get(ctx context.Context, cacheName, key string) ([]byte, bool, error)

	// Put stores value under key for ttl.
	Put(ctx context.Context, cacheName, key string, value []byte, ttl time.Duration) error

	// EvictAll drops every entry of cacheName.
	EvictAll(ctx context.Context, cacheName string) error
}
