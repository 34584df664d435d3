package inmemory

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

// CacheStore is a TTL map per cache name. Expired entries are dropped on read,
// and every Put sweeps the expired entries of its cache, so a cache never holds
// more than the keys written within one TTL.
type CacheStore struct {
	mu     sync.Mutex
	caches map[string]map[string]cacheEntry
	now    func() time.Time
}

func NewCacheStore() *CacheStore {
	return &CacheStore{
		caches: make(map[string]map[string]cacheEntry),
		now:    time.Now,
	}
}

// WithClock replaces the time source, for expiry tests.
func (s *CacheStore) WithClock(now func() time.Time) *CacheStore {
	s.now = now
	return s
}

func (s *CacheStore) Get(_ context.Context, cacheName, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.caches[cacheName][key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.caches[cacheName], key)
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (s *CacheStore) Put(_ context.Context, cacheName, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cache, ok := s.caches[cacheName]
	if !ok {
		cache = make(map[string]cacheEntry)
		s.caches[cacheName] = cache
	}
	for k, entry := range cache {
		if !now.Before(entry.expiresAt) {
			delete(cache, k)
		}
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	cache[key] = cacheEntry{value: stored, expiresAt: now.Add(ttl)}
	return nil
}

func (s *CacheStore) EvictAll(_ context.Context, cacheName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.caches, cacheName)
	return nil
}

// Len reports the number of live and expired entries held for cacheName.
func (s *CacheStore) Len(cacheName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.caches[cacheName])
}
