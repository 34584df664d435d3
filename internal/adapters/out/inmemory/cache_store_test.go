package inmemory_test

import (
	"fmt"
	"testing"
	"time"

	"orders/internal/adapters/out/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheStore(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := inmemory.NewCacheStore().WithClock(func() time.Time { return now })

	require.NoError(t, store.Put(ctx, "orders", "a", []byte("1"), time.Minute))
	require.NoError(t, store.Put(ctx, "orderLists", "a", []byte("2"), time.Minute))

	t.Run("should keep caches independent", func(t *testing.T) {
		v, ok, err := store.Get(ctx, "orders", "a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("1"), v)

		v, ok, err = store.Get(ctx, "orderLists", "a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("2"), v)
	})

	t.Run("should evict a whole cache only", func(t *testing.T) {
		require.NoError(t, store.EvictAll(ctx, "orderLists"))

		_, ok, err := store.Get(ctx, "orderLists", "a")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = store.Get(ctx, "orders", "a")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should expire entries", func(t *testing.T) {
		now = now.Add(time.Minute)

		_, ok, err := store.Get(ctx, "orders", "a")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, store.Len("orders"))
	})
}

func TestCacheStore_PutSweepsExpiredKeys(t *testing.T) {
	ctx := t.Context()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := inmemory.NewCacheStore().WithClock(func() time.Time { return now })

	for page := range 50 {
		key := fmt.Sprintf("ALL:%d:20", page)
		require.NoError(t, store.Put(ctx, "orderLists", key, []byte("page"), 5*time.Minute))
	}
	require.NoError(t, store.Put(ctx, "orders", "a", []byte("1"), 15*time.Minute))
	require.Equal(t, 50, store.Len("orderLists"))

	now = now.Add(5 * time.Minute)
	require.NoError(t, store.Put(ctx, "orderLists", "ALL:0:50", []byte("page"), 5*time.Minute))

	assert.Equal(t, 1, store.Len("orderLists"))
	assert.Equal(t, 1, store.Len("orders"))
}
