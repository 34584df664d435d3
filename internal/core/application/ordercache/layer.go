// Package ordercache keeps the three named order caches coherent with the store.
//
// Reads are cache-aside. Single-order writes replace the "orders" entry and evict
// both list caches; bulk writes evict everything. A failing backing store is
// logged and treated as a miss or a no-op, never returned to the caller.
package ordercache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"go.uber.org/zap"
)

// TTLs holds the time-to-live of each named cache.
type TTLs struct {
	Orders         time.Duration
	OrderLists     time.Duration
	CustomerOrders time.Duration
}

// DefaultTTLs are 15, 5 and 10 minutes.
func DefaultTTLs() TTLs {
	return TTLs{
		Orders:         15 * time.Minute,
		OrderLists:     5 * time.Minute,
		CustomerOrders: 10 * time.Minute,
	}
}

// Layer is the typed facade over a ports.CacheStore.
type Layer struct {
	store  ports.CacheStore
	ttls   TTLs
	logger *zap.Logger
}

func NewLayer(store ports.CacheStore, ttls TTLs, logger *zap.Logger) *Layer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Layer{store: store, ttls: ttls, logger: logger.Named("ordercache")}
}

// OrderKey is the "orders" cache key.
func OrderKey(id kernel.UUID) string {
	return id.String()
}

// ListKey is the "orderLists" cache key: "STATUS|ALL:page:size".
func ListKey(status *order.Status, page ports.PageRequest) string {
	filter := "ALL"
	if status != nil {
		filter = status.String()
	}
	return strings.Join([]string{filter, strconv.Itoa(page.Page), strconv.Itoa(page.Size)}, ":")
}

// CustomerKey is the "customerOrders" cache key: "customerId:page:size".
// The customer id comes first; the numeric suffix is parsed from the right.
func CustomerKey(customerID string, page ports.PageRequest) string {
	return strings.Join([]string{customerID, strconv.Itoa(page.Page), strconv.Itoa(page.Size)}, ":")
}

// Order returns the cached order, or false on a miss.
func (l *Layer) Order(ctx context.Context, id kernel.UUID) (*order.Order, bool) {
	var snap orderSnapshot
	if !l.get(ctx, ports.CacheOrders, OrderKey(id), &snap) {
		return nil, false
	}

	o, err := snap.restore()
	if err != nil {
		l.logger.Warn("discarding undecodable cache entry",
			zap.String("cache", ports.CacheOrders), zap.String("key", OrderKey(id)), zap.Error(err))
		return nil, false
	}
	return o, true
}

// PutOrder writes o through to the "orders" cache.
func (l *Layer) PutOrder(ctx context.Context, o *order.Order) {
	l.put(ctx, ports.CacheOrders, OrderKey(o.ID()), snapshotOf(o), l.ttls.Orders)
}

// OrderPage returns a cached list page, or false on a miss.
func (l *Layer) OrderPage(ctx context.Context, status *order.Status, page ports.PageRequest) (ports.OrderPage, bool) {
	return l.page(ctx, ports.CacheOrderLists, ListKey(status, page))
}

func (l *Layer) PutOrderPage(ctx context.Context, status *order.Status, page ports.PageRequest, p ports.OrderPage) {
	l.put(ctx, ports.CacheOrderLists, ListKey(status, page), pageSnapshotOf(p), l.ttls.OrderLists)
}

// CustomerPage returns a cached page of a customer's orders, or false on a miss.
func (l *Layer) CustomerPage(ctx context.Context, customerID string, page ports.PageRequest) (ports.OrderPage, bool) {
	return l.page(ctx, ports.CacheCustomerOrders, CustomerKey(customerID, page))
}

func (l *Layer) PutCustomerPage(ctx context.Context, customerID string, page ports.PageRequest, p ports.OrderPage) {
	l.put(ctx, ports.CacheCustomerOrders, CustomerKey(customerID, page), pageSnapshotOf(p), l.ttls.CustomerOrders)
}

// EvictLists drops both list caches after a single-order write.
func (l *Layer) EvictLists(ctx context.Context) {
	l.evict(ctx, ports.CacheOrderLists)
	l.evict(ctx, ports.CacheCustomerOrders)
}

// EvictAll drops every cache after a bulk write.
func (l *Layer) EvictAll(ctx context.Context) {
	l.evict(ctx, ports.CacheOrders)
	l.EvictLists(ctx)
}

func (l *Layer) page(ctx context.Context, cacheName, key string) (ports.OrderPage, bool) {
	var snap pageSnapshot
	if !l.get(ctx, cacheName, key, &snap) {
		return ports.OrderPage{}, false
	}

	p, err := snap.restore()
	if err != nil {
		l.logger.Warn("discarding undecodable cache entry",
			zap.String("cache", cacheName), zap.String("key", key), zap.Error(err))
		return ports.OrderPage{}, false
	}
	return p, true
}

func (l *Layer) get(ctx context.Context, cacheName, key string, dst any) bool {
	raw, ok, err := l.store.Get(ctx, cacheName, key)
	if err != nil {
		l.logger.Warn("cache get failed", zap.String("cache", cacheName), zap.String("key", key), zap.Error(err))
		return false
	}
	if !ok {
		return false
	}

	if err = json.Unmarshal(raw, dst); err != nil {
		l.logger.Warn("cache entry is not valid JSON",
			zap.String("cache", cacheName), zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (l *Layer) put(ctx context.Context, cacheName, key string, value any, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("cache encode failed", zap.String("cache", cacheName), zap.String("key", key), zap.Error(err))
		return
	}

	if err = l.store.Put(ctx, cacheName, key, raw, ttl); err != nil {
		l.logger.Warn("cache put failed", zap.String("cache", cacheName), zap.String("key", key), zap.Error(err))
	}
}

func (l *Layer) evict(ctx context.Context, cacheName string) {
	if err := l.store.EvictAll(ctx, cacheName); err != nil {
		l.logger.Warn("cache evict failed", zap.String("cache", cacheName), zap.Error(err))
	}
}
