// Package inmemory implements the order store and the cache backing store in
// process memory. It backs STORAGE=memory, a cache without REDIS_ADDR, and the
// lifecycle scenario tests.
package inmemory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// OrderRepository keeps orders in a map guarded by one RWMutex. Every read and
// write copies the aggregate, so callers never share state with the store.
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[kernel.UUID]*order.Order
	byKey  map[string]kernel.UUID
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[kernel.UUID]*order.Order),
		byKey:  make(map[string]kernel.UUID),
	}
}

func (r *OrderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	stored, err := clone(aggregate)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if key := aggregate.IdempotencyKey(); key != "" {
		if _, taken := r.byKey[key]; taken {
			return ports.ErrIdempotencyKeyTaken
		}
		r.byKey[key] = aggregate.ID()
	}
	r.orders[aggregate.ID()] = stored
	return nil
}

func (r *OrderRepository) Update(_ context.Context, aggregate *order.Order, expectedStatus order.Status) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	stored, err := clone(aggregate)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[aggregate.ID()]
	if !ok || current.Status() != expectedStatus || current.IsCanceled() {
		return ports.ErrStaleOrder
	}

	r.orders[aggregate.ID()] = stored
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return clone(o)
}

func (r *OrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	r.mu.RLock()
	id, ok := r.byKey[key]
	r.mu.RUnlock()

	if !ok {
		return nil, errs.NewObjectNotFoundError("order with idempotency key", key)
	}
	return r.Get(ctx, id)
}

func (r *OrderRepository) List(_ context.Context, status *order.Status, page ports.PageRequest) (ports.OrderPage, error) {
	return r.scan(page, func(o *order.Order) bool {
		return status == nil || o.Status() == *status
	})
}

func (r *OrderRepository) ListByCustomer(_ context.Context, customerID string, page ports.PageRequest) (ports.OrderPage, error) {
	return r.scan(page, func(o *order.Order) bool {
		return o.CustomerID() == customerID
	})
}

// BulkUpdateStatus applies the transition under the write lock, so it is atomic
// with respect to Update.
func (r *OrderRepository) BulkUpdateStatus(_ context.Context, from, to order.Status, now time.Time) (int64, error) {
	if from != order.Pending || to != order.Processing {
		return 0, errs.NewValueIsInvalidError("bulk transition " + from.String() + " -> " + to.String())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var affected int64
	for _, o := range r.orders {
		if !o.IsPromotable() {
			continue
		}
		if err := o.Promote(now); err != nil {
			return affected, err
		}
		affected++
	}
	return affected, nil
}

func (r *OrderRepository) scan(page ports.PageRequest, match func(*order.Order) bool) (ports.OrderPage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*order.Order, 0)
	for _, o := range r.orders {
		if match(o) {
			matched = append(matched, o)
		}
	}

	slices.SortFunc(matched, func(a, b *order.Order) int {
		if c := b.CreatedAt().Compare(a.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(b.ID().String(), a.ID().String())
	})

	total := int64(len(matched))
	start := max(0, min(page.Offset(), len(matched)))
	end := start + min(max(page.Size, 0), len(matched)-start)

	items := make([]*order.Order, 0, end-start)
	for _, o := range matched[start:end] {
		c, err := clone(o)
		if err != nil {
			return ports.OrderPage{}, err
		}
		items = append(items, c)
	}

	return ports.NewOrderPage(items, page, total), nil
}

func clone(o *order.Order) (*order.Order, error) {
	return order.RestoreOrder(
		o.ID(),
		o.CustomerID(),
		o.Status(),
		o.Lines(),
		o.IdempotencyKey(),
		o.CreatedAt(),
		o.UpdatedAt(),
		o.CanceledAt(),
	)
}
