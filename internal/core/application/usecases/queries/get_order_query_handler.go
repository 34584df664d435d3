package queries

import (
	"context"

	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// GetOrderQueryHandler serves single orders from the "orders" cache, loading and
// caching them on a miss.
type GetOrderQueryHandler struct {
	repo  ports.OrderRepository
	cache OrderCacheReader
}

func NewGetOrderQueryHandler(repo ports.OrderRepository, cache OrderCacheReader) GetOrderQueryHandler {
	return GetOrderQueryHandler{repo: repo, cache: cache}
}

// Handle returns *errs.ObjectNotFoundError for unknown ids. Misses are not cached.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if cached, ok := h.cache.Order(ctx, query.OrderID()); ok {
		return cached, nil
	}

	o, err := h.repo.Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	h.cache.PutOrder(ctx, o)
	return o, nil
}
