package queries

import (
	"context"

	"orders/internal/core/ports"
)

// ListOrdersQueryHandler serves pages from the "orderLists" cache.
type ListOrdersQueryHandler struct {
	repo  ports.OrderRepository
	cache OrderCacheReader
}

func NewListOrdersQueryHandler(repo ports.OrderRepository, cache OrderCacheReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{repo: repo, cache: cache}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ports.OrderPage, error) {
	if err := query.Validate(); err != nil {
		return ports.OrderPage{}, err
	}

	if cached, ok := h.cache.OrderPage(ctx, query.Status(), query.Page()); ok {
		return cached, nil
	}

	page, err := h.repo.List(ctx, query.Status(), query.Page())
	if err != nil {
		return ports.OrderPage{}, err
	}

	h.cache.PutOrderPage(ctx, query.Status(), query.Page(), page)
	return page, nil
}
