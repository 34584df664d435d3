package queries

import (
	"context"

	"orders/internal/core/ports"
)

// ListCustomerOrdersQueryHandler serves pages from the "customerOrders" cache.
type ListCustomerOrdersQueryHandler struct {
	repo  ports.OrderRepository
	cache OrderCacheReader
}

func NewListCustomerOrdersQueryHandler(repo ports.OrderRepository, cache OrderCacheReader) ListCustomerOrdersQueryHandler {
	return ListCustomerOrdersQueryHandler{repo: repo, cache: cache}
}

func (h ListCustomerOrdersQueryHandler) Handle(ctx context.Context, query ListCustomerOrdersQuery) (ports.OrderPage, error) {
	if err := query.Validate(); err != nil {
		return ports.OrderPage{}, err
	}

	if cached, ok := h.cache.CustomerPage(ctx, query.CustomerID(), query.Page()); ok {
		return cached, nil
	}

	page, err := h.repo.ListByCustomer(ctx, query.CustomerID(), query.Page())
	if err != nil {
		return ports.OrderPage{}, err
	}

	h.cache.PutCustomerPage(ctx, query.CustomerID(), query.Page(), page)
	return page, nil
}
