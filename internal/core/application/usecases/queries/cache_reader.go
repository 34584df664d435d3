// Package queries contains the read operations over orders.
// Implements the Query side of CQRS: each handler reads through the order caches
// (cache-aside) and falls back to the store on a miss.
package queries

import (
	"context"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// OrderCacheReader is the read side of the cache layer.
// A false result is a miss; failures are already absorbed by the layer.
type OrderCacheReader interface {
	Order(ctx context.Context, id kernel.UUID) (*order.Order, bool)
	PutOrder(ctx context.Context, o *order.Order)
	OrderPage(ctx context.Context, status *order.Status, page ports.PageRequest) (ports.OrderPage, bool)
	PutOrderPage(ctx context.Context, status *order.Status, page ports.PageRequest, p ports.OrderPage)
	CustomerPage(ctx context.Context, customerID string, page ports.PageRequest) (ports.OrderPage, bool)
	PutCustomerPage(ctx context.Context, customerID string, page ports.PageRequest, p ports.OrderPage)
}
