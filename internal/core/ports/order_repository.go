// Package ports defines the contracts between the order lifecycle core and its
// infrastructure: the durable order store, the unit of work that scopes writes
// to it, and the cache backing store.
package ports

import (
	"context"
	"errors"
	"time"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
)

var (
	// ErrIdempotencyKeyTaken is returned by Add when another order already owns the key.
	ErrIdempotencyKeyTaken = errors.New("idempotency key is already taken")

	// ErrStaleOrder is returned by Update when the stored row no longer matches the
	// expected status or was canceled by a concurrent writer.
	ErrStaleOrder = errors.New("order was modified concurrently")
)

// OrderRepository defines the persistence contract for order aggregates.
// Orders are always returned with their lines loaded.
type OrderRepository interface {
	// Add persists a new order and its lines.
	// Returns ErrIdempotencyKeyTaken if the key belongs to another order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes status, updatedAt and canceledAt of an existing order, but only
	// if the stored row still has expectedStatus and is not canceled.
	// Returns ErrStaleOrder when the guard matches no row.
	Update(ctx context.Context, aggregate *order.Order, expectedStatus order.Status) error

	// Get retrieves an order by id.
	// Returns *errs.ObjectNotFoundError if it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByIdempotencyKey retrieves the order created under key.
	// Returns *errs.ObjectNotFoundError if none exists.
	GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error)

	// List returns one page of orders, newest first. A nil status means no filter.
	List(ctx context.Context, status *order.Status, page PageRequest) (OrderPage, error)

	// ListByCustomer returns one page of a customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID string, page PageRequest) (OrderPage, error)

	// BulkUpdateStatus moves every non-canceled order in from to to in a single
	// statement, setting updatedAt to now, and returns the number of rows changed.
	//
	// Example:
	//   promoted, err := repo.BulkUpdateStatus(ctx, order.Pending, order.Processing, time.Now())
	BulkUpdateStatus(ctx context.Context, from, to order.Status, now time.Time) (int64, error)
}
