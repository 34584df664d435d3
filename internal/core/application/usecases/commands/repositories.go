// Package commands contains the operations that change order state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Every handler validates its command, runs inside a unit of work, and keeps the
// order caches coherent after a successful commit.
package commands

import (
	"context"
	"time"

	"orders/internal/core/application/idempotency"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// OrderUoW manages transactions for order operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderCache is the write side of the cache layer.
	OrderCache interface {
		PutOrder(ctx context.Context, o *order.Order)
		EvictLists(ctx context.Context)
		EvictAll(ctx context.Context)
	}

	// KeyResolver turns a creation request into its idempotency key.
	KeyResolver interface {
		Resolve(explicitKey string, req idempotency.Request) (string, error)
	}

	// Clock returns the current time.
	Clock func() time.Time
)

// SystemClock returns UTC time truncated to microseconds, the precision the store keeps.
func SystemClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// OrderUoWFactoryAdapter narrows a ports.UnitOfWorkFactory to OrderUoWFactory.
type OrderUoWFactoryAdapter struct {
	Factory ports.UnitOfWorkFactory
}

func (a OrderUoWFactoryAdapter) Create() OrderUoW {
	return a.Factory.Create()
}
