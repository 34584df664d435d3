package commands

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// CreateOrderResult is the created order, or the one already stored under the
// same idempotency key when Replayed is true.
type CreateOrderResult struct {
	Order    *order.Order
	Replayed bool
}

// CreateOrderCommandHandler creates orders exactly once per idempotency key.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, idempotency.NewResolver(), cacheLayer, SystemClock)
//	result, err := handler.Handle(ctx, cmd)
//	if result.Replayed {
//	    // a previous request already created result.Order
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	resolver   KeyResolver
	cache      OrderCache
	clock      Clock
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	resolver KeyResolver,
	cache OrderCache,
	clock Clock,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		cache:      cache,
		clock:      clock,
	}
}

// Handle resolves the idempotency key, returns the existing order if the key is
// already used, and otherwise persists a new Pending order.
//
// Two requests racing on one key both pass the lookup; the loser hits the unique
// constraint, rolls back, and returns the winner's order as a replay.
//
// On a new order the "orders" cache is written through and both list caches are
// evicted. A replay leaves the caches untouched.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	key, err := h.resolver.Resolve(cmd.IdempotencyKey(), cmd.idempotencyRequest())
	if err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()

	existing, err := findByIdempotencyKey(ctx, uow.OrderRepository(), key)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if existing != nil {
		return CreateOrderResult{Order: existing, Replayed: true}, nil
	}

	lines, err := cmd.lines()
	if err != nil {
		return CreateOrderResult{}, err
	}

	created, err := order.NewOrder(kernel.NewUUID(), cmd.CustomerID(), lines, key, h.clock())
	if err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, created); err != nil {
		if !errors.Is(err, ports.ErrIdempotencyKeyTaken) {
			return CreateOrderResult{}, err
		}

		_ = uow.Rollback(ctx)
		winner, findErr := findByIdempotencyKey(ctx, uow.OrderRepository(), key)
		if findErr != nil {
			return CreateOrderResult{}, findErr
		}
		if winner == nil {
			return CreateOrderResult{}, err
		}
		return CreateOrderResult{Order: winner, Replayed: true}, nil
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	h.cache.PutOrder(ctx, created)
	h.cache.EvictLists(ctx)

	return CreateOrderResult{Order: created}, nil
}

// findByIdempotencyKey returns nil, nil when no order uses key.
func findByIdempotencyKey(ctx context.Context, repo ports.OrderRepository, key string) (*order.Order, error) {
	existing, err := repo.GetByIdempotencyKey(ctx, key)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil //nolint:nilnil // absence is not an error here
	}
	if err != nil {
		return nil, err
	}
	return existing, nil
}
