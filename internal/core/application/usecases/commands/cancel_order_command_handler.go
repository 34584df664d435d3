package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// CancelOrderCommandHandler sets canceledAt on Pending orders. Status is not changed.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	cache      OrderCache
	clock      Clock
}

func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, cache OrderCache, clock Clock) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		clock:      clock,
	}
}

// Handle cancels the order with a Pending-guarded write. If promotion or another
// cancel wins the race, the reloaded order explains the conflict.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	now := h.clock()
	expected := o.Status()
	if err = o.Cancel(now); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o, expected); err != nil {
		if isStaleWrite(err) {
			return nil, explainStaleWrite(ctx, repo, cmd.OrderID(), func(current *order.Order) error {
				return current.Cancel(now)
			})
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.cache.PutOrder(ctx, o)
	h.cache.EvictLists(ctx)

	return o, nil
}
