package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// UpdateOrderStatusCommandHandler applies manual transitions
// (PROCESSING -> SHIPPED -> DELIVERED).
type UpdateOrderStatusCommandHandler struct {
	uowFactory OrderUoWFactory
	cache      OrderCache
	clock      Clock
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory OrderUoWFactory,
	cache OrderCache,
	clock Clock,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		clock:      clock,
	}
}

// Handle loads the order from the store, applies the transition and writes it
// back guarded by the status it was read with. A guard miss is re-validated
// against the current row and reported as a conflict.
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
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
	if err = o.UpdateStatus(cmd.Status(), now); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, o, expected); err != nil {
		if isStaleWrite(err) {
			return nil, explainStaleWrite(ctx, repo, cmd.OrderID(), func(current *order.Order) error {
				return current.UpdateStatus(cmd.Status(), now)
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
