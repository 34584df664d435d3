package commands

import (
	"context"

	"orders/internal/core/domain/model/order"
)

// PromotePendingOrdersCommandHandler runs the bulk Pending -> Processing update.
type PromotePendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	cache      OrderCache
	clock      Clock
}

func NewPromotePendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	cache OrderCache,
	clock Clock,
) PromotePendingOrdersCommandHandler {
	return PromotePendingOrdersCommandHandler{
		uowFactory: uowFactory,
		cache:      cache,
		clock:      clock,
	}
}

// Handle issues one conditional bulk update and returns the number of promoted
// orders. The affected rows are unknown, so all three caches are evicted after
// the commit, even when nothing was promoted.
func (h *PromotePendingOrdersCommandHandler) Handle(ctx context.Context, cmd PromotePendingOrdersCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	promoted, err := uow.OrderRepository().BulkUpdateStatus(ctx, order.Pending, order.Processing, h.clock())
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	h.cache.EvictAll(ctx)

	return promoted, nil
}
