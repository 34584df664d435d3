package commands

import (
	"context"
	"errors"

	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"
)

// explainStaleWrite is called after a status-guarded update matched no row.
// It reloads the order and replays the mutation against the fresh state, so the
// caller gets the rule that the concurrent writer made applicable (for example
// "Order has been canceled"). If the replay would now succeed, the write still
// lost the race and a generic conflict is returned.
func explainStaleWrite(
	ctx context.Context,
	repo ports.OrderRepository,
	id kernel.UUID,
	mutate func(*order.Order) error,
) error {
	current, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err = mutate(current); err != nil {
		return err
	}

	return errs.NewConflictErrorWithCause(order.ReasonConcurrentUpdate, ports.ErrStaleOrder)
}

func isStaleWrite(err error) bool {
	return errors.Is(err, ports.ErrStaleOrder)
}
