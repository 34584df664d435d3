package commands

import (
	"errors"

	"orders/internal/pkg/guard"
)

// PromotePendingOrdersCommand triggers the bulk transition of every non-canceled
// Pending order to Processing.
//
// Example:
//
//	cmd := NewPromotePendingOrdersCommand()
//	promoted, err := handler.Handle(ctx, cmd)
type PromotePendingOrdersCommand struct {
	guard guard.ConstructorGuard
}

var ErrPromotePendingOrdersCommandIsNotConstructed = errors.New(
	"PromotePendingOrdersCommand must be created via NewPromotePendingOrdersCommand constructor",
)

// NewPromotePendingOrdersCommand is parameterless; the selection is fixed.
func NewPromotePendingOrdersCommand() PromotePendingOrdersCommand {
	return PromotePendingOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c *PromotePendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrPromotePendingOrdersCommandIsNotConstructed)
}
