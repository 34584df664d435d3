package commands_test

import (
	"testing"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdateOrderStatusCommand(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewUpdateOrderStatusCommand(id, order.Shipped)

	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, order.Shipped, cmd.Status())
}

func TestNewUpdateOrderStatusCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewUpdateOrderStatusCommand(kernel.UUID{}, order.Unknown)

	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewCancelOrderCommand(t *testing.T) {
	id := kernel.NewUUID()
	cmd, err := commands.NewCancelOrderCommand(id)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())

	_, err = commands.NewCancelOrderCommand(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	var zero commands.CancelOrderCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrCancelOrderCommandIsNotConstructed)
}

func TestNewPromotePendingOrdersCommand(t *testing.T) {
	cmd := commands.NewPromotePendingOrdersCommand()
	require.NoError(t, cmd.Validate())

	var zero commands.PromotePendingOrdersCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrPromotePendingOrdersCommandIsNotConstructed)
}
