package lifecycle

import (
	"orders/internal/core/application/ordercache"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/ports"
)

// Dependencies are the collaborators a Manager is built from.
type Dependencies struct {
	UnitOfWork ports.UnitOfWorkFactory
	// Orders serves reads outside any transaction.
	Orders   ports.OrderRepository
	Cache    *ordercache.Layer
	Resolver commands.KeyResolver
	Clock    commands.Clock
}

// New wires every handler from deps.
func New(deps Dependencies) *Manager {
	clock := deps.Clock
	if clock == nil {
		clock = commands.SystemClock
	}
	uow := commands.OrderUoWFactoryAdapter{Factory: deps.UnitOfWork}

	return NewManager(Handlers{
		Create:         commands.NewCreateOrderCommandHandler(uow, deps.Resolver, deps.Cache, clock),
		UpdateStatus:   commands.NewUpdateOrderStatusCommandHandler(uow, deps.Cache, clock),
		Cancel:         commands.NewCancelOrderCommandHandler(uow, deps.Cache, clock),
		Promote:        commands.NewPromotePendingOrdersCommandHandler(uow, deps.Cache, clock),
		GetByID:        queries.NewGetOrderQueryHandler(deps.Orders, deps.Cache),
		List:           queries.NewListOrdersQueryHandler(deps.Orders, deps.Cache),
		ListByCustomer: queries.NewListCustomerOrdersQueryHandler(deps.Orders, deps.Cache),
	})
}
