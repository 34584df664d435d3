// Package lifecycle exposes the order lifecycle operations as one Service.
//
// Manager wires the command and query handlers behind the interface; decorators
// such as the tracing wrapper compose around it without the handlers knowing.
package lifecycle

import (
	"context"

	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
)

// Service is the upward-facing contract of the order lifecycle.
type Service interface {
	Create(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error)
	GetByID(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
	List(ctx context.Context, query queries.ListOrdersQuery) (ports.OrderPage, error)
	ListByCustomer(ctx context.Context, query queries.ListCustomerOrdersQuery) (ports.OrderPage, error)
	UpdateStatus(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	Cancel(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	PromotePendingToProcessing(ctx context.Context) (int64, error)
}

// Handlers groups the handlers a Manager dispatches to.
type Handlers struct {
	Create         commands.CreateOrderCommandHandler
	UpdateStatus   commands.UpdateOrderStatusCommandHandler
	Cancel         commands.CancelOrderCommandHandler
	Promote        commands.PromotePendingOrdersCommandHandler
	GetByID        queries.GetOrderQueryHandler
	List           queries.ListOrdersQueryHandler
	ListByCustomer queries.ListCustomerOrdersQueryHandler
}

// Manager is the plain Service implementation.
type Manager struct {
	h Handlers
}

var _ Service = (*Manager)(nil)

func NewManager(h Handlers) *Manager {
	return &Manager{h: h}
}

func (m *Manager) Create(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error) {
	return m.h.Create.Handle(ctx, cmd)
}

func (m *Manager) GetByID(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error) {
	return m.h.GetByID.Handle(ctx, query)
}

func (m *Manager) List(ctx context.Context, query queries.ListOrdersQuery) (ports.OrderPage, error) {
	return m.h.List.Handle(ctx, query)
}

func (m *Manager) ListByCustomer(ctx context.Context, query queries.ListCustomerOrdersQuery) (ports.OrderPage, error) {
	return m.h.ListByCustomer.Handle(ctx, query)
}

func (m *Manager) UpdateStatus(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error) {
	return m.h.UpdateStatus.Handle(ctx, cmd)
}

func (m *Manager) Cancel(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	return m.h.Cancel.Handle(ctx, cmd)
}

// PromotePendingToProcessing is the entry point of the promotion job.
func (m *Manager) PromotePendingToProcessing(ctx context.Context) (int64, error) {
	return m.h.Promote.Handle(ctx, commands.NewPromotePendingOrdersCommand())
}
