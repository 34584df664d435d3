package commands_test

import (
	"context"
	"testing"
	"time"

	"orders/internal/core/application/idempotency"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByIdempotencyKey(ctx context.Context, key string) (*order.Order, error) {
	args := m.Called(ctx, key)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, status *order.Status, page ports.PageRequest) (ports.OrderPage, error) {
	args := m.Called(ctx, status, page)
	return args.Get(0).(ports.OrderPage), args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID string, page ports.PageRequest) (ports.OrderPage, error) {
	args := m.Called(ctx, customerID, page)
	return args.Get(0).(ports.OrderPage), args.Error(1)
}

func (m *MockOrderRepository) BulkUpdateStatus(ctx context.Context, from, to order.Status, now time.Time) (int64, error) {
	args := m.Called(ctx, from, to, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOrderCache struct{ mock.Mock }

func (m *MockOrderCache) PutOrder(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockOrderCache) EvictLists(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockOrderCache) EvictAll(ctx context.Context) {
	m.Called(ctx)
}

type MockKeyResolver struct{ mock.Mock }

func (m *MockKeyResolver) Resolve(explicitKey string, req idempotency.Request) (string, error) {
	args := m.Called(explicitKey, req)
	return args.String(0), args.Error(1)
}

var fixedNow = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

func storedOrder(t *testing.T, status order.Status, canceled bool) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("10.50")
	require.NoError(t, err)
	l, err := order.NewLine("sku-1", 2, price)
	require.NoError(t, err)

	created := fixedNow.Add(-time.Hour)
	var canceledAt *time.Time
	if canceled {
		canceledAt = &created
	}
	o, err := order.RestoreOrder(kernel.NewUUID(), "c-1", status, []order.Line{l}, "", created, created, canceledAt)
	require.NoError(t, err)
	return o
}
