package orderrepo_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"orders/internal/adapters/out/postgres/orderrepo"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL container, through both the pgx and the lib/pq driver.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	pqDB       *gorm.DB
	repository *orderrepo.GormOrderRepository
	now        time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	pqDB, err := gorm.Open(postgresdriver.New(postgresdriver.Config{DriverName: "postgres", DSN: connStr}), &gorm.Config{})
	suite.Require().NoError(err)
	suite.pqDB = pqDB

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderLineDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_lines").Error)

	suite.repository = orderrepo.NewGormOrderRepository(suite.db)
	suite.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_PersistsOrderAndLines() {
	ctx := suite.T().Context()
	testOrder := suite.createTestOrder("c-1", "key-1")

	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.assertOrderCount(1)
	var lineCount int64
	suite.Require().NoError(suite.db.Model(&orderrepo.OrderLineDTO{}).Count(&lineCount).Error)
	suite.EqualValues(2, lineCount)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_RestoresTheAggregate() {
	ctx := suite.T().Context()
	testOrder := suite.createTestOrder("c-1", "key-1")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	restored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.True(testOrder.ID().IsEqual(restored.ID()))
	suite.Equal("c-1", restored.CustomerID())
	suite.Equal(order.Pending, restored.Status())
	suite.Equal("key-1", restored.IdempotencyKey())
	suite.Equal("26.00", restored.Total().String())
	suite.True(testOrder.CreatedAt().Equal(restored.CreatedAt()))
	suite.Nil(restored.CanceledAt())

	lines := restored.Lines()
	suite.Require().Len(lines, 2)
	suite.Equal("sku-a", lines[0].ProductID())
	suite.Equal("21.00", lines[0].Total().String())
	suite.Equal("sku-b", lines[1].ProductID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetByIdempotencyKey() {
	ctx := suite.T().Context()
	testOrder := suite.createTestOrder("c-1", "key-1")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	found, err := suite.repository.GetByIdempotencyKey(ctx, "key-1")
	suite.Require().NoError(err)
	suite.True(testOrder.ID().IsEqual(found.ID()))

	_, err = suite.repository.GetByIdempotencyKey(ctx, "key-2")
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_DuplicateKey_ReturnsKeyTaken() {
	testCases := []struct {
		name string
		db   func() *gorm.DB
	}{
		{name: "pgx", db: func() *gorm.DB { return suite.db }},
		{name: "lib/pq", db: func() *gorm.DB { return suite.pqDB }},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_lines").Error)
			repository := orderrepo.NewGormOrderRepository(tc.db())
			ctx := suite.T().Context()

			suite.Require().NoError(repository.Add(ctx, suite.createTestOrder("c-1", "dup")))
			err := repository.Add(ctx, suite.createTestOrder("c-2", "dup"))

			suite.Require().ErrorIs(err, ports.ErrIdempotencyKeyTaken)
			suite.assertOrderCount(1)
		})
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_OrdersWithoutKeysDoNotCollide() {
	ctx := suite.T().Context()

	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder("c-1", "")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder("c-1", "")))

	suite.assertOrderCount(2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StatusGuard() {
	ctx := suite.T().Context()
	testOrder := suite.createTestOrderWithStatus(order.Processing)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.UpdateStatus(order.Shipped, suite.tick()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder, order.Processing))

	stored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Shipped, stored.Status())
	suite.True(testOrder.UpdatedAt().Equal(stored.UpdatedAt()))

	// the row is SHIPPED now, so a writer still expecting PROCESSING loses
	err = suite.repository.Update(ctx, testOrder, order.Processing)
	suite.Require().ErrorIs(err, ports.ErrStaleOrder)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_CanceledRowIsStale() {
	ctx := suite.T().Context()
	testOrder := suite.createTestOrder("c-1", "")
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	suite.Require().NoError(testOrder.Cancel(suite.tick()))
	suite.Require().NoError(suite.repository.Update(ctx, testOrder, order.Pending))

	stored, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.CanceledAt())
	suite.True(stored.CanceledAt().Equal(*testOrder.CanceledAt()))

	err = suite.repository.Update(ctx, testOrder, order.Pending)
	suite.Require().ErrorIs(err, ports.ErrStaleOrder)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_IsStale() {
	err := suite.repository.Update(suite.T().Context(), suite.createTestOrder("c-1", ""), order.Pending)

	suite.Require().ErrorIs(err, ports.ErrStaleOrder)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestBulkUpdateStatus_PromotesOnlyLivePending() {
	ctx := suite.T().Context()
	pending := suite.createTestOrder("c-1", "")
	canceled := suite.createTestOrder("c-1", "")
	shipped := suite.createTestOrderWithStatus(order.Shipped)
	for _, o := range []*order.Order{pending, canceled, shipped} {
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}
	suite.Require().NoError(canceled.Cancel(suite.tick()))
	suite.Require().NoError(suite.repository.Update(ctx, canceled, order.Pending))

	promotedAt := suite.tick()
	affected, err := suite.repository.BulkUpdateStatus(ctx, order.Pending, order.Processing, promotedAt)
	suite.Require().NoError(err)
	suite.EqualValues(1, affected)

	stored, err := suite.repository.Get(ctx, pending.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Processing, stored.Status())
	suite.True(promotedAt.Equal(stored.UpdatedAt()))

	stored, err = suite.repository.Get(ctx, canceled.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, stored.Status())

	affected, err = suite.repository.BulkUpdateStatus(ctx, order.Pending, order.Processing, suite.tick())
	suite.Require().NoError(err)
	suite.Zero(affected)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestBulkUpdateStatus_RejectsOtherTransitions() {
	_, err := suite.repository.BulkUpdateStatus(suite.T().Context(), order.Shipped, order.Delivered, suite.tick())

	suite.True(errs.IsValidation(err))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_PagesNewestFirst() {
	ctx := suite.T().Context()
	ids := make([]kernel.UUID, 0, 5)
	for range 5 {
		o := suite.createTestOrder("c-1", "")
		suite.Require().NoError(suite.repository.Add(ctx, o))
		ids = append(ids, o.ID())
	}
	other := suite.createTestOrder("c-2", "")
	suite.Require().NoError(suite.repository.Add(ctx, other))

	page, err := suite.repository.ListByCustomer(ctx, "c-1", ports.PageRequest{Page: 1, Size: 2})
	suite.Require().NoError(err)

	suite.EqualValues(5, page.TotalItems)
	suite.Equal(3, page.TotalPages)
	suite.Require().Len(page.Items, 2)
	suite.True(ids[2].IsEqual(page.Items[0].ID()))
	suite.True(ids[1].IsEqual(page.Items[1].ID()))
	suite.Len(page.Items[0].Lines(), 2)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_HugePageIsEmpty() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder("c-1", "")))

	page, err := suite.repository.List(ctx, nil, ports.PageRequest{Page: math.MaxInt / 50, Size: 100})
	suite.Require().NoError(err)

	suite.Empty(page.Items)
	suite.EqualValues(1, page.TotalItems)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestList_FiltersByStatus() {
	ctx := suite.T().Context()
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrder("c-1", "")))
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrderWithStatus(order.Shipped)))
	suite.Require().NoError(suite.repository.Add(ctx, suite.createTestOrderWithStatus(order.Shipped)))

	shipped := order.Shipped
	page, err := suite.repository.List(ctx, &shipped, ports.PageRequest{Page: 0, Size: 20})
	suite.Require().NoError(err)
	suite.EqualValues(2, page.TotalItems)

	all, err := suite.repository.List(ctx, nil, ports.PageRequest{Page: 0, Size: 20})
	suite.Require().NoError(err)
	suite.EqualValues(3, all.TotalItems)

	delivered := order.Delivered
	empty, err := suite.repository.List(ctx, &delivered, ports.PageRequest{Page: 0, Size: 20})
	suite.Require().NoError(err)
	suite.NotNil(empty.Items)
	suite.Empty(empty.Items)
	suite.Zero(empty.TotalPages)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestOrderRepository_Concurrency() {
	ctx := suite.T().Context()
	testOrder := suite.createTestOrderWithStatus(order.Processing)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local, err := suite.repository.Get(ctx, testOrder.ID())
			if err != nil {
				return
			}
			if err = local.UpdateStatus(order.Shipped, suite.now.Add(time.Minute)); err != nil {
				return
			}
			if suite.repository.Update(ctx, local, order.Processing) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	suite.Equal(1, wins)
}

// createTestOrder builds a Pending order totalling 26.00.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(customerID, key string) *order.Order {
	testOrder, err := order.NewOrder(kernel.NewUUID(), customerID, suite.createLines(), key, suite.tick())
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderWithStatus(status order.Status) *order.Order {
	createdAt := suite.tick()
	testOrder, err := order.RestoreOrder(
		kernel.NewUUID(), "c-1", status, suite.createLines(), "", createdAt, createdAt, nil,
	)
	suite.Require().NoError(err)
	return testOrder
}

func (suite *OrderRepositoryIntegrationTestSuite) createLines() []order.Line {
	lines := make([]order.Line, 0, 2)
	for _, item := range []struct {
		productID string
		quantity  int
		price     string
	}{
		{"sku-a", 2, "10.50"},
		{"sku-b", 1, "5.00"},
	} {
		price, err := kernel.NewMoney(decimal.RequireFromString(item.price))
		suite.Require().NoError(err)
		line, err := order.NewLine(item.productID, item.quantity, price)
		suite.Require().NoError(err, fmt.Sprintf("line %s", item.productID))
		lines = append(lines, line)
	}
	return lines
}

// tick advances the suite clock, so creation order is strict.
func (suite *OrderRepositoryIntegrationTestSuite) tick() time.Time {
	suite.now = suite.now.Add(time.Second)
	return suite.now
}

func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
