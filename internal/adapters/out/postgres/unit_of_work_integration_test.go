package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "orders/internal/adapters/out/postgres"
	"orders/internal/core/domain/model/kernel"
	"orders/internal/core/domain/model/order"
	"orders/internal/core/ports"
	"orders/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite exercises transaction scoping of the
// order repository against a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite opens the database through Open and Migrate, the same path the
// service takes at startup.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	host, err := container.Host(ctx)
	suite.Require().NoError(err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	suite.Require().NoError(err)

	db, err := postgres_adapter.Open(postgres_adapter.ConnectionConfig{
		Host:     host,
		Port:     port.Port(),
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		SslMode:  "disable",
		Driver:   postgres_adapter.DriverPgx,
	}, zap.NewNop())
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_lines").Error
	suite.Require().NoError(err)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")
	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow2.OrderRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "Multiple begin calls should be safe")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_Commit() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	testOrder := createTestOrder("key-1")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))
	suite.Require().NoError(uow.Commit(ctx))

	stored, err := suite.factory.Create().OrderRepository().GetByIdempotencyKey(ctx, "key-1")
	suite.Require().NoError(err)
	suite.True(testOrder.ID().IsEqual(stored.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := suite.T().Context()
	uow := suite.factory.Create()
	testOrder := createTestOrder("")

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, testOrder))

	_, err := uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err, "Order should be visible inside its transaction")

	suite.Require().NoError(uow.Rollback(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "Order should not exist after rollback")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RepositoryIsolation() {
	ctx := suite.T().Context()
	uow1 := suite.factory.Create()
	testOrder := createTestOrder("")

	suite.Require().NoError(uow1.Begin(ctx))
	suite.Require().NoError(uow1.OrderRepository().Add(ctx, testOrder))

	_, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound, "Uncommitted order must not leak")

	suite.Require().NoError(uow1.Commit(ctx))

	_, err = suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
}

// TestUnitOfWork_DuplicateKeyThenLookup follows the create path: the failed
// insert aborts the transaction, and the winner is read after rollback.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_DuplicateKeyThenLookup() {
	ctx := suite.T().Context()
	winner := createTestOrder("same")

	first := suite.factory.Create()
	suite.Require().NoError(first.Begin(ctx))
	suite.Require().NoError(first.OrderRepository().Add(ctx, winner))
	suite.Require().NoError(first.Commit(ctx))

	second := suite.factory.Create()
	suite.Require().NoError(second.Begin(ctx))
	err := second.OrderRepository().Add(ctx, createTestOrder("same"))
	suite.Require().ErrorIs(err, ports.ErrIdempotencyKeyTaken)
	suite.Require().NoError(second.Rollback(ctx))

	found, err := second.OrderRepository().GetByIdempotencyKey(ctx, "same")
	suite.Require().NoError(err)
	suite.True(winner.ID().IsEqual(found.ID()))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_BulkUpdateRollsBack() {
	ctx := suite.T().Context()
	testOrder := createTestOrder("")
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, testOrder))

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	affected, err := uow.OrderRepository().BulkUpdateStatus(ctx, order.Pending, order.Processing, time.Now().UTC())
	suite.Require().NoError(err)
	suite.EqualValues(1, affected)
	suite.Require().NoError(uow.Rollback(ctx))

	stored, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Pending, stored.Status())
}

func createTestOrder(key string) *order.Order {
	price, err := kernel.NewMoney(decimal.RequireFromString("10.99"))
	if err != nil {
		panic(err)
	}
	line, err := order.NewLine("sku-1", 3, price)
	if err != nil {
		panic(err)
	}
	o, err := order.NewOrder(kernel.NewUUID(), "c-1", []order.Line{line}, key, time.Now().UTC().Truncate(time.Microsecond))
	if err != nil {
		panic(err)
	}
	return o
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
