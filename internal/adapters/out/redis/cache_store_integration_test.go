package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	rediscache "orders/internal/adapters/out/redis"
	"orders/internal/core/ports"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type CacheStoreIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
	store     *rediscache.CacheStore
}

func (suite *CacheStoreIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)

	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})
	suite.store = rediscache.NewCacheStore(suite.client, "")
}

func (suite *CacheStoreIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
}

func (suite *CacheStoreIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CacheStoreIntegrationTestSuite) TestGet_Miss() {
	value, found, err := suite.store.Get(suite.T().Context(), ports.CacheOrders, "missing")

	suite.Require().NoError(err)
	suite.False(found)
	suite.Nil(value)
}

func (suite *CacheStoreIntegrationTestSuite) TestPutThenGet_UsesPrefixedKeyAndTTL() {
	ctx := suite.T().Context()

	suite.Require().NoError(suite.store.Put(ctx, ports.CacheOrders, "42", []byte(`{"id":"42"}`), time.Minute))

	value, found, err := suite.store.Get(ctx, ports.CacheOrders, "42")
	suite.Require().NoError(err)
	suite.True(found)
	suite.JSONEq(`{"id":"42"}`, string(value))

	ttl, err := suite.client.TTL(ctx, "order-service:orders:42").Result()
	suite.Require().NoError(err)
	suite.Greater(ttl, time.Duration(0))
	suite.LessOrEqual(ttl, time.Minute)
}

func (suite *CacheStoreIntegrationTestSuite) TestEvictAll_ClearsOnlyTheNamedCache() {
	ctx := suite.T().Context()
	for i := range 1200 {
		key := fmt.Sprintf("ALL:%d:20", i)
		suite.Require().NoError(suite.store.Put(ctx, ports.CacheOrderLists, key, []byte("page"), time.Minute))
	}
	suite.Require().NoError(suite.store.Put(ctx, ports.CacheOrders, "keep", []byte("order"), time.Minute))

	suite.Require().NoError(suite.store.EvictAll(ctx, ports.CacheOrderLists))

	remaining, err := suite.client.Keys(ctx, "order-service:orderLists:*").Result()
	suite.Require().NoError(err)
	suite.Empty(remaining)

	_, found, err := suite.store.Get(ctx, ports.CacheOrders, "keep")
	suite.Require().NoError(err)
	suite.True(found)
}

func (suite *CacheStoreIntegrationTestSuite) TestEvictAll_EmptyCache() {
	suite.Require().NoError(suite.store.EvictAll(suite.T().Context(), ports.CacheCustomerOrders))
}

func TestCacheStoreIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CacheStoreIntegrationTestSuite))
}
