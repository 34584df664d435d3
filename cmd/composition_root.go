package cmd

import (
	"context"
	"errors"
	"fmt"

	httpadapter "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/inmemory"
	"orders/internal/adapters/out/postgres"
	"orders/internal/adapters/out/postgres/orderrepo"
	rediscache "orders/internal/adapters/out/redis"
	"orders/internal/core/application/idempotency"
	"orders/internal/core/application/lifecycle"
	"orders/internal/core/application/ordercache"
	"orders/internal/core/ports"
	"orders/internal/jobs"
	"orders/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config Config
	log    *zap.Logger
	tp     trace.TracerProvider

	gormDB      *gorm.DB
	redisClient *redis.Client

	uowFactory ports.UnitOfWorkFactory
	orders     ports.OrderRepository
	cache      *ordercache.Layer
	service    lifecycle.Service
}

// NewCompositionRoot opens the configured storage and cache backends and wires
// the lifecycle service on top of them. Close releases what it opened.
func NewCompositionRoot(ctx context.Context, config Config, log *zap.Logger, tp trace.TracerProvider) (*CompositionRoot, error) {
	c := &CompositionRoot{config: config, log: log, tp: tp}

	if err := c.openStorage(); err != nil {
		return nil, err
	}
	c.openCache(ctx)

	manager := lifecycle.New(lifecycle.Dependencies{
		UnitOfWork: c.uowFactory,
		Orders:     c.orders,
		Cache:      c.cache,
		Resolver:   idempotency.NewResolver(),
	})
	c.service = lifecycle.NewTracedService(manager, tp)

	return c, nil
}

func (c *CompositionRoot) openStorage() error {
	if c.config.Storage == StorageMemory {
		repo := inmemory.NewOrderRepository()
		c.uowFactory = inmemory.NewUnitOfWorkFactory(repo)
		c.orders = repo
		c.log.Warn("using in-memory order storage, data is lost on restart")
		return nil
	}

	db, err := postgres.Open(postgres.ConnectionConfig{
		Host:            c.config.DBHost,
		Port:            c.config.DBPort,
		User:            c.config.DBUser,
		Password:        c.config.DBPassword,
		Name:            c.config.DBName,
		SslMode:         c.config.DBSslMode,
		Driver:          c.config.DBDriver,
		MaxOpenConns:    c.config.DBMaxOpenConns,
		MaxIdleConns:    c.config.DBMaxIdleConns,
		ConnMaxLifetime: c.config.DBConnMaxLifetime,
	}, logger.Component(c.log, "postgres"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	c.gormDB = db
	if err := postgres.Migrate(db); err != nil {
		_ = c.Close()
		return fmt.Errorf("migrate database: %w", err)
	}

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(db)
	c.orders = orderrepo.NewGormOrderRepository(db)
	return nil
}

// openCache tolerates an unreachable Redis. The cache layer logs and
// swallows store errors, so orders are read from storage until it returns.
func (c *CompositionRoot) openCache(ctx context.Context) {
	var store ports.CacheStore
	if c.config.RedisAddr == "" {
		store = inmemory.NewCacheStore()
	} else {
		c.redisClient = redis.NewClient(&redis.Options{
			Addr:     c.config.RedisAddr,
			Password: c.config.RedisPassword,
			DB:       c.config.RedisDB,
		})
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			c.log.Warn("redis is unreachable, orders are served uncached until it recovers",
				zap.String("addr", c.config.RedisAddr), zap.Error(err))
		}
		store = rediscache.NewCacheStore(c.redisClient, c.config.ServiceName)
	}

	c.cache = ordercache.NewLayer(store, ordercache.TTLs{
		Orders:         c.config.CacheTTLOrder,
		OrderLists:     c.config.CacheTTLOrderLists,
		CustomerOrders: c.config.CacheTTLCustomerOrders,
	}, logger.Component(c.log, "cache"))
}

func (c *CompositionRoot) Service() lifecycle.Service {
	return c.service
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	return httpadapter.NewRouter(httpadapter.RouterConfig{
		Service: c.service,
		Paging: httpadapter.PageDefaults{
			Size:    c.config.PageSizeDefault,
			MaxSize: c.config.PageSizeMax,
		},
		Logger:         logger.Component(c.log, "http"),
		TracerProvider: c.tp,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.service, c.config.PromotionSchedule, logger.Component(c.log, "jobs"))
}

// Close releases the database pool and the Redis client.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.redisClient != nil {
		errs = append(errs, c.redisClient.Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		} else {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
