package postgres

import (
	"fmt"
	"time"

	"orders/internal/adapters/out/postgres/orderrepo"

	_ "github.com/lib/pq" // registers the "postgres" database/sql driver
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	// DriverPgx is the pgx stdlib driver bundled with the GORM dialector.
	DriverPgx = "pgx"
	// DriverPq selects github.com/lib/pq.
	DriverPq = "postgres"
)

// ConnectionConfig describes how to reach the order database.
type ConnectionConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SslMode  string
	Driver   string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN renders the key/value connection string understood by both drivers.
func (c ConnectionConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

// Open connects with the configured driver. Duplicate-key errors are translated
// to gorm.ErrDuplicatedKey for pgx; lib/pq errors are recognized by the repository.
func Open(cfg ConnectionConfig, log *zap.Logger) (*gorm.DB, error) {
	dialector := gormpostgres.New(gormpostgres.Config{DSN: cfg.DSN()})
	switch cfg.Driver {
	case "", DriverPgx:
	case DriverPq:
		dialector = gormpostgres.New(gormpostgres.Config{DriverName: DriverPq, DSN: cfg.DSN()})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// Migrate creates or updates the orders and order_lines tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderLineDTO{})
}

// newGormLogger sends GORM's warnings and errors through zap.
func newGormLogger(log *zap.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if log.Core().Enabled(zapcore.DebugLevel) {
		level = gormlogger.Info
	}

	w := zap.NewStdLog(log.With(zap.String("component", "gorm")))
	return gormlogger.New(w, gormlogger.Config{
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
