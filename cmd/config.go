package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	HTTPPort string

	Storage           string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	DBDriver          string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CacheTTLOrder          time.Duration
	CacheTTLOrderLists     time.Duration
	CacheTTLCustomerOrders time.Duration

	PromotionSchedule string

	PageSizeDefault int
	PageSizeMax     int

	LogLevel     string
	OtelEndpoint string
	ServiceName  string
	Environment  string
}

// LoadConfig reads .env files when present, then the process environment.
// Variables already set in the environment win over .env entries.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("STORAGE", StoragePostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "orders")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_DRIVER", "pgx")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_ORDER", "15m")
	v.SetDefault("CACHE_TTL_ORDER_LISTS", "5m")
	v.SetDefault("CACHE_TTL_CUSTOMER_ORDERS", "10m")
	v.SetDefault("PROMOTION_SCHEDULE", "0 */5 * * * *")
	v.SetDefault("PAGE_SIZE_DEFAULT", 20)
	v.SetDefault("PAGE_SIZE_MAX", 100)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("SERVICE_NAME", "order-service")
	v.SetDefault("DEPLOYMENT_ENVIRONMENT", "local")

	durations := make(map[string]time.Duration)
	for _, key := range []string{
		"DB_CONN_MAX_LIFETIME",
		"CACHE_TTL_ORDER",
		"CACHE_TTL_ORDER_LISTS",
		"CACHE_TTL_CUSTOMER_ORDERS",
	} {
		d, err := time.ParseDuration(v.GetString(key))
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", key, err)
		}
		durations[key] = d
	}

	cfg := Config{
		HTTPPort:               v.GetString("HTTP_PORT"),
		Storage:                v.GetString("STORAGE"),
		DBHost:                 v.GetString("DB_HOST"),
		DBPort:                 v.GetString("DB_PORT"),
		DBUser:                 v.GetString("DB_USER"),
		DBPassword:             v.GetString("DB_PASSWORD"),
		DBName:                 v.GetString("DB_NAME"),
		DBSslMode:              v.GetString("DB_SSLMODE"),
		DBDriver:               v.GetString("DB_DRIVER"),
		DBMaxOpenConns:         v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns:         v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnMaxLifetime:      durations["DB_CONN_MAX_LIFETIME"],
		RedisAddr:              v.GetString("REDIS_ADDR"),
		RedisPassword:          v.GetString("REDIS_PASSWORD"),
		RedisDB:                v.GetInt("REDIS_DB"),
		CacheTTLOrder:          durations["CACHE_TTL_ORDER"],
		CacheTTLOrderLists:     durations["CACHE_TTL_ORDER_LISTS"],
		CacheTTLCustomerOrders: durations["CACHE_TTL_CUSTOMER_ORDERS"],
		PromotionSchedule:      v.GetString("PROMOTION_SCHEDULE"),
		PageSizeDefault:        v.GetInt("PAGE_SIZE_DEFAULT"),
		PageSizeMax:            v.GetInt("PAGE_SIZE_MAX"),
		LogLevel:               v.GetString("LOG_LEVEL"),
		OtelEndpoint:           v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:            v.GetString("SERVICE_NAME"),
		Environment:            v.GetString("DEPLOYMENT_ENVIRONMENT"),
	}

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var problems []error

	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		problems = append(problems, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage))
	}
	if c.DBDriver != "pgx" && c.DBDriver != "postgres" {
		problems = append(problems, fmt.Errorf("DB_DRIVER must be \"pgx\" or \"postgres\", got %q", c.DBDriver))
	}
	if c.PageSizeMax < 1 {
		problems = append(problems, fmt.Errorf("PAGE_SIZE_MAX must be positive, got %d", c.PageSizeMax))
	}
	if c.PageSizeDefault < 1 || c.PageSizeDefault > c.PageSizeMax {
		problems = append(problems, fmt.Errorf("PAGE_SIZE_DEFAULT must be in [1, %d], got %d", c.PageSizeMax, c.PageSizeDefault))
	}

	return errors.Join(problems...)
}
