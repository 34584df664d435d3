package http

import (
	"net/http"
	"time"

	"orders/internal/core/application/lifecycle"
	"orders/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/labstack/gommon/random"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// OpenAPIPath serves the OpenAPI document the Swagger UI reads.
const OpenAPIPath = "/api/openapi.json"

type RouterConfig struct {
	Service        lifecycle.Service
	Paging         PageDefaults
	Logger         *zap.Logger
	TracerProvider trace.TracerProvider
	// Now stamps error bodies; defaults to time.Now.
	Now func() time.Time
}

// NewRouter builds the echo instance with middleware, the generated order
// routes, health, the OpenAPI document and Swagger UI.
func NewRouter(cfg RouterConfig) (*echo.Echo, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}
	swagger.Servers = nil

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.OFF)
	e.HTTPErrorHandler = NewErrorHandler(cfg.Logger, now)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return random.String(32) },
	}))
	e.Use(TracingMiddleware(cfg.TracerProvider))
	e.Use(RequestLogger(cfg.Logger))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET(OpenAPIPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, swagger)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL(OpenAPIPath)))

	servers.RegisterHandlers(e, NewServer(cfg.Service, cfg.Paging))

	return e, nil
}
