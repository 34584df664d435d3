package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orders/cmd"
	"orders/internal/pkg/logger"
	"orders/internal/pkg/telemetry"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zapLogger, err := logger.New(configs.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if err := run(configs, zapLogger); err != nil {
		zapLogger.Fatal("order service stopped", zap.Error(err))
	}
}

func run(configs cmd.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.Config{
		ServiceName: configs.ServiceName,
		Endpoint:    configs.OtelEndpoint,
		Environment: configs.Environment,
	})
	if err != nil {
		return fmt.Errorf("setup tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			zapLogger.Error("tracer shutdown failed", zap.Error(err))
		}
	}()

	app, err := cmd.NewCompositionRoot(ctx, configs, zapLogger, tp)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			zapLogger.Error("failed to release resources", zap.Error(err))
		}
	}()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e, err := app.CreateRouter()
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	return startWebServer(ctx, e, configs.HTTPPort, zapLogger)
}

func startWebServer(ctx context.Context, e *echo.Echo, port string, zapLogger *zap.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		zapLogger.Info("http server listening", zap.String("port", port))
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
