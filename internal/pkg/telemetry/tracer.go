// Package telemetry initialises the OpenTelemetry SDK for the process.
//
//	tp, shutdown, err := telemetry.SetupTracer(ctx, telemetry.Config{ServiceName: "order-service"})
//	if err != nil { ... }
//	defer shutdown(context.Background())
package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// ShutdownFunc flushes buffered spans and closes the exporter connection.
type ShutdownFunc func(ctx context.Context) error

type Config struct {
	ServiceName string
	// Endpoint is the collector's host:port; an http(s):// prefix is tolerated.
	// Empty means spans are recorded in process but never exported.
	Endpoint    string
	Environment string
}

// SetupTracer registers the global TracerProvider and the W3C propagators.
func SetupTracer(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, ShutdownFunc, error) {
	env := cfg.Environment
	if env == "" {
		env = "local"
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			"",
			semconv.ServiceName(cfg.ServiceName),
			semconv.DeploymentEnvironment(env),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("telemetry: failed to build resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	var conn *grpc.ClientConn
	if endpoint := stripScheme(cfg.Endpoint); endpoint != "" {
		conn, err = grpc.NewClient(
			endpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("telemetry: failed to dial OTel Collector at %s: %w", endpoint, err)
		}

		exporter, expErr := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if expErr != nil {
			_ = conn.Close()
			return nil, nil, fmt.Errorf("telemetry: failed to create OTLP trace exporter: %w", expErr)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)))
	}

	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		if err := tp.Shutdown(ctx); err != nil {
			return fmt.Errorf("telemetry: error shutting down TracerProvider: %w", err)
		}
		if conn != nil {
			return conn.Close()
		}
		return nil
	}

	return tp, shutdown, nil
}

func stripScheme(endpoint string) string {
	for _, prefix := range []string{"http://", "https://"} {
		endpoint = strings.TrimPrefix(endpoint, prefix)
	}
	return endpoint
}
