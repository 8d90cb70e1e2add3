// Package telemetry wires the global OpenTelemetry tracer provider to
// an OTLP exporter. It offers an init/shutdown lifecycle and has no
// influence on request handling beyond the router middleware.
package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Shutdown flushes and stops the telemetry pipeline.
type Shutdown func(context.Context) error

func noop(context.Context) error { return nil }

// Init configures the global tracer provider and W3C propagator for
// OTLP export over gRPC. With no endpoint configured the globals stay
// no-op, and exporter setup failure degrades to no-op with a warning;
// telemetry never prevents startup.
func Init(ctx context.Context, endpoint, serviceName string, logger *zap.Logger) Shutdown {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		logger.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, telemetry disabled")
		return noop
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpointURL(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		logger.Warn("failed to create trace exporter, telemetry disabled", zap.Error(err))
		return noop
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(serviceName)),
	)
	if err != nil {
		logger.Warn("failed to build telemetry resource, using default", zap.Error(err))
		res = resource.Default()
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	logger.Info("telemetry initialized",
		zap.String("endpoint", endpoint),
		zap.String("service", serviceName))

	return provider.Shutdown
}
