package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperterse/covidcol/core/config"
)

const instrumentationName = "github.com/hyperterse/covidcol"

// Tracer returns the tracer used across the program.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

func buildResource(ctx context.Context, cfg config.Observability, serviceVersion string) (*resource.Resource, error) {
	return resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
}

func buildTraceProvider(ctx context.Context, cfg config.Observability, serviceVersion string) (*sdktrace.TracerProvider, error) {
	if !cfg.Enabled || !cfg.TracesEnabled {
		return sdktrace.NewTracerProvider(), nil
	}

	exporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp trace exporter: %w", err)
	}

	res, err := buildResource(ctx, cfg, serviceVersion)
	if err != nil {
		return nil, fmt.Errorf("create trace resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SamplingRatio)),
		sdktrace.WithBatcher(exporter),
	), nil
}
