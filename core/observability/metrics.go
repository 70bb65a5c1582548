package observability

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/hyperterse/covidcol/core/config"
)

type metrics struct {
	queriesTotal     metric.Int64Counter
	queryDuration    metric.Float64Histogram
	queryRows        metric.Int64Histogram
	resolutionsTotal metric.Int64Counter
}

var (
	metricsOnce sync.Once
	m           metrics
)

func buildMeterProvider(ctx context.Context, cfg config.Observability, serviceVersion string) (*sdkmetric.MeterProvider, error) {
	if !cfg.Enabled || !cfg.MetricsEnabled {
		return sdkmetric.NewMeterProvider(), nil
	}

	exporter, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := buildResource(ctx, cfg, serviceVersion)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)),
	), nil
}

// The global meter delegates to whichever provider Setup installs later, so
// instruments can be created before Setup runs.
func initInstruments() {
	metricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		m.queriesTotal, _ = meter.Int64Counter("covidcol.source.queries_total")
		m.queryDuration, _ = meter.Float64Histogram("covidcol.source.query_duration_ms")
		m.queryRows, _ = meter.Int64Histogram("covidcol.source.query_rows")
		m.resolutionsTotal, _ = meter.Int64Counter("covidcol.resolutions_total")
	})
}

// RecordQuery records one remote query of the given shape.
func RecordQuery(ctx context.Context, shape string, success bool, rows int, durationMS float64) {
	initInstruments()
	attrs := metric.WithAttributes(
		attribute.String(AttrQueryShape, shape),
		attribute.Bool("success", success),
	)
	m.queriesTotal.Add(ctx, 1, attrs)
	m.queryDuration.Record(ctx, durationMS, attrs)
	if success {
		m.queryRows.Record(ctx, int64(rows), attrs)
	}
	recordQueryTextfile(shape, success, durationMS)
}

// RecordResolution records how a request was finally satisfied.
func RecordResolution(ctx context.Context, outcome string) {
	initInstruments()
	m.resolutionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
	recordResolutionTextfile(outcome)
}
