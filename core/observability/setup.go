package observability

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/hyperterse/covidcol/core/config"
	"github.com/hyperterse/covidcol/core/logger"
)

type Providers struct {
	traceProvider *sdktrace.TracerProvider
	meterProvider *sdkmetric.MeterProvider
}

type otelLoggerErrorHandler struct {
	log *logger.Logger
}

func (h otelLoggerErrorHandler) Handle(err error) {
	if err == nil {
		return
	}
	h.log.Warnf("OpenTelemetry warning: %v", err)
}

// Setup installs global tracer and meter providers. With export disabled the
// providers are no-op SDK instances, so instrumented code paths stay the same.
func Setup(ctx context.Context, cfg config.Observability, serviceVersion string) (*Providers, error) {
	traceProvider, err := buildTraceProvider(ctx, cfg, serviceVersion)
	if err != nil {
		return nil, err
	}

	meterProvider, err := buildMeterProvider(ctx, cfg, serviceVersion)
	if err != nil {
		_ = traceProvider.Shutdown(ctx)
		return nil, err
	}

	otel.SetTracerProvider(traceProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetErrorHandler(otelLoggerErrorHandler{log: logger.New("observability")})

	if cfg.Enabled {
		logger.New("observability").Infof("Exporting telemetry to %s", cfg.Endpoint)
	}

	return &Providers{
		traceProvider: traceProvider,
		meterProvider: meterProvider,
	}, nil
}

// Shutdown flushes and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil {
		return nil
	}
	var errs []error
	if p.traceProvider != nil {
		errs = append(errs, p.traceProvider.Shutdown(ctx))
	}
	if p.meterProvider != nil {
		errs = append(errs, p.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
