package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
	"github.com/hyperterse/covidcol/core/logger"
	"github.com/hyperterse/covidcol/core/observability"
	sharedctx "github.com/hyperterse/covidcol/core/shared/context"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

// CaseService implements the CaseSource interface on top of a Connector.
// It is the boundary where remote failures stop being errors.
type CaseService struct {
	connector        interfaces.Connector
	notifier         interfaces.Notifier
	regionField      string
	regionSampleSize int
}

// Options tunes a CaseService. Zero values take the dataset defaults.
type Options struct {
	RegionField      string
	RegionSampleSize int
}

// NewCaseService creates a new CaseService
func NewCaseService(connector interfaces.Connector, notifier interfaces.Notifier, opts Options) *CaseService {
	if opts.RegionField == "" {
		opts.RegionField = "departamento_nom"
	}
	if opts.RegionSampleSize <= 0 {
		opts.RegionSampleSize = 100
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &CaseService{
		connector:        connector,
		notifier:         notifier,
		regionField:      opts.RegionField,
		regionSampleSize: opts.RegionSampleSize,
	}
}

// RegionField returns the dataset field holding the department name.
func (s *CaseService) RegionField() string {
	return s.regionField
}

// QueryByRegion reads up to limit rows whose region field equals the
// upper-cased region. It returns nil when the query fails.
func (s *CaseService) QueryByRegion(ctx context.Context, region string, limit int) *domain.ResultTable {
	region = domain.NormalizeRegion(region)

	s.notifier.Notice("Conectando a la API de Datos Abiertos...")
	s.notifier.Notice("Consultando %d registros para %s...", limit, region)

	table, err := s.fetch(ctx, observability.ShapeByRegion, interfaces.SourceQuery{
		Limit:  limit,
		Equals: map[string]string{s.regionField: region},
	}, attribute.String(observability.AttrRegion, region))
	if err != nil {
		s.notifier.Notice("Error al consultar la API: %s", describeError(err))
		s.notifier.Notice("   Verifique el nombre del departamento: %s", region)
		return nil
	}

	if table.IsEmpty() {
		s.notifier.Notice("Consulta exitosa pero sin registros para %s", region)
	} else {
		s.notifier.Notice("Consulta exitosa: %d registros obtenidos", table.Len())
	}
	return table
}

// QueryUnfiltered reads up to limit rows without a region predicate.
// It returns nil when the query fails.
func (s *CaseService) QueryUnfiltered(ctx context.Context, limit int) *domain.ResultTable {
	s.notifier.Notice("Probando consulta general (sin filtro de departamento)...")

	table, err := s.fetch(ctx, observability.ShapeUnfiltered, interfaces.SourceQuery{Limit: limit})
	if err != nil {
		s.notifier.Notice("Error en consulta general: %s", describeError(err))
		return nil
	}

	s.notifier.Notice("Consulta general exitosa: %d registros obtenidos", table.Len())
	return table
}

// ListRegions samples the dataset and returns its distinct department names,
// sorted. Failures yield an empty list.
func (s *CaseService) ListRegions(ctx context.Context) []string {
	s.notifier.Notice("Obteniendo lista de departamentos disponibles...")

	table, err := s.fetch(ctx, observability.ShapeRegions, interfaces.SourceQuery{Limit: s.regionSampleSize})
	if err != nil {
		s.notifier.Notice("Error al obtener departamentos: %s", describeError(err))
		return []string{}
	}
	return table.DistinctValues(s.regionField)
}

func (s *CaseService) fetch(ctx context.Context, shape string, query interfaces.SourceQuery, attrs ...attribute.KeyValue) (*domain.ResultTable, error) {
	ctx, queryID := sharedctx.EnsureQueryID(ctx)
	log := logger.New("service:cases")

	ctx, span := observability.Tracer().Start(ctx, "covidcol.source."+shape, trace.WithAttributes(
		append(attrs,
			attribute.String(observability.AttrQueryShape, shape),
			attribute.String(observability.AttrQueryID, queryID),
			attribute.Int(observability.AttrRowLimit, query.Limit),
		)...,
	))
	defer span.End()

	t0 := time.Now()
	records, err := s.connector.Fetch(ctx, query)
	durationMS := float64(time.Since(t0).Microseconds()) / 1000

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(observability.AttrErrorType, string(apperrors.CodeOf(err))))
		observability.RecordQuery(ctx, shape, false, 0, durationMS)
		log.PrintError(fmt.Sprintf("%s query %s failed", shape, queryID), err)
		return nil, err
	}

	table := domain.NewResultTable(records)
	span.SetAttributes(attribute.Int(observability.AttrRowCount, table.Len()))
	observability.RecordQuery(ctx, shape, true, table.Len(), durationMS)
	log.Debugf("%s query %s returned %d row(s) in %.0fms", shape, queryID, table.Len(), durationMS)
	return table, nil
}

// describeError renders a remote failure for the terminal.
func describeError(err error) string {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Code {
	case apperrors.ErrCodeConnectionFailed:
		return "no fue posible conectar con el servidor"
	case apperrors.ErrCodeRemoteUnavailable:
		return fmt.Sprintf("el servicio respondió %d (%s)", appErr.Status, appErr.Message)
	case apperrors.ErrCodeDecodeFailed:
		return "la respuesta del servicio no tiene un formato válido"
	case apperrors.ErrCodeInterrupted:
		return "consulta cancelada"
	}
	return appErr.Message
}

type discardNotifier struct{}

func (discardNotifier) Notice(string, ...any) {}
