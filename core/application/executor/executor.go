package executor

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
	"github.com/hyperterse/covidcol/core/logger"
	"github.com/hyperterse/covidcol/core/observability"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

// Outcome tells how a request was finally satisfied.
type Outcome string

const (
	// OutcomePrimary means the filtered query returned rows.
	OutcomePrimary Outcome = "primary"
	// OutcomeLocalMatch means the unfiltered rows were narrowed locally.
	OutcomeLocalMatch Outcome = "local-match"
	// OutcomeSample means nothing matched and a head sample is shown instead.
	OutcomeSample Outcome = "sample"
	// OutcomeUnfiltered means the fallback rows carry no region field to filter on.
	OutcomeUnfiltered Outcome = "unfiltered"
	// OutcomeEmpty means neither query produced rows.
	OutcomeEmpty Outcome = "empty"
)

// Resolution is the table chosen for display together with how it was found.
type Resolution struct {
	Request domain.QueryRequest
	Table   *domain.ResultTable
	Outcome Outcome
}

// Options tunes an Executor. Zero values take the dataset defaults.
type Options struct {
	RegionField        string
	FallbackSampleSize int
}

// Executor resolves a QueryRequest against a CaseSource, falling back to an
// unfiltered query and local filtering when the filtered query yields nothing.
type Executor struct {
	source             interfaces.CaseSource
	notifier           interfaces.Notifier
	regionField        string
	fallbackSampleSize int
}

// NewExecutor creates a new resolution executor
func NewExecutor(source interfaces.CaseSource, notifier interfaces.Notifier, opts Options) *Executor {
	if opts.RegionField == "" {
		opts.RegionField = "departamento_nom"
	}
	if opts.FallbackSampleSize <= 0 {
		opts.FallbackSampleSize = 10
	}
	if notifier == nil {
		notifier = discardNotifier{}
	}
	return &Executor{
		source:             source,
		notifier:           notifier,
		regionField:        opts.RegionField,
		fallbackSampleSize: opts.FallbackSampleSize,
	}
}

// Resolve runs the primary query and, when it yields nothing, the fallback
// query plus local filtering. The only error it returns is an interruption;
// remote failures surface as an empty resolution.
func (e *Executor) Resolve(ctx context.Context, req domain.QueryRequest) (*Resolution, error) {
	log := logger.New("executor")

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, span := observability.Tracer().Start(ctx, "covidcol.resolve", trace.WithAttributes(
		attribute.String(observability.AttrRegion, req.Region),
		attribute.Int(observability.AttrRowLimit, req.Limit),
	))
	defer span.End()

	e.notifier.Notice("Procesando consulta...")
	e.notifier.Notice("   Departamento: %s", req.Region)
	e.notifier.Notice("   Registros solicitados: %d", req.Limit)

	resolution, err := e.resolve(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Debugf("resolution for %s interrupted", req.Region)
		return nil, err
	}

	span.SetAttributes(
		attribute.String(observability.AttrOutcome, string(resolution.Outcome)),
		attribute.Int(observability.AttrRowCount, resolution.Table.Len()),
	)
	observability.RecordResolution(ctx, string(resolution.Outcome))
	log.Debugf("resolved %s/%d as %s with %d row(s)", req.Region, req.Limit, resolution.Outcome, resolution.Table.Len())
	return resolution, nil
}

func (e *Executor) resolve(ctx context.Context, req domain.QueryRequest) (*Resolution, error) {
	primary := e.source.QueryByRegion(ctx, req.Region, req.Limit)
	if err := interrupted(ctx); err != nil {
		return nil, err
	}
	if !primary.IsEmpty() {
		return &Resolution{Request: req, Table: primary, Outcome: OutcomePrimary}, nil
	}

	e.notifier.Notice("Intentando consulta general...")
	fallback := e.source.QueryUnfiltered(ctx, req.Limit)
	if err := interrupted(ctx); err != nil {
		return nil, err
	}
	if fallback.IsEmpty() {
		return &Resolution{Request: req, Table: domain.NewResultTable(nil), Outcome: OutcomeEmpty}, nil
	}

	return e.filterLocally(req, fallback), nil
}

// filterLocally narrows the unfiltered rows to the requested region, or keeps
// a head sample when none match.
func (e *Executor) filterLocally(req domain.QueryRequest, fallback *domain.ResultTable) *Resolution {
	if !fallback.HasColumn(e.regionField) {
		return &Resolution{Request: req, Table: fallback, Outcome: OutcomeUnfiltered}
	}

	matched := fallback.FilterByRegion(e.regionField, req.Region)
	if !matched.IsEmpty() {
		e.notifier.Notice("Filtrado local: %d registros para %s", matched.Len(), req.Region)
		return &Resolution{Request: req, Table: matched, Outcome: OutcomeLocalMatch}
	}

	e.notifier.Notice("No se encontraron datos para %s", req.Region)
	e.notifier.Notice("   Mostrando muestra de datos generales...")
	return &Resolution{Request: req, Table: fallback.Head(e.fallbackSampleSize), Outcome: OutcomeSample}
}

func interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.WrapError(apperrors.ErrCodeInterrupted, "query interrupted", err)
	}
	return nil
}

type discardNotifier struct{}

func (discardNotifier) Notice(string, ...any) {}
