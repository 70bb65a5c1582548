package interfaces

import (
	"context"

	"github.com/hyperterse/covidcol/core/domain"
)

// CaseSource is the query service contract. Implementations never return
// errors: a nil table means the query failed and a diagnostic was emitted.
type CaseSource interface {
	// QueryByRegion reads rows whose region field equals the upper-cased region
	QueryByRegion(ctx context.Context, region string, limit int) *domain.ResultTable

	// QueryUnfiltered reads rows without a region predicate
	QueryUnfiltered(ctx context.Context, limit int) *domain.ResultTable

	// ListRegions samples the dataset and returns the sorted distinct regions
	ListRegions(ctx context.Context) []string
}

// Notifier receives user-facing diagnostics.
type Notifier interface {
	Notice(format string, args ...any)
}
