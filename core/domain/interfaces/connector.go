package interfaces

import (
	"context"

	"github.com/hyperterse/covidcol/core/domain"
)

// SourceQuery describes one read against the remote dataset.
type SourceQuery struct {
	// Limit is the row cap sent to the source.
	Limit int
	// Equals holds field equality predicates. Empty means unfiltered.
	Equals map[string]string
}

// Connector defines the interface for remote tabular data sources
type Connector interface {
	// Fetch runs a single read against the dataset. No retries are performed.
	Fetch(ctx context.Context, query SourceQuery) ([]domain.RawRecord, error)

	// Close releases idle connections
	Close() error
}
