package interfaces

import (
	"context"

	"github.com/hyperterse/covidcol/core/domain"
)

// Presenter is the terminal side of the interactive session.
type Presenter interface {
	Notifier

	Banner()
	RenderMenu()
	ReadMenuChoice(ctx context.Context) (string, error)
	QueryStarted()
	CollectQueryParameters(ctx context.Context) (domain.QueryRequest, error)
	RenderTable(t *domain.DisplayTable)
	RenderNoResults()
	Pause(ctx context.Context) error
	InvalidOption()
	UnexpectedError(err error)
	Farewell()
	Interrupted()
}
