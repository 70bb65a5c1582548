package di

import (
	"errors"
	"io"

	"github.com/hyperterse/covidcol/core/application/executor"
	"github.com/hyperterse/covidcol/core/application/services"
	"github.com/hyperterse/covidcol/core/application/session"
	"github.com/hyperterse/covidcol/core/config"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
	infraconnectors "github.com/hyperterse/covidcol/core/infrastructure/connectors"
	"github.com/hyperterse/covidcol/core/presentation"
)

// Container holds all dependencies
type Container struct {
	Config      config.Config
	Connector   interfaces.Connector
	CaseService *services.CaseService
	Executor    *executor.Executor
	Presenter   *presentation.Presenter
}

// NewContainer wires config -> connector -> case service -> executor, with a
// presenter reading from in and writing to out.
func NewContainer(cfg config.Config, in io.Reader, out io.Writer) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	connector := infraconnectors.NewSocrataConnectorFromConfig(cfg)

	renderOpts := presentation.DefaultRenderOptions()
	renderOpts.MaxColWidth = cfg.MaxColWidth
	presenter := presentation.NewPresenter(in, out, presentation.Options{
		ConfirmThreshold: cfg.ConfirmThreshold,
		Render:           renderOpts,
	})

	caseService := services.NewCaseService(connector, presenter, services.Options{
		RegionField:      cfg.RegionField,
		RegionSampleSize: cfg.RegionSampleSize,
	})
	exec := executor.NewExecutor(caseService, presenter, executor.Options{
		RegionField:        cfg.RegionField,
		FallbackSampleSize: cfg.FallbackSampleSize,
	})

	return &Container{
		Config:      cfg,
		Connector:   connector,
		CaseService: caseService,
		Executor:    exec,
		Presenter:   presenter,
	}, nil
}

// NewSession creates an interactive session over the container's services.
func (c *Container) NewSession() *session.Session {
	return session.New(c.Presenter, c.Executor, session.Options{Columns: c.Config.Columns})
}

// Close closes all resources
func (c *Container) Close() error {
	var errs []error
	if c.Presenter != nil {
		errs = append(errs, c.Presenter.Close())
	}
	if c.Connector != nil {
		errs = append(errs, c.Connector.Close())
	}
	return errors.Join(errs...)
}
