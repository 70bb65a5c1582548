package session

import (
	"context"
	"fmt"

	"github.com/hyperterse/covidcol/core/application/executor"
	"github.com/hyperterse/covidcol/core/domain"
	"github.com/hyperterse/covidcol/core/domain/interfaces"
	"github.com/hyperterse/covidcol/core/logger"
	sharedctx "github.com/hyperterse/covidcol/core/shared/context"
	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

// State is a step of the interactive loop.
type State int

const (
	StateMenu State = iota
	StateQueryPrimary
	StateQueryFallback
	StateLocalFilter
	StateDisplay
	StateExit
)

func (s State) String() string {
	switch s {
	case StateMenu:
		return "MENU"
	case StateQueryPrimary:
		return "QUERY_PRIMARY"
	case StateQueryFallback:
		return "QUERY_FALLBACK"
	case StateLocalFilter:
		return "LOCAL_FILTER"
	case StateDisplay:
		return "DISPLAY"
	case StateExit:
		return "EXIT"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Resolver turns a request into the table to display.
type Resolver interface {
	Resolve(ctx context.Context, req domain.QueryRequest) (*executor.Resolution, error)
}

// Options tunes a Session.
type Options struct {
	// Columns is the display projection. Empty means domain.DefaultColumns.
	Columns []domain.Column
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// Session is the interactive menu loop.
type Session struct {
	presenter interfaces.Presenter
	resolver  Resolver
	columns   []domain.Column
	observe   func(from, to State)

	state   State
	pending *executor.Resolution
	log     *logger.Logger
}

// New creates a session in the MENU state.
func New(presenter interfaces.Presenter, resolver Resolver, opts Options) *Session {
	if len(opts.Columns) == 0 {
		opts.Columns = domain.DefaultColumns()
	}
	return &Session{
		presenter: presenter,
		resolver:  resolver,
		columns:   opts.Columns,
		observe:   opts.OnTransition,
		state:     StateMenu,
		log:       logger.New("session"),
	}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Run loops until the user leaves or interrupts. Failures inside an
// iteration are reported and the loop goes back to the menu.
func (s *Session) Run(ctx context.Context) error {
	sessionID := sharedctx.GenerateID()
	ctx = sharedctx.WithSessionID(ctx, sessionID)
	s.log.Debugf("session %s started", sessionID)

	s.presenter.Banner()
	for s.state != StateExit {
		err := s.step(ctx)
		if err == nil {
			continue
		}
		if s.interrupted(ctx, err) {
			s.presenter.Interrupted()
			s.transition(StateExit)
			s.log.Debugf("session %s interrupted", sessionID)
			return nil
		}

		s.log.PrintError("session iteration failed", err)
		s.presenter.UnexpectedError(err)
		s.pending = nil
		s.transition(StateMenu)
		if err := s.presenter.Pause(ctx); err != nil {
			s.transition(StateExit)
			if s.interrupted(ctx, err) {
				s.presenter.Interrupted()
				return nil
			}
			// Input that fails right after a failure will keep failing.
			return err
		}
	}

	s.presenter.Farewell()
	s.log.Debugf("session %s finished", sessionID)
	return nil
}

func (s *Session) interrupted(ctx context.Context, err error) bool {
	return apperrors.IsInterrupted(err) || ctx.Err() != nil
}

// step runs the current state once. Panics are converted to errors so the
// loop survives them.
func (s *Session) step(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewAppError(apperrors.ErrCodeInternalError, fmt.Sprint(r), nil)
		}
	}()

	switch s.state {
	case StateMenu:
		return s.menu(ctx)
	case StateQueryPrimary:
		return s.query(ctx)
	case StateDisplay:
		return s.display(ctx)
	}
	return apperrors.NewAppError(apperrors.ErrCodeInternalError, fmt.Sprintf("no step for state %s", s.state), nil)
}

func (s *Session) menu(ctx context.Context) error {
	s.presenter.RenderMenu()
	choice, err := s.presenter.ReadMenuChoice(ctx)
	if err != nil {
		return err
	}

	switch choice {
	case "1":
		s.presenter.QueryStarted()
		s.transition(StateQueryPrimary)
	case "2":
		s.transition(StateExit)
	default:
		s.presenter.InvalidOption()
	}
	return nil
}

func (s *Session) query(ctx context.Context) error {
	req, err := s.presenter.CollectQueryParameters(ctx)
	if err != nil {
		return err
	}

	resolution, err := s.resolver.Resolve(ctx, req)
	if err != nil {
		return err
	}

	switch resolution.Outcome {
	case executor.OutcomeEmpty, executor.OutcomeUnfiltered:
		s.transition(StateQueryFallback)
	case executor.OutcomeLocalMatch, executor.OutcomeSample:
		s.transition(StateQueryFallback)
		s.transition(StateLocalFilter)
	}
	s.pending = resolution
	s.transition(StateDisplay)
	return nil
}

func (s *Session) display(ctx context.Context) error {
	var table *domain.DisplayTable
	if s.pending != nil {
		table = domain.Project(s.pending.Table, s.columns)
	}
	s.pending = nil

	s.presenter.RenderTable(table)
	if table.Len() == 0 {
		s.presenter.RenderNoResults()
	}

	s.transition(StateMenu)
	return s.presenter.Pause(ctx)
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	s.log.Debugf("%s -> %s", from, to)
	if s.observe != nil {
		s.observe(from, to)
	}
}
