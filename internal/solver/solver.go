// Package solver contains built-in strategies that play the default game
// modes to victory using only public simulation operations.
package solver

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/napolitain/tickworks/internal/catalog"
	"github.com/napolitain/tickworks/internal/game"
	"github.com/napolitain/tickworks/internal/logging"
)

var (
	// ErrBudgetExceeded is returned when a strategy runs out of ticks.
	ErrBudgetExceeded = errors.New("tick budget exceeded")

	// ErrUnknownMode is returned for modes without a built-in strategy.
	ErrUnknownMode = errors.New("no strategy for mode")

	// ErrMissingStart is returned when a mode lacks something a strategy needs.
	ErrMissingStart = errors.New("missing starting resource")
)

// DefaultBudget is the tick budget of a strategy when none is set.
const DefaultBudget = 100_000

// Solver plays modes against a catalog and records what it did
type Solver struct {
	Catalog *catalog.Catalog
	Budget  uint64
	Logger  *log.Logger
	Actions []Action
}

// Option configures a Solver
type Option func(*Solver)

// WithBudget sets the tick budget of every strategy run.
func WithBudget(ticks uint64) Option {
	return func(s *Solver) { s.Budget = ticks }
}

// WithLogger sets the logger used for progress messages. Without it the
// solver is silent.
func WithLogger(l *log.Logger) Option {
	return func(s *Solver) { s.Logger = l }
}

// NewSolver creates a solver for cat
func NewSolver(cat *catalog.Catalog, opts ...Option) *Solver {
	s := &Solver{
		Catalog: cat,
		Budget:  DefaultBudget,
		Logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Strategy returns the built-in strategy for a mode.
func (s *Solver) Strategy(mode string) (game.Strategy, error) {
	switch mode {
	case "tutorial":
		return s.Tutorial, nil
	case "standard":
		return s.Standard, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
}

func (s *Solver) record(tick uint64, kind ActionKind, format string, args ...any) {
	a := Action{Tick: tick, Kind: kind, Detail: fmt.Sprintf(format, args...)}
	s.Actions = append(s.Actions, a)
	s.Logger.Debug(string(kind), "tick", tick, "detail", a.Detail)
}

func (s *Solver) victoryAmount(mode string) (uint32, error) {
	m, err := s.Catalog.Mode(mode)
	if err != nil {
		return 0, err
	}
	return m.Victory.Amount, nil
}
