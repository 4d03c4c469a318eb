// Package game defines game modes and the harness that plays one.
package game

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/napolitain/tickworks/internal/research"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/territory"
	"github.com/napolitain/tickworks/internal/tick"
)

// Starting is everything a mode hands to the player at the first tick.
type Starting struct {
	bundles      map[resource.Kind]resource.Bundle
	territories  map[resource.Kind]*territory.Territory
	technologies map[string]*research.Technology
}

// NewStarting returns an empty set of starting resources.
func NewStarting() *Starting {
	return &Starting{
		bundles:      make(map[resource.Kind]resource.Bundle),
		territories:  make(map[resource.Kind]*territory.Territory),
		technologies: make(map[string]*research.Technology),
	}
}

// AddBundle adds b to the starting bundles, joining it with any bundle of
// the same kind.
func (s *Starting) AddBundle(b resource.Bundle) {
	if prev, ok := s.bundles[b.Kind()]; ok {
		b = resource.Join(prev, b)
	}
	s.bundles[b.Kind()] = b
}

func (s *Starting) AddTerritory(tr *territory.Territory) {
	s.territories[tr.Ore()] = tr
}

func (s *Starting) AddTechnology(t *research.Technology) {
	s.technologies[t.Name()] = t
}

// TakeBundle removes and returns the starting bundle of kind.
func (s *Starting) TakeBundle(kind resource.Kind) (resource.Bundle, bool) {
	b, ok := s.bundles[kind]
	delete(s.bundles, kind)
	return b, ok
}

// TakeBundles removes and returns every starting bundle, ordered by kind name.
func (s *Starting) TakeBundles() []resource.Bundle {
	out := make([]resource.Bundle, 0, len(s.bundles))
	for _, b := range s.bundles {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind().Name() < out[j].Kind().Name() })
	clear(s.bundles)
	return out
}

// Territories returns the starting territories ordered by ore name.
func (s *Starting) Territories() []*territory.Territory {
	out := make([]*territory.Territory, 0, len(s.territories))
	for _, tr := range s.territories {
		out = append(out, tr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ore().Name() < out[j].Ore().Name() })
	return out
}

// Territory returns the starting territory of ore.
func (s *Starting) Territory(ore resource.Kind) (*territory.Territory, bool) {
	tr, ok := s.territories[ore]
	return tr, ok
}

// TakeTechnology removes and returns a starting technology.
func (s *Starting) TakeTechnology(name string) (*research.Technology, bool) {
	t, ok := s.technologies[name]
	delete(s.technologies, name)
	return t, ok
}

// Summary lists the starting content in a stable order.
func (s *Starting) Summary() []string {
	var lines []string
	for _, b := range s.bundles {
		lines = append(lines, "bundle "+b.String())
	}
	for _, tr := range s.territories {
		lines = append(lines, "territory "+tr.String())
	}
	for name := range s.technologies {
		lines = append(lines, "technology "+name)
	}
	sort.Strings(lines)
	return lines
}

// Mode is a playable game mode.
type Mode struct {
	Name    string
	Victory resource.Cost
	// Start builds the starting resources at the clock's current tick.
	Start func(t tick.Reader) (*Starting, error)
}

// Strategy plays a mode. It receives the only clock of the run and must
// hand back that clock together with a bundle paying the victory cost.
type Strategy func(c *tick.Clock, start *Starting) (*tick.Clock, resource.Bundle, error)

// Result reports a finished run.
type Result struct {
	Mode  string
	Ticks uint64
}

// Harness plays exactly one mode per lifetime. A process creates one
// harness; the clock it hands out is the only time authority of the run.
type Harness struct {
	played  atomic.Bool
	logger  *log.Logger
	tickLog bool
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger handed to the clock.
func WithLogger(l *log.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithTickLog turns per-advance clock notifications on or off.
func WithTickLog(on bool) Option {
	return func(h *Harness) { h.tickLog = on }
}

func NewHarness(opts ...Option) *Harness {
	h := &Harness{logger: log.Default(), tickLog: true}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Play runs strategy on mode and checks the returned bundle pays the
// victory cost. Play panics when called a second time on the same harness
// or when the strategy returns a clock other than the one it was given.
func (h *Harness) Play(mode Mode, strategy Strategy) (Result, error) {
	if !h.played.CompareAndSwap(false, true) {
		panic("game: the harness already played; one clock per run")
	}

	clock := tick.New(tick.WithLogger(h.logger), tick.WithLogging(h.tickLog))
	start, err := mode.Start(clock)
	if err != nil {
		return Result{}, fmt.Errorf("mode %s: %w", mode.Name, err)
	}
	h.logger.Info("play", "mode", mode.Name, "victory", mode.Victory)

	returned, victory, err := strategy(clock, start)
	if err != nil {
		return Result{Mode: mode.Name, Ticks: clock.Cur()}, fmt.Errorf("mode %s: %w", mode.Name, err)
	}
	if returned != clock {
		panic("game: strategy returned a clock the harness did not create")
	}
	if err := resource.Pay([]resource.Cost{mode.Victory}, victory); err != nil {
		return Result{Mode: mode.Name, Ticks: clock.Cur()}, fmt.Errorf("mode %s: victory: %w", mode.Name, err)
	}

	result := Result{Mode: mode.Name, Ticks: clock.Cur()}
	h.logger.Info("victory", "mode", mode.Name, "ticks", result.Ticks)
	return result, nil
}
