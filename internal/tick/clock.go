// Package tick provides the logical clock that drives every simulation.
//
// Time only moves when the owner of the Clock advances it. Consumers that
// merely observe time accept a Reader; anything that takes time needs the
// *Clock itself.
package tick

import (
	"fmt"
	"math/bits"

	"github.com/charmbracelet/log"
)

// Reader gives read-only access to the current tick.
type Reader interface {
	Cur() uint64
}

// Clock is the single time authority of a run.
type Clock struct {
	tick    uint64
	logging bool
	logger  *log.Logger
}

// Option configures a Clock.
type Option func(*Clock)

// WithLogger sets the logger used for per-advance notifications.
func WithLogger(l *log.Logger) Option {
	return func(c *Clock) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithLogging toggles per-advance notifications.
func WithLogging(on bool) Option {
	return func(c *Clock) {
		c.logging = on
	}
}

// New creates a clock at tick 0. Advance notifications are on by default.
func New(opts ...Option) *Clock {
	c := &Clock{
		logging: true,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cur returns the current tick.
func (c *Clock) Cur() uint64 {
	return c.tick
}

// SetLogging toggles per-advance notifications. It has no effect on results.
func (c *Clock) SetLogging(on bool) {
	c.logging = on
}

// Advance moves time forward by one tick.
func (c *Clock) Advance() {
	c.AdvanceBy(1)
}

// AdvanceBy moves time forward by n ticks.
// Overflowing the tick counter panics: no honest run gets there.
func (c *Clock) AdvanceBy(n uint64) {
	next, carry := bits.Add64(c.tick, n, 0)
	if carry != 0 {
		panic(fmt.Sprintf("tick overflow: %d + %d does not fit in 64 bits", c.tick, n))
	}
	c.tick = next
	if c.logging {
		c.logger.Info("advance", "tick", c.tick, "by", n)
	}
}

// AdvanceTo moves time forward to target. Does nothing if target is not ahead.
func (c *Clock) AdvanceTo(target uint64) {
	if target > c.tick {
		c.AdvanceBy(target - c.tick)
	}
}

// AdvanceUntil advances one tick at a time until cond holds or maxTicks
// ticks have passed, checking cond before the first step and after every
// step. It reports whether cond held with budget to spare: a condition that
// first holds on the last tick of the budget, or a zero budget, reports
// false. Pass math.MaxUint64 for no budget.
//
// cond only sees a read-only view of the clock, so it can observe time but
// never move it.
func (c *Clock) AdvanceUntil(cond func(Reader) bool, maxTicks uint64) bool {
	start := c.tick
	v := view{c}
	for !cond(v) && c.tick-start < maxTicks {
		c.Advance()
	}
	return c.tick-start < maxTicks
}

// view exposes the current tick and nothing else.
type view struct {
	c *Clock
}

func (v view) Cur() uint64 {
	return v.c.tick
}

// String renders the clock as "Tick N".
func (c *Clock) String() string {
	return fmt.Sprintf("Tick %d", c.tick)
}
