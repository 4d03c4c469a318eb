// Package territory models ore fields worked by miners.
//
// A territory accumulates ore lazily: each sync credits one unit per miner
// for every mining step boundary crossed since the previous sync.
package territory

import (
	"fmt"
	"math/bits"

	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

// FullError is returned when adding a miner to a territory with no free
// slot. The rejected miner is handed back unspent.
type FullError struct {
	MaxMiners uint32
	Miner     Miner
}

func (e *FullError) Error() string {
	return fmt.Sprintf("territory full: all %d miner slots are taken", e.MaxMiners)
}

// Miner is a single-use token for one miner slot.
type Miner struct {
	seal *minerSeal
}

type minerSeal struct {
	spent bool
}

func newMiner() Miner {
	return Miner{seal: &minerSeal{}}
}

// BuildMiner pays costs with bundles and returns a miner.
func BuildMiner(costs []resource.Cost, bundles ...resource.Bundle) (Miner, error) {
	if err := resource.Pay(costs, bundles...); err != nil {
		return Miner{}, fmt.Errorf("build miner: %w", err)
	}
	return newMiner(), nil
}

// Valid reports whether m can still be placed.
func (m Miner) Valid() bool {
	return m.seal != nil && !m.seal.spent
}

func (m Miner) spend() {
	if !m.Valid() {
		panic("miner already placed or never built")
	}
	m.seal.spent = true
}

// Territory holds ore mined by its miners.
type Territory struct {
	ore       *resource.Resource
	cadence   uint64
	maxMiners uint32
	miners    uint32
	lastStep  uint64
	lastTick  uint64
}

// New opens a territory of ore with maxMiners slots. One mining step takes
// cadence ticks. New panics on a zero cadence.
func New(t tick.Reader, ore resource.Kind, maxMiners uint32, cadence uint64) *Territory {
	if cadence == 0 {
		panic("territory: cadence must be positive")
	}
	now := t.Cur()
	return &Territory{
		ore:       resource.Empty(ore),
		cadence:   cadence,
		maxMiners: maxMiners,
		lastStep:  now / cadence,
		lastTick:  now,
	}
}

func (tr *Territory) Ore() resource.Kind { return tr.ore.Kind() }
func (tr *Territory) Cadence() uint64    { return tr.cadence }
func (tr *Territory) MaxMiners() uint32  { return tr.maxMiners }
func (tr *Territory) Miners() uint32     { return tr.miners }

// Sync credits ore for the mining steps completed since the last sync.
func (tr *Territory) Sync(t tick.Reader) {
	now := t.Cur()
	if now < tr.lastTick {
		panic(fmt.Sprintf("territory: time went backwards from tick %d to %d", tr.lastTick, now))
	}
	step := now / tr.cadence
	if mined := resource.CheckedMul(step-tr.lastStep, tr.miners); mined > 0 {
		tr.ore.Add(resource.Mint(tr.ore.Kind(), mined))
	}
	tr.lastStep = step
	tr.lastTick = now
}

// Resources syncs and returns the accumulated ore.
func (tr *Territory) Resources(t tick.Reader) *resource.Resource {
	tr.Sync(t)
	return tr.ore
}

// AddMiner places m in a free slot. A full territory returns a *FullError
// carrying m unspent.
func (tr *Territory) AddMiner(t tick.Reader, m Miner) error {
	tr.Sync(t)
	if !m.Valid() {
		panic("territory: miner already placed or never built")
	}
	if tr.miners >= tr.maxMiners {
		return &FullError{MaxMiners: tr.maxMiners, Miner: m}
	}
	m.spend()
	tr.miners++
	return nil
}

// TakeMiner removes a miner, reporting false if there is none.
func (tr *Territory) TakeMiner(t tick.Reader) (Miner, bool) {
	tr.Sync(t)
	if tr.miners == 0 {
		return Miner{}, false
	}
	tr.miners--
	return newMiner(), true
}

// HandMine digs n ore by hand, advancing the clock by n mining steps.
// Placed miners keep working meanwhile.
func (tr *Territory) HandMine(c *tick.Clock, n uint32) resource.Bundle {
	tr.Sync(c)
	hi, ticks := bits.Mul64(uint64(n), tr.cadence)
	if hi != 0 {
		panic(fmt.Sprintf("territory: hand mining %d ore overflows the clock", n))
	}
	c.AdvanceBy(ticks)
	return resource.MintBundle(tr.ore.Kind(), n)
}

func (tr *Territory) String() string {
	return fmt.Sprintf("%s territory (%d/%d miners)", tr.ore.Kind().Name(), tr.miners, tr.maxMiners)
}
