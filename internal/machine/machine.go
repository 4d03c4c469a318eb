// Package machine runs a recipe over buffered inputs and outputs.
//
// A machine never runs in the background. Every access to a buffer first
// syncs the machine to the current tick, computing in one step how many
// whole cycles fit into the elapsed time and the available inputs.
package machine

import (
	"fmt"
	"math"

	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

// Slot identifies a buffer side.
type Slot string

const (
	InputSlot  Slot = "input"
	OutputSlot Slot = "output"
)

// NotEmptyError is returned when a recipe change finds a nonempty buffer.
// The machine it carries is unchanged and still usable.
type NotEmptyError struct {
	Machine  *Machine
	Slot     Slot
	Resource string
	Amount   uint32
}

func (e *NotEmptyError) Error() string {
	return fmt.Sprintf("machine not empty: %s buffer holds %d %s", e.Slot, e.Amount, e.Resource)
}

// Machine executes one recipe.
type Machine struct {
	recipe   *recipe.Recipe
	inputs   []*resource.Resource
	outputs  []*resource.Resource
	lastTick uint64
	carried  uint64
	retired  bool
}

// New creates an empty machine for r at the current tick. The recipe is
// copied; later edits to r do not affect the machine. New panics if r is
// not valid.
func New(t tick.Reader, r *recipe.Recipe) *Machine {
	if err := r.Validate(); err != nil {
		panic(err)
	}
	r = r.Clone()
	m := &Machine{
		recipe:   r,
		inputs:   make([]*resource.Resource, len(r.Inputs)),
		outputs:  make([]*resource.Resource, len(r.Outputs)),
		lastTick: t.Cur(),
	}
	for i, item := range r.Inputs {
		m.inputs[i] = resource.Empty(item.Kind)
	}
	for i, item := range r.Outputs {
		m.outputs[i] = resource.Empty(item.Kind)
	}
	return m
}

// Recipe returns a copy of the recipe the machine runs.
func (m *Machine) Recipe() *recipe.Recipe {
	return m.recipe.Clone()
}

// LastTick returns the tick of the latest sync.
func (m *Machine) LastTick() uint64 {
	return m.lastTick
}

// Banked returns the progress carried towards the next cycle as of the
// latest sync.
func (m *Machine) Banked() uint64 {
	return m.carried
}

// Sync brings the machine up to the current tick.
func (m *Machine) Sync(t tick.Reader) {
	m.mustBeActive()
	now := t.Cur()
	if now < m.lastTick {
		panic(fmt.Sprintf("machine: time went backwards from tick %d to %d", m.lastTick, now))
	}
	m.carried += now - m.lastTick

	cycles := uint64(math.MaxUint64)
	if m.recipe.CycleTime > 0 {
		cycles = m.carried / m.recipe.CycleTime
	}
	for i, item := range m.recipe.Inputs {
		cycles = min(cycles, uint64(m.inputs[i].Amount()/item.Amount))
	}

	if cycles > 0 {
		for i, item := range m.recipe.Inputs {
			if _, err := m.inputs[i].SplitOff(resource.CheckedMul(cycles, item.Amount)); err != nil {
				panic(err)
			}
		}
		for i, item := range m.recipe.Outputs {
			m.outputs[i].Add(resource.Mint(item.Kind, resource.CheckedMul(cycles, item.Amount)))
		}
		m.carried -= cycles * m.recipe.CycleTime
	}

	// A machine that cannot start its next cycle loses the partial one.
	for i, item := range m.recipe.Inputs {
		if m.inputs[i].Amount() < item.Amount {
			m.carried = 0
			break
		}
	}
	m.lastTick = now
}

// Input syncs and returns the i-th input buffer.
func (m *Machine) Input(t tick.Reader, i int) *resource.Resource {
	m.Sync(t)
	return m.inputs[i]
}

// Output syncs and returns the i-th output buffer.
func (m *Machine) Output(t tick.Reader, i int) *resource.Resource {
	m.Sync(t)
	return m.outputs[i]
}

// InputOf syncs and returns the input buffer holding kind.
func (m *Machine) InputOf(t tick.Reader, kind resource.Kind) (*resource.Resource, bool) {
	m.Sync(t)
	return find(m.inputs, kind)
}

// OutputOf syncs and returns the output buffer holding kind.
func (m *Machine) OutputOf(t tick.Reader, kind resource.Kind) (*resource.Resource, bool) {
	m.Sync(t)
	return find(m.outputs, kind)
}

func find(buffers []*resource.Resource, kind resource.Kind) (*resource.Resource, bool) {
	for _, b := range buffers {
		if b.Kind() == kind {
			return b, true
		}
	}
	return nil, false
}

// ChangeRecipe replaces the machine with an empty one running r, starting
// at the current tick. Every buffer must be empty after syncing; otherwise
// a *NotEmptyError names the first nonempty buffer, inputs first, and m
// stays usable. On success m is retired and must not be used again.
func (m *Machine) ChangeRecipe(t tick.Reader, r *recipe.Recipe) (*Machine, error) {
	m.Sync(t)
	if err := m.checkEmpty(); err != nil {
		return m, err
	}
	next := New(t, r)
	m.retired = true
	return next, nil
}

func (m *Machine) checkEmpty() error {
	for _, side := range []struct {
		slot    Slot
		buffers []*resource.Resource
	}{{InputSlot, m.inputs}, {OutputSlot, m.outputs}} {
		for _, b := range side.buffers {
			if b.Amount() > 0 {
				return &NotEmptyError{Machine: m, Slot: side.slot, Resource: b.Kind().Name(), Amount: b.Amount()}
			}
		}
	}
	return nil
}

func (m *Machine) mustBeActive() {
	if m.retired {
		panic(fmt.Sprintf("machine: %s was replaced by a recipe change", m.recipe.Name))
	}
}

func (m *Machine) String() string {
	return fmt.Sprintf("%s machine at tick %d (banked %d)", m.recipe.Name, m.lastTick, m.carried)
}
