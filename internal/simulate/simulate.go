// Package simulate runs a single machine in isolation and reports what it
// produced. It answers what-if questions such as "how long does one furnace
// take to smelt forty ore" without playing a whole mode.
package simulate

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/napolitain/tickworks/internal/catalog"
	"github.com/napolitain/tickworks/internal/machine"
	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

// ErrInvalidParams is returned for parameters that cannot describe a run.
var ErrInvalidParams = errors.New("invalid simulation parameters")

// Env is what a stop condition can see. Buffers are keyed by resource name.
//
//	Outputs["copper"] >= 4
//	Tick > 100 && Inputs["iron_ore"] == 0
type Env struct {
	Tick    uint64
	Banked  uint64
	Inputs  map[string]uint32
	Outputs map[string]uint32
}

// Params describes one run.
type Params struct {
	Recipe string
	// Fill is how many cycles of input are loaded before the first tick.
	Fill uint32
	// Until is an expr condition over Env. Empty runs for MaxTicks.
	Until    string
	MaxTicks uint64
}

// Buffer is the content of one machine slot at the end of a run.
type Buffer struct {
	Resource string
	Amount   uint32
}

// Report is the outcome of a run.
type Report struct {
	Recipe  string
	Ticks   uint64
	Cycles  uint32
	Banked  uint64
	// Held reports whether the condition held before the budget ran out.
	Held    bool
	Inputs  []Buffer
	Outputs []Buffer
}

// Compile checks a stop condition and returns its program.
func Compile(src string) (*vm.Program, error) {
	prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile condition %q: %w", src, err)
	}
	return prog, nil
}

// Run builds a machine for the named recipe on a fresh clock, loads Fill
// cycles of input and advances until the condition holds or MaxTicks pass.
// Locked recipes can be simulated too.
func Run(cat *catalog.Catalog, p Params, opts ...tick.Option) (Report, error) {
	if p.MaxTicks == 0 {
		return Report{}, fmt.Errorf("%w: max ticks must be positive", ErrInvalidParams)
	}
	r, err := cat.Recipe(p.Recipe)
	if err != nil {
		return Report{}, err
	}

	var prog *vm.Program
	if p.Until != "" {
		if prog, err = Compile(p.Until); err != nil {
			return Report{}, err
		}
	}

	clock := tick.New(opts...)
	m := machine.New(clock, r)
	if p.Fill > 0 {
		for i, item := range r.Inputs {
			amount := resource.CheckedMul(uint64(item.Amount), p.Fill)
			m.Input(clock, i).Add(resource.Mint(item.Kind, amount))
		}
	}

	var evalErr error
	cond := func(t tick.Reader) bool {
		if prog == nil {
			return false
		}
		out, err := expr.Run(prog, snapshot(m, t))
		if err != nil {
			evalErr = fmt.Errorf("evaluate condition %q: %w", p.Until, err)
			return true
		}
		return out.(bool)
	}
	held := clock.AdvanceUntil(cond, p.MaxTicks)
	if evalErr != nil {
		return Report{}, evalErr
	}

	env := snapshot(m, clock)
	rep := Report{
		Recipe:  r.Name,
		Ticks:   clock.Cur(),
		Cycles:  env.Outputs[r.Outputs[0].Kind.Name()] / r.Outputs[0].Amount,
		Banked:  env.Banked,
		Held:    held,
		Inputs:  buffers(r.Inputs, env.Inputs),
		Outputs: buffers(r.Outputs, env.Outputs),
	}
	return rep, nil
}

func snapshot(m *machine.Machine, t tick.Reader) Env {
	r := m.Recipe()
	env := Env{
		Tick:    t.Cur(),
		Inputs:  make(map[string]uint32, len(r.Inputs)),
		Outputs: make(map[string]uint32, len(r.Outputs)),
	}
	for i, item := range r.Inputs {
		env.Inputs[item.Kind.Name()] = m.Input(t, i).Amount()
	}
	for i, item := range r.Outputs {
		env.Outputs[item.Kind.Name()] = m.Output(t, i).Amount()
	}
	env.Banked = m.Banked()
	return env
}

func buffers(items []recipe.Item, amounts map[string]uint32) []Buffer {
	out := make([]Buffer, len(items))
	for i, item := range items {
		name := item.Kind.Name()
		out[i] = Buffer{Resource: name, Amount: amounts[name]}
	}
	return out
}
