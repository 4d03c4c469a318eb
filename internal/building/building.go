// Package building wraps machines in the buildings that run them.
package building

import (
	"errors"
	"fmt"

	"github.com/napolitain/tickworks/internal/machine"
	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

// Type represents a building type
type Type string

const (
	Furnace   Type = "furnace"
	Assembler Type = "assembler"
)

// Category returns the recipe category the building runs.
func (t Type) Category() recipe.Category {
	return recipe.Category(t)
}

// ErrWrongCategory is returned when a recipe does not run in a building type.
var ErrWrongCategory = errors.New("recipe does not run in this building")

// Building is a stable handle on a machine. Recipe changes swap the
// machine underneath; the handle stays valid.
type Building struct {
	typ     Type
	machine *machine.Machine
}

// Build pays costs with bundles and returns a building of typ running r
// from the current tick. Nothing is spent if r is the wrong category or the
// payment does not match.
func Build(t tick.Reader, typ Type, r *recipe.Recipe, costs []resource.Cost, bundles ...resource.Bundle) (*Building, error) {
	if err := checkCategory(typ, r); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := resource.Pay(costs, bundles...); err != nil {
		return nil, fmt.Errorf("build %s: %w", typ, err)
	}
	return &Building{typ: typ, machine: machine.New(t, r)}, nil
}

func checkCategory(typ Type, r *recipe.Recipe) error {
	if r.Category != typ.Category() {
		return fmt.Errorf("%w: %s is a %s recipe, not %s", ErrWrongCategory, r.Name, r.Category, typ)
	}
	return nil
}

// Type returns the building type.
func (b *Building) Type() Type { return b.typ }

// Recipe returns a copy of the current recipe.
func (b *Building) Recipe() *recipe.Recipe { return b.machine.Recipe() }

// Machine returns the machine currently inside the building.
func (b *Building) Machine() *machine.Machine { return b.machine }

func (b *Building) Input(t tick.Reader, i int) *resource.Resource  { return b.machine.Input(t, i) }
func (b *Building) Output(t tick.Reader, i int) *resource.Resource { return b.machine.Output(t, i) }

func (b *Building) InputOf(t tick.Reader, kind resource.Kind) (*resource.Resource, bool) {
	return b.machine.InputOf(t, kind)
}

func (b *Building) OutputOf(t tick.Reader, kind resource.Kind) (*resource.Resource, bool) {
	return b.machine.OutputOf(t, kind)
}

// ChangeRecipe switches the building to r. The building must be empty; a
// *machine.NotEmptyError is returned otherwise and the old recipe keeps
// running. An invalid r is rejected before the machine is touched.
func (b *Building) ChangeRecipe(t tick.Reader, r *recipe.Recipe) error {
	if err := checkCategory(b.typ, r); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("%s: %w", b.typ, err)
	}
	next, err := b.machine.ChangeRecipe(t, r)
	if err != nil {
		return fmt.Errorf("%s: %w", b.typ, err)
	}
	b.machine = next
	return nil
}

func (b *Building) String() string {
	return fmt.Sprintf("%s running %s", b.typ, b.machine.Recipe().Name)
}
