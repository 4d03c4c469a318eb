// Package recipe describes transformations as resolved tables: per-cycle
// input and output amounts plus a cycle time in ticks.
package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

// Category is the kind of building a recipe runs in.
type Category string

const (
	Furnace   Category = "furnace"
	Assembler Category = "assembler"
	Lab       Category = "lab"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid recipe")

	// ErrNotHandcraftable is returned when crafting a recipe that needs a building.
	ErrNotHandcraftable = errors.New("recipe cannot be crafted by hand")
)

// Item is a per-cycle amount of one kind.
type Item struct {
	Kind   resource.Kind
	Amount uint32
}

func (i Item) String() string {
	return fmt.Sprintf("%d %s", i.Amount, i.Kind.Name())
}

// Recipe is a resolved transformation table.
type Recipe struct {
	Name      string
	Category  Category
	CycleTime uint64 // ticks per cycle; 0 means only inputs bound a batch
	Inputs    []Item
	Outputs   []Item
	Handcraft bool
}

// Validate checks the table can be executed by a machine.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalid)
	}
	if len(r.Outputs) == 0 {
		return fmt.Errorf("%w: %s has no outputs", ErrInvalid, r.Name)
	}
	if r.CycleTime == 0 && len(r.Inputs) == 0 {
		return fmt.Errorf("%w: %s has neither inputs nor a cycle time", ErrInvalid, r.Name)
	}
	if err := validateItems(r.Name, "input", r.Inputs); err != nil {
		return err
	}
	return validateItems(r.Name, "output", r.Outputs)
}

func validateItems(name, side string, items []Item) error {
	seen := make(map[resource.Kind]bool, len(items))
	for i, item := range items {
		if item.Kind.IsZero() {
			return fmt.Errorf("%w: %s %s %d has no resource kind", ErrInvalid, name, side, i)
		}
		if item.Amount == 0 {
			return fmt.Errorf("%w: %s %s %s has a zero amount", ErrInvalid, name, side, item.Kind.Name())
		}
		if seen[item.Kind] {
			return fmt.Errorf("%w: %s lists %s %s twice", ErrInvalid, name, side, item.Kind.Name())
		}
		seen[item.Kind] = true
	}
	return nil
}

// Clone returns a deep copy of r.
func (r *Recipe) Clone() *Recipe {
	clone := *r
	clone.Inputs = append([]Item(nil), r.Inputs...)
	clone.Outputs = append([]Item(nil), r.Outputs...)
	return &clone
}

// InputCosts returns the inputs of one cycle as costs.
func (r *Recipe) InputCosts() []resource.Cost {
	return itemCosts(r.Inputs)
}

// OutputCosts returns the outputs of one cycle as costs.
func (r *Recipe) OutputCosts() []resource.Cost {
	return itemCosts(r.Outputs)
}

func itemCosts(items []Item) []resource.Cost {
	costs := make([]resource.Cost, len(items))
	for i, item := range items {
		costs[i] = resource.Cost{Kind: item.Kind, Amount: item.Amount}
	}
	return costs
}

// String renders the recipe as "2 iron_ore -> 1 iron (10 ticks)".
func (r *Recipe) String() string {
	return fmt.Sprintf("%s -> %s (%d ticks)", joinItems(r.Inputs), joinItems(r.Outputs), r.CycleTime)
}

func joinItems(items []Item) string {
	if len(items) == 0 {
		return "nothing"
	}
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.String()
	}
	return strings.Join(parts, " + ")
}

// Craft runs one cycle of a hand-craftable recipe. The inputs must be
// exactly one cycle's worth, in recipe order. Crafting takes the recipe's
// cycle time on the clock and returns one bundle per output.
func Craft(c *tick.Clock, r *Recipe, inputs ...resource.Bundle) ([]resource.Bundle, error) {
	if !r.Handcraft {
		return nil, fmt.Errorf("%s: %w", r.Name, ErrNotHandcraftable)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := resource.Pay(r.InputCosts(), inputs...); err != nil {
		return nil, fmt.Errorf("craft %s: %w", r.Name, err)
	}

	c.AdvanceBy(r.CycleTime)

	outputs := make([]resource.Bundle, len(r.Outputs))
	for i, item := range r.Outputs {
		outputs[i] = resource.MintBundle(item.Kind, item.Amount)
	}
	return outputs, nil
}
