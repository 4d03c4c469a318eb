// Package research implements technologies and the labs that produce
// their points.
//
// A technology is a recipe whose single output is a point kind unique to
// that technology. Researching it consumes the technology together with a
// bundle of exactly its point cost and hands back what it unlocks.
package research

import (
	"fmt"

	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/resource"
)

// Unlocks is what a technology hands out once researched.
type Unlocks struct {
	Recipes      []*recipe.Recipe
	Technologies []*Technology
}

// Technology is a researchable unlock with its own point kind.
type Technology struct {
	name       string
	cost       uint32
	points     resource.Kind
	recipe     *recipe.Recipe
	unlocks    Unlocks
	researched bool
}

// New creates a technology costing cost points. One point takes cycleTime
// ticks and consumes inputs in a lab.
func New(name string, cost uint32, cycleTime uint64, inputs []recipe.Item, unlocks Unlocks) (*Technology, error) {
	if cost == 0 {
		return nil, fmt.Errorf("%w: technology %s has a zero cost", recipe.ErrInvalid, name)
	}
	points := resource.UniqueKind(name + "_points")
	r := &recipe.Recipe{
		Name:      name,
		Category:  recipe.Lab,
		CycleTime: cycleTime,
		Inputs:    append([]recipe.Item(nil), inputs...),
		Outputs:   []recipe.Item{{Kind: points, Amount: 1}},
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("technology %s: %w", name, err)
	}
	return &Technology{name: name, cost: cost, points: points, recipe: r, unlocks: unlocks}, nil
}

func (t *Technology) Name() string { return t.name }

// Cost returns the number of points needed to research t.
func (t *Technology) Cost() uint32 { return t.cost }

// PointKind returns the point kind only t accepts.
func (t *Technology) PointKind() resource.Kind { return t.points }

// Recipe returns a copy of the lab recipe producing t's points.
func (t *Technology) Recipe() *recipe.Recipe { return t.recipe.Clone() }

// Researched reports whether t has been consumed.
func (t *Technology) Researched() bool { return t.researched }

// Research consumes t and points, returning the unlocks. points must be a
// bundle of exactly Cost() of t's point kind; otherwise a
// *resource.PaymentError is returned and nothing is consumed. Researching a
// technology twice panics.
func (t *Technology) Research(points resource.Bundle) (Unlocks, error) {
	if t.researched {
		panic(fmt.Sprintf("technology %s already researched", t.name))
	}
	if err := resource.Pay([]resource.Cost{{Kind: t.points, Amount: t.cost}}, points); err != nil {
		return Unlocks{}, fmt.Errorf("research %s: %w", t.name, err)
	}
	t.researched = true
	return t.unlocks, nil
}

func (t *Technology) String() string {
	return fmt.Sprintf("%s (%d points, %s)", t.name, t.cost, t.recipe)
}
