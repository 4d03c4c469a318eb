package solver

import (
	"fmt"

	"github.com/napolitain/tickworks/internal/building"
	"github.com/napolitain/tickworks/internal/game"
	"github.com/napolitain/tickworks/internal/models"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/tick"
)

// Tutorial smelts hand-mined copper ore in a single furnace.
func (s *Solver) Tutorial(c *tick.Clock, start *game.Starting) (*tick.Clock, resource.Bundle, error) {
	cat := s.Catalog
	goal, err := s.victoryAmount("tutorial")
	if err != nil {
		return c, resource.Bundle{}, err
	}
	copperOre, copper := cat.Kind("copper_ore"), cat.Kind("copper")

	iron, ok := start.TakeBundle(cat.Kind("iron"))
	if !ok {
		return c, resource.Bundle{}, fmt.Errorf("%w: iron", ErrMissingStart)
	}
	tr, ok := start.Territory(copperOre)
	if !ok {
		return c, resource.Bundle{}, fmt.Errorf("%w: copper_ore territory", ErrMissingStart)
	}
	smelting, err := cat.Recipe("copper_smelting")
	if err != nil {
		return c, resource.Bundle{}, err
	}

	furnace, err := building.Build(c, building.Furnace, smelting, cat.Cost(models.Furnace), iron)
	if err != nil {
		return c, resource.Bundle{}, err
	}
	s.record(c.Cur(), ActionBuild, "furnace running %s", smelting.Name)

	perCycle := smelting.Inputs[0].Amount
	ore := tr.HandMine(c, goal*perCycle)
	in, _ := furnace.InputOf(c, copperOre)
	in.AddBundle(ore)

	output := func() *resource.Resource {
		out, _ := furnace.OutputOf(c, copper)
		return out
	}
	if !c.AdvanceUntil(func(tick.Reader) bool { return output().Amount() >= goal }, s.Budget) {
		return c, resource.Bundle{}, fmt.Errorf("%w: tutorial stopped at %s", ErrBudgetExceeded, c)
	}

	victory, err := output().Bundle(goal)
	if err != nil {
		return c, resource.Bundle{}, err
	}
	s.record(c.Cur(), ActionVictory, "%s", victory)
	return c, victory, nil
}

// step is one stage of a build order.
type step struct {
	name string
	run  func(f *factory) error
}

func buildStep(typ building.Type, recipeName string) step {
	return step{
		name: fmt.Sprintf("%s %s", typ, recipeName),
		run: func(f *factory) error {
			_, err := f.build(typ, recipeName)
			return err
		},
	}
}

func minerStep(ore string) step {
	return step{
		name: "miner " + ore,
		run: func(f *factory) error {
			return f.placeMiner(f.solver.Catalog.Kind(ore))
		},
	}
}

// standardOrder bootstraps smelting and mining, brings up the circuit and
// science chain, researches steel then points, and turns the science
// assembler into a point assembler once points are unlocked.
func standardOrder(start *game.Starting) []step {
	order := []step{
		buildStep(building.Furnace, "iron_smelting"),
		buildStep(building.Furnace, "copper_smelting"),
		minerStep("iron_ore"),
		minerStep("copper_ore"),
		buildStep(building.Furnace, "iron_smelting"),
		minerStep("iron_ore"),
		buildStep(building.Furnace, "iron_smelting"),
		buildStep(building.Furnace, "copper_smelting"),
		buildStep(building.Assembler, "copper_wire"),
		buildStep(building.Assembler, "electronic_circuit"),
		buildStep(building.Assembler, "red_science"),
		{
			name: "lab",
			run: func(f *factory) error {
				tech, ok := start.TakeTechnology("steel")
				if !ok {
					return fmt.Errorf("%w: steel technology", ErrMissingStart)
				}
				return f.buildLab(tech)
			},
		},
		minerStep("iron_ore"),
		buildStep(building.Furnace, "iron_smelting"),
		buildStep(building.Furnace, "iron_smelting"),
		minerStep("iron_ore"),
		buildStep(building.Furnace, "iron_smelting"),
		minerStep("copper_ore"),
		buildStep(building.Furnace, "copper_smelting"),
		{
			name: "research steel",
			run: func(f *factory) error {
				unlocks, err := f.research()
				if err != nil {
					return err
				}
				if len(unlocks.Technologies) == 0 {
					return fmt.Errorf("%w: steel unlocks no further technology", ErrMissingStart)
				}
				return f.retargetLab(unlocks.Technologies[0])
			},
		},
		buildStep(building.Furnace, "steel_smelting"),
		buildStep(building.Furnace, "steel_smelting"),
		{
			name: "research points",
			run: func(f *factory) error {
				if _, err := f.research(); err != nil {
					return err
				}
				return f.retargetLab(nil)
			},
		},
		{
			name: "convert science assembler",
			run: func(f *factory) error {
				for _, b := range f.buildings {
					if b.Recipe().Name == "red_science" {
						return f.convert(b, "point")
					}
				}
				return fmt.Errorf("no red_science assembler to convert")
			},
		},
		buildStep(building.Assembler, "point"),
	}
	return order
}

// Standard plays the standard mode: it builds a full production chain from
// ten iron and two ore fields and produces points until victory.
func (s *Solver) Standard(c *tick.Clock, start *game.Starting) (*tick.Clock, resource.Bundle, error) {
	goal, err := s.victoryAmount("standard")
	if err != nil {
		return c, resource.Bundle{}, err
	}
	order := standardOrder(start)
	f := s.newFactory(c, start)

	for i, st := range order {
		if err := st.run(f); err != nil {
			return c, resource.Bundle{}, fmt.Errorf("step %d (%s): %w", i+1, st.name, err)
		}
		s.Logger.Info("step done", "step", st.name, "tick", c.Cur())
	}

	point := s.Catalog.Kind("point")
	if err := f.work(func() bool { return f.have(point) >= goal }); err != nil {
		return c, resource.Bundle{}, fmt.Errorf("produce points: %w", err)
	}
	victory, err := f.store(point).Bundle(goal)
	if err != nil {
		return c, resource.Bundle{}, err
	}
	s.record(c.Cur(), ActionVictory, "%s", victory)
	return c, victory, nil
}
