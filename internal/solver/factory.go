package solver

import (
	"fmt"

	"github.com/napolitain/tickworks/internal/building"
	"github.com/napolitain/tickworks/internal/game"
	"github.com/napolitain/tickworks/internal/models"
	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/research"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/territory"
	"github.com/napolitain/tickworks/internal/tick"
)

// feedCycles is how many cycles of input a machine is topped up to.
const feedCycles = 2

// factory is the player's side of a run: a stockpile plus every building,
// territory and lab placed so far. Resources only move between the stock
// and the buildings by explicit extract and insert.
type factory struct {
	solver   *Solver
	clock    *tick.Clock
	deadline uint64

	stock    map[resource.Kind]*resource.Resource
	reserved map[resource.Kind]uint32

	territories []*territory.Territory
	buildings   []*building.Building
	lab         *research.Lab
	labActive   bool

	unlocked  map[string]*recipe.Recipe
	handcraft []*recipe.Recipe
}

func (s *Solver) newFactory(c *tick.Clock, start *game.Starting) *factory {
	f := &factory{
		solver:      s,
		clock:       c,
		deadline:    c.Cur() + s.Budget,
		stock:       make(map[resource.Kind]*resource.Resource),
		reserved:    make(map[resource.Kind]uint32),
		territories: start.Territories(),
		unlocked:    make(map[string]*recipe.Recipe),
	}
	if f.deadline < c.Cur() {
		f.deadline = ^uint64(0)
	}
	for _, b := range start.TakeBundles() {
		f.store(b.Kind()).AddBundle(b)
	}
	for _, r := range s.Catalog.Recipes() {
		if !s.Catalog.Locked(r.Name) {
			f.unlock(r)
		}
	}
	return f
}

func (f *factory) unlock(r *recipe.Recipe) {
	f.unlocked[r.Name] = r
	if r.Handcraft {
		f.handcraft = append(f.handcraft, r)
	}
}

func (f *factory) recipe(name string) (*recipe.Recipe, error) {
	r, ok := f.unlocked[name]
	if !ok {
		return nil, fmt.Errorf("recipe %s is not unlocked", name)
	}
	return r.Clone(), nil
}

func (f *factory) store(kind resource.Kind) *resource.Resource {
	r, ok := f.stock[kind]
	if !ok {
		r = resource.Empty(kind)
		f.stock[kind] = r
	}
	return r
}

func (f *factory) have(kind resource.Kind) uint32 {
	return f.store(kind).Amount()
}

// spare is the stock of kind not set aside for the next purchase.
func (f *factory) spare(kind resource.Kind) uint32 {
	have, held := f.have(kind), f.reserved[kind]
	if have <= held {
		return 0
	}
	return have - held
}

func (f *factory) covers(costs []resource.Cost) bool {
	for _, c := range costs {
		if f.have(c.Kind) < c.Amount {
			return false
		}
	}
	return true
}

func (f *factory) takeAll(costs []resource.Cost) ([]resource.Bundle, error) {
	if !f.covers(costs) {
		return nil, fmt.Errorf("stock does not cover %v", costs)
	}
	bundles := make([]resource.Bundle, len(costs))
	for i, c := range costs {
		b, err := f.store(c.Kind).Bundle(c.Amount)
		if err != nil {
			return nil, err
		}
		bundles[i] = b
	}
	return bundles, nil
}

// collect moves mined ore and finished products into the stock.
func (f *factory) collect() {
	for _, tr := range f.territories {
		f.store(tr.Ore()).Add(tr.Resources(f.clock))
	}
	for _, b := range f.buildings {
		for i := range b.Recipe().Outputs {
			out := b.Output(f.clock, i)
			f.store(out.Kind()).Add(out)
		}
	}
}

// feed tops every machine input up to feedCycles cycles from spare stock,
// in build order.
func (f *factory) feed() {
	for _, b := range f.buildings {
		for i, item := range b.Recipe().Inputs {
			f.topUp(b.Input(f.clock, i), item.Amount*feedCycles)
		}
	}
	if f.labActive {
		for i, item := range f.lab.Technology().Recipe().Inputs {
			f.topUp(f.lab.Input(f.clock, i), item.Amount*feedCycles)
		}
	}
}

func (f *factory) topUp(buf *resource.Resource, target uint32) {
	if buf.Amount() >= target {
		return
	}
	n := min(target-buf.Amount(), f.spare(buf.Kind()))
	if n == 0 {
		return
	}
	part, err := f.store(buf.Kind()).SplitOff(n)
	if err != nil {
		panic(err)
	}
	buf.Add(part)
}

func (f *factory) pump() {
	f.collect()
	f.feed()
}

// work keeps the factory running until done holds. Each round hand-crafts
// a missing reserved intermediate when it can, or else hand-mines one ore.
func (f *factory) work(done func() bool) error {
	for {
		f.pump()
		if done() {
			return nil
		}
		if f.clock.Cur() >= f.deadline {
			return fmt.Errorf("%w: stopped at %s", ErrBudgetExceeded, f.clock)
		}
		crafted, err := f.craftMissing()
		if err != nil {
			return err
		}
		if !crafted {
			f.mine()
		}
	}
}

// craftMissing hand-crafts one cycle of a recipe producing a reserved kind
// the stock is short of.
func (f *factory) craftMissing() (bool, error) {
	for _, r := range f.handcraft {
		if !f.short(r.Outputs) || !f.spareCovers(r.Inputs) {
			continue
		}
		inputs, err := f.takeAll(r.InputCosts())
		if err != nil {
			return false, err
		}
		outputs, err := recipe.Craft(f.clock, r, inputs...)
		if err != nil {
			return false, err
		}
		for _, b := range outputs {
			f.store(b.Kind()).AddBundle(b)
		}
		return true, nil
	}
	return false, nil
}

func (f *factory) short(items []recipe.Item) bool {
	for _, item := range items {
		if f.have(item.Kind) < f.reserved[item.Kind] {
			return true
		}
	}
	return false
}

func (f *factory) spareCovers(items []recipe.Item) bool {
	for _, item := range items {
		if f.spare(item.Kind) < item.Amount {
			return false
		}
	}
	return true
}

// mine hand-mines one ore from the territory with the smallest ore stock.
func (f *factory) mine() {
	if len(f.territories) == 0 {
		f.clock.Advance()
		return
	}
	target := f.territories[0]
	for _, tr := range f.territories[1:] {
		if f.have(tr.Ore()) < f.have(target.Ore()) {
			target = tr
		}
	}
	f.store(target.Ore()).AddBundle(target.HandMine(f.clock, 1))
}

// obtain works until the stock covers costs, holding them back from the
// machines meanwhile.
func (f *factory) obtain(costs []resource.Cost) error {
	for _, c := range costs {
		f.reserved[c.Kind] += c.Amount
	}
	defer func() {
		for _, c := range costs {
			f.reserved[c.Kind] -= c.Amount
		}
	}()
	return f.work(func() bool { return f.covers(costs) })
}

func (f *factory) purchase(bt models.BuildingType) ([]resource.Cost, []resource.Bundle, error) {
	costs := f.solver.Catalog.Cost(bt)
	if err := f.obtain(costs); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", bt, err)
	}
	bundles, err := f.takeAll(costs)
	if err != nil {
		return nil, nil, err
	}
	return costs, bundles, nil
}

func (f *factory) build(typ building.Type, name string) (*building.Building, error) {
	r, err := f.recipe(name)
	if err != nil {
		return nil, err
	}
	costs, bundles, err := f.purchase(models.BuildingType(typ))
	if err != nil {
		return nil, err
	}
	b, err := building.Build(f.clock, typ, r, costs, bundles...)
	if err != nil {
		return nil, err
	}
	f.buildings = append(f.buildings, b)
	f.solver.record(f.clock.Cur(), ActionBuild, "%s running %s", typ, name)
	return b, nil
}

func (f *factory) territory(ore resource.Kind) (*territory.Territory, error) {
	for _, tr := range f.territories {
		if tr.Ore() == ore {
			return tr, nil
		}
	}
	return nil, fmt.Errorf("%w: %s territory", ErrMissingStart, ore.Name())
}

func (f *factory) placeMiner(ore resource.Kind) error {
	tr, err := f.territory(ore)
	if err != nil {
		return err
	}
	costs, bundles, err := f.purchase(models.Miner)
	if err != nil {
		return err
	}
	m, err := territory.BuildMiner(costs, bundles...)
	if err != nil {
		return err
	}
	if err := tr.AddMiner(f.clock, m); err != nil {
		return err
	}
	f.solver.record(f.clock.Cur(), ActionMiner, "on %s (%d/%d)", ore.Name(), tr.Miners(), tr.MaxMiners())
	return nil
}

func (f *factory) buildLab(tech *research.Technology) error {
	costs, bundles, err := f.purchase(models.Lab)
	if err != nil {
		return err
	}
	lab, err := research.BuildLab(f.clock, tech, costs, bundles...)
	if err != nil {
		return err
	}
	f.lab = lab
	f.labActive = true
	f.solver.record(f.clock.Cur(), ActionBuild, "lab researching %s", tech.Name())
	return nil
}

// research waits for the lab to bank the current technology's points and
// researches it, unlocking its recipes.
func (f *factory) research() (research.Unlocks, error) {
	tech := f.lab.Technology()
	err := f.work(func() bool { return f.lab.Points(f.clock).Amount() >= tech.Cost() })
	if err != nil {
		return research.Unlocks{}, fmt.Errorf("research %s: %w", tech.Name(), err)
	}
	points, err := f.lab.Points(f.clock).Bundle(tech.Cost())
	if err != nil {
		return research.Unlocks{}, err
	}
	unlocks, err := tech.Research(points)
	if err != nil {
		return research.Unlocks{}, err
	}
	for _, r := range unlocks.Recipes {
		f.unlock(r)
	}
	f.solver.record(f.clock.Cur(), ActionResearch, "%s", tech.Name())
	return unlocks, nil
}

// emptyLab moves everything left in the lab back to the stock.
func (f *factory) emptyLab() {
	for i := range f.lab.Technology().Recipe().Inputs {
		in := f.lab.Input(f.clock, i)
		f.store(in.Kind()).Add(in)
	}
	points := f.lab.Points(f.clock)
	f.store(points.Kind()).Add(points)
}

// retargetLab points the lab at tech, or idles it when tech is nil.
func (f *factory) retargetLab(tech *research.Technology) error {
	f.emptyLab()
	if tech == nil {
		f.labActive = false
		return nil
	}
	if err := f.lab.ChangeTechnology(f.clock, tech); err != nil {
		return err
	}
	f.solver.record(f.clock.Cur(), ActionRetarget, "lab researching %s", tech.Name())
	return nil
}

// convert empties b into the stock and switches it to the named recipe.
func (f *factory) convert(b *building.Building, name string) error {
	r, err := f.recipe(name)
	if err != nil {
		return err
	}
	old := b.Recipe()
	for i := range old.Inputs {
		in := b.Input(f.clock, i)
		f.store(in.Kind()).Add(in)
	}
	for i := range old.Outputs {
		out := b.Output(f.clock, i)
		f.store(out.Kind()).Add(out)
	}
	if err := b.ChangeRecipe(f.clock, r); err != nil {
		return err
	}
	f.solver.record(f.clock.Cur(), ActionRetarget, "%s from %s to %s", b.Type(), old.Name, name)
	return nil
}
