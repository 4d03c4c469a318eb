// Package catalog resolves declared game data into runtime values.
package catalog

import (
	"errors"
	"fmt"

	"github.com/napolitain/tickworks/internal/game"
	"github.com/napolitain/tickworks/internal/loader"
	"github.com/napolitain/tickworks/internal/models"
	"github.com/napolitain/tickworks/internal/recipe"
	"github.com/napolitain/tickworks/internal/research"
	"github.com/napolitain/tickworks/internal/resource"
	"github.com/napolitain/tickworks/internal/territory"
	"github.com/napolitain/tickworks/internal/tick"
)

// ErrUnknown is returned for names the catalog does not know.
var ErrUnknown = errors.New("unknown name")

// Catalog holds resolved recipes, technology declarations, build costs and
// modes.
type Catalog struct {
	miningTicks uint64
	recipes     []*recipe.Recipe
	byName      map[string]*recipe.Recipe
	techs       map[string]models.Technology
	costs       map[models.BuildingType][]resource.Cost
	modes       []models.Mode
	resources   []string
	locked      map[string]bool
}

// Default resolves the embedded game data.
func Default() (*Catalog, error) {
	g, err := loader.LoadDefault()
	if err != nil {
		return nil, err
	}
	return FromGameData(g)
}

// Load resolves the game data file at path, or the embedded data when path
// is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	g, err := loader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return FromGameData(g)
}

// FromGameData resolves g.
func FromGameData(g *models.GameData) (*Catalog, error) {
	if err := loader.Check(g); err != nil {
		return nil, err
	}
	if g.MiningTicks == 0 {
		return nil, fmt.Errorf("%w: mining ticks must be positive", recipe.ErrInvalid)
	}

	c := &Catalog{
		miningTicks: g.MiningTicks,
		byName:      make(map[string]*recipe.Recipe, len(g.Recipes)),
		techs:       make(map[string]models.Technology, len(g.Technologies)),
		costs:       make(map[models.BuildingType][]resource.Cost, len(g.Buildings)),
		modes:       g.Modes,
		resources:   g.ResourceNames(),
		locked:      make(map[string]bool),
	}

	for _, decl := range g.Recipes {
		r := &recipe.Recipe{
			Name:      decl.Name,
			Category:  recipe.Category(decl.Building),
			CycleTime: decl.Ticks,
			Inputs:    items(decl.Inputs),
			Outputs:   items(decl.Outputs),
			Handcraft: decl.Handcraft,
		}
		if err := r.Validate(); err != nil {
			return nil, err
		}
		c.recipes = append(c.recipes, r)
		c.byName[r.Name] = r
	}

	for _, decl := range g.Technologies {
		// Instantiating once checks the declaration; Technology hands out
		// fresh instances.
		if _, err := research.New(decl.Name, decl.Cost, decl.Ticks, items(decl.Inputs), research.Unlocks{}); err != nil {
			return nil, err
		}
		c.techs[decl.Name] = decl
		for _, name := range decl.Unlocks.Recipes {
			c.locked[name] = true
		}
	}

	for bt, amounts := range g.Buildings {
		c.costs[bt] = costs(amounts)
	}
	return c, nil
}

func items(amounts []models.Amount) []recipe.Item {
	out := make([]recipe.Item, len(amounts))
	for i, a := range amounts {
		out[i] = recipe.Item{Kind: resource.NewKind(a.Resource), Amount: a.Amount}
	}
	return out
}

func costs(amounts []models.Amount) []resource.Cost {
	out := make([]resource.Cost, len(amounts))
	for i, a := range amounts {
		out[i] = resource.Cost{Kind: resource.NewKind(a.Resource), Amount: a.Amount}
	}
	return out
}

// Kind returns the resource kind named name.
func (c *Catalog) Kind(name string) resource.Kind {
	return resource.NewKind(name)
}

// Resources returns every resource name in the data, sorted.
func (c *Catalog) Resources() []string {
	return append([]string(nil), c.resources...)
}

// MiningTicks returns the number of ticks per mining step.
func (c *Catalog) MiningTicks() uint64 {
	return c.miningTicks
}

// Recipe returns a copy of the named recipe.
func (c *Catalog) Recipe(name string) (*recipe.Recipe, error) {
	r, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w", name, ErrUnknown)
	}
	return r.Clone(), nil
}

// MustRecipe is like Recipe but panics on unknown names.
func (c *Catalog) MustRecipe(name string) *recipe.Recipe {
	r, err := c.Recipe(name)
	if err != nil {
		panic(err)
	}
	return r
}

// Locked reports whether the named recipe has to be unlocked by research
// before it can be used.
func (c *Catalog) Locked(name string) bool {
	return c.locked[name]
}

// Recipes returns copies of all recipes in declaration order.
func (c *Catalog) Recipes() []*recipe.Recipe {
	out := make([]*recipe.Recipe, len(c.recipes))
	for i, r := range c.recipes {
		out[i] = r.Clone()
	}
	return out
}

// Technology returns a fresh instance of the named technology. Unlocked
// technologies are instantiated along with it, so each call yields its own
// point kinds.
func (c *Catalog) Technology(name string) (*research.Technology, error) {
	decl, ok := c.techs[name]
	if !ok {
		return nil, fmt.Errorf("technology %s: %w", name, ErrUnknown)
	}

	var unlocks research.Unlocks
	for _, rn := range decl.Unlocks.Recipes {
		r, err := c.Recipe(rn)
		if err != nil {
			return nil, err
		}
		unlocks.Recipes = append(unlocks.Recipes, r)
	}
	for _, tn := range decl.Unlocks.Technologies {
		t, err := c.Technology(tn)
		if err != nil {
			return nil, err
		}
		unlocks.Technologies = append(unlocks.Technologies, t)
	}
	return research.New(decl.Name, decl.Cost, decl.Ticks, items(decl.Inputs), unlocks)
}

// Cost returns the build cost of a building type. Types without a declared
// cost are free.
func (c *Catalog) Cost(bt models.BuildingType) []resource.Cost {
	return append([]resource.Cost(nil), c.costs[bt]...)
}

// ModeNames returns the declared mode names in order.
func (c *Catalog) ModeNames() []string {
	names := make([]string, len(c.modes))
	for i, m := range c.modes {
		names[i] = m.Name
	}
	return names
}

// Mode returns the named mode, ready to be played.
func (c *Catalog) Mode(name string) (game.Mode, error) {
	for _, decl := range c.modes {
		if decl.Name != name {
			continue
		}
		return game.Mode{
			Name:    decl.Name,
			Victory: resource.Cost{Kind: resource.NewKind(decl.Victory.Resource), Amount: decl.Victory.Amount},
			Start:   c.starter(decl.Start),
		}, nil
	}
	return game.Mode{}, fmt.Errorf("mode %s: %w", name, ErrUnknown)
}

func (c *Catalog) starter(decl models.Start) func(tick.Reader) (*game.Starting, error) {
	return func(t tick.Reader) (*game.Starting, error) {
		s := game.NewStarting()
		for _, a := range decl.Bundles {
			s.AddBundle(resource.MintBundle(resource.NewKind(a.Resource), a.Amount))
		}
		for _, tr := range decl.Territories {
			s.AddTerritory(territory.New(t, resource.NewKind(tr.Ore), tr.Slots, c.miningTicks))
		}
		for _, name := range decl.Technologies {
			tech, err := c.Technology(name)
			if err != nil {
				return nil, err
			}
			s.AddTechnology(tech)
		}
		return s, nil
	}
}
