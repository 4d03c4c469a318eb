package models

import "sort"

// BuildingType represents the different building types that carry a build cost
type BuildingType string

const (
	Furnace   BuildingType = "furnace"
	Assembler BuildingType = "assembler"
	Lab       BuildingType = "lab"
	Miner     BuildingType = "miner"
)

// AllBuildingTypes returns all building types in deterministic order
func AllBuildingTypes() []BuildingType {
	return []BuildingType{Furnace, Assembler, Lab, Miner}
}

// Amount is an (amount, resource name) pair as written in game data.
type Amount struct {
	Amount   uint32 `yaml:"amount"`
	Resource string `yaml:"resource"`
}

// Recipe represents a declared recipe
type Recipe struct {
	Name      string       `yaml:"name"`
	Building  BuildingType `yaml:"building"`
	Ticks     uint64       `yaml:"ticks"`
	Handcraft bool         `yaml:"handcraft"`
	Inputs    []Amount     `yaml:"inputs"`
	Outputs   []Amount     `yaml:"outputs"`
}

// Unlocks lists what a technology unlocks, by name
type Unlocks struct {
	Recipes      []string `yaml:"recipes"`
	Technologies []string `yaml:"technologies"`
}

// Technology represents a declared technology
type Technology struct {
	Name    string   `yaml:"name"`
	Cost    uint32   `yaml:"cost"`
	Ticks   uint64   `yaml:"ticks"`
	Inputs  []Amount `yaml:"inputs"`
	Unlocks Unlocks  `yaml:"unlocks"`
}

// Territory declares an ore field available at the start of a mode
type Territory struct {
	Ore   string `yaml:"ore"`
	Slots uint32 `yaml:"slots"`
}

// Start is what a mode hands to the player at tick 0
type Start struct {
	Bundles      []Amount    `yaml:"bundles"`
	Territories  []Territory `yaml:"territories"`
	Technologies []string    `yaml:"technologies"`
}

// Mode represents a declared game mode
type Mode struct {
	Name    string `yaml:"name"`
	Start   Start  `yaml:"start"`
	Victory Amount `yaml:"victory"`
}

// GameData is a whole game data document
type GameData struct {
	MiningTicks  uint64                    `yaml:"mining_ticks"`
	Buildings    map[BuildingType][]Amount `yaml:"buildings"`
	Recipes      []Recipe                  `yaml:"recipes"`
	Technologies []Technology              `yaml:"technologies"`
	Modes        []Mode                    `yaml:"modes"`
}

// RecipeByName returns the recipe with the given name, or nil
func (g *GameData) RecipeByName(name string) *Recipe {
	for i := range g.Recipes {
		if g.Recipes[i].Name == name {
			return &g.Recipes[i]
		}
	}
	return nil
}

// TechnologyByName returns the technology with the given name, or nil
func (g *GameData) TechnologyByName(name string) *Technology {
	for i := range g.Technologies {
		if g.Technologies[i].Name == name {
			return &g.Technologies[i]
		}
	}
	return nil
}

// ModeByName returns the mode with the given name, or nil
func (g *GameData) ModeByName(name string) *Mode {
	for i := range g.Modes {
		if g.Modes[i].Name == name {
			return &g.Modes[i]
		}
	}
	return nil
}

// ResourceNames returns every resource name mentioned by recipes, costs and
// modes, sorted.
func (g *GameData) ResourceNames() []string {
	seen := make(map[string]bool)
	add := func(amounts []Amount) {
		for _, a := range amounts {
			seen[a.Resource] = true
		}
	}
	for _, costs := range g.Buildings {
		add(costs)
	}
	for _, r := range g.Recipes {
		add(r.Inputs)
		add(r.Outputs)
	}
	for _, t := range g.Technologies {
		add(t.Inputs)
	}
	for _, m := range g.Modes {
		add(m.Start.Bundles)
		add([]Amount{m.Victory})
		for _, tr := range m.Start.Territories {
			seen[tr.Ore] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
