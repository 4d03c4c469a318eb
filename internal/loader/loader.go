package loader

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/napolitain/tickworks/internal/models"
)

//go:embed data/default.yaml
var defaultData []byte

//go:embed data/gamedata.schema.json
var schemaJSON string

const schemaURL = "gamedata.schema.json"

var (
	ErrDuplicateName     = errors.New("duplicate name")
	ErrDanglingReference = errors.New("unknown reference")
	ErrUnlockCycle       = errors.New("technology unlock cycle")
)

var gameDataSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// DefaultData returns the raw embedded game data document
func DefaultData() []byte {
	return bytes.Clone(defaultData)
}

// LoadDefault parses the embedded game data
func LoadDefault() (*models.GameData, error) {
	return Parse(defaultData)
}

// LoadFile reads and parses a game data file
func LoadFile(path string) (*models.GameData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game data: %w", err)
	}
	g, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Parse validates a YAML game data document against the schema, decodes
// it and checks every name it references exists.
func Parse(data []byte) (*models.GameData, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var g models.GameData
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to parse game data: %w", err)
	}

	if err := Check(&g); err != nil {
		return nil, err
	}
	return &g, nil
}

func validateSchema(data []byte) error {
	schema, err := gameDataSchema()
	if err != nil {
		return fmt.Errorf("failed to compile game data schema: %w", err)
	}

	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse game data: %w", err)
	}
	// Round trip through JSON so the validator sees JSON types only.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("game data is not representable as JSON: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("game data does not match schema: %w", err)
	}
	return nil
}

// Check verifies names are unique and every reference resolves. Parse
// runs it; callers building GameData by hand should too.
func Check(g *models.GameData) error {
	recipes := make(map[string]bool, len(g.Recipes))
	for _, r := range g.Recipes {
		if recipes[r.Name] {
			return fmt.Errorf("recipe %s: %w", r.Name, ErrDuplicateName)
		}
		recipes[r.Name] = true
	}

	techs := make(map[string]*models.Technology, len(g.Technologies))
	for i := range g.Technologies {
		t := &g.Technologies[i]
		if techs[t.Name] != nil {
			return fmt.Errorf("technology %s: %w", t.Name, ErrDuplicateName)
		}
		techs[t.Name] = t
	}

	for _, t := range g.Technologies {
		for _, name := range t.Unlocks.Recipes {
			if !recipes[name] {
				return fmt.Errorf("technology %s unlocks recipe %s: %w", t.Name, name, ErrDanglingReference)
			}
		}
		for _, name := range t.Unlocks.Technologies {
			if techs[name] == nil {
				return fmt.Errorf("technology %s unlocks technology %s: %w", t.Name, name, ErrDanglingReference)
			}
		}
	}

	modes := make(map[string]bool, len(g.Modes))
	for _, m := range g.Modes {
		if modes[m.Name] {
			return fmt.Errorf("mode %s: %w", m.Name, ErrDuplicateName)
		}
		modes[m.Name] = true
		for _, name := range m.Start.Technologies {
			if techs[name] == nil {
				return fmt.Errorf("mode %s starts with technology %s: %w", m.Name, name, ErrDanglingReference)
			}
		}
	}

	return checkUnlockCycles(g.Technologies, techs)
}

// checkUnlockCycles rejects technologies that unlock themselves, directly
// or through other technologies.
func checkUnlockCycles(order []models.Technology, techs map[string]*models.Technology) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(techs))

	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("%s: %w", strings.Join(append(path, name), " -> "), ErrUnlockCycle)
		case done:
			return nil
		}
		state[name] = visiting
		for _, next := range techs[name].Unlocks.Technologies {
			if err := visit(next, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	for _, t := range order {
		if err := visit(t.Name, nil); err != nil {
			return err
		}
	}
	return nil
}
