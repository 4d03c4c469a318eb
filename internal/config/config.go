// Package config holds the runtime configuration of the tickworks CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Config is the runtime configuration. Command-line flags override it.
type Config struct {
	// Data is a game data file. Empty uses the embedded default data.
	Data     string         `yaml:"data"`
	Mode     string         `yaml:"mode"`
	Budget   uint64         `yaml:"budget"`
	LogLevel string         `yaml:"log_level"`
	TickLog  bool           `yaml:"tick_log"`
	Quiet    bool           `yaml:"quiet"`
	Simulate SimulateConfig `yaml:"simulate"`
}

// SimulateConfig holds defaults for the simulate command.
type SimulateConfig struct {
	Recipe   string `yaml:"recipe"`
	Fill     uint32 `yaml:"fill"`
	Until    string `yaml:"until"`
	MaxTicks uint64 `yaml:"max_ticks"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Mode:     "standard",
		Budget:   100_000,
		LogLevel: "warn",
		Simulate: SimulateConfig{
			Fill:     1,
			MaxTicks: 10_000,
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value
func (c *Config) Validate() error {
	if c.Mode == "" {
		return fmt.Errorf("missing mode")
	}
	if c.Budget == 0 {
		return fmt.Errorf("budget must be positive")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.Simulate.MaxTicks == 0 {
		return fmt.Errorf("simulate.max_ticks must be positive")
	}
	return nil
}
