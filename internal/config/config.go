// Package config loads ascgen settings from YAML.
//
// Config file locations (priority order):
//  1. $ASCGEN_CONFIG
//  2. the nearest ascgen.yaml in the working directory or a parent
//  3. ascgen/config.yaml under os.UserConfigDir
//
// Example:
//
//	grid:
//	  size: 16
//	  unit: 64
//	labels: overwrite
//	registry: strict
//	components:
//	  - name: diode
//	    symbol: diode
//	    prefix: D
//	    kind: two-terminal
//	    pins:
//	      - {name: anode, x: 16, y: 0}
//	      - {name: cathode, x: 16, y: 64}
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/netlist"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

// Config is the file representation.
type Config struct {
	Grid       GridConfig      `yaml:"grid"`
	Labels     string          `yaml:"labels"`   // reject | overwrite
	Registry   string          `yaml:"registry"` // overwrite | strict
	Components []ComponentType `yaml:"components,omitempty"`
}

// GridConfig sets the placement grid.
type GridConfig struct {
	Size int `yaml:"size"`
	Unit int `yaml:"unit"`
}

// ComponentType declares an extra component type.
type ComponentType struct {
	Name   string    `yaml:"name"`
	Symbol string    `yaml:"symbol,omitempty"`
	Prefix string    `yaml:"prefix,omitempty"`
	Kind   string    `yaml:"kind,omitempty"`
	Pins   []PinSpec `yaml:"pins"`
}

// PinSpec is a pin offset from the symbol origin at R0.
type PinSpec struct {
	Name   string `yaml:"name"`
	X      int    `yaml:"x"`
	Y      int    `yaml:"y"`
	Supply bool   `yaml:"supply,omitempty"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path, creating its directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	d := circuit.DefaultConfig()
	return &Config{
		Grid:     GridConfig{Size: d.GridSize, Unit: d.GridUnit},
		Labels:   netlist.LabelReject.String(),
		Registry: "overwrite",
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Grid.Size == 0 {
		c.Grid.Size = d.Grid.Size
	}
	if c.Grid.Unit == 0 {
		c.Grid.Unit = d.Grid.Unit
	}
	if c.Labels == "" {
		c.Labels = d.Labels
	}
	if c.Registry == "" {
		c.Registry = d.Registry
	}
}

// CircuitConfig converts the file settings into a circuit configuration.
func (c *Config) CircuitConfig() (*circuit.Config, error) {
	policy, err := netlist.ParseLabelPolicy(c.Labels)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cc := &circuit.Config{
		GridSize:    c.Grid.Size,
		GridUnit:    c.Grid.Unit,
		LabelPolicy: policy,
	}
	if err := cc.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cc, nil
}

// NewRegistry returns the built-in registry extended with the configured
// component types.
func (c *Config) NewRegistry() (*registry.Registry, error) {
	policy, err := registry.ParsePolicy(c.Registry)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	reg := registry.DefaultWithPolicy(policy)
	for _, ct := range c.Components {
		def := registry.TypeDef{
			Name:   ct.Name,
			Symbol: ct.Symbol,
			Prefix: ct.Prefix,
			Kind:   registry.ParseKind(ct.Kind),
		}
		for _, p := range ct.Pins {
			def.Pins = append(def.Pins, registry.PinDef{
				Name:   p.Name,
				Offset: geom.Pt(p.X, p.Y),
				Supply: p.Supply,
			})
		}
		if err := reg.Register(def); err != nil {
			return nil, fmt.Errorf("config: component %q: %w", ct.Name, err)
		}
	}
	return reg, nil
}
