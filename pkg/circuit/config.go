package circuit

import (
	"fmt"

	"github.com/OpenTraceLab/ascgen/pkg/netlist"
)

// Config controls grid geometry and connectivity policy.
type Config struct {
	GridSize int // addressable cells per side; placement outside is a warning
	GridUnit int // schematic units per cell

	// LabelPolicy decides what happens when a net would carry two labels.
	LabelPolicy netlist.LabelPolicy
}

// DefaultConfig returns a 10x10 grid with 64-unit cells that rejects
// conflicting labels.
func DefaultConfig() *Config {
	return &Config{
		GridSize:    10,
		GridUnit:    64,
		LabelPolicy: netlist.LabelReject,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("circuit: grid size must be positive, got %d", c.GridSize)
	}
	if c.GridUnit < 1 {
		return fmt.Errorf("circuit: grid unit must be positive, got %d", c.GridUnit)
	}
	switch c.LabelPolicy {
	case netlist.LabelReject, netlist.LabelOverwrite:
	default:
		return fmt.Errorf("circuit: unknown label policy %d", c.LabelPolicy)
	}
	return nil
}

// SheetSize returns the SHEET width and height. The sheet is square and 200
// units larger than the grid so symbols on the last row and column fit.
func (c *Config) SheetSize() (width, height int) {
	side := c.GridSize*c.GridUnit + 200
	return side, side
}
