// Package examples holds ready-made circuits used by the ascgen example
// command and as end-to-end fixtures.
package examples

import (
	"sort"

	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

// Example is a named circuit recipe.
type Example struct {
	Name        string
	Description string
	Build       func(reg *registry.Registry) (*circuit.Circuit, error)
}

var catalog = map[string]Example{}

func register(e Example) {
	catalog[e.Name] = e
}

// Names returns the registered example names, sorted.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named example.
func Get(name string) (Example, bool) {
	e, ok := catalog[name]
	return e, ok
}

// sketch wraps a circuit and keeps the first error, so recipes read as a
// plain list of placements and connections.
type sketch struct {
	c   *circuit.Circuit
	err error
}

func newSketch(reg *registry.Registry, gridSize int) *sketch {
	cfg := circuit.DefaultConfig()
	cfg.GridSize = gridSize
	c, err := circuit.New(reg, cfg)
	return &sketch{c: c, err: err}
}

func (s *sketch) place(typ string, row, col, rotation int, value string) *circuit.Component {
	if s.err != nil {
		return nil
	}
	comp, err := s.c.Place(typ, row, col, circuit.PlaceOptions{Rotation: rotation, Value: value})
	s.err = err
	return comp
}

func (s *sketch) ground(row, col int) *circuit.Component {
	return s.place(registry.Ground, row, col, 0, "")
}

func (s *sketch) pin(comp *circuit.Component, name string) *circuit.Pin {
	if s.err != nil {
		return nil
	}
	p, err := comp.Pin(name)
	s.err = err
	return p
}

func (s *sketch) connect(a, b circuit.Terminal) {
	if s.err != nil {
		return
	}
	_, s.err = s.c.Connect(a, b)
}

func (s *sketch) label(t circuit.Terminal, name string) {
	if s.err != nil {
		return
	}
	s.err = s.c.Label(t, name)
}

func (s *sketch) done() (*circuit.Circuit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.c, nil
}
