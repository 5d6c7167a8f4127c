package circuit

import (
	"fmt"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/netlist"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
	"github.com/OpenTraceLab/ascgen/pkg/route"
)

// Component is a placed instance. All of its fields are fixed at placement.
type Component struct {
	circuit *Circuit
	id      int
	ref     string
	def     *registry.TypeDef
	value   string
	row     int
	col     int
	orient  geom.Orientation
	origin  geom.Point
	pins    []*Pin
}

// ID returns the instance number, unique within the circuit.
func (c *Component) ID() int { return c.id }

// Ref returns the reference designator (R1, U2, ...). Grounds are "0".
func (c *Component) Ref() string { return c.ref }

// Type returns the registry type name.
func (c *Component) Type() string { return c.def.Name }

// Kind returns the type kind.
func (c *Component) Kind() registry.Kind { return c.def.Kind }

// Symbol returns the LTspice symbol name.
func (c *Component) Symbol() string { return c.def.Symbol }

// Value returns the value attribute, possibly empty.
func (c *Component) Value() string { return c.value }

// Cell returns the grid cell the component was placed in.
func (c *Component) Cell() (row, col int) { return c.row, c.col }

// Orientation returns the rotation and mirror state.
func (c *Component) Orientation() geom.Orientation { return c.orient }

// Origin returns the absolute symbol origin.
func (c *Component) Origin() geom.Point { return c.origin }

// Pins returns the pins in registry declaration order.
func (c *Component) Pins() []*Pin {
	return append([]*Pin(nil), c.pins...)
}

// Pin returns the named pin.
func (c *Component) Pin(name string) (*Pin, error) {
	for _, p := range c.pins {
		if p.name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no pin %q (pins: %v)", ErrUnknownPin, c.ref, name, c.def.PinNames())
}

// MustPin is like Pin but panics on an unknown name.
func (c *Component) MustPin(name string) *Pin {
	p, err := c.Pin(name)
	if err != nil {
		panic(err)
	}
	return p
}

func (c *Component) String() string {
	return c.ref
}

func (c *Component) terminal() (*Pin, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: nil component", ErrUnknownPin)
	}
	if len(c.pins) != 1 {
		return nil, fmt.Errorf("%w: %s has %d pins, pick one", ErrAmbiguousTerminal, c.ref, len(c.pins))
	}
	return c.pins[0], nil
}

// Pin is a handle to one component pin.
type Pin struct {
	comp   *Component
	name   string
	supply bool
	at     geom.Point
}

// Name returns the pin name.
func (p *Pin) Name() string { return p.name }

// Component returns the owning component.
func (p *Pin) Component() *Component { return p.comp }

// Coords returns the absolute pin position.
func (p *Pin) Coords() geom.Point { return p.at }

// Supply reports whether this is a power pin.
func (p *Pin) Supply() bool { return p.supply }

// ID returns the connectivity key of the pin.
func (p *Pin) ID() netlist.PinID {
	return netlist.PinID{Instance: p.comp.id, Pin: p.name}
}

// IsConnected reports whether the pin shares its net with another pin or the
// net carries a label.
func (p *Pin) IsConnected() bool {
	nl := p.comp.circuit.nets
	if nl.Size(p.ID()) > 1 {
		return true
	}
	_, ok := nl.LabelOf(p.ID())
	return ok
}

// Label returns the label of the pin's net.
func (p *Pin) Label() (string, bool) {
	return p.comp.circuit.nets.LabelOf(p.ID())
}

// Net returns the current representative of the pin's net.
func (p *Pin) Net() netlist.NetID {
	// Every placed pin is registered, so Find cannot fail here.
	id, _ := p.comp.circuit.nets.Find(p.ID())
	return id
}

func (p *Pin) String() string {
	return p.comp.ref + "." + p.name
}

func (p *Pin) terminal() (*Pin, error) {
	if p == nil || p.comp == nil {
		return nil, fmt.Errorf("%w: nil pin", ErrUnknownPin)
	}
	return p, nil
}

// Terminal is anything Connect and Label accept: a *Pin, or a *Component
// with exactly one pin (ground, node).
type Terminal interface {
	terminal() (*Pin, error)
}

// Wire is the record of one Connect call. It keeps the coordinates routed at
// creation time.
type Wire struct {
	A, B *Pin
	Path route.Path
}

// Segments returns the straight pieces of the wire. A wire between two pins
// at the same position has none.
func (w *Wire) Segments() []route.Segment {
	return w.Path.Segments()
}

func (w *Wire) String() string {
	return fmt.Sprintf("%s to %s", w.A, w.B)
}
