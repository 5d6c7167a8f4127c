package circuit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/netlist"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
	"github.com/OpenTraceLab/ascgen/pkg/route"
)

// Errors returned by circuit operations. Several alias the sentinel of the
// package that detects the condition so callers only need this package.
var (
	ErrInvalidRotation      = geom.ErrInvalidRotation
	ErrUnknownComponentType = registry.ErrUnknownComponentType
	ErrUnknownPin           = netlist.ErrUnknownPin
	ErrLabelConflict        = netlist.ErrLabelConflict

	ErrDuplicateRef      = errors.New("circuit: duplicate reference designator")
	ErrAmbiguousTerminal = errors.New("circuit: component has more than one pin")
	ErrInvalidName       = errors.New("circuit: invalid name")
	ErrValidationFailed  = errors.New("circuit: validation failed")
)

// groundRef is the reference designator shared by every ground symbol.
const groundRef = "0"

// PlaceOptions are the optional arguments of Place.
type PlaceOptions struct {
	Rotation int    // 0, 90, 180 or 270
	Mirror   bool   // mirror before rotating
	Value    string // SYMATTR Value; empty omits it
	Ref      string // reference designator; empty auto-numbers per prefix

	// AlignPin, when set, shifts the origin so this pin lands exactly on the
	// grid point instead of the symbol origin.
	AlignPin string
}

// Circuit is a schematic under construction.
type Circuit struct {
	cfg Config
	reg *registry.Registry

	components []*Component
	refs       map[string]*Component
	counters   map[string]int

	nets    *netlist.Netlist
	touched map[netlist.PinID]bool // explicitly connected or labelled
	wires   []*Wire
	labels  []*Pin // Label calls, in call order
}

// New creates an empty circuit. A nil cfg uses DefaultConfig.
func New(reg *registry.Registry, cfg *Config) (*Circuit, error) {
	if reg == nil {
		return nil, errors.New("circuit: nil registry")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Circuit{
		cfg:      *cfg,
		reg:      reg,
		refs:     make(map[string]*Component),
		counters: make(map[string]int),
		nets:     netlist.New(cfg.LabelPolicy),
		touched:  make(map[netlist.PinID]bool),
	}, nil
}

// Config returns a copy of the circuit configuration.
func (c *Circuit) Config() Config { return c.cfg }

// Registry returns the registry the circuit resolves types against.
func (c *Circuit) Registry() *registry.Registry { return c.reg }

// GridPoint converts a grid cell to absolute coordinates.
func (c *Circuit) GridPoint(row, col int) geom.Point {
	return geom.Pt(col, row).Scale(c.cfg.GridUnit)
}

// Place creates a component of the named type at grid cell (row, col).
// Reusing a cell is allowed and reported by Validate.
func (c *Circuit) Place(typeName string, row, col int, opts PlaceOptions) (*Component, error) {
	if err := geom.CheckRotation(opts.Rotation); err != nil {
		return nil, fmt.Errorf("circuit: place %s: %w", typeName, err)
	}
	def, err := c.reg.Lookup(typeName)
	if err != nil {
		return nil, fmt.Errorf("circuit: place: %w", err)
	}
	orient := geom.Orientation{Rotation: opts.Rotation, Mirror: opts.Mirror}

	origin := c.GridPoint(row, col)
	if opts.AlignPin != "" {
		pd, ok := def.Pin(opts.AlignPin)
		if !ok {
			return nil, fmt.Errorf("%w: cannot align %s on pin %q", ErrUnknownPin, typeName, opts.AlignPin)
		}
		origin = origin.Sub(orient.Apply(pd.Offset))
	}

	return c.add(def, row, col, orient, origin, opts.Ref, opts.Value)
}

// add registers a component at an explicit origin.
func (c *Circuit) add(def *registry.TypeDef, row, col int, orient geom.Orientation, origin geom.Point, ref, value string) (*Component, error) {
	if strings.ContainsAny(value, "\r\n") {
		return nil, fmt.Errorf("%w: value %q spans lines", ErrInvalidName, value)
	}
	ref, err := c.assignRef(def, ref)
	if err != nil {
		return nil, err
	}

	comp := &Component{
		circuit: c,
		id:      len(c.components),
		ref:     ref,
		def:     def,
		value:   value,
		row:     row,
		col:     col,
		orient:  orient,
		origin:  origin,
	}
	for _, pd := range def.Pins {
		pin := &Pin{
			comp:   comp,
			name:   pd.Name,
			supply: pd.Supply,
			at:     origin.Add(orient.Apply(pd.Offset)),
		}
		comp.pins = append(comp.pins, pin)
		c.nets.Add(pin.ID())
	}

	c.components = append(c.components, comp)
	if def.Kind != registry.KindGround {
		c.refs[ref] = comp
	}
	return comp, nil
}

func (c *Circuit) assignRef(def *registry.TypeDef, ref string) (string, error) {
	if def.Kind == registry.KindGround {
		return groundRef, nil
	}
	if ref != "" {
		if !validName(ref) {
			return "", fmt.Errorf("%w: reference %q", ErrInvalidName, ref)
		}
		if _, taken := c.refs[ref]; taken {
			return "", fmt.Errorf("%w: %s", ErrDuplicateRef, ref)
		}
		return ref, nil
	}

	prefix := def.Prefix
	if prefix == "" {
		prefix = "X"
	}
	for {
		c.counters[prefix]++
		candidate := fmt.Sprintf("%s%d", prefix, c.counters[prefix])
		if _, taken := c.refs[candidate]; !taken {
			return candidate, nil
		}
	}
}

// validName reports whether s is usable as a single ASC token.
func validName(s string) bool {
	return s != "" && !strings.ContainsAny(s, " \t\r\n")
}

// SeriesPart is one element of a PlaceHorizontal or PlaceVertical chain.
type SeriesPart struct {
	Type  string
	Value string
	Ref   string
}

// PlaceHorizontal lays parts out left to right on row, starting with the
// first pin of the first part on grid point (row, col). Two-terminal parts
// are turned to R270, which puts their first pin on the left, and each
// part's first pin sits on the previous part's last pin. Touching pins are
// connected.
func (c *Circuit) PlaceHorizontal(row, col int, parts ...SeriesPart) ([]*Component, error) {
	var (
		placed []*Component
		anchor = c.GridPoint(row, col)
	)
	for _, part := range parts {
		def, err := c.reg.Lookup(part.Type)
		if err != nil {
			return placed, fmt.Errorf("circuit: place: %w", err)
		}
		orient := geom.Orientation{}
		if def.Kind == registry.KindTwoTerminal {
			orient.Rotation = 270
		}
		first := def.Pins[0]
		origin := anchor.Sub(orient.Apply(first.Offset))
		cellCol := (anchor.X + c.cfg.GridUnit/2) / c.cfg.GridUnit

		comp, err := c.add(def, row, cellCol, orient, origin, part.Ref, part.Value)
		if err != nil {
			return placed, err
		}
		if len(placed) > 0 {
			prev := placed[len(placed)-1]
			if _, err := c.Connect(prev.pins[len(prev.pins)-1], comp.pins[0]); err != nil {
				return placed, err
			}
		}
		placed = append(placed, comp)
		anchor = comp.pins[len(comp.pins)-1].at
	}
	return placed, nil
}

// PlaceVertical stacks parts down column col at R0, aligning each part's
// first pin on the grid and advancing spacing rows per part. Parts are not
// connected to each other.
func (c *Circuit) PlaceVertical(col, row, spacing int, parts ...SeriesPart) ([]*Component, error) {
	var placed []*Component
	for i, part := range parts {
		def, err := c.reg.Lookup(part.Type)
		if err != nil {
			return placed, fmt.Errorf("circuit: place: %w", err)
		}
		comp, err := c.Place(part.Type, row+i*spacing, col, PlaceOptions{
			Value:    part.Value,
			Ref:      part.Ref,
			AlignPin: def.Pins[0].Name,
		})
		if err != nil {
			return placed, err
		}
		placed = append(placed, comp)
	}
	return placed, nil
}

// Node places a named junction at (row, col) and labels its net.
func (c *Circuit) Node(name string, row, col int) (*Component, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: node name %q", ErrInvalidName, name)
	}
	comp, err := c.Place(registry.Node, row, col, PlaceOptions{Value: name})
	if err != nil {
		return nil, err
	}
	if err := c.Label(comp, name); err != nil {
		return nil, err
	}
	return comp, nil
}

// resolve turns a terminal into a pin owned by this circuit.
func (c *Circuit) resolve(t Terminal) (*Pin, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil terminal", ErrUnknownPin)
	}
	p, err := t.terminal()
	if err != nil {
		return nil, err
	}
	if p.comp.circuit != c || !c.nets.Has(p.ID()) {
		return nil, fmt.Errorf("%w: %s belongs to another circuit", ErrUnknownPin, p)
	}
	return p, nil
}

// Connect joins the nets of a and b and records a routed wire between them.
// Connecting a pin to itself only marks it connected. On error nothing
// changes.
func (c *Circuit) Connect(a, b Terminal) (*Wire, error) {
	pa, err := c.resolve(a)
	if err != nil {
		return nil, fmt.Errorf("circuit: connect: %w", err)
	}
	pb, err := c.resolve(b)
	if err != nil {
		return nil, fmt.Errorf("circuit: connect: %w", err)
	}
	if err := c.nets.Connect(pa.ID(), pb.ID()); err != nil {
		return nil, fmt.Errorf("circuit: connect %s to %s: %w", pa, pb, err)
	}

	c.touched[pa.ID()] = true
	c.touched[pb.ID()] = true
	w := &Wire{A: pa, B: pb, Path: route.Route(pa.at, pb.at)}
	c.wires = append(c.wires, w)
	return w, nil
}

// Label names the net of t. Pins labelled with the same name end up in one
// net. Relabelling a net follows the configured LabelPolicy.
func (c *Circuit) Label(t Terminal, name string) error {
	if !validName(name) {
		return fmt.Errorf("%w: label %q", ErrInvalidName, name)
	}
	p, err := c.resolve(t)
	if err != nil {
		return fmt.Errorf("circuit: label: %w", err)
	}
	if err := c.nets.Label(p.ID(), name); err != nil {
		return fmt.Errorf("circuit: label %s: %w", p, err)
	}

	c.touched[p.ID()] = true
	c.labels = append(c.labels, p)
	return nil
}

// FindNet returns the net representative of t.
func (c *Circuit) FindNet(t Terminal) (netlist.NetID, error) {
	p, err := c.resolve(t)
	if err != nil {
		return netlist.NetID{}, err
	}
	return c.nets.Find(p.ID())
}

// Components returns the placed components in placement order.
func (c *Circuit) Components() []*Component {
	return append([]*Component(nil), c.components...)
}

// Component returns the component with the given reference designator.
// Grounds are not addressable by ref.
func (c *Circuit) Component(ref string) (*Component, bool) {
	comp, ok := c.refs[ref]
	return comp, ok
}

// Wires returns the wire records in Connect order.
func (c *Circuit) Wires() []*Wire {
	return append([]*Wire(nil), c.wires...)
}

// Net is one electrical net of the circuit.
type Net struct {
	Name  string // label, "0" for ground nets, otherwise N001, N002, ...
	Label string // explicit label, if any
	Pins  []*Pin
}

// Nets returns every net, singletons included, ordered by their first
// placed pin. Unlabelled nets are numbered in that order.
func (c *Circuit) Nets() []*Net {
	pins := make(map[netlist.PinID]*Pin)
	for _, comp := range c.components {
		for _, p := range comp.pins {
			pins[p.ID()] = p
		}
	}

	var out []*Net
	unnamed := 0
	for _, n := range c.nets.Nets() {
		net := &Net{Label: n.Label}
		ground := false
		for _, id := range n.Pins {
			p := pins[id]
			net.Pins = append(net.Pins, p)
			if p.comp.Kind() == registry.KindGround {
				ground = true
			}
		}
		switch {
		case ground:
			net.Name = groundRef
		case n.Label != "":
			net.Name = n.Label
		default:
			unnamed++
			net.Name = fmt.Sprintf("N%03d", unnamed)
		}
		out = append(out, net)
	}
	return out
}

func (c *Circuit) String() string {
	return fmt.Sprintf("Circuit(%d components, %d wires)", len(c.components), len(c.wires))
}
