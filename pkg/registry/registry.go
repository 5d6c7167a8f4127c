// Package registry maps component type names to their pin geometry and the
// LTspice symbol used when the schematic is written out.
//
// A Registry is an explicit object handed to each circuit; there is no
// package-level table. Registration is meant to happen once at startup from
// a single goroutine, before any circuit uses the registry.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
)

var (
	// ErrUnknownComponentType is returned when a type name was never registered.
	ErrUnknownComponentType = errors.New("registry: unknown component type")

	// ErrDuplicateType is returned by a Strict registry when a name is redefined.
	ErrDuplicateType = errors.New("registry: component type already registered")

	// ErrInvalidTypeDef is returned for malformed type definitions.
	ErrInvalidTypeDef = errors.New("registry: invalid type definition")
)

// Kind classifies component types. Validation and serialization dispatch on
// Kind rather than on type names so registered types behave like built-ins.
type Kind int

const (
	KindCustom      Kind = iota // externally registered part
	KindTwoTerminal             // resistor, capacitor, inductor
	KindSource                  // voltage or current source
	KindOpAmp                   // operational amplifier
	KindGround                  // ground reference, written as FLAG x y 0
	KindNode                    // named junction, written as a FLAG
)

func (k Kind) String() string {
	switch k {
	case KindTwoTerminal:
		return "two-terminal"
	case KindSource:
		return "source"
	case KindOpAmp:
		return "opamp"
	case KindGround:
		return "ground"
	case KindNode:
		return "node"
	default:
		return "custom"
	}
}

// ParseKind maps a kind name back to its Kind. Unknown names yield KindCustom.
func ParseKind(s string) Kind {
	for _, k := range []Kind{KindTwoTerminal, KindSource, KindOpAmp, KindGround, KindNode} {
		if k.String() == s {
			return k
		}
	}
	return KindCustom
}

// PinDef is one named pin with its offset from the symbol origin at R0.
type PinDef struct {
	Name   string
	Offset geom.Point
	Supply bool // power pin; unconnected supply pins are warnings, not errors
}

// TypeDef describes a component type.
type TypeDef struct {
	Name   string // type tag used by Place
	Symbol string // LTspice symbol name
	Prefix string // reference designator prefix (R, C, U, ...)
	Kind   Kind
	Pins   []PinDef // declaration order is preserved everywhere
}

// Pin returns the definition of the named pin.
func (d *TypeDef) Pin(name string) (PinDef, bool) {
	for _, p := range d.Pins {
		if p.Name == name {
			return p, true
		}
	}
	return PinDef{}, false
}

// PinNames returns the pin names in declaration order.
func (d *TypeDef) PinNames() []string {
	names := make([]string, len(d.Pins))
	for i, p := range d.Pins {
		names[i] = p.Name
	}
	return names
}

func (d *TypeDef) validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: empty type name", ErrInvalidTypeDef)
	}
	if len(d.Pins) == 0 {
		return fmt.Errorf("%w: type %q has no pins", ErrInvalidTypeDef, d.Name)
	}
	seen := make(map[string]bool, len(d.Pins))
	for _, p := range d.Pins {
		if p.Name == "" {
			return fmt.Errorf("%w: type %q has an unnamed pin", ErrInvalidTypeDef, d.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: type %q declares pin %q twice", ErrInvalidTypeDef, d.Name, p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

func (d TypeDef) clone() *TypeDef {
	c := d
	c.Pins = append([]PinDef(nil), d.Pins...)
	if c.Symbol == "" {
		c.Symbol = c.Name
	}
	return &c
}

// Policy decides what Register does with a name that already exists.
type Policy int

const (
	// Overwrite replaces the previous definition (last write wins).
	Overwrite Policy = iota
	// Strict rejects redefinitions with ErrDuplicateType.
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "overwrite"
}

// ParsePolicy accepts "overwrite" or "strict".
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "overwrite":
		return Overwrite, nil
	case "strict":
		return Strict, nil
	}
	return Overwrite, fmt.Errorf("registry: unknown policy %q", s)
}

// Registry holds component type definitions.
type Registry struct {
	policy Policy
	types  map[string]*TypeDef
}

// New returns an empty registry.
func New(policy Policy) *Registry {
	return &Registry{
		policy: policy,
		types:  make(map[string]*TypeDef),
	}
}

// Register adds or replaces a type definition according to the registry policy.
func (r *Registry) Register(def TypeDef) error {
	if err := def.validate(); err != nil {
		return err
	}
	if _, exists := r.types[def.Name]; exists && r.policy == Strict {
		return fmt.Errorf("%w: %q", ErrDuplicateType, def.Name)
	}
	r.types[def.Name] = def.clone()
	return nil
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (*TypeDef, error) {
	def, ok := r.types[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownComponentType, name)
	}
	return def, nil
}

// LookupSymbol finds the type whose LTspice symbol name is sym. When several
// types share a symbol the alphabetically first type name wins.
func (r *Registry) LookupSymbol(sym string) (*TypeDef, bool) {
	for _, name := range r.Names() {
		if def := r.types[name]; def.Symbol == sym {
			return def, true
		}
	}
	return nil, false
}

// Names returns all registered type names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Policy returns the registration policy.
func (r *Registry) Policy() Policy {
	return r.policy
}
