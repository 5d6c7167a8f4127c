// Package design loads circuits described as S-expressions:
//
//	(circuit
//	  (grid 12 64)
//	  (labels reject)
//	  (place V1 voltage 1 1 (value 5))
//	  (place R1 res 1 3 (rotation 90) (value "1k") (align p1))
//	  (place G1 gnd 4 2)
//	  (node OUT 1 6)
//	  (chain 6 1 (res R2 "10k") (cap C1 "1u"))
//	  (connect V1.positive R1.p1)
//	  (connect R1.p2 G1)
//	  (label U1.vpos VCC))
//
// Forms run in order. grid and labels configure the circuit and may appear
// anywhere. Every placed part gets a design name; it is also the reference
// designator except for grounds, which are always "0" in the schematic.
// Terminals are written NAME.pin, or just NAME for single-pin parts.
package design

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chewxy/sexp"

	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/netlist"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

// ErrSyntax reports a malformed design.
var ErrSyntax = errors.New("design: syntax error")

// FormError locates a failure at one top-level form of the circuit.
type FormError struct {
	Index int    // 1-based position inside (circuit ...)
	Form  string // form name
	Err   error
}

func (e *FormError) Error() string {
	return fmt.Sprintf("design: form %d (%s): %v", e.Index, e.Form, e.Err)
}

func (e *FormError) Unwrap() error { return e.Err }

// LoadFile reads and builds the design at path.
func LoadFile(path string, reg *registry.Registry, cfg *circuit.Config) (*circuit.Circuit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}
	defer f.Close()
	return Load(f, reg, cfg)
}

// Load parses a design and builds the circuit it describes. cfg supplies
// defaults that grid and labels forms override; nil means
// circuit.DefaultConfig.
func Load(r io.Reader, reg *registry.Registry, cfg *circuit.Config) (*circuit.Circuit, error) {
	roots, err := parse(r)
	if err != nil {
		return nil, err
	}
	if len(roots) != 1 || formName(roots[0]) != "circuit" {
		return nil, fmt.Errorf("%w: expected a single (circuit ...) form", ErrSyntax)
	}
	var forms []sexp.Sexp
	if list := items(roots[0]); len(list) > 1 {
		forms = list[1:]
	}

	conf := circuit.DefaultConfig()
	if cfg != nil {
		c := *cfg
		conf = &c
	}
	for i, form := range forms {
		if err := configure(conf, form); err != nil {
			return nil, &FormError{Index: i + 1, Form: formName(form), Err: err}
		}
	}

	c, err := circuit.New(reg, conf)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}
	b := &builder{c: c, names: make(map[string]*circuit.Component)}
	for i, form := range forms {
		if err := b.apply(form); err != nil {
			return nil, &FormError{Index: i + 1, Form: formName(form), Err: err}
		}
	}
	return c, nil
}

func configure(cfg *circuit.Config, form sexp.Sexp) error {
	list := items(form)
	switch formName(form) {
	case "grid":
		size, err := intAt(list, 1)
		if err != nil {
			return err
		}
		unit := cfg.GridUnit
		if len(list) > 2 {
			if unit, err = intAt(list, 2); err != nil {
				return err
			}
		}
		cfg.GridSize, cfg.GridUnit = size, unit
	case "labels":
		name, _, err := stringAt(list, 1)
		if err != nil {
			return err
		}
		policy, err := netlist.ParseLabelPolicy(name)
		if err != nil {
			return err
		}
		cfg.LabelPolicy = policy
	}
	return nil
}

type builder struct {
	c     *circuit.Circuit
	names map[string]*circuit.Component
}

func (b *builder) apply(form sexp.Sexp) error {
	if form == nil || form.IsLeaf() {
		return fmt.Errorf("%w: expected a list", ErrSyntax)
	}
	list := items(form)
	switch name := formName(form); name {
	case "grid", "labels":
		return nil
	case "place":
		return b.place(list)
	case "node":
		return b.node(list)
	case "chain":
		return b.chain(list)
	case "connect":
		return b.connect(list)
	case "label":
		return b.label(list)
	default:
		return fmt.Errorf("%w: unknown form %q", ErrSyntax, name)
	}
}

// (place NAME TYPE ROW COL [(rotation N)] [(mirror)] [(value V)] [(align PIN)])
func (b *builder) place(list []sexp.Sexp) error {
	name, _, err := stringAt(list, 1)
	if err != nil {
		return err
	}
	typ, _, err := stringAt(list, 2)
	if err != nil {
		return err
	}
	row, err := intAt(list, 3)
	if err != nil {
		return err
	}
	col, err := intAt(list, 4)
	if err != nil {
		return err
	}

	opts := circuit.PlaceOptions{Ref: name}
	for _, opt := range list[5:] {
		args := items(opt)
		switch key := formName(opt); key {
		case "rotation":
			if opts.Rotation, err = intAt(args, 1); err != nil {
				return err
			}
		case "mirror":
			opts.Mirror = true
		case "value":
			if opts.Value, _, err = stringAt(args, 1); err != nil {
				return err
			}
		case "align":
			if opts.AlignPin, _, err = stringAt(args, 1); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown place option %q", ErrSyntax, key)
		}
	}

	if err := b.reserve(name); err != nil {
		return err
	}
	if def, err := b.c.Registry().Lookup(typ); err == nil && def.Kind == registry.KindGround {
		opts.Ref = ""
	}
	comp, err := b.c.Place(typ, row, col, opts)
	if err != nil {
		return err
	}
	b.names[name] = comp
	return nil
}

// (node NAME ROW COL)
func (b *builder) node(list []sexp.Sexp) error {
	name, _, err := stringAt(list, 1)
	if err != nil {
		return err
	}
	row, err := intAt(list, 2)
	if err != nil {
		return err
	}
	col, err := intAt(list, 3)
	if err != nil {
		return err
	}
	if err := b.reserve(name); err != nil {
		return err
	}
	comp, err := b.c.Node(name, row, col)
	if err != nil {
		return err
	}
	b.names[name] = comp
	return nil
}

// (chain ROW COL (TYPE NAME [VALUE])...)
func (b *builder) chain(list []sexp.Sexp) error {
	row, err := intAt(list, 1)
	if err != nil {
		return err
	}
	col, err := intAt(list, 2)
	if err != nil {
		return err
	}

	var (
		parts []circuit.SeriesPart
		names []string
	)
	for _, form := range list[3:] {
		args := items(form)
		typ := formName(form)
		name, next, err := stringAt(args, 1)
		if err != nil {
			return err
		}
		part := circuit.SeriesPart{Type: typ, Ref: name}
		if next < len(args) {
			if part.Value, _, err = stringAt(args, next); err != nil {
				return err
			}
		}
		if err := b.reserve(name); err != nil {
			return err
		}
		parts = append(parts, part)
		names = append(names, name)
	}

	placed, err := b.c.PlaceHorizontal(row, col, parts...)
	for i, comp := range placed {
		b.names[names[i]] = comp
	}
	return err
}

// (connect A B)
func (b *builder) connect(list []sexp.Sexp) error {
	if len(list) != 3 {
		return fmt.Errorf("%w: connect takes two terminals", ErrSyntax)
	}
	a, err := b.terminal(list, 1)
	if err != nil {
		return err
	}
	z, err := b.terminal(list, 2)
	if err != nil {
		return err
	}
	_, err = b.c.Connect(a, z)
	return err
}

// (label TERMINAL NAME)
func (b *builder) label(list []sexp.Sexp) error {
	t, err := b.terminal(list, 1)
	if err != nil {
		return err
	}
	name, _, err := stringAt(list, 2)
	if err != nil {
		return err
	}
	return b.c.Label(t, name)
}

func (b *builder) terminal(list []sexp.Sexp, index int) (circuit.Terminal, error) {
	ref, _, err := stringAt(list, index)
	if err != nil {
		return nil, err
	}
	name, pin, hasPin := strings.Cut(ref, ".")
	comp, ok := b.names[name]
	if !ok {
		return nil, fmt.Errorf("%w: no part named %q", circuit.ErrUnknownPin, name)
	}
	if !hasPin {
		return comp, nil
	}
	return comp.Pin(pin)
}

func (b *builder) reserve(name string) error {
	if _, taken := b.names[name]; taken {
		return fmt.Errorf("%w: name %s used twice", circuit.ErrDuplicateRef, name)
	}
	return nil
}
