package circuit

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenTraceLab/ascgen/pkg/asc"
	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

// SaveOptions control Save.
type SaveOptions struct {
	// SkipValidation writes the file even when validation would fail.
	SkipValidation bool
	// Report, when set, receives the validation report before writing.
	Report io.Writer
}

// Document renders the circuit as a schematic document. Wires come first in
// Connect order, then label flags in Label order, then ground flags and
// symbols in placement order. Nodes appear only through their label flag.
func (c *Circuit) Document() *asc.Document {
	doc := asc.NewDocument(c.cfg.SheetSize())

	for _, w := range c.wires {
		for _, s := range w.Segments() {
			doc.Wires = append(doc.Wires, asc.Wire{X1: s.From.X, Y1: s.From.Y, X2: s.To.X, Y2: s.To.Y})
		}
	}

	type flagKey struct {
		at   geom.Point
		name string
	}
	seen := make(map[flagKey]bool)
	addFlag := func(at geom.Point, name string) {
		k := flagKey{at, name}
		if seen[k] {
			return
		}
		seen[k] = true
		doc.Flags = append(doc.Flags, asc.Flag{X: at.X, Y: at.Y, Name: name})
	}

	for _, p := range c.labels {
		// Emit the net's current label; overwrite policy may have renamed it.
		name, ok := p.Label()
		if !ok {
			continue
		}
		addFlag(p.at, name)
	}

	for _, comp := range c.components {
		switch comp.Kind() {
		case registry.KindGround:
			addFlag(comp.pins[0].at, groundRef)
		case registry.KindNode:
		default:
			sym := &asc.Symbol{
				Name:        comp.Symbol(),
				X:           comp.origin.X,
				Y:           comp.origin.Y,
				Orientation: comp.orient.Code(),
				Attrs:       []asc.Attr{{Key: "InstName", Value: comp.ref}},
			}
			if comp.value != "" {
				sym.Attrs = append(sym.Attrs, asc.Attr{Key: "Value", Value: comp.value})
			}
			doc.Symbols = append(doc.Symbols, sym)
		}
	}

	return doc
}

// WriteASC writes the schematic to w without validating.
func (c *Circuit) WriteASC(w io.Writer) error {
	return asc.Encode(w, c.Document())
}

// ToASC returns the schematic text. Identical construction calls give
// byte-identical output.
func (c *Circuit) ToASC() string {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = c.WriteASC(&sb)
	return sb.String()
}

// Save validates the circuit and writes it to path. Any ERROR issue aborts
// with a *ValidationError and leaves path untouched. The file is written to a
// temporary sibling and renamed into place.
func (c *Circuit) Save(path string, opts SaveOptions) error {
	if !opts.SkipValidation {
		issues := c.Validate()
		if opts.Report != nil {
			if err := WriteReport(opts.Report, issues); err != nil {
				return fmt.Errorf("circuit: write report: %w", err)
			}
		}
		if issues.HasErrors() {
			return newValidationError(issues)
		}
	}

	return writeFileAtomic(path, c.WriteASC)
}

func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("circuit: save %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("circuit: save %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("circuit: save %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("circuit: save %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("circuit: save %s: %w", path, err)
	}
	return nil
}
