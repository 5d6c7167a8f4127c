package design

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/netlist"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

const dividerDesign = `
(circuit
  (place V1 voltage 1 1 (value 5))
  (place R1 res 1 3 (value "1k"))
  (place G1 gnd 3 2)
  (connect V1.positive R1.p1)
  (connect V1.negative G1)
  (connect R1.p2 G1))
`

func load(t *testing.T, src string) *circuit.Circuit {
	t.Helper()
	c, err := Load(strings.NewReader(src), registry.Default(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return c
}

func TestLoadMatchesAPI(t *testing.T) {
	got := load(t, dividerDesign)

	want, err := circuit.New(registry.Default(), nil)
	if err != nil {
		t.Fatalf("Failed to create circuit: %v", err)
	}
	v, _ := want.Place(registry.VoltageSource, 1, 1, circuit.PlaceOptions{Ref: "V1", Value: "5"})
	r, _ := want.Place(registry.Resistor, 1, 3, circuit.PlaceOptions{Ref: "R1", Value: "1k"})
	g, _ := want.Place(registry.Ground, 3, 2, circuit.PlaceOptions{})
	want.Connect(v.MustPin("positive"), r.MustPin("p1"))
	want.Connect(v.MustPin("negative"), g)
	want.Connect(r.MustPin("p2"), g)

	if got.ToASC() != want.ToASC() {
		t.Errorf("Design output differs:\ngot:\n%s\nwant:\n%s", got.ToASC(), want.ToASC())
	}
	if issues := got.Validate(); len(issues) != 0 {
		t.Errorf("Expected a clean circuit, got %v", issues)
	}
}

func TestLoadConfigForms(t *testing.T) {
	c := load(t, `(circuit (labels overwrite) (place R1 res 0 0) (grid 4 32))`)

	cfg := c.Config()
	if cfg.GridSize != 4 || cfg.GridUnit != 32 {
		t.Errorf("Expected grid 4x32, got %dx%d", cfg.GridSize, cfg.GridUnit)
	}
	if cfg.LabelPolicy != netlist.LabelOverwrite {
		t.Errorf("Expected overwrite policy, got %v", cfg.LabelPolicy)
	}

	base := circuit.DefaultConfig()
	base.GridSize = 20
	c, err := Load(strings.NewReader(`(circuit (grid 6))`), registry.Default(), base)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg := c.Config(); cfg.GridSize != 6 || cfg.GridUnit != 64 {
		t.Errorf("Expected grid 6x64, got %dx%d", cfg.GridSize, cfg.GridUnit)
	}
	if base.GridSize != 20 {
		t.Error("Load must not modify the caller's config")
	}
}

func TestLoadPlaceOptions(t *testing.T) {
	c := load(t, `(circuit
	  (place R7 res 2 2 (rotation 90) (mirror) (align p1) (value "10 k")))`)

	r, ok := c.Component("R7")
	if !ok {
		t.Fatal("Expected component R7")
	}
	if r.Orientation() != (geom.Orientation{Rotation: 90, Mirror: true}) {
		t.Errorf("Unexpected orientation %v", r.Orientation())
	}
	if got := r.MustPin("p1").Coords(); got != c.GridPoint(2, 2) {
		t.Errorf("Expected p1 at %v, got %v", c.GridPoint(2, 2), got)
	}
	if r.Value() != "10 k" {
		t.Errorf("Expected value %q, got %q", "10 k", r.Value())
	}
}

func TestLoadNodeChainLabel(t *testing.T) {
	c := load(t, `(circuit
	  (chain 2 1 (res R1 "1k") (cap C1))
	  (node OUT 4 4)
	  (place G1 gnd 5 1)
	  (connect C1.p2 OUT)
	  (connect R1.p1 G1)
	  (label R1.p2 MID))`)

	r, _ := c.Component("R1")
	cp, _ := c.Component("C1")
	if r.Value() != "1k" || cp.Value() != "" {
		t.Errorf("Unexpected values %q %q", r.Value(), cp.Value())
	}
	if name, ok := cp.MustPin("p1").Label(); !ok || name != "MID" {
		t.Errorf("Expected chained C1.p1 on net MID, got %q", name)
	}
	if name, ok := cp.MustPin("p2").Label(); !ok || name != "OUT" {
		t.Errorf("Expected C1.p2 on net OUT, got %q", name)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  error
		index int
	}{
		{"not a circuit", `(schematic)`, ErrSyntax, 0},
		{"two roots", `(circuit) (circuit)`, ErrSyntax, 0},
		{"stray paren", `(circuit (place R1 res 0 0)))`, ErrSyntax, 0},
		{"unclosed", `(circuit (place R1 res 0 0)`, ErrSyntax, 0},
		{"rotation without angle", `(circuit (place R1 res 0 0 (rotation)))`, ErrSyntax, 1},
		{"unknown form", `(circuit (place R1 res 0 0) (wire R1.p1 R1.p2))`, ErrSyntax, 2},
		{"bad integer", `(circuit (place R1 res zero 0))`, ErrSyntax, 1},
		{"missing argument", `(circuit (node VCC 1))`, ErrSyntax, 1},
		{"unknown option", `(circuit (place R1 res 0 0 (colour red)))`, ErrSyntax, 1},
		{"unknown type", `(circuit (place Q1 transistor 0 0))`, circuit.ErrUnknownComponentType, 1},
		{"bad rotation", `(circuit (place R1 res 0 0 (rotation 45)))`, circuit.ErrInvalidRotation, 1},
		{"unknown part", `(circuit (place R1 res 0 0) (connect R1.p1 R9.p1))`, circuit.ErrUnknownPin, 2},
		{"unknown pin", `(circuit (place R1 res 0 0) (label R1.p9 X))`, circuit.ErrUnknownPin, 2},
		{"ambiguous", `(circuit (place R1 res 0 0) (place G1 gnd 2 0) (connect R1 G1))`, circuit.ErrAmbiguousTerminal, 3},
		{"duplicate name", `(circuit (place G1 gnd 0 0) (node G1 1 1))`, circuit.ErrDuplicateRef, 2},
		{"label conflict", `(circuit (node A 0 0) (node B 0 2) (connect A B))`, circuit.ErrLabelConflict, 3},
		{"bad policy", `(circuit (labels merge))`, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.src), registry.Default(), nil)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
			var ferr *FormError
			if tt.index == 0 {
				if errors.As(err, &ferr) {
					t.Errorf("Expected a top-level error, got form %d", ferr.Index)
				}
				return
			}
			if !errors.As(err, &ferr) {
				t.Fatalf("Expected *FormError, got %T: %v", err, err)
			}
			if ferr.Index != tt.index {
				t.Errorf("Expected form %d, got %d (%v)", tt.index, ferr.Index, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divider.cir")
	if err := os.WriteFile(path, []byte(dividerDesign), 0o644); err != nil {
		t.Fatalf("Failed to write design: %v", err)
	}

	c, err := LoadFile(path, registry.Default(), nil)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if n := len(c.Components()); n != 3 {
		t.Errorf("Expected 3 components, got %d", n)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.cir"), registry.Default(), nil); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
