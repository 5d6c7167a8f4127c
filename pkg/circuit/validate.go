package circuit

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

// Severity ranks validation issues.
type Severity int

const (
	// SeverityError blocks Save.
	SeverityError Severity = iota
	// SeverityWarning is informational.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "WARNING"
	}
	return "ERROR"
}

// IssueKind identifies the check that produced an issue.
type IssueKind string

// Issue kinds, in the order Validate runs the checks.
const (
	IssueUnconnectedPin IssueKind = "unconnected-pin"
	IssueMissingGround  IssueKind = "missing-ground"
	IssueFloatingWire   IssueKind = "floating-wire-endpoint"
	IssueOverlap        IssueKind = "overlapping-components"
	IssueSupplyPin      IssueKind = "unconnected-supply-pin"
	IssueOutOfBounds    IssueKind = "out-of-bounds"
	IssueWireCrossing   IssueKind = "wire-crossing"
	IssueWireOverPin    IssueKind = "wire-over-pin"
)

// Issue is one validation finding.
type Issue struct {
	Severity   Severity
	Kind       IssueKind
	Message    string
	Components []string // implicated reference designators
	Pins       []string // implicated pins as REF.pin
}

func (i Issue) String() string {
	loc := ""
	switch {
	case len(i.Pins) > 0:
		loc = " [" + strings.Join(i.Pins, ", ") + "]"
	case len(i.Components) > 0:
		loc = " [" + strings.Join(i.Components, ", ") + "]"
	}
	return fmt.Sprintf("%s%s: %s", i.Severity, loc, i.Message)
}

// Issues is an ordered validation result.
type Issues []Issue

// Count returns the number of issues with severity s.
func (is Issues) Count(s Severity) int {
	n := 0
	for _, i := range is {
		if i.Severity == s {
			n++
		}
	}
	return n
}

// HasErrors reports whether any issue is an ERROR.
func (is Issues) HasErrors() bool {
	return is.Count(SeverityError) > 0
}

// ValidationError is returned by Save when validation finds errors.
type ValidationError struct {
	Issues   Issues
	Errors   int
	Warnings int
}

func newValidationError(issues Issues) *ValidationError {
	return &ValidationError{
		Issues:   issues,
		Errors:   issues.Count(SeverityError),
		Warnings: issues.Count(SeverityWarning),
	}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("circuit: validation failed: %d error(s), %d warning(s)", e.Errors, e.Warnings)
}

// Unwrap makes errors.Is(err, ErrValidationFailed) hold.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Validate inspects the circuit and returns issues grouped by check, in
// discovery order within a check. It does not modify the circuit.
func (c *Circuit) Validate() Issues {
	var issues Issues
	for _, check := range []func() Issues{
		c.checkUnconnectedPins,
		c.checkGround,
		c.checkWireEndpoints,
		c.checkOverlaps,
		c.checkSupplyPins,
		c.checkBounds,
		c.checkWireCrossings,
		c.checkWiresOverPins,
	} {
		issues = append(issues, check()...)
	}
	return issues
}

// checkUnconnectedPins reports signal pins left in a singleton net that were
// never connected or labelled. Supply pins and grounds are covered by their
// own checks.
func (c *Circuit) checkUnconnectedPins() Issues {
	var issues Issues
	for _, comp := range c.components {
		if comp.Kind() == registry.KindGround {
			continue
		}
		for _, p := range comp.pins {
			if p.supply || c.touched[p.ID()] || p.IsConnected() {
				continue
			}
			issues = append(issues, Issue{
				Severity:   SeverityError,
				Kind:       IssueUnconnectedPin,
				Message:    "pin not connected",
				Components: []string{comp.ref},
				Pins:       []string{p.String()},
			})
		}
	}
	return issues
}

// checkGround requires a ground symbol in a multi-pin net, or a net
// labelled "0".
func (c *Circuit) checkGround() Issues {
	sawGround := false
	for _, comp := range c.components {
		if comp.Kind() != registry.KindGround {
			continue
		}
		sawGround = true
		if c.nets.Size(comp.pins[0].ID()) > 1 {
			return nil
		}
	}
	if _, ok := c.nets.Labels()[groundRef]; ok {
		return nil
	}

	msg := "no ground reference: place a ground and connect it, or label a net \"0\""
	if sawGround {
		msg = "ground is not connected to any other pin"
	}
	return Issues{{
		Severity: SeverityError,
		Kind:     IssueMissingGround,
		Message:  msg,
	}}
}

// checkWireEndpoints flags wire ends that do not sit on a pin.
func (c *Circuit) checkWireEndpoints() Issues {
	at := make(map[geom.Point]bool)
	for _, comp := range c.components {
		for _, p := range comp.pins {
			at[p.at] = true
		}
	}

	var issues Issues
	for _, w := range c.wires {
		for _, end := range []geom.Point{w.Path.Start(), w.Path.End()} {
			if at[end] {
				continue
			}
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Kind:     IssueFloatingWire,
				Message:  fmt.Sprintf("wire %s ends at %v where there is no pin", w, end),
				Pins:     []string{w.A.String(), w.B.String()},
			})
		}
	}
	return issues
}

// checkOverlaps reports grid cells holding more than one component.
func (c *Circuit) checkOverlaps() Issues {
	type cell struct{ row, col int }
	byCell := make(map[cell][]string)
	var order []cell
	for _, comp := range c.components {
		k := cell{comp.row, comp.col}
		if _, ok := byCell[k]; !ok {
			order = append(order, k)
		}
		byCell[k] = append(byCell[k], comp.ref)
	}

	var issues Issues
	for _, k := range order {
		refs := byCell[k]
		if len(refs) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Kind:       IssueOverlap,
			Message:    fmt.Sprintf("components overlap at grid cell (row=%d, col=%d)", k.row, k.col),
			Components: refs,
		})
	}
	return issues
}

// checkSupplyPins reports power pins that were left floating.
func (c *Circuit) checkSupplyPins() Issues {
	var issues Issues
	for _, comp := range c.components {
		for _, p := range comp.pins {
			if !p.supply || p.IsConnected() {
				continue
			}
			msg := "power pin not connected"
			if comp.Kind() == registry.KindOpAmp {
				msg = "op-amp power pin not connected (fine for an ideal op-amp)"
			}
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Kind:       IssueSupplyPin,
				Message:    msg,
				Components: []string{comp.ref},
				Pins:       []string{p.String()},
			})
		}
	}
	return issues
}

// checkBounds reports components placed outside the configured grid.
func (c *Circuit) checkBounds() Issues {
	var issues Issues
	size := c.cfg.GridSize
	for _, comp := range c.components {
		if comp.row >= 0 && comp.row < size && comp.col >= 0 && comp.col < size {
			continue
		}
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Kind:       IssueOutOfBounds,
			Message:    fmt.Sprintf("placed at (row=%d, col=%d) outside the %dx%d grid", comp.row, comp.col, size, size),
			Components: []string{comp.ref},
		})
	}
	return issues
}

// checkWireCrossings reports wires of different nets that cross, overlap or
// meet in a T.
// Each pair of wires is reported once.
func (c *Circuit) checkWireCrossings() Issues {
	var issues Issues
	for i, a := range c.wires {
		for _, b := range c.wires[i+1:] {
			if a.A.Net() == b.A.Net() {
				continue
			}
			if p, ok := firstIntersection(a, b); ok {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Kind:     IssueWireCrossing,
					Message:  fmt.Sprintf("wire %s crosses wire %s at %v; use a node or a label to avoid it", a, b, p),
					Pins:     []string{a.A.String(), a.B.String(), b.A.String(), b.B.String()},
				})
			}
		}
	}
	return issues
}

func firstIntersection(a, b *Wire) (geom.Point, bool) {
	for _, sa := range a.Segments() {
		for _, sb := range b.Segments() {
			if p, ok := sa.Intersect(sb); ok {
				return p, true
			}
		}
	}
	// A T-junction: an end or bend of one wire touching the other.
	for _, p := range a.Path.Points {
		if b.passesOver(p) {
			return p, true
		}
	}
	for _, p := range b.Path.Points {
		if a.passesOver(p) {
			return p, true
		}
	}
	return geom.Point{}, false
}

// passesOver reports whether p lies inside one of the wire's segments or on
// its bend. The wire's own ends do not count.
func (w *Wire) passesOver(p geom.Point) bool {
	if bend, ok := w.Path.Bend(); ok && bend == p {
		return true
	}
	for _, s := range w.Segments() {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

// checkWiresOverPins reports wires running across, or bending on, a pin of
// another net. LTspice would join that pin to the wire.
func (c *Circuit) checkWiresOverPins() Issues {
	var issues Issues
	for _, w := range c.wires {
		net := w.A.Net()
		for _, comp := range c.components {
			for _, p := range comp.pins {
				if p.Net() == net {
					continue
				}
				if !w.passesOver(p.at) {
					continue
				}
				issues = append(issues, Issue{
					Severity:   SeverityWarning,
					Kind:       IssueWireOverPin,
					Message:    fmt.Sprintf("wire %s passes over pin %s at %v", w, p, p.at),
					Components: []string{comp.ref},
					Pins:       []string{p.String()},
				})
			}
		}
	}
	return issues
}
