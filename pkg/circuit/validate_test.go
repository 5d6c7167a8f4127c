package circuit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

func issueKinds(issues Issues) []IssueKind {
	var kinds []IssueKind
	for _, i := range issues {
		kinds = append(kinds, i.Kind)
	}
	return kinds
}

func sameKinds(a, b []IssueKind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestValidateIncomplete(t *testing.T) {
	c, _, _ := divider(t, nil, false)

	issues := c.Validate()
	want := []IssueKind{IssueUnconnectedPin, IssueUnconnectedPin, IssueMissingGround}
	if !sameKinds(issueKinds(issues), want) {
		t.Fatalf("Expected %v, got %v", want, issues)
	}
	if issues.Count(SeverityError) != 3 || issues.Count(SeverityWarning) != 0 {
		t.Errorf("Expected 3 errors and 0 warnings, got %d and %d",
			issues.Count(SeverityError), issues.Count(SeverityWarning))
	}
	if issues[0].Pins[0] != "V1.negative" || issues[1].Pins[0] != "R1.p2" {
		t.Errorf("Unexpected pins %v %v", issues[0].Pins, issues[1].Pins)
	}
	if got := issues[0].String(); got != "ERROR [V1.negative]: pin not connected" {
		t.Errorf("Unexpected issue text %q", got)
	}
}

func TestValidateClean(t *testing.T) {
	c, _, _ := divider(t, nil, true)

	if issues := c.Validate(); len(issues) != 0 {
		t.Errorf("Expected no issues, got %v", issues)
	}
}

func TestValidateGroundLabel(t *testing.T) {
	c, v, r := divider(t, nil, false)
	if err := c.Label(v.MustPin("negative"), "0"); err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if err := c.Label(r.MustPin("p2"), "0"); err != nil {
		t.Fatalf("Label failed: %v", err)
	}

	if issues := c.Validate(); len(issues) != 0 {
		t.Errorf("A net labelled 0 should satisfy the ground check, got %v", issues)
	}
}

func TestValidateLoneGround(t *testing.T) {
	c, v, r := divider(t, nil, false)
	if err := c.Label(v.MustPin("negative"), "BOT"); err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	if err := c.Label(r.MustPin("p2"), "BOT"); err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	mustPlace(t, c, registry.Ground, 4, 4, PlaceOptions{})

	issues := c.Validate()
	if !sameKinds(issueKinds(issues), []IssueKind{IssueMissingGround}) {
		t.Fatalf("Expected only missing ground, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "not connected") {
		t.Errorf("Expected a lone-ground message, got %q", issues[0].Message)
	}
}

func TestValidateOverlap(t *testing.T) {
	c, _, _ := divider(t, nil, true)
	mustPlace(t, c, registry.Ground, 3, 2, PlaceOptions{})

	issues := c.Validate()
	if !sameKinds(issueKinds(issues), []IssueKind{IssueOverlap}) {
		t.Fatalf("Expected one overlap, got %v", issues)
	}
	if issues[0].Severity != SeverityWarning {
		t.Error("Overlap must be a warning")
	}
	if got := strings.Join(issues[0].Components, ","); got != "0,0" {
		t.Errorf("Expected components 0,0, got %s", got)
	}
}

func TestValidateSupplyPins(t *testing.T) {
	c := newTestCircuit(t)
	u := mustPlace(t, c, registry.OpAmp, 3, 3, PlaceOptions{})
	gnd := mustPlace(t, c, registry.Ground, 6, 3, PlaceOptions{})
	for _, name := range []string{"noninv", "inv", "out"} {
		mustConnect(t, c, u.MustPin(name), gnd)
	}

	var supply Issues
	for _, i := range c.Validate() {
		if i.Kind == IssueSupplyPin {
			supply = append(supply, i)
		}
		if i.Severity == SeverityError {
			t.Errorf("Unexpected error %v", i)
		}
	}
	if len(supply) != 2 {
		t.Fatalf("Expected 2 supply warnings, got %d", len(supply))
	}
	if supply[0].Pins[0] != "U1.vpos" || supply[1].Pins[0] != "U1.vneg" {
		t.Errorf("Unexpected supply pins %v %v", supply[0].Pins, supply[1].Pins)
	}

	if err := c.Label(u.MustPin("vpos"), "VCC"); err != nil {
		t.Fatalf("Label failed: %v", err)
	}
	for _, i := range c.Validate() {
		if i.Kind == IssueSupplyPin && i.Pins[0] == "U1.vpos" {
			t.Error("A labelled supply pin must not be reported")
		}
	}
}

func TestValidateOutOfBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GridSize = 3
	c, _, _ := divider(t, cfg, true)

	issues := c.Validate()
	if !sameKinds(issueKinds(issues), []IssueKind{IssueOutOfBounds, IssueOutOfBounds}) {
		t.Fatalf("Expected two out-of-bounds warnings, got %v", issues)
	}
	if issues[0].Components[0] != "R1" || issues[1].Components[0] != "0" {
		t.Errorf("Unexpected components %v %v", issues[0].Components, issues[1].Components)
	}
	if issues.HasErrors() {
		t.Error("Out of bounds must not be an error")
	}
}

func TestValidateWireCrossing(t *testing.T) {
	c := newTestCircuit(t)
	top := mustPlace(t, c, registry.Ground, 0, 2, PlaceOptions{})
	bottom := mustPlace(t, c, registry.Ground, 4, 2, PlaceOptions{})
	left := mustPlace(t, c, registry.Ground, 2, 0, PlaceOptions{})
	right := mustPlace(t, c, registry.Ground, 2, 4, PlaceOptions{})
	mustConnect(t, c, top, bottom)
	mustConnect(t, c, left, right)

	issues := c.Validate()
	if !sameKinds(issueKinds(issues), []IssueKind{IssueWireCrossing}) {
		t.Fatalf("Expected one crossing, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "(128, 128)") {
		t.Errorf("Expected crossing at (128, 128), got %q", issues[0].Message)
	}

	// Once both wires carry the same net the crossing is a junction.
	mustConnect(t, c, top, left)
	for _, i := range c.Validate() {
		if i.Kind == IssueWireCrossing {
			t.Errorf("Same-net wires must not be reported: %v", i)
		}
	}
}

func TestValidateWireOverPin(t *testing.T) {
	c := newTestCircuit(t)
	a := mustPlace(t, c, registry.Ground, 1, 0, PlaceOptions{})
	b := mustPlace(t, c, registry.Ground, 1, 4, PlaceOptions{})
	mustPlace(t, c, registry.Ground, 1, 2, PlaceOptions{})
	mustConnect(t, c, a, b)

	issues := c.Validate()
	if !sameKinds(issueKinds(issues), []IssueKind{IssueWireOverPin}) {
		t.Fatalf("Expected one wire-over-pin, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "(128, 64)") {
		t.Errorf("Unexpected message %q", issues[0].Message)
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	c, _, _ := divider(t, nil, false)
	before := c.ToASC()
	c.Validate()
	c.Validate()
	if after := c.ToASC(); after != before {
		t.Error("Validate changed the circuit")
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, nil); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	if got := buf.String(); got != "Circuit validation passed - no issues found\n" {
		t.Errorf("Unexpected clean report %q", got)
	}

	issues := Issues{
		{Severity: SeverityWarning, Kind: IssueOverlap, Message: "overlap", Components: []string{"R1", "R2"}},
		{Severity: SeverityError, Kind: IssueMissingGround, Message: "no ground"},
	}
	buf.Reset()
	if err := WriteReport(&buf, issues); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}
	want := "Circuit validation: 1 error(s), 1 warning(s)\n\n" +
		"  ERROR: no ground\n" +
		"  WARNING [R1, R2]: overlap\n"
	if got := buf.String(); got != want {
		t.Errorf("Report mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestValidateWireTJunction(t *testing.T) {
	c := newTestCircuit(t)
	top := mustPlace(t, c, registry.Ground, 0, 2, PlaceOptions{})
	bottom := mustPlace(t, c, registry.Ground, 4, 2, PlaceOptions{})
	left := mustPlace(t, c, registry.Ground, 2, 0, PlaceOptions{})
	mid := mustPlace(t, c, registry.Ground, 2, 2, PlaceOptions{})
	mustConnect(t, c, top, bottom)
	mustConnect(t, c, left, mid)

	// The second wire ends inside the first one.
	issues := c.Validate()
	if !sameKinds(issueKinds(issues), []IssueKind{IssueWireCrossing, IssueWireOverPin}) {
		t.Fatalf("Expected a crossing and a wire-over-pin, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "(128, 128)") {
		t.Errorf("Expected the junction at (128, 128), got %q", issues[0].Message)
	}
}

func TestValidateBendOverPin(t *testing.T) {
	c := newTestCircuit(t)
	a := mustPlace(t, c, registry.Ground, 0, 0, PlaceOptions{})
	b := mustPlace(t, c, registry.Ground, 1, 1, PlaceOptions{})
	x, err := c.Node("X", 0, 1)
	if err != nil {
		t.Fatalf("Node failed: %v", err)
	}
	w, err := c.Connect(a, b)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if bend, _ := w.Path.Bend(); bend != x.MustPin("pin").Coords() {
		t.Fatalf("Expected the wire to bend on X, got %v", w.Path.Points)
	}

	issues := c.Validate()
	if !sameKinds(issueKinds(issues), []IssueKind{IssueWireOverPin}) {
		t.Fatalf("Expected one wire-over-pin, got %v", issues)
	}
	if !strings.Contains(issues[0].Message, "(64, 0)") || issues[0].Components[0] != x.Ref() {
		t.Errorf("Unexpected issue %v", issues[0])
	}
}
