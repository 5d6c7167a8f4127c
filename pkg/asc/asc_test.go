package asc

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

const dividerASC = `Version 4
SHEET 1 840 840
WIRE 0 16 80 16
FLAG 0 96 0
FLAG 80 96 0
SYMBOL voltage 0 0 R0
SYMATTR InstName V1
SYMATTR Value 5
SYMBOL res 64 0 R0
SYMATTR InstName R1
SYMATTR Value 1k
`

func sampleDocument() *Document {
	doc := NewDocument(840, 840)
	doc.Wires = []Wire{{X1: 0, Y1: 16, X2: 80, Y2: 16}}
	doc.Flags = []Flag{{X: 0, Y: 96, Name: "0"}, {X: 80, Y: 96, Name: "0"}}
	doc.Symbols = []*Symbol{
		{Name: "voltage", X: 0, Y: 0, Orientation: "R0", Attrs: []Attr{{"InstName", "V1"}, {"Value", "5"}}},
		{Name: "res", X: 64, Y: 0, Orientation: "R0", Attrs: []Attr{{"InstName", "R1"}, {"Value", "1k"}}},
	}
	return doc
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleDocument()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := buf.String(); got != dividerASC {
		t.Errorf("Encode mismatch\n got:\n%s\nwant:\n%s", got, dividerASC)
	}
}

func TestEncodeDefaults(t *testing.T) {
	doc := &Document{Sheet: Sheet{Number: 1, Width: 10, Height: 20}}
	doc.Symbols = []*Symbol{{Name: "cap", X: 1, Y: 2}}
	want := "Version 4\nSHEET 1 10 20\nSYMBOL cap 1 2 R0\n"
	if got := doc.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	doc, err := Parse(strings.NewReader(dividerASC))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.Version != "4" {
		t.Errorf("version = %q", doc.Version)
	}
	if doc.Sheet != (Sheet{Number: 1, Width: 840, Height: 840}) {
		t.Errorf("sheet = %+v", doc.Sheet)
	}
	if len(doc.Wires) != 1 || len(doc.Flags) != 2 || len(doc.Symbols) != 2 {
		t.Fatalf("records: %d wires, %d flags, %d symbols", len(doc.Wires), len(doc.Flags), len(doc.Symbols))
	}
	if doc.Symbols[1].InstName() != "R1" {
		t.Errorf("R1 inst name = %q", doc.Symbols[1].InstName())
	}
	if v, _ := doc.Symbols[1].Attr("Value"); v != "1k" {
		t.Errorf("R1 value = %q", v)
	}

	if got := doc.String(); got != dividerASC {
		t.Errorf("round trip changed the file\n got:\n%s\nwant:\n%s", got, dividerASC)
	}
}

func TestParseKeepsUnknownRecords(t *testing.T) {
	input := "Version 4\r\n" +
		"SHEET 1 880 680\r\n" +
		"SYMBOL opamp2 192 64 M0\r\n" +
		"WINDOW 3 16 96 Left 2\r\n" +
		"SYMATTR InstName U1\r\n" +
		"SYMATTR Value2 multi word value\r\n" +
		"\r\n" +
		"TEXT -32 200 Left 2 !.tran 1m\r\n" +
		"IOPIN 16 16 In"

	doc, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Symbols) != 1 {
		t.Fatalf("symbols = %d", len(doc.Symbols))
	}
	sym := doc.Symbols[0]
	if sym.Orientation != "M0" {
		t.Errorf("orientation = %q", sym.Orientation)
	}
	if len(sym.Extra) != 1 || sym.Extra[0] != "WINDOW 3 16 96 Left 2" {
		t.Errorf("symbol extra = %q", sym.Extra)
	}
	if v, _ := sym.Attr("Value2"); v != "multi word value" {
		t.Errorf("Value2 = %q", v)
	}
	wantExtra := []string{"TEXT -32 200 Left 2 !.tran 1m", "IOPIN 16 16 In"}
	if len(doc.Extra) != len(wantExtra) {
		t.Fatalf("extra = %q", doc.Extra)
	}
	for i := range wantExtra {
		if doc.Extra[i] != wantExtra[i] {
			t.Errorf("extra[%d] = %q, want %q", i, doc.Extra[i], wantExtra[i])
		}
	}
}

func TestParseWithoutTrailingNewline(t *testing.T) {
	header := "Version 4\nSHEET 1 10 10\n"
	tests := []struct {
		name  string
		last  string
		check func(*Document) bool
	}{
		{"wire", "WIRE 0 0 64 0", func(d *Document) bool { return len(d.Wires) == 1 && d.Wires[0].X2 == 64 }},
		{"flag", "FLAG 64 0 OUT", func(d *Document) bool { return len(d.Flags) == 1 && d.Flags[0].Name == "OUT" }},
		{"text", "TEXT 0 0 Left 2 !.op", func(d *Document) bool { return len(d.Extra) == 1 }},
		{"crlf", "WIRE 0 0 64 0\r", func(d *Document) bool { return len(d.Wires) == 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse(strings.NewReader(header + tt.last))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !tt.check(doc) {
				t.Errorf("last record %q not read: %+v", tt.last, doc)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"missing version", "SHEET 1 10 10\n", ErrUnsupportedVersion},
		{"old version", "Version 3\nSHEET 1 10 10\n", ErrUnsupportedVersion},
		{"orphan attribute", "Version 4\nSYMATTR InstName R1\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"4", "4.1", "5"} {
		if err := CheckVersion(v); err != nil {
			t.Errorf("CheckVersion(%q) = %v", v, err)
		}
	}
	for _, v := range []string{"", "2", "3.9"} {
		if err := CheckVersion(v); !errors.Is(err, ErrUnsupportedVersion) {
			t.Errorf("CheckVersion(%q) = %v, want ErrUnsupportedVersion", v, err)
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "divider.asc")
	if err := os.WriteFile(path, []byte(dividerASC), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if len(doc.Symbols) != 2 {
		t.Errorf("symbols = %d", len(doc.Symbols))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.asc")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExtractNets(t *testing.T) {
	doc, err := Parse(strings.NewReader(dividerASC))
	if err != nil {
		t.Fatal(err)
	}

	ex := ExtractNets(doc, registry.Default())
	if len(ex.Unknown) != 0 {
		t.Errorf("unknown symbols: %v", ex.Unknown)
	}
	if len(ex.Nets) != 2 {
		t.Fatalf("nets = %d, want 2", len(ex.Nets))
	}

	top := ex.Nets[0]
	if top.Name() != "" {
		t.Errorf("top net name = %q, want unnamed", top.Name())
	}
	if len(top.Pins) != 2 || top.Pins[0] != (PinRef{"V1", "positive", geom.Pt(0, 16)}) || top.Pins[1].Ref != "R1" || top.Pins[1].Pin != "p1" {
		t.Errorf("top net pins = %+v", top.Pins)
	}

	gnd := ex.Nets[1]
	if gnd.Name() != "0" {
		t.Errorf("ground net name = %q", gnd.Name())
	}
	if len(gnd.Pins) != 2 || gnd.Pins[0].Pin != "negative" || gnd.Pins[1].Pin != "p2" {
		t.Errorf("ground net pins = %+v", gnd.Pins)
	}
}

func TestExtractNetsJunctionsAndUnknown(t *testing.T) {
	doc := NewDocument(400, 400)
	// A long wire with a second wire ending on its interior.
	doc.Wires = []Wire{
		{X1: 0, Y1: 16, X2: 160, Y2: 16},
		{X1: 80, Y1: 16, X2: 80, Y2: 64},
	}
	doc.Flags = []Flag{{X: 80, Y: 64, Name: "MID"}, {X: 300, Y: 300, Name: "LONE"}}
	doc.Symbols = []*Symbol{
		{Name: "voltage", X: 0, Y: 0, Orientation: "R0", Attrs: []Attr{{"InstName", "V1"}}},
		{Name: "diode", X: 200, Y: 200, Orientation: "R0"},
	}

	ex := ExtractNets(doc, registry.Default())
	if len(ex.Unknown) != 1 || ex.Unknown[0] != "diode" {
		t.Errorf("unknown = %v", ex.Unknown)
	}

	var mid, lone *Net
	for _, n := range ex.Nets {
		switch n.Name() {
		case "MID":
			mid = n
		case "LONE":
			lone = n
		}
	}
	if mid == nil || len(mid.Pins) != 1 || mid.Pins[0].Pin != "positive" {
		t.Fatalf("T junction should put V1.positive on MID, got %+v", mid)
	}
	if lone == nil || len(lone.Pins) != 0 {
		t.Errorf("flag-only net missing or wrong: %+v", lone)
	}
	if ex.Nets[len(ex.Nets)-1] != lone {
		t.Errorf("flag-only nets should come last")
	}
}
