// Package asc reads and writes LTspice schematic (.asc) files.
//
// Only the records a generated schematic needs are modelled: the header,
// wires, net flags and symbols with their attributes. Anything else found
// while parsing (TEXT, IOPIN, LINE, ...) is kept verbatim so a file survives
// a parse and encode cycle without losing content.
package asc

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
)

// CurrentVersion is the format version written by Encode.
const CurrentVersion = "4"

// Document is the in-memory form of a schematic file.
type Document struct {
	Version string
	Sheet   Sheet
	Wires   []Wire
	Flags   []Flag
	Symbols []*Symbol
	Extra   []string // unrecognised top-level records, verbatim
}

// Sheet is the SHEET header record.
type Sheet struct {
	Number int
	Width  int
	Height int
}

// Wire is one straight WIRE record.
type Wire struct {
	X1, Y1 int
	X2, Y2 int
}

// Start returns the first endpoint.
func (w Wire) Start() geom.Point { return geom.Pt(w.X1, w.Y1) }

// End returns the second endpoint.
func (w Wire) End() geom.Point { return geom.Pt(w.X2, w.Y2) }

// Flag is a FLAG record: a net name attached to a point. Ground is the
// flag named "0".
type Flag struct {
	X, Y int
	Name string
}

// At returns the flag position.
func (f Flag) At() geom.Point { return geom.Pt(f.X, f.Y) }

// Attr is one SYMATTR line.
type Attr struct {
	Key   string
	Value string
}

// Symbol is a SYMBOL record with the attribute and window lines that follow it.
type Symbol struct {
	Name        string
	X, Y        int
	Orientation string // R0..R270 or M0..M270
	Attrs       []Attr
	Extra       []string // WINDOW and other per-symbol lines, verbatim
}

// Origin returns the symbol anchor point.
func (s *Symbol) Origin() geom.Point { return geom.Pt(s.X, s.Y) }

// Attr returns the value of the named attribute.
func (s *Symbol) Attr(key string) (string, bool) {
	for _, a := range s.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// InstName returns the instance name attribute, or "" when absent.
func (s *Symbol) InstName() string {
	v, _ := s.Attr("InstName")
	return v
}

// NewDocument returns an empty document with the current version and a sheet
// of the given size.
func NewDocument(width, height int) *Document {
	return &Document{
		Version: CurrentVersion,
		Sheet:   Sheet{Number: 1, Width: width, Height: height},
	}
}

// Encode writes doc in record order: header, wires, flags, symbols, then any
// extra records. Output is a pure function of doc.
func Encode(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)

	version := doc.Version
	if version == "" {
		version = CurrentVersion
	}
	fmt.Fprintf(bw, "Version %s\n", version)
	fmt.Fprintf(bw, "SHEET %d %d %d\n", doc.Sheet.Number, doc.Sheet.Width, doc.Sheet.Height)

	for _, wire := range doc.Wires {
		fmt.Fprintf(bw, "WIRE %d %d %d %d\n", wire.X1, wire.Y1, wire.X2, wire.Y2)
	}
	for _, flag := range doc.Flags {
		fmt.Fprintf(bw, "FLAG %d %d %s\n", flag.X, flag.Y, flag.Name)
	}
	for _, sym := range doc.Symbols {
		orient := sym.Orientation
		if orient == "" {
			orient = "R0"
		}
		fmt.Fprintf(bw, "SYMBOL %s %d %d %s\n", sym.Name, sym.X, sym.Y, orient)
		for _, line := range sym.Extra {
			fmt.Fprintln(bw, line)
		}
		for _, attr := range sym.Attrs {
			fmt.Fprintf(bw, "SYMATTR %s %s\n", attr.Key, attr.Value)
		}
	}
	for _, line := range doc.Extra {
		fmt.Fprintln(bw, line)
	}

	return bw.Flush()
}

// String returns the encoded document.
func (doc *Document) String() string {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = Encode(&sb, doc)
	return sb.String()
}
