// Package preview renders schematics to SVG for a quick look without
// LTspice. Symbols are drawn as boxes around their pins; it is not symbol
// art.
package preview

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/OpenTraceLab/ascgen/pkg/asc"
	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

const (
	pad      = 32 // border around the sheet
	boxInset = 8  // symbol box margin around its pins
	pinR     = 3
)

const (
	sheetStyle  = "fill:white;stroke:#ccc"
	wireStyle   = "stroke:#1f5fbf;stroke-width:2"
	boxStyle    = "fill:none;stroke:#444"
	pinStyle    = "fill:#b00"
	textStyle   = "font-family:monospace;font-size:11px;fill:#222"
	flagStyle   = "font-family:monospace;font-size:11px;fill:#0a6"
	groundStyle = "stroke:#0a6;stroke-width:2"
)

// Render draws the circuit.
func Render(w io.Writer, c *circuit.Circuit) error {
	return RenderDocument(w, c.Document(), c.Registry())
}

// RenderDocument draws a parsed or generated schematic. Symbols missing from
// reg are drawn as a marker at their origin.
func RenderDocument(w io.Writer, doc *asc.Document, reg *registry.Registry) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)

	canvas.Start(doc.Sheet.Width+2*pad, doc.Sheet.Height+2*pad)
	canvas.Title("ascgen preview")
	canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", pad, pad))
	canvas.Rect(0, 0, doc.Sheet.Width, doc.Sheet.Height, sheetStyle)

	for _, sym := range doc.Symbols {
		drawSymbol(canvas, sym, reg)
	}
	for _, wire := range doc.Wires {
		canvas.Line(wire.X1, wire.Y1, wire.X2, wire.Y2, wireStyle)
	}
	for _, flag := range doc.Flags {
		if flag.Name == "0" {
			canvas.Line(flag.X-8, flag.Y, flag.X+8, flag.Y, groundStyle)
			canvas.Line(flag.X-4, flag.Y+4, flag.X+4, flag.Y+4, groundStyle)
			continue
		}
		canvas.Circle(flag.X, flag.Y, pinR, "fill:#0a6")
		canvas.Text(flag.X+6, flag.Y-6, flag.Name, flagStyle)
	}

	canvas.Gend()
	canvas.End()
	return ew.err
}

func drawSymbol(canvas *svg.SVG, sym *asc.Symbol, reg *registry.Registry) {
	label := sym.InstName()
	if v, ok := sym.Attr("Value"); ok {
		label += " " + v
	}

	def, ok := reg.LookupSymbol(sym.Name)
	orient, err := geom.ParseOrientation(sym.Orientation)
	if !ok || err != nil {
		canvas.Rect(sym.X-boxInset, sym.Y-boxInset, 2*boxInset, 2*boxInset, boxStyle)
		canvas.Text(sym.X+boxInset+2, sym.Y, sym.Name+" "+label, textStyle)
		return
	}

	pins := make([]geom.Point, 0, len(def.Pins))
	for _, pd := range def.Pins {
		pins = append(pins, sym.Origin().Add(orient.Apply(pd.Offset)))
	}
	lo, hi := bounds(pins)
	canvas.Rect(lo.X-boxInset, lo.Y-boxInset, hi.X-lo.X+2*boxInset, hi.Y-lo.Y+2*boxInset, boxStyle)
	for _, p := range pins {
		canvas.Circle(p.X, p.Y, pinR, pinStyle)
	}
	canvas.Text(hi.X+boxInset+2, (lo.Y+hi.Y)/2, label, textStyle)
}

func bounds(ps []geom.Point) (lo, hi geom.Point) {
	lo, hi = ps[0], ps[0]
	for _, p := range ps[1:] {
		lo.X, lo.Y = min(lo.X, p.X), min(lo.Y, p.Y)
		hi.X, hi.Y = max(hi.X, p.X), max(hi.Y, p.Y)
	}
	return lo, hi
}

// errWriter keeps the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
