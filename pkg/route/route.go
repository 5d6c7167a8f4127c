// Package route computes orthogonal wire paths between two schematic points.
//
// Routing is deliberately simple: at most one bend, horizontal leg first.
// No attempt is made to avoid other wires or component bodies; crossings
// are reported by circuit validation instead.
package route

import (
	"fmt"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
)

// Segment is one straight wire piece.
type Segment struct {
	From geom.Point
	To   geom.Point
}

func (s Segment) String() string {
	return fmt.Sprintf("%v-%v", s.From, s.To)
}

// Horizontal reports whether the segment runs along the X axis.
func (s Segment) Horizontal() bool {
	return s.From.Y == s.To.Y && s.From.X != s.To.X
}

// Vertical reports whether the segment runs along the Y axis.
func (s Segment) Vertical() bool {
	return s.From.X == s.To.X && s.From.Y != s.To.Y
}

// HasEndpoint reports whether p is one of the segment ends.
func (s Segment) HasEndpoint(p geom.Point) bool {
	return s.From == p || s.To == p
}

// Contains reports whether p lies strictly inside the segment, excluding
// both endpoints.
func (s Segment) Contains(p geom.Point) bool {
	switch {
	case s.Horizontal():
		lo, hi := minmax(s.From.X, s.To.X)
		return p.Y == s.From.Y && lo < p.X && p.X < hi
	case s.Vertical():
		lo, hi := minmax(s.From.Y, s.To.Y)
		return p.X == s.From.X && lo < p.Y && p.Y < hi
	}
	return false
}

// Intersect reports where two segments cross or overlap. Segments sharing an
// endpoint are joined on purpose and never intersect. A horizontal and a
// vertical segment intersect when the crossing point is on both of them and
// is not an endpoint of either; parallel segments on the same line intersect
// when they overlap by more than a point, and the midpoint of the overlap is
// returned.
func (s Segment) Intersect(o Segment) (geom.Point, bool) {
	if s.HasEndpoint(o.From) || s.HasEndpoint(o.To) {
		return geom.Point{}, false
	}

	switch {
	case s.Horizontal() && o.Vertical():
		return crossing(s, o)
	case s.Vertical() && o.Horizontal():
		return crossing(o, s)
	case s.Horizontal() && o.Horizontal():
		if s.From.Y != o.From.Y {
			return geom.Point{}, false
		}
		lo, hi, ok := overlap(s.From.X, s.To.X, o.From.X, o.To.X)
		if !ok {
			return geom.Point{}, false
		}
		return geom.Pt((lo+hi)/2, s.From.Y), true
	case s.Vertical() && o.Vertical():
		if s.From.X != o.From.X {
			return geom.Point{}, false
		}
		lo, hi, ok := overlap(s.From.Y, s.To.Y, o.From.Y, o.To.Y)
		if !ok {
			return geom.Point{}, false
		}
		return geom.Pt(s.From.X, (lo+hi)/2), true
	}
	return geom.Point{}, false
}

func crossing(h, v Segment) (geom.Point, bool) {
	p := geom.Pt(v.From.X, h.From.Y)
	xlo, xhi := minmax(h.From.X, h.To.X)
	ylo, yhi := minmax(v.From.Y, v.To.Y)
	if p.X < xlo || p.X > xhi || p.Y < ylo || p.Y > yhi {
		return geom.Point{}, false
	}
	if h.HasEndpoint(p) || v.HasEndpoint(p) {
		return geom.Point{}, false
	}
	return p, true
}

func overlap(a1, a2, b1, b2 int) (lo, hi int, ok bool) {
	alo, ahi := minmax(a1, a2)
	blo, bhi := minmax(b1, b2)
	lo, hi = max(alo, blo), min(ahi, bhi)
	return lo, hi, lo < hi
}

func minmax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// Path is an ordered list of 1 to 3 points. Consecutive points form
// axis-aligned segments; a single point means start and end coincide.
type Path struct {
	Points []geom.Point
}

// Route returns the path from a to b. When both X and Y differ the path runs
// horizontally to (b.X, a.Y) and then vertically to b. Aligned points yield a
// single segment and identical points yield no segment at all.
func Route(a, b geom.Point) Path {
	switch {
	case a == b:
		return Path{Points: []geom.Point{a}}
	case a.X == b.X || a.Y == b.Y:
		return Path{Points: []geom.Point{a, b}}
	}
	return Path{Points: []geom.Point{a, geom.Pt(b.X, a.Y), b}}
}

// Start returns the first point of the path.
func (p Path) Start() geom.Point {
	return p.Points[0]
}

// End returns the last point of the path.
func (p Path) End() geom.Point {
	return p.Points[len(p.Points)-1]
}

// Segments returns the straight pieces of the path in order.
func (p Path) Segments() []Segment {
	if len(p.Points) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(p.Points)-1)
	for i := 1; i < len(p.Points); i++ {
		segs = append(segs, Segment{From: p.Points[i-1], To: p.Points[i]})
	}
	return segs
}

// Bend returns the corner point of an L-shaped path.
func (p Path) Bend() (geom.Point, bool) {
	if len(p.Points) != 3 {
		return geom.Point{}, false
	}
	return p.Points[1], true
}
