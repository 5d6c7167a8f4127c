package asc

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/OpenTraceLab/ascgen/pkg/geom"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

// PinRef names one symbol pin found in a parsed schematic.
type PinRef struct {
	Ref string     `json:"ref"` // InstName, or the symbol name when unnamed
	Pin string     `json:"pin"`
	At  geom.Point `json:"-"`
}

// Net is a connected group of points recovered from file geometry.
type Net struct {
	Names  []string     // distinct flag names on the net, sorted
	Pins   []PinRef     // symbol pins on the net, in symbol order
	Points []geom.Point // every wire end, flag and pin position, sorted
}

// Name returns the preferred net name: ground wins, then the first flag
// name, then "".
func (n *Net) Name() string {
	for _, name := range n.Names {
		if name == "0" {
			return name
		}
	}
	if len(n.Names) > 0 {
		return n.Names[0]
	}
	return ""
}

// Extraction is the result of ExtractNets.
type Extraction struct {
	Nets []*Net
	// Unknown lists symbols whose pin geometry is not in the registry.
	Unknown []string
}

// ExtractNets rebuilds connectivity from the geometry of a parsed schematic.
// Wire ends that meet, wire ends landing on another wire, flags sharing a
// name and symbol pins resolved through reg are joined. Only nets holding at
// least one pin or flag are returned.
func ExtractNets(doc *Document, reg *registry.Registry) *Extraction {
	x := &extractor{
		graph: simple.NewUndirectedGraph(),
		ids:   make(map[geom.Point]int64),
	}
	result := &Extraction{}

	for _, w := range doc.Wires {
		x.join(w.Start(), w.End())
	}
	// A wire end touching the interior of another wire is a T junction.
	for _, p := range x.points {
		for _, w := range doc.Wires {
			if onWire(w, p) {
				x.join(p, w.Start())
			}
		}
	}

	flagNames := make(map[geom.Point][]string)
	firstByName := make(map[string]geom.Point)
	for _, f := range doc.Flags {
		at := f.At()
		x.node(at)
		flagNames[at] = append(flagNames[at], f.Name)
		if first, ok := firstByName[f.Name]; ok {
			x.join(first, at)
		} else {
			firstByName[f.Name] = at
		}
	}

	var pinOrder []PinRef
	for _, sym := range doc.Symbols {
		def, ok := reg.LookupSymbol(sym.Name)
		if !ok {
			result.Unknown = append(result.Unknown, sym.Name)
			continue
		}
		orient, err := geom.ParseOrientation(sym.Orientation)
		if err != nil {
			result.Unknown = append(result.Unknown, sym.Name)
			continue
		}
		ref := sym.InstName()
		if ref == "" {
			ref = sym.Name
		}
		for _, pd := range def.Pins {
			at := sym.Origin().Add(orient.Apply(pd.Offset))
			x.node(at)
			for _, w := range doc.Wires {
				if onWire(w, at) {
					x.join(at, w.Start())
				}
			}
			pinOrder = append(pinOrder, PinRef{Ref: ref, Pin: pd.Name, At: at})
		}
	}

	byID := make(map[int64]*Net)
	for _, component := range topo.ConnectedComponents(x.graph) {
		net := &Net{}
		names := make(map[string]bool)
		for _, n := range component {
			p := x.points[n.ID()]
			net.Points = append(net.Points, p)
			for _, name := range flagNames[p] {
				names[name] = true
			}
			byID[n.ID()] = net
		}
		for name := range names {
			net.Names = append(net.Names, name)
		}
		sort.Strings(net.Names)
		sortPoints(net.Points)
	}

	seen := make(map[*Net]bool)
	for _, pr := range pinOrder {
		net := byID[x.ids[pr.At]]
		net.Pins = append(net.Pins, pr)
		if !seen[net] {
			seen[net] = true
			result.Nets = append(result.Nets, net)
		}
	}
	// Flag-only nets follow the pin-bearing ones.
	var rest []*Net
	for _, net := range byID {
		if !seen[net] && len(net.Names) > 0 {
			seen[net] = true
			rest = append(rest, net)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		return lessPoint(rest[i].Points[0], rest[j].Points[0])
	})
	result.Nets = append(result.Nets, rest...)

	return result
}

type extractor struct {
	graph  *simple.UndirectedGraph
	ids    map[geom.Point]int64
	points []geom.Point // indexed by node ID
}

func (x *extractor) node(p geom.Point) int64 {
	if id, ok := x.ids[p]; ok {
		return id
	}
	id := int64(len(x.points))
	x.ids[p] = id
	x.points = append(x.points, p)
	x.graph.AddNode(simple.Node(id))
	return id
}

func (x *extractor) join(a, b geom.Point) {
	ia, ib := x.node(a), x.node(b)
	if ia == ib {
		return
	}
	x.graph.SetEdge(simple.Edge{F: simple.Node(ia), T: simple.Node(ib)})
}

// onWire reports whether p lies strictly inside w.
func onWire(w Wire, p geom.Point) bool {
	if p == w.Start() || p == w.End() {
		return false
	}
	switch {
	case w.Y1 == w.Y2 && p.Y == w.Y1:
		lo, hi := w.X1, w.X2
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo < p.X && p.X < hi
	case w.X1 == w.X2 && p.X == w.X1:
		lo, hi := w.Y1, w.Y2
		if lo > hi {
			lo, hi = hi, lo
		}
		return lo < p.Y && p.Y < hi
	}
	return false
}

func lessPoint(a, b geom.Point) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func sortPoints(ps []geom.Point) {
	sort.Slice(ps, func(i, j int) bool { return lessPoint(ps[i], ps[j]) })
}
