package circuit

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

type componentJSON struct {
	Ref         string   `json:"ref"`
	Type        string   `json:"type"`
	Symbol      string   `json:"symbol"`
	Value       string   `json:"value,omitempty"`
	Row         int      `json:"row"`
	Col         int      `json:"col"`
	Orientation string   `json:"orientation"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Pins        []string `json:"pins"`
}

type nodeJSON struct {
	Ref string `json:"ref"`
	Pin string `json:"pin"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
}

type netJSON struct {
	Name  string     `json:"name"`
	Label string     `json:"label,omitempty"`
	Nodes []nodeJSON `json:"nodes"`
}

// ExportJSON exports components and multi-pin or labelled nets as JSON.
func (c *Circuit) ExportJSON() ([]byte, error) {
	comps := make([]componentJSON, 0, len(c.components))
	for _, comp := range c.components {
		comps = append(comps, componentJSON{
			Ref:         comp.ref,
			Type:        comp.Type(),
			Symbol:      comp.Symbol(),
			Value:       comp.value,
			Row:         comp.row,
			Col:         comp.col,
			Orientation: comp.orient.Code(),
			X:           comp.origin.X,
			Y:           comp.origin.Y,
			Pins:        comp.def.PinNames(),
		})
	}

	nets := make([]netJSON, 0)
	for _, net := range c.exportNets() {
		nj := netJSON{Name: net.Name, Label: net.Label}
		for _, p := range net.Pins {
			nj.Nodes = append(nj.Nodes, nodeJSON{Ref: p.comp.ref, Pin: p.name, X: p.at.X, Y: p.at.Y})
		}
		nets = append(nets, nj)
	}

	output := struct {
		Version     string          `json:"version"`
		GridSize    int             `json:"grid_size"`
		GridUnit    int             `json:"grid_unit"`
		Components  []componentJSON `json:"components"`
		NetCount    int             `json:"net_count"`
		Nets        []netJSON       `json:"nets"`
		WireCount   int             `json:"wire_count"`
		GeneratedBy string          `json:"generated_by"`
	}{
		Version:     "1.0",
		GridSize:    c.cfg.GridSize,
		GridUnit:    c.cfg.GridUnit,
		Components:  comps,
		NetCount:    len(nets),
		Nets:        nets,
		WireCount:   len(c.wires),
		GeneratedBy: "ascgen",
	}

	return json.MarshalIndent(output, "", "  ")
}

// ExportKiCad exports the connectivity in KiCad netlist format. Grounds and
// nodes are not components there; they only contribute net names.
func (c *Circuit) ExportKiCad() string {
	var sb strings.Builder
	sb.WriteString("(export (version D)\n")
	sb.WriteString("  (design\n")
	sb.WriteString("    (source \"ascgen\")\n")
	sb.WriteString("  )\n")

	sb.WriteString("  (components\n")
	for _, comp := range c.components {
		if !isPart(comp) {
			continue
		}
		fmt.Fprintf(&sb, "    (comp (ref %s)", comp.ref)
		if comp.value != "" {
			fmt.Fprintf(&sb, " (value %q)", comp.value)
		}
		fmt.Fprintf(&sb, " (libsource (part %s)))\n", comp.Symbol())
	}
	sb.WriteString("  )\n")

	sb.WriteString("  (nets\n")
	for i, net := range c.exportNets() {
		fmt.Fprintf(&sb, "    (net (code %d) (name %q)\n", i+1, net.Name)
		for _, p := range net.Pins {
			if !isPart(p.comp) {
				continue
			}
			fmt.Fprintf(&sb, "      (node (ref %s) (pin %s))\n", p.comp.ref, p.name)
		}
		sb.WriteString("    )\n")
	}
	sb.WriteString("  )\n")
	sb.WriteString(")\n")

	return sb.String()
}

// exportNets keeps nets with more than one pin or with a label.
func (c *Circuit) exportNets() []*Net {
	var out []*Net
	for _, net := range c.Nets() {
		if len(net.Pins) < 2 && net.Label == "" {
			continue
		}
		out = append(out, net)
	}
	return out
}

func isPart(comp *Component) bool {
	k := comp.Kind()
	return k != registry.KindGround && k != registry.KindNode
}
