package registry

import "github.com/OpenTraceLab/ascgen/pkg/geom"

// Built-in type names.
const (
	Resistor      = "res"
	Capacitor     = "cap"
	Inductor      = "ind"
	VoltageSource = "voltage"
	CurrentSource = "current"
	OpAmp         = "opamp"
	Ground        = "gnd"
	Node          = "node"
)

// Offsets are the LTspice R0 pin positions of the stock symbols, relative to
// the symbol origin.
var builtins = []TypeDef{
	{
		Name: Resistor, Symbol: "res", Prefix: "R", Kind: KindTwoTerminal,
		Pins: []PinDef{
			{Name: "p1", Offset: geom.Pt(16, 16)},
			{Name: "p2", Offset: geom.Pt(16, 96)},
		},
	},
	{
		Name: Capacitor, Symbol: "cap", Prefix: "C", Kind: KindTwoTerminal,
		Pins: []PinDef{
			{Name: "p1", Offset: geom.Pt(16, 0)},
			{Name: "p2", Offset: geom.Pt(16, 64)},
		},
	},
	{
		Name: Inductor, Symbol: "ind", Prefix: "L", Kind: KindTwoTerminal,
		Pins: []PinDef{
			{Name: "p1", Offset: geom.Pt(16, 16)},
			{Name: "p2", Offset: geom.Pt(16, 96)},
		},
	},
	{
		Name: VoltageSource, Symbol: "voltage", Prefix: "V", Kind: KindSource,
		Pins: []PinDef{
			{Name: "positive", Offset: geom.Pt(0, 16)},
			{Name: "negative", Offset: geom.Pt(0, 96)},
		},
	},
	{
		Name: CurrentSource, Symbol: "current", Prefix: "I", Kind: KindSource,
		Pins: []PinDef{
			{Name: "positive", Offset: geom.Pt(0, 0)},
			{Name: "negative", Offset: geom.Pt(0, 80)},
		},
	},
	{
		Name: OpAmp, Symbol: "opamp2", Prefix: "U", Kind: KindOpAmp,
		Pins: []PinDef{
			{Name: "noninv", Offset: geom.Pt(-32, 48)},
			{Name: "inv", Offset: geom.Pt(-32, 80)},
			{Name: "out", Offset: geom.Pt(32, 64)},
			{Name: "vpos", Offset: geom.Pt(0, 32), Supply: true},
			{Name: "vneg", Offset: geom.Pt(0, 96), Supply: true},
		},
	},
	{
		Name: Ground, Symbol: "0", Prefix: "GND", Kind: KindGround,
		Pins: []PinDef{{Name: "pin"}},
	},
	{
		Name: Node, Symbol: "node", Prefix: "NODE", Kind: KindNode,
		Pins: []PinDef{{Name: "pin"}},
	},
}

// Default returns an Overwrite registry pre-loaded with the stock LTspice
// parts: res, cap, ind, voltage, current, opamp, gnd and node.
func Default() *Registry {
	return DefaultWithPolicy(Overwrite)
}

// DefaultWithPolicy is Default with an explicit registration policy.
func DefaultWithPolicy(policy Policy) *Registry {
	r := New(policy)
	for _, def := range builtins {
		// Built-in definitions are well formed and unique.
		r.types[def.Name] = def.clone()
	}
	return r
}
