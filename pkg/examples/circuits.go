package examples

import (
	"fmt"

	"github.com/OpenTraceLab/ascgen/pkg/circuit"
	"github.com/OpenTraceLab/ascgen/pkg/registry"
)

func init() {
	register(Example{
		Name:        "rlc",
		Description: "series RLC resonator driving a load resistor",
		Build:       RLCSeries,
	})
	register(Example{
		Name:        "rlc-bandpass",
		Description: "two coupled parallel LC tanks forming a bandpass filter",
		Build:       RLCBandpass,
	})
	register(Example{
		Name:        "noninverting-amplifier",
		Description: "op-amp non-inverting amplifier, gain 11",
		Build:       NonInvertingAmplifier,
	})
	register(Example{
		Name:        "second-order",
		Description: "RL type D network followed by an RC high-pass",
		Build: func(reg *registry.Registry) (*circuit.Circuit, error) {
			return SecondOrder(reg, DefaultSecondOrderValues())
		},
	})
	register(Example{
		Name:        "dual-opamp-cascade",
		Description: "non-inverting stage (gain 11) into an inverting stage (gain -5)",
		Build:       DualOpAmpCascade,
	})
}

// RLCSeries builds a series R-L-C chain from an AC source into a load.
func RLCSeries(reg *registry.Registry) (*circuit.Circuit, error) {
	s := newSketch(reg, 30)

	vin := s.place(registry.VoltageSource, 2, 0, 0, "AC 1")
	r1 := s.place(registry.Resistor, 2, 3, 90, "10")
	l1 := s.place(registry.Inductor, 2, 6, 90, "1m")
	c1 := s.place(registry.Capacitor, 2, 9, 90, "1u")
	load := s.place(registry.Resistor, 4, 6, 0, "100")
	gnd := s.ground(6, 0)

	s.connect(s.pin(vin, "positive"), s.pin(r1, "p1"))
	s.connect(s.pin(r1, "p2"), s.pin(l1, "p1"))
	s.connect(s.pin(l1, "p2"), s.pin(c1, "p1"))
	s.connect(s.pin(c1, "p2"), s.pin(load, "p1"))
	s.connect(s.pin(load, "p2"), gnd)
	s.connect(s.pin(vin, "negative"), gnd)

	s.label(s.pin(vin, "positive"), "VIN")
	s.label(s.pin(c1, "p2"), "VOUT")

	return s.done()
}

// RLCBandpass builds two parallel LC tanks joined by a coupling capacitor.
func RLCBandpass(reg *registry.Registry) (*circuit.Circuit, error) {
	s := newSketch(reg, 14)

	vin := s.place(registry.VoltageSource, 5, 0, 0, "AC 1")
	gndIn := s.ground(7, 0)
	rSource := s.place(registry.Resistor, 5, 1, 90, "50")

	cap1 := s.place(registry.Capacitor, 3, 3, 0, "100n")
	ind1 := s.place(registry.Inductor, 5, 3, 0, "10m")
	res1 := s.place(registry.Resistor, 7, 3, 0, "1k")
	gnd1 := s.ground(9, 3)

	coupling := s.place(registry.Capacitor, 3, 5, 90, "47n")

	cap2 := s.place(registry.Capacitor, 3, 7, 0, "100n")
	ind2 := s.place(registry.Inductor, 5, 7, 0, "10m")
	res2 := s.place(registry.Resistor, 7, 7, 0, "1k")
	gnd2 := s.ground(9, 7)

	load := s.place(registry.Resistor, 5, 9, 0, "1k")
	gndOut := s.ground(7, 9)

	s.connect(s.pin(vin, "positive"), s.pin(rSource, "p1"))
	s.connect(s.pin(rSource, "p2"), s.pin(cap1, "p1"))
	s.connect(s.pin(vin, "negative"), gndIn)

	s.connect(s.pin(cap1, "p2"), s.pin(ind1, "p1"))
	s.connect(s.pin(ind1, "p2"), s.pin(res1, "p1"))
	s.connect(s.pin(res1, "p2"), gnd1)

	s.connect(s.pin(cap1, "p1"), s.pin(coupling, "p1"))
	s.connect(s.pin(coupling, "p2"), s.pin(cap2, "p1"))

	s.connect(s.pin(cap2, "p2"), s.pin(ind2, "p1"))
	s.connect(s.pin(ind2, "p2"), s.pin(res2, "p1"))
	s.connect(s.pin(res2, "p2"), gnd2)

	s.connect(s.pin(cap2, "p1"), s.pin(load, "p1"))
	s.connect(s.pin(load, "p2"), gndOut)

	s.label(s.pin(vin, "positive"), "VIN")
	s.label(s.pin(cap1, "p1"), "TANK1")
	s.label(s.pin(cap2, "p1"), "VOUT")

	return s.done()
}

// NonInvertingAmplifier builds a gain-of-11 op-amp stage with split supplies
// joined to the op-amp by labels.
func NonInvertingAmplifier(reg *registry.Registry) (*circuit.Circuit, error) {
	s := newSketch(reg, 14)

	vin := s.place(registry.VoltageSource, 5, 0, 0, "AC 1")
	gndIn := s.ground(7, 0)
	u1 := s.place(registry.OpAmp, 5, 5, 0, "")
	r2 := s.place(registry.Resistor, 3, 6, 0, "10k")
	r1 := s.place(registry.Resistor, 7, 4, 0, "1k")
	gndR1 := s.ground(9, 4)

	vpos := s.place(registry.VoltageSource, 2, 2, 0, "DC 15")
	gndPos := s.ground(4, 2)
	vneg := s.place(registry.VoltageSource, 8, 2, 0, "DC -15")
	gndNeg := s.ground(10, 2)

	s.connect(s.pin(vin, "positive"), s.pin(u1, "noninv"))
	s.connect(s.pin(vin, "negative"), gndIn)

	s.connect(s.pin(u1, "out"), s.pin(r2, "p1"))
	s.connect(s.pin(r2, "p2"), s.pin(u1, "inv"))
	s.connect(s.pin(u1, "inv"), s.pin(r1, "p1"))
	s.connect(s.pin(r1, "p2"), gndR1)

	s.label(s.pin(u1, "vpos"), "VCC")
	s.label(s.pin(vpos, "positive"), "VCC")
	s.connect(s.pin(vpos, "negative"), gndPos)

	s.label(s.pin(u1, "vneg"), "VEE")
	s.label(s.pin(vneg, "negative"), "VEE")
	s.connect(s.pin(vneg, "positive"), gndNeg)

	s.label(s.pin(vin, "positive"), "VIN")
	s.label(s.pin(u1, "out"), "VOUT")

	return s.done()
}

// SecondOrderValues are the component values of SecondOrder. Resistances are
// in ohms, L in henry and CHP in farad.
type SecondOrderValues struct {
	R7, L, R8, CHP, RHP float64
}

// DefaultSecondOrderValues returns the reference design values.
func DefaultSecondOrderValues() SecondOrderValues {
	return SecondOrderValues{R7: 47, L: 1e-3, R8: 22, CHP: 4.7e-9, RHP: 10000}
}

// SecondOrder cascades an RL type D network with an RC high-pass. The RL
// stage output impedance is tens of ohms against the 10k high-pass, so the
// stages barely load each other.
func SecondOrder(reg *registry.Registry, v SecondOrderValues) (*circuit.Circuit, error) {
	s := newSketch(reg, 14)

	vin := s.place(registry.VoltageSource, 6, 0, 0, "AC 1")
	gnd := s.ground(8, 0)

	r7 := s.place(registry.Resistor, 6, 2, 90, fmt.Sprintf("%.0f", v.R7))
	l2 := s.place(registry.Inductor, 4, 2, 0, fmt.Sprintf("%.2e", v.L))
	r8 := s.place(registry.Resistor, 8, 2, 0, fmt.Sprintf("%.0f", v.R8))

	chp := s.place(registry.Capacitor, 6, 4, 90, fmt.Sprintf("%.2e", v.CHP))
	rhp := s.place(registry.Resistor, 8, 4, 0, fmt.Sprintf("%.0f", v.RHP))

	s.connect(s.pin(vin, "negative"), gnd)

	s.connect(s.pin(vin, "positive"), s.pin(r7, "p1"))
	s.connect(s.pin(vin, "positive"), s.pin(l2, "p1"))
	s.connect(s.pin(l2, "p2"), s.pin(r7, "p2"))
	s.connect(s.pin(r7, "p2"), s.pin(r8, "p1"))
	s.connect(s.pin(r8, "p2"), gnd)

	s.connect(s.pin(r7, "p2"), s.pin(chp, "p1"))
	s.connect(s.pin(chp, "p2"), s.pin(rhp, "p1"))
	s.connect(s.pin(rhp, "p2"), gnd)

	s.label(s.pin(vin, "positive"), "VIN")
	s.label(s.pin(r7, "p2"), "VMID")
	s.label(s.pin(rhp, "p1"), "VOUT")

	return s.done()
}

// DualOpAmpCascade feeds a non-inverting gain-11 stage into an inverting
// gain -5 stage, -55 overall. Both op-amps share labelled supplies.
func DualOpAmpCascade(reg *registry.Registry) (*circuit.Circuit, error) {
	s := newSketch(reg, 16)

	vin := s.place(registry.VoltageSource, 6, 0, 0, "AC 0.1")
	gndIn := s.ground(8, 0)

	u1 := s.place(registry.OpAmp, 6, 4, 0, "")
	r1Feedback := s.place(registry.Resistor, 4, 5, 0, "10k")
	r1Ground := s.place(registry.Resistor, 8, 4, 0, "1k")
	gndU1 := s.ground(10, 4)

	u2 := s.place(registry.OpAmp, 6, 9, 0, "")
	r2Input := s.place(registry.Resistor, 6, 7, 90, "10k")
	r2Feedback := s.place(registry.Resistor, 4, 9, 0, "50k")

	load := s.place(registry.Resistor, 8, 11, 0, "10k")
	gndOut := s.ground(10, 11)

	vpos := s.place(registry.VoltageSource, 2, 2, 0, "DC 15")
	gndPos := s.ground(4, 2)
	vneg := s.place(registry.VoltageSource, 10, 2, 0, "DC -15")
	gndNeg := s.ground(12, 2)

	// Stage 1.
	s.connect(s.pin(vin, "positive"), s.pin(u1, "noninv"))
	s.connect(s.pin(vin, "negative"), gndIn)
	s.connect(s.pin(u1, "out"), s.pin(r1Feedback, "p1"))
	s.connect(s.pin(r1Feedback, "p2"), s.pin(u1, "inv"))
	s.connect(s.pin(u1, "inv"), s.pin(r1Ground, "p1"))
	s.connect(s.pin(r1Ground, "p2"), gndU1)

	// Stage 2.
	s.connect(s.pin(u1, "out"), s.pin(r2Input, "p1"))
	s.connect(s.pin(r2Input, "p2"), s.pin(u2, "inv"))
	s.connect(s.pin(u2, "out"), s.pin(r2Feedback, "p1"))
	s.connect(s.pin(r2Feedback, "p2"), s.pin(u2, "inv"))
	s.label(s.pin(u2, "noninv"), "0")

	s.connect(s.pin(u2, "out"), s.pin(load, "p1"))
	s.connect(s.pin(load, "p2"), gndOut)

	// Supplies.
	s.label(s.pin(u1, "vpos"), "VCC")
	s.label(s.pin(u2, "vpos"), "VCC")
	s.label(s.pin(vpos, "positive"), "VCC")
	s.connect(s.pin(vpos, "negative"), gndPos)

	s.label(s.pin(u1, "vneg"), "VEE")
	s.label(s.pin(u2, "vneg"), "VEE")
	s.label(s.pin(vneg, "negative"), "VEE")
	s.connect(s.pin(vneg, "positive"), gndNeg)

	s.label(s.pin(vin, "positive"), "VIN")
	s.label(s.pin(u1, "out"), "STAGE1_OUT")
	s.label(s.pin(u2, "out"), "VOUT")

	return s.done()
}
