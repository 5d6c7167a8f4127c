// Package circuit builds LTspice schematics from a logical grid layout.
//
// A Circuit owns every placed component, the pin connectivity and the wire
// list. Components are immutable once placed: their pin coordinates are
// computed from grid position, rotation and mirror at Place time and never
// change.
//
// # Building a circuit
//
//	c, _ := circuit.New(registry.Default(), circuit.DefaultConfig())
//	v1, _ := c.Place(registry.VoltageSource, 2, 1, circuit.PlaceOptions{Value: "5"})
//	r1, _ := c.Place(registry.Resistor, 2, 4, circuit.PlaceOptions{Value: "1k"})
//	gnd, _ := c.Place(registry.Ground, 5, 2, circuit.PlaceOptions{})
//	c.Connect(v1.MustPin("positive"), r1.MustPin("p1"))
//	c.Connect(v1.MustPin("negative"), gnd)
//	c.Connect(r1.MustPin("p2"), gnd)
//	err := c.Save("divider.asc", circuit.SaveOptions{})
//
// # Pin geometry
//
// The absolute position of a pin is
//
//	origin + rotate(mirror(offset))
//
// where origin is (col, row) scaled by the grid unit and offset comes from
// the component registry. Mirroring negates X and is applied before rotation.
//
// # Connectivity
//
// Connect joins two pins and records an orthogonal wire between them. Label
// names a net; pins carrying the same label are in the same net even without
// a wire. The label conflict policy is part of Config.
//
// # Validation
//
// Validate runs a fixed battery of checks and returns issues ordered by check.
// Save refuses to write a file while any ERROR issue remains unless
// SaveOptions.SkipValidation is set.
//
// A Circuit is not safe for concurrent use.
package circuit
