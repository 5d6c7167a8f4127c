// Package netlist tracks electrical connectivity between component pins.
//
// Pins are keyed by PinID (component instance, pin name) and grouped into
// nets with a union-find structure using path compression and union by
// size, so Find is amortized near-constant time.
//
// # Labels
//
// A net may carry one label. Labelling a pin with a name that another net
// already carries merges the two nets immediately, so two pins labelled
// "VOUT" share a net regardless of the order of the calls:
//
//	nl := netlist.New(netlist.LabelReject)
//	nl.Add(a)
//	nl.Add(b)
//	nl.Label(a, "VOUT")
//	nl.Label(b, "VOUT") // a and b are now connected
//
// # Label conflicts
//
// When an operation would leave a net with two different labels, the
// LabelPolicy decides:
//   - LabelReject: the call fails with ErrLabelConflict and nothing changes
//   - LabelOverwrite: the most recently applied label survives
//
// The policy covers both Label and a Connect that merges two labelled nets.
//
// # Concurrency
//
// A Netlist is owned by a single circuit and is not safe for concurrent use.
// Even read methods compress paths.
package netlist
