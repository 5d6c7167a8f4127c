package netlist

import (
	"errors"
	"fmt"
)

// ErrLabelConflict is returned under LabelReject when an operation would give
// a net a second, different label.
var ErrLabelConflict = errors.New("netlist: label conflict")

// ErrUnknownPin is returned for pins that were never added.
var ErrUnknownPin = errors.New("netlist: unknown pin")

// PinID identifies a pin by the owning component instance and pin name.
type PinID struct {
	Instance int
	Pin      string
}

func (p PinID) String() string {
	return fmt.Sprintf("%d:%s", p.Instance, p.Pin)
}

// NetID is the representative pin of a net. It is only stable until the next
// Connect or Label call; compare NetIDs obtained from the same state.
type NetID PinID

// LabelPolicy decides how a second, different label on the same net is handled.
type LabelPolicy int

const (
	// LabelReject refuses the call with ErrLabelConflict and changes nothing.
	LabelReject LabelPolicy = iota
	// LabelOverwrite keeps the most recently applied label.
	LabelOverwrite
)

func (p LabelPolicy) String() string {
	if p == LabelOverwrite {
		return "overwrite"
	}
	return "reject"
}

// ParseLabelPolicy accepts "reject" or "overwrite".
func ParseLabelPolicy(s string) (LabelPolicy, error) {
	switch s {
	case "", "reject":
		return LabelReject, nil
	case "overwrite":
		return LabelOverwrite, nil
	}
	return LabelReject, fmt.Errorf("netlist: unknown label policy %q", s)
}

// netLabel is the label carried by a net root, with the sequence number of
// the call that applied it.
type netLabel struct {
	name string
	seq  uint64
}

// Netlist is a disjoint-set structure over pins with optional net labels.
type Netlist struct {
	// Union-find data structures
	parent map[PinID]PinID
	size   map[PinID]int

	labels  map[PinID]netLabel // root -> label
	byLabel map[string]PinID   // label -> some pin of the labelled net
	seq     uint64

	order  []PinID // registration order
	policy LabelPolicy
}

// New creates an empty netlist.
func New(policy LabelPolicy) *Netlist {
	return &Netlist{
		parent:  make(map[PinID]PinID),
		size:    make(map[PinID]int),
		labels:  make(map[PinID]netLabel),
		byLabel: make(map[string]PinID),
		policy:  policy,
	}
}

// Add registers a pin as its own singleton net. Adding a pin twice is a no-op.
func (nl *Netlist) Add(p PinID) {
	if _, ok := nl.parent[p]; ok {
		return
	}
	nl.parent[p] = p
	nl.size[p] = 1
	nl.order = append(nl.order, p)
}

// Has reports whether p was added.
func (nl *Netlist) Has(p PinID) bool {
	_, ok := nl.parent[p]
	return ok
}

// Len returns the number of registered pins.
func (nl *Netlist) Len() int {
	return len(nl.order)
}

// Find returns the net containing p.
func (nl *Netlist) Find(p PinID) (NetID, error) {
	if !nl.Has(p) {
		return NetID{}, fmt.Errorf("%w: %s", ErrUnknownPin, p)
	}
	return NetID(nl.root(p)), nil
}

// root finds the representative with path compression.
func (nl *Netlist) root(p PinID) PinID {
	root := p
	for nl.parent[root] != root {
		root = nl.parent[root]
	}

	current := p
	for current != root {
		next := nl.parent[current]
		nl.parent[current] = root
		current = next
	}

	return root
}

// Size returns the number of pins in p's net.
func (nl *Netlist) Size(p PinID) int {
	if !nl.Has(p) {
		return 0
	}
	return nl.size[nl.root(p)]
}

// LabelOf returns the label of p's net, if any.
func (nl *Netlist) LabelOf(p PinID) (string, bool) {
	if !nl.Has(p) {
		return "", false
	}
	l, ok := nl.labels[nl.root(p)]
	return l.name, ok
}

// Connected reports whether a and b are in the same net.
func (nl *Netlist) Connected(a, b PinID) bool {
	if !nl.Has(a) || !nl.Has(b) {
		return false
	}
	return nl.root(a) == nl.root(b)
}

// Connect merges the nets of a and b. Merging two nets that carry different
// labels is subject to the label policy.
func (nl *Netlist) Connect(a, b PinID) error {
	if !nl.Has(a) {
		return fmt.Errorf("%w: %s", ErrUnknownPin, a)
	}
	if !nl.Has(b) {
		return fmt.Errorf("%w: %s", ErrUnknownPin, b)
	}

	rootA, rootB := nl.root(a), nl.root(b)
	if rootA == rootB {
		return nil
	}

	la, okA := nl.labels[rootA]
	lb, okB := nl.labels[rootB]
	if okA && okB && la.name != lb.name && nl.policy == LabelReject {
		return fmt.Errorf("%w: connecting net %q to net %q", ErrLabelConflict, la.name, lb.name)
	}

	nl.union(rootA, rootB)
	return nil
}

// Label names the net containing p. Any other net already carrying name is
// merged into it, so equal labels always end up in one net.
func (nl *Netlist) Label(p PinID, name string) error {
	if !nl.Has(p) {
		return fmt.Errorf("%w: %s", ErrUnknownPin, p)
	}
	if name == "" {
		return fmt.Errorf("netlist: empty label for %s", p)
	}

	r := nl.root(p)
	current, labelled := nl.labels[r]
	if labelled && current.name != name && nl.policy == LabelReject {
		return fmt.Errorf("%w: net already labelled %q, cannot relabel as %q", ErrLabelConflict, current.name, name)
	}

	if other, ok := nl.byLabel[name]; ok {
		if o := nl.root(other); o != r {
			r = nl.union(r, o)
		}
	}

	nl.seq++
	if old, ok := nl.labels[r]; ok && old.name != name {
		delete(nl.byLabel, old.name)
	}
	nl.labels[r] = netLabel{name: name, seq: nl.seq}
	nl.byLabel[name] = r
	return nil
}

// union links two distinct roots by size and resolves their labels. Callers
// have already applied the label policy. It returns the surviving root.
func (nl *Netlist) union(a, b PinID) PinID {
	if nl.size[a] < nl.size[b] {
		a, b = b, a
	}
	nl.parent[b] = a
	nl.size[a] += nl.size[b]
	delete(nl.size, b)

	la, okA := nl.labels[a]
	lb, okB := nl.labels[b]
	delete(nl.labels, b)
	switch {
	case okA && okB && la.name != lb.name:
		// Most recently applied label wins.
		if lb.seq > la.seq {
			la, lb = lb, la
		}
		delete(nl.byLabel, lb.name)
		nl.labels[a] = la
		nl.byLabel[la.name] = a
	case okB:
		nl.labels[a] = lb
		nl.byLabel[lb.name] = a
	case okA:
		nl.byLabel[la.name] = a
	}
	return a
}

// Net is one equivalence class of pins.
type Net struct {
	ID    int     // position in Nets() order
	Label string  // canonical label, empty when unnamed
	Pins  []PinID // members in registration order
}

// Nets returns the full partition, including singleton nets. Nets are
// ordered by their earliest registered pin; pins inside a net keep
// registration order. The result is deterministic for a given call history.
func (nl *Netlist) Nets() []*Net {
	byRoot := make(map[PinID]*Net)
	var nets []*Net
	for _, p := range nl.order {
		r := nl.root(p)
		net, ok := byRoot[r]
		if !ok {
			net = &Net{ID: len(nets), Label: nl.labels[r].name}
			byRoot[r] = net
			nets = append(nets, net)
		}
		net.Pins = append(net.Pins, p)
	}
	return nets
}

// Labels returns the label of every labelled net, keyed by label.
func (nl *Netlist) Labels() map[string]NetID {
	out := make(map[string]NetID, len(nl.byLabel))
	for name, p := range nl.byLabel {
		out[name] = NetID(nl.root(p))
	}
	return out
}
