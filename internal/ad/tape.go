package ad

// node is one recorded operation. Parents are tape indices (-1 when absent)
// paired with the operation's local partial derivatives. Leaves and
// constants are nodes with no parents.
type node struct {
	val float64
	adj float64
	p1  int32
	p2  int32
	d1  float64
	d2  float64
}

// Tape is an append-only arena of AD nodes.
//
// Invariants:
//   - every operation node's parents were appended earlier
//   - back-propagation is valid only while the tape is live
//   - Truncate reclaims all nodes appended after a mark, invalidating any
//     surviving Num handles past it
//
// A Tape must only be used from the goroutine that created it.
type Tape struct {
	nodes []node
	err   error
}

// NewTape creates an empty tape.
func NewTape() *Tape {
	return &Tape{
		nodes: make([]node, 0, 256),
	}
}

// Len returns the number of recorded nodes. Use it as a mark for Truncate.
func (t *Tape) Len() int {
	return len(t.nodes)
}

// Truncate discards all nodes at or after mark. Handles referencing
// discarded nodes are invalid afterwards.
func (t *Tape) Truncate(mark int) {
	t.nodes = t.nodes[:mark]
}

// Reset discards all nodes and clears any recorded domain error.
func (t *Tape) Reset() {
	t.nodes = t.nodes[:0]
	t.err = nil
}

// Err reports the first domain error recorded since the last Reset.
func (t *Tape) Err() error {
	return t.err
}

// setErr records the first domain error hit during evaluation.
func (t *Tape) setErr(op string, arg float64) {
	if t.err == nil {
		t.err = &DomainError{Op: op, Arg: arg}
	}
}

// Leaf appends an independent variable and returns its handle. Leaves are
// the nodes whose adjoints Gradient reports.
func (t *Tape) Leaf(v float64) Num {
	return t.push0(v)
}

// Const appends a constant node. Constants participate in the forward
// value but receive no meaningful adjoint.
func (t *Tape) Const(v float64) Num {
	return t.push0(v)
}

func (t *Tape) push0(val float64) Num {
	t.nodes = append(t.nodes, node{val: val, p1: -1, p2: -1})
	return Num{tape: t, idx: int32(len(t.nodes) - 1)}
}

func (t *Tape) push1(val float64, p Num, d float64) Num {
	t.nodes = append(t.nodes, node{val: val, p1: p.idx, p2: -1, d1: d})
	return Num{tape: t, idx: int32(len(t.nodes) - 1)}
}

func (t *Tape) push2(val float64, a, b Num, da, db float64) Num {
	t.nodes = append(t.nodes, node{val: val, p1: a.idx, p2: b.idx, d1: da, d2: db})
	return Num{tape: t, idx: int32(len(t.nodes) - 1)}
}
