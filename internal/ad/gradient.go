package ad

// Gradient computes the derivative of root with respect to each of the
// given independent leaves and returns them in order.
//
// The sweep zeroes every adjoint, seeds root's adjoint with 1, then walks
// the tape from root's node down to the start accumulating
// parent.adj += partial * node.adj. Reverse insertion order on an
// append-only tape is a reverse topological order, so one pass suffices.
//
// The tape is left intact; callers that want to reclaim memory can record
// Tape.Len before building the expression and Truncate afterwards.
func Gradient(root Num, indeps []Num) []float64 {
	out := make([]float64, len(indeps))
	GradientInto(root, indeps, out)
	return out
}

// GradientInto is Gradient writing the adjoints into out, which must have
// length len(indeps).
func GradientInto(root Num, indeps []Num, out []float64) {
	nodes := root.tape.nodes
	for i := range nodes {
		nodes[i].adj = 0
	}
	nodes[root.idx].adj = 1

	for i := int(root.idx); i >= 0; i-- {
		n := &nodes[i]
		if n.adj == 0 {
			continue
		}
		if n.p1 >= 0 {
			nodes[n.p1].adj += n.d1 * n.adj
		}
		if n.p2 >= 0 {
			nodes[n.p2].adj += n.d2 * n.adj
		}
	}

	for i, ind := range indeps {
		out[i] = nodes[ind.idx].adj
	}
}
