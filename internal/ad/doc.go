// Package ad implements reverse-mode automatic differentiation over scalars.
//
// The engine is built around an append-only tape of operation nodes:
//   - Tape: arena that records one node per arithmetic operation
//   - Num: lightweight handle referencing a tape node
//   - Gradient: linear reverse sweep that accumulates adjoints
//
// Every operation computes its primal value eagerly and appends a node
// carrying its parent indices and local partial derivatives. Because the
// tape is append-only, reverse insertion order is a valid reverse
// topological order, so the backward pass is a single scan with no
// dependency tracking.
//
// Usage:
//
//	tape := ad.NewTape()
//	x := tape.Leaf(2.0)
//	y := x.Mul(x).Exp() // y = exp(x²)
//	grad := ad.Gradient(y, []ad.Num{x})
//	fmt.Println(grad[0]) // dy/dx = 2x·exp(x²)
//
// A Tape is not safe for concurrent use. Handles become invalid once the
// tape is truncated past them.
package ad
