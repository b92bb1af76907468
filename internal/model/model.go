// Package model adapts user-supplied log-density callbacks into the
// uniform interface the samplers consume.
//
// An Adapter owns one ad.Tape and drains it after every gradient
// evaluation, so a single adapter is a complete "tape session": leaves are
// pushed, the callback builds the expression, the reverse sweep runs, and
// the arena is reclaimed before GradLogProb returns.
package model

import (
	"errors"
	"math"

	"github.com/drift-ml/drift/internal/ad"
)

// Common errors.
var (
	ErrNoLogProb   = errors.New("model: log-probability function not set")
	ErrNoADLogProb = errors.New("model: AD log-probability function required for gradients")
	ErrDimension   = errors.New("model: parameter vector length mismatch")
)

// LogProbFunc evaluates a log density at x.
type LogProbFunc func(x []float64) float64

// ADLogProbFunc evaluates a log density over AD scalars, building the
// expression on the tape that owns the inputs.
type ADLogProbFunc func(x []ad.Num) ad.Num

// Model is the sampler-facing interface: a log density over a real
// parameter vector whose dimension may be resized between draws.
type Model interface {
	// NumParams returns the current dimension n.
	NumParams() int

	// SetNumParams resizes the parameter space. Cached sampler state
	// derived from the old dimension is stale afterwards.
	SetNumParams(n int)

	// LogProb evaluates the log density at x.
	LogProb(x []float64) float64

	// GradLogProb evaluates the log density and its gradient at x,
	// writing the gradient into grad (length n). On a numerical domain
	// error it returns a non-nil error and leaves grad untouched.
	GradLogProb(x, grad []float64) (float64, error)
}

// Adapter wraps a plain and/or AD log-density callback. The AD callback
// is required by gradient-based samplers; the plain one, when present, is
// preferred for gradient-free evaluation.
type Adapter struct {
	n      int
	fn     LogProbFunc
	adFn   ADLogProbFunc
	tape   *ad.Tape
	leaves []ad.Num
}

// NewAdapter creates an adapter for an n-dimensional parameter space.
func NewAdapter(n int) *Adapter {
	return &Adapter{
		n:    n,
		tape: ad.NewTape(),
	}
}

// SetLogProb installs the callbacks. Either may be nil, but at least one
// must be non-nil before the adapter is used.
func (a *Adapter) SetLogProb(fn LogProbFunc, adFn ADLogProbFunc) {
	a.fn = fn
	a.adFn = adFn
}

// NumParams returns the current dimension.
func (a *Adapter) NumParams() int {
	return a.n
}

// SetNumParams resizes the parameter space.
func (a *Adapter) SetNumParams(n int) {
	a.n = n
}

// LogProb evaluates the log density at x without gradients.
func (a *Adapter) LogProb(x []float64) float64 {
	if a.fn != nil {
		return a.fn(x)
	}
	if a.adFn == nil {
		panic(ErrNoLogProb)
	}
	defer a.tape.Reset()
	root := a.adFn(a.pushLeaves(x))
	if a.tape.Err() != nil {
		return math.Inf(-1)
	}
	return root.Value()
}

// LogProbAD invokes the AD callback directly on caller-supplied leaves.
func (a *Adapter) LogProbAD(x []ad.Num) ad.Num {
	if a.adFn == nil {
		panic(ErrNoADLogProb)
	}
	return a.adFn(x)
}

// GradLogProb evaluates log density and gradient at x. The tape is
// drained before returning, so no handles survive the call.
func (a *Adapter) GradLogProb(x, grad []float64) (float64, error) {
	if a.adFn == nil {
		panic(ErrNoADLogProb)
	}
	if len(x) != a.n || len(grad) != a.n {
		return 0, ErrDimension
	}
	defer a.tape.Reset()

	root := a.adFn(a.pushLeaves(x))
	if err := a.tape.Err(); err != nil {
		return 0, err
	}
	lp := root.Value()
	ad.GradientInto(root, a.leaves, grad)
	return lp, nil
}

// pushLeaves appends one leaf per coordinate, reusing the scratch slice.
func (a *Adapter) pushLeaves(x []float64) []ad.Num {
	if cap(a.leaves) < len(x) {
		a.leaves = make([]ad.Num, len(x))
	}
	a.leaves = a.leaves[:len(x)]
	for i, v := range x {
		a.leaves[i] = a.tape.Leaf(v)
	}
	return a.leaves
}
