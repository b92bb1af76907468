package sampler

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/drift-ml/drift/internal/model"
)

// NUTSConfig configures the No-U-Turn sampler.
type NUTSConfig struct {
	// MaxDepth caps the tree doubling, bounding each draw at 2^MaxDepth
	// leapfrog steps. Default: 10.
	MaxDepth int

	// Epsilon is the initial step size; non-positive means heuristic.
	Epsilon float64

	// EpsilonPM is the ± step-size jitter range once adaptation is off.
	EpsilonPM float64

	// Delta is the dual-averaging target. Default: 0.6.
	Delta float64

	// Gamma is the dual-averaging regularization scale. Default: 0.05.
	Gamma float64

	// Seed seeds the random source; non-positive uses the clock.
	Seed int64
}

// maxChange is the early-stop bound on H − u: a leaf whose joint
// log density falls this far below the slice is a divergence and stops
// tree growth.
const maxChange = -1000

// NUTS is the No-U-Turn sampler: HMC whose trajectory length is chosen
// per draw by doubling the trajectory until it turns back on itself,
// with slice sampling over the visited states.
type NUTS struct {
	chain
	adapter  *model.Adapter
	maxDepth int

	lastDepth int
	meanDepth float64
}

// NewNUTS creates a NUTS sampler. Call SetLogProb and SetVariableValues
// before the first draw.
func NewNUTS(cfg NUTSConfig) *NUTS {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = 10
	}
	if cfg.Delta == 0 {
		cfg.Delta = 0.6
	}
	// Seed the shrinkage point at 10·ε: NUTS is cheaper at larger step
	// sizes, so adaptation starts optimistic.
	s := &NUTS{
		chain:     newChain(cfg.Seed, cfg.Epsilon, cfg.EpsilonPM, cfg.Delta, cfg.Gamma, 10.0),
		adapter:   model.NewAdapter(0),
		maxDepth:  cfg.MaxDepth,
		lastDepth: -1,
	}
	s.chain.model = s.adapter
	return s
}

// SetLogProb installs the log-density callbacks. NUTS requires the AD
// variant.
func (s *NUTS) SetLogProb(fn model.LogProbFunc, adFn model.ADLogProbFunc) {
	s.adapter.SetLogProb(fn, adFn)
}

// SetVariableValues sets the parameter vector and resets inverse masses.
func (s *NUTS) SetVariableValues(vals []float64) {
	s.setVariableValues(vals)
}

// SetInvMasses replaces the diagonal inverse-mass vector.
func (s *NUTS) SetInvMasses(invMasses []float64) {
	s.setInvMasses(invMasses)
}

// SetAdaptation toggles step-size adaptation.
func (s *NUTS) SetAdaptation(on bool) {
	s.setAdaptation(on)
}

// RecomputeLogProb refreshes the cached (logp, gradient) pair.
func (s *NUTS) RecomputeLogProb() {
	s.recomputeLogProb()
}

// LastDepth returns the tree depth of the most recent draw, -1 before
// any draw.
func (s *NUTS) LastDepth() int {
	return s.lastDepth
}

// MeanTreeDepth returns the running mean tree depth across draws.
func (s *NUTS) MeanTreeDepth() float64 {
	return s.meanDepth
}

// computeCriterion is the no-U-turn test: the trajectory from xMinus to
// xPlus keeps expanding while the momenta at both ends point along the
// end-to-end displacement. Reversing the trajectory (swapping endpoints
// and negating momenta) leaves the verdict unchanged.
func computeCriterion(xPlus, xMinus, mPlus, mMinus []float64) bool {
	dir := make([]float64, len(xPlus))
	floats.SubTo(dir, xPlus, xMinus)
	return floats.Dot(dir, mMinus) > 0 && floats.Dot(dir, mPlus) > 0
}

// tree carries one buildTree result: the outermost states on both sides
// of the subtree, the candidate draw selected from it, and the
// slice/acceptance bookkeeping.
type tree struct {
	xMinus, mMinus, gMinus []float64
	xPlus, mPlus, gPlus    []float64

	xNew, gNew []float64
	logpNew    float64

	nValid      int
	criterion   bool
	probSum     float64
	nConsidered int
}

// Next runs one draw.
func (s *NUTS) Next() Sample {
	s.ensureReady()
	s.nSteps++

	n := len(s.x)

	mMinus := make([]float64, n)
	s.sampleMomentum(mMinus)
	mPlus := clone(mMinus)

	// Joint log density of position and momentum.
	h0 := s.logp - kineticUnit(mMinus)

	gMinus := clone(s.g)
	gPlus := clone(s.g)
	xMinus := clone(s.x)
	xPlus := clone(s.x)

	// Slice variable: accepted leaves satisfy H > u.
	u := math.Log(s.uniform()) + h0

	nValid := 1
	criterion := true
	depth := 0

	// Acceptance statistics reported by the most recent doubling.
	probSum := -1.0
	nConsidered := 0

	s.epsilonLast = s.jitteredEpsilon()

	for criterion && (s.maxDepth < 0 || depth < s.maxDepth) {
		direction := -1
		if s.uniform() > 0.5 {
			direction = 1
		}

		var sub tree
		if direction == -1 {
			sub = s.buildTree(xMinus, mMinus, gMinus, u, direction, depth, h0)
			xMinus, mMinus, gMinus = sub.xMinus, sub.mMinus, sub.gMinus
		} else {
			sub = s.buildTree(xPlus, mPlus, gPlus, u, direction, depth, h0)
			xPlus, mPlus, gPlus = sub.xPlus, sub.mPlus, sub.gPlus
		}
		probSum = sub.probSum
		nConsidered = sub.nConsidered

		// The last doubling is unusable if it stopped early.
		if !sub.criterion {
			break
		}
		criterion = computeCriterion(xPlus, xMinus, mPlus, mMinus)

		// Metropolis-Hastings move into the new half-tree.
		if s.uniform() < float64(sub.nValid)/(1e-100+float64(nValid)) {
			copy(s.x, sub.xNew)
			copy(s.g, sub.gNew)
			s.logp = sub.logpNew
		}
		nValid += sub.nValid
		depth++
	}
	s.lastDepth = depth
	s.meanDepth += (float64(depth) - s.meanDepth) / float64(s.nSteps)

	s.adaptUpdate(probSum / float64(nConsidered))

	return Sample{X: clone(s.x), LogProb: s.logp}
}

// NextSample runs one draw against vals, writing the new position in
// place and reporting whether any component changed.
func (s *NUTS) NextSample(vals []float64) bool {
	smp := s.Next()
	return writeBack(vals, smp.X)
}

// buildTree extends the trajectory by 2^depth leapfrog steps in the
// given direction from (x, m, g), returning the outermost states, a
// candidate drawn uniformly from the slice-valid leaves, and the
// acceptance statistics for adaptation.
func (s *NUTS) buildTree(x, m, g []float64, u float64, direction, depth int, h0 float64) tree {
	if depth == 0 {
		// Base case: a single leapfrog step of size direction·ε.
		x2 := clone(x)
		m2 := clone(m)
		g2 := clone(g)
		logp := leapfrog(s.model, s.invMass, x2, m2, g2, float64(direction)*s.epsilonLast)

		h := logp - kineticUnit(m2)
		if math.IsNaN(h) {
			h = math.Inf(-1)
		}
		nValid := 0
		if h > u {
			nValid = 1
		}
		return tree{
			xMinus: x2, mMinus: m2, gMinus: g2,
			xPlus: x2, mPlus: m2, gPlus: g2,
			xNew: x2, gNew: g2, logpNew: logp,
			nValid:      nValid,
			criterion:   h-u > maxChange,
			probSum:     math.Min(1, math.Exp(h-h0)),
			nConsidered: 1,
		}
	}

	t := s.buildTree(x, m, g, u, direction, depth-1, h0)
	if t.criterion {
		var t2 tree
		if direction == -1 {
			t2 = s.buildTree(t.xMinus, t.mMinus, t.gMinus, u, direction, depth-1, h0)
			t.xMinus, t.mMinus, t.gMinus = t2.xMinus, t2.mMinus, t2.gMinus
		} else {
			t2 = s.buildTree(t.xPlus, t.mPlus, t.gPlus, u, direction, depth-1, h0)
			t.xPlus, t.mPlus, t.gPlus = t2.xPlus, t2.mPlus, t2.gPlus
		}
		if s.uniform() < float64(t2.nValid)/float64(t.nValid+t2.nValid) {
			t.xNew = t2.xNew
			t.gNew = t2.gNew
			t.logpNew = t2.logpNew
		}
		t.nConsidered += t2.nConsidered
		t.probSum += t2.probSum
		t.criterion = t.criterion && t2.criterion
		t.nValid += t2.nValid
	}
	t.criterion = t.criterion && computeCriterion(t.xPlus, t.xMinus, t.mPlus, t.mMinus)
	return t
}
