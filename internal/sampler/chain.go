package sampler

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/drift-ml/drift/internal/adapt"
	"github.com/drift-ml/drift/internal/model"
)

// Common errors.
var (
	ErrNotReady  = errors.New("sampler: log-prob function and variable values must be set before sampling")
	ErrDimension = errors.New("sampler: vector length mismatch")
)

// Sample is one draw: the parameter vector and the scalar the sampler
// reports with it (the log probability, or for T3 the kinetic-energy
// difference).
type Sample struct {
	X       []float64
	LogProb float64
}

// Sampler is the uniform surface of the single-density samplers (LMC,
// HMC, NUTS). T3 has its own entry point because each draw carries the
// trans-dimensional index sets.
type Sampler interface {
	// SetLogProb installs the plain and/or AD log-density callbacks.
	// Gradient-based sampling requires the AD variant.
	SetLogProb(fn model.LogProbFunc, adFn model.ADLogProbFunc)

	// SetVariableValues sets the current parameter vector, resizing the
	// model and resetting every inverse mass to 1. Must be called before
	// the first draw.
	SetVariableValues(vals []float64)

	// SetInvMasses replaces the diagonal inverse-mass vector.
	SetInvMasses(invMasses []float64)

	// SetAdaptation toggles dual-averaging step-size adaptation.
	SetAdaptation(on bool)

	// RecomputeLogProb refreshes the cached (logp, gradient) pair after
	// the caller mutated the parameter vector.
	RecomputeLogProb()

	// Next runs one draw and returns it.
	Next() Sample

	// NextSample runs one draw against vals, overwrites vals with the
	// new position, and reports whether any component changed. The
	// flag is a diagnostic signal: a legitimate accept that moves
	// nowhere is counted as a rejection.
	NextSample(vals []float64) bool

	// Epsilon returns the current leapfrog step size.
	Epsilon() float64

	// EpsilonBar returns the dual-averaging smoothed step size.
	EpsilonBar() float64
}

// chain is the state shared by every sampler in this package. It is
// composed by value into each sampler rather than inherited.
type chain struct {
	model model.Model

	x       []float64
	g       []float64
	logp    float64
	invMass []float64

	epsilon     float64
	epsilonPM   float64
	epsilonLast float64

	adapting bool
	da       *adapt.DualAverage
	muFactor float64

	meanStat float64
	nSteps   int

	norm distuv.Normal
	unif distuv.Uniform

	initialized bool
	stale       bool
}

// newChain seeds the RNG and dual-averaging state. A non-positive seed
// derives one from the clock. muFactor shifts the dual-averaging
// shrinkage point: NUTS passes 10, the fixed-trajectory samplers 1.
func newChain(seed int64, epsilon, epsilonPM, delta, gamma, muFactor float64) chain {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	src := rand.NewSource(uint64(seed))
	return chain{
		epsilon:   epsilon,
		epsilonPM: epsilonPM,
		adapting:  true,
		da:        adapt.New(adapt.Config{Delta: delta, Gamma: gamma}),
		muFactor:  muFactor,
		norm:      distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		unif:      distuv.Uniform{Min: 0, Max: 1, Src: src},
	}
}

func (c *chain) setVariableValues(vals []float64) {
	c.model.SetNumParams(len(vals))
	c.x = append(c.x[:0], vals...)
	c.g = make([]float64, len(vals))
	c.resetInvMasses(len(vals))
	c.stale = true
}

func (c *chain) setInvMasses(invMasses []float64) {
	if len(invMasses) != len(c.invMass) {
		panic(ErrDimension)
	}
	copy(c.invMass, invMasses)
}

func (c *chain) resetInvMasses(n int) {
	c.invMass = make([]float64, n)
	for i := range c.invMass {
		c.invMass[i] = 1
	}
}

// recomputeLogProb refreshes the cached (logp, g) pair at the current
// position. A domain error maps to logp = −Inf with g untouched.
func (c *chain) recomputeLogProb() {
	logp, err := c.model.GradLogProb(c.x, c.g)
	if err != nil {
		logp = math.Inf(-1)
	}
	c.logp = logp
	c.stale = false
}

// ensureReady validates the calling discipline, refreshes stale cached
// state, and performs one-time initialization: the step-size heuristic
// when no epsilon was given, and dual-averaging seeding.
func (c *chain) ensureReady() {
	if c.model == nil || c.x == nil {
		panic(ErrNotReady)
	}
	if c.stale {
		c.recomputeLogProb()
	}
	if !c.initialized {
		if c.epsilon <= 0 {
			c.epsilon = c.findReasonableEpsilon()
		}
		c.da.Init(c.epsilon, c.muFactor)
		c.initialized = true
	}
}

// sampleMomentum fills dst with the per-coordinate momentum refresh
// N(0,1)·invMass_i.
func (c *chain) sampleMomentum(dst []float64) {
	for i := range dst {
		dst[i] = c.norm.Rand() * c.invMass[i]
	}
}

func (c *chain) uniform() float64 {
	return c.unif.Rand()
}

// adaptUpdate clamps the acceptance statistic to [0,1] (NaN counts as 0),
// folds it into the running mean, and, while adaptation is on, feeds it
// to dual averaging and installs the resulting step size.
func (c *chain) adaptUpdate(stat float64) {
	if math.IsNaN(stat) {
		stat = 0
	}
	if stat > 1 {
		stat = 1
	}
	if c.adapting {
		c.epsilon = c.da.Update(stat)
	}
	eta := 1 / float64(c.nSteps)
	c.meanStat += eta * (stat - c.meanStat)
}

// jitteredEpsilon applies the post-warmup ±epsilonPM uniform jitter.
func (c *chain) jitteredEpsilon() float64 {
	eps := c.epsilon
	if !c.adapting && c.epsilonPM > 0 {
		low := eps * (1 - c.epsilonPM)
		high := eps * (1 + c.epsilonPM)
		eps = low + (high-low)*c.uniform()
	}
	return eps
}

// findReasonableEpsilon doubles or halves the step size from 1 until the
// one-step acceptance ratio crosses 1/2, following Stan's heuristic.
func (c *chain) findReasonableEpsilon() float64 {
	const maxTries = 50

	m := make([]float64, len(c.x))
	c.sampleMomentum(m)
	h0 := c.logp - 0.5*floats.Dot(m, m)

	x := make([]float64, len(c.x))
	g := make([]float64, len(c.g))
	mm := make([]float64, len(m))

	ratioAt := func(eps float64) float64 {
		copy(x, c.x)
		copy(g, c.g)
		copy(mm, m)
		lp := leapfrog(c.model, c.invMass, x, mm, g, eps)
		r := math.Exp(lp - 0.5*floats.Dot(mm, mm) - h0)
		if math.IsNaN(r) {
			return 0
		}
		return r
	}

	eps := 1.0
	grow := ratioAt(eps) > 0.5
	for i := 0; i < maxTries; i++ {
		if grow {
			eps *= 2
			if ratioAt(eps) <= 0.5 {
				eps /= 2
				break
			}
		} else {
			eps /= 2
			if ratioAt(eps) > 0.5 {
				break
			}
		}
	}
	slog.Debug("drift: step size heuristic", "epsilon", eps)
	return eps
}

// setAdaptation toggles dual-averaging updates. Switching adaptation off
// after the first draw installs the smoothed step size ε̄.
func (c *chain) setAdaptation(on bool) {
	if !on && c.adapting && c.initialized {
		c.epsilon = c.da.EpsilonBar()
	}
	c.adapting = on
}

// Adapting reports whether step-size adaptation is on.
func (c *chain) Adapting() bool { return c.adapting }

// Epsilon returns the current leapfrog step size.
func (c *chain) Epsilon() float64 { return c.epsilon }

// EpsilonBar returns the dual-averaging smoothed step size, the value to
// run with after warmup.
func (c *chain) EpsilonBar() float64 { return c.da.EpsilonBar() }

// MeanStat returns the running mean acceptance statistic.
func (c *chain) MeanStat() float64 { return c.meanStat }

// LogProb returns the cached log probability at the current position.
func (c *chain) LogProb() float64 { return c.logp }

// kinetic energy variants; the samplers intentionally differ in how the
// inverse masses enter (see DESIGN.md).
func kineticUnit(m []float64) float64 {
	return 0.5 * floats.Dot(m, m)
}

func kineticDiv(m, invMass []float64) float64 {
	var k float64
	for i := range m {
		k += m[i] * m[i] / invMass[i]
	}
	return 0.5 * k
}

func kineticMul(m, invMass []float64) float64 {
	var k float64
	for i := range m {
		k += m[i] * m[i] * invMass[i]
	}
	return 0.5 * k
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// writeBack overwrites vals with x and reports whether anything changed.
func writeBack(vals, x []float64) bool {
	accepted := false
	for i := range x {
		if x[i] != vals[i] {
			accepted = true
			break
		}
	}
	copy(vals, x)
	return accepted
}
