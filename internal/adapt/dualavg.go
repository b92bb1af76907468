// Package adapt implements Nesterov dual-averaging adaptation of the
// leapfrog step size.
//
// The scheme tunes log ε so that a per-step acceptance statistic tracks a
// target δ. It is shared by every sampler in this module: each draw feeds
// its acceptance statistic into Update while warmup adaptation is on.
//
// Update rule, with stabilization count t₀ and decay κ:
//
//	H̄   ← (1 − 1/(t+t₀))·H̄ + (1/(t+t₀))·(δ − s)
//	logε ← μ − √t/γ · H̄
//	logε̄ ← t^(−κ)·logε + (1 − t^(−κ))·logε̄
//	t    ← t + 1
//
// Reference: Hoffman & Gelman, "The No-U-Turn Sampler" (2014), section 3.2.
package adapt

import "math"

// Config holds dual-averaging hyperparameters.
type Config struct {
	Delta float64 // Target acceptance statistic (required)
	Gamma float64 // Adaptation regularization scale (default: 0.05)
	Kappa float64 // Step-count decay exponent (default: 0.75)
	T0    float64 // Stabilization count (default: 10)
}

// DualAverage adapts a scalar step size toward a target acceptance
// statistic. The zero value is unusable; construct with New and seed with
// Init before the first Update.
type DualAverage struct {
	delta float64
	gamma float64
	kappa float64
	t0    float64

	mu        float64
	hbar      float64
	logEps    float64
	logEpsBar float64
	count     float64
}

// New creates a dual-averaging adapter, filling defaults for unset
// hyperparameters.
func New(cfg Config) *DualAverage {
	if cfg.Gamma == 0 {
		cfg.Gamma = 0.05
	}
	if cfg.Kappa == 0 {
		cfg.Kappa = 0.75
	}
	if cfg.T0 == 0 {
		cfg.T0 = 10
	}
	return &DualAverage{
		delta: cfg.Delta,
		gamma: cfg.Gamma,
		kappa: cfg.Kappa,
		t0:    cfg.T0,
	}
}

// Init seeds the adapter at step size eps0 with shrinkage point
// μ = log(muFactor·eps0). NUTS seeds with muFactor 10 (larger steps are
// cheaper there); the fixed-trajectory samplers seed with 1.
func (d *DualAverage) Init(eps0, muFactor float64) {
	d.mu = math.Log(muFactor * eps0)
	d.hbar = 0
	d.logEps = math.Log(eps0)
	d.logEpsBar = math.Log(eps0)
	d.count = 1
}

// Update folds one acceptance statistic into the running state and
// returns the new step size ε. NaN statistics count as 0 and values above
// 1 are clamped.
func (d *DualAverage) Update(stat float64) float64 {
	if math.IsNaN(stat) {
		stat = 0
	}
	if stat > 1 {
		stat = 1
	}

	eta := 1 / (d.count + d.t0)
	d.hbar = (1-eta)*d.hbar + eta*(d.delta-stat)
	d.logEps = d.mu - math.Sqrt(d.count)/d.gamma*d.hbar

	w := math.Pow(d.count, -d.kappa)
	d.logEpsBar = w*d.logEps + (1-w)*d.logEpsBar

	d.count++
	return math.Exp(d.logEps)
}

// Epsilon returns the current (noisy) step size exp(logε).
func (d *DualAverage) Epsilon() float64 {
	return math.Exp(d.logEps)
}

// EpsilonBar returns the averaged step size exp(logε̄), the value to run
// with once adaptation is switched off.
func (d *DualAverage) EpsilonBar() float64 {
	return math.Exp(d.logEpsBar)
}

// Count returns the number of updates applied so far.
func (d *DualAverage) Count() int {
	return int(d.count) - 1
}
