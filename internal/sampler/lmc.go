package sampler

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/drift-ml/drift/internal/model"
)

// LMCConfig configures the Langevin Monte Carlo sampler.
type LMCConfig struct {
	// Alpha controls partial momentum refreshment, in [0, 1).
	// 0 resamples the momentum fully each draw.
	Alpha float64

	// Epsilon is the initial step size. Non-positive means "find a
	// reasonable value" with the doubling heuristic on the first draw.
	Epsilon float64

	// EpsilonPM is the ± range for uniform step-size jitter once
	// adaptation is off. 0 disables jitter.
	EpsilonPM float64

	// Delta is the dual-averaging target acceptance statistic.
	// Default: 0.61 — between the HMC optimum (0.65) and the Langevin
	// optimum (0.57), splitting the difference for partial refreshment.
	Delta float64

	// Gamma is the dual-averaging regularization scale. Default: 0.05.
	Gamma float64

	// Seed seeds the sampler's random source. Non-positive derives a
	// seed from the clock.
	Seed int64
}

// LMC is a Langevin Monte Carlo sampler: single-leapfrog-step HMC with
// optional partial momentum refreshment. The persistent momentum vector
// survives across draws and is negated after every accept/reject test,
// which keeps partial refreshment time-reversible.
type LMC struct {
	chain
	adapter *model.Adapter
	alpha   float64

	m []float64 // persistent momentum

	// per-draw scratch
	xNew, gNew, mNew []float64
}

// NewLMC creates an LMC sampler. Call SetLogProb and SetVariableValues
// before the first draw.
func NewLMC(cfg LMCConfig) *LMC {
	if cfg.Delta == 0 {
		cfg.Delta = 0.61
	}
	s := &LMC{
		chain:   newChain(cfg.Seed, cfg.Epsilon, cfg.EpsilonPM, cfg.Delta, cfg.Gamma, 1.0),
		adapter: model.NewAdapter(0),
		alpha:   cfg.Alpha,
	}
	s.chain.model = s.adapter
	return s
}

// SetLogProb installs the log-density callbacks.
func (s *LMC) SetLogProb(fn model.LogProbFunc, adFn model.ADLogProbFunc) {
	s.adapter.SetLogProb(fn, adFn)
}

// SetVariableValues sets the parameter vector and resets inverse masses.
func (s *LMC) SetVariableValues(vals []float64) {
	s.setVariableValues(vals)
}

// SetInvMasses replaces the diagonal inverse-mass vector.
func (s *LMC) SetInvMasses(invMasses []float64) {
	s.setInvMasses(invMasses)
}

// SetAdaptation toggles step-size adaptation.
func (s *LMC) SetAdaptation(on bool) {
	s.setAdaptation(on)
}

// RecomputeLogProb refreshes the cached (logp, gradient) pair.
func (s *LMC) RecomputeLogProb() {
	s.recomputeLogProb()
}

// Next runs one draw.
func (s *LMC) Next() Sample {
	s.ensureReady()
	s.nSteps++
	s.epsilonLast = s.jitteredEpsilon()

	n := len(s.x)

	// Refresh momentum: resample from scratch on a dimension change,
	// otherwise blend with fresh noise.
	if len(s.m) != n {
		s.m = make([]float64, n)
		s.sampleMomentum(s.m)
	} else {
		coeff := math.Sqrt(1 - s.alpha*s.alpha)
		for i := range s.m {
			s.m[i] = s.alpha*s.m[i] + coeff*s.norm.Rand()*s.invMass[i]
		}
	}

	h := kineticDiv(s.m, s.invMass) - s.logp

	s.xNew = append(s.xNew[:0], s.x...)
	s.gNew = append(s.gNew[:0], s.g...)
	s.mNew = append(s.mNew[:0], s.m...)

	newLogp := leapfrog(s.model, s.invMass, s.xNew, s.mNew, s.gNew, s.epsilonLast)
	floats.Scale(-1, s.mNew)

	hNew := kineticDiv(s.mNew, s.invMass) - newLogp

	acceptThresh := math.Exp(h - hNew)
	if s.uniform() < acceptThresh {
		copy(s.x, s.xNew)
		copy(s.g, s.gNew)
		copy(s.m, s.mNew)
		s.logp = newLogp
	}

	// Negate the persistent momentum regardless of the outcome.
	floats.Scale(-1, s.m)

	s.adaptUpdate(acceptThresh)

	return Sample{X: clone(s.x), LogProb: s.logp}
}

// NextSample runs one draw against vals, writing the new position in
// place. The returned flag reports whether any component changed.
func (s *LMC) NextSample(vals []float64) bool {
	smp := s.Next()
	return writeBack(vals, smp.X)
}

// Momentum exposes the persistent momentum vector for diagnostics.
func (s *LMC) Momentum() []float64 {
	return s.m
}
