package sampler

import (
	"math"

	"github.com/drift-ml/drift/internal/model"
)

// HMCConfig configures the fixed-trajectory HMC sampler.
type HMCConfig struct {
	// Steps is the number of leapfrog steps per draw. Default: 10.
	Steps int

	// Epsilon is the initial step size; non-positive means heuristic.
	Epsilon float64

	// EpsilonPM is the ± step-size jitter range once adaptation is off.
	EpsilonPM float64

	// Delta is the dual-averaging target. Default: 0.65.
	Delta float64

	// Gamma is the dual-averaging regularization scale. Default: 0.05.
	Gamma float64

	// Seed seeds the random source; non-positive uses the clock.
	Seed int64
}

// HMC is plain Hamiltonian Monte Carlo with a fixed leapfrog count and
// full momentum refreshment each draw.
type HMC struct {
	chain
	adapter *model.Adapter
	steps   int

	m, xNew, gNew []float64 // per-draw scratch
}

// NewHMC creates a fixed-trajectory HMC sampler.
func NewHMC(cfg HMCConfig) *HMC {
	if cfg.Steps <= 0 {
		cfg.Steps = 10
	}
	if cfg.Delta == 0 {
		cfg.Delta = 0.65
	}
	s := &HMC{
		chain:   newChain(cfg.Seed, cfg.Epsilon, cfg.EpsilonPM, cfg.Delta, cfg.Gamma, 1.0),
		adapter: model.NewAdapter(0),
		steps:   cfg.Steps,
	}
	s.chain.model = s.adapter
	return s
}

// SetLogProb installs the log-density callbacks.
func (s *HMC) SetLogProb(fn model.LogProbFunc, adFn model.ADLogProbFunc) {
	s.adapter.SetLogProb(fn, adFn)
}

// SetVariableValues sets the parameter vector and resets inverse masses.
func (s *HMC) SetVariableValues(vals []float64) {
	s.setVariableValues(vals)
}

// SetInvMasses replaces the diagonal inverse-mass vector.
func (s *HMC) SetInvMasses(invMasses []float64) {
	s.setInvMasses(invMasses)
}

// SetAdaptation toggles step-size adaptation.
func (s *HMC) SetAdaptation(on bool) {
	s.setAdaptation(on)
}

// RecomputeLogProb refreshes the cached (logp, gradient) pair.
func (s *HMC) RecomputeLogProb() {
	s.recomputeLogProb()
}

// Next runs one draw: a fresh momentum, Steps leapfrog steps, and a
// Metropolis accept/reject on the Hamiltonian difference.
func (s *HMC) Next() Sample {
	s.ensureReady()
	s.nSteps++
	s.epsilonLast = s.jitteredEpsilon()

	n := len(s.x)
	if len(s.m) != n {
		s.m = make([]float64, n)
	}
	s.sampleMomentum(s.m)

	h := kineticDiv(s.m, s.invMass) - s.logp

	s.xNew = append(s.xNew[:0], s.x...)
	s.gNew = append(s.gNew[:0], s.g...)

	newLogp := s.logp
	for i := 0; i < s.steps; i++ {
		newLogp = leapfrog(s.model, s.invMass, s.xNew, s.m, s.gNew, s.epsilonLast)
	}

	hNew := kineticDiv(s.m, s.invMass) - newLogp

	acceptThresh := math.Exp(h - hNew)
	if s.uniform() < acceptThresh {
		copy(s.x, s.xNew)
		copy(s.g, s.gNew)
		s.logp = newLogp
	}

	s.adaptUpdate(acceptThresh)

	return Sample{X: clone(s.x), LogProb: s.logp}
}

// NextSample runs one draw against vals, writing the new position in
// place and reporting whether any component changed.
func (s *HMC) NextSample(vals []float64) bool {
	smp := s.Next()
	return writeBack(vals, smp.X)
}
