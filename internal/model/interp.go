package model

import "github.com/drift-ml/drift/internal/ad"

// Interpolated is the two-density model used by the T3 sampler. Its log
// density is T·((1−α)·lp1 + α·lp2): at α=0 it is density one, at α=1
// density two, with a global temperature scaling the whole expression.
type Interpolated struct {
	Adapter
	lp1, lp2   ADLogProbFunc
	alpha      float64
	globalTemp float64
}

// NewInterpolated creates an interpolated model for an n-dimensional
// parameter space with α=0 and temperature 1.
func NewInterpolated(n int) *Interpolated {
	m := &Interpolated{
		Adapter:    *NewAdapter(n),
		globalTemp: 1.0,
	}
	m.Adapter.SetLogProb(nil, m.eval)
	return m
}

// SetLogProbs installs the two AD log-density callbacks.
func (m *Interpolated) SetLogProbs(lp1, lp2 ADLogProbFunc) {
	m.lp1 = lp1
	m.lp2 = lp2
}

// SetAlpha sets the interpolation coefficient, in [0, 1].
func (m *Interpolated) SetAlpha(alpha float64) {
	m.alpha = alpha
}

// Alpha returns the current interpolation coefficient.
func (m *Interpolated) Alpha() float64 {
	return m.alpha
}

// SetGlobalTemp sets the global temperature multiplier.
func (m *Interpolated) SetGlobalTemp(t float64) {
	m.globalTemp = t
}

// GlobalTemp returns the current global temperature.
func (m *Interpolated) GlobalTemp() float64 {
	return m.globalTemp
}

func (m *Interpolated) eval(x []ad.Num) ad.Num {
	if m.lp1 == nil || m.lp2 == nil {
		panic(ErrNoADLogProb)
	}
	a := m.lp1(x)
	b := m.lp2(x)
	interp := a.MulConst(1 - m.alpha).Add(b.MulConst(m.alpha))
	return interp.MulConst(m.globalTemp)
}
