package sampler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drift-ml/drift/internal/ad"
	"github.com/drift-ml/drift/internal/model"
)

// gaussAt returns lp(x) = −½(x₀−mu)² as an AD callback, ignoring any
// extra coordinates.
func gaussAt(mu float64) model.ADLogProbFunc {
	return func(x []ad.Num) ad.Num {
		d := x[0].SubConst(mu)
		return d.Mul(d).MulConst(-0.5)
	}
}

func TestT3InterpolationSanity(t *testing.T) {
	// Bridge from N(0,1) to N(5,1) over 50 steps at eps = 0.1.
	s := NewT3(T3Config{Steps: 50, Epsilon: 0.1, Seed: 5}, nil)
	s.SetLogProbs(gaussAt(0), gaussAt(5))

	vals := []float64{0.2}
	for i := 0; i < 20; i++ {
		keDiff := s.NextSample(vals, nil, nil)
		require.False(t, math.IsNaN(keDiff))
		require.False(t, math.IsInf(keDiff, 0))
		require.False(t, math.IsNaN(vals[0]))
	}
}

func TestT3AlphaScheduleEndpoints(t *testing.T) {
	s := NewT3(T3Config{Steps: 50, Epsilon: 0.05, Seed: 6}, nil)
	s.SetLogProbs(gaussAt(0), gaussAt(5))

	vals := []float64{0}
	s.NextSample(vals, nil, nil)

	// The schedule runs α from 0 to 1 inclusive, and the symmetric
	// temperature ladder returns to 1 for an even step count.
	assert.Equal(t, 1.0, s.interp.Alpha())
	assert.InDelta(t, 1.0, s.interp.GlobalTemp(), 1e-9)
}

func TestT3SingleStepUsesAlphaZero(t *testing.T) {
	s := NewT3(T3Config{Steps: 1, Epsilon: 0.05, GlobalTempMult: 1.1, Seed: 6}, nil)
	s.SetLogProbs(gaussAt(0), gaussAt(5))

	vals := []float64{0}
	s.NextSample(vals, nil, nil)

	assert.Equal(t, 0.0, s.interp.Alpha())
	// A single step sits in the "first half": one multiplication.
	assert.InDelta(t, 1.1, s.interp.GlobalTemp(), 1e-12)
}

func TestT3InvMassInterpolation(t *testing.T) {
	lp1 := func(x []ad.Num) ad.Num {
		return x[0].Mul(x[0]).MulConst(-0.5)
	}
	lp2 := func(x []ad.Num) ad.Num {
		d := x[1].SubConst(3)
		return x[0].Mul(x[0]).Add(d.Mul(d)).MulConst(-0.5)
	}

	s := NewT3(T3Config{Steps: 10, Epsilon: 0.05, Seed: 8}, nil)
	s.SetLogProbs(lp1, lp2)

	vals := []float64{0.1, 3}
	s.NextSample(vals, []int{0}, []int{1})

	// At the end of the schedule α = 1: old variables are frozen out,
	// new ones fully thawed.
	assert.Equal(t, 0.0, s.invMass[0])
	assert.Equal(t, 1.0, s.invMass[1])
}

func TestT3GlobalTemperingLadder(t *testing.T) {
	const mult = 1.25

	s := NewT3(T3Config{Steps: 51, Epsilon: 0.01, GlobalTempMult: mult, Seed: 12}, nil)
	s.SetLogProbs(gaussAt(0), gaussAt(1))

	vals := []float64{0}
	s.NextSample(vals, nil, nil)

	// 51 steps: α ≤ 0.5 for the first 26 (multiply), above for the
	// remaining 25 (divide), leaving one net multiplication.
	assert.InDelta(t, mult, s.interp.GlobalTemp(), 1e-9)
}

func TestT3KineticEnergyUsesInvMassProduct(t *testing.T) {
	// The T3 kinetic-energy sum multiplies by the inverse mass, unlike
	// the single-density samplers, which divide (see DESIGN.md).
	m := []float64{2, 3}
	invMass := []float64{4, 1}
	assert.InDelta(t, 0.5*(2*2*4+3*3*1), kineticMul(m, invMass), 1e-12)
	assert.InDelta(t, 0.5*(2*2/4.0+3*3/1.0), kineticDiv(m, invMass), 1e-12)
}

func TestT3FixedEpsilonDisablesAdaptation(t *testing.T) {
	s := NewT3(T3Config{Steps: 5, Epsilon: 0.1, Seed: 4}, nil)
	s.SetLogProbs(gaussAt(0), gaussAt(1))

	vals := []float64{0}
	for i := 0; i < 10; i++ {
		s.NextSample(vals, nil, nil)
	}
	assert.False(t, s.Adapting())
	assert.Equal(t, 0.1, s.Epsilon())
}

func TestT3AdaptsWhenNoEpsilonGiven(t *testing.T) {
	s := NewT3(T3Config{Steps: 10, Seed: 14}, nil)
	s.SetLogProbs(gaussAt(0), gaussAt(0.5))

	vals := []float64{0}
	for i := 0; i < 50; i++ {
		s.NextSample(vals, nil, nil)
	}
	assert.True(t, s.Adapting())
	assert.Greater(t, s.Epsilon(), 0.0)
	assert.Greater(t, s.EpsilonBar(), 0.0)
}

func TestT3BorrowsFromOracle(t *testing.T) {
	oracle := NewNUTS(NUTSConfig{Seed: 15})
	oracle.SetLogProb(nil, stdNormalAD)
	oracle.SetVariableValues([]float64{0})
	for i := 0; i < 200; i++ {
		oracle.Next()
	}

	s := NewT3(T3Config{Seed: 16}, oracle)
	s.SetLogProbs(gaussAt(0), gaussAt(1))

	want := 1 << int(math.Round(oracle.MeanTreeDepth()))
	assert.Equal(t, want, s.borrowedSteps())

	vals := []float64{0}
	keDiff := s.NextSample(vals, nil, nil)
	assert.False(t, math.IsNaN(keDiff))
	// The first draw seeds adaptation from the oracle's tuned step.
	assert.Greater(t, s.Epsilon(), 0.0)
}

func TestT3RequiresOracleForBorrowedSteps(t *testing.T) {
	s := NewT3(T3Config{Epsilon: 0.1, Seed: 2}, nil)
	s.SetLogProbs(gaussAt(0), gaussAt(1))
	vals := []float64{0}
	assert.Panics(t, func() { s.NextSample(vals, nil, nil) })
}
