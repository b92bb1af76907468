package sampler

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/drift-ml/drift/internal/model"
)

// leapfrog advances (x, m) by one symplectic step of size eps against the
// model's log density, using a diagonal inverse-mass vector:
//
//	m ← m + (ε/2)·g
//	x ← x + ε·(invMass ⊙ m)
//	(logp, g) ← grad logp(x)
//	m ← m + (ε/2)·g
//
// x, m and g are mutated in place. A numerical domain error inside the
// gradient evaluation yields logp = −Inf with g left at its previous
// value, so the caller's accept test collapses to a rejection instead of
// an error.
func leapfrog(m model.Model, invMass, x, mom, g []float64, eps float64) float64 {
	floats.AddScaled(mom, 0.5*eps, g)
	for i := range x {
		x[i] += eps * invMass[i] * mom[i]
	}
	logp, err := m.GradLogProb(x, g)
	if err != nil {
		logp = math.Inf(-1)
	}
	floats.AddScaled(mom, 0.5*eps, g)
	return logp
}

// temperingCase classifies a step's position within a tempered
// trajectory: first half, exact midpoint of an odd-length trajectory, or
// second half.
type temperingCase int

const (
	firstHalf temperingCase = iota
	midpoint
	secondHalf
)

func classifyTempering(iter, numIters int) temperingCase {
	switch {
	case numIters%2 != 0 && iter == numIters/2:
		return midpoint
	case iter < numIters/2:
		return firstHalf
	default:
		return secondHalf
	}
}

// temperedLeapfrog is leapfrog with per-half-kick momentum rescaling: the
// momentum is multiplied by sqrtTempMult on the heating half of the
// trajectory and by its reciprocal on the cooling half, leaving the exact
// midpoint of an odd-length trajectory untouched. iter indexes the
// current step in [0, numIters).
func temperedLeapfrog(m model.Model, invMass, x, mom, g []float64, eps, sqrtTempMult float64, iter, numIters int) float64 {
	tcase := classifyTempering(iter, numIters)

	mult := sqrtTempMult
	if tcase == secondHalf {
		mult = 1 / sqrtTempMult
	}
	if tcase == midpoint {
		mult = 1
	}
	for i := range mom {
		mom[i] += 0.5 * eps * g[i]
		mom[i] *= mult
	}
	for i := range x {
		x[i] += eps * invMass[i] * mom[i]
	}
	logp, err := m.GradLogProb(x, g)
	if err != nil {
		logp = math.Inf(-1)
	}
	mult = 1 / sqrtTempMult
	if tcase == firstHalf {
		mult = sqrtTempMult
	}
	if tcase == midpoint {
		mult = 1
	}
	for i := range mom {
		mom[i] += 0.5 * eps * g[i]
		mom[i] *= mult
	}
	return logp
}
