// Package sampler implements the gradient-based MCMC samplers: Langevin
// Monte Carlo (LMC), fixed-trajectory HMC, the No-U-Turn sampler (NUTS),
// and the trans-dimensional tempered-trajectory sampler (T3).
//
// All four share one skeleton — position, gradient, log probability, a
// diagonal inverse-mass vector, and dual-averaging step-size adaptation —
// composed as a value inside each sampler. The leapfrog integrator and
// kinetic-energy helpers are free functions over that state.
//
// Samplers are single-goroutine objects: each owns its model adapter
// (and therefore its AD tape) and a seeded random source. Draws are
// strictly sequential; run independent samplers for multiple chains.
//
// Usage:
//
//	s := sampler.NewNUTS(sampler.NUTSConfig{Seed: 42})
//	s.SetLogProb(nil, func(x []ad.Num) ad.Num {
//		return x[0].Mul(x[0]).MulConst(-0.5) // standard normal
//	})
//	s.SetVariableValues([]float64{0})
//	for i := 0; i < 1000; i++ {
//		smp := s.Next()
//		_ = smp.X
//	}
package sampler
