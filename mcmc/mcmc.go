// Copyright 2025 The Drift Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package mcmc is the public API for the gradient-based samplers.
//
// Example:
//
//	s := mcmc.NewNUTS(mcmc.NUTSConfig{Seed: 1})
//	s.SetLogProb(nil, func(x []ad.Num) ad.Num {
//		return x[0].Mul(x[0]).MulConst(-0.5)
//	})
//	s.SetVariableValues([]float64{0})
//	for i := 0; i < 5000; i++ {
//		smp := s.Next()
//		use(smp.X, smp.LogProb)
//	}
package mcmc

import (
	"github.com/drift-ml/drift/internal/sampler"
)

// Sample is one draw from a sampler.
type Sample = sampler.Sample

// Sampler is the uniform surface of the single-density samplers.
type Sampler = sampler.Sampler

// LMC is the Langevin Monte Carlo sampler.
type LMC = sampler.LMC

// LMCConfig configures LMC.
type LMCConfig = sampler.LMCConfig

// HMC is fixed-trajectory Hamiltonian Monte Carlo.
type HMC = sampler.HMC

// HMCConfig configures HMC.
type HMCConfig = sampler.HMCConfig

// NUTS is the No-U-Turn sampler.
type NUTS = sampler.NUTS

// NUTSConfig configures NUTS.
type NUTSConfig = sampler.NUTSConfig

// T3 is the trans-dimensional tempered-trajectory sampler.
type T3 = sampler.T3

// T3Config configures T3.
type T3Config = sampler.T3Config

// Common errors.
var (
	ErrNotReady  = sampler.ErrNotReady
	ErrDimension = sampler.ErrDimension
)

// NewLMC creates a Langevin Monte Carlo sampler.
func NewLMC(cfg LMCConfig) *LMC {
	return sampler.NewLMC(cfg)
}

// NewHMC creates a fixed-trajectory HMC sampler.
func NewHMC(cfg HMCConfig) *HMC {
	return sampler.NewHMC(cfg)
}

// NewNUTS creates a No-U-Turn sampler.
func NewNUTS(cfg NUTSConfig) *NUTS {
	return sampler.NewNUTS(cfg)
}

// NewT3 creates a T3 sampler. oracle may be nil; when present it is
// read-only and supplies the tuned step size and trajectory length.
func NewT3(cfg T3Config, oracle *NUTS) *T3 {
	return sampler.NewT3(cfg, oracle)
}
