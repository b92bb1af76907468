// Copyright 2025 The Drift Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package model is the public API for wrapping user log-density
// callbacks into the interface the samplers consume.
package model

import (
	"github.com/drift-ml/drift/internal/model"
)

// LogProbFunc evaluates a log density at x.
type LogProbFunc = model.LogProbFunc

// ADLogProbFunc evaluates a log density over AD scalars.
type ADLogProbFunc = model.ADLogProbFunc

// Model is the sampler-facing interface.
type Model = model.Model

// Adapter wraps a plain and/or AD log-density callback.
type Adapter = model.Adapter

// Interpolated is the two-density model used by the T3 sampler.
type Interpolated = model.Interpolated

// NewAdapter creates an adapter for an n-dimensional parameter space.
func NewAdapter(n int) *Adapter {
	return model.NewAdapter(n)
}

// NewInterpolated creates an interpolated model with α=0 and global
// temperature 1.
func NewInterpolated(n int) *Interpolated {
	return model.NewInterpolated(n)
}
