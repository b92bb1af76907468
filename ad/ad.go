// Copyright 2025 The Drift Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ad is the public API for the reverse-mode automatic
// differentiation engine.
//
// Example:
//
//	tape := ad.NewTape()
//	x := tape.Leaf(1.5)
//	y := x.Mul(x).MulConst(-0.5).Exp()
//	grad := ad.Gradient(y, []ad.Num{x})
package ad

import (
	"github.com/drift-ml/drift/internal/ad"
)

// Num is a handle to a tape node; see the arithmetic and transcendental
// methods on it for the operation set.
type Num = ad.Num

// Tape is an append-only arena of AD nodes. Create handles with
// Tape.Leaf and Tape.Const.
type Tape = ad.Tape

// DomainError reports a math operation evaluated outside its domain.
type DomainError = ad.DomainError

// ErrDomain is the sentinel matched by every DomainError.
var ErrDomain = ad.ErrDomain

// NewTape creates an empty tape.
func NewTape() *Tape {
	return ad.NewTape()
}

// Gradient computes the derivative of root with respect to each
// independent leaf and returns them in order.
func Gradient(root Num, indeps []Num) []float64 {
	return ad.Gradient(root, indeps)
}

// GradientInto is Gradient writing into a caller-owned slice.
func GradientInto(root Num, indeps []Num, out []float64) {
	ad.GradientInto(root, indeps, out)
}
