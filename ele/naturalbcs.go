// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

import "github.com/cpmech/gosl/fun"

// NaturalBc holds information on natural boundary conditions such as
// distributed normal loads (cavity pressure) or elastic supports acting on
// tagged surfaces. The effective magnitude is the function value multiplied
// by a scale that is ramped by continuation between consecutive solves:
//
//  val(τ) = [ScalePrev + τ·(Scale - ScalePrev)] · Fcn(t,x)
//
// where τ ∈ [0,1] is the load factor of the current solve
type NaturalBc struct {
	Key       string   // key such as qn, spring
	Tag       int      // tag of surface; e.g. 30 for the endocardium
	Fcn       fun.Func // function callback
	Extra     string   // extra information
	Scale     float64  // target scale of the current solve
	ScalePrev float64  // scale of the last converged solve
}

// Val returns the effective magnitude at load factor τ
func (o *NaturalBc) Val(τ, t float64, x []float64) float64 {
	return (o.ScalePrev + τ*(o.Scale-o.ScalePrev)) * o.Fcn.F(t, x)
}

// SetScale sets the target scale for the next solve
func (o *NaturalBc) SetScale(value float64) {
	o.Scale = value
}

// Commit stores the current scale as the converged one
func (o *NaturalBc) Commit() {
	o.ScalePrev = o.Scale
}

// Reset restores the scales to their state at creation
func (o *NaturalBc) Reset() {
	o.Scale = 1
	o.ScalePrev = 0
}
