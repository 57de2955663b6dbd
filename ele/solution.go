// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ele

// Solution holds the solution data of the reduced model.
//
//        / q \         / q \
//        |   | => y =  |   |
//  yb =  | p |         \ p / (ny x 1)
//        |   |
//        \ λ / (nyb x 1)
//
// with q the modal amplitudes, p the internal wall-pressure dof and λ the
// Lagrange multipliers of the essential constraints
type Solution struct {

	// current state
	T float64   // current load factor τ of the solve
	Y []float64 // primary unknowns
	L []float64 // Lagrange multipliers

	// auxiliary
	ΔY []float64 // total increment (for nonlinear solver)
}

// Allocate allocates the solution arrays
func (o *Solution) Allocate(ny, nlam int) {
	o.Y = make([]float64, ny)
	o.ΔY = make([]float64, ny)
	o.L = make([]float64, nlam)
}

// Reset clear values
func (o *Solution) Reset() {
	o.T = 0
	for i := 0; i < len(o.Y); i++ {
		o.Y[i] = 0
		o.ΔY[i] = 0
	}
	for i := 0; i < len(o.L); i++ {
		o.L[i] = 0
	}
}
