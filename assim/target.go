// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assim

// Target pairs an observation with measured data. The misfit gets one
// residual per solve step: weight times the simulated minus the measured
// value
type Target struct {
	Obs     Observation // the observation model
	Weight  float64     // weight in the misfit
	Data    []float64   // measured values, one per solve step
	Collect bool        // store simulated values during the forward pass
	Sim     []float64   // collected simulated values, one per solve step
}

// NewTarget returns a new optimization target holding measured data. A
// single scalar matches a single solve step; a sequence pairs one-to-one
// with the solve steps
func NewTarget(obs Observation, weight float64, data ...float64) *Target {
	if weight <= 0 {
		weight = 1
	}
	return &Target{Obs: obs, Weight: weight, Data: data}
}

// Regularization defines an optional Tikhonov penalty keeping the control
// close to a reference value. A row √w・(x - ref) is appended to the
// residuals when the weight is positive
type Regularization struct {
	Weight float64 // weight of the quadratic penalty
	Ref    float64 // reference value of the control
}
