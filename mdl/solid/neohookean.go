// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// NeoHookean implements a compressible neo-Hookean model
type NeoHookean struct {

	// parameters
	mu  float64 // shear modulus
	kap float64 // bulk modulus

	// derived
	lam float64 // Lamé parameter λ = κ - 2μ/3
}

// add model to factory
func init() {
	allocators["nhook"] = func() Model { return new(NeoHookean) }
}

// Init initialises model
func (o *NeoHookean) Init(ndim int, prms fun.Prms) (err error) {

	// parameters
	prms.Connect(&o.mu, "mu", "mu nhook model")
	prms.Connect(&o.kap, "kappa", "kappa nhook model")

	// derived
	o.lam = o.kap - 2.0*o.mu/3.0
	return
}

// GetPrms gets (an example) of parameters
func (o NeoHookean) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "mu", V: 10},
		&fun.Prm{N: "kappa", V: 1000},
	}
}

// Clean clean resources
func (o *NeoHookean) Clean() {
}

// Energy returns the strain energy density
func (o *NeoHookean) Energy(k *Kin) (ψ float64) {
	lnJ := math.Log(k.J)
	ψ = 0.5*o.mu*(k.I1-3.0) - o.mu*lnJ + 0.5*o.lam*lnJ*lnJ + activeEnergy(k)
	return
}

// Stress computes the second Piola-Kirchhoff stress
func (o *NeoHookean) Stress(S [][]float64, k *Kin) (err error) {
	lnJ := math.Log(k.J)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] = (o.lam*lnJ - o.mu) * k.Cinv[i][j]
		}
		S[i][i] += o.mu
	}
	addActiveStress(S, k)
	return
}
