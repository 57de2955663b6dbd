// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/fun"
)

// HlzOgden implements the orthotropic Holzapfel-Ogden model for the passive
// myocardium. The isotropic matrix term uses the isochoric invariant
// Ī1 = J^(-2/3) I1 so that the reference configuration is stress free under
// the volumetric penalty. The fiber and sheet terms engage in extension only
type HlzOgden struct {

	// parameters
	a   float64 // isotropic matrix stiffness
	b   float64 // isotropic matrix exponent
	af  float64 // fiber stiffness
	bf  float64 // fiber exponent
	as  float64 // sheet stiffness
	bs  float64 // sheet exponent
	afs float64 // fiber-sheet coupling stiffness
	bfs float64 // fiber-sheet coupling exponent
	kap float64 // volumetric penalty coefficient
}

// add model to factory
func init() {
	allocators["hlz-ogden"] = func() Model { return new(HlzOgden) }
}

// Init initialises model. Parameters are connected so that adjustments,
// e.g. by the assimilation driver, are seen by the model
func (o *HlzOgden) Init(ndim int, prms fun.Prms) (err error) {
	prms.Connect(&o.a, "a", "a hlz-ogden model")
	prms.Connect(&o.b, "b", "b hlz-ogden model")
	prms.Connect(&o.af, "af", "af hlz-ogden model")
	prms.Connect(&o.bf, "bf", "bf hlz-ogden model")
	prms.Connect(&o.as, "as", "as hlz-ogden model")
	prms.Connect(&o.bs, "bs", "bs hlz-ogden model")
	prms.Connect(&o.afs, "afs", "afs hlz-ogden model")
	prms.Connect(&o.bfs, "bfs", "bfs hlz-ogden model")
	prms.Connect(&o.kap, "kappa", "kappa hlz-ogden model")
	return
}

// GetPrms gets (an example) of parameters
func (o HlzOgden) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "a", V: 2.28},
		&fun.Prm{N: "b", V: 9.726},
		&fun.Prm{N: "af", V: 1.685},
		&fun.Prm{N: "bf", V: 15.779},
		&fun.Prm{N: "as", V: 0},
		&fun.Prm{N: "bs", V: 0},
		&fun.Prm{N: "afs", V: 0},
		&fun.Prm{N: "bfs", V: 0},
		&fun.Prm{N: "kappa", V: 1000},
	}
}

// Clean clean resources
func (o *HlzOgden) Clean() {
}

// Energy returns the strain energy density
func (o *HlzOgden) Energy(k *Kin) (ψ float64) {
	i1b := math.Pow(k.J, -2.0/3.0) * k.I1
	if o.b < 1e-12 {
		ψ = 0.5 * o.a * (i1b - 3.0)
	} else {
		ψ = o.a / (2.0 * o.b) * (math.Exp(o.b*(i1b-3.0)) - 1.0)
	}
	ψ += expTerm(o.af, o.bf, pos(k.I4f-1.0))
	ψ += expTerm(o.as, o.bs, pos(k.I4s-1.0))
	ψ += expTerm(o.afs, o.bfs, k.I8fs)
	ψ += volEnergy(o.kap, k)
	ψ += activeEnergy(k)
	return
}

// Stress computes the second Piola-Kirchhoff stress
func (o *HlzOgden) Stress(S [][]float64, k *Kin) (err error) {

	// coefficients
	J23 := math.Pow(k.J, -2.0/3.0)
	dW1 := 0.5 * o.a
	if o.b >= 1e-12 {
		dW1 *= math.Exp(o.b * (J23*k.I1 - 3.0))
	}
	dW4f := dexpTerm(o.af, o.bf, pos(k.I4f-1.0))
	dW4s := dexpTerm(o.as, o.bs, pos(k.I4s-1.0))
	dW8 := dexpTerm(o.afs, o.bfs, k.I8fs)

	// S = 2 dψ/dC with ∂Ī1/∂C = J^(-2/3) (I - I1 C⁻¹/3)
	ciso := 2.0 * dW1 * J23
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] = -ciso*k.I1/3.0*k.Cinv[i][j] +
				2.0*dW4f*k.F0[i]*k.F0[j] + 2.0*dW4s*k.S0[i]*k.S0[j] +
				dW8*(k.F0[i]*k.S0[j]+k.S0[i]*k.F0[j])
		}
		S[i][i] += ciso
	}
	addVolStress(S, o.kap, k)
	addActiveStress(S, k)
	return
}

// expTerm computes (A/2B)(exp(B h²) - 1) with the B → 0 limit A h²/2
func expTerm(A, B, h float64) float64 {
	if A == 0 {
		return 0
	}
	if B < 1e-12 {
		return 0.5 * A * h * h
	}
	return A / (2.0 * B) * (math.Exp(B*h*h) - 1.0)
}

// dexpTerm computes the derivative of expTerm with respect to h
func dexpTerm(A, B, h float64) float64 {
	if A == 0 {
		return 0
	}
	if B < 1e-12 {
		return A * h
	}
	return A * h * math.Exp(B*h*h)
}

// pos is the Macaulay bracket
func pos(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}
