// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements hyperelastic models for the passive and active
// myocardium. Models are defined by a strain energy density ψ written in
// terms of the right Cauchy-Green tensor, the fiber triad and the active
// stress level
package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
)

// Model defines the interface for solid models
type Model interface {
	Init(ndim int, prms fun.Prms) error // initialises model
	GetPrms() fun.Prms                  // gets (an example) of parameters
	Clean()                             // clean resources
	Energy(k *Kin) float64              // strain energy density ψ
	Stress(S [][]float64, k *Kin) error // second Piola-Kirchhoff stress S = 2 ∂ψ/∂C
}

// New returns new solid model
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in 'solid' database", name)
	}
	return allocator(), nil
}

// allocators holds all available solid models; modelname => allocator
var allocators = map[string]func() Model{}

// Kin holds kinematic quantities at one point of the wall
type Kin struct {

	// input
	F  [][]float64 // deformation gradient
	F0 []float64   // fiber direction in the reference configuration
	S0 []float64   // sheet direction in the reference configuration
	N0 []float64   // sheet-normal direction in the reference configuration
	Ta float64     // active stress level

	// derived
	C    [][]float64 // right Cauchy-Green tensor C = Fᵀ·F
	Cinv [][]float64 // inverse of C
	J    float64     // determinant of F
	I1   float64     // tr(C)
	I4f  float64     // f0·C·f0
	I4s  float64     // s0·C·s0
	I8fs float64     // f0·C·s0
}

// Init allocates internal structures and sets the reference state
func (o *Kin) Init() {
	o.F = la.MatAlloc(3, 3)
	o.C = la.MatAlloc(3, 3)
	o.Cinv = la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		o.F[i][i] = 1
	}
	o.F0 = []float64{1, 0, 0}
	o.S0 = []float64{0, 1, 0}
	o.N0 = []float64{0, 0, 1}
}

// CalcFromF computes C and the invariants from the deformation gradient
func (o *Kin) CalcFromF() (err error) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.C[i][j] = 0
			for k := 0; k < 3; k++ {
				o.C[i][j] += o.F[k][i] * o.F[k][j]
			}
		}
	}
	o.J = Det3(o.F)
	if o.J < 1e-14 {
		return chk.Err("deformation gradient is not invertible: det(F) = %g", o.J)
	}
	return o.invariants()
}

// CalcFromC computes the invariants directly from a given C tensor
func (o *Kin) CalcFromC() (err error) {
	detC := Det3(o.C)
	if detC < 1e-14 {
		return chk.Err("right Cauchy-Green tensor is not positive: det(C) = %g", detC)
	}
	o.J = math.Sqrt(detC)
	return o.invariants()
}

// invariants computes the inverse of C and the invariants
func (o *Kin) invariants() (err error) {
	detC := o.J * o.J
	err = Inv3(o.Cinv, o.C, detC)
	if err != nil {
		return
	}
	o.I1 = o.C[0][0] + o.C[1][1] + o.C[2][2]
	o.I4f = quad(o.F0, o.C, o.F0)
	o.I4s = quad(o.S0, o.C, o.S0)
	o.I8fs = quad(o.F0, o.C, o.S0)
	return
}

// quad computes a·M·b
func quad(a []float64, M [][]float64, b []float64) (res float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			res += a[i] * M[i][j] * b[j]
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// Det3 computes the determinant of a 3x3 matrix
func Det3(A [][]float64) float64 {
	return A[0][0]*(A[1][1]*A[2][2]-A[1][2]*A[2][1]) -
		A[0][1]*(A[1][0]*A[2][2]-A[1][2]*A[2][0]) +
		A[0][2]*(A[1][0]*A[2][1]-A[1][1]*A[2][0])
}

// Inv3 computes the inverse of a 3x3 matrix given its determinant
func Inv3(Ai, A [][]float64, det float64) (err error) {
	if math.Abs(det) < 1e-14 {
		return chk.Err("matrix is singular: det = %g", det)
	}
	Ai[0][0] = (A[1][1]*A[2][2] - A[1][2]*A[2][1]) / det
	Ai[0][1] = (A[0][2]*A[2][1] - A[0][1]*A[2][2]) / det
	Ai[0][2] = (A[0][1]*A[1][2] - A[0][2]*A[1][1]) / det
	Ai[1][0] = (A[1][2]*A[2][0] - A[1][0]*A[2][2]) / det
	Ai[1][1] = (A[0][0]*A[2][2] - A[0][2]*A[2][0]) / det
	Ai[1][2] = (A[0][2]*A[1][0] - A[0][0]*A[1][2]) / det
	Ai[2][0] = (A[1][0]*A[2][1] - A[1][1]*A[2][0]) / det
	Ai[2][1] = (A[0][1]*A[2][0] - A[0][0]*A[2][1]) / det
	Ai[2][2] = (A[0][0]*A[1][1] - A[0][1]*A[1][0]) / det
	return
}

// CauchyStress computes the Cauchy stress σ = F·S·Fᵀ/J
func CauchyStress(σ [][]float64, mdl Model, k *Kin) (err error) {
	S := la.MatAlloc(3, 3)
	err = mdl.Stress(S, k)
	if err != nil {
		return
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			σ[i][j] = 0
			for r := 0; r < 3; r++ {
				for s := 0; s < 3; s++ {
					σ[i][j] += k.F[i][r] * S[r][s] * k.F[j][s] / k.J
				}
			}
		}
	}
	return
}

// active and volumetric contributions /////////////////////////////////////////////////////////////

// activeEnergy returns the active stress contribution Ta(I4f-1)/2
func activeEnergy(k *Kin) float64 {
	return 0.5 * k.Ta * (k.I4f - 1.0)
}

// addActiveStress adds the active contribution Ta f0⊗f0 to S
func addActiveStress(S [][]float64, k *Kin) {
	if k.Ta == 0 {
		return
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] += k.Ta * k.F0[i] * k.F0[j]
		}
	}
}

// volEnergy returns the volumetric penalty κ(J-1)²/2
func volEnergy(kap float64, k *Kin) float64 {
	return 0.5 * kap * (k.J - 1.0) * (k.J - 1.0)
}

// addVolStress adds the volumetric contribution κJ(J-1)C⁻¹ to S
func addVolStress(S [][]float64, kap float64, k *Kin) {
	coef := kap * k.J * (k.J - 1.0)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] += coef * k.Cinv[i][j]
		}
	}
}
