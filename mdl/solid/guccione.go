// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
)

// Guccione implements the transversely isotropic Fung-type model for the
// passive myocardium, written in the fiber coordinate system
type Guccione struct {

	// parameters
	c   float64 // overall stiffness
	bf  float64 // fiber strain exponent
	bt  float64 // transverse strain exponent
	bfs float64 // shear strain exponent
	kap float64 // volumetric penalty coefficient

	// auxiliary
	e  [][]float64 // Green-Lagrange strain
	ef [][]float64 // strain components in the fiber system
}

// add model to factory
func init() {
	allocators["guccione"] = func() Model { return new(Guccione) }
}

// Init initialises model
func (o *Guccione) Init(ndim int, prms fun.Prms) (err error) {

	// parameters
	prms.Connect(&o.c, "C", "C guccione model")
	prms.Connect(&o.bf, "bf", "bf guccione model")
	prms.Connect(&o.bt, "bt", "bt guccione model")
	prms.Connect(&o.bfs, "bfs", "bfs guccione model")
	prms.Connect(&o.kap, "kappa", "kappa guccione model")

	// auxiliary
	o.e = la.MatAlloc(3, 3)
	o.ef = la.MatAlloc(3, 3)
	return
}

// GetPrms gets (an example) of parameters
func (o Guccione) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "C", V: 2.0},
		&fun.Prm{N: "bf", V: 8.0},
		&fun.Prm{N: "bt", V: 2.0},
		&fun.Prm{N: "bfs", V: 4.0},
		&fun.Prm{N: "kappa", V: 1000},
	}
}

// Clean clean resources
func (o *Guccione) Clean() {
}

// strains computes the Green-Lagrange strain components in the fiber system
// and returns the exponent Q
func (o *Guccione) strains(k *Kin) (Q float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.e[i][j] = 0.5 * k.C[i][j]
		}
		o.e[i][i] -= 0.5
	}
	triad := [][]float64{k.F0, k.S0, k.N0}
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			o.ef[a][b] = quad(triad[a], o.e, triad[b])
		}
	}
	Q = o.bf*o.ef[0][0]*o.ef[0][0] +
		o.bt*(o.ef[1][1]*o.ef[1][1]+o.ef[2][2]*o.ef[2][2]+2.0*o.ef[1][2]*o.ef[1][2]) +
		o.bfs*(2.0*o.ef[0][1]*o.ef[0][1]+2.0*o.ef[0][2]*o.ef[0][2])
	return
}

// Energy returns the strain energy density
func (o *Guccione) Energy(k *Kin) (ψ float64) {
	Q := o.strains(k)
	ψ = 0.5*o.c*(math.Exp(Q)-1.0) + volEnergy(o.kap, k) + activeEnergy(k)
	return
}

// Stress computes the second Piola-Kirchhoff stress
func (o *Guccione) Stress(S [][]float64, k *Kin) (err error) {

	// stress components in the fiber system
	Q := o.strains(k)
	ce := o.c * math.Exp(Q)
	m00 := ce * o.bf * o.ef[0][0]
	m11 := ce * o.bt * o.ef[1][1]
	m22 := ce * o.bt * o.ef[2][2]
	m12 := ce * o.bt * o.ef[1][2]
	m01 := ce * o.bfs * o.ef[0][1]
	m02 := ce * o.bfs * o.ef[0][2]

	// rotate back to the reference system
	f, s, n := k.F0, k.S0, k.N0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			S[i][j] = m00*f[i]*f[j] + m11*s[i]*s[j] + m22*n[i]*n[j] +
				m12*(s[i]*n[j]+n[i]*s[j]) +
				m01*(f[i]*s[j]+s[i]*f[j]) +
				m02*(f[i]*n[j]+n[i]*f[j])
		}
	}
	addVolStress(S, o.kap, k)
	addActiveStress(S, k)
	return
}
