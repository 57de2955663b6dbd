// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ele implements reduced kinematic elements for the ventricular wall
package ele

import (
	"github.com/cpmech/gosl/fun"
)

// Element defines what all elements must implement. One element covers one
// region of the model; its unknowns are the amplitudes of the deformation
// modes plus any internal degree of freedom
type Element interface {

	// information and initialisation
	Id() int                  // returns the element Id
	Neqs() int                // number of equations (modal amplitudes + internal dofs)
	SetEqs(eqs []int) error   // set global equation numbers
	SetActivation(f fun.Func) // set activation function

	// conditions
	SetNatBcs(tag int, key string, f fun.Func, extra string) error // set natural boundary conditions on tagged surface
	NatBc(key string, tag int) *NaturalBc                          // find natural boundary condition; nil if absent

	// called for each iteration
	AddToRhs(fb []float64, sol *Solution) error // adds -R to global residual vector fb
}

// CanOutputIps defines elements that can output integration points' values
type CanOutputIps interface {
	Id() int                            // returns the element Id
	OutIpCoords() [][]float64           // coordinates of integration points
	OutIpKeys() []string                // integration points' keys; e.g. "sigm", "J"
	OutIpVals(M *IpsMap, sol *Solution) // integration points' values corresponding to keys
}

// Constrainer defines elements that translate prescribed degrees of freedom
// on a tagged surface into linear constraint rows a·y = c over the element's
// unknowns. Identical rows arising from different vertices are merged
type Constrainer interface {
	ConstraintRows(tag int, key string) [][]float64
}

// Chamber defines elements enclosing a pressurised cavity. The quantities
// here are the observables matched against measurements
type Chamber interface {
	EnclosedVolume(surf string, sol *Solution) (V float64, err error)
	MeanFiberStrain(sol *Solution) (εf float64, err error)
}

// Info holds all information required to set a simulation stage
type Info struct {
	Dofs []string          // solution variables of this element. ex: ["q0", "q1", "q2", "pw"]
	Y2F  map[string]string // maps "y" keys to "f" keys. ex: "q0" => "fq0"
}

// IpsMap defines a map to hold results @ integration points
type IpsMap map[string][]float64

// NewIpsMap returns a new IpsMap
func NewIpsMap() *IpsMap {
	var M IpsMap
	M = make(map[string][]float64)
	return &M
}

// Set sets item in map by key and ip-index. The slice is resized with nip in case it's empty
//  Input:
//   idx -- index of integration point
//   nip -- number of integration points (to resize if necessary)
//   val -- value of 'key' @ integration point 'idx'
func (o *IpsMap) Set(key string, idx, nip int, val float64) {
	if slice, ok := (*o)[key]; ok {
		slice[idx] = val
		return
	}
	slice := make([]float64, nip)
	slice[idx] = val
	(*o)[key] = slice
}

// Get returns item corresponding to 'key' and integration point 'idx'
//  Note: this function returns 0 if 'key' is not found. It also does not check for out-of-bound errors
func (o *IpsMap) Get(key string, idx int) float64 {
	if slice, ok := (*o)[key]; ok {
		return slice[idx]
	}
	return 0
}
