// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"

	"github.com/finsberg/pulse-adjoint/ele"
)

// EssentialBc holds information about one essential boundary condition
// written as a linear combination of the primary unknowns. Lagrange
// multipliers implement both single- and multi-point constraints.
//  In general, essential bcs / constraints are defined by means of:
//
//      A・y = c
//
//  The resulting Kb matrix will then have the following form:
//      _       _
//     |  K  At  | / δy \   / -R - At*λ \
//     |         | |    | = |           |
//     |_ A   0 _| \ δλ /   \  c - A*y  /
//         Kb       δyb          fb
//
type EssentialBc struct {
	Key   string    // key such as 'ux', 'uy', 'uz'
	Tag   int       // tag of the surface the constraint acts on
	Eqs   []int     // equations numbers; more than one for multi-point constraints
	ValsA []float64 // values for matrix A
	Fcn   fun.Func  // function that implements the "c" vector in  A・y = c
}

// EbcArray is an array of EssentialBc's
type EbcArray []*EssentialBc

// EssentialBcs implements a structure to record the definition of essential bcs / constraints.
// Each constraint will have a unique Lagrange multiplier index.
type EssentialBcs struct {
	Bcs EbcArray     // active essential bcs / constraints
	A   la.Triplet   // matrix of coefficients 'A'
	Am  *la.CCMatrix // compressed form of A matrix
}

// Init initialises this structure
func (o *EssentialBcs) Init() {
	o.Bcs = make([]*EssentialBc, 0)
}

// Build builds the structures required for assembling the A matrix
//  nλ   -- is the number of essential bcs / constraints == number of Lagrange multipliers
//  nnzA -- is the number of non-zeros in matrix 'A'
func (o *EssentialBcs) Build(ny int) (nλ, nnzA int) {

	// skip if there are no constraints
	nλ = len(o.Bcs)
	if nλ == 0 {
		return
	}

	// sort bcs to make sure the Lagrange multipliers are always numbered in the same order
	sort.Sort(o.Bcs)

	// count number of non-zeros in matrix A
	for _, bc := range o.Bcs {
		nnzA += len(bc.ValsA)
	}

	// set matrix A
	o.A.Init(nλ, ny, nnzA)
	for i, bc := range o.Bcs {
		for j, eq := range bc.Eqs {
			o.A.Put(i, eq, bc.ValsA[j])
		}
	}
	o.Am = o.A.ToMatrix(nil)
	return
}

// AddToRhs adds the essential bcs / constraints terms to the augmented fb vector
func (o *EssentialBcs) AddToRhs(fb []float64, sol *ele.Solution) {

	// skip if there are no constraints
	if len(o.Bcs) == 0 {
		return
	}

	// add -At*λ to fb
	la.SpMatTrVecMulAdd(fb, -1, o.Am, sol.L) // fb += -1 * At * λ

	// assemble -rc = c - A*y into fb
	ny := len(sol.Y)
	for i, bc := range o.Bcs {
		fb[ny+i] = bc.Fcn.F(sol.T, nil)
	}
	la.SpMatVecMulAdd(fb[ny:], -1, o.Am, sol.Y) // fb += -1 * A * y
}

// SetRows sets constraints from rows of coefficients over the local dofs of
// one element, as returned by ele.Constrainer
//  rows -- one coefficient per local dof; null rows were already removed
//  eqs  -- maps the local dofs of the element to global equation numbers
func (o *EssentialBcs) SetRows(key string, tag int, rows [][]float64, eqs []int, fcn fun.Func) {
	for _, row := range rows {
		var reqs []int
		var vals []float64
		for j, v := range row {
			if v != 0 {
				reqs = append(reqs, eqs[j])
				vals = append(vals, v)
			}
		}
		if len(reqs) == 0 {
			continue
		}
		o.setEqs(key, tag, reqs, vals, fcn)
	}
}

// List returns a simple list logging bcs at load factor t
func (o *EssentialBcs) List(t float64) (l string) {
	l = "\n==================================================================\n"
	l += io.Sf("%8s%8s%25s%25s\n", "eq", "key", "value @ t=0", io.Sf("value @ t=%g", t))
	l += "------------------------------------------------------------------\n"
	sort.Sort(o.Bcs)
	for _, bc := range o.Bcs {
		l += io.Sf("%8d%8s%25.13f%25.13f\n", bc.Eqs[0], bc.Key, bc.Fcn.F(0, nil), bc.Fcn.F(t, nil))
	}
	l += "==================================================================\n"
	return
}

// auxiliary /////////////////////////////////////////////////////////////////////////////////////////

// setEqs sets/replaces one constraint. The same key, tag and equations
// replace a previous definition; anything else appends a new constraint
func (o *EssentialBcs) setEqs(key string, tag int, eqs []int, valsA []float64, fcn fun.Func) {

	// replace existent
	for _, bc := range o.Bcs {
		if bc.Key == key && bc.Tag == tag && len(bc.Eqs) == len(eqs) {
			same := true
			for i, eq := range bc.Eqs {
				if eq != eqs[i] {
					same = false
					break
				}
			}
			if same {
				bc.ValsA, bc.Fcn = valsA, fcn
				return
			}
		}
	}

	// add new
	o.Bcs = append(o.Bcs, &EssentialBc{key, tag, eqs, valsA, fcn})
}

// functions to implement Sort interface
func (o EbcArray) Len() int      { return len(o) }
func (o EbcArray) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o EbcArray) Less(i, j int) bool {
	sort.Ints(o[i].Eqs)
	sort.Ints(o[j].Eqs)
	return o[i].Eqs[0] < o[j].Eqs[0]
}
