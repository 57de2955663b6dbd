// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem implements an implicit solver for the quasi-static
// equilibrium of the ventricular wall under prescribed cavity pressure.
// The unknowns are the modal amplitudes of the wall elements augmented
// by Lagrange multipliers enforcing the essential boundary conditions.
package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/finsberg/pulse-adjoint/ele"
	"github.com/finsberg/pulse-adjoint/inp"
)

// Domain holds all elements, the solution state and auxiliary variables
type Domain struct {

	// init: region, mesh, elements
	Sim    *inp.Simulation // simulation data
	Reg    *inp.Region     // the region of this domain
	Msh    *inp.Mesh       // the mesh of this domain
	Elems  []ele.Element   // all elements
	eqmaps [][]int         // global equation numbers of each element

	// stage: equations and solution
	Stg      *inp.Stage       // current stage
	Ny       int              // total number of primary unknowns
	Nlam     int              // number of Lagrange multipliers
	Nyb      int              // total number of equations: Ny + Nlam
	Sol      *ele.Solution    // solution state
	EssenBcs EssentialBcs     // essential boundary conditions
	natbcs   []*ele.NaturalBc // handles to all natural bcs; for committing load scales

	// stage: auxiliary vectors and matrices
	Fb  []float64   // augmented right-hand side vector
	Wb  []float64   // workspace: solution of the linearised system
	Kb  [][]float64 // augmented tangent matrix
	Kbi [][]float64 // inverse of Kb

	// auxiliary: finite differences and divergence control
	fbp    []float64     // perturbed right-hand side: forward
	fbm    []float64     // perturbed right-hand side: backward
	bkpSol *ele.Solution // backup of solution state
}

// NewDomain returns a new domain. The elements are allocated immediately;
// equations, bcs and solution arrays are set later by SetStage
func NewDomain(sim *inp.Simulation) (dom *Domain, err error) {

	// check
	if len(sim.Regions) != 1 {
		err = chk.Err("simulation must define exactly one region; got %d", len(sim.Regions))
		return
	}

	// new domain
	dom = new(Domain)
	dom.Sim = sim
	dom.Reg = sim.Regions[0]
	dom.Msh = dom.Reg.Msh

	// allocate elements and assign equation numbers
	nexteq := 0
	for _, edat := range dom.Reg.ElemsData {
		e, err := ele.New(dom.Reg, edat, sim)
		if err != nil {
			return nil, chk.Err("cannot allocate element {type=%q, tag=%d}:\n%v", edat.Type, edat.Tag, err)
		}
		eqs := utl.IntRange2(nexteq, nexteq+e.Neqs())
		err = e.SetEqs(eqs)
		if err != nil {
			return nil, err
		}
		dom.Elems = append(dom.Elems, e)
		dom.eqmaps = append(dom.eqmaps, eqs)
		nexteq += e.Neqs()
	}
	dom.Ny = nexteq
	return
}

// SetStage sets the given stage: activation, boundary conditions and
// solution arrays. It can be called again to switch stages; the solution
// state restarts from the reference configuration
func (o *Domain) SetStage(stg *inp.Stage) (err error) {

	// reset stage data
	o.Stg = stg
	o.EssenBcs.Init()
	o.natbcs = nil

	// element conditions
	for _, ec := range stg.EleConds {
		for j, key := range ec.Keys {
			fcn, err := o.Sim.Functions.Get(ec.Funcs[j])
			if err != nil {
				return err
			}
			switch key {
			case "act":
				found := false
				for i, e := range o.Elems {
					if o.Reg.ElemsData[i].Tag == ec.Tag {
						e.SetActivation(fcn)
						found = true
					}
				}
				if !found {
					return chk.Err("cannot find element with tag %d to set activation", ec.Tag)
				}
			default:
				return chk.Err("element condition key %q is unknown", key)
			}
		}
	}

	// face boundary conditions
	for _, fbc := range stg.FaceBcs {
		for j, key := range fbc.Keys {
			fcn, err := o.Sim.Functions.Get(fbc.Funcs[j])
			if err != nil {
				return err
			}
			switch key {
			case "ux", "uy", "uz":
				for i, e := range o.Elems {
					if c, ok := e.(ele.Constrainer); ok {
						rows := c.ConstraintRows(fbc.Tag, key)
						if len(rows) > 0 {
							o.EssenBcs.SetRows(key, fbc.Tag, rows, o.eqmaps[i], fcn)
						}
					}
				}
			case "qn", "spring":
				for _, e := range o.Elems {
					err = e.SetNatBcs(fbc.Tag, key, fcn, fbc.Extra)
					if err != nil {
						return err
					}
					if h := e.NatBc(key, fbc.Tag); h != nil {
						o.natbcs = append(o.natbcs, h)
					}
				}
			default:
				return chk.Err("face boundary condition key %q is unknown", key)
			}
		}
	}

	// size of augmented system
	o.Nlam, _ = o.EssenBcs.Build(o.Ny)
	o.Nyb = o.Ny + o.Nlam

	// allocate solution and auxiliary arrays
	o.Sol = new(ele.Solution)
	o.Sol.Allocate(o.Ny, o.Nlam)
	o.Fb = make([]float64, o.Nyb)
	o.Wb = make([]float64, o.Nyb)
	o.fbp = make([]float64, o.Nyb)
	o.fbm = make([]float64, o.Nyb)
	o.Kb = la.MatAlloc(o.Nyb, o.Nyb)
	o.Kbi = la.MatAlloc(o.Nyb, o.Nyb)
	o.bkpSol = nil

	// list bcs
	if o.Sim.Data.ListBcs {
		io.Pf(o.EssenBcs.List(stg.Control.Tf))
	}
	return
}

// AssembleRhs assembles the augmented right-hand side vector fb.
// The first Ny entries receive the negative of the out-of-balance
// residual; the trailing Nlam entries the constraint violations
func (o *Domain) AssembleRhs(fb []float64) (err error) {
	la.VecFill(fb, 0)
	for _, e := range o.Elems {
		err = e.AddToRhs(fb, o.Sol)
		if err != nil {
			return
		}
	}
	o.EssenBcs.AddToRhs(fb, o.Sol)
	return
}

// Jacobian computes the augmented tangent matrix Kb = -dfb/dyb by central
// finite differences about the current solution state
func (o *Domain) Jacobian() (err error) {
	for j := 0; j < o.Nyb; j++ {
		v := o.yb(j)
		h := 1e-6 * (1.0 + math.Abs(v))
		o.setyb(j, v+h)
		err = o.AssembleRhs(o.fbp)
		if err != nil {
			return
		}
		o.setyb(j, v-h)
		err = o.AssembleRhs(o.fbm)
		if err != nil {
			return
		}
		o.setyb(j, v)
		for i := 0; i < o.Nyb; i++ {
			o.Kb[i][j] = (o.fbm[i] - o.fbp[i]) / (2.0 * h)
		}
	}
	return
}

// SolveLin solves the linearised system Kb・wb = fb for the increment wb
func (o *Domain) SolveLin() (err error) {
	err = la.MatInvG(o.Kbi, o.Kb, 1e-10)
	if err != nil {
		return chk.Err("cannot invert the augmented tangent matrix:\n%v", err)
	}
	la.MatVecMul(o.Wb, 1, o.Kbi, o.Fb)
	return
}

// Commit accepts the current load scales of all natural bcs after a
// successful solve. The next solve then ramps from the committed state
func (o *Domain) Commit() {
	for _, nbc := range o.natbcs {
		nbc.Commit()
	}
}

// Reset returns the solution state and all natural bcs to the reference
// configuration
func (o *Domain) Reset() {
	o.Sol.Reset()
	for _, nbc := range o.natbcs {
		nbc.Reset()
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// yb returns the j-th component of the augmented solution vector
func (o *Domain) yb(j int) float64 {
	if j < o.Ny {
		return o.Sol.Y[j]
	}
	return o.Sol.L[j-o.Ny]
}

// setyb sets the j-th component of the augmented solution vector
func (o *Domain) setyb(j int, v float64) {
	if j < o.Ny {
		o.Sol.Y[j] = v
		return
	}
	o.Sol.L[j-o.Ny] = v
}

// backup saves a copy of the solution state
func (o *Domain) backup() {
	if o.bkpSol == nil {
		o.bkpSol = new(ele.Solution)
		o.bkpSol.Allocate(o.Ny, o.Nlam)
	}
	o.bkpSol.T = o.Sol.T
	copy(o.bkpSol.Y, o.Sol.Y)
	copy(o.bkpSol.ΔY, o.Sol.ΔY)
	copy(o.bkpSol.L, o.Sol.L)
}

// restore restores the solution state from the backup copy
func (o *Domain) restore() {
	o.Sol.T = o.bkpSol.T
	copy(o.Sol.Y, o.bkpSol.Y)
	copy(o.Sol.ΔY, o.bkpSol.ΔY)
	copy(o.Sol.L, o.bkpSol.L)
}
