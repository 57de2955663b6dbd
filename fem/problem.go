// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/finsberg/pulse-adjoint/ele"
	"github.com/finsberg/pulse-adjoint/inp"
)

// Problem couples the domain, the solver and the cavity pressure bc. It is
// the forward model of the assimilation loop: set a pressure, solve for the
// deformation, observe cavity volume and strain
type Problem struct {
	Sim    *inp.Simulation // simulation data
	Dom    *Domain         // the domain
	Stg    *inp.Stage      // the stage being solved
	Solver Solver          // nonlinear solver
	Lvp    *ele.NaturalBc  // cavity pressure bc
	P      float64         // last solved cavity pressure
}

// NewProblem allocates the domain, sets the first stage and the solver,
// and locates the cavity pressure bc
func NewProblem(sim *inp.Simulation) (o *Problem, err error) {

	// domain and stage
	o = new(Problem)
	o.Sim = sim
	o.Dom, err = NewDomain(sim)
	if err != nil {
		return nil, err
	}
	if len(sim.Stages) < 1 {
		return nil, chk.Err("simulation must define at least one stage")
	}
	o.Stg = sim.Stages[0]
	err = o.Dom.SetStage(o.Stg)
	if err != nil {
		return nil, err
	}

	// solver
	alloc, ok := solverallocators[sim.Solver.Type]
	if !ok {
		return nil, chk.Err("cannot find solver type named %q", sim.Solver.Type)
	}
	o.Solver = alloc()

	// cavity pressure bc
	for _, fbc := range o.Stg.FaceBcs {
		for _, key := range fbc.Keys {
			if key == "qn" {
				for _, e := range o.Dom.Elems {
					if h := e.NatBc("qn", fbc.Tag); h != nil {
						o.Lvp = h
					}
				}
			}
		}
	}
	return
}

// Solve drives the cavity pressure from the last committed value to p.
// On success the load scales are committed so that the next call continues
// from the state just computed
func (o *Problem) Solve(p float64) (err error) {
	if o.Lvp == nil {
		return chk.Err("simulation has no cavity pressure (qn) boundary condition")
	}
	o.Lvp.SetScale(p)
	err = o.Solver.Run(o.Dom, o.Stg)
	if err != nil {
		return
	}
	o.Dom.Commit()
	o.P = p
	return
}

// SolveSteps solves a sequence of cavity pressures, committing after each
func (o *Problem) SolveSteps(pressures []float64) (err error) {
	for _, p := range pressures {
		err = o.Solve(p)
		if err != nil {
			return
		}
	}
	return
}

// State returns the current solution state
func (o *Problem) State() *ele.Solution {
	return o.Dom.Sol
}

// CavityVolume returns the volume enclosed by the tagged surface in the
// current configuration
func (o *Problem) CavityVolume(surf string) (V float64, err error) {
	found := false
	for _, e := range o.Dom.Elems {
		if c, ok := e.(ele.Chamber); ok {
			v, err := c.EnclosedVolume(surf, o.Dom.Sol)
			if err != nil {
				return 0, err
			}
			V += v
			found = true
		}
	}
	if !found {
		err = chk.Err("domain has no chamber elements to compute enclosed volumes")
	}
	return
}

// MeanFiberStrain returns the fiber strain averaged over all chamber elements
func (o *Problem) MeanFiberStrain() (εf float64, err error) {
	n := 0
	for _, e := range o.Dom.Elems {
		if c, ok := e.(ele.Chamber); ok {
			v, err := c.MeanFiberStrain(o.Dom.Sol)
			if err != nil {
				return 0, err
			}
			εf += v
			n++
		}
	}
	if n == 0 {
		err = chk.Err("domain has no chamber elements to compute fiber strains")
		return
	}
	εf /= float64(n)
	return
}

// Reset returns the problem to the reference configuration; e.g. before
// re-running the forward model with new material parameters
func (o *Problem) Reset() {
	o.Dom.Reset()
	o.P = 0
}

// BuildProblem builds the forward problem of an assimilation run and
// returns the control parameter to be adjusted
func BuildProblem(sim *inp.Simulation) (prob *Problem, control *fun.Prm, err error) {
	prob, err = NewProblem(sim)
	if err != nil {
		return
	}
	if sim.Assim == nil {
		err = chk.Err("simulation has no assimilation data")
		return
	}
	control, err = sim.Control(sim.Assim.Control)
	return
}
