// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"

	"github.com/finsberg/pulse-adjoint/inp"
)

// Solver implements the load stepping loop of one quasi-static stage.
// The load factor τ goes from 0 to Tf while the natural bcs ramp from
// their committed scales to the new ones
type Solver interface {
	Run(d *Domain, stg *inp.Stage) (err error)
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func() Solver)

// SolverSub implements a Newton solver with load substepping and
// divergence control: whenever the iterations start to diverge, the
// solution is restored and the load step is halved
type SolverSub struct {
}

// add to solver factory
func init() {
	solverallocators["sub"] = func() Solver {
		return new(SolverSub)
	}
}

// Run runs the load stepping loop
func (o *SolverSub) Run(d *Domain, stg *inp.Stage) (err error) {

	// control
	sd := &d.Sim.Solver
	t := 0.0
	tf := stg.Control.Tf
	md := 1.0    // load step multiplier if divergence control is on
	ndiverg := 0 // number of steps diverging

	// load stepping
	for t < tf {

		// check for continued divergence
		if ndiverg >= sd.NdvgMax {
			return chk.Err("continuous divergence after %d steps reached", ndiverg)
		}

		// load increment
		Δt := stg.Control.DtFunc.F(t, nil) * md
		if t+Δt > tf {
			Δt = tf - t
		}
		if Δt < sd.DtMin {
			if md < 1 {
				return chk.Err("load increment is too small: Δt = %g < %g", Δt, sd.DtMin)
			}
			return
		}

		// update load factor
		t += Δt
		d.Sol.T = t

		// backup solution if divergence control is on
		if sd.DvgCtrl {
			d.backup()
		}

		// run iterations
		diverging, err := runIterations(d, sd)
		if err != nil {
			return err
		}

		// restore solution and reduce load increment if diverging
		if diverging {
			d.restore()
			t -= Δt
			d.Sol.T = t
			md *= 0.5
			ndiverg++
			continue
		}
		ndiverg = 0
		md = 1.0
	}
	return
}

// runIterations solves the nonlinear equilibrium problem at fixed load factor
func runIterations(d *Domain, sd *inp.SolverData) (diverging bool, err error) {

	// zero accumulated increments
	la.VecFill(d.Sol.ΔY, 0)

	// message
	var it int
	var largFb, largFb0, Lδu float64
	var prevFb, prevLδu float64
	if sd.ShowR {
		io.Pf("%13s%4s%23s%23s\n", "t", "it", "largest(fb)", "rms(δy)")
		defer func() {
			io.Pf("%13.6e%4d%23.15e%23.15e\n", d.Sol.T, it, largFb, Lδu)
		}()
	}

	// iterations
	for it = 0; it < sd.NmaxIt; it++ {

		// assemble right-hand side vector with negative of residuals
		err = d.AssembleRhs(d.Fb)
		if err != nil {
			return
		}

		// find largest absolute component of fb
		largFb = la.VecLargest(d.Fb, 1)

		// check largFb value
		if it == 0 {
			largFb0 = largFb
		} else {
			if largFb < sd.FbTol*largFb0 {
				break
			}
			if largFb < sd.FbMin {
				break
			}
		}

		// check for divergence on fb
		if it > 1 && sd.DvgCtrl {
			diverging = largFb > prevFb
			if diverging {
				return
			}
		}
		prevFb = largFb

		// assemble tangent matrix and solve linearised system
		err = d.Jacobian()
		if err != nil {
			return
		}
		err = d.SolveLin()
		if err != nil {
			return
		}

		// update primary variables
		for i := 0; i < d.Ny; i++ {
			d.Sol.Y[i] += d.Wb[i]  // y += δy
			d.Sol.ΔY[i] += d.Wb[i] // ΔY += δy
		}

		// update Lagrange multipliers
		for i := 0; i < d.Nlam; i++ {
			d.Sol.L[i] += d.Wb[d.Ny+i] // λ += δλ
		}

		// check convergence
		Lδu = la.VecRmsErr(d.Wb[:d.Ny], sd.Atol, sd.Rtol, d.Sol.Y)
		if Lδu < sd.Itol {
			break
		}

		// check for divergence on Lδu
		if it > 1 && sd.DvgCtrl {
			diverging = Lδu > prevLδu
			if diverging {
				return
			}
		}
		prevLδu = Lδu
	}

	// check if iterations diverged
	if it == sd.NmaxIt {
		err = chk.Err("max number of iterations reached: it = %d", it)
	}
	return
}

// SolverImp wraps gosl's Newton solver. The full load is applied in fixed
// increments without divergence control; mostly useful for cross-checking
// the substepping solver
type SolverImp struct {
	nls num.NlSolver // nonlinear solver
	dom *Domain      // domain being solved
	x   []float64    // augmented solution vector
}

// add to solver factory
func init() {
	solverallocators["imp"] = func() Solver {
		return new(SolverImp)
	}
}

// Run runs the load stepping loop
func (o *SolverImp) Run(d *Domain, stg *inp.Stage) (err error) {

	// control
	sd := &d.Sim.Solver
	t := 0.0
	tf := stg.Control.Tf

	// allocate solver
	o.dom = d
	o.x = make([]float64, d.Nyb)
	o.nls.Init(d.Nyb, o.ffcn, nil, o.JfcnD, true, false, nil)
	o.nls.ChkConv = false
	defer o.nls.Clean()

	// load stepping
	for t < tf {

		// load increment
		Δt := stg.Control.DtFunc.F(t, nil)
		if t+Δt > tf {
			Δt = tf - t
		}
		if Δt < sd.DtMin {
			return
		}

		// update load factor
		t += Δt
		d.Sol.T = t

		// solve nonlinear system
		for j := 0; j < d.Nyb; j++ {
			o.x[j] = d.yb(j)
		}
		la.VecFill(d.Sol.ΔY, 0)
		for i := 0; i < d.Ny; i++ {
			d.Sol.ΔY[i] -= d.Sol.Y[i]
		}
		err = o.nls.Solve(o.x, !sd.ShowR)
		if err != nil {
			return chk.Err("solver failed at load factor %g:\n%v", t, err)
		}
		for j := 0; j < d.Nyb; j++ {
			d.setyb(j, o.x[j])
		}
		for i := 0; i < d.Ny; i++ {
			d.Sol.ΔY[i] += d.Sol.Y[i]
		}
	}
	return
}

// ffcn computes fx := -fb at x
func (o *SolverImp) ffcn(fx, x []float64) (err error) {
	d := o.dom
	for j := 0; j < d.Nyb; j++ {
		d.setyb(j, x[j])
	}
	err = d.AssembleRhs(d.Fb)
	if err != nil {
		return
	}
	for i := 0; i < d.Nyb; i++ {
		fx[i] = -d.Fb[i]
	}
	return
}

// JfcnD computes the dense Jacobian dfx/dx at x
func (o *SolverImp) JfcnD(dfdx [][]float64, x []float64) (err error) {
	d := o.dom
	for j := 0; j < d.Nyb; j++ {
		d.setyb(j, x[j])
	}
	err = d.Jacobian()
	if err != nil {
		return
	}
	for i := 0; i < d.Nyb; i++ {
		for j := 0; j < d.Nyb; j++ {
			dfdx[i][j] = d.Kb[i][j]
		}
	}
	return
}
