// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assim

import (
	"github.com/cpmech/gosl/chk"
	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Optimizer minimizes the sum of squared residuals over the scalar control.
// resid fills dst with the residual vector at the trial control x
type Optimizer interface {
	Run(x0 float64, size int, resid func(dst []float64, x float64)) (xopt float64, err error)
}

// optAllocators holds all available optimizer backends
var optAllocators = make(map[string]func(maxit int, tol float64) Optimizer)

// LmOpt wraps the Levenberg-Marquardt least-squares solver. The Jacobian
// of the residuals is approximated by finite differences
type LmOpt struct {
	MaxIt int     // maximum number of iterations
	Tol   float64 // objective tolerance
}

// add to optimizer factory
func init() {
	optAllocators["lm"] = func(maxit int, tol float64) Optimizer {
		return &LmOpt{MaxIt: maxit, Tol: tol}
	}
}

// Run runs the optimization starting from x0
func (o *LmOpt) Run(x0 float64, size int, resid func(dst []float64, x float64)) (xopt float64, err error) {
	fcn := func(dst, x []float64) {
		resid(dst, x[0])
	}
	jac := lm.NumJac{Func: fcn}
	prob := lm.LMProblem{
		Dim:        1,
		Size:       size,
		Func:       fcn,
		Jac:        jac.Jac,
		InitParams: []float64{x0},
		Tau:        1e-6,
		Eps1:       1e-8,
		Eps2:       1e-8,
	}
	res, err := lm.LM(prob, &lm.Settings{Iterations: o.MaxIt, ObjectiveTol: o.Tol})
	if err != nil {
		return x0, chk.Err("levenberg-marquardt optimization failed:\n%v", err)
	}
	return res.X[0], nil
}

// NmOpt wraps the derivative-free Nelder-Mead simplex method
type NmOpt struct {
	MaxIt int     // maximum number of major iterations
	Tol   float64 // objective tolerance
}

// add to optimizer factory
func init() {
	optAllocators["nelder-mead"] = func(maxit int, tol float64) Optimizer {
		return &NmOpt{MaxIt: maxit, Tol: tol}
	}
}

// Run runs the optimization starting from x0
func (o *NmOpt) Run(x0 float64, size int, resid func(dst []float64, x float64)) (xopt float64, err error) {
	dst := make([]float64, size)
	prob := optimize.Problem{
		Func: func(x []float64) float64 {
			resid(dst, x[0])
			return floats.Dot(dst, dst)
		},
	}
	settings := &optimize.Settings{
		MajorIterations: o.MaxIt,
		Converger: &optimize.FunctionConverge{
			Absolute:   o.Tol,
			Iterations: 20,
		},
	}
	res, err := optimize.Minimize(prob, []float64{x0}, settings, &optimize.NelderMead{})
	if err != nil {
		return x0, chk.Err("nelder-mead optimization failed:\n%v", err)
	}
	return res.X[0], nil
}
