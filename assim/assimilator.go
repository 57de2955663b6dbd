// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package assim implements the data-assimilation driver: it wraps the
// forward mechanics problem with observation models and measured data and
// invokes an optimizer to recover the material control value that best
// matches the observations.
package assim

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"gonum.org/v1/gonum/floats"

	"github.com/finsberg/pulse-adjoint/fem"
	"github.com/finsberg/pulse-adjoint/inp"
)

// Assimilator owns the optimization loop: repeated forward solves of the
// problem with trial control values against the measured targets. Create
// once, call Assimilate once, discard
type Assimilator struct {

	// input
	Prob    *fem.Problem   // the forward model
	Targets []*Target      // optimization targets
	Bobs    *BoundaryObs   // measured boundary pressures
	Control *fun.Prm       // the adjustable material parameter
	Reg     Regularization // optional Tikhonov regularization
	Opt     Optimizer      // optimizer backend

	// derived
	size   int       // number of residuals
	neval  int       // forward model evaluations
	vols   []float64 // cavity volume per solve step of the last forward pass
	failed error     // first forward failure during the optimization
}

// Result holds the outcome of one assimilation run
type Result struct {
	Control   float64   // optimal control value
	Misfit0   float64   // misfit at the initial guess
	Misfit    float64   // misfit at the optimum
	Neval     int       // number of forward model evaluations
	Pressures []float64 // pressures of the solve steps
	Volumes   []float64 // cavity volumes at the optimum, one per solve step
	Targets   []*Target // the matched targets with their collected series
}

// NewAssimilator returns a new assimilator after checking the pairing of
// targets, measured pressures and the control. The default backend is the
// Levenberg-Marquardt optimizer
func NewAssimilator(prob *fem.Problem, targets []*Target, bobs *BoundaryObs, control *fun.Prm) (o *Assimilator, err error) {
	if len(targets) == 0 {
		return nil, chk.Err("at least one optimization target is required")
	}
	if bobs == nil || len(bobs.Pressures) == 0 {
		return nil, chk.Err("a boundary observation with measured pressures is required")
	}
	if bobs.Bc == nil || bobs.Bc != prob.Lvp {
		return nil, chk.Err("the boundary observation must pair the cavity pressure bc of the problem")
	}
	if control == nil {
		return nil, chk.Err("a control parameter is required")
	}
	nsteps := len(bobs.Pressures)
	for _, t := range targets {
		if len(t.Data) != nsteps {
			return nil, chk.Err("target %q needs %d measured values to pair with the solve steps; got %d", t.Obs.Key(), nsteps, len(t.Data))
		}
	}
	o = &Assimilator{
		Prob:    prob,
		Targets: targets,
		Bobs:    bobs,
		Control: control,
		Opt:     &LmOpt{MaxIt: 100, Tol: 1e-8},
	}
	return
}

// NewFromSim builds the assimilator from the assimilation block of the
// simulation file: observations from the target kinds, measured pressures,
// regularization and the optimizer backend
func NewFromSim(sim *inp.Simulation, prob *fem.Problem, control *fun.Prm) (o *Assimilator, err error) {
	ad := sim.Assim
	if ad == nil {
		return nil, chk.Err("simulation has no assimilation data")
	}
	var targets []*Target
	for _, td := range ad.Targets {
		var obs Observation
		switch td.Kind {
		case "volume":
			surf := td.Surf
			if surf == "" {
				surf = "ENDO"
			}
			obs = VolumeObservation(prob, surf, td.Desc)
		case "strain":
			obs = StrainObservation(prob, td.Desc)
		default:
			return nil, chk.Err("observation kind %q is unknown", td.Kind)
		}
		t := NewTarget(obs, td.Weight, td.Data...)
		t.Collect = td.Collect
		targets = append(targets, t)
	}
	o, err = NewAssimilator(prob, targets, BoundaryObservation(prob.Lvp, ad.Pressures...), control)
	if err != nil {
		return
	}
	o.Reg = Regularization{Weight: ad.RegWeight, Ref: ad.RegRef}
	alloc, ok := optAllocators[ad.Optimizer]
	if !ok {
		return nil, chk.Err("cannot find optimizer named %q", ad.Optimizer)
	}
	o.Opt = alloc(ad.MaxIt, ad.Tol)
	return
}

// Assimilate runs one optimization to convergence and reads the optimum
// back: the control parameter is set to the optimal value and the model
// re-solved so that the reported state matches the estimate
func (o *Assimilator) Assimilate() (res *Result, err error) {

	// residual size and collected series
	nsteps := len(o.Bobs.Pressures)
	o.size = nsteps * len(o.Targets)
	if o.Reg.Weight > 0 {
		o.size++
	}
	o.vols = make([]float64, nsteps)
	for _, t := range o.Targets {
		if t.Collect {
			t.Sim = make([]float64, nsteps)
		}
	}

	// misfit at the initial guess
	res = new(Result)
	x0 := o.Control.V
	dst := make([]float64, o.size)
	o.forward(dst, x0)
	if o.failed != nil {
		return nil, chk.Err("forward model failed at the initial guess:\n%v", o.failed)
	}
	res.Misfit0 = floats.Dot(dst, dst)

	// optimize
	xopt, err := o.Opt.Run(x0, o.size, o.forward)
	if err != nil {
		return nil, err
	}
	xopt = o.clamp(xopt)

	// read the optimum back and re-solve for reporting
	o.failed = nil
	o.forward(dst, xopt)
	if o.failed != nil {
		return nil, chk.Err("forward model failed at the optimum:\n%v", o.failed)
	}
	res.Control = xopt
	res.Misfit = floats.Dot(dst, dst)
	res.Neval = o.neval
	res.Pressures = make([]float64, nsteps)
	res.Volumes = make([]float64, nsteps)
	copy(res.Pressures, o.Bobs.Pressures)
	copy(res.Volumes, o.vols)
	res.Targets = o.Targets
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// forward runs the forward model at the trial control x and fills dst with
// the weighted residuals, one per target per solve step
func (o *Assimilator) forward(dst []float64, x float64) {
	o.Control.Set(o.clamp(x))
	o.Prob.Reset()
	o.neval++
	k := 0
	for i, p := range o.Bobs.Pressures {
		err := o.Prob.Solve(p)
		if err != nil {
			o.fail(dst, err)
			return
		}
		if v, verr := o.Prob.CavityVolume("ENDO"); verr == nil {
			o.vols[i] = v
		}
		for _, t := range o.Targets {
			v, err := t.Obs.Eval(o.Prob.State())
			if err != nil {
				o.fail(dst, err)
				return
			}
			if t.Collect {
				t.Sim[i] = v
			}
			dst[k] = t.Weight * (v - t.Data[i])
			k++
		}
	}
	if o.Reg.Weight > 0 {
		dst[k] = math.Sqrt(o.Reg.Weight) * (x - o.Reg.Ref)
	}
}

// fail records the first forward failure and fills dst with a penalty so
// that the optimizer retreats from the trial value
func (o *Assimilator) fail(dst []float64, err error) {
	if o.failed == nil {
		o.failed = err
	}
	for i := range dst {
		dst[i] = 1e8
	}
}

// clamp keeps the trial value within the bounds of the control parameter
func (o *Assimilator) clamp(x float64) float64 {
	if o.Control.Min < o.Control.Max {
		if x < o.Control.Min {
			return o.Control.Min
		}
		if x > o.Control.Max {
			return o.Control.Max
		}
	}
	return x
}
