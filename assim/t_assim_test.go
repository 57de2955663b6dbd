// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assim

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/finsberg/pulse-adjoint/fem"
	"github.com/finsberg/pulse-adjoint/inp"
)

func Test_assim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assim01. observations, targets and pairing checks")

	// problem
	sim := inp.ReadSim("data/assim.sim", "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file\n")
		return
	}
	defer sim.Clean()
	prob, control, err := fem.BuildProblem(sim)
	if err != nil {
		tst.Errorf("cannot build problem:\n%v", err)
		return
	}

	// the volume observation at the zero displacement state reports the
	// undeformed cavity volume
	vobs := VolumeObservation(prob, "ENDO", "LV cavity volume")
	V, err := vobs.Eval(prob.State())
	if err != nil {
		tst.Errorf("cannot evaluate volume observation:\n%v", err)
		return
	}
	chk.Scalar(tst, "V undeformed", 1e-12, V, 2.4933478741346295)
	sobs := StrainObservation(prob, "mean fiber strain")
	εf, err := sobs.Eval(prob.State())
	if err != nil {
		tst.Errorf("cannot evaluate strain observation:\n%v", err)
		return
	}
	chk.Scalar(tst, "εf undeformed", 1e-14, εf, 0)

	// targets accept a scalar or a sequence
	t1 := NewTarget(vobs, 0, 2.8)
	chk.IntAssert(len(t1.Data), 1)
	chk.Scalar(tst, "default weight", 1e-15, t1.Weight, 1)
	t2 := NewTarget(vobs, 2, 2.7, 2.9)
	chk.IntAssert(len(t2.Data), 2)

	// pairing checks
	bobs := BoundaryObservation(prob.Lvp, 0.5, 1.0)
	if _, err := NewAssimilator(prob, nil, bobs, control); err == nil {
		tst.Errorf("empty target list must not be accepted\n")
		return
	}
	if _, err := NewAssimilator(prob, []*Target{t1}, bobs, control); err == nil {
		tst.Errorf("a single measurement cannot pair with two solve steps\n")
		return
	}
	if _, err := NewAssimilator(prob, []*Target{t2}, BoundaryObservation(nil, 0.5, 1.0), control); err == nil {
		tst.Errorf("a boundary observation without the pressure bc must not be accepted\n")
		return
	}
	if _, err := NewAssimilator(prob, []*Target{t2}, bobs, nil); err == nil {
		tst.Errorf("a missing control must not be accepted\n")
		return
	}
	a, err := NewAssimilator(prob, []*Target{t2}, bobs, control)
	if err != nil {
		tst.Errorf("cannot allocate assimilator:\n%v", err)
		return
	}
	if a.Opt == nil {
		tst.Errorf("default optimizer backend is not set\n")
		return
	}
}

func Test_assim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assim02. stiffness recovery from measured volumes")

	// the measured volumes were produced with a=1.5; the run starts at 2.28
	sim := inp.ReadSim("data/assim.sim", "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file\n")
		return
	}
	defer sim.Clean()
	prob, control, err := fem.BuildProblem(sim)
	if err != nil {
		tst.Errorf("cannot build problem:\n%v", err)
		return
	}
	chk.Scalar(tst, "initial guess", 1e-15, control.V, 2.28)
	a, err := NewFromSim(sim, prob, control)
	if err != nil {
		tst.Errorf("cannot build assimilator:\n%v", err)
		return
	}
	res, err := a.Assimilate()
	if err != nil {
		tst.Errorf("assimilation failed:\n%v", err)
		return
	}

	// recovered control and re-solved volumes
	if math.Abs(res.Control-1.5) > 1e-3 {
		tst.Errorf("recovered stiffness is incorrect: %g\n", res.Control)
		return
	}
	chk.Scalar(tst, "control written back", 1e-15, control.V, res.Control)
	if res.Misfit >= res.Misfit0 {
		tst.Errorf("misfit did not decrease: %g >= %g\n", res.Misfit, res.Misfit0)
		return
	}
	chk.IntAssert(len(res.Volumes), 2)
	chk.Scalar(tst, "V @ p=0.5", 1e-6, res.Volumes[0], 2.9755316080164094)
	chk.Scalar(tst, "V @ p=1.0", 1e-6, res.Volumes[1], 3.2701815248297588)

	// the collect flag stores one simulated value per solve step
	t0 := a.Targets[0]
	chk.IntAssert(len(t0.Sim), 2)
	chk.Scalar(tst, "sim volume @ p=0.5", 1e-6, t0.Sim[0], 2.9755316080164094)
	chk.Scalar(tst, "sim volume @ p=1.0", 1e-6, t0.Sim[1], 3.2701815248297588)
	if res.Neval < 3 {
		tst.Errorf("too few forward evaluations: %d\n", res.Neval)
		return
	}
}

func Test_assim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assim03. assimilation is deterministic")

	run := func() float64 {
		sim := inp.ReadSim("data/assim.sim", "", true, false)
		if sim == nil {
			tst.Errorf("cannot read simulation file\n")
			return 0
		}
		defer sim.Clean()
		prob, control, err := fem.BuildProblem(sim)
		if err != nil {
			tst.Errorf("cannot build problem:\n%v", err)
			return 0
		}
		a, err := NewFromSim(sim, prob, control)
		if err != nil {
			tst.Errorf("cannot build assimilator:\n%v", err)
			return 0
		}
		res, err := a.Assimilate()
		if err != nil {
			tst.Errorf("assimilation failed:\n%v", err)
			return 0
		}
		return res.Control
	}
	a1 := run()
	a2 := run()
	if tst.Failed() {
		return
	}
	chk.Scalar(tst, "determinism", 1e-15, a1, a2)
}

func Test_assim04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assim04. nelder-mead backend")

	sim := inp.ReadSim("data/assim.sim", "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file\n")
		return
	}
	defer sim.Clean()
	sim.Assim.Optimizer = "nelder-mead"
	prob, control, err := fem.BuildProblem(sim)
	if err != nil {
		tst.Errorf("cannot build problem:\n%v", err)
		return
	}
	a, err := NewFromSim(sim, prob, control)
	if err != nil {
		tst.Errorf("cannot build assimilator:\n%v", err)
		return
	}
	if _, ok := a.Opt.(*NmOpt); !ok {
		tst.Errorf("optimizer backend should be nelder-mead\n")
		return
	}
	res, err := a.Assimilate()
	if err != nil {
		tst.Errorf("assimilation failed:\n%v", err)
		return
	}
	if math.Abs(res.Control-1.5) > 1e-2 {
		tst.Errorf("recovered stiffness is incorrect: %g\n", res.Control)
		return
	}
	if res.Misfit >= res.Misfit0 {
		tst.Errorf("misfit did not decrease: %g >= %g\n", res.Misfit, res.Misfit0)
		return
	}
}

func Test_assim05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("assim05. inexact series and regularization")

	// no single stiffness matches both points exactly; the optimization
	// must still reduce the misfit
	sim := inp.ReadSim("data/assim.sim", "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file\n")
		return
	}
	defer sim.Clean()
	sim.Assim.Targets[0].Data = inp.DataSeries{2.7, 2.9}
	sim.Assim.RegWeight = 1e-6
	sim.Assim.RegRef = 2.28
	prob, control, err := fem.BuildProblem(sim)
	if err != nil {
		tst.Errorf("cannot build problem:\n%v", err)
		return
	}
	a, err := NewFromSim(sim, prob, control)
	if err != nil {
		tst.Errorf("cannot build assimilator:\n%v", err)
		return
	}
	chk.Scalar(tst, "reg weight", 1e-15, a.Reg.Weight, 1e-6)
	res, err := a.Assimilate()
	if err != nil {
		tst.Errorf("assimilation failed:\n%v", err)
		return
	}
	if res.Misfit >= res.Misfit0 {
		tst.Errorf("misfit did not decrease: %g >= %g\n", res.Misfit, res.Misfit0)
		return
	}
	chk.IntAssert(len(a.Targets[0].Sim), 2)
	if res.Control <= 2.28 {
		tst.Errorf("stiffness should increase to shrink the simulated volumes: %g\n", res.Control)
		return
	}
	if res.Control > control.Max {
		tst.Errorf("control must respect the upper bound: %g > %g\n", res.Control, control.Max)
		return
	}
}
