// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tests implements helpers to check complete assimilation runs
package tests

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/finsberg/pulse-adjoint/assim"
	"github.com/finsberg/pulse-adjoint/fem"
	"github.com/finsberg/pulse-adjoint/inp"
)

// Recovery runs one complete assimilation given a simulation file and
// returns the result
func Recovery(tst *testing.T, simfilepath string) (res *assim.Result) {
	sim := inp.ReadSim(simfilepath, "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file %q\n", simfilepath)
		return
	}
	defer sim.Clean()
	prob, control, err := fem.BuildProblem(sim)
	if err != nil {
		tst.Errorf("cannot build problem:\n%v", err)
		return
	}
	a, err := assim.NewFromSim(sim, prob, control)
	if err != nil {
		tst.Errorf("cannot build assimilator:\n%v", err)
		return
	}
	res, err = a.Assimilate()
	if err != nil {
		tst.Errorf("assimilation failed:\n%v", err)
		return nil
	}
	return
}

// CompareRecovery runs one complete assimilation and compares the recovered
// control and the re-solved cavity volumes against reference values
func CompareRecovery(tst *testing.T, simfilepath string, tolC, tolV, controlRef float64, volumesRef []float64) (res *assim.Result) {
	res = Recovery(tst, simfilepath)
	if res == nil {
		return
	}
	chk.Scalar(tst, "control", tolC, res.Control, controlRef)
	chk.Vector(tst, "volumes", tolV, res.Volumes, volumesRef)
	return
}
