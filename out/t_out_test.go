// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/finsberg/pulse-adjoint/assim"
	"github.com/finsberg/pulse-adjoint/fem"
	"github.com/finsberg/pulse-adjoint/inp"
)

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. history and report of one assimilation run")

	// the measured volume equals the model volume at the initial guess, so
	// the optimization converges right away
	sim := inp.ReadSim("data/out.sim", "", true, false)
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
	a, err := assim.NewFromSim(sim, prob, control)
	if err != nil {
		tst.Errorf("cannot build assimilator:\n%v", err)
		return
	}
	res, err := a.Assimilate()
	if err != nil {
		tst.Errorf("assimilation failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "control", 1e-6, res.Control, 2.28)

	// history rows
	h := NewHistory(res)
	chk.IntAssert(len(h.Step), 1)
	chk.IntAssert(h.Step[0], 1)
	chk.Scalar(tst, "load", 1e-15, h.Load[0], 1.0)
	chk.Scalar(tst, "pressure", 1e-15, h.Pressure[0], 0.1)
	chk.Scalar(tst, "volume", 1e-7, h.Volume[0], 2.5749167469052847)
	chk.Scalar(tst, "control column", 1e-15, h.Control[0], res.Control)

	// table has a header and one row per step
	table := h.Table()
	chk.IntAssert(strings.Count(table, "\n"), 2)
	if !strings.Contains(table, "pressure") {
		tst.Errorf("table is missing the header\n")
		return
	}
	h.Print()
	Report(res)
	if chk.Verbose {
		PlotPV(h, "/tmp/pulse-adjoint", "out01")
	}
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. load fractions and edge cases")

	res := &assim.Result{
		Control:   1.5,
		Pressures: []float64{0.5, 1.0},
		Volumes:   []float64{2.9755316080164094, 3.2701815248297588},
	}
	h := NewHistory(res)
	chk.IntAssert(len(h.Step), 2)
	chk.Scalar(tst, "load 1", 1e-15, h.Load[0], 0.5)
	chk.Scalar(tst, "load 2", 1e-15, h.Load[1], 1.0)
	chk.IntAssert(strings.Count(h.Table(), "\n"), 3)

	// a report without targets still prints the model lines
	Report(res)

	// zero pressures give zero load fractions
	res = &assim.Result{Control: 1.5, Pressures: []float64{0, 0}, Volumes: []float64{2.49, 2.49}}
	h = NewHistory(res)
	chk.Scalar(tst, "zero load", 1e-15, h.Load[0], 0)
	chk.Scalar(tst, "zero load", 1e-15, h.Load[1], 0)

	// an empty result has no rows
	h = NewHistory(new(assim.Result))
	chk.IntAssert(len(h.Step), 0)
	Report(new(assim.Result))
}
