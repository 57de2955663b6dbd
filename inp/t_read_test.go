// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_mat01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mat01")

	mdb1, err := ReadMat("data", "materials.mat", 3)
	if err != nil {
		tst.Errorf("cannot read materials.mat:\n%v", err)
		return
	}
	io.Pforan("materials.mat just read:\n%v\n", mdb1)

	mat := mdb1.Get("myocardium")
	if mat == nil {
		tst.Errorf("cannot get material \"myocardium\"\n")
		return
	}
	if mat.Model != "hlz-ogden" {
		tst.Errorf("wrong model name: %q\n", mat.Model)
		return
	}
	if mat.Solid == nil {
		tst.Errorf("solid model was not allocated\n")
		return
	}
	a := mat.Prms.Find("a")
	if a == nil {
		tst.Errorf("cannot find parameter \"a\"\n")
		return
	}
	chk.Scalar(tst, "a", 1e-15, a.V, 2.28)
	chk.IntAssert(a.Adj, 1)

	if mdb1.Get("inexistent") != nil {
		tst.Errorf("Get should have returned nil for inexistent material\n")
		return
	}

	// write and read back
	fn := "test_materials.mat"
	io.WriteFileSD("/tmp/pulse-adjoint/inp", fn, mdb1.String())
	mdb2, err := ReadMat("/tmp/pulse-adjoint/inp", fn, 3)
	if err != nil {
		tst.Errorf("cannot read test_materials.mat:\n%v", err)
		return
	}
	io.Pfblue2("\n%v\n", mdb2)
	chk.IntAssert(len(mdb2.Materials), len(mdb1.Materials))
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01")

	sim := ReadSim("data/simple.sim", "", true, false)
	if sim == nil {
		tst.Errorf("test failed:\n")
		return
	}
	defer sim.Clean()
	if chk.Verbose {
		sim.GetInfo(os.Stdout)
		io.Pf("\n")
	}

	io.Pfyel("Ndim = %v\n", sim.Ndim)
	chk.IntAssert(sim.Ndim, 3)
	chk.IntAssert(len(sim.Regions), 1)
	chk.IntAssert(len(sim.Stages), 1)

	// mesh was generated
	msh := sim.Regions[0].Msh
	if msh == nil {
		tst.Errorf("mesh was not generated\n")
		return
	}
	chk.IntAssert(len(msh.Verts), 1203)

	// element data
	edat := sim.Regions[0].Etag2data(-1)
	if edat == nil {
		tst.Errorf("cannot find element data for tag -1\n")
		return
	}
	if edat.Type != "lv-wall" {
		tst.Errorf("wrong element type: %q\n", edat.Type)
		return
	}

	// solver defaults
	chk.IntAssert(sim.Solver.NmaxIt, 20)
	chk.Scalar(tst, "atol", 1e-17, sim.Solver.Atol, 1e-6)

	// stage
	stg := sim.Stages[0]
	chk.Scalar(tst, "tf", 1e-17, stg.Control.Tf, 1)
	chk.Scalar(tst, "dt", 1e-17, stg.Control.Dt, 0.25)
	fbc := stg.GetFaceBc(30)
	if fbc == nil {
		tst.Errorf("cannot find face bc for tag 30\n")
		return
	}
	chk.IntAssert(len(fbc.Keys), 1)
	chk.IntAssert(len(fbc.Funcs), 1)
	if stg.GetFaceBc(99) != nil {
		tst.Errorf("GetFaceBc should have returned nil for tag 99\n")
		return
	}

	// adjustable control parameter
	prm, err := sim.Control(sim.Assim.Control)
	if err != nil {
		tst.Errorf("cannot get control parameter:\n%v", err)
		return
	}
	chk.Scalar(tst, "control a", 1e-15, prm.V, 2.28)
	sim.PrmAdjust(1, 3.5)
	chk.Scalar(tst, "control a after adjust", 1e-15, sim.PrmGetAdj(1), 3.5)
	chk.Scalar(tst, "prm.V after adjust", 1e-15, prm.V, 3.5)

	// assimilation settings
	if sim.Assim == nil {
		tst.Errorf("assimilation settings were not read\n")
		return
	}
	if sim.Assim.Optimizer != "lm" {
		tst.Errorf("wrong optimizer: %q\n", sim.Assim.Optimizer)
		return
	}
	chk.IntAssert(sim.Assim.MaxIt, 100)
	chk.Vector(tst, "pressures", 1e-17, sim.Assim.Pressures, []float64{0.1})
	chk.IntAssert(len(sim.Assim.Targets), 1)
	tgt := sim.Assim.Targets[0]
	chk.Vector(tst, "target data", 1e-17, tgt.Data, []float64{2.8})
	chk.Scalar(tst, "target weight", 1e-17, tgt.Weight, 1)
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. data series with collection")

	sim := ReadSim("data/series.sim", "", true, false)
	if sim == nil {
		tst.Errorf("test failed:\n")
		return
	}
	defer sim.Clean()

	// coarser region mesh
	msh := sim.Regions[0].Msh
	chk.IntAssert(msh.Geo.Nu, 24)
	chk.IntAssert(msh.Geo.Nv, 6)

	// measured series
	chk.Vector(tst, "pressures", 1e-17, sim.Assim.Pressures, []float64{0.5, 1.0})
	tgt := sim.Assim.Targets[0]
	chk.Vector(tst, "target data", 1e-17, tgt.Data, []float64{3.0, 3.2})
	if !tgt.Collect {
		tst.Errorf("collect flag was not read\n")
		return
	}
}

func Test_series01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("series01. scalar or sequence decoding")

	var scalar DataSeries
	err := json.Unmarshal([]byte("2.8"), &scalar)
	if err != nil {
		tst.Errorf("cannot decode scalar:\n%v", err)
		return
	}
	chk.Vector(tst, "scalar", 1e-17, scalar, []float64{2.8})

	var seq DataSeries
	err = json.Unmarshal([]byte("[2.7, 2.9]"), &seq)
	if err != nil {
		tst.Errorf("cannot decode sequence:\n%v", err)
		return
	}
	chk.Vector(tst, "sequence", 1e-17, seq, []float64{2.7, 2.9})

	var bad DataSeries
	err = json.Unmarshal([]byte(`"nope"`), &bad)
	if err == nil {
		tst.Errorf("decoding should have failed for a string\n")
		return
	}
}
