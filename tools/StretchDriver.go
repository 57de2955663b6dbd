// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

package main

import (
	"encoding/json"
	"math"

	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/plt"

	"github.com/finsberg/pulse-adjoint/inp"
	"github.com/finsberg/pulse-adjoint/mdl/solid"
)

// StretchDriver drives a myocardium material model through a constrained
// uniaxial stretch along the fiber direction and tabulates the response

type Input struct {
	Dir     string  // directory with the .mat file
	MatFn   string  // material filename
	MatName string  // material name
	Lam0    float64 // first fiber stretch
	Lam1    float64 // last fiber stretch
	Npts    int     // number of points along the path
	Ta      float64 // active stress level
	DoPlot  bool    // save stress-stretch figure
	FigProp float64 // fig: proportion of figure
	FigWid  float64 // fig: width of figure

	// derived
	inpfn string
}

func (o *Input) PostProcess() {
	if o.MatFn == "" {
		o.MatFn = "materials.mat"
	}
	if o.MatName == "" {
		o.MatName = "myocardium"
	}
	if o.Lam0 < 1e-14 {
		o.Lam0 = 1.0
	}
	if o.Lam1 < 1e-14 {
		o.Lam1 = 1.3
	}
	if o.Npts < 2 {
		o.Npts = 31
	}
	if o.FigProp < 0.1 {
		o.FigProp = 1.0
	}
	if o.FigWid < 10 {
		o.FigWid = 400
	}
}

func (o Input) String() (l string) {
	l = io.ArgsTable("INPUT ARGUMENTS",
		"input filename", "inpfn", o.inpfn,
		"directory with the .mat file", "Dir", o.Dir,
		"material filename", "MatFn", o.MatFn,
		"material name", "MatName", o.MatName,
		"first fiber stretch", "Lam0", o.Lam0,
		"last fiber stretch", "Lam1", o.Lam1,
		"number of points", "Npts", o.Npts,
		"active stress level", "Ta", o.Ta,
		"save stress-stretch figure", "DoPlot", o.DoPlot,
		"fig: proportion of figure", "FigProp", o.FigProp,
		"fig: width  of figure", "FigWid", o.FigWid,
	)
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// input data file
	var in Input
	in.inpfn, _ = io.ArgToFilename(0, "data/stretchdrv1", ".inp", true)

	// read and parse input data
	b, err := io.ReadFile(in.inpfn)
	if err != nil {
		io.PfRed("cannot read %s\n", in.inpfn)
		return
	}
	err = json.Unmarshal(b, &in)
	if err != nil {
		io.PfRed("cannot parse %s\n", in.inpfn)
		return
	}
	in.PostProcess()

	// print input table
	io.Verbose = true
	io.Pf("%v\n", in)

	// material database
	mdb, err := inp.ReadMat(in.Dir, in.MatFn, 3)
	if err != nil {
		io.PfRed("cannot read material file:\n%v\n", err)
		return
	}
	defer mdb.Clean()
	mat := mdb.Get(in.MatName)
	if mat == nil {
		io.PfRed("cannot find material %q\n", in.MatName)
		return
	}
	mdl := mat.Solid

	// kinematics of a constrained uniaxial stretch: λ along the fiber with
	// isochoric lateral contraction
	var k solid.Kin
	k.Init()
	k.Ta = in.Ta
	σ := la.MatAlloc(3, 3)
	Λ := make([]float64, in.Npts)
	Σ := make([]float64, in.Npts)

	// run
	io.Pf("\n%10s%15s%15s%15s\n", "lambda", "sig_ff", "sig_ss", "energy")
	dλ := (in.Lam1 - in.Lam0) / float64(in.Npts-1)
	for i := 0; i < in.Npts; i++ {
		λ := in.Lam0 + float64(i)*dλ
		k.F[0][0] = λ
		k.F[1][1] = 1.0 / math.Sqrt(λ)
		k.F[2][2] = k.F[1][1]
		err = k.CalcFromF()
		if err != nil {
			io.PfRed("kinematics failed at lambda = %g:\n%v\n", λ, err)
			return
		}
		err = solid.CauchyStress(σ, mdl, &k)
		if err != nil {
			io.PfRed("stress computation failed at lambda = %g:\n%v\n", λ, err)
			return
		}
		io.Pf("%10.4f%15.6e%15.6e%15.6e\n", λ, σ[0][0], σ[1][1], mdl.Energy(&k))
		Λ[i] = λ
		Σ[i] = σ[0][0]
	}

	// plot
	if in.DoPlot {
		plt.SetForEps(in.FigProp, in.FigWid)
		plt.Plot(Λ, Σ, "'b-', marker='.', clip_on=0")
		plt.Gll("$\\lambda$", "$\\sigma_{ff}$", "")
		plt.SaveD("/tmp/pulse-adjoint", "stretch_"+in.MatName+".eps")
	}
}
