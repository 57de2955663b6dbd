// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/finsberg/pulse-adjoint/assim"
	"github.com/finsberg/pulse-adjoint/fem"
	"github.com/finsberg/pulse-adjoint/inp"
	"github.com/finsberg/pulse-adjoint/out"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "data/simple", ".sim", true)
	verbose := io.ArgToBool(1, true)
	doplot := io.ArgToBool(2, false)

	// message
	io.Verbose = verbose
	if verbose {
		io.PfWhite("\nPulse-Adjoint -- Data Assimilation in Cardiac Mechanics\n")
		io.Pf("Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")

		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
			"save pressure-volume plot", "doplot", doplot,
		))
	}

	// simulation data
	sim := inp.ReadSim(fnamepath, "", true, doplot)
	if sim == nil {
		chk.Panic("cannot read simulation file %q", fnamepath)
	}
	defer sim.Clean()

	// forward model and control parameter
	prob, control, err := fem.BuildProblem(sim)
	if err != nil {
		chk.Panic("cannot build problem:\n%v", err)
	}

	// assimilation
	a, err := assim.NewFromSim(sim, prob, control)
	if err != nil {
		chk.Panic("cannot build assimilator:\n%v", err)
	}
	res, err := a.Assimilate()
	if err != nil {
		chk.Panic("assimilation failed:\n%v", err)
	}

	// report
	io.Pf("\n")
	out.Report(res)
	history := out.NewHistory(res)
	if verbose {
		io.Pf("\n")
		history.Print()
	}
	if doplot {
		out.PlotPV(history, sim.DirOut, sim.Key)
		if verbose {
			io.Pf("\nfigure saved in %s\n", sim.DirOut)
		}
	}
}
