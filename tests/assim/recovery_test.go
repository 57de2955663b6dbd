// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/finsberg/pulse-adjoint/tests"
)

func Test_recovery01(tst *testing.T) {

	//tests.Verbose()
	chk.PrintTitle("recovery01. demonstration ventricle: volume 2.8 at pressure 0.1")

	res := tests.CompareRecovery(tst, "data/simple.sim", 1e-4, 1e-6, 1.912086217281884, []float64{2.8})
	if res == nil {
		return
	}
	if res.Misfit > 1e-12 {
		tst.Errorf("final misfit is too large: %g\n", res.Misfit)
		return
	}
}

func Test_recovery02(tst *testing.T) {

	//tests.Verbose()
	chk.PrintTitle("recovery02. two measured volumes on the coarse mesh")

	res := tests.CompareRecovery(tst, "data/twostep.sim", 1e-3, 1e-5,
		1.5, []float64{2.9755316080164094, 3.2701815248297588})
	if res == nil {
		return
	}
	if res.Misfit >= res.Misfit0 {
		tst.Errorf("misfit did not decrease: %g >= %g\n", res.Misfit, res.Misfit0)
		return
	}
}
