// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/utl"

	"github.com/finsberg/pulse-adjoint/ele"
	"github.com/finsberg/pulse-adjoint/inp"
	"github.com/finsberg/pulse-adjoint/mdl/solid"
)

func Test_wall01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("wall01. allocation and mode gradients")

	// load sim => region => element data
	sim := inp.ReadSim("data/wall.sim", "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file\n")
		return
	}
	defer sim.Clean()
	reg := sim.Regions[0]
	msh := reg.Msh
	edat := reg.Etag2data(-1)
	chk.IntAssert(len(msh.Verts), 99)
	chk.IntAssert(len(msh.Cells), 192)

	// check info
	info, err := ele.GetInfo(reg, edat, sim)
	if err != nil {
		tst.Errorf("cannot get element info:\n%v", err)
		return
	}
	chk.Strings(tst, "dofs", info.Dofs, []string{"q0", "q1", "q2", "q3", "q4", "q5", "pw"})
	if info.Y2F["q0"] != "fq0" || info.Y2F["pw"] != "fpw" {
		tst.Errorf("Y2F map is incorrect: %v\n", info.Y2F)
		return
	}

	// check element
	e, err := ele.New(reg, edat, sim)
	if err != nil {
		tst.Errorf("cannot allocate element:\n%v", err)
		return
	}
	w := e.(*Wall)
	chk.IntAssert(w.Neqs(), 7)
	w.SetEqs(utl.IntRange(7))
	chk.Ints(tst, "Umap", w.Umap, utl.IntRange(7))
	chk.IntAssert(len(w.OutIpCoords()), 96)

	// analytic mode gradients vs finite differences along the parametric directions
	geo := msh.Geo
	modes := NewModes(geo)
	u, v, λ := 0.7, 0.9, 0.35
	h := 1e-6

	// numeric tangent vectors => metric => gradient of the transmural coordinate
	J := la.MatAlloc(3, 3)
	for p := 0; p < 3; p++ {
		du, dv, dλ := 0.0, 0.0, 0.0
		switch p {
		case 0:
			du = h
		case 1:
			dv = h
		case 2:
			dλ = h
		}
		xp := geo.EllipsoidPoint(u+du, v+dv, λ+dλ)
		xm := geo.EllipsoidPoint(u-du, v-dv, λ-dλ)
		for i := 0; i < 3; i++ {
			J[i][p] = (xp[i] - xm[i]) / (2 * h)
		}
	}
	Ji := la.MatAlloc(3, 3)
	err = solid.Inv3(Ji, J, solid.Det3(J))
	if err != nil {
		tst.Errorf("cannot invert metric:\n%v", err)
		return
	}
	gλ := []float64{Ji[2][0], Ji[2][1], Ji[2][2]}

	// dφ/dp along each parametric direction must equal G·(dx/dp)
	x := geo.EllipsoidPoint(u, v, λ)
	G := la.MatAlloc(3, 3)
	φp := make([]float64, 3)
	φm := make([]float64, 3)
	dana := make([]float64, 3)
	dnum := make([]float64, 3)
	for m := 0; m < modes.Num(); m++ {
		modes.Grad(G, m, x, λ, gλ)
		for p := 0; p < 3; p++ {
			du, dv, dλ := 0.0, 0.0, 0.0
			switch p {
			case 0:
				du = h
			case 1:
				dv = h
			case 2:
				dλ = h
			}
			modes.Value(φp, m, geo.EllipsoidPoint(u+du, v+dv, λ+dλ), λ+dλ)
			modes.Value(φm, m, geo.EllipsoidPoint(u-du, v-dv, λ-dλ), λ-dλ)
			for i := 0; i < 3; i++ {
				dnum[i] = (φp[i] - φm[i]) / (2 * h)
				dana[i] = G[i][0]*J[0][p] + G[i][1]*J[1][p] + G[i][2]*J[2][p]
			}
			chk.Vector(tst, io.Sf("mode %d dir %d", m, p), 1e-7, dana, dnum)
		}
	}
}

func Test_wall02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("wall02. residual vector")

	// load sim and allocate element
	sim := inp.ReadSim("data/wall.sim", "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file\n")
		return
	}
	defer sim.Clean()
	reg := sim.Regions[0]
	e, err := ele.New(reg, reg.Etag2data(-1), sim)
	if err != nil {
		tst.Errorf("cannot allocate element:\n%v", err)
		return
	}
	w := e.(*Wall)
	w.SetEqs(utl.IntRange(7))

	// reference wall volume and spring matrix
	chk.Scalar(tst, "Vw0", 1e-12, w.Vw0, 2.7703865268162526)
	chk.Scalar(tst, "M00 ", 1e-12, w.mbase[0][0], 2.0312955049322188)
	chk.Scalar(tst, "M44 ", 1e-12, w.mbase[4][4], 0.5399428384956946)
	chk.Scalar(tst, "M55 ", 1e-12, w.mbase[5][5], 1.8899999999999995)
	chk.Scalar(tst, "M04 ", 1e-12, w.mbase[0][4], 0.8758357990875607)
	chk.Scalar(tst, "M11 ", 1e-25, w.mbase[1][1], 0)
	chk.Scalar(tst, "M22 ", 1e-25, w.mbase[2][2], 0)
	chk.Scalar(tst, "M33 ", 1e-25, w.mbase[3][3], 0)

	// zero displacement => undeformed cavity volume and zero fiber strain
	sol := new(ele.Solution)
	sol.Allocate(w.Neqs(), 0)
	vc, err := w.EnclosedVolume("ENDO", sol)
	if err != nil {
		tst.Errorf("cannot compute cavity volume:\n%v", err)
		return
	}
	chk.Scalar(tst, "vcav undeformed", 1e-12, vc, 2.4933478741346295)
	εf, err := w.MeanFiberStrain(sol)
	if err != nil {
		tst.Errorf("cannot compute fiber strain:\n%v", err)
		return
	}
	chk.Scalar(tst, "εf undeformed  ", 1e-14, εf, 0)

	// natural boundary conditions
	lvp, err := sim.Functions.Get("lvp")
	if err != nil {
		tst.Errorf("cannot get lvp function:\n%v", err)
		return
	}
	kb, err := sim.Functions.Get("kbase")
	if err != nil {
		tst.Errorf("cannot get kbase function:\n%v", err)
		return
	}
	w.SetNatBcs(30, "qn", lvp, "")
	w.SetNatBcs(10, "spring", kb, "")

	// residual at the reference state with the cavity pressure off
	w.NatBc("qn", 30).SetScale(0)
	sol.T = 1
	fb := make([]float64, w.Neqs())
	err = w.AddToRhs(fb, sol)
	if err != nil {
		tst.Errorf("AddToRhs failed:\n%v", err)
		return
	}
	R := make([]float64, w.Neqs())
	for i := 0; i < w.Neqs(); i++ {
		R[i] = -fb[i]
	}
	chk.Vector(tst, "R @ reference", 1e-15, R, []float64{0, 0, 0, 0, 0, 0, 0})

	// residual at a deformed state with p=0.1 and pw=0.3
	w.NatBc("qn", 30).SetScale(0.1)
	copy(sol.Y, []float64{0.01, -0.02, 0.015, 0.03, -0.01, 0.005, 0.3})
	for i := 0; i < w.Neqs(); i++ {
		fb[i] = 0
	}
	err = w.AddToRhs(fb, sol)
	if err != nil {
		tst.Errorf("AddToRhs failed:\n%v", err)
		return
	}
	for i := 0; i < w.Neqs(); i++ {
		R[i] = -fb[i]
	}
	chk.Vector(tst, "R @ deformed ", 1e-9, R, []float64{3.592823948637778, 1.1720643683065157, 1.6362467586017921, 0.10566913493209582, -4.826667964930138, 0.009449999999999908, 0.0859066480170263})

	// prescribed ux on the base collapses to a single row locking the shift mode
	rows := w.ConstraintRows(10, "ux")
	chk.IntAssert(len(rows), 1)
	chk.Vector(tst, "base row", 1e-14, rows[0], []float64{0, 0, 0, 0, 0, 1, 0})
}

func Test_wall03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("wall03. integration point output")

	// load sim and allocate element
	sim := inp.ReadSim("data/wall.sim", "", true, false)
	if sim == nil {
		tst.Errorf("cannot read simulation file\n")
		return
	}
	defer sim.Clean()
	reg := sim.Regions[0]
	e, err := ele.New(reg, reg.Etag2data(-1), sim)
	if err != nil {
		tst.Errorf("cannot allocate element:\n%v", err)
		return
	}
	w := e.(*Wall)
	w.SetEqs(utl.IntRange(7))

	// keys and coordinates
	keys := w.OutIpKeys()
	chk.Strings(tst, "keys", keys, []string{"sx", "sy", "sz", "sxy", "syz", "szx", "p", "q", "J", "I4f"})
	nip := len(w.OutIpCoords())
	chk.IntAssert(nip, 96)

	// undeformed state => zero stress and unit invariants at all points
	sol := new(ele.Solution)
	sol.Allocate(w.Neqs(), 0)
	sol.T = 1
	M0 := ele.NewIpsMap()
	w.OutIpVals(M0, sol)
	zeros := make([]float64, nip)
	ones := make([]float64, nip)
	for i := 0; i < nip; i++ {
		ones[i] = 1
	}
	chk.Vector(tst, "p   undeformed", 1e-14, (*M0)["p"], zeros)
	chk.Vector(tst, "q   undeformed", 1e-14, (*M0)["q"], zeros)
	chk.Vector(tst, "J   undeformed", 1e-14, (*M0)["J"], ones)
	chk.Vector(tst, "I4f undeformed", 1e-14, (*M0)["I4f"], ones)

	// deformed state => p and q must match the invariants recomputed from the
	// extracted components
	copy(sol.Y, []float64{0.01, -0.02, 0.015, 0.03, -0.01, 0.005, 0.3})
	M := ele.NewIpsMap()
	w.OutIpVals(M, sol)
	for _, key := range keys {
		chk.IntAssert(len((*M)[key]), nip)
	}
	pref := make([]float64, nip)
	qref := make([]float64, nip)
	qmax := 0.0
	for i := 0; i < nip; i++ {
		sx, sy, sz := M.Get("sx", i), M.Get("sy", i), M.Get("sz", i)
		sxy, syz, szx := M.Get("sxy", i), M.Get("syz", i), M.Get("szx", i)
		pref[i] = -(sx + sy + sz) / 3.0
		d := ((sx-sy)*(sx-sy) + (sy-sz)*(sy-sz) + (sz-sx)*(sz-sx)) / 2.0
		qref[i] = math.Sqrt(d + 3.0*(sxy*sxy+syz*syz+szx*szx))
		if qref[i] > qmax {
			qmax = qref[i]
		}
	}
	chk.Vector(tst, "p deformed", 1e-12, (*M)["p"], pref)
	chk.Vector(tst, "q deformed", 1e-12, (*M)["q"], qref)
	if qmax <= 0 {
		tst.Errorf("deviatoric stress vanishes at the deformed state\n")
		return
	}
	for i := 0; i < nip; i++ {
		if M.Get("J", i) < 0.5 || M.Get("J", i) > 1.5 {
			tst.Errorf("J = %g is out of range at point %d\n", M.Get("J", i), i)
			return
		}
	}
}
