// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"

	"github.com/finsberg/pulse-adjoint/inp"
)

func Test_hemiell01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hemiell01. closed-form volumes")

	// demonstration ventricle
	var sol HemiEllipsoid
	sol.Init(nil)
	chk.Scalar(tst, "cavity", 1e-14, sol.CavityVolume(), 2.714336052701581)
	chk.Scalar(tst, "wall", 1e-14, sol.WallVolume(), 3.0159289474462003)
	chk.Scalar(tst, "epi = cavity + wall", 1e-14, sol.EpiVolume(), sol.CavityVolume()+sol.WallVolume())

	// hemisphere limit
	sol.Init(fun.Prms{
		&fun.Prm{N: "rlendo", V: 1},
		&fun.Prm{N: "rsendo", V: 1},
		&fun.Prm{N: "rlepi", V: 2},
		&fun.Prm{N: "rsepi", V: 2},
	})
	chk.Scalar(tst, "hemisphere", 1e-15, sol.CavityVolume(), 2.0*math.Pi/3.0)
	chk.Scalar(tst, "hemisphere shell", 1e-14, sol.WallVolume(), 14.0*math.Pi/3.0)
}

func Test_hemiell02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("hemiell02. discrete surface volumes approach the closed form")

	var sol HemiEllipsoid
	sol.Init(nil)
	divs := [][]int{{12, 4}, {24, 8}, {96, 24}}
	anchors := [][]float64{ // discrete cavity and wall volumes per division
		{2.4933478741346295, 2.7703865268162526},
		{2.657655125823652, 2.952950139804051},
		{2.709494848653714, 3.0105498318374555},
	}
	errc := make([]float64, len(divs))
	var Vc, Vw float64
	for k, d := range divs {
		msh, err := inp.NewMesh(&inp.GeoData{Kind: "simple-ellipsoid", Nu: d[0], Nv: d[1], Nlid: 1})
		if err != nil {
			tst.Errorf("mesh generation failed:\n%v", err)
			return
		}
		X := make([][]float64, len(msh.Verts))
		for i, v := range msh.Verts {
			X[i] = v.C
		}
		Vc = inp.SurfVolume(msh.CavityTris, X)
		Vw = inp.SurfVolume(msh.WallTris, X)
		chk.Scalar(tst, io.Sf("Vc %dx%d", d[0], d[1]), 1e-12, Vc, anchors[k][0])
		chk.Scalar(tst, io.Sf("Vw %dx%d", d[0], d[1]), 1e-12, Vw, anchors[k][1])

		// the inscribed triangulation underestimates the volume
		errc[k] = sol.CavityVolume() - Vc
		if errc[k] < 0 {
			tst.Errorf("discrete cavity volume %g exceeds the closed form %g\n", Vc, sol.CavityVolume())
			return
		}
	}
	if errc[1] > errc[0]/3.0 || errc[2] > errc[1]/3.0 {
		tst.Errorf("refinement should shrink the volume error: %v\n", errc)
		return
	}
	sol.CheckCavity(tst, Vc, 0.006)
	sol.CheckWall(tst, Vw, 0.006)
}
