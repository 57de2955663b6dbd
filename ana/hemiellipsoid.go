// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// HemiEllipsoid computes closed-form volumes of a prolate ellipsoidal
// ventricle truncated at the base plane. The cavity is bounded by the
// endocardial surface and the basal lid; the wall lies between the
// endocardial and epicardial surfaces
//
//            base plane
//      o--o================o--o
//       \  \    cavity    /  /
//        \  \ rs_endo    /  /       half-ellipsoid volume = 2 π rl rs² / 3
//         \  `--_____--´   /
//          `--___________-´
//                apex
type HemiEllipsoid struct {
	// input
	RlEndo float64 // endocardial long semi-axis
	RsEndo float64 // endocardial short semi-axis
	RlEpi  float64 // epicardial long semi-axis
	RsEpi  float64 // epicardial short semi-axis
}

// Init initialises this structure
func (o *HemiEllipsoid) Init(prms fun.Prms) {

	// default values correspond to the demonstration left ventricle
	o.RlEndo = 1.6
	o.RsEndo = 0.9
	o.RlEpi = 1.9
	o.RsEpi = 1.2

	// parameters
	for _, p := range prms {
		switch p.N {
		case "rlendo":
			o.RlEndo = p.V
		case "rsendo":
			o.RsEndo = p.V
		case "rlepi":
			o.RlEpi = p.V
		case "rsepi":
			o.RsEpi = p.V
		}
	}
}

// CavityVolume returns the volume enclosed by the endocardial surface and
// the basal lid
func (o HemiEllipsoid) CavityVolume() float64 {
	return 2.0 * math.Pi * o.RlEndo * o.RsEndo * o.RsEndo / 3.0
}

// EpiVolume returns the volume enclosed by the epicardial surface and the
// base plane
func (o HemiEllipsoid) EpiVolume() float64 {
	return 2.0 * math.Pi * o.RlEpi * o.RsEpi * o.RsEpi / 3.0
}

// WallVolume returns the volume of the myocardial wall
func (o HemiEllipsoid) WallVolume() float64 {
	return o.EpiVolume() - o.CavityVolume()
}

// CheckCavity compares a discrete cavity volume against the closed form
func (o HemiEllipsoid) CheckCavity(tst *testing.T, V, tol float64) {
	chk.Scalar(tst, "cavity volume", tol, V, o.CavityVolume())
}

// CheckWall compares a discrete wall volume against the closed form
func (o HemiEllipsoid) CheckWall(tst *testing.T, V, tol float64) {
	chk.Scalar(tst, "wall volume", tol, V, o.WallVolume())
}
