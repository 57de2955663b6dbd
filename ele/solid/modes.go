// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

import (
	"github.com/finsberg/pulse-adjoint/inp"
)

// Modes holds the analytic deformation modes of the truncated ellipsoid wall.
// The displacement field is u(x) = Σm qm·φm(x) with
//
//   0 radial   φ = (0, y, z)           uniform widening
//   1 long     φ = (x, 0, 0)           stretching along the long axis
//   2 bulge    φ = -x/rl·(0, y, z)     widening increasing towards the apex
//   3 twist    φ = -x/rl·(0, -z, y)    rotation about the long axis increasing towards the apex
//   4 thin     φ = (1-λ)·(0, y, z)     endocardial widening fading through the wall
//   5 shift    φ = (1, 0, 0)           rigid translation along the long axis
//
// where rl is the epicardial long semi-axis and λ ∈ [0,1] the transmural
// coordinate. Radial, long, bulge and thin combine into cavity inflation at
// preserved wall volume; twist follows the fiber helix; shift carries the
// basal constraint
type Modes struct {
	rl float64 // normalisation length
}

// NewModes returns the deformation modes for a given geometry
func NewModes(geo *inp.GeoData) *Modes {
	return &Modes{rl: geo.RlEpi}
}

// Num returns the number of modes
func (o *Modes) Num() int { return 6 }

// Names returns short labels, one per mode
func (o *Modes) Names() []string {
	return []string{"radial", "long", "bulge", "twist", "thin", "shift"}
}

// Value computes the displacement direction φm at point x with transmural
// coordinate λ
func (o *Modes) Value(res []float64, m int, x []float64, λ float64) {
	switch m {
	case 0:
		res[0], res[1], res[2] = 0, x[1], x[2]
	case 1:
		res[0], res[1], res[2] = x[0], 0, 0
	case 2:
		res[0], res[1], res[2] = 0, -x[0]*x[1]/o.rl, -x[0]*x[2]/o.rl
	case 3:
		res[0], res[1], res[2] = 0, x[0]*x[2]/o.rl, -x[0]*x[1]/o.rl
	case 4:
		res[0], res[1], res[2] = 0, (1-λ)*x[1], (1-λ)*x[2]
	case 5:
		res[0], res[1], res[2] = 1, 0, 0
	}
}

// Grad computes the displacement gradient ∇φm at point x. gλ is the spatial
// gradient of the transmural coordinate; only the thin mode uses it
func (o *Modes) Grad(G [][]float64, m int, x []float64, λ float64, gλ []float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			G[i][j] = 0
		}
	}
	switch m {
	case 0:
		G[1][1], G[2][2] = 1, 1
	case 1:
		G[0][0] = 1
	case 2:
		G[1][0], G[1][1] = -x[1]/o.rl, -x[0]/o.rl
		G[2][0], G[2][2] = -x[2]/o.rl, -x[0]/o.rl
	case 3:
		G[1][0], G[1][2] = x[2]/o.rl, x[0]/o.rl
		G[2][0], G[2][1] = -x[1]/o.rl, -x[0]/o.rl
	case 4:
		for j := 0; j < 3; j++ {
			G[1][j] = -x[1] * gλ[j]
			G[2][j] = -x[2] * gλ[j]
		}
		G[1][1] += 1 - λ
		G[2][2] += 1 - λ
	}
}
