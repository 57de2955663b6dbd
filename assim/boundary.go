// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assim

import (
	"github.com/finsberg/pulse-adjoint/ele"
)

// BoundaryObs pairs the cavity pressure bc with its measured series: the
// i-th pressure is applied before the i-th forward solve so that the
// optimizer drives the prescribed loads together with the control
type BoundaryObs struct {
	Bc        *ele.NaturalBc // the paired natural bc
	Pressures []float64      // measured pressures, one per solve step
}

// BoundaryObservation returns a new pairing of the pressure bc with the
// measured pressures
func BoundaryObservation(bc *ele.NaturalBc, pressures ...float64) *BoundaryObs {
	return &BoundaryObs{Bc: bc, Pressures: pressures}
}
