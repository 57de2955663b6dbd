// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package solid

// StressKeys returns the output keys of the Cauchy stress components
func StressKeys() []string {
	return []string{"sx", "sy", "sz", "sxy", "syz", "szx"}
}

// Ivs2sigmas converts a map of integration point values to the six stress
// components at point i
//  σ -- {sx, sy, sz, sxy, syz, szx}
//  i -- index of integration point
func Ivs2sigmas(σ []float64, i int, ivs map[string][]float64) {
	for key, vals := range ivs {
		switch key {
		case "sx":
			σ[0] = vals[i]
		case "sy":
			σ[1] = vals[i]
		case "sz":
			σ[2] = vals[i]
		case "sxy":
			σ[3] = vals[i]
		case "syz":
			σ[4] = vals[i]
		case "szx":
			σ[5] = vals[i]
		}
	}
}
