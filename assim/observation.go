// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package assim

import (
	"github.com/cpmech/gosl/chk"

	"github.com/finsberg/pulse-adjoint/ele"
	"github.com/finsberg/pulse-adjoint/fem"
)

// Observation maps a solution state to one scalar observable that can be
// matched against measured data
type Observation interface {
	Key() string                                     // short name of the observable; e.g. "volume"
	Eval(sol *ele.Solution) (val float64, err error) // observable at the given state
}

// VolumeObs observes the volume enclosed by a marked surface of the chamber
type VolumeObs struct {
	prob *fem.Problem // gives access to the chamber elements
	surf string       // marker name of the observed surface; e.g. "ENDO"
	desc string       // description for reports
}

// VolumeObservation returns an observation of the volume enclosed by the
// named surface; e.g. the cavity volume for "ENDO"
func VolumeObservation(prob *fem.Problem, surf, desc string) *VolumeObs {
	return &VolumeObs{prob, surf, desc}
}

// Key returns the name of the observable
func (o *VolumeObs) Key() string { return "volume" }

// Eval returns the enclosed volume at the given state
func (o *VolumeObs) Eval(sol *ele.Solution) (val float64, err error) {
	found := false
	for _, e := range o.prob.Dom.Elems {
		if c, ok := e.(ele.Chamber); ok {
			v, err := c.EnclosedVolume(o.surf, sol)
			if err != nil {
				return 0, err
			}
			val += v
			found = true
		}
	}
	if !found {
		err = chk.Err("cannot observe %q volume: domain has no chamber elements", o.surf)
	}
	return
}

// StrainObs observes the mean fiber strain of the wall
type StrainObs struct {
	prob *fem.Problem // gives access to the chamber elements
	desc string       // description for reports
}

// StrainObservation returns an observation of the fiber strain averaged
// over the wall
func StrainObservation(prob *fem.Problem, desc string) *StrainObs {
	return &StrainObs{prob, desc}
}

// Key returns the name of the observable
func (o *StrainObs) Key() string { return "strain" }

// Eval returns the mean fiber strain at the given state
func (o *StrainObs) Eval(sol *ele.Solution) (val float64, err error) {
	n := 0
	for _, e := range o.prob.Dom.Elems {
		if c, ok := e.(ele.Chamber); ok {
			v, err := c.MeanFiberStrain(sol)
			if err != nil {
				return 0, err
			}
			val += v
			n++
		}
	}
	if n == 0 {
		err = chk.Err("cannot observe fiber strain: domain has no chamber elements")
		return
	}
	val /= float64(n)
	return
}
