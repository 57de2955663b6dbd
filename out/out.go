// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements reporting of assimilation results: the console
// report, the tabulated history of the re-solved optimum and the
// pressure-volume plot
package out

import (
	"github.com/cpmech/gosl/io"

	"github.com/finsberg/pulse-adjoint/assim"
)

// History gathers the trajectory of the re-solved optimum as table rows,
// one per solve step
type History struct {
	Step     []int     // one-based solve step index
	Load     []float64 // fraction of the largest measured pressure
	Pressure []float64 // measured cavity pressure
	Volume   []float64 // simulated cavity volume
	Control  []float64 // control value; constant after assimilation
}

// NewHistory collects the table rows from the result of one assimilation run
func NewHistory(res *assim.Result) (o *History) {
	o = new(History)
	n := len(res.Pressures)
	o.Step = make([]int, n)
	o.Load = make([]float64, n)
	o.Pressure = make([]float64, n)
	o.Volume = make([]float64, n)
	o.Control = make([]float64, n)
	var pmax float64
	for _, p := range res.Pressures {
		if p > pmax {
			pmax = p
		}
	}
	for i := 0; i < n; i++ {
		o.Step[i] = i + 1
		if pmax > 0 {
			o.Load[i] = res.Pressures[i] / pmax
		}
		o.Pressure[i] = res.Pressures[i]
		o.Volume[i] = res.Volumes[i]
		o.Control[i] = res.Control
	}
	return
}

// Table returns the history formatted as a table
func (o *History) Table() (l string) {
	l = io.Sf("%6s%10s%14s%14s%14s\n", "step", "load", "pressure", "volume", "control")
	for i, s := range o.Step {
		l += io.Sf("%6d%10.4f%14.8f%14.8f%14.8f\n", s, o.Load[i], o.Pressure[i], o.Volume[i], o.Control[i])
	}
	return
}

// Print prints the history table
func (o *History) Print() {
	io.Pf("%v", o.Table())
}

// Report prints the summary of one assimilation run: the measured volume,
// the re-solved model volume and the estimated material parameter
func Report(res *assim.Result) {
	last := len(res.Volumes) - 1
	if last < 0 {
		return
	}
	for _, t := range res.Targets {
		if t.Obs.Key() == "volume" {
			io.Pf("Target volume: %v\n", t.Data[last])
			break
		}
	}
	io.Pf("Model volume: %v\n", res.Volumes[last])
	io.PfGreen("Estimated material parameter: %v\n", res.Control)
}
