// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// PlotPV draws the pressure-volume path of the re-solved optimum and saves
// the figure as <fnkey>-pv.eps under dirout
func PlotPV(history *History, dirout, fnkey string) {
	plt.Reset()
	plt.Plot(history.Volume, history.Pressure, "'b-', marker='.', clip_on=0")
	plt.Gll("$V$", "$p$", "")
	plt.SaveD(dirout, io.Sf("%s-pv.eps", fnkey))
}
