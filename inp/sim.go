// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	goio "io"
	"math"
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/rnd"
	"github.com/cpmech/gosl/utl"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc"`    // description of simulation
	Matfile string `json:"matfile"` // materials file path
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/pulse-adjoint
	ListBcs bool   `json:"listbcs"` // list boundary conditions
}

// SolverData holds nonlinear solver data
type SolverData struct {

	// nonlinear solver
	Type    string  `json:"type"`    // nonlinear solver type: {imp, sub} => implicit, implicit with load substepping
	NmaxIt  int     `json:"nmaxit"`  // number of max iterations
	Atol    float64 `json:"atol"`    // absolute tolerance
	Rtol    float64 `json:"rtol"`    // relative tolerance
	FbTol   float64 `json:"fbtol"`   // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin"`   // minimum value of fb
	DvgCtrl bool    `json:"dvgctrl"` // use divergence control
	NdvgMax int     `json:"ndvgmax"` // max number of continued divergence
	ShowR   bool    `json:"showr"`   // show residual

	// load stepping
	DtMin float64 `json:"dtmin"` // minimum value of Dt for load substepping

	// constants
	Eps float64 `json:"eps"` // smallest number satisfying 1.0 + ϵ > 1.0

	// derived
	Itol float64 // iterations tolerance
}

// ElemData holds element data
type ElemData struct {
	Tag   int    `json:"tag"`   // tag of element
	Mat   string `json:"mat"`   // material name
	Type  string `json:"type"`  // type of element. ex: lv-wall
	Nip   int    `json:"nip"`   // number of in-surface integration points per direction; 0 => use default
	Nipt  int    `json:"nipt"`  // number of transmural integration points; 0 => use default
	Extra string `json:"extra"` // extra flags (in keycode format). ex: "!kappa:100"
}

// Region holds region data
type Region struct {

	// input data
	Desc      string      `json:"desc"`      // description of region. ex: left ventricle
	Geo       *GeoData    `json:"geometry"`  // geometry definition resolved via the registry
	ElemsData []*ElemData `json:"elemsdata"` // list of elements data

	// derived
	Msh *Mesh // the mesh
}

// FaceBc holds face boundary condition
type FaceBc struct {
	Tag   int      `json:"tag"`   // tag of face; e.g. 30 for ENDO
	Keys  []string `json:"keys"`  // key indicating type of bcs. ex: qn, spring, ux, uy, uz
	Funcs []string `json:"funcs"` // name of function. ex: zero, lvp
	Extra string   `json:"extra"` // extra information. ex: '!kspring:1'
}

// EleCond holds element condition
type EleCond struct {
	Tag   int      `json:"tag"`   // tag of cell/element
	Keys  []string `json:"keys"`  // key indicating type of condition. ex: "act" (activation)
	Funcs []string `json:"funcs"` // name of function. ex: ta, none
	Extra string   `json:"extra"` // extra information
}

// TimeControl holds data for defining the load stepping of one stage
type TimeControl struct {
	Tf     float64 `json:"tf"`     // final pseudo-time
	Dt     float64 `json:"dt"`     // load step size (if constant)
	DtOut  float64 `json:"dtout"`  // load step size for output
	DtFcn  string  `json:"dtfcn"`  // load step size (function name)
	DtoFcn string  `json:"dtofcn"` // load step size for output (function name)

	// derived
	DtFunc  fun.Func // load step function
	DtoFunc fun.Func // output load step function
}

// Stage holds stage data
type Stage struct {

	// main
	Desc string `json:"desc"` // description of simulation stage. ex: inflation
	Skip bool   `json:"skip"` // do not run stage

	// conditions
	EleConds []*EleCond `json:"eleconds"` // element conditions. ex: activation
	FaceBcs  []*FaceBc  `json:"facebcs"`  // face boundary conditions

	// timecontrol
	Control TimeControl `json:"control"` // load stepping control
}

// TargetData holds the definition of one optimization target:
// an observation kind paired with measured data
type TargetData struct {
	Kind    string     `json:"kind"`    // observation kind: "volume" or "strain"
	Surf    string     `json:"surf"`    // marker name of the observed surface; e.g. "ENDO"
	Desc    string     `json:"desc"`    // description; e.g. "LV volume"
	Weight  float64    `json:"weight"`  // weight in the misfit; 0 => 1
	Collect bool       `json:"collect"` // collect simulated values per solve step
	Data    DataSeries `json:"data"`    // measured data: scalar or sequence
}

// AssimData holds the data-assimilation settings
type AssimData struct {
	Optimizer string        `json:"optimizer"` // optimizer backend name: "lm" or "nelder-mead"
	Control   string        `json:"control"`   // name of the adjustable material parameter; e.g. "a"
	MaxIt     int           `json:"maxit"`     // maximum optimizer iterations
	Tol       float64       `json:"tol"`       // objective tolerance
	RegWeight float64       `json:"regweight"` // Tikhonov regularization weight
	RegRef    float64       `json:"regref"`    // regularization reference value
	Pressures DataSeries    `json:"pressures"` // measured boundary pressures, one per solve step
	Targets   []*TargetData `json:"targets"`   // optimization targets
}

// DataSeries accepts either a single scalar or a sequence in JSON form
type DataSeries []float64

// UnmarshalJSON decodes a scalar or an array of scalars
func (o *DataSeries) UnmarshalJSON(b []byte) (err error) {
	var val float64
	if err = json.Unmarshal(b, &val); err == nil {
		*o = DataSeries{val}
		return nil
	}
	var vals []float64
	if err = json.Unmarshal(b, &vals); err != nil {
		return chk.Err("data series must be a number or an array of numbers: %v", err)
	}
	*o = DataSeries(vals)
	return nil
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data       `json:"data"`      // stores global simulation data
	Functions FuncsData  `json:"functions"` // stores all boundary condition functions
	PlotF     *PlotFdata `json:"plotf"`     // plot functions
	Regions   []*Region  `json:"regions"`   // stores all regions
	Solver    SolverData `json:"solver"`    // nonlinear solver data
	Stages    []*Stage   `json:"stages"`    // stores all stages
	Assim     *AssimData `json:"assim"`     // data-assimilation settings

	// derived
	DirOut    string // directory to save results
	Key       string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	Ndim      int    // space dimension
	MatModels *MatDb // materials and models

	// adjustable parameters
	Adjustable   fun.Prms         // adjustable parameters (not dependent)
	AdjRandom    rnd.Variables    // adjustable parameters that are random variables (not dependent)
	AdjDependent fun.Prms         // adjustable parameters that depend on other adjustable parameters
	adjmap       map[int]*fun.Prm // auxiliary map with adjustable (not dependent)
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// Clean cleans resources
func (o *Simulation) Clean() {
	if o.MatModels != nil {
		o.MatModels.Clean()
	}
}

// ReadSim reads all simulation data from a .sim JSON file
func ReadSim(simfilepath, alias string, erasePrev, createDirOut bool) *Simulation {

	// new sim
	var o Simulation

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// set default values
	o.Solver.SetDefault()

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := filepath.Dir(simfilepath)
	fn := filepath.Base(simfilepath)
	dir = os.ExpandEnv(dir)
	fnkey := io.FnKey(fn)
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/pulse-adjoint/" + fnkey
	}

	// create directory
	if createDirOut {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			chk.Panic("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
	}

	// erase previous simulation results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// set solver constants
	o.Solver.PostProcess()

	// assimilation defaults
	if o.Assim != nil {
		if o.Assim.Optimizer == "" {
			o.Assim.Optimizer = "lm"
		}
		if o.Assim.MaxIt < 1 {
			o.Assim.MaxIt = 100
		}
		if o.Assim.Tol <= 0 {
			o.Assim.Tol = 1e-8
		}
		for _, tgt := range o.Assim.Targets {
			if tgt.Weight <= 0 {
				tgt.Weight = 1
			}
		}
	}

	// for all regions
	o.Ndim = 3
	for _, reg := range o.Regions {
		if reg.Geo == nil {
			reg.Geo = new(GeoData)
		}
		reg.Msh, err = NewMesh(reg.Geo)
		if err != nil {
			chk.Panic("ReadSim: cannot generate mesh:\n%v", err)
		}
	}

	// for all stages
	for _, stg := range o.Stages {

		// fix Tf
		if stg.Control.Tf < 1e-14 {
			stg.Control.Tf = 1
		}

		// fix Dt
		if stg.Control.DtFcn == "" {
			if stg.Control.Dt < 1e-14 {
				stg.Control.Dt = stg.Control.Tf
			}
			stg.Control.DtFunc = &fun.Cte{C: stg.Control.Dt}
		} else {
			stg.Control.DtFunc, err = o.Functions.Get(stg.Control.DtFcn)
			if err != nil {
				chk.Panic("%v", err)
			}
			stg.Control.Dt = stg.Control.DtFunc.F(0, nil)
		}

		// fix DtOut
		if stg.Control.DtoFcn == "" {
			if stg.Control.DtOut < 1e-14 {
				stg.Control.DtOut = stg.Control.Dt
				stg.Control.DtoFunc = stg.Control.DtFunc
			} else {
				if stg.Control.DtOut < stg.Control.Dt {
					stg.Control.DtOut = stg.Control.Dt
				}
				stg.Control.DtoFunc = &fun.Cte{C: stg.Control.DtOut}
			}
		} else {
			stg.Control.DtoFunc, err = o.Functions.Get(stg.Control.DtoFcn)
			if err != nil {
				chk.Panic("%v", err)
			}
			stg.Control.DtOut = stg.Control.DtoFunc.F(0, nil)
		}
	}

	// read materials database and initialise models
	o.MatModels, err = ReadMat(dir, o.Data.Matfile, o.Ndim)
	if err != nil {
		chk.Panic("loading materials and initialising models failed:\n%v", err)
	}

	// adjustable and random parameters
	o.adjmap = make(map[int]*fun.Prm)
	for _, mat := range o.MatModels.Materials {
		for _, prm := range mat.Prms {
			o.append_adjustable_parameter(prm)
		}
	}
	for _, fcn := range o.Functions {
		for _, prm := range fcn.Prms {
			o.append_adjustable_parameter(prm)
		}
	}
	err = o.AdjRandom.Init()
	if err != nil {
		chk.Panic("cannot initialise random variables:\n%v", err)
	}

	// connect dependent adjustable parameters
	var ok bool
	for _, prm := range o.AdjDependent {
		prm.Other, ok = o.adjmap[prm.Dep]
		if !ok {
			chk.Panic("cannot find dependency dep=%d of adjustable parameter", prm.Dep)
		}
	}

	// results
	return &o
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// Etag2data returns the ElemData corresponding to element tag
//  Note: returns nil if not found
func (o *Region) Etag2data(etag int) *ElemData {
	for _, edat := range o.ElemsData {
		if edat.Tag == etag {
			return edat
		}
	}
	return nil
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// GetEleCond returns element condition structure by giving an elem tag
//  Note: returns nil if not found
func (o Stage) GetEleCond(elemtag int) *EleCond {
	for _, ec := range o.EleConds {
		if elemtag == ec.Tag {
			return ec
		}
	}
	return nil
}

// GetFaceBc returns face boundary condition structure by giving a face tag
//  Note: returns nil if not found
func (o Stage) GetFaceBc(facetag int) *FaceBc {
	for _, fbc := range o.FaceBcs {
		if facetag == fbc.Tag {
			return fbc
		}
	}
	return nil
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets defaults values
func (o *SolverData) SetDefault() {

	// nonlinear solver
	o.Type = "sub"
	o.NmaxIt = 20
	o.Atol = 1e-6
	o.Rtol = 1e-6
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.DvgCtrl = true
	o.NdvgMax = 20

	// load stepping
	o.DtMin = 1e-8

	// constants
	o.Eps = 1e-16
}

// PostProcess performs a post-processing of the just read json file
func (o *SolverData) PostProcess() {
	o.Itol = utl.Max(10.0*o.Eps/o.Rtol, utl.Min(0.01, math.Sqrt(o.Rtol)))
}

// adjustable parameters ///////////////////////////////////////////////////////////////////////////

// PrmAdjust adjusts parameter (random variable or not)
func (o *Simulation) PrmAdjust(adj int, val float64) {
	if prm, ok := o.adjmap[adj]; ok {
		prm.Set(val)
		return
	}
	chk.Panic("cannot adjust parameter %d", adj)
}

// PrmGetAdj gets adjustable parameter (random variable or not)
func (o *Simulation) PrmGetAdj(adj int) (val float64) {
	if prm, ok := o.adjmap[adj]; ok {
		return prm.V
	}
	chk.Panic("cannot get adjustable parameter %d", adj)
	return
}

// Control returns the adjustable parameter with given name to be used as the
// optimization control variable. the parameter must have been flagged
// adjustable (adj > 0) within the material or function databases
func (o *Simulation) Control(name string) (prm *fun.Prm, err error) {
	for _, p := range o.Adjustable {
		if p.N == name {
			return p, nil
		}
	}
	return nil, chk.Err("cannot find adjustable parameter named %q to use as control variable", name)
}

// append_adjustable_parameter adds prm to lists
func (o *Simulation) append_adjustable_parameter(prm *fun.Prm) {

	// adjustable parameter
	if prm.Adj > 0 {
		o.Adjustable = append(o.Adjustable, prm)
		o.adjmap[prm.Adj] = prm
		if prm.D != "" { // with probability distribution => random variable
			distr := rnd.GetDistribution(prm.D)
			o.AdjRandom = append(o.AdjRandom, &rnd.VarData{
				D: distr, M: prm.V, S: prm.S, Min: prm.Min, Max: prm.Max, Prm: prm,
				Key: io.Sf("adj%d", prm.Adj),
			})
		}
	}

	// adjustable parameter that depends on other adjustable parameters
	if prm.Dep > 0 {
		o.AdjDependent = append(o.AdjDependent, prm)
	}
}
