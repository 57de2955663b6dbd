// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm"
	"github.com/cpmech/gosl/utl"
)

// surface marker ids
const (
	BaseMarker = 10 // basal annulus at the cut plane
	EndoMarker = 30 // endocardial surface
	EpiMarker  = 40 // epicardial surface
)

// Vert holds vertex data
type Vert struct {
	Id  int       // id
	Tag int       // tag == surface marker id; 0 means interior/auxiliary
	C   []float64 // coordinates [3]
}

// Cell holds triangle cell data
type Cell struct {
	Id    int   // id
	Tag   int   // tag == surface marker id
	Verts []int // vertex ids (3; counter-clockwise seen from outside the wall)
}

// GeoData holds geometry definition as read from the .sim file
type GeoData struct {

	// input
	Kind      string  `json:"kind"`      // geometry kind from the registry; e.g. "simple-ellipsoid"
	RlEndo    float64 `json:"rlendo"`    // endocardial long semi-axis
	RsEndo    float64 `json:"rsendo"`    // endocardial short semi-axis
	RlEpi     float64 `json:"rlepi"`     // epicardial long semi-axis
	RsEpi     float64 `json:"rsepi"`     // epicardial short semi-axis
	Nu        int     `json:"nu"`        // number of azimuthal divisions
	Nv        int     `json:"nv"`        // number of longitudinal divisions (apex to base)
	Nlid      int     `json:"nlid"`      // number of radial divisions on the basal lid/annulus
	AlphaEndo float64 `json:"alphaendo"` // fiber helix angle at endocardium [deg]
	AlphaEpi  float64 `json:"alphaepi"`  // fiber helix angle at epicardium [deg]
}

// SetDefault sets default values corresponding to the demonstration left ventricle
func (o *GeoData) SetDefault() {
	o.Kind = "simple-ellipsoid"
	o.RlEndo = 1.6
	o.RsEndo = 0.9
	o.RlEpi = 1.9
	o.RsEpi = 1.2
	o.Nu = 48
	o.Nv = 12
	o.Nlid = 2
	o.AlphaEndo = 60
	o.AlphaEpi = -60
}

// Mesh holds the boundary surface mesh of the ventricular wall
type Mesh struct {

	// input
	Geo   *GeoData // geometry definition
	Verts []*Vert  // vertices
	Cells []*Cell  // triangle cells covering ENDO, EPI and BASE

	// derived
	Ndim      int              // space dimension
	Markers   map[string][]int // marker name => {marker id, dimension}
	SurfCells map[int][]*Cell  // marker id => cells
	SurfVerts map[int][]int    // marker id => unique vertex ids
	Xmin      []float64        // min coordinates
	Xmax      []float64        // max coordinates
	VertBins  gm.Bins          // bins for spatial vertex search

	// fiber architecture and transmural position (per vertex)
	F0  [][]float64 // fiber directions
	S0  [][]float64 // sheet directions
	N0  [][]float64 // sheet-normal directions
	Lam []float64   // transmural coordinate λ ∈ [0,1] from endo to epi

	// closed orientable surfaces for volume evaluations (outward normals)
	CavityTris [][]int // cavity boundary: endo + basal lid fan
	WallTris   [][]int // wall boundary: epi + flipped endo + basal annulus

	// auxiliary
	lidCentre int // id of the auxiliary vertex at the centre of the basal lid
}

// registry of geometry generators
var geomAllocators = map[string]func(geo *GeoData) (*Mesh, error){}

// NewMesh generates a mesh using the geometry registry
func NewMesh(geo *GeoData) (msh *Mesh, err error) {
	if geo.Kind == "" {
		geo.SetDefault()
	}
	allocator, ok := geomAllocators[geo.Kind]
	if !ok {
		return nil, chk.Err("cannot find geometry kind %q in registry", geo.Kind)
	}
	msh, err = allocator(geo)
	if err != nil {
		return nil, chk.Err("generation of %q geometry failed:\n%v", geo.Kind, err)
	}
	err = msh.derived()
	return
}

// derived computes derived quantities: maps, limits and bins
func (o *Mesh) derived() (err error) {

	// marker table: name => (id, dim)
	o.Ndim = 3
	o.Markers = map[string][]int{
		"BASE": {BaseMarker, 2},
		"ENDO": {EndoMarker, 2},
		"EPI":  {EpiMarker, 2},
	}

	// surface maps
	o.SurfCells = make(map[int][]*Cell)
	o.SurfVerts = make(map[int][]int)
	seen := make(map[int]map[int]bool)
	for _, c := range o.Cells {
		o.SurfCells[c.Tag] = append(o.SurfCells[c.Tag], c)
		if seen[c.Tag] == nil {
			seen[c.Tag] = make(map[int]bool)
		}
		for _, v := range c.Verts {
			if !seen[c.Tag][v] {
				seen[c.Tag][v] = true
				o.SurfVerts[c.Tag] = append(o.SurfVerts[c.Tag], v)
			}
		}
	}

	// limits
	o.Xmin = []float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	o.Xmax = []float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range o.Verts {
		for j := 0; j < 3; j++ {
			o.Xmin[j] = utl.Min(o.Xmin[j], v.C[j])
			o.Xmax[j] = utl.Max(o.Xmax[j], v.C[j])
		}
	}

	// bins
	δ := 1e-8
	xi := []float64{o.Xmin[0] - δ, o.Xmin[1] - δ, o.Xmin[2] - δ}
	xf := []float64{o.Xmax[0] + δ, o.Xmax[1] + δ, o.Xmax[2] + δ}
	err = o.VertBins.Init(xi, xf, 20)
	if err != nil {
		return chk.Err("cannot initialise bins for vertices: %v", err)
	}
	for _, v := range o.Verts {
		err = o.VertBins.Append(v.C, v.Id)
		if err != nil {
			return
		}
	}
	return
}

// FindVert locates the vertex at coordinates x. returns -1 if not found
func (o *Mesh) FindVert(x []float64) int {
	return o.VertBins.Find(x)
}

// Coords returns a fresh copy of all vertex coordinates
func (o *Mesh) Coords() (X [][]float64) {
	X = make([][]float64, len(o.Verts))
	for i, v := range o.Verts {
		X[i] = []float64{v.C[0], v.C[1], v.C[2]}
	}
	return
}

// SurfVolume computes the volume enclosed by a closed triangulated surface
// with outward normals, given vertex coordinates X
func SurfVolume(tris [][]int, X [][]float64) (vol float64) {
	for _, t := range tris {
		a, b, c := X[t[0]], X[t[1]], X[t[2]]
		vol += a[0]*(b[1]*c[2]-b[2]*c[1]) -
			a[1]*(b[0]*c[2]-b[2]*c[0]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])
	}
	return vol / 6.0
}

// SurfVolumeDeriv adds the derivative of SurfVolume with respect to each
// vertex coordinate into dvdx [nverts][3]
func SurfVolumeDeriv(tris [][]int, X [][]float64, dvdx [][]float64) {
	for _, t := range tris {
		a, b, c := X[t[0]], X[t[1]], X[t[2]]
		cross(dvdx[t[0]], b, c, 1.0/6.0)
		cross(dvdx[t[1]], c, a, 1.0/6.0)
		cross(dvdx[t[2]], a, b, 1.0/6.0)
	}
}

// cross accumulates coef * (u × v) into res
func cross(res, u, v []float64, coef float64) {
	res[0] += coef * (u[1]*v[2] - u[2]*v[1])
	res[1] += coef * (u[2]*v[0] - u[0]*v[2])
	res[2] += coef * (u[0]*v[1] - u[1]*v[0])
}

// simple-ellipsoid generator //////////////////////////////////////////////////////////////////////

func init() {
	geomAllocators["simple-ellipsoid"] = newSimpleEllipsoid
}

// EllipsoidPoint returns the point at parametric coordinates (u,v,λ) where
// u ∈ [0,2π) is the azimuth, v ∈ [0,π/2] runs from apex pole to base ring and
// λ ∈ [0,1] runs from endo to epi
func (o *GeoData) EllipsoidPoint(u, v, λ float64) (x []float64) {
	rl := (1-λ)*o.RlEndo + λ*o.RlEpi
	rs := (1-λ)*o.RsEndo + λ*o.RsEpi
	return []float64{
		-rl * math.Cos(v),
		rs * math.Sin(v) * math.Cos(u),
		rs * math.Sin(v) * math.Sin(u),
	}
}

// FiberTriad returns the fiber, sheet, and sheet-normal unit vectors at
// parametric coordinates (u,v,λ). The fiber helix angle varies linearly from
// AlphaEndo at λ=0 to AlphaEpi at λ=1, measured from the circumferential
// direction in the tangent plane
func (o *GeoData) FiberTriad(u, v, λ float64) (f0, s0, n0 []float64) {

	// degenerate apex pole
	if v < 1e-12 {
		f0 = []float64{0, 1, 0}
		s0 = []float64{-1, 0, 0}
		n0 = []float64{0, 0, 1}
		return
	}

	rl := (1-λ)*o.RlEndo + λ*o.RlEpi
	rs := (1-λ)*o.RsEndo + λ*o.RsEpi

	// circumferential: ∂x/∂u normalised
	ĉ := unit([]float64{0, -rs * math.Sin(v) * math.Sin(u), rs * math.Sin(v) * math.Cos(u)})

	// longitudinal (apex to base): ∂x/∂v normalised
	l := unit([]float64{rl * math.Sin(v), rs * math.Cos(v) * math.Cos(u), rs * math.Cos(v) * math.Sin(u)})

	// transmural sheet direction completes an orthonormal triad
	s0 = make([]float64, 3)
	cross(s0, ĉ, l, 1)
	s0 = unit(s0)

	// helix angle
	α := (1-λ)*o.AlphaEndo + λ*o.AlphaEpi
	α *= math.Pi / 180.0
	f0 = []float64{
		math.Cos(α)*ĉ[0] + math.Sin(α)*l[0],
		math.Cos(α)*ĉ[1] + math.Sin(α)*l[1],
		math.Cos(α)*ĉ[2] + math.Sin(α)*l[2],
	}
	n0 = make([]float64, 3)
	cross(n0, f0, s0, 1)
	return
}

// unit normalises a vector in place and returns it
func unit(v []float64) []float64 {
	n := math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
	if n < 1e-14 {
		chk.Panic("cannot normalise zero vector")
	}
	v[0] /= n
	v[1] /= n
	v[2] /= n
	return v
}

// newSimpleEllipsoid builds a truncated prolate ellipsoid: long axis along x,
// base plane at x=0, apex at x=-rl. The wall boundary is triangulated into
// ENDO, EPI and BASE surfaces; fiber triads are attached per vertex
func newSimpleEllipsoid(geo *GeoData) (msh *Mesh, err error) {

	// default dimensions if none given. divisions have their own fallbacks below
	if geo.RlEndo == 0 && geo.RsEndo == 0 && geo.RlEpi == 0 && geo.RsEpi == 0 {
		geo.RlEndo, geo.RsEndo = 1.6, 0.9
		geo.RlEpi, geo.RsEpi = 1.9, 1.2
		geo.AlphaEndo, geo.AlphaEpi = 60, -60
	}

	// check input
	if geo.RlEndo >= geo.RlEpi || geo.RsEndo >= geo.RsEpi {
		return nil, chk.Err("endocardial semi-axes (%g,%g) must be smaller than epicardial ones (%g,%g)",
			geo.RlEndo, geo.RsEndo, geo.RlEpi, geo.RsEpi)
	}
	if geo.Nu < 3 {
		geo.Nu = 48
	}
	if geo.Nv < 2 {
		geo.Nv = 12
	}
	if geo.Nlid < 1 {
		geo.Nlid = 2
	}

	msh = &Mesh{Geo: geo}
	nu, nv := geo.Nu, geo.Nv
	dv := (math.Pi / 2) / float64(nv)
	du := (2 * math.Pi) / float64(nu)

	// addv appends a vertex with fiber triad at parametric coordinates
	addv := func(u, v, λ float64, tag int) int {
		id := len(msh.Verts)
		msh.Verts = append(msh.Verts, &Vert{Id: id, Tag: tag, C: geo.EllipsoidPoint(u, v, λ)})
		f0, s0, n0 := geo.FiberTriad(u, v, λ)
		msh.F0 = append(msh.F0, f0)
		msh.S0 = append(msh.S0, s0)
		msh.N0 = append(msh.N0, n0)
		msh.Lam = append(msh.Lam, λ)
		return id
	}

	// addc appends a triangle cell
	addc := func(tag, a, b, c int) {
		msh.Cells = append(msh.Cells, &Cell{Id: len(msh.Cells), Tag: tag, Verts: []int{a, b, c}})
	}

	// shell builds one ellipsoidal surface (pole + rings) and returns the
	// vertex ids organised as rings[j][i] with j=0 the apex pole
	shell := func(λ float64, tag int) (pole int, rings [][]int) {
		pole = addv(0, 0, λ, tag)
		rings = make([][]int, nv)
		for j := 1; j <= nv; j++ {
			v := float64(j) * dv
			ring := make([]int, nu)
			for i := 0; i < nu; i++ {
				ring[i] = addv(float64(i)*du, v, λ, tag)
			}
			rings[j-1] = ring
		}
		return
	}

	// triangulate one shell; flip=true gives normals pointing away from the
	// long axis, flip=false towards it
	triangulate := func(pole int, rings [][]int, tag int, flip bool) {
		for i := 0; i < nu; i++ {
			a, b := rings[0][i], rings[0][(i+1)%nu]
			if flip {
				addc(tag, pole, b, a)
			} else {
				addc(tag, pole, a, b)
			}
		}
		for j := 0; j < nv-1; j++ {
			for i := 0; i < nu; i++ {
				a, b := rings[j][i], rings[j][(i+1)%nu]
				c, d := rings[j+1][i], rings[j+1][(i+1)%nu]
				if flip {
					addc(tag, a, d, c)
					addc(tag, a, b, d)
				} else {
					addc(tag, a, c, d)
					addc(tag, a, d, b)
				}
			}
		}
	}

	// endocardium: normals point into the cavity (outward of the wall)
	endoPole, endoRings := shell(0, EndoMarker)
	triangulate(endoPole, endoRings, EndoMarker, false)
	nEndoCells := len(msh.Cells)

	// epicardium: normals point away from the wall
	epiPole, epiRings := shell(1, EpiMarker)
	triangulate(epiPole, epiRings, EpiMarker, true)

	// basal annulus: radial rings from the endo ring to the epi ring at x=0,
	// normals pointing towards +x
	nlid := geo.Nlid
	prev := endoRings[nv-1]
	for k := 1; k <= nlid; k++ {
		λ := float64(k) / float64(nlid)
		var ring []int
		if k == nlid {
			ring = epiRings[nv-1]
		} else {
			ring = make([]int, nu)
			for i := 0; i < nu; i++ {
				ring[i] = addv(float64(i)*du, math.Pi/2, λ, BaseMarker)
			}
		}
		for i := 0; i < nu; i++ {
			a, b := prev[i], prev[(i+1)%nu]
			c, d := ring[i], ring[(i+1)%nu]
			addc(BaseMarker, a, c, d)
			addc(BaseMarker, a, d, b)
		}
		prev = ring
	}

	// auxiliary vertex at the centre of the basal lid; carries no surface tag
	msh.lidCentre = len(msh.Verts)
	msh.Verts = append(msh.Verts, &Vert{Id: msh.lidCentre, Tag: 0, C: []float64{0, 0, 0}})
	msh.F0 = append(msh.F0, []float64{0, 1, 0})
	msh.S0 = append(msh.S0, []float64{-1, 0, 0})
	msh.N0 = append(msh.N0, []float64{0, 0, 1})
	msh.Lam = append(msh.Lam, 0)

	// cavity boundary: endo triangles flipped so normals point out of the
	// cavity, plus the lid fan closing the base
	for _, c := range msh.Cells[:nEndoCells] {
		msh.CavityTris = append(msh.CavityTris, []int{c.Verts[0], c.Verts[2], c.Verts[1]})
	}
	endoBase := endoRings[nv-1]
	for i := 0; i < nu; i++ {
		a, b := endoBase[i], endoBase[(i+1)%nu]
		msh.CavityTris = append(msh.CavityTris, []int{msh.lidCentre, a, b})
	}

	// wall boundary: epi + endo (as generated, normals out of the wall) + base
	for _, c := range msh.Cells {
		msh.WallTris = append(msh.WallTris, c.Verts)
	}
	return
}
