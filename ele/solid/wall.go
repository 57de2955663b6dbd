// Copyright 2017 The Pulse-Adjoint Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package solid implements the reduced kinematic element of the ventricular
// wall. One element covers the whole wall; its unknowns are the amplitudes
// of the analytic deformation modes plus one wall-volume pressure enforcing
// incompressibility of the myocardium as a whole
package solid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"

	"github.com/finsberg/pulse-adjoint/ele"
	"github.com/finsberg/pulse-adjoint/inp"
	"github.com/finsberg/pulse-adjoint/mdl/solid"
)

// ipoint holds precomputed data at one integration point of the wall
type ipoint struct {
	x          []float64     // reference coordinates
	w          float64       // quadrature weight times the metric determinant
	g          [][][]float64 // mode gradients [nq][3][3]
	f0, s0, n0 []float64     // fiber triad
}

// Wall implements the reduced kinematic model of the left-ventricular wall
type Wall struct {

	// basic data
	Idx  int         // index of this element in the region
	Reg  *inp.Region // region data
	Msh  *inp.Mesh   // the wall mesh
	Ndim int         // space dimension

	// parameters and properties
	Mdl    solid.Model // material model
	ActFcn fun.Func    // active stress function; nil means passive

	// modes and integration points
	Modes *Modes    // deformation modes
	Nq    int       // number of deformation modes
	Ny    int       // total number of unknowns = Nq + 1
	ips   []*ipoint // integration points

	// vertex data
	X0    [][]float64   // reference coordinates of all vertices
	Φ     [][][]float64 // mode values at the vertices [nq][nverts][3]
	Vw0   float64       // reference wall volume
	mbase [][]float64   // spring matrix ∫ φm·φn dS over the basal annulus

	// natural boundary conditions
	NatBcs []*ele.NaturalBc

	// equations
	Umap []int // assembly map (global equation numbers)

	// scratchpad. computed @ each ip
	kin  *solid.Kin  // kinematics
	sig  [][]float64 // second Piola-Kirchhoff stress
	pk1  [][]float64 // first Piola-Kirchhoff stress
	xcur [][]float64 // current vertex coordinates
	dvdx [][]float64 // volume derivative w.r.t. vertex coordinates
	dvq  []float64   // volume derivative w.r.t. modal amplitudes
	yl   []float64   // local copy of the unknowns
	res  []float64   // local residual
}

// register element
func init() {

	// information allocator
	ele.SetInfoFunc("lv-wall", func(sim *inp.Simulation, reg *inp.Region, edat *inp.ElemData) *ele.Info {
		dofs := []string{"q0", "q1", "q2", "q3", "q4", "q5", "pw"}
		y2f := make(map[string]string)
		for _, d := range dofs {
			y2f[d] = "f" + d
		}
		return &ele.Info{Dofs: dofs, Y2F: y2f}
	})

	// element allocator
	ele.SetAllocator("lv-wall", func(sim *inp.Simulation, reg *inp.Region, edat *inp.ElemData) ele.Element {
		o, err := newWall(sim, reg, edat)
		if err != nil {
			chk.Panic("cannot allocate lv-wall element:\n%v", err)
		}
		return o
	})
}

// newWall allocates the wall element and precomputes mode values, mode
// gradients, the spring matrix and the reference wall volume
func newWall(sim *inp.Simulation, reg *inp.Region, edat *inp.ElemData) (o *Wall, err error) {

	// basic data
	o = new(Wall)
	for i, ed := range reg.ElemsData {
		if ed == edat {
			o.Idx = i
		}
	}
	o.Reg = reg
	o.Msh = reg.Msh
	o.Ndim = o.Msh.Ndim

	// material model
	mat := sim.MatModels.Get(edat.Mat)
	if mat == nil {
		return nil, chk.Err("cannot find material %q for element {type=%q, tag=%d}", edat.Mat, edat.Type, edat.Tag)
	}
	if mat.Solid == nil {
		return nil, chk.Err("material %q does not define a solid model", edat.Mat)
	}
	o.Mdl = mat.Solid

	// modes and mode values at the vertices
	geo := o.Msh.Geo
	o.Modes = NewModes(geo)
	o.Nq = o.Modes.Num()
	o.Ny = o.Nq + 1
	nverts := len(o.Msh.Verts)
	o.X0 = o.Msh.Coords()
	o.Φ = make([][][]float64, o.Nq)
	for m := 0; m < o.Nq; m++ {
		o.Φ[m] = la.MatAlloc(nverts, 3)
		for i := 0; i < nverts; i++ {
			o.Modes.Value(o.Φ[m][i], m, o.X0[i], o.Msh.Lam[i])
		}
	}

	// integration points
	err = o.setIps(edat)
	if err != nil {
		return nil, err
	}

	// reference wall volume and spring matrix
	o.Vw0 = inp.SurfVolume(o.Msh.WallTris, o.X0)
	o.setSpringMatrix()

	// scratchpad
	o.kin = new(solid.Kin)
	o.kin.Init()
	o.sig = la.MatAlloc(3, 3)
	o.pk1 = la.MatAlloc(3, 3)
	o.xcur = la.MatAlloc(nverts, 3)
	o.dvdx = la.MatAlloc(nverts, 3)
	o.dvq = make([]float64, o.Nq)
	o.yl = make([]float64, o.Ny)
	o.res = make([]float64, o.Ny)
	return
}

// setIps builds the integration points on the parametric (u,v,λ) grid with
// uniformly spaced points along the periodic azimuth and Gauss-Legendre
// points along the meridian and through the wall
func (o *Wall) setIps(edat *inp.ElemData) (err error) {

	// rule sizes
	nu := edat.Nip
	if nu < 1 {
		nu = 8
	}
	nv := nu / 2
	if nv < 2 {
		nv = 2
	}
	nl := edat.Nipt
	if nl < 1 {
		nl = 3
	}
	xv, wv, err := gaussPoints(nv)
	if err != nil {
		return
	}
	xl, wl, err := gaussPoints(nl)
	if err != nil {
		return
	}

	// tangent vectors x,u x,v and x,λ as columns of the metric matrix
	geo := o.Msh.Geo
	Δrl := geo.RlEpi - geo.RlEndo
	Δrs := geo.RsEpi - geo.RsEndo
	J := la.MatAlloc(3, 3)
	Ji := la.MatAlloc(3, 3)
	wu := 2.0 * math.Pi / float64(nu)
	for i := 0; i < nu; i++ {
		u := float64(i) * wu
		for j := 0; j < nv; j++ {
			v := (xv[j] + 1.0) / 2.0 * math.Pi / 2.0
			wvj := wv[j] * math.Pi / 4.0
			for k := 0; k < nl; k++ {
				λ := (xl[k] + 1.0) / 2.0
				wlk := wl[k] / 2.0

				rl := (1-λ)*geo.RlEndo + λ*geo.RlEpi
				rs := (1-λ)*geo.RsEndo + λ*geo.RsEpi
				sv, cv := math.Sin(v), math.Cos(v)
				su, cu := math.Sin(u), math.Cos(u)
				J[0][0], J[0][1], J[0][2] = 0, rl*sv, -Δrl*cv
				J[1][0], J[1][1], J[1][2] = -rs*sv*su, rs*cv*cu, Δrs*sv*cu
				J[2][0], J[2][1], J[2][2] = rs*sv*cu, rs*cv*su, Δrs*sv*su
				det := solid.Det3(J)
				err = solid.Inv3(Ji, J, det)
				if err != nil {
					return chk.Err("metric is singular at (u,v,λ)=(%g,%g,%g)", u, v, λ)
				}
				gλ := []float64{Ji[2][0], Ji[2][1], Ji[2][2]}

				ip := &ipoint{
					x: geo.EllipsoidPoint(u, v, λ),
					w: wu * wvj * wlk * math.Abs(det),
					g: make([][][]float64, o.Nq),
				}
				for m := 0; m < o.Nq; m++ {
					ip.g[m] = la.MatAlloc(3, 3)
					o.Modes.Grad(ip.g[m], m, ip.x, λ, gλ)
				}
				ip.f0, ip.s0, ip.n0 = geo.FiberTriad(u, v, λ)
				o.ips = append(o.ips, ip)
			}
		}
	}
	return
}

// setSpringMatrix integrates φm·φn over the basal annulus with the midedge
// rule, exact for the quadratic integrand
func (o *Wall) setSpringMatrix() {
	o.mbase = la.MatAlloc(o.Nq, o.Nq)
	xm := make([]float64, 3)
	φ := la.MatAlloc(o.Nq, 3)
	for _, c := range o.Msh.SurfCells[inp.BaseMarker] {
		va, vb, vc := c.Verts[0], c.Verts[1], c.Verts[2]
		a, b, cc := o.X0[va], o.X0[vb], o.X0[vc]
		cr0 := (b[1]-a[1])*(cc[2]-a[2]) - (b[2]-a[2])*(cc[1]-a[1])
		cr1 := (b[2]-a[2])*(cc[0]-a[0]) - (b[0]-a[0])*(cc[2]-a[2])
		cr2 := (b[0]-a[0])*(cc[1]-a[1]) - (b[1]-a[1])*(cc[0]-a[0])
		area := 0.5 * math.Sqrt(cr0*cr0+cr1*cr1+cr2*cr2)
		edges := [][2]int{{va, vb}, {vb, vc}, {vc, va}}
		for _, e := range edges {
			p, q := o.X0[e[0]], o.X0[e[1]]
			xm[0], xm[1], xm[2] = (p[0]+q[0])/2, (p[1]+q[1])/2, (p[2]+q[2])/2
			λm := (o.Msh.Lam[e[0]] + o.Msh.Lam[e[1]]) / 2
			for m := 0; m < o.Nq; m++ {
				o.Modes.Value(φ[m], m, xm, λm)
			}
			for m := 0; m < o.Nq; m++ {
				for n := 0; n < o.Nq; n++ {
					o.mbase[m][n] += area / 3.0 * (φ[m][0]*φ[n][0] + φ[m][1]*φ[n][1] + φ[m][2]*φ[n][2])
				}
			}
		}
	}
}

// Id returns the element Id
func (o *Wall) Id() int { return o.Idx }

// Neqs returns the number of equations
func (o *Wall) Neqs() int { return o.Ny }

// SetEqs sets the global equation numbers
func (o *Wall) SetEqs(eqs []int) error {
	if len(eqs) != o.Ny {
		return chk.Err("number of equations (%d) does not match the number of unknowns (%d)", len(eqs), o.Ny)
	}
	o.Umap = make([]int, o.Ny)
	copy(o.Umap, eqs)
	return nil
}

// SetActivation sets the active stress function
func (o *Wall) SetActivation(f fun.Func) { o.ActFcn = f }

// SetNatBcs sets a natural boundary condition on a tagged surface
func (o *Wall) SetNatBcs(tag int, key string, f fun.Func, extra string) error {
	switch key {
	case "qn", "spring":
	default:
		return chk.Err("natural boundary condition key %q is unknown for the lv-wall element", key)
	}
	o.NatBcs = append(o.NatBcs, &ele.NaturalBc{Key: key, Tag: tag, Fcn: f, Extra: extra, Scale: 1, ScalePrev: 0})
	return nil
}

// NatBc finds a natural boundary condition; returns nil if absent
func (o *Wall) NatBc(key string, tag int) *ele.NaturalBc {
	for _, nbc := range o.NatBcs {
		if nbc.Key == key && nbc.Tag == tag {
			return nbc
		}
	}
	return nil
}

// AddToRhs adds -R to the global residual vector
func (o *Wall) AddToRhs(fb []float64, sol *ele.Solution) (err error) {

	// local state
	for i := 0; i < o.Ny; i++ {
		o.yl[i] = sol.Y[o.Umap[i]]
		o.res[i] = 0
	}
	q := o.yl[:o.Nq]
	pw := o.yl[o.Nq]

	// activation
	o.kin.Ta = 0
	if o.ActFcn != nil {
		o.kin.Ta = o.ActFcn.F(sol.T, nil)
	}

	// internal forces
	for _, ip := range o.ips {
		o.defgrad(q, ip)
		err = o.kin.CalcFromF()
		if err != nil {
			return
		}
		err = o.Mdl.Stress(o.sig, o.kin)
		if err != nil {
			return
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				o.pk1[i][j] = o.kin.F[i][0]*o.sig[0][j] + o.kin.F[i][1]*o.sig[1][j] + o.kin.F[i][2]*o.sig[2][j]
			}
		}
		for m := 0; m < o.Nq; m++ {
			s := 0.0
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					s += o.pk1[i][j] * ip.g[m][i][j]
				}
			}
			o.res[m] += ip.w * s
		}
	}

	// current configuration
	o.deform(q)

	// natural boundary conditions
	for _, nbc := range o.NatBcs {
		switch nbc.Key {
		case "qn":
			p := nbc.Val(sol.T, sol.T, nil)
			o.volumeDeriv(o.Msh.CavityTris)
			for m := 0; m < o.Nq; m++ {
				o.res[m] -= p * o.dvq[m]
			}
		case "spring":
			kspr := nbc.Val(sol.T, sol.T, nil)
			for m := 0; m < o.Nq; m++ {
				for n := 0; n < o.Nq; n++ {
					o.res[m] += kspr * o.mbase[m][n] * q[n]
				}
			}
		}
	}

	// wall volume constraint
	o.volumeDeriv(o.Msh.WallTris)
	for m := 0; m < o.Nq; m++ {
		o.res[m] += pw * o.dvq[m]
	}
	o.res[o.Nq] = inp.SurfVolume(o.Msh.WallTris, o.xcur) - o.Vw0

	// assemble
	for i := 0; i < o.Ny; i++ {
		fb[o.Umap[i]] -= o.res[i]
	}
	return
}

// ConstraintRows builds the rows enforcing a zero prescribed displacement
// component on all vertices of a tagged surface. Each vertex yields one
// linear relation over the modal amplitudes; null and duplicated rows are
// merged away
func (o *Wall) ConstraintRows(tag int, key string) (rows [][]float64) {
	var d int
	switch key {
	case "ux":
		d = 0
	case "uy":
		d = 1
	case "uz":
		d = 2
	default:
		return nil
	}
	tol := 1e-12
	for _, vid := range o.Msh.SurfVerts[tag] {
		row := make([]float64, o.Ny)
		null := true
		for m := 0; m < o.Nq; m++ {
			if math.Abs(o.Φ[m][vid][d]) > tol {
				row[m] = o.Φ[m][vid][d]
				null = false
			}
		}
		if null {
			continue
		}
		dup := false
		for _, r := range rows {
			same := true
			for i := 0; i < o.Ny; i++ {
				if math.Abs(r[i]-row[i]) > tol {
					same = false
					break
				}
			}
			if same {
				dup = true
				break
			}
		}
		if !dup {
			rows = append(rows, row)
		}
	}
	return
}

// EnclosedVolume returns the volume enclosed by the named surface at the
// current state. "ENDO" bounds the cavity by the endocardium and the basal
// lid; "EPI" bounds the full ventricle by the epicardium and the base plane
func (o *Wall) EnclosedVolume(surf string, sol *ele.Solution) (float64, error) {
	for i := 0; i < o.Ny; i++ {
		o.yl[i] = sol.Y[o.Umap[i]]
	}
	o.deform(o.yl[:o.Nq])
	switch surf {
	case "ENDO":
		return inp.SurfVolume(o.Msh.CavityTris, o.xcur), nil
	case "EPI":
		return inp.SurfVolume(o.Msh.CavityTris, o.xcur) + inp.SurfVolume(o.Msh.WallTris, o.xcur), nil
	}
	return 0, chk.Err("cannot compute the volume enclosed by surface %q", surf)
}

// MeanFiberStrain returns the Green-Lagrange strain along the fiber
// direction (I4f-1)/2 averaged over the wall at the current state
func (o *Wall) MeanFiberStrain(sol *ele.Solution) (strain float64, err error) {
	for i := 0; i < o.Ny; i++ {
		o.yl[i] = sol.Y[o.Umap[i]]
	}
	q := o.yl[:o.Nq]
	vol := 0.0
	for _, ip := range o.ips {
		o.defgrad(q, ip)
		err = o.kin.CalcFromF()
		if err != nil {
			return
		}
		strain += ip.w * 0.5 * (o.kin.I4f - 1.0)
		vol += ip.w
	}
	return strain / vol, nil
}

// OutIpCoords returns the coordinates of the integration points
func (o *Wall) OutIpCoords() (C [][]float64) {
	C = make([][]float64, len(o.ips))
	for i, ip := range o.ips {
		C[i] = ip.x
	}
	return
}

// OutIpKeys returns the keys of the values extracted at integration points
func (o *Wall) OutIpKeys() []string {
	return append(StressKeys(), "p", "q", "J", "I4f")
}

// OutIpVals extracts the Cauchy stress components, the p/q invariants and
// the kinematic invariants at all integration points
func (o *Wall) OutIpVals(M *ele.IpsMap, sol *ele.Solution) {
	for i := 0; i < o.Ny; i++ {
		o.yl[i] = sol.Y[o.Umap[i]]
	}
	q := o.yl[:o.Nq]
	o.kin.Ta = 0
	if o.ActFcn != nil {
		o.kin.Ta = o.ActFcn.F(sol.T, nil)
	}
	nip := len(o.ips)
	σ := la.MatAlloc(3, 3)
	σman := make([]float64, 6)
	for idx, ip := range o.ips {
		o.defgrad(q, ip)
		err := o.kin.CalcFromF()
		if err != nil {
			chk.Panic("cannot compute kinematics for output:\n%v", err)
		}
		err = solid.CauchyStress(σ, o.Mdl, o.kin)
		if err != nil {
			chk.Panic("cannot compute stresses for output:\n%v", err)
		}
		symmetrise(σ)
		tsr.Ten2Man(σman, σ)
		M.Set("sx", idx, nip, σ[0][0])
		M.Set("sy", idx, nip, σ[1][1])
		M.Set("sz", idx, nip, σ[2][2])
		M.Set("sxy", idx, nip, σ[0][1])
		M.Set("syz", idx, nip, σ[1][2])
		M.Set("szx", idx, nip, σ[2][0])
		M.Set("p", idx, nip, tsr.M_p(σman))
		M.Set("q", idx, nip, tsr.M_q(σman))
		M.Set("J", idx, nip, o.kin.J)
		M.Set("I4f", idx, nip, o.kin.I4f)
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// defgrad sets the deformation gradient F = I + Σm qm·∇φm and the fiber
// triad of one integration point into the kinematics scratchpad
func (o *Wall) defgrad(q []float64, ip *ipoint) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			f := 0.0
			if i == j {
				f = 1.0
			}
			for m := 0; m < o.Nq; m++ {
				f += q[m] * ip.g[m][i][j]
			}
			o.kin.F[i][j] = f
		}
	}
	o.kin.F0, o.kin.S0, o.kin.N0 = ip.f0, ip.s0, ip.n0
}

// deform computes the current vertex coordinates from the modal amplitudes
func (o *Wall) deform(q []float64) {
	for i := 0; i < len(o.X0); i++ {
		for d := 0; d < 3; d++ {
			x := o.X0[i][d]
			for m := 0; m < o.Nq; m++ {
				x += q[m] * o.Φ[m][i][d]
			}
			o.xcur[i][d] = x
		}
	}
}

// symmetrise removes the roundoff asymmetry of σ = F·S·Fᵀ/J before the
// Mandel conversion
func symmetrise(σ [][]float64) {
	σ[0][1] = 0.5 * (σ[0][1] + σ[1][0])
	σ[1][2] = 0.5 * (σ[1][2] + σ[2][1])
	σ[2][0] = 0.5 * (σ[2][0] + σ[0][2])
	σ[1][0] = σ[0][1]
	σ[2][1] = σ[1][2]
	σ[0][2] = σ[2][0]
}

// volumeDeriv computes the derivative of the volume enclosed by tris with
// respect to the modal amplitudes at the current configuration
func (o *Wall) volumeDeriv(tris [][]int) {
	for i := 0; i < len(o.dvdx); i++ {
		o.dvdx[i][0], o.dvdx[i][1], o.dvdx[i][2] = 0, 0, 0
	}
	inp.SurfVolumeDeriv(tris, o.xcur, o.dvdx)
	for m := 0; m < o.Nq; m++ {
		s := 0.0
		for i := 0; i < len(o.dvdx); i++ {
			s += o.dvdx[i][0]*o.Φ[m][i][0] + o.dvdx[i][1]*o.Φ[m][i][1] + o.dvdx[i][2]*o.Φ[m][i][2]
		}
		o.dvq[m] = s
	}
}

// gaussPoints returns the Gauss-Legendre abscissae and weights on [-1,1]
func gaussPoints(n int) (x, w []float64, err error) {
	switch n {
	case 2:
		x = []float64{-0.5773502691896257, 0.5773502691896257}
		w = []float64{1, 1}
	case 3:
		x = []float64{-0.7745966692414834, 0, 0.7745966692414834}
		w = []float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0}
	case 4:
		x = []float64{-0.8611363115940526, -0.3399810435848563, 0.3399810435848563, 0.8611363115940526}
		w = []float64{0.3478548451374538, 0.6521451548625461, 0.6521451548625461, 0.3478548451374538}
	case 5:
		x = []float64{-0.9061798459386640, -0.5384693101056831, 0, 0.5384693101056831, 0.9061798459386640}
		w = []float64{0.2369268850561891, 0.4786286704993665, 0.5688888888888889, 0.4786286704993665, 0.2369268850561891}
	default:
		err = chk.Err("cannot find Gauss-Legendre rule with %d points", n)
	}
	return
}
