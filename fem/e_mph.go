// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/luzpaz/FEBio/inp"
	"github.com/luzpaz/FEBio/mdl"
	"github.com/luzpaz/FEBio/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// ElemMph implements a multiphasic element: an elastic solid skeleton saturated by a fluid carrying
// charged solutes, with solid-bound molecules and chemical reactions.
//
//  local unknowns of node m (ndpn = 4 + nsol):  u_x u_y u_z p c_0 ... c_(nsol-1)
//  location vector: [nverts*ndpn] followed by the rigid rotations [nverts*3]
//
// Interface vertices (shared with the back face of a shell) take their displacements from the
// U,V,W slots and, if active, their pressure and concentrations from Q and D_k
type ElemMph struct {

	// basic data
	Cell   *inp.Cell    // the cell structure
	Mat    *mdl.Mixture // material model
	Lay    Layout       // nodal degrees of freedom
	Nodes  []*Node      // [nverts] nodes
	Steady bool         // steady-state kernels
	Nu     int          // number of displacement+pressure+concentration unknowns = nverts * ndpn
	Ndpn   int          // number of unknowns per node
	Nsol   int          // number of solutes
	Nsbm   int          // number of solid-bound molecules

	// integration points and reference geometry
	IpsElem []shp.Ipoint  // integration points of element
	S       [][]float64   // [nip][nverts] shape functions
	G0      [][][]float64 // [nip][nverts][3] derivatives of shape functions w.r.t reference coordinates
	W0      []float64     // [nip] reference volume weight = detJ0 * w

	// material points
	States    []*mdl.State // [nip] current states
	StatesBkp []*mdl.State // [nip] states at the beginning of the time step
	trial     []*mdl.State // [nip] states computed by Update; swapped with States by Commit

	// scratchpad. computed @ each ip
	pt *mdl.Point  // transport quantities
	Fi [][]float64 // inverse of F
	g  [][]float64 // [nverts][3] spatial gradients of shape functions
	σe [][]float64 // effective stress
	ẑ  []float64   // [nreact] molar supplies
	je []float64   // current density divided by the Faraday constant (without penalty)
	tg *tgScratch  // tangent scratchpad
}

// NewElemMph allocates a new multiphasic element
func NewElemMph(cell *inp.Cell, edat *inp.ElemData, mat *mdl.Mixture, lay Layout, nodes []*Node, steady bool) (o *ElemMph, err error) {

	// check
	if mat.Nsol() != lay.Nsol {
		return nil, chk.Err("cell %d: material %q has %d solutes but the layout has %d", cell.Id, mat.Name, mat.Nsol(), lay.Nsol)
	}
	if len(nodes) != len(cell.Verts) {
		return nil, chk.Err("cell %d: number of nodes (%d) must be equal to the number of vertices (%d)", cell.Id, len(nodes), len(cell.Verts))
	}

	// basic data
	o = new(ElemMph)
	o.Cell = cell
	o.Mat = mat
	o.Lay = lay
	o.Nodes = nodes
	o.Steady = steady
	o.Nsol = mat.Nsol()
	o.Nsbm = mat.Nsbm()
	o.Ndpn = lay.Ndpn()
	nverts := len(cell.Verts)
	o.Nu = nverts * o.Ndpn

	// integration points
	o.IpsElem, err = shp.GetIps(cell.Type, edat.Nip)
	if err != nil {
		return nil, err
	}
	nip := len(o.IpsElem)

	// reference geometry
	X := la.MatAlloc(3, nverts)
	for m, n := range nodes {
		for i := 0; i < 3; i++ {
			X[i][m] = n.X0[i]
		}
	}
	sh := cell.Shp.GetCopy()
	o.S = la.MatAlloc(nip, nverts)
	o.G0 = make([][][]float64, nip)
	o.W0 = make([]float64, nip)
	for idx, ip := range o.IpsElem {
		err = sh.CalcAtIp(X, ip, true)
		if err != nil {
			if e, ok := err.(*shp.DetError); ok {
				return nil, &DegenerateElementError{cell.Id, idx, e.Det, 0}
			}
			return nil, err
		}
		copy(o.S[idx], sh.S)
		o.G0[idx] = la.MatClone(sh.G)
		o.W0[idx] = sh.J * ip[3]
	}

	// material points
	o.States = make([]*mdl.State, nip)
	o.StatesBkp = make([]*mdl.State, nip)
	o.trial = make([]*mdl.State, nip)
	for idx := 0; idx < nip; idx++ {
		o.States[idx] = mat.NewState()
		o.StatesBkp[idx] = o.States[idx].GetCopy()
		o.trial[idx] = o.States[idx].GetCopy()
	}

	// scratchpad
	o.pt = mdl.NewPoint(o.Nsol)
	o.Fi = la.MatAlloc(3, 3)
	o.g = la.MatAlloc(nverts, 3)
	o.σe = la.MatAlloc(3, 3)
	o.ẑ = make([]float64, len(mat.Reacts))
	o.je = make([]float64, 3)
	return
}

// Id returns the cell Id
func (o *ElemMph) Id() int { return o.Cell.Id }

// Nlm returns the size of the location vector
func (o *ElemMph) Nlm() int { return o.Nu + 3*len(o.Nodes) }

// Slot returns the nodal slot holding the local unknown b of local vertex m
func (o *ElemMph) Slot(m, b int) int {
	iface := o.Cell.IsIface(m)
	switch {
	case b < 3:
		if iface {
			return DOF_U + b
		}
		return DOF_X + b
	case b == 3:
		if iface && o.Nodes[m].Active[DOF_Q] {
			return DOF_Q
		}
		return DOF_P
	}
	k := b - 4
	if iface && o.Nodes[m].Active[o.Lay.D(k)] {
		return o.Lay.D(k)
	}
	return o.Lay.C(k)
}

// ActivateDofs marks the nodal degrees of freedom required by this element
func (o *ElemMph) ActivateDofs() (err error) {
	for m, n := range o.Nodes {
		if o.Cell.IsIface(m) {
			if !n.Shell {
				return &MalformedDofMapError{o.Cell.Id, n.Vert.Id, DOF_U}
			}
			n.Active[DOF_U], n.Active[DOF_V], n.Active[DOF_W] = true, true, true
			n.Active[DOF_Q] = true
			for k := 0; k < o.Nsol; k++ {
				n.Active[o.Lay.D(k)] = true
			}
			continue
		}
		n.Active[DOF_X], n.Active[DOF_Y], n.Active[DOF_Z] = true, true, true
		n.Active[DOF_P] = true
		for k := 0; k < o.Nsol; k++ {
			n.Active[o.Lay.C(k)] = true
		}
	}
	return
}

// UnpackLM returns the location vector: the equation numbers of the local unknowns followed by
// the equation numbers of the rigid rotations
func (o *ElemMph) UnpackLM() (lm []int, err error) {
	lm = make([]int, o.Nlm())
	for m, n := range o.Nodes {
		if o.Cell.IsIface(m) && !n.Shell {
			return nil, &MalformedDofMapError{o.Cell.Id, n.Vert.Id, DOF_U}
		}
		for b := 0; b < o.Ndpn; b++ {
			lm[m*o.Ndpn+b] = n.Eq[o.Slot(m, b)]
		}
		for r := 0; r < 3; r++ {
			lm[o.Nu+3*m+r] = n.Eq[DOF_RU+r]
		}
	}
	return
}

// Activate sets the states of material points from the current nodal values
func (o *ElemMph) Activate() (err error) {
	for idx, s := range o.States {
		err = o.updateState(s, idx, 0, false)
		if err != nil {
			return
		}
		s.Solid.Jp = s.Solid.J
		s.Fluid.Phi0p = s.Fluid.Phi0
		o.storeContent(s)
		o.StatesBkp[idx].Set(s)
	}
	return
}

// Reset resets the states of material points
func (o *ElemMph) Reset() {
	for idx := range o.States {
		o.States[idx] = o.Mat.NewState()
		o.StatesBkp[idx].Set(o.States[idx])
	}
}

// PreSolveUpdate stores the beginning-of-step quantities and a backup of states
func (o *ElemMph) PreSolveUpdate() {
	for idx, s := range o.States {
		s.Solid.Jp = s.Solid.J
		s.Fluid.Phi0p = s.Fluid.Phi0
		o.storeContent(s)
		if s.Solutes != nil {
			copy(s.Solutes.Sbmrp, s.Solutes.Sbmr)
		}
		for r, react := range o.Mat.Reacts {
			react.InitializeElementData(s.Rdata[r])
		}
		o.StatesBkp[idx].Set(s)
	}
}

// Update computes the states of material points from the current nodal values into trial
// buffers. Current states are not modified; see Commit
//  Note: a non-positive Jacobian is returned as *DegenerateElementError
func (o *ElemMph) Update(dt float64) (err error) {
	for idx, s := range o.trial {
		s.Set(o.States[idx])
		err = o.updateState(s, idx, dt, true)
		if err != nil {
			return
		}
	}
	return
}

// Commit makes the trial states current
func (o *ElemMph) Commit() {
	o.States, o.trial = o.trial, o.States
}

// Restore recovers the states of the beginning of the step
func (o *ElemMph) Restore() {
	for idx, s := range o.States {
		s.Set(o.StatesBkp[idx])
	}
}

// Residual computes the element residual: external minus internal "forces"
//  fe -- [nlm] residual; the entries of the rigid rotations are zero
func (o *ElemMph) Residual(fe []float64, dt float64) (err error) {
	if o.Steady {
		return o.residualSteady(fe, dt)
	}
	return o.residualTransient(fe, dt)
}

// residualTransient computes the residual of the transient formulation
func (o *ElemMph) residualTransient(fe []float64, dt float64) (err error) {
	la.VecFill(fe, 0)
	nsol := o.Nsol
	for idx := range o.IpsElem {

		// state and transport quantities
		s := o.States[idx]
		err = o.ipvars(s, idx)
		if err != nil {
			return
		}
		S := o.S[idx]
		J := s.Solid.J
		dv := J * o.W0[idx]
		φw := o.pt.Φw
		w := o.pt.W

		// sources
		φhat := o.supplies(s, φw)
		divv := (J - s.Solid.Jp) / (dt * J)

		// residual
		for m := range o.Nodes {
			r := m * o.Ndpn
			gm := o.g[m]
			for i := 0; i < 3; i++ {
				fe[r+i] -= (s.Solid.Sig[i][0]*gm[0] + s.Solid.Sig[i][1]*gm[1] + s.Solid.Sig[i][2]*gm[2]) * dv
			}
			fe[r+3] -= dt * (mdl.Dot3(w, gm) + (φhat-divv)*S[m]) * dv
			for k := 0; k < nsol; k++ {
				sol := s.Solutes
				T := φw*sol.Ca[k] - sol.Crp[k]/J
				fe[r+4+k] -= dt * (o.effFlux(s, k, gm) + S[m]*(o.soluteSupply(k, φw)-T/dt)) * dv
			}
		}
	}
	return
}

// residualSteady computes the residual of the steady-state formulation
func (o *ElemMph) residualSteady(fe []float64, dt float64) (err error) {
	la.VecFill(fe, 0)
	nsol := o.Nsol
	for idx := range o.IpsElem {

		// state and transport quantities
		s := o.States[idx]
		err = o.ipvars(s, idx)
		if err != nil {
			return
		}
		S := o.S[idx]
		dv := s.Solid.J * o.W0[idx]
		φw := o.pt.Φw
		w := o.pt.W
		φhat := o.supplies(s, φw)

		// residual
		for m := range o.Nodes {
			r := m * o.Ndpn
			gm := o.g[m]
			for i := 0; i < 3; i++ {
				fe[r+i] -= (s.Solid.Sig[i][0]*gm[0] + s.Solid.Sig[i][1]*gm[1] + s.Solid.Sig[i][2]*gm[2]) * dv
			}
			fe[r+3] -= dt * (mdl.Dot3(w, gm) + φhat*S[m]) * dv
			for k := 0; k < nsol; k++ {
				fe[r+4+k] -= dt * (o.effFlux(s, k, gm) + S[m]*o.soluteSupply(k, φw)) * dv
			}
		}
	}
	return
}

// Encode encodes internal variables
func (o *ElemMph) Encode(enc Encoder) (err error) {
	for idx, s := range o.States {
		err = enc.Encode(s)
		if err != nil {
			return chk.Err("element %d: cannot encode state %d:\n%v", o.Cell.Id, idx, err)
		}
	}
	return
}

// Decode decodes internal variables
func (o *ElemMph) Decode(dec Decoder) (err error) {
	for idx, s := range o.States {
		var tmp mdl.State
		err = dec.Decode(&tmp)
		if err != nil {
			return chk.Err("element %d: cannot decode state %d:\n%v", o.Cell.Id, idx, err)
		}
		if !sameShape(s, &tmp) {
			return chk.Err("element %d: state %d in file does not match the material %q", o.Cell.Id, idx, o.Mat.Name)
		}
		s.Set(&tmp)
		o.StatesBkp[idx].Set(s)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// updateState computes the state at integration point idx from the current nodal values
//  evolve -- integrate solid-bound molecules and update the element data of reactions
func (o *ElemMph) updateState(s *mdl.State, idx int, dt float64, evolve bool) (err error) {

	// deformation gradient
	J, err := o.deformation(s.Solid.F, idx)
	if err != nil {
		return
	}
	s.Solid.J = J

	// solid-bound molecules and solid volume fraction
	if evolve && o.Nsbm > 0 {
		o.Mat.UpdateSolidBoundMolecules(s, dt)
	}
	s.Fluid.Phi0 = o.Mat.SolidReferentialVolumeFraction(s)
	if J <= s.Fluid.Phi0 {
		return &DegenerateElementError{o.Cell.Id, idx, J, s.Fluid.Phi0}
	}

	// spatial gradients
	o.gradients(s.Solid.F, idx)

	// pressure, concentrations and gradients
	S := o.S[idx]
	s.Fluid.P = 0
	la.VecFill(s.Fluid.GradP, 0)
	for k := 0; k < o.Nsol; k++ {
		s.Solutes.C[k] = 0
		la.VecFill(s.Solutes.GradC[k], 0)
	}
	for m, n := range o.Nodes {
		p := n.Val[o.Slot(m, 3)]
		s.Fluid.P += S[m] * p
		for i := 0; i < 3; i++ {
			s.Fluid.GradP[i] += o.g[m][i] * p
		}
		for k := 0; k < o.Nsol; k++ {
			c := n.Val[o.Slot(m, 4+k)]
			s.Solutes.C[k] += S[m] * c
			for i := 0; i < 3; i++ {
				s.Solutes.GradC[k][i] += o.g[m][i] * c
			}
		}
	}

	// partition coefficients and actual concentrations
	err = o.Mat.PartitionCoefficientFunctions(s)
	if err != nil {
		return chk.Err("element %d, ip %d:\n%v", o.Cell.Id, idx, err)
	}
	for k := 0; k < o.Nsol; k++ {
		s.Solutes.Ca[k] = o.Mat.Concentration(s, k)
	}

	// fluxes, pressure, current density and stress
	err = o.Mat.Fluxes(o.pt, s)
	if err != nil {
		return chk.Err("element %d, ip %d:\n%v", o.Cell.Id, idx, err)
	}
	o.Mat.StoreFluxes(s, o.pt)
	s.Fluid.Pa = o.Mat.Pressure(s)
	if s.Solutes != nil {
		o.Mat.CurrentDensity(s.Solutes.Ie, s)
	}
	o.Mat.Stress(s.Solid.Sig, s)

	// reactions
	if evolve {
		for r, react := range o.Mat.Reacts {
			react.UpdateElementData(s.Rdata[r], s, dt)
		}
	}
	return
}

// storeContent sets crp = J φw ca
func (o *ElemMph) storeContent(s *mdl.State) {
	if o.Nsol == 0 {
		return
	}
	Jφw := s.Solid.J - s.Fluid.Phi0
	for k := 0; k < o.Nsol; k++ {
		s.Solutes.Crp[k] = Jφw * s.Solutes.Ca[k]
	}
}

// deformation computes F = Σ x_m ⊗ G0_m and J = det(F) at integration point idx
func (o *ElemMph) deformation(F [][]float64, idx int) (J float64, err error) {
	G0 := o.G0[idx]
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			F[i][j] = 0
		}
	}
	for m, n := range o.Nodes {
		for i := 0; i < 3; i++ {
			x := n.X0[i] + n.Val[o.Slot(m, i)]
			for j := 0; j < 3; j++ {
				F[i][j] += x * G0[m][j]
			}
		}
	}
	J = F[0][0]*(F[1][1]*F[2][2]-F[1][2]*F[2][1]) -
		F[0][1]*(F[1][0]*F[2][2]-F[1][2]*F[2][0]) +
		F[0][2]*(F[1][0]*F[2][1]-F[1][1]*F[2][0])
	if J <= 0 {
		return J, &DegenerateElementError{o.Cell.Id, idx, J, 0}
	}
	return
}

// gradients computes the spatial gradients g_m = F⁻ᵀ G0_m
func (o *ElemMph) gradients(F [][]float64, idx int) {
	la.MatInv(o.Fi, F, 0)
	G0 := o.G0[idx]
	for m := range o.Nodes {
		for j := 0; j < 3; j++ {
			o.g[m][j] = G0[m][0]*o.Fi[0][j] + G0[m][1]*o.Fi[1][j] + G0[m][2]*o.Fi[2][j]
		}
	}
}

// ipvars computes the spatial gradients and the transport quantities of a committed state into
// the element scratchpad; s is not modified
func (o *ElemMph) ipvars(s *mdl.State, idx int) (err error) {
	o.gradients(s.Solid.F, idx)
	err = o.Mat.Fluxes(o.pt, s)
	if err != nil {
		return chk.Err("element %d, ip %d:\n%v", o.Cell.Id, idx, err)
	}
	if o.Nsol > 0 {
		for i := 0; i < 3; i++ {
			o.je[i] = 0
			for k, sol := range o.Mat.Solutes {
				o.je[i] += sol.Z * o.pt.J[k][i]
			}
		}
	}
	return
}

// supplies computes the molar supplies of reactions (into o.ẑ) and returns the total solvent supply
// φ̂ + Σ_r φw V̄_r ẑ_r
func (o *ElemMph) supplies(s *mdl.State, φw float64) (φhat float64) {
	if o.Mat.Supp != nil {
		φhat = o.Mat.Supp.Supply(s)
	}
	for r, react := range o.Mat.Reacts {
		o.ẑ[r] = react.Supply(s)
		φhat += φw * react.MolarVolume() * o.ẑ[r]
	}
	return
}

// soluteSupply returns Σ_r φw ẑ_r ν_rk
//  Note: o.ẑ must be up-to-date
func (o *ElemMph) soluteSupply(k int, φw float64) (chat float64) {
	for r, react := range o.Mat.Reacts {
		chat += φw * o.ẑ[r] * react.Stoich()[k]
	}
	return
}

// effFlux returns g ⋅ (j_k + penalty je)
//  Note: o.je must be up-to-date
func (o *ElemMph) effFlux(s *mdl.State, k int, g []float64) (res float64) {
	pen := o.Mat.Penalty
	for i := 0; i < 3; i++ {
		res += g[i] * (o.pt.J[k][i] + pen*o.je[i])
	}
	return
}

// sameShape tells whether two states have the same sizes
func sameShape(a, b *mdl.State) bool {
	if len(b.Solid.F) != 3 || len(b.Solid.Sig) != 3 || len(b.Fluid.GradP) != 3 || len(b.Fluid.W) != 3 {
		return false
	}
	if a.Nsol() != b.Nsol() || a.Nsbm() != b.Nsbm() || len(a.Rdata) != len(b.Rdata) {
		return false
	}
	if (a.Solutes == nil) != (b.Solutes == nil) {
		return false
	}
	if a.Solutes != nil {
		x, y := a.Solutes, b.Solutes
		if len(x.GradC) != len(y.GradC) || len(x.Ca) != len(y.Ca) || len(x.Crp) != len(y.Crp) ||
			len(x.Flux) != len(y.Flux) || len(x.Kappa) != len(y.Kappa) || len(x.Dkdc) != len(y.Dkdc) ||
			len(x.Sbmrp) != len(y.Sbmrp) || len(x.Sbmrhat) != len(y.Sbmrhat) || len(x.Dkdr) != len(y.Dkdr) {
			return false
		}
	}
	for r := range a.Rdata {
		if len(a.Rdata[r]) != len(b.Rdata[r]) {
			return false
		}
	}
	return true
}
