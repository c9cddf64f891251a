// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/luzpaz/FEBio/mdl"

	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"
)

// tgScratch holds the derivatives of the constitutive quantities at one integration point and the
// variations of all integrands along one direction (perturbation of one local unknown)
type tgScratch struct {

	// derivatives computed once per integration point
	c     [][][][]float64   // elasticity tangent
	dKde  [][][][]float64   // strain tangent of K
	dKdc  [][][]float64     // [nsol] ∂K/∂c_l
	dKdφ  [][]float64       // ∂K/∂φ0
	dDde  [][][][][]float64 // [nsol] strain tangents of D_k
	dDdc  [][][][]float64   // [nsol][nsol] ∂D_k/∂c_l
	dDdφ  [][][]float64     // [nsol] ∂D_k/∂φ0
	dD0dc [][]float64       // [nsol][nsol] ∂D0_k/∂c_l
	dΦdc  []float64         // [nsol] ∂Φ/∂c_l
	Φe    [][]float64       // strain tangent of the solvent supply
	φhp   float64           // ∂φ̂/∂p
	φhc   []float64         // [nsol] ∂φ̂/∂c_l
	Z     [][][]float64     // [nreact] strain tangents of ẑ_r
	dzdc  [][]float64       // [nreact][nsol] ∂ẑ_r/∂c_l
	dzdr  [][]float64       // [nreact][nsbm] ∂ẑ_r/∂ρr_m
	ρrate []float64         // [nsbm] ∂ρr_m/∂J; zero if ρr_m is at a bound

	// direction
	L      [][]float64 // velocity gradient
	d      [][]float64 // rate of deformation: sym(L)
	tr     float64     // tr(L)
	δp     float64
	δgradp []float64
	δc     []float64   // [nsol]
	δgradc [][]float64 // [nsol][3]
	δρ     []float64   // [nsbm]

	// variations
	cd   [][]float64 // c : d
	δK   [][]float64
	δKi  [][]float64 // Ki δK Ki
	δMi  [][]float64
	δKe  [][]float64
	δD   [][][]float64 // [nsol]
	δD0  []float64     // [nsol]
	δκ   []float64     // [nsol]
	δca  []float64     // [nsol]
	δH   []float64
	δw   []float64
	δq   []float64
	δj   [][]float64 // [nsol][3]
	δje  []float64
	δẑ   []float64   // [nreact]
	δg   [][]float64 // [nverts][3]
	t33  [][]float64 // auxiliary
	t33b [][]float64 // auxiliary
	t3   []float64   // auxiliary
	δR   []float64   // [nu] variation of the residual
}

// newTgScratch allocates the tangent scratchpad
func newTgScratch(nsol, nsbm, nreact, nverts, nu int) (o *tgScratch) {
	o = new(tgScratch)
	o.c = mdl.Alloc4()
	o.dKde = mdl.Alloc4()
	o.dKdc = make([][][]float64, nsol)
	o.dKdφ = la.MatAlloc(3, 3)
	o.dDdφ = make([][][]float64, nsol)
	o.dDde = make([][][][][]float64, nsol)
	o.dDdc = make([][][][]float64, nsol)
	o.δD = make([][][]float64, nsol)
	for k := 0; k < nsol; k++ {
		o.dKdc[k] = la.MatAlloc(3, 3)
		o.dDde[k] = mdl.Alloc4()
		o.dDdφ[k] = la.MatAlloc(3, 3)
		o.dDdc[k] = make([][][]float64, nsol)
		for l := 0; l < nsol; l++ {
			o.dDdc[k][l] = la.MatAlloc(3, 3)
		}
		o.δD[k] = la.MatAlloc(3, 3)
	}
	o.dD0dc = la.MatAlloc(nsol, nsol)
	o.dΦdc = make([]float64, nsol)
	o.Φe = la.MatAlloc(3, 3)
	o.φhc = make([]float64, nsol)
	o.Z = make([][][]float64, nreact)
	for r := 0; r < nreact; r++ {
		o.Z[r] = la.MatAlloc(3, 3)
	}
	o.dzdc = la.MatAlloc(nreact, nsol)
	o.dzdr = la.MatAlloc(nreact, nsbm)
	o.ρrate = make([]float64, nsbm)
	o.L = la.MatAlloc(3, 3)
	o.d = la.MatAlloc(3, 3)
	o.δgradp = make([]float64, 3)
	o.δc = make([]float64, nsol)
	o.δgradc = la.MatAlloc(nsol, 3)
	o.δρ = make([]float64, nsbm)
	o.cd = la.MatAlloc(3, 3)
	o.δK = la.MatAlloc(3, 3)
	o.δKi = la.MatAlloc(3, 3)
	o.δMi = la.MatAlloc(3, 3)
	o.δKe = la.MatAlloc(3, 3)
	o.δD0 = make([]float64, nsol)
	o.δκ = make([]float64, nsol)
	o.δca = make([]float64, nsol)
	o.δH = make([]float64, 3)
	o.δw = make([]float64, 3)
	o.δq = make([]float64, 3)
	o.δj = la.MatAlloc(nsol, 3)
	o.δje = make([]float64, 3)
	o.δẑ = make([]float64, nreact)
	o.δg = la.MatAlloc(nverts, 3)
	o.t33 = la.MatAlloc(3, 3)
	o.t33b = la.MatAlloc(3, 3)
	o.t3 = make([]float64, 3)
	o.δR = make([]float64, nu)
	return
}

// Tangent computes the element tangent K = -∂R/∂u (consistent linearisation of Residual)
//  ke -- [nlm][nlm] tangent; the rows and columns of the rigid rotations are zero
func (o *ElemMph) Tangent(ke [][]float64, dt float64) (err error) {

	// scratchpad
	if o.tg == nil {
		o.tg = newTgScratch(o.Nsol, o.Nsbm, len(o.Mat.Reacts), len(o.Nodes), o.Nu)
	}
	la.MatFill(ke, 0)

	// for each integration point
	for idx := range o.IpsElem {
		s := o.States[idx]
		err = o.ipvars(s, idx)
		if err != nil {
			return
		}
		o.derivatives(s, dt)
		dv := s.Solid.J * o.W0[idx]

		// for each direction
		for n := range o.Nodes {
			for b := 0; b < o.Ndpn; b++ {
				o.direction(idx, n, b)
				o.variation(s, idx, dt, dv)
				col := n*o.Ndpn + b
				for row := 0; row < o.Nu; row++ {
					ke[row][col] -= o.tg.δR[row]
				}
			}
		}
	}
	return
}

// Symmetrize replaces ke by (ke + keᵀ)/2
func Symmetrize(ke [][]float64) {
	for i := 0; i < len(ke); i++ {
		for j := i + 1; j < len(ke); j++ {
			a := (ke[i][j] + ke[j][i]) / 2.0
			ke[i][j], ke[j][i] = a, a
		}
	}
}

// derivatives computes the derivatives of all constitutive quantities at a committed state
//  Note: o.ẑ is also computed
func (o *ElemMph) derivatives(s *mdl.State, dt float64) {
	t := o.tg
	mat := o.Mat
	nsol := o.Nsol

	// solid and fluid
	mat.Solid.Tangent(t.c, s)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			o.σe[i][j] = s.Solid.Sig[i][j] + s.Fluid.Pa*tsr.It[i][j]
		}
	}
	mat.Perm.TangentStrain(t.dKde, s)
	mat.Perm.TangentPhi0(t.dKdφ, s)
	for l := 0; l < nsol; l++ {
		mat.Perm.TangentConc(t.dKdc[l], s, l)
	}

	// solutes
	for k, sol := range mat.Solutes {
		sol.Diff.TangentStrain(t.dDde[k], s)
		sol.Diff.TangentPhi0(t.dDdφ[k], s)
		for l := 0; l < nsol; l++ {
			sol.Diff.TangentConc(t.dDdc[k][l], s, l)
			t.dD0dc[k][l] = sol.Diff.FreeTangentConc(s, l)
		}
	}
	for l := 0; l < nsol; l++ {
		t.dΦdc[l] = mat.Osmc.TangentConc(s, l)
	}

	// solvent supply
	la.MatFill(t.Φe, 0)
	t.φhp = 0
	la.VecFill(t.φhc, 0)
	if mat.Supp != nil {
		mat.Supp.TangentStrain(t.Φe, s)
		t.φhp = mat.Supp.TangentPressure(s)
		for l := 0; l < nsol; l++ {
			t.φhc[l] = mat.Supp.TangentConc(s, l)
		}
	}

	// reactions
	for r, react := range mat.Reacts {
		o.ẑ[r] = react.Supply(s)
		react.TangentStrain(t.Z[r], s)
		for l := 0; l < nsol; l++ {
			t.dzdc[r][l] = react.TangentConc(s, l)
		}
		for m := 0; m < o.Nsbm; m++ {
			t.dzdr[r][m] = react.TangentSbm(s, m)
		}
	}

	// solid-bound molecules: ρr = ρrp + Δt (J - φ0) M Σ ν ẑ with φ0 and ẑ from the previous iterate
	for m, sbm := range mat.SBMs {
		t.ρrate[m] = 0
		ρ := s.Solutes.Sbmr[m]
		if ρ <= sbm.RhoMin || (sbm.RhoMax > 0 && ρ >= sbm.RhoMax) {
			continue
		}
		for r, react := range mat.Reacts {
			t.ρrate[m] += dt * sbm.M * react.Stoich()[nsol+m] * o.ẑ[r]
		}
	}
}

// direction sets the perturbation corresponding to the local unknown b of local vertex n
func (o *ElemMph) direction(idx, n, b int) {
	t := o.tg
	s := o.States[idx]
	gn := o.g[n]
	N := o.S[idx][n]
	la.MatFill(t.L, 0)
	la.MatFill(t.d, 0)
	t.tr = 0
	t.δp = 0
	la.VecFill(t.δgradp, 0)
	la.VecFill(t.δc, 0)
	la.MatFill(t.δgradc, 0)
	la.VecFill(t.δρ, 0)
	switch {

	// displacement: L = e_a ⊗ g_n
	case b < 3:
		a := b
		for j := 0; j < 3; j++ {
			t.L[a][j] = gn[j]
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t.d[i][j] = (t.L[i][j] + t.L[j][i]) / 2.0
			}
		}
		t.tr = gn[a]
		for j := 0; j < 3; j++ {
			t.δgradp[j] = -s.Fluid.GradP[a] * gn[j]
			for k := 0; k < o.Nsol; k++ {
				t.δgradc[k][j] = -s.Solutes.GradC[k][a] * gn[j]
			}
		}
		for m := range t.δρ {
			t.δρ[m] = t.ρrate[m] * s.Solid.J * t.tr
		}

	// pressure
	case b == 3:
		t.δp = N
		copy(t.δgradp, gn)

	// concentration
	default:
		l := b - 4
		t.δc[l] = N
		copy(t.δgradc[l], gn)
	}

	// variations of the spatial gradients: δg_m = -Lᵀ g_m
	for m := range o.Nodes {
		for j := 0; j < 3; j++ {
			t.δg[m][j] = 0
			if b < 3 {
				t.δg[m][j] = -o.g[m][b] * gn[j]
			}
		}
	}
}

// variation computes the variation of the residual (o.tg.δR) along the current direction
func (o *ElemMph) variation(s *mdl.State, idx int, dt, dv float64) {

	// auxiliary
	t := o.tg
	mat := o.Mat
	pt := o.pt
	nsol := o.Nsol
	RT := mat.RT()
	J := s.Solid.J
	φ0 := s.Fluid.Phi0
	φw := pt.Φw
	tr := t.tr
	δJ := J * tr

	// solid volume fraction and porosity
	δφ0 := 0.0
	for m, sbm := range mat.SBMs {
		δφ0 += t.δρ[m] / sbm.RhoT
	}
	δφw := (φ0*tr - δφ0) / J

	// partition coefficients, actual concentrations and actual pressure
	δpa := t.δp
	if nsol > 0 {
		sol := s.Solutes
		var Σca, Σδca, δΦ float64
		for k := 0; k < nsol; k++ {
			t.δκ[k] = sol.DkdJ[k] * δJ
			for l := 0; l < nsol; l++ {
				t.δκ[k] += sol.Dkdc[k][l] * t.δc[l]
			}
			for m := 0; m < o.Nsbm; m++ {
				t.δκ[k] += sol.Dkdr[k][m] * t.δρ[m]
			}
			t.δca[k] = t.δκ[k]*sol.C[k] + sol.Kappa[k]*t.δc[k]
			Σca += sol.Ca[k]
			Σδca += t.δca[k]
			δΦ += t.dΦdc[k] * t.δc[k]
		}
		δpa += RT * (δΦ*Σca + pt.Osm*Σδca)
	}

	// permeability: δ(K⁻¹) = -Ki δK Ki
	mdl.Ddot42(t.δK, t.dKde, t.d)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.δK[i][j] += t.dKdφ[i][j] * δφ0
			for l := 0; l < nsol; l++ {
				t.δK[i][j] += t.dKdc[l][i][j] * t.δc[l]
			}
		}
	}
	mdl.MatMul3(t.t33, pt.Ki, t.δK)
	mdl.MatMul3(t.δKi, t.t33, pt.Ki)
	la.MatCopy(t.δMi, -1, t.δKi)

	// diffusivities and effective permeability
	for k := 0; k < nsol; k++ {
		κ, c, D0 := s.Solutes.Kappa[k], s.Solutes.C[k], pt.D0[k]
		mdl.Ddot42(t.δD[k], t.dDde[k], t.d)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t.δD[k][i][j] += t.dDdφ[k][i][j] * δφ0
			}
		}
		t.δD0[k] = 0
		for l := 0; l < nsol; l++ {
			t.δD0[k] += t.dD0dc[k][l] * t.δc[l]
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					t.δD[k][i][j] += t.dDdc[k][l][i][j] * t.δc[l]
				}
			}
		}
		a := κ * c / (φw * D0)
		δa := (t.δκ[k]*c+κ*t.δc[k])/(φw*D0) - a*δφw/φw - a*t.δD0[k]/D0
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				D := pt.D[k][i][j]
				t.δMi[i][j] += RT * (δa*(tsr.It[i][j]-D/D0) + a*(-t.δD[k][i][j]/D0+D*t.δD0[k]/(D0*D0)))
			}
		}
	}
	mdl.MatMul3(t.t33, pt.Ke, t.δMi)
	mdl.MatMul3(t.δKe, t.t33, pt.Ke)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.δKe[i][j] = -t.δKe[i][j]
		}
	}

	// driving force and fluid flux: w = -Ke h
	copy(t.δH, t.δgradp)
	for k := 0; k < nsol; k++ {
		κ, D0 := s.Solutes.Kappa[k], pt.D0[k]
		gc := s.Solutes.GradC[k]
		α := t.δκ[k]/D0 - κ*t.δD0[k]/(D0*D0)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t.δH[i] += RT * (α*pt.D[k][i][j]*gc[j] + κ/D0*(t.δD[k][i][j]*gc[j]+pt.D[k][i][j]*t.δgradc[k][j]))
			}
		}
	}
	mdl.MatVecMul3(t.δw, t.δKe, pt.H)
	mdl.MatVecMul3(t.t3, pt.Ke, t.δH)
	for i := 0; i < 3; i++ {
		t.δw[i] = -t.δw[i] - t.t3[i]
	}

	// solute fluxes: j = κ D q
	la.VecFill(t.δje, 0)
	for k, solute := range mat.Solutes {
		κ, c, D0 := s.Solutes.Kappa[k], s.Solutes.C[k], pt.D0[k]
		gc := s.Solutes.GradC[k]
		β := t.δc[k]/D0 - c*t.δD0[k]/(D0*D0)
		for i := 0; i < 3; i++ {
			t.δq[i] = -δφw*gc[i] - φw*t.δgradc[k][i] + β*pt.W[i] + c/D0*t.δw[i]
		}
		for i := 0; i < 3; i++ {
			t.δj[k][i] = 0
			for j := 0; j < 3; j++ {
				t.δj[k][i] += t.δκ[k]*pt.D[k][i][j]*pt.Q[k][j] + κ*t.δD[k][i][j]*pt.Q[k][j] + κ*pt.D[k][i][j]*t.δq[j]
			}
			t.δje[i] += solute.Z * t.δj[k][i]
		}
	}

	// supplies
	φhat := 0.0
	δφhat := 0.0
	if mat.Supp != nil {
		φhat = mat.Supp.Supply(s)
		δφhat = t.φhp * t.δp
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				δφhat += t.Φe[i][j] * t.d[i][j]
			}
		}
		for l := 0; l < nsol; l++ {
			δφhat += t.φhc[l] * t.δc[l]
		}
	}
	for r, react := range mat.Reacts {
		t.δẑ[r] = 0
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				t.δẑ[r] += t.Z[r][i][j] * t.d[i][j]
			}
		}
		for l := 0; l < nsol; l++ {
			t.δẑ[r] += t.dzdc[r][l] * t.δc[l]
		}
		for m := 0; m < o.Nsbm; m++ {
			t.δẑ[r] += t.dzdr[r][m] * t.δρ[m]
		}
		V := react.MolarVolume()
		φhat += φw * V * o.ẑ[r]
		δφhat += V * (δφw*o.ẑ[r] + φw*t.δẑ[r])
	}

	// stress: δ(σ g dv) = [c:d g + L σe g - δpa g - pa tr g + pa Lᵀ g] dv
	mdl.Ddot42(t.cd, t.c, t.d)
	mdl.MatMul3(t.t33b, t.L, o.σe)
	pa := s.Fluid.Pa
	S := o.S[idx]
	w := pt.W
	divv, δdivv := 0.0, 0.0
	if !o.Steady {
		divv = (J - s.Solid.Jp) / (dt * J)
		δdivv = s.Solid.Jp / J * tr / dt
	}
	for m := range o.Nodes {
		r := m * o.Ndpn
		gm := o.g[m]
		δgm := t.δg[m]
		for i := 0; i < 3; i++ {
			v := 0.0
			for j := 0; j < 3; j++ {
				v += (t.cd[i][j] + t.t33b[i][j]) * gm[j]
			}
			v += -δpa*gm[i] - pa*tr*gm[i] - pa*δgm[i]
			t.δR[r+i] = -v * dv
		}

		// fluid
		wg := mdl.Dot3(w, gm)
		δwg := mdl.Dot3(t.δw, gm) + mdl.Dot3(w, δgm)
		t.δR[r+3] = -dt * (δwg + (δφhat-δdivv)*S[m] + (wg+(φhat-divv)*S[m])*tr) * dv

		// solutes
		for k := 0; k < nsol; k++ {
			sol := s.Solutes
			pen := mat.Penalty
			var jg, δjg float64
			for i := 0; i < 3; i++ {
				jk := pt.J[k][i] + pen*o.je[i]
				jg += gm[i] * jk
				δjg += δgm[i]*jk + gm[i]*(t.δj[k][i]+pen*t.δje[i])
			}
			var chat, δchat float64
			for rr, react := range mat.Reacts {
				ν := react.Stoich()[k]
				chat += φw * o.ẑ[rr] * ν
				δchat += ν * (δφw*o.ẑ[rr] + φw*t.δẑ[rr])
			}
			if o.Steady {
				t.δR[r+4+k] = -dt * (δjg + S[m]*δchat + (jg+S[m]*chat)*tr) * dv
				continue
			}
			T := φw*sol.Ca[k] - sol.Crp[k]/J
			δT := δφw*sol.Ca[k] + φw*t.δca[k] + sol.Crp[k]/J*tr
			t.δR[r+4+k] = -dt * (δjg + S[m]*(δchat-δT/dt) + (jg+S[m]*(chat-T/dt))*tr) * dv
		}
	}
}
