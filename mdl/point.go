// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"
)

// Point holds the transport quantities of a material point. It is computed from a state by
// Mixture.Fluxes and shared by the residual and tangent kernels
type Point struct {
	Φw  float64       // porosity
	Osm float64       // Φ: osmotic coefficient
	K   [][]float64   // permeability [3][3]
	Ki  [][]float64   // inverse of K [3][3]
	Mi  [][]float64   // inverse of Ke: Ki + R T/φw Σ κ c/D0 (I - D/D0) [3][3]
	Ke  [][]float64   // effective permeability [3][3]
	D   [][][]float64 // diffusivities [nsol][3][3]
	D0  []float64     // free diffusivities [nsol]
	H   []float64     // ∇p + R T Σ κ/D0 D⋅∇c [3]
	W   []float64     // fluid flux [3]
	Q   [][]float64   // -φw ∇c + c/D0 w [nsol][3]
	J   [][]float64   // solute fluxes [nsol][3]
}

// NewPoint allocates a point for nsol solutes
func NewPoint(nsol int) (o *Point) {
	o = new(Point)
	o.K = la.MatAlloc(3, 3)
	o.Ki = la.MatAlloc(3, 3)
	o.Mi = la.MatAlloc(3, 3)
	o.Ke = la.MatAlloc(3, 3)
	o.D = make([][][]float64, nsol)
	for k := 0; k < nsol; k++ {
		o.D[k] = la.MatAlloc(3, 3)
	}
	o.D0 = make([]float64, nsol)
	o.H = make([]float64, 3)
	o.W = make([]float64, 3)
	o.Q = la.MatAlloc(nsol, 3)
	o.J = la.MatAlloc(nsol, 3)
	return
}

// Fluxes computes the fluid flux w = -Ke⋅h and the solute fluxes j_k = κ D⋅q_k into p; s is not modified
//  Note: the partition coefficients in s must be up-to-date
func (o *Mixture) Fluxes(p *Point, s *State) (err error) {

	// permeability
	p.Φw = o.Porosity(s)
	if p.Φw <= 0 {
		return chk.Err("material %q: porosity is not positive: φw = %g", o.Name, p.Φw)
	}
	o.Perm.Perm(p.K, s)
	err = Inv3(p.Ki, p.K)
	if err != nil {
		return
	}

	// effective permeability and driving force
	RT := o.RT()
	la.MatCopy(p.Mi, 1, p.Ki)
	copy(p.H, s.Fluid.GradP)
	p.Osm = 0
	if o.Nsol() > 0 {
		p.Osm = o.Osmc.Coef(s)
	}
	for k, sol := range o.Solutes {
		sol.Diff.Diff(p.D[k], s)
		p.D0[k] = sol.Diff.Free(s)
		κ, c, D0 := s.Solutes.Kappa[k], s.Solutes.C[k], p.D0[k]
		a := RT / p.Φw * κ * c / D0
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				p.Mi[i][j] += a * (tsr.It[i][j] - p.D[k][i][j]/D0)
				p.H[i] += RT * κ / D0 * p.D[k][i][j] * s.Solutes.GradC[k][j]
			}
		}
	}
	err = Inv3(p.Ke, p.Mi)
	if err != nil {
		return
	}

	// fluxes
	MatVecMul3(p.W, p.Ke, p.H)
	for i := 0; i < 3; i++ {
		p.W[i] = -p.W[i]
	}
	for k := range o.Solutes {
		κ, c, D0 := s.Solutes.Kappa[k], s.Solutes.C[k], p.D0[k]
		for i := 0; i < 3; i++ {
			p.Q[k][i] = -p.Φw*s.Solutes.GradC[k][i] + c/D0*p.W[i]
		}
		MatVecMul3(p.J[k], p.D[k], p.Q[k])
		for i := 0; i < 3; i++ {
			p.J[k][i] *= κ
		}
	}
	return
}

// StoreFluxes copies the fluxes computed by Fluxes into s
func (o *Mixture) StoreFluxes(s *State, p *Point) {
	copy(s.Fluid.W, p.W)
	for k := range o.Solutes {
		copy(s.Solutes.Flux[k], p.J[k])
	}
}
