// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mdl implements the material point state and the constitutive models of
// multiphasic mixtures (solid skeleton, interstitial fluid, solutes and solid-bound molecules)
package mdl

import "github.com/cpmech/gosl/la"

// SolidState holds the kinematics and the total stress at a material point
type SolidState struct {
	F   [][]float64 // deformation gradient [3][3]
	J   float64     // determinant of F
	Jp  float64     // J at the beginning of the time step
	Sig [][]float64 // σ: total Cauchy stress [3][3]
}

// FluidState holds the interstitial fluid quantities at a material point
type FluidState struct {
	P     float64   // effective fluid pressure
	GradP []float64 // spatial gradient of p [3]
	W     []float64 // fluid flux [3]
	Pa    float64   // actual fluid pressure
	Phi0  float64   // φ0: referential solid volume fraction
	Phi0p float64   // φ0 at the beginning of the time step
}

// SoluteState holds solutes and solid-bound molecules data at a material point
type SoluteState struct {

	// solutes
	C     []float64   // effective concentrations [nsol]
	GradC [][]float64 // spatial gradients of c [nsol][3]
	Ca    []float64   // actual concentrations [nsol]
	Crp   []float64   // J⋅φw⋅ca at the beginning of the time step [nsol]
	Flux  [][]float64 // solute fluxes [nsol][3]
	Kappa []float64   // κ: partition coefficients [nsol]
	DkdJ  []float64   // ∂κ/∂J [nsol]
	Dkdc  [][]float64 // ∂κ_k/∂c_l [nsol][nsol]
	Dkdr  [][]float64 // ∂κ_k/∂ρr_m [nsol][nsbm]; nil without solid-bound molecules
	Psi   float64     // ψ: electric potential
	Cf    float64     // fixed charge density
	Ie    []float64   // current density [3]

	// solid-bound molecules
	Sbmr    []float64 // ρr: referential densities [nsbm]
	Sbmrp   []float64 // ρr at the beginning of the time step [nsbm]
	Sbmrhat []float64 // referential supplies [nsbm]
}

// State holds all data of a multiphasic material point. The solutes substate is nil for
// biphasic mixtures (no solutes and no solid-bound molecules)
type State struct {
	Solid   SolidState
	Fluid   FluidState
	Solutes *SoluteState
	Rdata   [][]float64 // element data of reactions [nreact][ndata]
}

// NewState allocates a state at the reference configuration
//  ndata -- number of element data for each reaction
func NewState(nsol, nsbm int, ndata []int) *State {

	// mechanics and fluid
	var o State
	o.Solid.F = la.MatAlloc(3, 3)
	o.Solid.Sig = la.MatAlloc(3, 3)
	for i := 0; i < 3; i++ {
		o.Solid.F[i][i] = 1
	}
	o.Solid.J = 1
	o.Solid.Jp = 1
	o.Fluid.GradP = make([]float64, 3)
	o.Fluid.W = make([]float64, 3)

	// solutes
	if nsol > 0 || nsbm > 0 {
		o.Solutes = &SoluteState{
			C:     alloc(nsol),
			GradC: la.MatAlloc(nsol, 3),
			Ca:    alloc(nsol),
			Crp:   alloc(nsol),
			Flux:  la.MatAlloc(nsol, 3),
			Kappa: alloc(nsol),
			DkdJ:  alloc(nsol),
			Dkdc:  la.MatAlloc(nsol, nsol),
			Ie:    make([]float64, 3),
		}
		if nsbm > 0 {
			o.Solutes.Dkdr = la.MatAlloc(nsol, nsbm)
			o.Solutes.Sbmr = alloc(nsbm)
			o.Solutes.Sbmrp = alloc(nsbm)
			o.Solutes.Sbmrhat = alloc(nsbm)
		}
		for k := 0; k < nsol; k++ {
			o.Solutes.Kappa[k] = 1
		}
	}

	// reactions
	if len(ndata) > 0 {
		o.Rdata = make([][]float64, len(ndata))
		for r, n := range ndata {
			o.Rdata[r] = make([]float64, n)
		}
	}
	return &o
}

// Nsol returns the number of solutes
func (o *State) Nsol() int {
	if o.Solutes == nil {
		return 0
	}
	return len(o.Solutes.C)
}

// Nsbm returns the number of solid-bound molecules
func (o *State) Nsbm() int {
	if o.Solutes == nil {
		return 0
	}
	return len(o.Solutes.Sbmr)
}

// Set copies states
//  Note: 1) this and other states must have been pre-allocated with the same sizes
//        2) this method does not check for errors
func (o *State) Set(other *State) {

	// mechanics
	la.MatCopy(o.Solid.F, 1, other.Solid.F)
	la.MatCopy(o.Solid.Sig, 1, other.Solid.Sig)
	o.Solid.J = other.Solid.J
	o.Solid.Jp = other.Solid.Jp

	// fluid
	o.Fluid.P = other.Fluid.P
	copy(o.Fluid.GradP, other.Fluid.GradP)
	copy(o.Fluid.W, other.Fluid.W)
	o.Fluid.Pa = other.Fluid.Pa
	o.Fluid.Phi0 = other.Fluid.Phi0
	o.Fluid.Phi0p = other.Fluid.Phi0p

	// solutes
	if o.Solutes != nil {
		a, b := o.Solutes, other.Solutes
		copy(a.C, b.C)
		copy2(a.GradC, b.GradC)
		copy(a.Ca, b.Ca)
		copy(a.Crp, b.Crp)
		copy2(a.Flux, b.Flux)
		copy(a.Kappa, b.Kappa)
		copy(a.DkdJ, b.DkdJ)
		copy2(a.Dkdc, b.Dkdc)
		copy2(a.Dkdr, b.Dkdr)
		a.Psi = b.Psi
		a.Cf = b.Cf
		copy(a.Ie, b.Ie)
		copy(a.Sbmr, b.Sbmr)
		copy(a.Sbmrp, b.Sbmrp)
		copy(a.Sbmrhat, b.Sbmrhat)
	}

	// reactions
	copy2(o.Rdata, other.Rdata)
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	ndata := make([]int, len(o.Rdata))
	for r, d := range o.Rdata {
		ndata[r] = len(d)
	}
	other := NewState(o.Nsol(), o.Nsbm(), ndata)
	other.Set(o)
	return other
}

// alloc allocates a slice; nil if n == 0
func alloc(n int) []float64 {
	if n == 0 {
		return nil
	}
	return make([]float64, n)
}

// copy2 copies matrices row by row
func copy2(a, b [][]float64) {
	for i := 0; i < len(a) && i < len(b); i++ {
		copy(a[i], b[i])
	}
}
