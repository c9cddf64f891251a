// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// constants
const (
	DONNAN_NIT = 50    // maximum number of iterations for the Donnan equilibrium
	DONNAN_TOL = 1e-13 // tolerance on the increment of ln(ζ)
)

// Solute holds the data of a dissolved species
type Solute struct {
	Name  string      // name of solute
	Z     float64     // charge number
	M     float64     // molar mass
	Diff  Diffusivity // diffusivity model
	Solub Solubility  // solubility model
}

// SBM holds the data of a solid-bound molecule
type SBM struct {
	Name   string  // name of solid-bound molecule
	Z      float64 // charge number
	M      float64 // molar mass
	RhoT   float64 // true density
	Rho0   float64 // initial referential density
	RhoMin float64 // minimum referential density
	RhoMax float64 // maximum referential density; 0 => unbounded
}

// Mixture implements a multiphasic material: an elastic solid skeleton, an interstitial fluid,
// solutes and solid-bound molecules, possibly reacting
type Mixture struct {

	// models
	Name    string        // name of material
	Solid   Solid         // solid skeleton
	Perm    Permeability  // permeability
	Osmc    Osmotic       // osmotic coefficient; required with solutes
	Supp    SolventSupply // solvent supply; may be nil
	Solutes []*Solute     // solutes
	SBMs    []*SBM        // solid-bound molecules
	Reacts  []Reaction    // chemical reactions

	// parameters
	Phi0    float64 // φ0: referential volume fraction of the solid matrix
	CF0     float64 // fixed charge density in the reference configuration
	Penalty float64 // electroneutrality penalty

	// constants
	Rgas float64 // universal gas constant
	Tabs float64 // absolute temperature
	Fc   float64 // Faraday constant

	// derived
	cFr float64 // referential fixed charge per unit volume
}

// Init checks the models and computes derived data
func (o *Mixture) Init() (err error) {
	if o.Solid == nil {
		return &MissingPropertyError{o.Name, "solid"}
	}
	if o.Perm == nil {
		return &MissingPropertyError{o.Name, "permeability"}
	}
	if len(o.Solutes) > 0 && o.Osmc == nil {
		return &MissingPropertyError{o.Name, "osmotic coefficient"}
	}
	for _, sol := range o.Solutes {
		if sol.Diff == nil {
			return &MissingPropertyError{o.Name, "diffusivity of " + sol.Name}
		}
		if sol.Solub == nil {
			return &MissingPropertyError{o.Name, "solubility of " + sol.Name}
		}
	}
	for _, sbm := range o.SBMs {
		if sbm.RhoT <= 0 || sbm.M <= 0 {
			return chk.Err("material %q: solid-bound molecule %q requires positive true density and molar mass", o.Name, sbm.Name)
		}
	}
	if o.Phi0 < 0 || o.Phi0 >= 1 {
		return chk.Err("material %q: solid volume fraction must be in [0,1). phi0 = %g", o.Name, o.Phi0)
	}
	if o.Rgas <= 0 || o.Tabs <= 0 {
		return chk.Err("material %q: gas constant and absolute temperature must be positive. R=%g T=%g", o.Name, o.Rgas, o.Tabs)
	}
	o.cFr = o.CF0 * (1.0 - o.Phi0)
	return
}

// Nsol returns the number of solutes
func (o *Mixture) Nsol() int { return len(o.Solutes) }

// Nsbm returns the number of solid-bound molecules
func (o *Mixture) Nsbm() int { return len(o.SBMs) }

// RT returns R⋅T
func (o *Mixture) RT() float64 { return o.Rgas * o.Tabs }

// NewState allocates a state at the reference configuration
func (o *Mixture) NewState() (s *State) {
	ndata := make([]int, len(o.Reacts))
	for r, react := range o.Reacts {
		ndata[r] = react.Ndata()
	}
	s = NewState(o.Nsol(), o.Nsbm(), ndata)
	o.ResetState(s)
	return
}

// ResetState sets the referential densities of solid-bound molecules to their initial values
// and resets the element data of reactions
func (o *Mixture) ResetState(s *State) {
	for m, sbm := range o.SBMs {
		s.Solutes.Sbmr[m] = sbm.Rho0
		s.Solutes.Sbmrp[m] = sbm.Rho0
		s.Solutes.Sbmrhat[m] = 0
	}
	s.Fluid.Phi0 = o.SolidReferentialVolumeFraction(s)
	s.Fluid.Phi0p = s.Fluid.Phi0
	for r, react := range o.Reacts {
		react.ResetElementData(s.Rdata[r])
	}
}

// SolidReferentialVolumeFraction returns φ0 including the solid-bound molecules
func (o *Mixture) SolidReferentialVolumeFraction(s *State) (φ0 float64) {
	φ0 = o.Phi0
	for m, sbm := range o.SBMs {
		φ0 += s.Solutes.Sbmr[m] / sbm.RhoT
	}
	return
}

// Porosity returns the current fluid volume fraction φw = 1 - φ0/J
func (o *Mixture) Porosity(s *State) float64 {
	return 1.0 - s.Fluid.Phi0/s.Solid.J
}

// FixedChargeDensity returns the current fixed charge density, including charged solid-bound molecules
func (o *Mixture) FixedChargeDensity(s *State) float64 {
	n := o.cFr
	for m, sbm := range o.SBMs {
		n += sbm.Z * s.Solutes.Sbmr[m] / sbm.M
	}
	return n / (s.Solid.J - s.Fluid.Phi0)
}

// Concentration returns the actual concentration of solute k
func (o *Mixture) Concentration(s *State, k int) float64 {
	return s.Solutes.Kappa[k] * s.Solutes.C[k]
}

// Pressure returns the actual fluid pressure pa = p + R T Φ Σ ca
func (o *Mixture) Pressure(s *State) float64 {
	pa := s.Fluid.P
	if o.Nsol() > 0 {
		osm := 0.0
		for k := range o.Solutes {
			osm += s.Solutes.Ca[k]
		}
		pa += o.RT() * o.Osmc.Coef(s) * osm
	}
	return pa
}

// Stress computes the total Cauchy stress σ = σe - pa I
//  Note: s.Fluid.Pa must be up-to-date
func (o *Mixture) Stress(σ [][]float64, s *State) {
	o.Solid.Stress(σ, s)
	for i := 0; i < 3; i++ {
		σ[i][i] -= s.Fluid.Pa
	}
}

// CurrentDensity computes Ie = Fc Σ z_k j_k
func (o *Mixture) CurrentDensity(Ie []float64, s *State) {
	for i := 0; i < 3; i++ {
		Ie[i] = 0
		for k, sol := range o.Solutes {
			Ie[i] += o.Fc * sol.Z * s.Solutes.Flux[k][i]
		}
	}
}

// ElectricPotential returns the electric potential ψ = -R T/Fc ln(ζ) from the Donnan equilibrium
func (o *Mixture) ElectricPotential(s *State) (ψ float64, err error) {
	κh := make([]float64, o.Nsol())
	for k, sol := range o.Solutes {
		κh[k] = sol.Solub.Solub(s)
	}
	u, _, _, err := o.donnan(s, κh, o.FixedChargeDensity(s))
	return -o.RT() / o.Fc * u, err
}

// PartitionCoefficientFunctions computes the partition coefficients κ = κ̂ ζ^z and their
// derivatives w.r.t J, c and ρr, and sets ψ and cF
func (o *Mixture) PartitionCoefficientFunctions(s *State) (err error) {

	// solubilities
	nsol, nsbm := o.Nsol(), o.Nsbm()
	if nsol == 0 {
		return
	}
	sol := s.Solutes
	κh := make([]float64, nsol)
	dκhdJ := make([]float64, nsol)
	for k, solute := range o.Solutes {
		κh[k] = solute.Solub.Solub(s)
		dκhdJ[k] = solute.Solub.TangentStrain(s)
		for l := 0; l < nsol; l++ {
			sol.Dkdc[k][l] = solute.Solub.TangentConc(s, l)
		}
	}

	// Donnan equilibrium
	cF := o.FixedChargeDensity(s)
	u, fu, active, err := o.donnan(s, κh, cF)
	if err != nil {
		return
	}
	sol.Cf = cF
	sol.Psi = -o.RT() / o.Fc * u
	if !active {
		copy(sol.Kappa, κh)
		copy(sol.DkdJ, dκhdJ)
		for k := 0; k < nsol; k++ {
			for m := 0; m < nsbm; m++ {
				sol.Dkdr[k][m] = 0
			}
		}
		return
	}

	// derivatives of u = ln(ζ)
	ez := make([]float64, nsol)
	for k, solute := range o.Solutes {
		ez[k] = math.Exp(solute.Z * u)
	}
	hJ := s.Solid.J - s.Fluid.Phi0
	num := -cF / hJ
	for k, solute := range o.Solutes {
		num += solute.Z * sol.C[k] * ez[k] * dκhdJ[k]
	}
	dudJ := -num / fu
	dudc := make([]float64, nsol)
	for l, solute := range o.Solutes {
		num = solute.Z * κh[l] * ez[l]
		for k, other := range o.Solutes {
			num += other.Z * sol.C[k] * ez[k] * sol.Dkdc[k][l]
		}
		dudc[l] = -num / fu
	}
	dudr := make([]float64, nsbm)
	for m, sbm := range o.SBMs {
		dudr[m] = -(sbm.Z/sbm.M + cF/sbm.RhoT) / hJ / fu
	}

	// partition coefficients
	for k, solute := range o.Solutes {
		sol.Kappa[k] = κh[k] * ez[k]
		sol.DkdJ[k] = ez[k] * (dκhdJ[k] + κh[k]*solute.Z*dudJ)
		for l := 0; l < nsol; l++ {
			sol.Dkdc[k][l] = ez[k] * (sol.Dkdc[k][l] + κh[k]*solute.Z*dudc[l])
		}
		for m := 0; m < nsbm; m++ {
			sol.Dkdr[k][m] = sol.Kappa[k] * solute.Z * dudr[m]
		}
	}
	return
}

// donnan solves the electroneutrality condition cF + Σ z κ̂ c ζ^z = 0 for u = ln(ζ)
//  Output:
//   u      -- ln(ζ); zero if not active
//   fu     -- derivative of the electroneutrality condition w.r.t u
//   active -- false if there is no fixed charge or no charged solute
func (o *Mixture) donnan(s *State, κh []float64, cF float64) (u, fu float64, active bool, err error) {
	if cF == 0 || o.Nsol() == 0 {
		return
	}
	var f, δu float64
	for it := 0; it < DONNAN_NIT; it++ {
		f, fu = cF, 0
		for k, sol := range o.Solutes {
			a := κh[k] * s.Solutes.C[k] * math.Exp(sol.Z*u)
			f += sol.Z * a
			fu += sol.Z * sol.Z * a
		}
		if fu <= 0 {
			return 0, 0, false, nil
		}
		δu = -f / fu
		if δu > 1 {
			δu = 1
		}
		if δu < -1 {
			δu = -1
		}
		u += δu
		if math.Abs(δu) < DONNAN_TOL*(1.0+math.Abs(u)) {
			fu = 0
			for k, sol := range o.Solutes {
				fu += sol.Z * sol.Z * κh[k] * s.Solutes.C[k] * math.Exp(sol.Z*u)
			}
			return u, fu, true, nil
		}
	}
	return 0, 0, false, chk.Err("material %q: Donnan equilibrium did not converge after %d iterations", o.Name, DONNAN_NIT)
}

// ReactionSupplies computes the molar supplies ẑ of all reactions
func (o *Mixture) ReactionSupplies(ẑ []float64, s *State) {
	for r, react := range o.Reacts {
		ẑ[r] = react.Supply(s)
	}
}

// UpdateSolidBoundMolecules integrates the referential densities of solid-bound molecules
//  ρr = ρrp + Δt (J - φ0) M Σ ν ẑ   clipped to [ρmin, ρmax]
func (o *Mixture) UpdateSolidBoundMolecules(s *State, dt float64) {
	nsol := o.Nsol()
	sol := s.Solutes
	Jφw := s.Solid.J - s.Fluid.Phi0
	for m, sbm := range o.SBMs {
		sol.Sbmrhat[m] = 0
		for _, react := range o.Reacts {
			ν := react.Stoich()[nsol+m]
			if ν != 0 {
				sol.Sbmrhat[m] += Jφw * sbm.M * ν * react.Supply(s)
			}
		}
		sol.Sbmr[m] = sol.Sbmrp[m] + dt*sol.Sbmrhat[m]
		if sol.Sbmr[m] < sbm.RhoMin {
			sol.Sbmr[m] = sbm.RhoMin
		}
		if sbm.RhoMax > 0 && sol.Sbmr[m] > sbm.RhoMax {
			sol.Sbmr[m] = sbm.RhoMax
		}
	}
}
