// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import "github.com/cpmech/gosl/fun/dbf"

// Note on tangents: all strain tangents are spatial. For a perturbation of the current configuration
// with velocity gradient L and rate of deformation d = sym(L), a tensor quantity A changes by
// δA = dA : d, i.e. δA_ij = Σ dA_ijkl d_kl. The elasticity tangent c follows the Truesdell rate:
// δ(Jσ) = J (c:d + L σ + σ Lᵀ)

// Solid defines the elastic skeleton
type Solid interface {
	Init(prms dbf.Params) error          // initialises model
	GetPrms() dbf.Params                 // gets (an example) of parameters
	Stress(σ [][]float64, s *State)      // effective (solid) Cauchy stress
	Tangent(c [][][][]float64, s *State) // spatial elasticity tangent
}

// Permeability defines the intrinsic permeability tensor of the mixture
type Permeability interface {
	Init(prms dbf.Params) error
	GetPrms() dbf.Params
	Perm(K [][]float64, s *State)                  // permeability tensor
	TangentStrain(dKde [][][][]float64, s *State)  // δK = dKde : d
	TangentConc(dKdc [][]float64, s *State, l int) // ∂K/∂c_l
	TangentPhi0(dKdφ [][]float64, s *State)        // ∂K/∂φ0
}

// Diffusivity defines the diffusivity of a solute in the mixture
type Diffusivity interface {
	Init(prms dbf.Params) error
	GetPrms() dbf.Params
	Diff(D [][]float64, s *State)                  // diffusivity tensor
	TangentStrain(dDde [][][][]float64, s *State)  // δD = dDde : d
	TangentConc(dDdc [][]float64, s *State, l int) // ∂D/∂c_l
	TangentPhi0(dDdφ [][]float64, s *State)        // ∂D/∂φ0
	Free(s *State) float64                         // free diffusivity D0
	FreeTangentConc(s *State, l int) float64       // ∂D0/∂c_l
}

// Osmotic defines the osmotic coefficient
type Osmotic interface {
	Init(prms dbf.Params) error
	GetPrms() dbf.Params
	Coef(s *State) float64               // Φ
	TangentConc(s *State, l int) float64 // ∂Φ/∂c_l
}

// Solubility defines the solubility of a solute; i.e. the partition coefficient without electrical effects
type Solubility interface {
	Init(prms dbf.Params) error
	GetPrms() dbf.Params
	Solub(s *State) float64              // κ̂
	TangentStrain(s *State) float64      // ∂κ̂/∂J
	TangentConc(s *State, l int) float64 // ∂κ̂/∂c_l
}

// SolventSupply defines the supply of solvent (fluid) per unit mixture volume
type SolventSupply interface {
	Init(prms dbf.Params, nsol int) error
	GetPrms() dbf.Params
	Supply(s *State) float64                // φ̂
	TangentStrain(Φe [][]float64, s *State) // δφ̂ = Φe : d
	TangentPressure(s *State) float64       // ∂φ̂/∂p
	TangentConc(s *State, l int) float64    // ∂φ̂/∂c_l
}

// Reaction defines a chemical reaction among solutes and solid-bound molecules
type Reaction interface {
	Init(prms dbf.Params, nsol, nsbm int) error
	GetPrms() dbf.Params
	Stoich() []float64                                   // net stoichiometric coefficients: [nsol] solutes then [nsbm] solid-bound molecules
	MolarVolume() float64                                // V̄: molar volume of the reaction
	Ndata() int                                          // number of element data per material point
	Supply(s *State) float64                             // ẑ: molar supply
	TangentStrain(Z [][]float64, s *State)               // δẑ = Z : d
	TangentConc(s *State, l int) float64                 // ∂ẑ/∂c_l
	TangentSbm(s *State, m int) float64                  // ∂ẑ/∂ρr_m through the partition coefficients
	ResetElementData(d []float64)                        // resets data at the start of the analysis
	InitializeElementData(d []float64)                   // initialises data at the beginning of a time step
	UpdateElementData(d []float64, s *State, dt float64) // updates data after the state update
}
