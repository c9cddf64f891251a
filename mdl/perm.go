// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"
)

// PermConstIso implements a constant isotropic permeability K = k0 I
type PermConstIso struct {
	k0 float64
}

// PermExpIso implements the isotropic strain-dependent permeability of Holmes and Mow
//  K = k0 ((J - φ0)/(1 - φ0))^α exp(M (J² - 1)/2) I
type PermExpIso struct {
	k0 float64 // permeability in the reference configuration
	M  float64 // exponential strain-dependence coefficient
	α  float64 // power-law exponent
}

// Init initialises model
func (o *PermConstIso) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "perm":
			o.k0 = p.V
		default:
			return chk.Err("perm-const-iso: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.k0 <= 0 {
		return chk.Err("perm-const-iso: permeability must be positive. perm = %g\n", o.k0)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o PermConstIso) GetPrms() dbf.Params {
	return []*dbf.P{&dbf.P{N: "perm", V: 1e-3}}
}

// Perm computes the permeability tensor
func (o *PermConstIso) Perm(K [][]float64, s *State) {
	SetIdentity(K, o.k0)
}

// TangentStrain computes dK/dε
func (o *PermConstIso) TangentStrain(dKde [][][][]float64, s *State) {
	Fill4(dKde, 0)
}

// TangentConc computes dK/dc_l
func (o *PermConstIso) TangentConc(dKdc [][]float64, s *State, l int) {
	la.MatFill(dKdc, 0)
}

// TangentPhi0 computes dK/dφ0
func (o *PermConstIso) TangentPhi0(dKdφ [][]float64, s *State) {
	la.MatFill(dKdφ, 0)
}

// Init initialises model
func (o *PermExpIso) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "perm":
			o.k0 = p.V
		case "M":
			o.M = p.V
		case "alpha":
			o.α = p.V
		default:
			return chk.Err("perm-exp-iso: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.k0 <= 0 || o.M < 0 || o.α < 0 {
		return chk.Err("perm-exp-iso: invalid parameters perm=%g M=%g alpha=%g\n", o.k0, o.M, o.α)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o PermExpIso) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "perm", V: 1e-3},
		&dbf.P{N: "M", V: 1.5},
		&dbf.P{N: "alpha", V: 2},
	}
}

// k computes the scalar permeability and its derivative w.r.t J
func (o *PermExpIso) k(s *State) (k, dkdJ float64) {
	J, φ0 := s.Solid.J, s.Fluid.Phi0
	k = o.k0 * math.Pow((J-φ0)/(1.0-φ0), o.α) * math.Exp(o.M*(J*J-1.0)/2.0)
	dkdJ = k * (o.α/(J-φ0) + o.M*J)
	return
}

// Perm computes the permeability tensor
func (o *PermExpIso) Perm(K [][]float64, s *State) {
	k, _ := o.k(s)
	SetIdentity(K, k)
}

// TangentStrain computes dK/dε = J dk/dJ I⊗I
func (o *PermExpIso) TangentStrain(dKde [][][][]float64, s *State) {
	_, dkdJ := o.k(s)
	a := s.Solid.J * dkdJ
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					dKde[i][j][k][l] = a * tsr.It[i][j] * tsr.It[k][l]
				}
			}
		}
	}
}

// TangentConc computes dK/dc_l
func (o *PermExpIso) TangentConc(dKdc [][]float64, s *State, l int) {
	la.MatFill(dKdc, 0)
}

// TangentPhi0 computes dK/dφ0
func (o *PermExpIso) TangentPhi0(dKdφ [][]float64, s *State) {
	J, φ0 := s.Solid.J, s.Fluid.Phi0
	k, _ := o.k(s)
	SetIdentity(dKdφ, k*o.α*(1.0/(1.0-φ0)-1.0/(J-φ0)))
}
