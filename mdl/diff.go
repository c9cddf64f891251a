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

// DiffConstIso implements a constant isotropic diffusivity D = d I
type DiffConstIso struct {
	D0 float64 // free diffusivity
	d  float64 // diffusivity in the mixture
}

// DiffPorosity implements an isotropic diffusivity hindered by the solid matrix
//  D = D0 φw^β I
type DiffPorosity struct {
	D0 float64 // free diffusivity
	β  float64 // exponent
}

// Init initialises model
func (o *DiffConstIso) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "free_diff":
			o.D0 = p.V
		case "diff":
			o.d = p.V
		default:
			return chk.Err("diff-const-iso: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.D0 <= 0 || o.d <= 0 || o.d > o.D0 {
		return chk.Err("diff-const-iso: invalid parameters: 0 < diff=%g <= free_diff=%g is required\n", o.d, o.D0)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o DiffConstIso) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "free_diff", V: 1e-3},
		&dbf.P{N: "diff", V: 5e-4},
	}
}

// Diff computes the diffusivity tensor
func (o *DiffConstIso) Diff(D [][]float64, s *State) {
	SetIdentity(D, o.d)
}

// TangentStrain computes dD/dε
func (o *DiffConstIso) TangentStrain(dDde [][][][]float64, s *State) {
	Fill4(dDde, 0)
}

// TangentConc computes dD/dc_l
func (o *DiffConstIso) TangentConc(dDdc [][]float64, s *State, l int) {
	la.MatFill(dDdc, 0)
}

// TangentPhi0 computes dD/dφ0
func (o *DiffConstIso) TangentPhi0(dDdφ [][]float64, s *State) {
	la.MatFill(dDdφ, 0)
}

// Free returns the free diffusivity
func (o *DiffConstIso) Free(s *State) float64 { return o.D0 }

// FreeTangentConc returns dD0/dc_l
func (o *DiffConstIso) FreeTangentConc(s *State, l int) float64 { return 0 }

// Init initialises model
func (o *DiffPorosity) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "free_diff":
			o.D0 = p.V
		case "beta":
			o.β = p.V
		default:
			return chk.Err("diff-porosity: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.D0 <= 0 || o.β < 0 {
		return chk.Err("diff-porosity: invalid parameters free_diff=%g beta=%g\n", o.D0, o.β)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o DiffPorosity) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "free_diff", V: 1e-3},
		&dbf.P{N: "beta", V: 1},
	}
}

// Diff computes the diffusivity tensor
func (o *DiffPorosity) Diff(D [][]float64, s *State) {
	φw := 1.0 - s.Fluid.Phi0/s.Solid.J
	SetIdentity(D, o.D0*math.Pow(φw, o.β))
}

// TangentStrain computes dD/dε = D0 β φw^(β-1) (1 - φw) I⊗I
func (o *DiffPorosity) TangentStrain(dDde [][][][]float64, s *State) {
	φw := 1.0 - s.Fluid.Phi0/s.Solid.J
	a := o.D0 * o.β * math.Pow(φw, o.β-1.0) * (1.0 - φw)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					dDde[i][j][k][l] = a * tsr.It[i][j] * tsr.It[k][l]
				}
			}
		}
	}
}

// TangentConc computes dD/dc_l
func (o *DiffPorosity) TangentConc(dDdc [][]float64, s *State, l int) {
	la.MatFill(dDdc, 0)
}

// TangentPhi0 computes dD/dφ0 = -D0 β φw^(β-1) / J
func (o *DiffPorosity) TangentPhi0(dDdφ [][]float64, s *State) {
	φw := 1.0 - s.Fluid.Phi0/s.Solid.J
	SetIdentity(dDdφ, -o.D0*o.β*math.Pow(φw, o.β-1.0)/s.Solid.J)
}

// Free returns the free diffusivity
func (o *DiffPorosity) Free(s *State) float64 { return o.D0 }

// FreeTangentConc returns dD0/dc_l
func (o *DiffPorosity) FreeTangentConc(s *State, l int) float64 { return 0 }
