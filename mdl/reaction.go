// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/tsr"
)

// MassActionForward implements an irreversible reaction following the law of mass action
//  ẑ = kf Π ca_k^νR_k
// Reactants are solutes; products may be solutes or solid-bound molecules.
// The element data holds the extent of reaction ∫ẑ dt: {current, beginning of step}
type MassActionForward struct {
	kf   float64   // forward rate constant
	Vbar float64   // molar volume of the reaction
	νR   []float64 // reactants' coefficients [nsol]
	ν    []float64 // net coefficients [nsol+nsbm]
}

// Init initialises model
func (o *MassActionForward) Init(prms dbf.Params, nsol, nsbm int) (err error) {
	o.νR = make([]float64, nsol)
	o.ν = make([]float64, nsol+nsbm)
	for _, p := range prms {
		switch {
		case p.N == "kf":
			o.kf = p.V
		case p.N == "Vbar":
			o.Vbar = p.V
		case strings.HasPrefix(p.N, "vPs"): // solid-bound product
			m, e := strconv.Atoi(p.N[3:])
			if e != nil || m < 0 || m >= nsbm {
				return chk.Err("mass-action-forward: parameter %q does not correspond to a solid-bound molecule\n", p.N)
			}
			o.ν[nsol+m] += p.V
		case strings.HasPrefix(p.N, "vP"), strings.HasPrefix(p.N, "vR"):
			k, e := strconv.Atoi(p.N[2:])
			if e != nil || k < 0 || k >= nsol {
				return chk.Err("mass-action-forward: parameter %q does not correspond to a solute\n", p.N)
			}
			if p.N[1] == 'R' {
				o.νR[k] = p.V
				o.ν[k] -= p.V
			} else {
				o.ν[k] += p.V
			}
		default:
			return chk.Err("mass-action-forward: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.kf < 0 {
		return chk.Err("mass-action-forward: rate constant must be non-negative. kf = %g\n", o.kf)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o MassActionForward) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "kf", V: 1e-2},
		&dbf.P{N: "Vbar", V: 0},
		&dbf.P{N: "vR0", V: 1},
		&dbf.P{N: "vP1", V: 1},
	}
}

// Stoich returns the net stoichiometric coefficients
func (o *MassActionForward) Stoich() []float64 { return o.ν }

// MolarVolume returns the molar volume of the reaction
func (o *MassActionForward) MolarVolume() float64 { return o.Vbar }

// Ndata returns the number of element data
func (o *MassActionForward) Ndata() int { return 2 }

// Supply returns the molar supply
func (o *MassActionForward) Supply(s *State) float64 {
	ẑ := o.kf
	for k, ν := range o.νR {
		if ν > 0 {
			ẑ *= math.Pow(s.Solutes.Ca[k], ν)
		}
	}
	return ẑ
}

// dzdca returns ∂ẑ/∂ca_k
func (o *MassActionForward) dzdca(s *State, k int) float64 {
	if o.νR[k] <= 0 {
		return 0
	}
	res := o.kf * o.νR[k] * math.Pow(s.Solutes.Ca[k], o.νR[k]-1.0)
	for j, ν := range o.νR {
		if j != k && ν > 0 {
			res *= math.Pow(s.Solutes.Ca[j], ν)
		}
	}
	return res
}

// TangentStrain computes dẑ/dε through the partition coefficients
func (o *MassActionForward) TangentStrain(Z [][]float64, s *State) {
	a := 0.0
	for k := range o.νR {
		a += o.dzdca(s, k) * s.Solutes.C[k] * s.Solutes.DkdJ[k] * s.Solid.J
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			Z[i][j] = a * tsr.It[i][j]
		}
	}
}

// TangentConc returns dẑ/dc_l
func (o *MassActionForward) TangentConc(s *State, l int) (res float64) {
	sol := s.Solutes
	for k := range o.νR {
		dcadc := sol.Dkdc[k][l] * sol.C[k]
		if k == l {
			dcadc += sol.Kappa[k]
		}
		res += o.dzdca(s, k) * dcadc
	}
	return
}

// TangentSbm returns dẑ/dρr_m through the dependence of the partition coefficients on ρr_m
func (o *MassActionForward) TangentSbm(s *State, m int) (res float64) {
	sol := s.Solutes
	for k := range o.νR {
		res += o.dzdca(s, k) * sol.C[k] * sol.Dkdr[k][m]
	}
	return
}

// ResetElementData resets the extent of reaction
func (o *MassActionForward) ResetElementData(d []float64) {
	d[0], d[1] = 0, 0
}

// InitializeElementData stores the extent of reaction at the beginning of the time step
func (o *MassActionForward) InitializeElementData(d []float64) {
	d[1] = d[0]
}

// UpdateElementData integrates the extent of reaction
func (o *MassActionForward) UpdateElementData(d []float64, s *State, dt float64) {
	d[0] = d[1] + dt*o.Supply(s)
}
