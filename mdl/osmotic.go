// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// OsmCoefConst implements a constant osmotic coefficient
type OsmCoefConst struct {
	Φ float64
}

// OsmCoefLinear implements an osmotic coefficient varying linearly with the total concentration
//  Φ = Φ0 + β Σ c_k
type OsmCoefLinear struct {
	Φ0 float64
	β  float64
}

// SolubConst implements a constant solubility
type SolubConst struct {
	κ float64
}

// Init initialises model
func (o *OsmCoefConst) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "osmcoef":
			o.Φ = p.V
		default:
			return chk.Err("osm-coef-const: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o OsmCoefConst) GetPrms() dbf.Params {
	return []*dbf.P{&dbf.P{N: "osmcoef", V: 1}}
}

// Coef returns the osmotic coefficient
func (o *OsmCoefConst) Coef(s *State) float64 { return o.Φ }

// TangentConc returns dΦ/dc_l
func (o *OsmCoefConst) TangentConc(s *State, l int) float64 { return 0 }

// Init initialises model
func (o *OsmCoefLinear) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "osmcoef":
			o.Φ0 = p.V
		case "beta":
			o.β = p.V
		default:
			return chk.Err("osm-coef-linear: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o OsmCoefLinear) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "osmcoef", V: 1},
		&dbf.P{N: "beta", V: 0.1},
	}
}

// Coef returns the osmotic coefficient
func (o *OsmCoefLinear) Coef(s *State) float64 {
	Φ := o.Φ0
	if s.Solutes != nil {
		for _, c := range s.Solutes.C {
			Φ += o.β * c
		}
	}
	return Φ
}

// TangentConc returns dΦ/dc_l
func (o *OsmCoefLinear) TangentConc(s *State, l int) float64 { return o.β }

// Init initialises model
func (o *SolubConst) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch p.N {
		case "solub":
			o.κ = p.V
		default:
			return chk.Err("solub-const: parameter named %q is incorrect\n", p.N)
		}
	}
	if o.κ <= 0 {
		return chk.Err("solub-const: solubility must be positive. solub = %g\n", o.κ)
	}
	return
}

// GetPrms gets (an example) of parameters
func (o SolubConst) GetPrms() dbf.Params {
	return []*dbf.P{&dbf.P{N: "solub", V: 1}}
}

// Solub returns the solubility
func (o *SolubConst) Solub(s *State) float64 { return o.κ }

// TangentStrain returns dκ̂/dJ
func (o *SolubConst) TangentStrain(s *State) float64 { return 0 }

// TangentConc returns dκ̂/dc_l
func (o *SolubConst) TangentConc(s *State, l int) float64 { return 0 }
