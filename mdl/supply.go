// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/la"
)

// Starling implements the solvent supply of Starling's equation
//  φ̂ = kp (pv - p) + Σ qc_k (cv_k - c_k)
type Starling struct {
	kp float64   // filtration coefficient
	pv float64   // pressure of the vascular (external) compartment
	qc []float64 // osmotic filtration coefficients [nsol]
	cv []float64 // concentrations of the vascular compartment [nsol]
}

// Init initialises model
func (o *Starling) Init(prms dbf.Params, nsol int) (err error) {
	o.qc = make([]float64, nsol)
	o.cv = make([]float64, nsol)
	for _, p := range prms {
		switch {
		case p.N == "kp":
			o.kp = p.V
		case p.N == "pv":
			o.pv = p.V
		case strings.HasPrefix(p.N, "qc"), strings.HasPrefix(p.N, "cv"):
			k, e := strconv.Atoi(p.N[2:])
			if e != nil || k < 0 || k >= nsol {
				return chk.Err("starling: parameter %q does not correspond to a solute\n", p.N)
			}
			if p.N[:2] == "qc" {
				o.qc[k] = p.V
			} else {
				o.cv[k] = p.V
			}
		default:
			return chk.Err("starling: parameter named %q is incorrect\n", p.N)
		}
	}
	return
}

// GetPrms gets (an example) of parameters
func (o Starling) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "kp", V: 1e-3},
		&dbf.P{N: "pv", V: 0},
		&dbf.P{N: "qc0", V: 1e-4},
		&dbf.P{N: "cv0", V: 0},
	}
}

// Supply returns the solvent supply
func (o *Starling) Supply(s *State) (φhat float64) {
	φhat = o.kp * (o.pv - s.Fluid.P)
	if s.Solutes != nil {
		for k, c := range s.Solutes.C {
			φhat += o.qc[k] * (o.cv[k] - c)
		}
	}
	return
}

// TangentStrain computes dφ̂/dε
func (o *Starling) TangentStrain(Φe [][]float64, s *State) {
	la.MatFill(Φe, 0)
}

// TangentPressure returns dφ̂/dp
func (o *Starling) TangentPressure(s *State) float64 { return -o.kp }

// TangentConc returns dφ̂/dc_l
func (o *Starling) TangentConc(s *State, l int) float64 { return -o.qc[l] }
