// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Donnan implements the Donnan equilibrium of a charged tissue with one monovalent counter-ion
// and one monovalent co-ion. The electroneutrality condition
//
//   cF + κ̂₊ c₊ ζ - κ̂₋ c₋ / ζ = 0
//
// is a quadratic equation in ζ = exp(-Fc ψ / (R T)) whose positive root gives the partition
// coefficients κ₊ = κ̂₊ ζ and κ₋ = κ̂₋ / ζ
type Donnan struct {

	// input
	CF  float64 // fixed charge density
	Cp  float64 // effective concentration of the cation
	Cm  float64 // effective concentration of the anion
	Kp  float64 // solubility of the cation
	Km  float64 // solubility of the anion
	RT  float64 // gas constant times absolute temperature
	Fc  float64 // Faraday constant
	Phi float64 // osmotic coefficient

	// derived
	Zeta float64 // ζ
}

// Init initialises this structure
//  prms -- "cF", "cp", "cm" (required) and "kp", "km", "RT", "Fc", "phi" (default 1)
func (o *Donnan) Init(prms dbf.Params) (err error) {
	o.Kp, o.Km, o.RT, o.Fc, o.Phi = 1, 1, 1, 1, 1
	var ncp, ncm int
	for _, p := range prms {
		switch p.N {
		case "cF":
			o.CF = p.V
		case "cp":
			o.Cp = p.V
			ncp++
		case "cm":
			o.Cm = p.V
			ncm++
		case "kp":
			o.Kp = p.V
		case "km":
			o.Km = p.V
		case "RT":
			o.RT = p.V
		case "Fc":
			o.Fc = p.V
		case "phi":
			o.Phi = p.V
		default:
			return chk.Err("donnan: parameter named %q is invalid", p.N)
		}
	}
	if ncp == 0 || ncm == 0 {
		return chk.Err("donnan: concentrations cp and cm are required")
	}
	a, c := o.Kp*o.Cp, o.Km*o.Cm
	if a <= 0 || c <= 0 {
		return chk.Err("donnan: concentrations and solubilities must be positive")
	}
	o.Zeta = (-o.CF + math.Sqrt(o.CF*o.CF+4.0*a*c)) / (2.0 * a)
	return
}

// Kappa returns the partition coefficients of the cation and the anion
func (o Donnan) Kappa() (κp, κm float64) {
	return o.Kp * o.Zeta, o.Km / o.Zeta
}

// Ca returns the actual concentrations of the cation and the anion
func (o Donnan) Ca() (cp, cm float64) {
	κp, κm := o.Kappa()
	return κp * o.Cp, κm * o.Cm
}

// Psi returns the electric potential
func (o Donnan) Psi() float64 {
	return -o.RT / o.Fc * math.Log(o.Zeta)
}

// Pressure returns the actual fluid pressure for a given effective pressure p
func (o Donnan) Pressure(p float64) float64 {
	cp, cm := o.Ca()
	return p + o.RT*o.Phi*(cp+cm)
}

// SwellingPressure returns the excess of osmotic pressure with respect to an ideal bath with
// concentrations cp and cm
func (o Donnan) SwellingPressure() float64 {
	return o.Pressure(0) - o.RT*(o.Cp+o.Cm)
}
