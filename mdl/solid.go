// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/tsr"
)

// NeoHookean implements a compressible neo-Hookean solid
//  σ = μ/J (b - I) + λ ln(J)/J I
type NeoHookean struct {
	E, ν float64 // Young's modulus and Poisson's coefficient
	μ, λ float64 // Lamé coefficients
}

// StVenantKirchhoff implements the St.Venant-Kirchhoff solid
//  S = λ tr(E) I + 2 μ E  and  σ = F S Fᵀ / J
type StVenantKirchhoff struct {
	E, ν float64 // Young's modulus and Poisson's coefficient
	μ, λ float64 // Lamé coefficients
}

// lame computes the Lamé coefficients
func lame(prms dbf.Params) (E, ν, μ, λ float64, err error) {
	for _, p := range prms {
		switch p.N {
		case "E":
			E = p.V
		case "nu":
			ν = p.V
		default:
			return 0, 0, 0, 0, chk.Err("elastic model: parameter named %q is incorrect\n", p.N)
		}
	}
	if E <= 0 || ν <= -1 || ν >= 0.5 {
		return 0, 0, 0, 0, chk.Err("elastic model: invalid parameters E=%g nu=%g\n", E, ν)
	}
	μ = E / (2.0 * (1.0 + ν))
	λ = E * ν / ((1.0 + ν) * (1.0 - 2.0*ν))
	return
}

// leftCauchyGreen computes b = F Fᵀ
func leftCauchyGreen(F [][]float64) (b [3][3]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = F[i][0]*F[j][0] + F[i][1]*F[j][1] + F[i][2]*F[j][2]
		}
	}
	return
}

// Init initialises model
func (o *NeoHookean) Init(prms dbf.Params) (err error) {
	o.E, o.ν, o.μ, o.λ, err = lame(prms)
	return
}

// GetPrms gets (an example) of parameters
func (o NeoHookean) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 1},
		&dbf.P{N: "nu", V: 0.3},
	}
}

// Stress computes the effective Cauchy stress
func (o *NeoHookean) Stress(σ [][]float64, s *State) {
	J := s.Solid.J
	b := leftCauchyGreen(s.Solid.F)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			σ[i][j] = o.μ/J*(b[i][j]-tsr.It[i][j]) + o.λ*math.Log(J)/J*tsr.It[i][j]
		}
	}
}

// Tangent computes the spatial elasticity tangent
//  c = λ/J I⊗I + 2 (μ - λ ln J)/J 𝕀
func (o *NeoHookean) Tangent(c [][][][]float64, s *State) {
	J := s.Solid.J
	a := o.λ / J
	m := (o.μ - o.λ*math.Log(J)) / J
	I := tsr.It
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					c[i][j][k][l] = a*I[i][j]*I[k][l] + m*(I[i][k]*I[j][l]+I[i][l]*I[j][k])
				}
			}
		}
	}
}

// Init initialises model
func (o *StVenantKirchhoff) Init(prms dbf.Params) (err error) {
	o.E, o.ν, o.μ, o.λ, err = lame(prms)
	return
}

// GetPrms gets (an example) of parameters
func (o StVenantKirchhoff) GetPrms() dbf.Params {
	return []*dbf.P{
		&dbf.P{N: "E", V: 1},
		&dbf.P{N: "nu", V: 0.3},
	}
}

// Stress computes the effective Cauchy stress
//  σ = 1/J [ λ tr(E) b + μ (b⋅b - b) ]
func (o *StVenantKirchhoff) Stress(σ [][]float64, s *State) {
	J := s.Solid.J
	b := leftCauchyGreen(s.Solid.F)
	trE := (b[0][0] + b[1][1] + b[2][2] - 3.0) / 2.0
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			bb := b[i][0]*b[0][j] + b[i][1]*b[1][j] + b[i][2]*b[2][j]
			σ[i][j] = (o.λ*trE*b[i][j] + o.μ*(bb-b[i][j])) / J
		}
	}
}

// Tangent computes the spatial elasticity tangent (push-forward of the material one)
//  c_ijkl = 1/J [ λ b_ij b_kl + μ (b_ik b_jl + b_il b_jk) ]
func (o *StVenantKirchhoff) Tangent(c [][][][]float64, s *State) {
	J := s.Solid.J
	b := leftCauchyGreen(s.Solid.F)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					c[i][j][k][l] = (o.λ*b[i][j]*b[k][l] + o.μ*(b[i][k]*b[j][l]+b[i][l]*b[j][k])) / J
				}
			}
		}
	}
}
