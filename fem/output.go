// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import "github.com/cpmech/gosl/io"

// OutIpData is an auxiliary structure to transfer data from integration points (IP) to output routines
type OutIpData struct {
	Eid  int                       // id of element that owns this ip
	X    []float64                 // reference coordinates of ip
	Calc func() map[string]float64 // returns the current values at ip
}

// OutIpsData returns data from all integration points for output
//  keys: J, p, pa, phiw, wx..wz, sx..sz, sxy, syz, szx and, with solutes, ca0.., psi, cF, rho0..
func (o *ElemMph) OutIpsData() (data []*OutIpData) {
	for idx := range o.IpsElem {
		x := make([]float64, 3)
		for m, n := range o.Nodes {
			for i := 0; i < 3; i++ {
				x[i] += o.S[idx][m] * n.X0[i]
			}
		}
		ip := idx
		data = append(data, &OutIpData{o.Cell.Id, x, func() map[string]float64 { return o.ipValues(ip) }})
	}
	return
}

// ipValues returns the values at integration point idx
func (o *ElemMph) ipValues(idx int) (v map[string]float64) {
	s := o.States[idx]
	σ := s.Solid.Sig
	v = map[string]float64{
		"J":    s.Solid.J,
		"p":    s.Fluid.P,
		"pa":   s.Fluid.Pa,
		"phiw": o.Mat.Porosity(s),
		"wx":   s.Fluid.W[0],
		"wy":   s.Fluid.W[1],
		"wz":   s.Fluid.W[2],
		"sx":   σ[0][0],
		"sy":   σ[1][1],
		"sz":   σ[2][2],
		"sxy":  σ[0][1],
		"syz":  σ[1][2],
		"szx":  σ[2][0],
	}
	if s.Solutes == nil {
		return
	}
	for k := 0; k < o.Nsol; k++ {
		v[io.Sf("ca%d", k)] = s.Solutes.Ca[k]
	}
	for m := 0; m < o.Nsbm; m++ {
		v[io.Sf("rho%d", m)] = s.Solutes.Sbmr[m]
	}
	v["psi"] = s.Solutes.Psi
	v["cF"] = s.Solutes.Cf
	return
}
