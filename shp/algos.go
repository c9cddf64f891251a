// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// constants
const (
	INVMAP_TOL = 1.0e-10 // tolerance for inverse mapping function
	INVMAP_NIT = 25      // maximum number of iterations for inverse mapping
)

// InvMap computes the natural coordinates r, given the real coordinate y
//  Input:
//   y[ndim]         -- are the 3D point coordinates
//   x[ndim][nverts] -- coordinates matrix of solid element
//  Output:
//   r[3] -- are the natural coordinates of given point
func (o *Shape) InvMap(r, y []float64, x [][]float64) (err error) {

	// first trial: centroid in natural coordinates
	for i := 0; i < o.Gndim; i++ {
		r[i] = 0
		for n := 0; n < o.Nverts; n++ {
			r[i] += o.NatCoords[i][n]
		}
		r[i] /= float64(o.Nverts)
	}

	var δRnorm float64
	e := make([]float64, o.Gndim)  // residual
	δr := make([]float64, o.Gndim) // corrector
	for it := 0; it < INVMAP_NIT; it++ {

		// shape functions and derivatives
		o.Func(o.S, o.DSdR, r, true)

		// residual: e = y - x * S
		for i := 0; i < o.Gndim; i++ {
			e[i] = y[i]
			for j := 0; j < o.Nverts; j++ {
				e[i] -= x[i][j] * o.S[j]
			}
		}

		// Jmat == dxdR = x * dSdR;
		for i := 0; i < len(x); i++ {
			for j := 0; j < o.Gndim; j++ {
				o.DxdR[i][j] = 0.0
				for k := 0; k < o.Nverts; k++ {
					o.DxdR[i][j] += x[i][k] * o.DSdR[k][j]
				}
			}
		}

		// Jimat == dRdx = Jmat.inverse();
		o.J, err = la.MatInv(o.DRdx, o.DxdR, MINDET)
		if err != nil {
			return
		}

		// corrector: dR = Jimat * e
		δRnorm = 0.0
		for i := 0; i < o.Gndim; i++ {
			δr[i] = 0.0
			for j := 0; j < o.Gndim; j++ {
				δr[i] += o.DRdx[i][j] * e[j]
			}
			r[i] += δr[i]
			δRnorm += δr[i] * δr[i]
		}
		if math.Sqrt(δRnorm) < INVMAP_TOL {
			return
		}
	}
	return chk.Err("inverse mapping did not converge after %d iterations", INVMAP_NIT)
}

// IsInside tells whether the natural coordinates r fall within the reference cell
func (o *Shape) IsInside(r []float64, tol float64) bool {
	switch o.Type {
	case "hex8", "hex20":
		for i := 0; i < 3; i++ {
			if math.Abs(r[i]) > 1.0+tol {
				return false
			}
		}
		return true
	case "tet4", "tet10":
		return r[0] >= -tol && r[1] >= -tol && r[2] >= -tol && r[0]+r[1]+r[2] <= 1.0+tol
	case "penta6":
		return r[0] >= -tol && r[1] >= -tol && r[0]+r[1] <= 1.0+tol && math.Abs(r[2]) <= 1.0+tol
	}
	return false
}
