// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {
	penta6 := new(Shape)
	penta6.Type = "penta6"
	penta6.Func = Penta6
	penta6.Gndim = 3
	penta6.Nverts = 6
	penta6.IpsKey = "wed_6"
	penta6.FaceLocalVerts = [][]int{{0, 1, 4, 3}, {1, 2, 5, 4}, {0, 3, 5, 2}, {0, 2, 1}, {3, 4, 5}}
	penta6.NatCoords = [][]float64{
		{0, 1, 0, 0, 1, 0},
		{0, 0, 1, 0, 0, 1},
		{-1, -1, -1, 1, 1, 1},
	}
	penta6.init_scratchpad()
	factory["penta6"] = penta6
}

// Penta6 calculates the shape functions (S) and derivatives of shape functions (dSdR) of penta6
// (wedge) elements at {r,s,t} natural coordinates; {r,s} span the triangle and t ∈ [-1,1]
func Penta6(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s, t := R[0], R[1], R[2]
	L := []float64{1.0 - r - s, r, s}
	dLdr := []float64{-1, 1, 0}
	dLds := []float64{-1, 0, 1}
	for m := 0; m < 3; m++ {
		lo, hi := (1.0-t)/2.0, (1.0+t)/2.0
		S[m] = L[m] * lo
		S[m+3] = L[m] * hi
		if derivs {
			dSdR[m][0], dSdR[m][1], dSdR[m][2] = dLdr[m]*lo, dLds[m]*lo, -L[m]/2.0
			dSdR[m+3][0], dSdR[m+3][1], dSdR[m+3][2] = dLdr[m]*hi, dLds[m]*hi, L[m]/2.0
		}
	}
}
