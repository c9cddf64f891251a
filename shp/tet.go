// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {

	// tet4
	tet4 := new(Shape)
	tet4.Type = "tet4"
	tet4.Func = Tet4
	tet4.Gndim = 3
	tet4.Nverts = 4
	tet4.IpsKey = "tet_4"
	tet4.FaceLocalVerts = [][]int{{0, 3, 2}, {0, 1, 3}, {0, 2, 1}, {1, 2, 3}}
	tet4.NatCoords = [][]float64{
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	tet4.init_scratchpad()
	factory["tet4"] = tet4

	// tet10
	tet10 := new(Shape)
	tet10.Type = "tet10"
	tet10.Func = Tet10
	tet10.Gndim = 3
	tet10.Nverts = 10
	tet10.IpsKey = "tet_4"
	tet10.FaceLocalVerts = [][]int{{0, 3, 2, 7, 9, 6}, {0, 1, 3, 4, 8, 7}, {0, 2, 1, 6, 5, 4}, {1, 2, 3, 5, 9, 8}}
	tet10.NatCoords = [][]float64{
		{0, 1, 0, 0, 0.5, 0.5, 0, 0, 0.5, 0},
		{0, 0, 1, 0, 0, 0.5, 0.5, 0, 0, 0.5},
		{0, 0, 0, 1, 0, 0, 0, 0.5, 0.5, 0.5},
	}
	tet10.init_scratchpad()
	factory["tet10"] = tet10
}

// Tet4 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tet4
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
func Tet4(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s, t := R[0], R[1], R[2]
	S[0] = 1.0 - r - s - t
	S[1] = r
	S[2] = s
	S[3] = t
	if !derivs {
		return
	}
	for m := 0; m < 4; m++ {
		copy(dSdR[m], tetdL[m])
	}
}

// Tet10 calculates the shape functions (S) and derivatives of shape functions (dSdR) of tet10
// elements at {r,s,t} natural coordinates. Mid-edge nodes are: 4(0-1) 5(1-2) 6(2-0) 7(0-3) 8(1-3) 9(2-3)
func Tet10(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s, t := R[0], R[1], R[2]
	L := []float64{1.0 - r - s - t, r, s, t}
	for m := 0; m < 4; m++ {
		S[m] = L[m] * (2.0*L[m] - 1.0)
		if derivs {
			for i := 0; i < 3; i++ {
				dSdR[m][i] = (4.0*L[m] - 1.0) * tetdL[m][i]
			}
		}
	}
	for k, e := range tet10edges {
		a, b := e[0], e[1]
		m := 4 + k
		S[m] = 4.0 * L[a] * L[b]
		if derivs {
			for i := 0; i < 3; i++ {
				dSdR[m][i] = 4.0 * (tetdL[a][i]*L[b] + L[a]*tetdL[b][i])
			}
		}
	}
}

// tetdL holds the derivatives of the volume coordinates w.r.t {r,s,t}
var tetdL = [][]float64{{-1, -1, -1}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

// tet10edges holds the corners of each mid-edge node of tet10
var tet10edges = [][]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}}
