// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

// register shapes
func init() {

	// hex8
	hex8 := new(Shape)
	hex8.Type = "hex8"
	hex8.Func = Hex8
	hex8.Gndim = 3
	hex8.Nverts = 8
	hex8.IpsKey = "hex_8"
	hex8.FaceLocalVerts = [][]int{{0, 4, 7, 3}, {1, 2, 6, 5}, {0, 1, 5, 4}, {2, 3, 7, 6}, {0, 3, 2, 1}, {4, 5, 6, 7}}
	hex8.NatCoords = [][]float64{
		{-1, 1, 1, -1, -1, 1, 1, -1},
		{-1, -1, 1, 1, -1, -1, 1, 1},
		{-1, -1, -1, -1, 1, 1, 1, 1},
	}
	hex8.init_scratchpad()
	factory["hex8"] = hex8

	// hex20
	hex20 := new(Shape)
	hex20.Type = "hex20"
	hex20.Func = Hex20
	hex20.Gndim = 3
	hex20.Nverts = 20
	hex20.IpsKey = "hex_27"
	hex20.FaceLocalVerts = [][]int{
		{0, 4, 7, 3, 16, 15, 19, 11},
		{1, 2, 6, 5, 9, 18, 13, 17},
		{0, 1, 5, 4, 8, 17, 12, 16},
		{2, 3, 7, 6, 10, 19, 14, 18},
		{0, 3, 2, 1, 11, 10, 9, 8},
		{4, 5, 6, 7, 12, 13, 14, 15},
	}
	hex20.NatCoords = hex20nat
	hex20.init_scratchpad()
	factory["hex20"] = hex20
}

// Hex8 calculates the shape functions (S) and derivatives of shape functions (dSdR) of hex8
// elements at {r,s,t} natural coordinates. The derivatives are calculated only if derivs==true.
// Vertices 0..3 lie on the bottom face (t=-1) and 4..7 on the top face (t=+1), counterclockwise.
func Hex8(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s, t := R[0], R[1], R[2]
	rc := hex8coords
	for m := 0; m < 8; m++ {
		a, b, c := 1.0+rc[m][0]*r, 1.0+rc[m][1]*s, 1.0+rc[m][2]*t
		S[m] = a * b * c / 8.0
		if derivs {
			dSdR[m][0] = rc[m][0] * b * c / 8.0
			dSdR[m][1] = a * rc[m][1] * c / 8.0
			dSdR[m][2] = a * b * rc[m][2] / 8.0
		}
	}
}

// Hex20 calculates the shape functions (S) and derivatives of shape functions (dSdR) of hex20
// (serendipity) elements at {r,s,t} natural coordinates. Corners are numbered as in hex8;
// mid-edge nodes follow: 8..11 on the bottom face, 12..15 on the top face, 16..19 vertical edges
func Hex20(S []float64, dSdR [][]float64, R []float64, derivs bool) {
	r, s, t := R[0], R[1], R[2]
	nc := hex20nat
	for m := 0; m < 20; m++ {
		ri, si, ti := nc[0][m], nc[1][m], nc[2][m]
		ξ, η, ζ := r*ri, s*si, t*ti
		switch {
		case m < 8: // corner
			S[m] = (1 + ξ) * (1 + η) * (1 + ζ) * (ξ + η + ζ - 2) / 8.0
			if derivs {
				dSdR[m][0] = ri * (1 + η) * (1 + ζ) * (2*ξ + η + ζ - 1) / 8.0
				dSdR[m][1] = si * (1 + ξ) * (1 + ζ) * (ξ + 2*η + ζ - 1) / 8.0
				dSdR[m][2] = ti * (1 + ξ) * (1 + η) * (ξ + η + 2*ζ - 1) / 8.0
			}
		case ri == 0:
			S[m] = (1 - r*r) * (1 + η) * (1 + ζ) / 4.0
			if derivs {
				dSdR[m][0] = -r * (1 + η) * (1 + ζ) / 2.0
				dSdR[m][1] = si * (1 - r*r) * (1 + ζ) / 4.0
				dSdR[m][2] = ti * (1 - r*r) * (1 + η) / 4.0
			}
		case si == 0:
			S[m] = (1 + ξ) * (1 - s*s) * (1 + ζ) / 4.0
			if derivs {
				dSdR[m][0] = ri * (1 - s*s) * (1 + ζ) / 4.0
				dSdR[m][1] = -s * (1 + ξ) * (1 + ζ) / 2.0
				dSdR[m][2] = ti * (1 + ξ) * (1 - s*s) / 4.0
			}
		default: // ti == 0
			S[m] = (1 + ξ) * (1 + η) * (1 - t*t) / 4.0
			if derivs {
				dSdR[m][0] = ri * (1 + η) * (1 - t*t) / 4.0
				dSdR[m][1] = si * (1 + ξ) * (1 - t*t) / 4.0
				dSdR[m][2] = -t * (1 + ξ) * (1 + η) / 2.0
			}
		}
	}
}

// hex8coords holds the corners of the reference cube [nverts][3]
var hex8coords = [][]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// hex20nat holds the natural coordinates of hex20 [3][nverts]
var hex20nat = [][]float64{
	{-1, 1, 1, -1, -1, 1, 1, -1, 0, 1, 0, -1, 0, 1, 0, -1, -1, 1, 1, -1},
	{-1, -1, 1, 1, -1, -1, 1, 1, -1, 0, 1, 0, -1, 0, 1, 0, -1, -1, 1, 1},
	{-1, -1, -1, -1, 1, 1, 1, 1, -1, -1, -1, -1, 1, 1, 1, 1, 0, 0, 0, 0},
}
