// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"
)

// Alloc4 allocates a [3][3][3][3] tensor
func Alloc4() (A [][][][]float64) {
	A = make([][][][]float64, 3)
	for i := 0; i < 3; i++ {
		A[i] = make([][][]float64, 3)
		for j := 0; j < 3; j++ {
			A[i][j] = la.MatAlloc(3, 3)
		}
	}
	return
}

// Fill4 sets all components of a fourth order tensor
func Fill4(A [][][][]float64, v float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			la.MatFill(A[i][j], v)
		}
	}
}

// Ddot42 computes b = A : d  =>  b_ij = Σ A_ijkl d_kl
func Ddot42(b [][]float64, A [][][][]float64, d [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			b[i][j] = 0
			for k := 0; k < 3; k++ {
				for l := 0; l < 3; l++ {
					b[i][j] += A[i][j][k][l] * d[k][l]
				}
			}
		}
	}
}

// Inv3 computes ai = inv(a) for symmetric positive definite 3x3 tensors
func Inv3(ai, a [][]float64) (err error) {
	det, err := la.MatInv(ai, a, 0)
	if err != nil {
		return
	}
	if det <= 0 {
		return chk.Err("tensor is not positive definite: det = %g", det)
	}
	return
}

// MatTrMul3 computes c = aᵀ ⋅ b  (3x3)
func MatTrMul3(c, a, b [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i][j] = 0
			for k := 0; k < 3; k++ {
				c[i][j] += a[k][i] * b[k][j]
			}
		}
	}
}

// MatMul3 computes c = a ⋅ b  (3x3)
func MatMul3(c, a, b [][]float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			c[i][j] = 0
			for k := 0; k < 3; k++ {
				c[i][j] += a[i][k] * b[k][j]
			}
		}
	}
}

// MatVecMul3 computes v = a ⋅ u  (3x3)
func MatVecMul3(v []float64, a [][]float64, u []float64) {
	for i := 0; i < 3; i++ {
		v[i] = a[i][0]*u[0] + a[i][1]*u[1] + a[i][2]*u[2]
	}
}

// SetIdentity sets a = α I
func SetIdentity(a [][]float64, α float64) {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			a[i][j] = α * tsr.It[i][j]
		}
	}
}

// Dot3 returns u ⋅ v
func Dot3(u, v []float64) float64 {
	return u[0]*v[0] + u[1]*v[1] + u[2]*v[2]
}
