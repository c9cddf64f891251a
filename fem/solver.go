// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"math"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"gonum.org/v1/gonum/mat"
)

// GlobalLinearSystem holds the global tangent K and residual R of the system K du = R.
// Assembly methods may be called concurrently.
//
// Location vectors follow the equation numbers of Node.Eq: free equations (>= 0) are assembled;
// inactive ones (-1) are skipped; prescribed ones (<= -2) are skipped too, but, if prescribed
// increments have been set, the residual is corrected with R_I -= K_IJ ū_J
type GlobalLinearSystem interface {
	Init(neq, nnz int) (err error)      // allocates memory
	Start()                             // zeroes K and R
	SetPrescribed(dubar []float64)      // sets prescribed increments; nil => no correction
	Assemble(lm []int, ke [][]float64)  // adds element tangent to K
	AssembleRhs(lm []int, fe []float64) // adds element residual to R
	Rhs() []float64                     // returns R
	Solve(du []float64) (err error)     // solves K du = R
	ToDense() [][]float64               // returns a dense copy of K
	Clean()                             // frees memory
}

// NewLinearSystem returns a global linear system; "umfpack" or "dense"
func NewLinearSystem(name string, symmetric bool) (GlobalLinearSystem, error) {
	switch name {
	case "umfpack":
		return &SparseSystem{Symmetric: symmetric}, nil
	case "dense":
		return new(DenseSystem), nil
	}
	return nil, chk.Err("cannot find linear system named %q", name)
}

// SparseSystem assembles K into a triplet and solves with a sparse direct solver
type SparseSystem struct {
	Symmetric bool        // symmetric tangent
	Verbose   bool        // show messages of linear solver
	Kb        *la.Triplet // tangent
	Fb        []float64   // residual
	LinSol    la.LinSol   // linear solver
	dubar     []float64   // prescribed increments
	mu        sync.Mutex  // protects Kb and Fb
	initLSol  bool        // linear solver needs initialisation
}

// Init allocates memory
func (o *SparseSystem) Init(neq, nnz int) (err error) {
	if o.LinSol != nil {
		o.LinSol.Free()
	}
	o.Kb = new(la.Triplet)
	o.Kb.Init(neq, neq, nnz)
	o.Fb = make([]float64, neq)
	o.LinSol = la.GetSolver("umfpack")
	o.initLSol = true
	return
}

// Start zeroes K and R
func (o *SparseSystem) Start() {
	o.Kb.Start()
	la.VecFill(o.Fb, 0)
}

// SetPrescribed sets prescribed increments
func (o *SparseSystem) SetPrescribed(dubar []float64) { o.dubar = dubar }

// Assemble adds element tangent to K
func (o *SparseSystem) Assemble(lm []int, ke [][]float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, I := range lm {
		if I < 0 {
			continue
		}
		for j, J := range lm {
			switch {
			case J >= 0:
				o.Kb.Put(I, J, ke[i][j])
			case J <= -2 && o.dubar != nil:
				o.Fb[I] -= ke[i][j] * o.dubar[-J-2]
			}
		}
	}
}

// AssembleRhs adds element residual to R
func (o *SparseSystem) AssembleRhs(lm []int, fe []float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, I := range lm {
		if I >= 0 {
			o.Fb[I] += fe[i]
		}
	}
}

// Rhs returns R
func (o *SparseSystem) Rhs() []float64 { return o.Fb }

// Solve solves K du = R
func (o *SparseSystem) Solve(du []float64) (err error) {
	if o.initLSol {
		err = o.LinSol.InitR(o.Kb, o.Symmetric, o.Verbose, false)
		if err != nil {
			return chk.Err("cannot initialise linear solver:\n%v", err)
		}
		o.initLSol = false
	}
	err = o.LinSol.Fact()
	if err != nil {
		return chk.Err("factorisation failed:\n%v", err)
	}
	err = o.LinSol.SolveR(du, o.Fb, false)
	if err != nil {
		return chk.Err("solve failed:\n%v", err)
	}
	return
}

// ToDense returns a dense copy of K
func (o *SparseSystem) ToDense() [][]float64 {
	return o.Kb.ToMatrix(nil).ToDense()
}

// Clean frees memory
func (o *SparseSystem) Clean() {
	if o.LinSol != nil {
		o.LinSol.Free()
	}
}

// DenseSystem assembles K into a dense matrix and solves with LU factorisation. For small problems
type DenseSystem struct {
	K     *mat.Dense // tangent
	R     []float64  // residual
	dubar []float64  // prescribed increments
	mu    sync.Mutex // protects K and R
	neq   int        // number of equations
}

// Init allocates memory
func (o *DenseSystem) Init(neq, nnz int) (err error) {
	if neq < 1 {
		return chk.Err("number of equations must be positive. neq = %d", neq)
	}
	o.neq = neq
	o.K = mat.NewDense(neq, neq, nil)
	o.R = make([]float64, neq)
	return
}

// Start zeroes K and R
func (o *DenseSystem) Start() {
	o.K.Zero()
	la.VecFill(o.R, 0)
}

// SetPrescribed sets prescribed increments
func (o *DenseSystem) SetPrescribed(dubar []float64) { o.dubar = dubar }

// Assemble adds element tangent to K
func (o *DenseSystem) Assemble(lm []int, ke [][]float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, I := range lm {
		if I < 0 {
			continue
		}
		for j, J := range lm {
			switch {
			case J >= 0:
				o.K.Set(I, J, o.K.At(I, J)+ke[i][j])
			case J <= -2 && o.dubar != nil:
				o.R[I] -= ke[i][j] * o.dubar[-J-2]
			}
		}
	}
}

// AssembleRhs adds element residual to R
func (o *DenseSystem) AssembleRhs(lm []int, fe []float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, I := range lm {
		if I >= 0 {
			o.R[I] += fe[i]
		}
	}
}

// Rhs returns R
func (o *DenseSystem) Rhs() []float64 { return o.R }

// Solve solves K du = R
func (o *DenseSystem) Solve(du []float64) (err error) {
	var lu mat.LU
	lu.Factorize(o.K)
	x := mat.NewVecDense(o.neq, du)
	err = lu.SolveVecTo(x, false, mat.NewVecDense(o.neq, o.R))
	if err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
			return nil
		}
		return chk.Err("solve failed:\n%v", err)
	}
	return
}

// ToDense returns a dense copy of K
func (o *DenseSystem) ToDense() (K [][]float64) {
	K = la.MatAlloc(o.neq, o.neq)
	for i := 0; i < o.neq; i++ {
		for j := 0; j < o.neq; j++ {
			K[i][j] = o.K.At(i, j)
		}
	}
	return
}

// Clean frees memory
func (o *DenseSystem) Clean() {}
