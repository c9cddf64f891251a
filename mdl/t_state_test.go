// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_state01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state01")

	// biphasic
	s0 := NewState(0, 0, nil)
	io.Pforan("s0 = %+v\n", s0)
	if s0.Solutes != nil {
		tst.Errorf("biphasic state must not have solutes substate\n")
		return
	}
	chk.Scalar(tst, "J", 1e-17, s0.Solid.J, 1)
	chk.Matrix(tst, "F", 1e-17, s0.Solid.F, [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	chk.IntAssert(s0.Nsol(), 0)
	chk.IntAssert(s0.Nsbm(), 0)

	// multiphasic
	s1 := NewState(2, 1, []int{2})
	chk.IntAssert(s1.Nsol(), 2)
	chk.IntAssert(s1.Nsbm(), 1)
	chk.Vector(tst, "κ", 1e-17, s1.Solutes.Kappa, []float64{1, 1})
	s1.Solid.F[0][1] = 0.5
	s1.Solid.J = 1.2
	s1.Fluid.P = 3
	s1.Fluid.GradP[2] = 4
	s1.Solutes.C[1] = 0.7
	s1.Solutes.GradC[1][0] = -2
	s1.Solutes.Dkdr[1][0] = 0.25
	s1.Solutes.Sbmr[0] = 0.4
	s1.Rdata[0][1] = 6

	// set
	s2 := NewState(2, 1, []int{2})
	s2.Set(s1)
	chk.Scalar(tst, "F01", 1e-17, s2.Solid.F[0][1], 0.5)
	chk.Scalar(tst, "J", 1e-17, s2.Solid.J, 1.2)
	chk.Scalar(tst, "p", 1e-17, s2.Fluid.P, 3)
	chk.Vector(tst, "∇p", 1e-17, s2.Fluid.GradP, []float64{0, 0, 4})
	chk.Vector(tst, "c", 1e-17, s2.Solutes.C, []float64{0, 0.7})
	chk.Matrix(tst, "∇c", 1e-17, s2.Solutes.GradC, [][]float64{{0, 0, 0}, {-2, 0, 0}})
	chk.Matrix(tst, "dκdρr", 1e-17, s2.Solutes.Dkdr, [][]float64{{0}, {0.25}})
	chk.Vector(tst, "ρr", 1e-17, s2.Solutes.Sbmr, []float64{0.4})
	chk.Vector(tst, "rdata", 1e-17, s2.Rdata[0], []float64{0, 6})

	// copy is independent
	s3 := s1.GetCopy()
	s1.Solutes.C[1] = 123
	s1.Rdata[0][1] = 123
	chk.Vector(tst, "c", 1e-17, s3.Solutes.C, []float64{0, 0.7})
	chk.Vector(tst, "rdata", 1e-17, s3.Rdata[0], []float64{0, 6})
	chk.Scalar(tst, "J", 1e-17, s3.Solid.J, 1.2)
}
