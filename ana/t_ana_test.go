// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func Test_donnan01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("donnan01")

	// negatively charged tissue in a 1:1 salt
	var sol Donnan
	err := sol.Init(dbf.Params{{N: "cF", V: -0.2}, {N: "cp", V: 0.15}, {N: "cm", V: 0.15}})
	require.NoError(tst, err)
	cp, cm := sol.Ca()
	io.Pforan("ζ = %v  c₊ = %v  c₋ = %v  ψ = %v\n", sol.Zeta, cp, cm, sol.Psi())
	chk.Scalar(tst, "electroneutrality", 1e-15, sol.CF+cp-cm, 0)
	chk.Scalar(tst, "c₊ c₋", 1e-15, cp*cm, 0.15*0.15)
	chk.Scalar(tst, "c₊", 1e-15, cp, 0.1+math.Sqrt(0.01+0.0225))
	if sol.Psi() >= 0 {
		tst.Errorf("potential of a negatively charged tissue must be negative. ψ = %v\n", sol.Psi())
		return
	}
	if sol.SwellingPressure() <= 0 {
		tst.Errorf("swelling pressure must be positive. Δπ = %v\n", sol.SwellingPressure())
		return
	}
	chk.Scalar(tst, "pa", 1e-15, sol.Pressure(0.5), 0.5+cp+cm)

	// no fixed charge
	err = sol.Init(dbf.Params{{N: "cF", V: 0}, {N: "cp", V: 0.1}, {N: "cm", V: 0.1}, {N: "kp", V: 0.8}, {N: "km", V: 0.8}, {N: "RT", V: 2.5}, {N: "Fc", V: 96.5}})
	require.NoError(tst, err)
	κp, κm := sol.Kappa()
	chk.Scalar(tst, "κ₊", 1e-15, κp, 0.8)
	chk.Scalar(tst, "κ₋", 1e-15, κm, 0.8)
	chk.Scalar(tst, "ψ", 1e-15, sol.Psi(), 0)
	chk.Scalar(tst, "Δπ", 1e-15, sol.SwellingPressure(), 2.5*(0.16-0.2))

	// errors
	require.Error(tst, sol.Init(dbf.Params{{N: "cF", V: -0.1}, {N: "cp", V: 0.1}}))
	require.Error(tst, sol.Init(dbf.Params{{N: "cp", V: 0.1}, {N: "cm", V: 0}}))
	require.Error(tst, sol.Init(dbf.Params{{N: "cp", V: 0.1}, {N: "cm", V: 0.1}, {N: "E", V: 1}}))
}
