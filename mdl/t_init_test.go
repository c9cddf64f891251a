// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// setF sets the deformation gradient of a state and computes J
func setF(s *State, F [][]float64) {
	la.MatCopy(s.Solid.F, 1, F)
	Fi := la.MatAlloc(3, 3)
	s.Solid.J, _ = la.MatInv(Fi, F, 0)
}

// perturbF returns (I + h L)⋅F with L = e_a ⊗ e_b
func perturbF(F [][]float64, a, b int, h float64) (Fn [][]float64) {
	Fn = la.MatClone(F)
	for j := 0; j < 3; j++ {
		Fn[a][j] += h * F[b][j]
	}
	return
}

// testF is a general deformation gradient with J > 0
var testF = [][]float64{
	{1.10, 0.05, 0.02},
	{0.03, 0.95, 0.04},
	{-0.02, 0.01, 1.05},
}

// testMixture returns a charged triphasic mixture with one negatively charged solid-bound molecule
func testMixture(tst interface{ Fatalf(string, ...interface{}) }, withSBM bool) (mix *Mixture) {
	reg := NewRegistry()
	alloc := func(err error) {
		if err != nil {
			tst.Fatalf("allocation failed: %v", err)
		}
	}
	solid, err := reg.Solid("neo-Hookean")
	alloc(err)
	alloc(solid.Init(dbf.Params{&dbf.P{N: "E", V: 10}, &dbf.P{N: "nu", V: 0.3}}))
	perm, err := reg.Perm("perm-exp-iso")
	alloc(err)
	alloc(perm.Init(dbf.Params{&dbf.P{N: "perm", V: 2e-3}, &dbf.P{N: "M", V: 1.5}, &dbf.P{N: "alpha", V: 2}}))
	osm, err := reg.Osmotic("osm-coef-linear")
	alloc(err)
	alloc(osm.Init(dbf.Params{&dbf.P{N: "osmcoef", V: 0.9}, &dbf.P{N: "beta", V: 0.1}}))
	mix = &Mixture{
		Name:  "cartilage",
		Solid: solid,
		Perm:  perm,
		Osmc:  osm,
		Phi0:  0.2,
		CF0:   -0.15,
		Rgas:  8.314e-6,
		Tabs:  298,
		Fc:    9.6485e-5,
	}
	for k, z := range []float64{1, -1} {
		diff, err := reg.Diff("diff-porosity")
		alloc(err)
		alloc(diff.Init(dbf.Params{&dbf.P{N: "free_diff", V: 1e-3 * float64(k+1)}, &dbf.P{N: "beta", V: 1.5}}))
		solub, err := reg.Solub("solub-const")
		alloc(err)
		alloc(solub.Init(dbf.Params{&dbf.P{N: "solub", V: 0.8 + 0.1*float64(k)}}))
		mix.Solutes = append(mix.Solutes, &Solute{Name: io.Sf("ion%d", k), Z: z, M: 1, Diff: diff, Solub: solub})
	}
	if withSBM {
		mix.SBMs = []*SBM{{Name: "pg", Z: -2, M: 10, RhoT: 5, Rho0: 0.3}}
	}
	alloc(mix.Init())
	return
}
