// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"context"
	"testing"

	"github.com/luzpaz/FEBio/fem"
	"github.com/luzpaz/FEBio/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// cubeSim returns the unit cube with a bath on the top face and snapshots saved to dir
func cubeSim(tst *testing.T, dir string) (sim *inp.Simulation) {
	sim, err := inp.ReadSim("../inp/data/cube.yaml", "", false, 0)
	require.NoError(tst, err)
	sim.Data.Symmetric = false
	sim.Data.Store = "file"
	sim.DirOut = dir
	sim.Functions = append(sim.Functions, &inp.FuncData{Name: "bath", Type: "cte", Prms: dbf.Params{{N: "c", V: 0.15}}})
	stg := sim.Stages[0]
	stg.NodeBcs = append(stg.NodeBcs, &inp.NodeBc{Tag: -2, Keys: []string{"p", "c0", "c1"}, Funcs: []string{"zero", "bath", "bath"}})
	return
}

func Test_out01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out01. time series of cube under confined compression")

	// run
	dir := tst.TempDir()
	A, err := fem.NewFEMsim(cubeSim(tst, dir), chk.Verbose, nil, nil)
	require.NoError(tst, err)
	require.NoError(tst, A.Run(context.Background()))
	require.NoError(tst, A.Clean())

	// start
	B, err := fem.NewFEMsim(cubeSim(tst, dir), false, nil, nil)
	require.NoError(tst, err)
	defer B.Clean()
	sum, err := fem.ReadSum(dir, B.Sim.Key, B.Sim.EncType)
	require.NoError(tst, err)
	require.NoError(tst, StartWith(B, sum, 0))
	require.Len(tst, Ipoints, 8)
	require.True(tst, Ipkeys["ca1"])
	require.True(tst, Ipkeys["psi"])

	// define
	require.NoError(tst, Define("top", Vtag(-2)))
	require.NoError(tst, Define("bottom", Vtag(-1)))
	require.NoError(tst, Define("a b", N{0, 6}))
	require.NoError(tst, Define("ips", Ips{0}))
	require.NoError(tst, Define("corner", At{1, 1, 1}))
	require.NoError(tst, Define("inner", In{0.3, 0.6, 0.2}))
	require.Error(tst, Define("outside", At{2, 1, 1}))
	require.Error(tst, Define("between", At{0.5, 0.5, 0.5}))
	require.Error(tst, Define("far", In{2, 1, 1}))
	require.Error(tst, Define("", N{0}))
	require.Error(tst, Define("nothing", N{100}))
	vids, ipids := GetIds("top")
	require.Equal(tst, []int{4, 5, 6, 7}, vids)
	require.Len(tst, ipids, 0)
	vids, ipids = GetIds("corner")
	require.Equal(tst, []int{6}, vids)
	require.Len(tst, ipids, 0)
	vids, ipids = GetIds("inner")
	require.Len(tst, vids, 0)
	require.Equal(tst, Cid2ips[0], ipids)
	x, err := GetCoords("corner")
	require.NoError(tst, err)
	chk.Vector(tst, "corner", 1e-15, x, []float64{1, 1, 1})

	// load
	require.NoError(tst, LoadResults(nil))
	require.Equal(tst, []int{0, 1, 2}, TimeInds)
	chk.Vector(tst, "Times", 1e-15, Times, []float64{0, 0.5, 1})

	// nodes
	uz, err := GetRes("uz", "b", 0)
	require.NoError(tst, err)
	io.Pforan("uz @ b = %v\n", uz)
	chk.Vector(tst, "uz @ b", 1e-15, uz, []float64{0, -0.005, -0.01})
	uz, err = GetRes("uz", "top", -1)
	require.NoError(tst, err)
	chk.Vector(tst, "uz @ top", 1e-15, uz, []float64{-0.01, -0.01, -0.01, -0.01})
	uz, err = GetRes("uz", "bottom", 1)
	require.NoError(tst, err)
	chk.Vector(tst, "uz @ bottom", 1e-15, uz, []float64{0, 0, 0, 0})
	c0, err := GetRes("c0", "a", 0)
	require.NoError(tst, err)
	require.Len(tst, c0, 3)

	// integration points
	J, err := GetRes("J", "ips", 0)
	require.NoError(tst, err)
	chk.Vector(tst, "J(0)", 1e-15, J, []float64{1, 1, 1, 1, 1, 1, 1, 1})
	J, err = GetRes("J", "ips", -1)
	require.NoError(tst, err)
	chk.Vector(tst, "J(1)", 1e-14, J, []float64{0.99, 0.99, 0.99, 0.99, 0.99, 0.99, 0.99, 0.99})

	// errors
	_, err = GetRes("uz", "unknown", 0)
	require.Error(tst, err)
	_, err = GetRes("J", "top", 0)
	require.Error(tst, err)
	_, err = GetCoords("top")
	require.Error(tst, err)
}

func Test_out02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("out02. selected output times")

	// run
	dir := tst.TempDir()
	A, err := fem.NewFEMsim(cubeSim(tst, dir), chk.Verbose, nil, nil)
	require.NoError(tst, err)
	require.NoError(tst, A.Run(context.Background()))
	require.NoError(tst, A.Clean())

	// start
	B, err := fem.NewFEMsim(cubeSim(tst, dir), false, nil, nil)
	require.NoError(tst, err)
	defer B.Clean()
	sum, err := fem.ReadSum(dir, B.Sim.Key, B.Sim.EncType)
	require.NoError(tst, err)
	require.NoError(tst, StartWith(B, sum, 0))
	require.NoError(tst, Define("a", N{6}))

	// times near output times; 7 is not an output time
	require.NoError(tst, LoadResults([]float64{0.5004, 1, 7}))
	require.Equal(tst, []int{1, 2}, TimeInds)
	chk.Vector(tst, "Times", 1e-15, Times, []float64{0.5, 1})
	uz, err := GetRes("uz", "a", 0)
	require.NoError(tst, err)
	chk.Vector(tst, "uz @ a", 1e-15, uz, []float64{-0.005, -0.01})

	// last output time only
	require.NoError(tst, StartWith(B, sum, 0))
	require.NoError(tst, Define("a", N{6}))
	require.NoError(tst, LoadResults([]float64{-1}))
	require.Equal(tst, []int{2}, TimeInds)
	uz, err = GetRes("uz", "a", 0)
	require.NoError(tst, err)
	chk.Vector(tst, "uz @ a", 1e-15, uz, []float64{-0.01})

	// no matching time
	require.NoError(tst, StartWith(B, sum, 0))
	require.NoError(tst, Define("a", N{6}))
	require.Error(tst, LoadResults([]float64{7}))

	// no store
	sim := cubeSim(tst, tst.TempDir())
	sim.Data.Store = "none"
	analysis, err := fem.NewFEMsim(sim, false, nil, nil)
	require.NoError(tst, err)
	require.Error(tst, StartWith(analysis, &fem.Summary{}, 0))
}
