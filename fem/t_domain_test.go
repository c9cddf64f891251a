// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/luzpaz/FEBio/inp"
	"github.com/luzpaz/FEBio/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// testDomain returns a domain with two disjoint hex8 cells; the second one is shifted by 2 in x
//  Vertices of the first cell have tag -1 and vertices of the second cell have tag -2
func testDomain(tst *testing.T, nworkers int) (dom *Domain) {

	// mesh
	sh := shp.Get("hex8", 0)
	msh := new(inp.Mesh)
	for c := 0; c < 2; c++ {
		cell := &inp.Cell{Id: c, Tag: -1, Type: "hex8"}
		for m := 0; m < sh.Nverts; m++ {
			x := make([]float64, 3)
			for i := 0; i < 3; i++ {
				for j := 0; j < 3; j++ {
					x[i] += affine[i][j] * sh.NatCoords[j][m]
				}
			}
			x[0] += 2.0 * float64(c)
			vid := len(msh.Verts)
			msh.Verts = append(msh.Verts, &inp.Vert{Id: vid, Tag: -1 - c, C: x})
			cell.Verts = append(cell.Verts, vid)
		}
		msh.Cells = append(msh.Cells, cell)
	}
	require.NoError(tst, msh.Init(0))

	// simulation
	sim := &inp.Simulation{
		Data:      inp.Data{Store: "none", Nworkers: nworkers},
		Constants: testConstants(),
		Materials: []*inp.MaterialData{testMatData(2, false, false)},
		ElemsData: []*inp.ElemData{{Tag: -1, Mat: "tissue"}},
		Stages: []*inp.Stage{{
			Initial: &inp.InitialData{Dofs: []string{"p", "c0", "c1"}, Vals: []float64{0.01, 0.15, 0.12}},
		}},
	}
	sim.Solver.SetDefault()
	require.NoError(tst, sim.PostProcess())
	sim.Msh = msh

	// domain
	var err error
	dom, err = NewDomain(sim, NewRegistry(), NewMetrics(prometheus.NewRegistry()))
	require.NoError(tst, err)
	require.NoError(tst, dom.SetStage(0))
	dom.Dt = 0.1
	dom.PreSolveUpdate()
	return
}

// smoothIncrements returns small increments of all free degrees of freedom
func smoothIncrements(dom *Domain) (du []float64) {
	du = make([]float64, dom.Neq)
	for _, n := range dom.Nodes {
		for dof, eq := range n.Eq {
			if eq < 0 {
				continue
			}
			switch {
			case dof <= DOF_Z:
				du[eq] = 0.01 * math.Sin(n.X0[0]+float64(dof)*n.X0[1]+n.X0[2])
			case dof == DOF_P:
				du[eq] = 0.002 * (n.X0[0] - n.X0[2])
			default:
				du[eq] = 0.001 * math.Cos(n.X0[1]+float64(dof))
			}
		}
	}
	return
}

func Test_dom01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom01. equations and initial values")

	dom := testDomain(tst, 1)
	require.Len(tst, dom.Sets, 1)
	require.Equal(tst, "multiphasic", dom.Sets[0].Dtype)
	require.Len(tst, dom.Elems(), 2)
	chk.IntAssert(dom.Lay.Nsol, 2)

	// all x, y, z, p, c0, c1 are free; no rotations nor back-face slots
	chk.IntAssert(dom.Neq, 16*6)
	chk.IntAssert(dom.NnzKb, 2*48*48)
	neq := 0
	for _, n := range dom.Nodes {
		for dof, eq := range n.Eq {
			if dof < DOF_RU || dof == dom.Lay.C(0) || dof == dom.Lay.C(1) {
				require.Equal(tst, neq, eq, "equation of %q", dom.Lay.Key(dof))
				neq++
				continue
			}
			require.Equal(tst, -1, eq, "equation of %q", dom.Lay.Key(dof))
		}
		chk.Scalar(tst, "p", 1e-17, n.Val[DOF_P], 0.01)
		chk.Scalar(tst, "c0", 1e-17, n.Val[dom.Lay.C(0)], 0.15)
		chk.Scalar(tst, "c1", 1e-17, n.Val[dom.Lay.C(1)], 0.12)
		chk.Vector(tst, "Valp", 1e-17, n.Valp, n.Val)
		require.Equal(tst, n.Vert.Id*6, n.GetEq(dom.Lay, "ux"))
		require.Equal(tst, -1, n.GetEq(dom.Lay, "rx"))
		require.Equal(tst, -1, n.GetEq(dom.Lay, "unknown"))
	}

	// initial states
	for _, e := range dom.Elems() {
		for _, s := range e.(*ElemMph).States {
			chk.Scalar(tst, "J", 1e-15, s.Solid.J, 1)
			chk.Scalar(tst, "p", 1e-15, s.Fluid.P, 0.01)
			chk.Vector(tst, "c", 1e-15, s.Solutes.C, []float64{0.15, 0.12})
		}
	}

	// errors
	require.Error(tst, dom.SetInitialValues([]string{"p"}, nil))
	require.Error(tst, dom.SetInitialValues([]string{"c2"}, []float64{1}))
	require.Error(tst, dom.SetStage(1))
}

func Test_dom02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom02. prescribed degrees of freedom")

	dom := testDomain(tst, 1)
	dom.Sim.Functions = inp.FuncsData{{Name: "load", Type: "rmp", Prms: dbf.Params{{N: "ca", V: 0}, {N: "cb", V: -0.1}, {N: "ta", V: 0}, {N: "tb", V: 1}}}}
	dom.Sim.Stages[0].NodeBcs = []*inp.NodeBc{
		{Tag: -2, Keys: []string{"uz", "p"}, Funcs: []string{"load", "zero"}, Mult: []float64{2, 1}},
	}
	require.NoError(tst, dom.SetStage(0))
	chk.IntAssert(len(dom.Presc), 16)
	chk.IntAssert(dom.Neq, 16*6-16)

	// prescribed equations are encoded
	for i, p := range dom.Presc {
		require.Equal(tst, -i-2, p.Node.Eq[p.Dof])
		require.Equal(tst, -2, p.Node.Vert.Tag)
	}

	// increments
	dubar := dom.PrescribedIncrements(0.5)
	for i, p := range dom.Presc {
		if p.Dof == DOF_Z {
			chk.Scalar(tst, "Δuz", 1e-15, dubar[i], -0.1)
			continue
		}
		chk.Scalar(tst, "Δp", 1e-15, dubar[i], -0.01)
	}

	// the same degree of freedom cannot be prescribed twice
	dom.Sim.Stages[0].NodeBcs = append(dom.Sim.Stages[0].NodeBcs, &inp.NodeBc{Tag: -2, Keys: []string{"uz"}, Funcs: []string{"zero"}})
	require.Error(tst, dom.SetStage(0))

	// inactive degrees of freedom cannot be prescribed
	dom.Sim.Stages[0].NodeBcs = []*inp.NodeBc{{Tag: -1, Keys: []string{"q"}, Funcs: []string{"zero"}}}
	require.Error(tst, dom.SetStage(0))
}

func Test_dom03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom03. degenerate element and running restart")

	dom := testDomain(tst, 2)
	e0 := dom.Elems()[0].(*ElemMph)
	e1 := dom.Elems()[1].(*ElemMph)
	J0 := e0.States[0].Solid.J
	bkp := make([][]float64, len(dom.Nodes))
	for i, n := range dom.Nodes {
		bkp[i] = la.VecClone(n.Val)
	}

	// push the top vertices of the second cell below its bottom face
	du := make([]float64, dom.Neq)
	for m, vid := range e1.Cell.Verts {
		if m >= 4 {
			du[dom.Nodes[vid].Eq[DOF_Z]] = -2.5
		}
	}
	err := dom.CommitStateUpdate(context.Background(), du, nil)
	require.Error(tst, err)
	io.Pforan("err = %v\n", err)
	require.True(tst, errors.Is(err, ErrRunningRestart))
	var dge *DegenerateElementError
	require.True(tst, errors.As(err, &dge))
	require.Equal(tst, 1, dge.Eid)
	require.Less(tst, dge.J, 0.0)

	// nothing has changed
	for i, n := range dom.Nodes {
		chk.Vector(tst, io.Sf("Val%d", i), 1e-17, n.Val, bkp[i])
	}
	chk.Scalar(tst, "J0", 1e-17, e0.States[0].Solid.J, J0)
	chk.Scalar(tst, "J1", 1e-17, e1.States[0].Solid.J, 1)
	chk.Scalar(tst, "degenerate", 1e-17, testutil.ToFloat64(dom.Metrics.Degenerate), 1)

	// a small update succeeds
	require.NoError(tst, dom.CommitStateUpdate(context.Background(), smoothIncrements(dom), nil))
	require.NotEqual(tst, J0, e0.States[0].Solid.J)
	for _, n := range dom.Nodes {
		for i := 0; i < 3; i++ {
			chk.Scalar(tst, "v", 1e-14, n.Vel[i], (n.Val[i]-n.Valp[i])/dom.Dt)
		}
	}

	// restore
	dom.Restore()
	chk.Scalar(tst, "J0", 1e-17, e0.States[0].Solid.J, J0)
	for i, n := range dom.Nodes {
		chk.Vector(tst, io.Sf("Val%d", i), 1e-17, n.Val, bkp[i])
	}
}

func Test_dom04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom04. concurrent assembly")

	// serial and concurrent domains
	var Rs [][]float64
	var Ks [][][]float64
	for _, nworkers := range []int{1, 4} {
		dom := testDomain(tst, nworkers)
		require.NoError(tst, dom.CommitStateUpdate(context.Background(), smoothIncrements(dom), nil))
		sys, err := NewLinearSystem("dense", false)
		require.NoError(tst, err)
		require.NoError(tst, sys.Init(dom.Neq, dom.NnzKb))
		sys.Start()
		require.NoError(tst, dom.BuildResidual(context.Background(), sys))
		require.NoError(tst, dom.BuildTangent(context.Background(), sys))
		Rs = append(Rs, la.VecClone(sys.Rhs()))
		Ks = append(Ks, sys.ToDense())

		// metrics
		for _, pass := range []string{"residual", "tangent", "update"} {
			chk.Scalar(tst, pass, 1e-17, testutil.ToFloat64(dom.Metrics.Passes.WithLabelValues(pass)), 1)
		}
	}
	chk.Vector(tst, "R", 1e-15, Rs[1], Rs[0])
	chk.Matrix(tst, "K", 1e-15, Ks[1], Ks[0])
	require.Greater(tst, la.VecLargest(Rs[0], 1), 0.0)

	// cancelled context
	dom := testDomain(tst, 4)
	sys, _ := NewLinearSystem("dense", false)
	require.NoError(tst, sys.Init(dom.Neq, dom.NnzKb))
	sys.Start()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(tst, dom.BuildResidual(ctx, sys), context.Canceled)
}

func Test_dom05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dom05. symmetrized global tangent")

	dom := testDomain(tst, 2)
	dom.Symmetric = true
	require.NoError(tst, dom.CommitStateUpdate(context.Background(), smoothIncrements(dom), nil))
	sys, _ := NewLinearSystem("dense", true)
	require.NoError(tst, sys.Init(dom.Neq, dom.NnzKb))
	sys.Start()
	require.NoError(tst, dom.BuildTangent(context.Background(), sys))
	K := sys.ToDense()
	for i := range K {
		for j := range K {
			if math.Abs(K[i][j]-K[j][i]) > 1e-15 {
				tst.Errorf("K[%d][%d] = %v != K[%d][%d] = %v\n", i, j, K[i][j], j, i, K[j][i])
				return
			}
		}
	}
}
