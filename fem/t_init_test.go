// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/luzpaz/FEBio/inp"
	"github.com/luzpaz/FEBio/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"github.com/stretchr/testify/require"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// testConstants returns constants with RT = 1 and Fc = 1
func testConstants() inp.Constants {
	return inp.Constants{Rgas: 0.01, Tabs: 100, Fc: 1}
}

// testMatData returns the data of a material with nsol (0, 1 or 2) solutes
//  supply -- include Starling's solvent supply
//  react  -- include a reaction c0 -> c1 (requires nsol == 2)
func testMatData(nsol int, supply, react bool) (mat *inp.MaterialData) {
	mat = &inp.MaterialData{
		Name:    "tissue",
		Solid:   &inp.ModelData{Type: "neo-Hookean", Prms: dbf.Params{{N: "E", V: 1}, {N: "nu", V: 0.3}}},
		Perm:    &inp.ModelData{Type: "perm-exp-iso", Prms: dbf.Params{{N: "perm", V: 0.1}, {N: "M", V: 1.5}, {N: "alpha", V: 2}}},
		Osmc:    &inp.ModelData{Type: "osm-coef-linear", Prms: dbf.Params{{N: "osmcoef", V: 0.9}, {N: "beta", V: 0.1}}},
		Phi0:    0.2,
		Penalty: 1,
	}
	if nsol > 0 {
		mat.CF0 = -0.1
	}
	z := []float64{1, -1}
	for k := 0; k < nsol; k++ {
		mat.Solutes = append(mat.Solutes, &inp.SoluteData{
			Name:  io.Sf("ion%d", k),
			Z:     z[k],
			M:     1,
			Diff:  &inp.ModelData{Type: "diff-porosity", Prms: dbf.Params{{N: "free_diff", V: 0.5 + 0.2*float64(k)}, {N: "beta", V: 1.5}}},
			Solub: &inp.ModelData{Type: "solub-const", Prms: dbf.Params{{N: "solub", V: 0.8 + 0.1*float64(k)}}},
		})
	}
	if supply {
		prms := dbf.Params{{N: "kp", V: 0.2}, {N: "pv", V: 0.05}}
		for k := 0; k < nsol; k++ {
			prms = append(prms, &dbf.P{N: io.Sf("qc%d", k), V: 0.01}, &dbf.P{N: io.Sf("cv%d", k), V: 0.1})
		}
		mat.Supply = &inp.ModelData{Type: "starling", Prms: prms}
	}
	if react {
		mat.Reacts = []*inp.ModelData{{Type: "mass-action-forward", Prms: dbf.Params{{N: "kf", V: 0.3}, {N: "Vbar", V: 0.1}, {N: "vR0", V: 1}, {N: "vP1", V: 1}}}}
	}
	return
}

// affine maps natural coordinates to a distorted cell
var affine = [][]float64{
	{0.6, 0.05, 0.0},
	{0.0, 0.5, 0.04},
	{0.03, 0.0, 0.55},
}

// testMesh returns a mesh with one cell of type ctype
//  iface -- local vertices shared with the back face of a shell; their vertices get Shell = true
func testMesh(tst *testing.T, ctype string, iface []int) (msh *inp.Mesh) {
	sh := shp.Get(ctype, 0)
	require.NotNil(tst, sh)
	msh = new(inp.Mesh)
	cell := &inp.Cell{Id: 0, Tag: -1, Type: ctype}
	for m := 0; m < sh.Nverts; m++ {
		x := make([]float64, 3)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				x[i] += affine[i][j] * sh.NatCoords[j][m]
			}
		}
		msh.Verts = append(msh.Verts, &inp.Vert{Id: m, Tag: -1, C: x})
		cell.Verts = append(cell.Verts, m)
	}
	if len(iface) > 0 {
		cell.Iface = make([]bool, sh.Nverts)
		for _, m := range iface {
			cell.Iface[m] = true
			msh.Verts[m].Shell = true
		}
	}
	msh.Cells = []*inp.Cell{cell}
	require.NoError(tst, msh.Init(0))
	return
}

// testElem allocates one element with all its degrees of freedom free
func testElem(tst *testing.T, ctype string, iface []int, matdata *inp.MaterialData, steady bool) (e *ElemMph) {
	msh := testMesh(tst, ctype, iface)
	mix, err := GetMixture(NewRegistry().Mats, matdata, testConstants())
	require.NoError(tst, err)
	lay := Layout{Nsol: mix.Nsol()}
	nodes := make([]*Node, len(msh.Verts))
	for i, v := range msh.Verts {
		nodes[i] = NewNode(v, lay)
	}
	e, err = NewElemMph(msh.Cells[0], &inp.ElemData{Tag: -1, Mat: matdata.Name}, mix, lay, nodes, steady)
	require.NoError(tst, err)
	require.NoError(tst, e.ActivateDofs())
	neq := 0
	for _, n := range nodes {
		for dof, active := range n.Active {
			if active {
				n.Eq[dof] = neq
				neq++
			}
		}
	}
	return
}

// setUniform sets uniform pressure and concentrations, zero displacements, and activates the element
func setUniform(tst *testing.T, e *ElemMph, p float64, c []float64) {
	for m, n := range e.Nodes {
		la.VecFill(n.Val, 0)
		n.Val[e.Slot(m, 3)] = p
		for k := 0; k < e.Nsol; k++ {
			n.Val[e.Slot(m, 4+k)] = c[k]
		}
	}
	require.NoError(tst, e.Activate())
	e.PreSolveUpdate()
}

// setField sets smooth non-uniform nodal values of all local unknowns
func setField(e *ElemMph, scale float64) {
	for m, n := range e.Nodes {
		X := n.X0
		u := []float64{
			0.03 * (X[0]*X[1] + 0.5*X[2]),
			0.03 * (0.5*X[0] - X[1]*X[2]),
			0.03 * (X[2]*X[0] - 0.2*X[1]),
		}
		for i := 0; i < 3; i++ {
			n.Val[e.Slot(m, i)] = scale * u[i]
		}
		n.Val[e.Slot(m, 3)] = 0.01 + scale*0.02*(X[0]+0.5*X[1]*X[2])
		for k := 0; k < e.Nsol; k++ {
			n.Val[e.Slot(m, 4+k)] = 0.15 - 0.03*float64(k) + scale*0.02*math.Sin(X[0]+float64(k)*X[1]-X[2])
		}
	}
}

// residualAt recomputes the states from the beginning of the step and returns the residual
func residualAt(tst *testing.T, e *ElemMph, dt float64) (fe []float64) {
	e.Restore()
	require.NoError(tst, e.Update(dt))
	e.Commit()
	fe = make([]float64, e.Nlm())
	require.NoError(tst, e.Residual(fe, dt))
	return
}

// residualFrom computes the trial states from the committed ones and returns the residual. The
// committed states are kept; thus quantities lagged by one iteration are fixed
func residualFrom(tst *testing.T, e *ElemMph, dt float64) (fe []float64) {
	require.NoError(tst, e.Update(dt))
	e.Commit()
	fe = make([]float64, e.Nlm())
	require.NoError(tst, e.Residual(fe, dt))
	e.Commit()
	return
}

// checkTangent compares the element tangent with central differences of the residual
func checkTangent(tst *testing.T, e *ElemMph, dt, tol float64) {
	checkTangentWith(tst, e, dt, tol, residualAt)
}

// checkTangentWith compares the element tangent with central differences of the residual computed by res
func checkTangentWith(tst *testing.T, e *ElemMph, dt, tol float64, res func(*testing.T, *ElemMph, float64) []float64) {

	// tangent @ current values
	res(tst, e, dt)
	nlm := e.Nlm()
	ke := la.MatAlloc(nlm, nlm)
	require.NoError(tst, e.Tangent(ke, dt))

	// numerical tangent
	h := 1e-6
	knum := la.MatAlloc(e.Nu, e.Nu)
	for m, n := range e.Nodes {
		for b := 0; b < e.Ndpn; b++ {
			col := m*e.Ndpn + b
			slot := e.Slot(m, b)
			v := n.Val[slot]
			n.Val[slot] = v + h
			Rp := res(tst, e, dt)
			n.Val[slot] = v - h
			Rm := res(tst, e, dt)
			n.Val[slot] = v
			for row := 0; row < e.Nu; row++ {
				knum[row][col] = -(Rp[row] - Rm[row]) / (2.0 * h)
			}
		}
	}
	res(tst, e, dt)

	// compare row by row
	maxerr := 0.0
	for row := 0; row < e.Nu; row++ {
		scale := la.VecLargest(knum[row], 1)
		for col := 0; col < e.Nu; col++ {
			err := math.Abs(ke[row][col]-knum[row][col]) / (scale + 1e-12)
			maxerr = math.Max(maxerr, err)
			if err > tol {
				tst.Errorf("%s: ke[%d][%d] = %v does not match numerical value %v. err = %g\n", e.Cell.Type, row, col, ke[row][col], knum[row][col], err)
				return
			}
		}
	}
	io.Pforan("%s: max relative error = %g\n", e.Cell.Type, maxerr)

	// rigid rotations
	for row := e.Nu; row < nlm; row++ {
		for col := 0; col < nlm; col++ {
			if ke[row][col] != 0 || ke[col][row] != 0 {
				tst.Errorf("rows and columns of rigid rotations must be zero\n")
				return
			}
		}
	}
}

// data of one element set, one solid-bound molecule and its production
var (
	testEdat     = inp.ElemData{Tag: -1, Mat: "tissue"}
	testSBM      = inp.SBMData{Name: "pg", Z: -2, M: 10, RhoT: 5, Rho0: 0.3, RhoMax: 0.5}
	testSBMReact = inp.ModelData{Type: "mass-action-forward", Prms: dbf.Params{{N: "kf", V: 0.5}, {N: "vR0", V: 1}, {N: "vPs0", V: 1}}}
)

// cubeSim reads the cube under confined compression and drains its top face into a bath
func cubeSim(tst *testing.T) (sim *inp.Simulation) {
	sim, err := inp.ReadSim("../inp/data/cube.yaml", "", false, 0)
	require.NoError(tst, err)
	sim.Data.Symmetric = false
	sim.Functions = append(sim.Functions, &inp.FuncData{Name: "bath", Type: "cte", Prms: dbf.Params{{N: "c", V: 0.15}}})
	stg := sim.Stages[0]
	stg.NodeBcs = append(stg.NodeBcs, &inp.NodeBc{Tag: -2, Keys: []string{"p", "c0", "c1"}, Funcs: []string{"zero", "bath", "bath"}})
	return
}
