// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func Test_msh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh01")

	msh, err := ReadMsh("data", "cube.msh.yaml", 0)
	require.NoError(tst, err)
	if chk.Verbose {
		io.Pforan("%v\n", msh)
	}

	chk.Scalar(tst, "xmin", 1e-17, msh.Xmin, 0)
	chk.Scalar(tst, "zmax", 1e-17, msh.Zmax, 1)
	require.Len(tst, msh.VertTag2verts[-1], 4)
	require.Len(tst, msh.VertTag2verts[-2], 4)
	require.Len(tst, msh.CellTag2cells[-1], 1)
	require.Len(tst, msh.Ctype2cells["hex8"], 1)
	require.Equal(tst, []int{0, 1, 2, 3}, msh.FaceTag2verts[-10])
	require.Equal(tst, []int{4, 5, 6, 7}, msh.FaceTag2verts[-20])
	c := msh.Cells[0]
	require.NotNil(tst, c.Shp)
	chk.IntAssert(c.Shp.Nverts, 8)
	require.False(tst, c.IsIface(0))
}

func Test_msh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh02")

	// interface flags
	msh := &Mesh{
		Verts: []*Vert{
			{Id: 0, Tag: -1, C: []float64{0, 0, 0}},
			{Id: 1, Tag: -1, C: []float64{1, 0, 0}},
			{Id: 2, Tag: -1, C: []float64{0, 1, 0}},
			{Id: 3, Tag: -2, C: []float64{0, 0, 1}, Shell: true},
		},
		Cells: []*Cell{
			{Id: 0, Tag: -1, Type: "tet4", Verts: []int{0, 1, 2, 3}, Iface: []bool{false, false, false, true}},
		},
	}
	require.NoError(tst, msh.Init(0))
	require.True(tst, msh.Cells[0].IsIface(3))
	require.False(tst, msh.Cells[0].IsIface(2))
	require.Contains(tst, msh.Verts[3].String(), "\"shell\":true")
	require.Contains(tst, msh.Cells[0].String(), "\"iface\":[false, false, false, true]")

	// errors
	msh.Cells[0].Iface = []bool{true}
	require.Error(tst, msh.Init(0))
	msh.Cells[0].Iface = nil
	msh.Cells[0].Type = "qua4"
	require.Error(tst, msh.Init(0))
	msh.Cells[0].Type = "tet4"
	msh.Cells[0].Verts = []int{0, 1, 2, 4}
	require.Error(tst, msh.Init(0))
	msh.Cells[0].Verts = []int{0, 1, 2, 3}
	msh.Cells[0].Tag = 1
	require.Error(tst, msh.Init(0))
	msh.Cells[0].Tag = -1
	msh.Verts[1].C = []float64{1, 0}
	require.Error(tst, msh.Init(0))
	msh.Verts[1].C = []float64{1, 0, 0}
	require.NoError(tst, msh.Init(0))
	_, err := ReadMsh("data", "nonexistent.yaml", 0)
	require.Error(tst, err)
}
