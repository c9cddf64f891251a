// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/luzpaz/FEBio/shp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"gopkg.in/yaml.v3"
)

// Vert holds vertex data
type Vert struct {
	Id    int       `json:"id" yaml:"id"`       // id
	Tag   int       `json:"tag" yaml:"tag"`     // tag
	C     []float64 `json:"c" yaml:"c"`         // coordinates (size==3)
	Shell bool      `json:"shell" yaml:"shell"` // vertex lies on the back face of a shell; i.e. it carries U, V and W
}

// Cell holds cell data
type Cell struct {

	// input data
	Id    int    `json:"id" yaml:"id"`       // id
	Tag   int    `json:"tag" yaml:"tag"`     // tag
	Type  string `json:"type" yaml:"type"`   // geometry type; e.g. "hex8"
	Verts []int  `json:"verts" yaml:"verts"` // vertices
	FTags []int  `json:"ftags" yaml:"ftags"` // face tags
	Iface []bool `json:"iface" yaml:"iface"` // [nverts] local vertices shared with the back face of a shell; may be empty

	// derived
	Shp *shp.Shape `json:"-" yaml:"-"` // shape structure
}

// CellFaceId structure
type CellFaceId struct {
	C   *Cell // cell
	Fid int   // face id
}

// Mesh holds a mesh for FE analyses
type Mesh struct {

	// input
	Verts []*Vert `json:"verts" yaml:"verts"` // vertices
	Cells []*Cell `json:"cells" yaml:"cells"` // cells

	// derived
	FnamePath  string  `json:"-" yaml:"-"` // complete filename path
	Xmin, Xmax float64 `json:"-" yaml:"-"` // min and max x-coordinate
	Ymin, Ymax float64 `json:"-" yaml:"-"` // min and max y-coordinate
	Zmin, Zmax float64 `json:"-" yaml:"-"` // min and max z-coordinate

	// derived: maps
	VertTag2verts map[int][]*Vert      `json:"-" yaml:"-"` // vertex tag => set of vertices
	CellTag2cells map[int][]*Cell      `json:"-" yaml:"-"` // cell tag => set of cells
	FaceTag2cells map[int][]CellFaceId `json:"-" yaml:"-"` // face tag => set of cells
	FaceTag2verts map[int][]int        `json:"-" yaml:"-"` // face tag => vertices on tagged face
	Ctype2cells   map[string][]*Cell   `json:"-" yaml:"-"` // cell type => set of cells
}

// ReadMsh reads a mesh for FE analyses; the format is selected by the extension:
// ".yaml"/".yml" or JSON otherwise
func ReadMsh(dir, fn string, goroutineId int) (o *Mesh, err error) {

	// new mesh
	o = new(Mesh)

	// read file
	o.FnamePath = filepath.Join(dir, fn)
	b, err := io.ReadFile(o.FnamePath)
	if err != nil {
		return nil, err
	}

	// decode
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, chk.Err("cannot decode mesh file %q:\n%v", o.FnamePath, err)
	}

	// derived data
	err = o.Init(goroutineId)
	if err != nil {
		return nil, chk.Err("mesh file %q is invalid:\n%v", o.FnamePath, err)
	}
	return
}

// Init checks the mesh and computes derived data
func (o *Mesh) Init(goroutineId int) (err error) {

	// check
	if len(o.Verts) < 2 {
		return chk.Err("at least 2 vertices are required in mesh")
	}
	if len(o.Cells) < 1 {
		return chk.Err("at least 1 cell is required in mesh")
	}

	// vertex related derived data
	o.VertTag2verts = make(map[int][]*Vert)
	for i, v := range o.Verts {

		// check vertex id and coordinates
		if v.Id != i {
			return chk.Err("vertices ids must coincide with order in \"verts\" list. %d != %d", v.Id, i)
		}
		if len(v.C) != 3 {
			return chk.Err("vertex %d: number of coordinates must be 3. %d is invalid", v.Id, len(v.C))
		}

		// tags
		if v.Tag < 0 {
			o.VertTag2verts[v.Tag] = append(o.VertTag2verts[v.Tag], v)
		}

		// limits
		if i == 0 {
			o.Xmin, o.Xmax = v.C[0], v.C[0]
			o.Ymin, o.Ymax = v.C[1], v.C[1]
			o.Zmin, o.Zmax = v.C[2], v.C[2]
			continue
		}
		o.Xmin = utl.Min(o.Xmin, v.C[0])
		o.Xmax = utl.Max(o.Xmax, v.C[0])
		o.Ymin = utl.Min(o.Ymin, v.C[1])
		o.Ymax = utl.Max(o.Ymax, v.C[1])
		o.Zmin = utl.Min(o.Zmin, v.C[2])
		o.Zmax = utl.Max(o.Zmax, v.C[2])
	}

	// cell related derived data
	o.CellTag2cells = make(map[int][]*Cell)
	o.FaceTag2cells = make(map[int][]CellFaceId)
	o.FaceTag2verts = make(map[int][]int)
	o.Ctype2cells = make(map[string][]*Cell)
	for i, c := range o.Cells {

		// check id and tag
		if c.Id != i {
			return chk.Err("cells ids must coincide with order in \"cells\" list. %d != %d", c.Id, i)
		}
		if c.Tag >= 0 {
			return chk.Err("cells tags must be negative. %d is invalid", c.Tag)
		}

		// shape structure
		c.Shp = shp.Get(c.Type, goroutineId)
		if c.Shp == nil {
			return chk.Err("cannot find shape type == %q", c.Type)
		}
		if len(c.Verts) != c.Shp.Nverts {
			return chk.Err("cell %d: number of vertices of %q must be %d. %d is invalid", c.Id, c.Type, c.Shp.Nverts, len(c.Verts))
		}
		for _, v := range c.Verts {
			if v < 0 || v >= len(o.Verts) {
				return chk.Err("cell %d: vertex %d does not exist", c.Id, v)
			}
		}
		if len(c.Iface) > 0 && len(c.Iface) != len(c.Verts) {
			return chk.Err("cell %d: size of interface flags (%d) must be equal to the number of vertices (%d)", c.Id, len(c.Iface), len(c.Verts))
		}

		// tags
		o.CellTag2cells[c.Tag] = append(o.CellTag2cells[c.Tag], c)
		for j, ftag := range c.FTags {
			if ftag < 0 {
				if j >= len(c.Shp.FaceLocalVerts) {
					return chk.Err("cell %d: face index %d is out of range", c.Id, j)
				}
				o.FaceTag2cells[ftag] = append(o.FaceTag2cells[ftag], CellFaceId{c, j})
				for _, l := range c.Shp.FaceLocalVerts[j] {
					utl.IntIntsMapAppend(o.FaceTag2verts, ftag, o.Verts[c.Verts[l]].Id)
				}
			}
		}

		// cell type => cells
		o.Ctype2cells[c.Type] = append(o.Ctype2cells[c.Type], c)
	}

	// remove duplicates
	for ftag, verts := range o.FaceTag2verts {
		o.FaceTag2verts[ftag] = utl.IntUnique(verts)
	}
	return
}

// IsIface tells whether the local vertex m of cell c is an interface vertex
func (o *Cell) IsIface(m int) bool {
	return len(o.Iface) > 0 && o.Iface[m]
}

// String returns a JSON representation of *Vert
func (o *Vert) String() string {
	l := io.Sf("{\"id\":%4d, \"tag\":%6d, \"c\":[", o.Id, o.Tag)
	for i, x := range o.C {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%23.15e", x)
	}
	l += "]"
	if o.Shell {
		l += ", \"shell\":true"
	}
	l += " }"
	return l
}

// String returns a JSON representation of *Cell
func (o *Cell) String() string {
	l := io.Sf("{\"id\":%d, \"tag\":%d, \"type\":%q, \"verts\":[", o.Id, o.Tag, o.Type)
	for i, x := range o.Verts {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "], \"ftags\":["
	for i, x := range o.FTags {
		if i > 0 {
			l += ", "
		}
		l += io.Sf("%d", x)
	}
	l += "]"
	if len(o.Iface) > 0 {
		l += ", \"iface\":["
		for i, x := range o.Iface {
			if i > 0 {
				l += ", "
			}
			l += io.Sf("%v", x)
		}
		l += "]"
	}
	l += " }"
	return l
}

// String returns a JSON representation of *Mesh
func (o Mesh) String() string {
	l := "{\n  \"verts\" : [\n"
	for i, x := range o.Verts {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ],\n  \"cells\" : [\n"
	for i, x := range o.Cells {
		if i > 0 {
			l += ",\n"
		}
		l += io.Sf("    %v", x)
	}
	l += "\n  ]\n}"
	return l
}
