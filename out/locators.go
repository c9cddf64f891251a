// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"math"

	"github.com/luzpaz/FEBio/fem"
)

// Locator defines interface for locating nodes and integration points
type Locator interface {
	Locate() Points
}

// N implements node locator with the ids of vertices
type N []int

// Vtag implements node locator with a vertex tag
type Vtag int

// Ips implements locator of all integration points of a set of cells
type Ips []int

// At implements locator at point: a node if there is one at X; otherwise an integration point
type At []float64

// In implements locator of the integration points of the cell containing a point
type In []float64

// Locate finds nodes
func (o N) Locate() (res Points) {
	for _, vid := range o {
		if q := get_nod_point(vid); q != nil {
			res = append(res, q)
		}
	}
	return
}

// Locate finds nodes
func (o Vtag) Locate() (res Points) {
	for _, v := range Dom.Msh.VertTag2verts[int(o)] {
		if q := get_nod_point(v.Id); q != nil {
			res = append(res, q)
		}
	}
	return
}

// Locate finds integration points
func (o Ips) Locate() (res Points) {
	for _, cid := range o {
		if cid < 0 || cid >= len(Cid2ips) {
			continue
		}
		for _, ipid := range Cid2ips[cid] {
			res = append(res, get_ip_point(ipid))
		}
	}
	return
}

// Locate finds a node or an integration point
func (o At) Locate() Points {
	if len(o) != 3 {
		return nil
	}
	if vid, d := NodBins.FindClosest(o); vid >= 0 && math.Sqrt(d) < TolC {
		if q := get_nod_point(vid); q != nil {
			return Points{q}
		}
	}
	if ipid, d := IpsBins.FindClosest(o); ipid >= 0 && math.Sqrt(d) < TolC {
		return Points{get_ip_point(ipid)}
	}
	return nil
}

// Locate finds the integration points of the first active cell containing the point
func (o In) Locate() Points {
	if len(o) != 3 {
		return nil
	}
	cid := find_cell(o)
	if cid < 0 {
		return nil
	}
	return Ips{cid}.Locate()
}

// get_nod_point returns a new point at an active node
func get_nod_point(vid int) *Point {
	if vid < 0 || vid >= len(Dom.Nodes) {
		return nil
	}
	n := Dom.Nodes[vid]
	if !has_active(n) {
		return nil
	}
	return &Point{Vid: vid, IpId: -1, X: n.X0, Vals: make(map[string][]float64)}
}

// get_ip_point returns a new point at integration point
func get_ip_point(ipid int) *Point {
	return &Point{Vid: -1, IpId: ipid, X: Ipoints[ipid].X, Vals: make(map[string][]float64)}
}

// has_active tells whether a node has at least one active degree of freedom
func has_active(n *fem.Node) bool {
	for _, a := range n.Active {
		if a {
			return true
		}
	}
	return false
}

// find_cell returns the id of the first active cell containing x or -1 if none
func find_cell(x []float64) int {
	r := make([]float64, 3)
	for cid, ele := range Dom.Cid2elem {
		if ele == nil {
			continue
		}
		cell := Dom.Msh.Cells[cid]
		shape := cell.Shp.GetCopy()
		if shape.InvMap(r, x, fem.BuildCoordsMatrix(cell, Dom.Msh)) != nil {
			continue
		}
		if shape.IsInside(r, TolC) {
			return cid
		}
	}
	return -1
}
