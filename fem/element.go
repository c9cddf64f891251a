// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"sort"

	"github.com/luzpaz/FEBio/inp"
	"github.com/luzpaz/FEBio/mdl"

	"github.com/cpmech/gosl/la"
)

// Elem defines what elements must calculate
type Elem interface {

	// information and initialisation
	Id() int                         // returns the cell Id
	ActivateDofs() (err error)       // marks the nodal degrees of freedom required by this element
	UnpackLM() (lm []int, err error) // returns the location vector; equations must have been numbered
	Activate() (err error)           // sets the states of material points from the nodal (initial) values
	Reset()                          // resets the states of material points

	// called for each time step
	PreSolveUpdate() // stores the beginning-of-step quantities and a backup of states

	// called for each iteration
	Residual(fe []float64, dt float64) (err error)  // element residual (external minus internal forces)
	Tangent(ke [][]float64, dt float64) (err error) // element tangent K = -∂R/∂u
	Update(dt float64) (err error)                  // computes new states into trial buffers
	Commit()                                        // makes trial states current
	Restore()                                       // recovers the states of the beginning of the step

	// reading and writing of element data
	Encode(enc Encoder) (err error) // encodes internal variables
	Decode(dec Decoder) (err error) // decodes internal variables

	// output
	OutIpsData() (data []*OutIpData) // returns data from all integration points for output
}

// ElemAllocator allocates elements of one domain type
type ElemAllocator func(cell *inp.Cell, edat *inp.ElemData, mat *mdl.Mixture, lay Layout, nodes []*Node) (Elem, error)

// Registry maps stable identifiers to factories for all polymorphic objects that are reconstructed
// from input or restart files: constitutive models (Mats) and domains (element allocators)
type Registry struct {
	Mats    *mdl.Registry            // constitutive models
	Domains map[string]ElemAllocator // domain type => element allocator
}

// NewRegistry returns a registry with all models and domains implemented in this module
func NewRegistry() (o *Registry) {
	o = &Registry{
		Mats:    mdl.NewRegistry(),
		Domains: make(map[string]ElemAllocator),
	}
	o.Domains["multiphasic"] = func(cell *inp.Cell, edat *inp.ElemData, mat *mdl.Mixture, lay Layout, nodes []*Node) (Elem, error) {
		return NewElemMph(cell, edat, mat, lay, nodes, false)
	}
	o.Domains["multiphasic-steady"] = func(cell *inp.Cell, edat *inp.ElemData, mat *mdl.Mixture, lay Layout, nodes []*Node) (Elem, error) {
		return NewElemMph(cell, edat, mat, lay, nodes, true)
	}
	return
}

// NewElem allocates an element of a domain type
func (o *Registry) NewElem(dtype string, cell *inp.Cell, edat *inp.ElemData, mat *mdl.Mixture, lay Layout, nodes []*Node) (Elem, error) {
	allocator, ok := o.Domains[dtype]
	if !ok {
		return nil, &mdl.TypeLookupError{Kind: "domain", Name: dtype}
	}
	return allocator(cell, edat, mat, lay, nodes)
}

// DomainTypes returns the sorted names of all domain types
func (o *Registry) DomainTypes() (names []string) {
	for name := range o.Domains {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

// DomainType returns the name of the domain type for steady or transient analyses
func DomainType(steady bool) string {
	if steady {
		return "multiphasic-steady"
	}
	return "multiphasic"
}

// BuildCoordsMatrix returns the coordinate matrix [3][nverts] of a particular Cell
func BuildCoordsMatrix(cell *inp.Cell, msh *inp.Mesh) (x [][]float64) {
	x = la.MatAlloc(3, len(cell.Verts))
	for i := 0; i < 3; i++ {
		for j, v := range cell.Verts {
			x[i][j] = msh.Verts[v].C[i]
		}
	}
	return
}
