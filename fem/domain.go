// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/luzpaz/FEBio/inp"
	"github.com/luzpaz/FEBio/mdl"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
	"golang.org/x/sync/errgroup"
)

// Node holds the degrees of freedom of a vertex
//  Eq[dof] >= 0  : equation number of a free degree of freedom
//  Eq[dof] == -1 : inactive degree of freedom
//  Eq[dof] <= -2 : prescribed degree of freedom with index -Eq[dof]-2 in Domain.Presc
type Node struct {
	Vert   *inp.Vert // vertex
	X0     []float64 // [3] reference coordinates
	Shell  bool      // vertex carries back-face degrees of freedom
	Active []bool    // [ndof] active slots
	Eq     []int     // [ndof] equation numbers
	Val    []float64 // [ndof] current values: displacements, pressures and concentrations
	Valp   []float64 // [ndof] values at the beginning of the time step
	Vel    []float64 // [3] velocity
}

// NewNode allocates a node
func NewNode(v *inp.Vert, lay Layout) (o *Node) {
	ndof := lay.Ndof()
	o = &Node{
		Vert:   v,
		X0:     la.VecClone(v.C),
		Shell:  v.Shell,
		Active: make([]bool, ndof),
		Eq:     make([]int, ndof),
		Val:    make([]float64, ndof),
		Valp:   make([]float64, ndof),
		Vel:    make([]float64, 3),
	}
	for i := range o.Eq {
		o.Eq[i] = -1
	}
	return
}

// GetEq returns the equation number of a degree of freedom given by its key; e.g. "uz"
//  Note: returns -1 if not found or inactive
func (o *Node) GetEq(lay Layout, key string) int {
	dof, err := lay.Index(key)
	if err != nil {
		return -1
	}
	return o.Eq[dof]
}

// PrescribedDof holds a degree of freedom with a prescribed value: mult * fcn(t)
type PrescribedDof struct {
	Node  *Node   // node
	Dof   int     // slot
	Fname string  // name of function
	Fcn   dbf.T   // function of time
	Mult  float64 // multiplier
}

// Value returns the prescribed value at time t
func (o *PrescribedDof) Value(t float64) float64 {
	return o.Mult * o.Fcn.F(t, nil)
}

// ElemSet holds all elements sharing a material and a domain type
type ElemSet struct {
	Mat   *inp.MaterialData // material data
	Mix   *mdl.Mixture      // material model
	Dtype string            // domain type; e.g. "multiphasic"
	Elems []Elem            // elements
}

// elemSlot holds an element and its private scratchpad
type elemSlot struct {
	e  Elem        // element
	lm []int       // location vector
	fe []float64   // element residual
	ke [][]float64 // element tangent
}

// Domain holds all nodes and elements and assembles the global residual and tangent
type Domain struct {

	// input
	Sim *inp.Simulation // input data
	Msh *inp.Mesh       // mesh data
	Reg *Registry       // registry of models and domains

	// nodes and elements
	Lay      Layout     // nodal degrees of freedom
	Nodes    []*Node    // [nverts] all nodes
	Sets     []*ElemSet // element sets
	Cid2elem []Elem     // [ncells] CellId => element. Inactive cells are nil
	slots    []*elemSlot

	// stage
	Presc []*PrescribedDof // prescribed degrees of freedom
	Neq   int              // number of equations
	NnzKb int              // number of nonzeros in the global tangent (with repetitions)

	// options
	Steady    bool // steady-state kernels
	Symmetric bool // symmetrize element tangents
	Nworkers  int  // number of concurrent element computations
	Verbose   bool // show messages

	// time
	T  float64 // current time
	Dt float64 // current time step

	// auxiliary
	Metrics *Metrics // metrics; may be nil
}

// NewDomain allocates nodes, materials and elements
func NewDomain(sim *inp.Simulation, reg *Registry, metrics *Metrics) (o *Domain, err error) {

	// basic data
	o = new(Domain)
	o.Sim = sim
	o.Msh = sim.Msh
	o.Reg = reg
	o.Steady = sim.Data.Steady
	o.Symmetric = sim.Data.Symmetric
	o.Nworkers = sim.Data.Nworkers
	if o.Nworkers < 1 {
		o.Nworkers = runtime.NumCPU()
	}
	o.Verbose = sim.Data.Verbose
	o.Metrics = metrics
	if o.Msh == nil {
		return nil, chk.Err("simulation has no mesh")
	}

	// materials used by active cells
	mixs := make(map[string]*ElemSet)
	nsol := -1
	for _, cell := range o.Msh.Cells {
		edat := sim.Etag2data(cell.Tag)
		if edat == nil || edat.Inact {
			continue
		}
		if _, ok := mixs[edat.Mat]; ok {
			continue
		}
		matdata := sim.GetMaterial(edat.Mat)
		if matdata == nil {
			return nil, chk.Err("cannot find material %q", edat.Mat)
		}
		mix, e := GetMixture(reg.Mats, matdata, sim.Constants)
		if e != nil {
			return nil, e
		}
		if nsol < 0 {
			nsol = mix.Nsol()
		}
		if mix.Nsol() != nsol {
			return nil, chk.Err("all materials must have the same number of solutes. %q has %d but %d is required", mix.Name, mix.Nsol(), nsol)
		}
		set := &ElemSet{Mat: matdata, Mix: mix, Dtype: DomainType(o.Steady)}
		mixs[edat.Mat] = set
		o.Sets = append(o.Sets, set)
	}
	if nsol < 0 {
		return nil, chk.Err("there are no active elements")
	}
	o.Lay = Layout{Nsol: nsol}

	// nodes
	o.Nodes = make([]*Node, len(o.Msh.Verts))
	for i, v := range o.Msh.Verts {
		o.Nodes[i] = NewNode(v, o.Lay)
	}

	// elements
	o.Cid2elem = make([]Elem, len(o.Msh.Cells))
	for _, cell := range o.Msh.Cells {
		edat := sim.Etag2data(cell.Tag)
		if edat == nil || edat.Inact {
			continue
		}
		set := mixs[edat.Mat]
		nodes := make([]*Node, len(cell.Verts))
		for m, vid := range cell.Verts {
			nodes[m] = o.Nodes[vid]
		}
		ele, e := reg.NewElem(set.Dtype, cell, edat, set.Mix, o.Lay, nodes)
		if e != nil {
			return nil, e
		}
		err = ele.ActivateDofs()
		if err != nil {
			return nil, err
		}
		set.Elems = append(set.Elems, ele)
		o.Cid2elem[cell.Id] = ele
		o.slots = append(o.slots, &elemSlot{e: ele})
	}
	return
}

// Elems returns all active elements
func (o *Domain) Elems() (elems []Elem) {
	for _, slot := range o.slots {
		elems = append(elems, slot.e)
	}
	return
}

// SetStage sets the prescribed degrees of freedom and the equation numbers for a given stage.
// The initial values of the first stage are set and the states of all elements are computed
//  Note: the state at the end of the previous stage is kept
func (o *Domain) SetStage(stgidx int) (err error) {

	// stage
	if stgidx < 0 || stgidx >= len(o.Sim.Stages) {
		return chk.Err("stage index %d is out of range", stgidx)
	}
	stg := o.Sim.Stages[stgidx]

	// prescribed degrees of freedom
	o.Presc = nil
	presc := make(map[[2]int]bool)
	for _, nbc := range stg.NodeBcs {
		verts := o.Msh.VertTag2verts[nbc.Tag]
		if len(verts) == 0 {
			return chk.Err("cannot find vertices with tag = %d", nbc.Tag)
		}
		for j, key := range nbc.Keys {
			dof, e := o.Lay.Index(key)
			if e != nil {
				return e
			}
			fcn, e := o.Sim.Functions.Get(nbc.Funcs[j])
			if e != nil {
				return e
			}
			mult := 1.0
			if len(nbc.Mult) > 0 {
				mult = nbc.Mult[j]
			}
			for _, v := range verts {
				n := o.Nodes[v.Id]
				if !n.Active[dof] {
					return chk.Err("degree of freedom %q of vertex %d is not active", key, v.Id)
				}
				if presc[[2]int{v.Id, dof}] {
					return chk.Err("degree of freedom %q of vertex %d is prescribed more than once", key, v.Id)
				}
				presc[[2]int{v.Id, dof}] = true
				o.Presc = append(o.Presc, &PrescribedDof{n, dof, nbc.Funcs[j], fcn, mult})
			}
		}
	}

	// equation numbers
	o.NumberEquations()

	// location vectors and scratchpads
	err = o.unpack()
	if err != nil {
		return
	}

	// initial values
	if stgidx == 0 {
		if stg.Initial != nil {
			err = o.SetInitialValues(stg.Initial.Dofs, stg.Initial.Vals)
			if err != nil {
				return
			}
		}
		for _, slot := range o.slots {
			err = slot.e.Activate()
			if err != nil {
				return
			}
		}
	}
	for _, n := range o.Nodes {
		copy(n.Valp, n.Val)
	}
	if o.Verbose {
		io.Pf("stage %d: neq = %d, nnz = %d, nprescribed = %d\n", stgidx, o.Neq, o.NnzKb, len(o.Presc))
	}
	return
}

// NumberEquations numbers the free degrees of freedom and encodes the prescribed ones
func (o *Domain) NumberEquations() {
	pidx := make(map[*Node]map[int]int)
	for i, p := range o.Presc {
		if pidx[p.Node] == nil {
			pidx[p.Node] = make(map[int]int)
		}
		pidx[p.Node][p.Dof] = i
	}
	o.Neq = 0
	for _, n := range o.Nodes {
		for dof, active := range n.Active {
			if !active {
				n.Eq[dof] = -1
				continue
			}
			if i, ok := pidx[n][dof]; ok {
				n.Eq[dof] = -i - 2
				continue
			}
			n.Eq[dof] = o.Neq
			o.Neq++
		}
	}
}

// SetInitialValues sets nodal values. The pressure and concentrations of the back face receive
// the same values
func (o *Domain) SetInitialValues(keys []string, vals []float64) (err error) {
	if len(keys) != len(vals) {
		return chk.Err("number of initial values (%d) must be equal to the number of keys (%d)", len(vals), len(keys))
	}
	for i, key := range keys {
		dof, e := o.Lay.Index(key)
		if e != nil {
			return e
		}
		slots := []int{dof}
		switch {
		case dof == DOF_P:
			slots = append(slots, DOF_Q)
		case dof >= o.Lay.C(0) && dof < o.Lay.C(0)+o.Lay.Nsol:
			slots = append(slots, o.Lay.D(dof-o.Lay.C(0)))
		}
		for _, n := range o.Nodes {
			for _, s := range slots {
				if n.Active[s] {
					n.Val[s] = vals[i]
				}
			}
		}
	}
	return
}

// PrescribedIncrements returns the increments of all prescribed degrees of freedom from the
// beginning of the step up to time t
func (o *Domain) PrescribedIncrements(t float64) (dubar []float64) {
	dubar = make([]float64, len(o.Presc))
	for i, p := range o.Presc {
		dubar[i] = p.Value(t) - p.Node.Valp[p.Dof]
	}
	return
}

// PreSolveUpdate prepares nodes and elements for a new time step
func (o *Domain) PreSolveUpdate() {
	for _, n := range o.Nodes {
		copy(n.Valp, n.Val)
	}
	for _, slot := range o.slots {
		slot.e.PreSolveUpdate()
	}
}

// Restore recovers nodes and elements from the beginning of the step
func (o *Domain) Restore() {
	for _, n := range o.Nodes {
		copy(n.Val, n.Valp)
	}
	for _, slot := range o.slots {
		slot.e.Restore()
	}
}

// BuildResidual computes the residual of all elements and assembles them into sys
func (o *Domain) BuildResidual(ctx context.Context, sys GlobalLinearSystem) (err error) {
	defer o.observe("residual", time.Now())
	return o.forEach(ctx, func(slot *elemSlot) error {
		e := slot.e.Residual(slot.fe, o.Dt)
		if e != nil {
			return e
		}
		sys.AssembleRhs(slot.lm, slot.fe)
		return nil
	})
}

// BuildTangent computes the tangent of all elements and assembles them into sys
func (o *Domain) BuildTangent(ctx context.Context, sys GlobalLinearSystem) (err error) {
	defer o.observe("tangent", time.Now())
	return o.forEach(ctx, func(slot *elemSlot) error {
		e := slot.e.Tangent(slot.ke, o.Dt)
		if e != nil {
			return e
		}
		if o.Symmetric {
			Symmetrize(slot.ke)
		}
		sys.Assemble(slot.lm, slot.ke)
		return nil
	})
}

// CommitStateUpdate adds the increments to the nodal values and updates the states of all
// elements. Either all elements are updated or none is: if any element fails, nodal values are
// restored and the returned error satisfies errors.Is(err, ErrRunningRestart), carrying all failures
//  du    -- [neq] increments of free degrees of freedom
//  dubar -- [nprescribed] increments of prescribed degrees of freedom; may be nil
func (o *Domain) CommitStateUpdate(ctx context.Context, du, dubar []float64) (err error) {
	defer o.observe("update", time.Now())

	// nodal values
	bkp := make([][]float64, len(o.Nodes))
	for i, n := range o.Nodes {
		bkp[i] = la.VecClone(n.Val)
		for dof, eq := range n.Eq {
			switch {
			case eq >= 0:
				n.Val[dof] += du[eq]
			case eq <= -2 && dubar != nil:
				n.Val[dof] += dubar[-eq-2]
			}
		}
	}

	// trial states
	var mu sync.Mutex
	var failures []error
	err = o.forEach(ctx, func(slot *elemSlot) error {
		e := slot.e.Update(o.Dt)
		if e == nil {
			return nil
		}
		var dge *DegenerateElementError
		if errors.As(e, &dge) {
			mu.Lock()
			failures = append(failures, e)
			mu.Unlock()
			return nil
		}
		return e
	})
	if err == nil && len(failures) > 0 {
		if o.Metrics != nil {
			o.Metrics.Degenerate.Add(float64(len(failures)))
		}
		err = errors.Join(append([]error{ErrRunningRestart}, failures...)...)
	}
	if err != nil {
		for i, n := range o.Nodes {
			copy(n.Val, bkp[i])
		}
		return
	}

	// commit
	for _, slot := range o.slots {
		slot.e.Commit()
	}
	if o.Dt > 0 {
		for _, n := range o.Nodes {
			for i := 0; i < 3; i++ {
				n.Vel[i] = (n.Val[DOF_X+i] - n.Valp[DOF_X+i]) / o.Dt
			}
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// unpack computes the location vectors and allocates the element scratchpads
func (o *Domain) unpack() (err error) {
	o.NnzKb = 0
	for _, slot := range o.slots {
		slot.lm, err = slot.e.UnpackLM()
		if err != nil {
			return
		}
		nlm := len(slot.lm)
		if len(slot.fe) != nlm {
			slot.fe = make([]float64, nlm)
			slot.ke = la.MatAlloc(nlm, nlm)
		}
		nfree := 0
		for _, eq := range slot.lm {
			if eq >= 0 {
				nfree++
			}
		}
		o.NnzKb += nfree * nfree
	}
	return
}

// forEach runs fcn for all elements using at most Nworkers goroutines
func (o *Domain) forEach(ctx context.Context, fcn func(slot *elemSlot) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Nworkers)
	for _, slot := range o.slots {
		slot := slot
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fcn(slot)
		})
	}
	return g.Wait()
}

// observe records the duration of an element pass
func (o *Domain) observe(pass string, start time.Time) {
	if o.Metrics != nil {
		o.Metrics.Passes.WithLabelValues(pass).Inc()
		o.Metrics.Duration.WithLabelValues(pass).Observe(time.Since(start).Seconds())
	}
}
