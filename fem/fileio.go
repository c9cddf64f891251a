// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/gob"
	"encoding/json"
	goio "io"

	"github.com/luzpaz/FEBio/mdl"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// RESTART_VERSION is the version of the restart format
const RESTART_VERSION = 1

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// records of the restart format. The order in file is:
//  version, layout, nnodes, nodes, nsets, {set, element states...}, nbcs, bcs, constants

type layoutRecord struct {
	Nsol int // number of solutes
	Ndof int // number of slots per node
}

type nodeRecord struct {
	Vid    int       // vertex id
	Shell  bool      // back-face degrees of freedom
	X0     []float64 // reference coordinates
	Val    []float64 // current values
	Valp   []float64 // values at the beginning of the step
	Vel    []float64 // velocity
	Active []bool    // active slots
	Eq     []int     // equation numbers
}

type setRecord struct {
	Mat    string   // material name
	Models []string // names of constitutive models
	Dtype  string   // domain type
	Cids   []int    // cells of elements
}

type bcRecord struct {
	Vid      int       // vertex id
	Dof      int       // slot
	Fname    string    // name of function
	Ftype    string    // type of function; e.g. "rmp"
	PrmNames []string  // names of parameters of function
	PrmVals  []float64 // values of parameters of function
	Mult     float64   // multiplier
}

type constRecord struct {
	Rgas float64 // universal gas constant
	Tabs float64 // absolute temperature
	Fc   float64 // Faraday constant
	T    float64 // time
	Dt   float64 // time step
}

// WriteRestart writes the state of the domain
func (o *Domain) WriteRestart(w goio.Writer, enctype string) (err error) {
	enc := GetEncoder(w, enctype)
	put := func(what string, v interface{}) {
		if err == nil {
			if e := enc.Encode(v); e != nil {
				err = chk.Err("cannot encode %s:\n%v", what, e)
			}
		}
	}

	// version and layout
	put("version", RESTART_VERSION)
	put("layout", layoutRecord{o.Lay.Nsol, o.Lay.Ndof()})

	// nodes
	put("number of nodes", len(o.Nodes))
	for _, n := range o.Nodes {
		put("node", nodeRecord{n.Vert.Id, n.Shell, n.X0, n.Val, n.Valp, n.Vel, n.Active, n.Eq})
	}

	// element sets
	put("number of sets", len(o.Sets))
	for _, set := range o.Sets {
		rec := setRecord{Mat: set.Mat.Name, Models: ModelNames(set.Mat), Dtype: set.Dtype}
		for _, e := range set.Elems {
			rec.Cids = append(rec.Cids, e.Id())
		}
		put("set", rec)
		for _, e := range set.Elems {
			if err != nil {
				return
			}
			err = e.Encode(enc)
		}
	}

	// boundary conditions
	put("number of bcs", len(o.Presc))
	for _, p := range o.Presc {
		rec := bcRecord{Vid: p.Node.Vert.Id, Dof: p.Dof, Fname: p.Fname, Ftype: "cte", PrmNames: []string{"c"}, PrmVals: []float64{0}, Mult: p.Mult}
		for _, f := range o.Sim.Functions {
			if f.Name == p.Fname {
				rec.Ftype, rec.PrmNames, rec.PrmVals = f.Type, nil, nil
				for _, prm := range f.Prms {
					rec.PrmNames = append(rec.PrmNames, prm.N)
					rec.PrmVals = append(rec.PrmVals, prm.V)
				}
			}
		}
		put("bc", rec)
	}

	// constants
	c := o.Sim.Constants
	put("constants", constRecord{c.Rgas, c.Tabs, c.Fc, o.T, o.Dt})
	return
}

// ReadRestart reads the state of the domain. The domain must have been constructed from the same
// input data and the stage must have been set. Any mismatch is an error
//  Note: on errors, the domain is left in an undefined state and must be discarded
func (o *Domain) ReadRestart(r goio.Reader, enctype string) (err error) {
	dec := GetDecoder(r, enctype)

	// version
	var version int
	err = dec.Decode(&version)
	if err != nil {
		return chk.Err("cannot decode version:\n%v", err)
	}
	if version != RESTART_VERSION {
		return &VersionMismatchError{version, RESTART_VERSION}
	}

	// layout
	var lay layoutRecord
	err = dec.Decode(&lay)
	if err != nil {
		return chk.Err("cannot decode layout:\n%v", err)
	}
	if lay.Nsol != o.Lay.Nsol || lay.Ndof != o.Lay.Ndof() {
		return chk.Err("layout in file (nsol=%d, ndof=%d) does not match (nsol=%d, ndof=%d)", lay.Nsol, lay.Ndof, o.Lay.Nsol, o.Lay.Ndof())
	}

	// nodes
	var nnodes int
	err = dec.Decode(&nnodes)
	if err != nil {
		return chk.Err("cannot decode number of nodes:\n%v", err)
	}
	if nnodes != len(o.Nodes) {
		return chk.Err("number of nodes in file (%d) does not match (%d)", nnodes, len(o.Nodes))
	}
	for _, n := range o.Nodes {
		var rec nodeRecord
		err = dec.Decode(&rec)
		if err != nil {
			return chk.Err("cannot decode node:\n%v", err)
		}
		if rec.Vid != n.Vert.Id || rec.Shell != n.Shell || len(rec.Val) != len(n.Val) || len(rec.Valp) != len(n.Valp) || len(rec.Vel) != len(n.Vel) ||
			len(rec.Active) != len(n.Active) || len(rec.Eq) != len(n.Eq) {
			return chk.Err("node %d in file does not match node %d", rec.Vid, n.Vert.Id)
		}
		for dof := range n.Active {
			if rec.Active[dof] != n.Active[dof] || rec.Eq[dof] != n.Eq[dof] {
				return chk.Err("degree of freedom %q of node %d in file does not match", o.Lay.Key(dof), n.Vert.Id)
			}
		}
		copy(n.Val, rec.Val)
		copy(n.Valp, rec.Valp)
		copy(n.Vel, rec.Vel)
	}

	// element sets
	var nsets int
	err = dec.Decode(&nsets)
	if err != nil {
		return chk.Err("cannot decode number of sets:\n%v", err)
	}
	if nsets != len(o.Sets) {
		return chk.Err("number of element sets in file (%d) does not match (%d)", nsets, len(o.Sets))
	}
	for _, set := range o.Sets {
		var rec setRecord
		err = dec.Decode(&rec)
		if err != nil {
			return chk.Err("cannot decode element set:\n%v", err)
		}
		err = o.checkTypes(&rec)
		if err != nil {
			return
		}
		err = checkSet(set, &rec)
		if err != nil {
			return
		}
		for _, e := range set.Elems {
			err = e.Decode(dec)
			if err != nil {
				return
			}
		}
	}

	// boundary conditions
	var nbcs int
	err = dec.Decode(&nbcs)
	if err != nil {
		return chk.Err("cannot decode number of bcs:\n%v", err)
	}
	if nbcs != len(o.Presc) {
		return chk.Err("number of prescribed degrees of freedom in file (%d) does not match (%d)", nbcs, len(o.Presc))
	}
	presc := make([]*PrescribedDof, nbcs)
	for i, p := range o.Presc {
		var rec bcRecord
		err = dec.Decode(&rec)
		if err != nil {
			return chk.Err("cannot decode bc:\n%v", err)
		}
		if rec.Vid != p.Node.Vert.Id || rec.Dof != p.Dof || rec.Fname != p.Fname {
			return chk.Err("prescribed degree of freedom %d in file (vertex %d, %q) does not match (vertex %d, %q)", i, rec.Vid, o.Lay.Key(rec.Dof), p.Node.Vert.Id, o.Lay.Key(p.Dof))
		}
		if len(rec.PrmVals) != len(rec.PrmNames) {
			return chk.Err("prescribed degree of freedom %d in file has %d parameter values for %d names", i, len(rec.PrmVals), len(rec.PrmNames))
		}
		var prms dbf.Params
		for j, name := range rec.PrmNames {
			prms = append(prms, &dbf.P{N: name, V: rec.PrmVals[j]})
		}
		fcn, e := dbf.New(rec.Ftype, prms)
		if e != nil {
			return &mdl.TypeLookupError{Kind: "function", Name: rec.Ftype}
		}
		presc[i] = &PrescribedDof{p.Node, p.Dof, rec.Fname, fcn, rec.Mult}
	}

	// constants
	var c constRecord
	err = dec.Decode(&c)
	if err != nil {
		return chk.Err("cannot decode constants:\n%v", err)
	}
	s := o.Sim.Constants
	if c.Rgas != s.Rgas || c.Tabs != s.Tabs || c.Fc != s.Fc {
		return chk.Err("constants in file (R=%g, T=%g, Fc=%g) do not match (R=%g, T=%g, Fc=%g)", c.Rgas, c.Tabs, c.Fc, s.Rgas, s.Tabs, s.Fc)
	}
	o.Presc = presc
	o.T, o.Dt = c.T, c.Dt
	return
}

// checkTypes checks that all type names of a set are available in the registry
func (o *Domain) checkTypes(rec *setRecord) error {
	if _, ok := o.Reg.Domains[rec.Dtype]; !ok {
		return &mdl.TypeLookupError{Kind: "domain", Name: rec.Dtype}
	}
	for _, name := range rec.Models {
		if name != "" && !o.Reg.Mats.Has(name) {
			return &mdl.TypeLookupError{Kind: "constitutive", Name: name}
		}
	}
	return nil
}

// checkSet compares a set record with the current configuration
func checkSet(set *ElemSet, rec *setRecord) error {
	if rec.Mat != set.Mat.Name || rec.Dtype != set.Dtype {
		return chk.Err("element set in file (%q, %q) does not match (%q, %q)", rec.Mat, rec.Dtype, set.Mat.Name, set.Dtype)
	}
	models := ModelNames(set.Mat)
	if len(models) != len(rec.Models) {
		return chk.Err("models of material %q in file do not match", rec.Mat)
	}
	for i, name := range models {
		if name != rec.Models[i] {
			return chk.Err("model %d of material %q in file (%q) does not match (%q)", i, rec.Mat, rec.Models[i], name)
		}
	}
	if len(rec.Cids) != len(set.Elems) {
		return chk.Err("number of elements of material %q in file (%d) does not match (%d)", rec.Mat, len(rec.Cids), len(set.Elems))
	}
	for i, e := range set.Elems {
		if rec.Cids[i] != e.Id() {
			return chk.Err("element %d of material %q in file (%d) does not match (%d)", i, rec.Mat, rec.Cids[i], e.Id())
		}
	}
	return nil
}
