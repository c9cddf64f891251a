// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.yaml or .sim) simulation file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {

	// global information
	Desc    string `json:"desc" yaml:"desc"`       // description of simulation
	Mshfile string `json:"mshfile" yaml:"mshfile"` // file path of file with mesh data
	DirOut  string `json:"dirout" yaml:"dirout"`   // directory for output; e.g. /tmp/febio
	Encoder string `json:"encoder" yaml:"encoder"` // encoder name; e.g. "gob" "json"
	Store   string `json:"store" yaml:"store"`     // snapshot store: "file" (default), "badger" or "none"

	// problem definition and options
	Steady    bool `json:"steady" yaml:"steady"`       // steady simulation; i.e. zero solid velocity and zero time-derivative of concentrations
	Symmetric bool `json:"symmetric" yaml:"symmetric"` // symmetrize element tangents
	Nworkers  int  `json:"nworkers" yaml:"nworkers"`   // number of workers for element passes; 0 => number of CPUs
	Verbose   bool `json:"verbose" yaml:"verbose"`     // show messages
}

// SolverData holds FEM solver data
type SolverData struct {

	// nonlinear solver
	NmaxIt  int     `json:"nmaxit" yaml:"nmaxit"`   // number of max iterations
	FbTol   float64 `json:"fbtol" yaml:"fbtol"`     // tolerance for convergence on fb
	FbMin   float64 `json:"fbmin" yaml:"fbmin"`     // minimum value of fb
	DvgCtrl bool    `json:"dvgctrl" yaml:"dvgctrl"` // use divergence control
	NdvgMax int     `json:"ndvgmax" yaml:"ndvgmax"` // max number of continued divergence
	ShowR   bool    `json:"showr" yaml:"showr"`     // show residual

	// transient analyses
	DtMin float64 `json:"dtmin" yaml:"dtmin"` // minimum value of Dt; running restarts stop here

	// linear solver
	LinSol string `json:"linsol" yaml:"linsol"` // "umfpack" or "dense"
}

// FuncData holds function definition
type FuncData struct {
	Name string     `json:"name" yaml:"name"` // name of function. ex: zero, load, myfunction1, etc.
	Type string     `json:"type" yaml:"type"` // type of function. ex: cte, rmp
	Prms dbf.Params `json:"prms" yaml:"prms"` // parameters
}

// FuncsData is a set of functions
type FuncsData []*FuncData

// Constants holds physical constants
type Constants struct {
	Rgas float64 `json:"rgas" yaml:"rgas"` // universal gas constant
	Tabs float64 `json:"tabs" yaml:"tabs"` // absolute temperature
	Fc   float64 `json:"fc" yaml:"fc"`     // Faraday constant
}

// ModelData holds the name and parameters of a constitutive model
type ModelData struct {
	Type string     `json:"type" yaml:"type"` // name of model in registry; e.g. "neo-Hookean"
	Prms dbf.Params `json:"prms" yaml:"prms"` // parameters
}

// SoluteData holds solute data
type SoluteData struct {
	Name  string     `json:"name" yaml:"name"`   // name of solute; e.g. "Na"
	Z     float64    `json:"z" yaml:"z"`         // charge number
	M     float64    `json:"m" yaml:"m"`         // molar mass
	Diff  *ModelData `json:"diff" yaml:"diff"`   // diffusivity
	Solub *ModelData `json:"solub" yaml:"solub"` // solubility
}

// SBMData holds solid-bound molecule data
type SBMData struct {
	Name   string  `json:"name" yaml:"name"`     // name of molecule
	Z      float64 `json:"z" yaml:"z"`           // charge number
	M      float64 `json:"m" yaml:"m"`           // molar mass
	RhoT   float64 `json:"rhot" yaml:"rhot"`     // true density
	Rho0   float64 `json:"rho0" yaml:"rho0"`     // initial referential density
	RhoMin float64 `json:"rhomin" yaml:"rhomin"` // minimum referential density
	RhoMax float64 `json:"rhomax" yaml:"rhomax"` // maximum referential density; 0 => unbounded
}

// MaterialData holds the data of a multiphasic material
type MaterialData struct {
	Name    string        `json:"name" yaml:"name"`       // name of material
	Solid   *ModelData    `json:"solid" yaml:"solid"`     // solid skeleton
	Perm    *ModelData    `json:"perm" yaml:"perm"`       // permeability
	Osmc    *ModelData    `json:"osmc" yaml:"osmc"`       // osmotic coefficient
	Supply  *ModelData    `json:"supply" yaml:"supply"`   // solvent supply (optional)
	Solutes []*SoluteData `json:"solutes" yaml:"solutes"` // solutes
	SBMs    []*SBMData    `json:"sbms" yaml:"sbms"`       // solid-bound molecules
	Reacts  []*ModelData  `json:"reacts" yaml:"reacts"`   // chemical reactions
	Phi0    float64       `json:"phi0" yaml:"phi0"`       // referential solid volume fraction
	CF0     float64       `json:"cf0" yaml:"cf0"`         // referential fixed charge density
	Penalty float64       `json:"penalty" yaml:"penalty"` // electroneutrality penalty
}

// ElemData holds element data
type ElemData struct {
	Tag   int    `json:"tag" yaml:"tag"`     // tag of cells
	Mat   string `json:"mat" yaml:"mat"`     // material name
	Nip   int    `json:"nip" yaml:"nip"`     // number of integration points; 0 => use default
	Inact bool   `json:"inact" yaml:"inact"` // whether element starts inactive or not
}

// NodeBc holds node boundary condition
type NodeBc struct {
	Tag   int       `json:"tag" yaml:"tag"`     // tag of node
	Keys  []string  `json:"keys" yaml:"keys"`   // keys of dofs. ex: ux, uy, uz, p, c0, c1
	Funcs []string  `json:"funcs" yaml:"funcs"` // name of function. ex: zero, load, myfunction1, etc.
	Mult  []float64 `json:"mult" yaml:"mult"`   // multipliers of functions; empty => 1
}

// InitialData holds uniform initial values of dofs
type InitialData struct {
	Dofs []string  `json:"dofs" yaml:"dofs"` // keys of dofs. ex: p, c0
	Vals []float64 `json:"vals" yaml:"vals"` // values
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf    float64 `json:"tf" yaml:"tf"`       // duration of stage
	Dt    float64 `json:"dt" yaml:"dt"`       // time step size (if constant)
	DtOut float64 `json:"dtout" yaml:"dtout"` // time step size for output
	DtFcn string  `json:"dtfcn" yaml:"dtfcn"` // time step size (function name)

	// derived
	DtFunc dbf.T `json:"-" yaml:"-"` // time step function
}

// Stage holds stage data
type Stage struct {
	Desc    string       `json:"desc" yaml:"desc"`       // description of simulation stage
	Initial *InitialData `json:"initial" yaml:"initial"` // initial values (first stage only)
	NodeBcs []*NodeBc    `json:"nodebcs" yaml:"nodebcs"` // node boundary conditions
	Control TimeControl  `json:"control" yaml:"control"` // time control
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data            `json:"data" yaml:"data"`           // stores global simulation data
	Functions FuncsData       `json:"functions" yaml:"functions"` // stores all boundary condition functions
	Constants Constants       `json:"constants" yaml:"constants"` // physical constants
	Materials []*MaterialData `json:"materials" yaml:"materials"` // materials
	ElemsData []*ElemData     `json:"elemsdata" yaml:"elemsdata"` // list of elements data
	Solver    SolverData      `json:"solver" yaml:"solver"`       // FEM solver data
	Stages    []*Stage        `json:"stages" yaml:"stages"`       // stores all stages

	// derived
	Msh      *Mesh       `json:"-" yaml:"-"` // the mesh
	DirOut   string      `json:"-" yaml:"-"` // directory to save results
	Key      string      `json:"-" yaml:"-"` // simulation key; e.g. mysim01.yaml => mysim01 or mysim01-alias
	EncType  string      `json:"-" yaml:"-"` // encoder type
	etag2idx map[int]int                     // maps element tag to element index in ElemsData slice
}

// Simulation //////////////////////////////////////////////////////////////////////////////////////

// ReadSim reads all simulation data from a .yaml (or JSON .sim) file
func ReadSim(simfilepath, alias string, erasefiles bool, goroutineId int) (o *Simulation, err error) {

	// read file
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// decode
	o, err = DecodeSim(b, filepath.Ext(simfilepath))
	if err != nil {
		return nil, chk.Err("ReadSim: cannot decode simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/febio/" + fnkey
	}

	// create directory and erase previous simulation results
	if erasefiles {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// read mesh
	o.Msh, err = ReadMsh(dir, o.Data.Mshfile, goroutineId)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read mesh file:\n%v", err)
	}
	return
}

// DecodeSim decodes simulation data; ext selects the format: ".yaml"/".yml" or JSON otherwise.
// The mesh is not read
func DecodeSim(b []byte, ext string) (o *Simulation, err error) {

	// new sim with default values
	o = new(Simulation)
	o.Solver.SetDefault()
	o.Constants.SetDefault()

	// decode
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, o)
	default:
		err = json.Unmarshal(b, o)
	}
	if err != nil {
		return nil, err
	}
	err = o.PostProcess()
	if err != nil {
		return nil, err
	}
	return
}

// PostProcess checks data and sets derived values
func (o *Simulation) PostProcess() (err error) {

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// solver
	err = o.Solver.PostProcess()
	if err != nil {
		return
	}

	// elements data
	o.etag2idx = make(map[int]int)
	for i, ed := range o.ElemsData {
		if o.GetMaterial(ed.Mat) == nil {
			return chk.Err("cannot find material %q for elements with tag %d", ed.Mat, ed.Tag)
		}
		o.etag2idx[ed.Tag] = i
	}

	// stages
	if len(o.Stages) == 0 {
		o.Stages = []*Stage{{Desc: "default"}}
	}
	var t float64
	for _, stg := range o.Stages {

		// fix Tf
		if stg.Control.Tf < 1e-14 {
			stg.Control.Tf = 1
		}

		// fix Dt
		if stg.Control.DtFcn == "" {
			if stg.Control.Dt < 1e-14 {
				stg.Control.Dt = 1
			}
			stg.Control.DtFunc = &dbf.Cte{C: stg.Control.Dt}
		} else {
			stg.Control.DtFunc, err = o.Functions.Get(stg.Control.DtFcn)
			if err != nil {
				return
			}
			stg.Control.Dt = stg.Control.DtFunc.F(t, nil)
		}

		// fix DtOut
		if stg.Control.DtOut < stg.Control.Dt {
			stg.Control.DtOut = stg.Control.Dt
		}

		// check boundary conditions
		for _, nbc := range stg.NodeBcs {
			if len(nbc.Funcs) != len(nbc.Keys) {
				return chk.Err("node boundary condition with tag %d: number of functions (%d) must be equal to the number of keys (%d)", nbc.Tag, len(nbc.Funcs), len(nbc.Keys))
			}
			if len(nbc.Mult) > 0 && len(nbc.Mult) != len(nbc.Keys) {
				return chk.Err("node boundary condition with tag %d: number of multipliers (%d) must be equal to the number of keys (%d)", nbc.Tag, len(nbc.Mult), len(nbc.Keys))
			}
			for _, fname := range nbc.Funcs {
				_, err = o.Functions.Get(fname)
				if err != nil {
					return
				}
			}
		}
		if stg.Initial != nil && len(stg.Initial.Dofs) != len(stg.Initial.Vals) {
			return chk.Err("initial data: number of dofs (%d) must be equal to the number of values (%d)", len(stg.Initial.Dofs), len(stg.Initial.Vals))
		}

		// update time
		t += stg.Control.Tf
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// Etag2data returns the ElemData corresponding to element tag
//  Note: returns nil if not found
func (o *Simulation) Etag2data(etag int) *ElemData {
	idx, ok := o.etag2idx[etag]
	if !ok {
		return nil
	}
	return o.ElemsData[idx]
}

// GetMaterial returns material data by name
//  Note: returns nil if not found
func (o *Simulation) GetMaterial(name string) *MaterialData {
	for _, mat := range o.Materials {
		if mat.Name == name {
			return mat
		}
	}
	return nil
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := yaml.Marshal(o)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// Get returns function by name; "zero" and "none" are always available
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "zero" || name == "none" {
		return &dbf.Cte{C: 0}, nil
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = dbf.New(f.Type, f.Prms)
			if err != nil {
				return nil, chk.Err("cannot allocate function %q of type %q:\n%v", name, f.Type, err)
			}
			return
		}
	}
	return nil, chk.Err("cannot find function named %q", name)
}

// GetNodeBc returns node boundary condition structure by giving a node tag
//  Note: returns nil if not found
func (o Stage) GetNodeBc(nodetag int) *NodeBc {
	for _, nbc := range o.NodeBcs {
		if nodetag == nbc.Tag {
			return nbc
		}
	}
	return nil
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault set defaults values
func (o *SolverData) SetDefault() {
	o.NmaxIt = 20
	o.FbTol = 1e-8
	o.FbMin = 1e-14
	o.NdvgMax = 20
	o.DtMin = 1e-8
	o.LinSol = "umfpack"
}

// PostProcess performs a post-processing of the just read file
func (o *SolverData) PostProcess() (err error) {
	if o.NmaxIt < 1 {
		return chk.Err("number of iterations must be positive. nmaxit = %d", o.NmaxIt)
	}
	switch o.LinSol {
	case "umfpack", "dense":
	default:
		return chk.Err("linear solver %q is not available. options: umfpack, dense", o.LinSol)
	}
	return
}

// SetDefault sets the constants in mm, N, s, nmol, K units
func (o *Constants) SetDefault() {
	o.Rgas = 8.314e-6
	o.Tabs = 298
	o.Fc = 96485e-9
}
