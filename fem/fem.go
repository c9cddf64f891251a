// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the multiphasic (solid, fluid and solutes) finite element: its degrees
// of freedom, residual and tangent, the assembly of the global system and the implicit solver
package fem

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/luzpaz/FEBio/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
)

// FEM holds all data for a simulation using the finite element method
type FEM struct {
	Sim     *inp.Simulation    // simulation data
	Reg     *Registry          // registry of models and domains
	Dom     *Domain            // domain
	Sys     GlobalLinearSystem // global linear system
	Summary *Summary           // summary structure
	Store   SnapshotStore      // snapshots; nil if store is "none"
	Metrics *Metrics           // metrics
	Solver  *Implicit          // time loop
	Verbose bool               // show messages
}

// NewFEM returns a new FEM structure
//  Input:
//   simfilepath -- simulation (.yaml) filename including full path
//   alias       -- word to be appended to simulation key; e.g. when running multiple FE solutions
//   erasePrev   -- erase previous results files
//   verbose     -- show messages
//   reg         -- registry of models and domains; nil => NewRegistry()
//   registerer  -- where metrics are registered; nil => a new prometheus registry
func NewFEM(simfilepath, alias string, erasePrev, verbose bool, reg *Registry, registerer prometheus.Registerer) (o *FEM, err error) {
	sim, err := inp.ReadSim(simfilepath, alias, erasePrev, 0)
	if err != nil {
		return
	}
	return NewFEMsim(sim, verbose, reg, registerer)
}

// NewFEMsim returns a new FEM structure from simulation data already read
func NewFEMsim(sim *inp.Simulation, verbose bool, reg *Registry, registerer prometheus.Registerer) (o *FEM, err error) {

	// new FEM object
	o = new(FEM)
	o.Sim = sim
	o.Verbose = verbose || sim.Data.Verbose
	o.Reg = reg
	if o.Reg == nil {
		o.Reg = NewRegistry()
	}
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	o.Metrics = NewMetrics(registerer)

	// domain
	o.Dom, err = NewDomain(sim, o.Reg, o.Metrics)
	if err != nil {
		return nil, err
	}

	// linear system
	o.Sys, err = NewLinearSystem(sim.Solver.LinSol, sim.Data.Symmetric)
	if err != nil {
		return nil, err
	}

	// summary and snapshots
	o.Summary = &Summary{Dirout: sim.DirOut, Fnkey: sim.Key}
	if sim.Data.Store != "none" {
		err = os.MkdirAll(sim.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", sim.DirOut, err)
		}
	}
	o.Store, err = NewSnapshotStore(sim.Data.Store, sim.DirOut, sim.Key, sim.EncType, o.Verbose)
	if err != nil {
		return nil, err
	}

	// solver
	o.Solver = &Implicit{
		Dom:     o.Dom,
		Sys:     o.Sys,
		Sum:     o.Summary,
		Store:   o.Store,
		Prms:    sim.Solver,
		Enc:     sim.EncType,
		Verbose: o.Verbose,
	}
	return
}

// SetStage sets stage and allocates the global linear system
func (o *FEM) SetStage(stgidx int) (err error) {
	err = o.Dom.SetStage(stgidx)
	if err != nil {
		return
	}
	return o.Sys.Init(o.Dom.Neq, o.Dom.NnzKb)
}

// Run runs FE simulation
func (o *FEM) Run(ctx context.Context) (err error) {
	return o.run(ctx, 0, false)
}

// Resume continues a simulation after ReadRestart(stgidx, tidx)
func (o *FEM) Resume(ctx context.Context, stgidx int) (err error) {
	return o.run(ctx, stgidx, true)
}

// run runs all stages starting at stgidx. Each stage ends at the sum of durations up to it
func (o *FEM) run(ctx context.Context, start int, resumed bool) (err error) {

	// message
	cputime := time.Now()
	if o.Verbose {
		io.Pf("> running %q with %d elements and %d nodes\n", o.Sim.Key, len(o.Dom.slots), len(o.Dom.Nodes))
	}

	// loop over stages
	var tf float64
	for stgidx, stg := range o.Sim.Stages {
		tf += stg.Control.Tf
		if stgidx < start {
			continue
		}

		// set stage
		if !resumed || stgidx > start {
			err = o.SetStage(stgidx)
			if err != nil {
				return
			}
		}

		// initial output
		if stgidx == 0 && !resumed {
			err = o.Solver.Output()
			if err != nil {
				return
			}
			o.Solver.Tout = o.Dom.T + stg.Control.DtOut
		}

		// time loop
		err = o.Solver.Run(ctx, tf, stg.Control.DtFunc, stg.Control.DtOut)
		if err != nil {
			return
		}
	}

	// summary
	if o.Sim.Data.Store != "none" {
		err = o.Summary.Save(o.Sim.EncType, o.Verbose)
		if err != nil {
			return
		}
	}
	if o.Verbose {
		io.Pfblue2("cpu time = %v\n", time.Since(cputime))
	}
	return
}

// ReadRestart sets a stage and recovers the state saved with output index tidx
func (o *FEM) ReadRestart(stgidx, tidx int) (err error) {
	if o.Store == nil {
		return chk.Err("there is no snapshot store to read from")
	}
	err = o.SetStage(stgidx)
	if err != nil {
		return
	}
	data, err := o.Store.Load(tidx)
	if err != nil {
		return
	}
	err = o.Dom.ReadRestart(bytes.NewReader(data), o.Sim.EncType)
	if err != nil {
		return
	}
	o.Solver.Tidx = tidx + 1
	o.Solver.Tout = o.Dom.T + o.Sim.Stages[stgidx].Control.DtOut
	return
}

// Clean frees memory and closes the snapshot store
func (o *FEM) Clean() (err error) {
	o.Sys.Clean()
	if o.Store != nil {
		err = o.Store.Close()
	}
	return
}
