// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements reading of snapshots and extraction of time series at nodes and
// integration points
package out

import (
	"github.com/luzpaz/FEBio/fem"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/gm"
)

// constants
var (
	TolC = 1e-8 // tolerance to compare x-y-z coordinates
	TolT = 1e-3 // tolerance to compare times
	Ndiv = 20   // number of divisions for bins
)

// ResultsMap maps aliases to points
type ResultsMap map[string]Points

// Global variables
var (

	// data set by Start
	Analysis *fem.FEM         // the fem structure
	Sum      *fem.Summary     // summary of outputs
	Dom      *fem.Domain      // [from Analysis] FE domain
	Stage    int              // index of stage
	Ipoints  []*fem.OutIpData // all integration points. ipid == index in Ipoints
	Cid2ips  [][]int          // [ncells][nip] maps cell id to index in Ipoints
	Ipkeys   map[string]bool  // all ip keys
	NodBins  gm.Bins          // bins for nodes
	IpsBins  gm.Bins          // bins for integration points

	// defined entities and results loaded by LoadResults
	Results  ResultsMap // maps labels => points
	TimeInds []int      // selected output indices
	Times    []float64  // selected output times
)

// Start starts handling of results given a simulation input file
func Start(simfnpath, alias string, stgidx int) (err error) {
	analysis, err := fem.NewFEM(simfnpath, alias, false, false, nil, nil)
	if err != nil {
		return
	}
	sum, err := fem.ReadSum(analysis.Sim.DirOut, analysis.Sim.Key, analysis.Sim.EncType)
	if err != nil {
		return
	}
	return StartWith(analysis, sum, stgidx)
}

// StartWith starts handling of results of an analysis already allocated
func StartWith(analysis *fem.FEM, sum *fem.Summary, stgidx int) (err error) {

	// check
	if analysis.Store == nil {
		return chk.Err("simulation %q has no snapshot store", analysis.Sim.Key)
	}
	if stgidx < 0 || stgidx >= len(analysis.Sim.Stages) {
		return chk.Err("stage index %d is out of range", stgidx)
	}

	// fem structure
	Analysis, Sum, Dom, Stage = analysis, sum, analysis.Dom, stgidx
	err = Analysis.SetStage(stgidx)
	if err != nil {
		return chk.Err("cannot set stage:\n%v", err)
	}

	// clear previous data
	Ipoints = make([]*fem.OutIpData, 0)
	Cid2ips = make([][]int, len(Dom.Msh.Cells))
	Ipkeys = make(map[string]bool)
	Results = make(map[string]Points)
	TimeInds = make([]int, 0)
	Times = make([]float64, 0)

	// bins
	m := Dom.Msh
	δ := TolC * 2
	xi := []float64{m.Xmin - δ, m.Ymin - δ, m.Zmin - δ}
	xf := []float64{m.Xmax + δ, m.Ymax + δ, m.Zmax + δ}
	err = NodBins.Init(xi, xf, Ndiv)
	if err != nil {
		return chk.Err("cannot initialise bins for nodes:\n%v", err)
	}
	err = IpsBins.Init(xi, xf, Ndiv)
	if err != nil {
		return chk.Err("cannot initialise bins for integration points:\n%v", err)
	}

	// add nodes to bins
	for _, nod := range Dom.Nodes {
		err = NodBins.Append(nod.X0, nod.Vert.Id, nil)
		if err != nil {
			return chk.Err("cannot append node to bins:\n%v", err)
		}
	}

	// integration points
	for cid, ele := range Dom.Cid2elem {
		if ele == nil {
			continue
		}
		dat := ele.OutIpsData()
		ids := make([]int, len(dat))
		for i, d := range dat {
			ipid := len(Ipoints)
			ids[i] = ipid
			Ipoints = append(Ipoints, d)
			err = IpsBins.Append(d.X, ipid, nil)
			if err != nil {
				return chk.Err("cannot append integration point to bins:\n%v", err)
			}
			for key := range d.Calc() {
				Ipkeys[key] = true
			}
		}
		Cid2ips[cid] = ids
	}
	return
}
