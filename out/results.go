// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Point holds the time series of a node or an integration point
type Point struct {
	Vid  int                  // vertex id; -1 if integration point
	IpId int                  // integration point id; -1 if node
	X    []float64            // reference coordinates
	Vals map[string][]float64 // maps keys to [ntimes] values; e.g. "uz", "p", "ca0"
}

// Points is a set of points
type Points []*Point

// Define defines aliases
//  alias -- an alias to a group of points or to individual points; e.g. "top" or "a b c".
//           If the number of points found equals the number of words, one entry per word is created
func Define(alias string, loc Locator) (err error) {
	if len(alias) < 1 {
		return chk.Err("alias must have at least one character. %q is invalid", alias)
	}
	pts := loc.Locate()
	if len(pts) < 1 {
		return chk.Err("cannot define entities with alias=%q and locator=%v", alias, loc)
	}
	lbls := strings.Fields(alias)
	if len(lbls) > 1 && len(lbls) == len(pts) {
		for i, l := range lbls {
			Results[l] = Points{pts[i]}
		}
		return
	}
	Results[alias] = pts
	return
}

// LoadResults loads the snapshots at selected output times after points are defined
//  times -- selected output times in ascending order; nil means all output times. Use -1 for the last one
func LoadResults(times []float64) (err error) {

	// selected output times and indices
	if len(Sum.OutTimes) < 1 {
		return chk.Err("there are no output times in the summary")
	}
	if times == nil {
		times = Sum.OutTimes
	}
	TimeInds, Times = utl.GetITout(Sum.OutTimes, times, TolT)
	if len(TimeInds) < 1 {
		return chk.Err("none of the selected times %v is an output time", times)
	}

	// for each selected output time
	for _, tidx := range TimeInds {

		// recover state
		err = Analysis.ReadRestart(Stage, tidx)
		if err != nil {
			return chk.Err("cannot load snapshot %d:\n%v", tidx, err)
		}

		// for each point
		for _, pts := range Results {
			for _, p := range pts {

				// node
				if p.Vid >= 0 {
					n := Dom.Nodes[p.Vid]
					for dof, active := range n.Active {
						if active {
							key := Dom.Lay.Key(dof)
							p.Vals[key] = append(p.Vals[key], n.Val[dof])
						}
					}
				}

				// integration point
				if p.IpId >= 0 {
					for key, val := range Ipoints[p.IpId].Calc() {
						p.Vals[key] = append(p.Vals[key], val)
					}
				}
			}
		}
	}
	return
}

// GetRes gets results as a time or space series corresponding to a given alias
//  idx -- index in TimeInds corresponding to selected output time; use -1 for the last item.
//         If alias defines a single point, the whole time series is returned and idx is ignored
func GetRes(key, alias string, idx int) (res []float64, err error) {
	pts, ok := Results[alias]
	if !ok {
		return nil, chk.Err("cannot find alias %q", alias)
	}
	if len(pts) == 1 {
		if v, ok := pts[0].Vals[key]; ok {
			return v, nil
		}
		return nil, chk.Err("cannot get %q at %q", key, alias)
	}
	if idx < 0 {
		idx = len(TimeInds) - 1
	}
	for _, p := range pts {
		if v, ok := p.Vals[key]; ok && idx < len(v) {
			res = append(res, v[idx])
		}
	}
	if len(res) < 1 {
		return nil, chk.Err("cannot get %q at %q", key, alias)
	}
	return
}

// GetIds returns the ids corresponding to alias
func GetIds(alias string) (vids, ipids []int) {
	for _, p := range Results[alias] {
		if p.Vid >= 0 {
			vids = append(vids, p.Vid)
		}
		if p.IpId >= 0 {
			ipids = append(ipids, p.IpId)
		}
	}
	return
}

// GetCoords returns the coordinates of a single point
func GetCoords(alias string) (x []float64, err error) {
	if pts, ok := Results[alias]; ok && len(pts) == 1 {
		return pts[0].X, nil
	}
	return nil, chk.Err("cannot get coordinates of point with alias %q (make sure this alias corresponds to a single point)", alias)
}
