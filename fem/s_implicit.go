// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"context"
	"errors"

	"github.com/luzpaz/FEBio/inp"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// DebugKb_t defines a function to debug the global tangent
type DebugKb_t func(d *Domain, sys GlobalLinearSystem, it int)

// Implicit solves the nonlinear problem with the backward Euler method and Newton iterations.
// Steps with degenerate elements (and diverging steps if divergence control is on) are restarted
// with half the time step
type Implicit struct {
	Dom     *Domain            // domain
	Sys     GlobalLinearSystem // global linear system
	Sum     *Summary           // summary; may be nil
	Store   SnapshotStore      // snapshots; may be nil
	Prms    inp.SolverData     // parameters
	Enc     string             // encoder type of snapshots
	DebugKb DebugKb_t          // debug Kb callback function; may be nil
	Verbose bool               // show messages

	// output
	Tout float64 // next output time
	Tidx int     // next output index
}

// Run runs the time loop up to tf
//  dtFunc -- time step as a function of time
//  dtout  -- output interval
func (o *Implicit) Run(ctx context.Context, tf float64, dtFunc dbf.T, dtout float64) (err error) {

	// auxiliary
	d := o.Dom
	md := 1.0    // time step multiplier after restarts
	ndiverg := 0 // number of consecutive restarts

	// time loop
	for d.T < tf {

		// cancelled?
		if err = ctx.Err(); err != nil {
			return
		}

		// check for continued divergence
		if ndiverg >= o.Prms.NdvgMax {
			return chk.Err("continuous divergence after %d steps reached", ndiverg)
		}

		// time increment
		Δt := dtFunc.F(d.T, nil) * md
		last := false
		if d.T+Δt >= tf {
			Δt = tf - d.T
			last = true
		}
		if Δt < o.Prms.DtMin {
			if md < 1 {
				return chk.Err("Δt increment is too small after %d restarts: %g < %g", ndiverg, Δt, o.Prms.DtMin)
			}
			return
		}
		d.Dt = Δt

		// iterations
		d.PreSolveUpdate()
		resids, diverging, e := o.iterate(ctx, d.T+Δt)
		if e != nil {
			if !errors.Is(e, ErrRunningRestart) {
				return e
			}
			if o.Verbose {
				io.Pfred("%v\n", e)
			}
			diverging = true
		}

		// restore state and reduce time step
		if diverging {
			if o.Verbose {
				io.Pfred(". . . running restart (%2d): Δt = %g . . .\n", ndiverg+1, Δt)
			}
			d.Restore()
			if d.Metrics != nil {
				d.Metrics.Restarts.Inc()
			}
			if o.Sum != nil {
				o.Sum.Restarts++
			}
			md *= 0.5
			ndiverg++
			continue
		}
		ndiverg = 0
		md = 1.0

		// time update
		d.T += Δt
		if d.Metrics != nil {
			d.Metrics.Steps.Inc()
			d.Metrics.Iterations.Observe(float64(len(resids)))
		}
		if o.Sum != nil {
			o.Sum.Resids = append(o.Sum.Resids, resids)
			o.Sum.Steps = append(o.Sum.Steps, Δt)
		}
		if o.Verbose && !o.Prms.ShowR {
			io.Pf("%30.15f\r", d.T)
		}

		// perform output
		if d.T >= o.Tout || last {
			err = o.Output()
			if err != nil {
				return
			}
			o.Tout += dtout
		}
	}
	return
}

// Output saves a snapshot of the current state
func (o *Implicit) Output() (err error) {
	if o.Sum != nil {
		o.Sum.OutTimes = append(o.Sum.OutTimes, o.Dom.T)
	}
	if o.Store != nil {
		var buf bytes.Buffer
		err = o.Dom.WriteRestart(&buf, o.Enc)
		if err != nil {
			return
		}
		err = o.Store.Save(o.Tidx, buf.Bytes())
		if err != nil {
			return
		}
	}
	o.Tidx++
	return
}

// iterate solves the nonlinear problem of one time step ending at t
func (o *Implicit) iterate(ctx context.Context, t float64) (resids []float64, diverging bool, err error) {

	// auxiliary
	d, sys := o.Dom, o.Sys
	dubar := d.PrescribedIncrements(t)
	du := make([]float64, d.Neq)
	var largFb, largFb0, prevFb float64

	// message
	if o.Prms.ShowR {
		io.Pf("\n%13s%4s%23s\n", "t", "it", "largFb")
	}

	// iterations
	var it int
	for it = 0; it < o.Prms.NmaxIt; it++ {

		// residual; prescribed increments are applied in the first iteration only
		sys.Start()
		if it == 0 {
			sys.SetPrescribed(dubar)
		} else {
			sys.SetPrescribed(nil)
		}
		err = d.BuildResidual(ctx, sys)
		if err != nil {
			return
		}

		// check convergence
		if it > 0 {
			largFb = la.VecLargest(sys.Rhs(), 1)
			resids = append(resids, largFb)
			if o.Prms.ShowR {
				io.Pf("%13.6e%4d%23.15e\n", t, it, largFb)
			}
			if largFb < o.Prms.FbTol*largFb0 || largFb < o.Prms.FbMin {
				return
			}
			if it > 1 && o.Prms.DvgCtrl && largFb > prevFb {
				diverging = true
				return
			}
			prevFb = largFb
		}

		// tangent
		err = d.BuildTangent(ctx, sys)
		if err != nil {
			return
		}
		if it == 0 {
			largFb0 = la.VecLargest(sys.Rhs(), 1)
			resids = append(resids, largFb0)
			prevFb = largFb0
			if o.Prms.ShowR {
				io.Pf("%13.6e%4d%23.15e\n", t, it, largFb0)
			}
		}
		if o.DebugKb != nil {
			o.DebugKb(d, sys, it)
		}

		// solve for du
		la.VecFill(du, 0)
		if it > 0 || largFb0 >= o.Prms.FbMin {
			err = sys.Solve(du)
			if err != nil {
				return
			}
		}

		// update nodal values and states
		if it == 0 {
			err = d.CommitStateUpdate(ctx, du, dubar)
		} else {
			err = d.CommitStateUpdate(ctx, du, nil)
		}
		if err != nil {
			return
		}
		if it == 0 && largFb0 < o.Prms.FbMin {
			return
		}
	}

	// not converged
	if o.Prms.DvgCtrl {
		diverging = true
		return
	}
	err = chk.Err("max number of iterations reached: it = %d", it)
	return
}
