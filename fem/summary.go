// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
)

// Summary records summary of outputs
type Summary struct {

	// main data
	OutTimes []float64   // [nOutTimes] output times
	Resids   [][]float64 // [nsteps][nit] largest absolute residual of each iteration of converged steps
	Steps    []float64   // [nsteps] accepted time steps
	Restarts int         // number of running restarts
	Dirout   string      // directory where results are stored
	Fnkey    string      // filename key of simulation
}

// Save saves summary to disc
func (o *Summary) Save(enctype string, verbose bool) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}
	return save_file(out_sum_path(o.Dirout, o.Fnkey, enctype), &buf, verbose)
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {
	fil, err := os.Open(out_sum_path(dir, fnkey, enctype))
	if err != nil {
		return nil, chk.Err("cannot open summary:\n%v", err)
	}
	defer fil.Close()
	o = new(Summary)
	dec := GetDecoder(fil, enctype)
	err = dec.Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	return
}
