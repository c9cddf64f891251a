// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/luzpaz/FEBio/mdl"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

// cubeDomain returns the domain of the cube after one (non-converged) update at t = 0.4
func cubeDomain(tst *testing.T, perturb bool) (dom *Domain) {
	sim := cubeSim(tst)
	dom, err := NewDomain(sim, NewRegistry(), nil)
	require.NoError(tst, err)
	require.NoError(tst, dom.SetStage(0))
	if !perturb {
		return
	}
	dom.T, dom.Dt = 0.3, 0.1
	dom.PreSolveUpdate()
	du := make([]float64, dom.Neq)
	for i := range du {
		du[i] = 1e-3 * float64(i%5-2)
	}
	require.NoError(tst, dom.CommitStateUpdate(context.Background(), du, dom.PrescribedIncrements(dom.T+dom.Dt)))
	return
}

func Test_fileio01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio01. restart round trip")

	for _, enctype := range []string{"gob", "json"} {

		// write
		domA := cubeDomain(tst, true)
		var buf bytes.Buffer
		require.NoError(tst, domA.WriteRestart(&buf, enctype))
		io.Pforan("%s: %d bytes\n", enctype, buf.Len())

		// read
		domB := cubeDomain(tst, false)
		require.NoError(tst, domB.ReadRestart(&buf, enctype))

		// time and prescribed values
		chk.Scalar(tst, "T", 1e-17, domB.T, domA.T)
		chk.Scalar(tst, "Dt", 1e-17, domB.Dt, domA.Dt)
		require.Len(tst, domB.Presc, len(domA.Presc))
		chk.Vector(tst, "ū(0.7)", 1e-17, domB.PrescribedIncrements(0.7), domA.PrescribedIncrements(0.7))

		// nodes
		for i, n := range domB.Nodes {
			require.Equal(tst, domA.Nodes[i].Val, n.Val)
			require.Equal(tst, domA.Nodes[i].Valp, n.Valp)
			require.Equal(tst, domA.Nodes[i].Vel, n.Vel)
		}

		// states and residuals
		elemsA, elemsB := domA.Elems(), domB.Elems()
		for i, e := range elemsB {
			a, b := elemsA[i].(*ElemMph), e.(*ElemMph)
			for idx := range b.States {
				require.Equal(tst, a.States[idx], b.States[idx])
			}
			feA := make([]float64, a.Nlm())
			feB := make([]float64, b.Nlm())
			require.NoError(tst, a.Residual(feA, domA.Dt))
			require.NoError(tst, b.Residual(feB, domB.Dt))
			require.Equal(tst, feA, feB)
		}
	}
}

func Test_fileio02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio02. restart errors")

	domA := cubeDomain(tst, true)
	write := func(enctype string) *bytes.Buffer {
		var buf bytes.Buffer
		require.NoError(tst, domA.WriteRestart(&buf, enctype))
		return &buf
	}

	// version
	var buf bytes.Buffer
	require.NoError(tst, GetEncoder(&buf, "gob").Encode(RESTART_VERSION+98))
	err := cubeDomain(tst, false).ReadRestart(&buf, "gob")
	var vme *VersionMismatchError
	require.True(tst, errors.As(err, &vme))
	require.Equal(tst, 99, vme.Have)
	require.Equal(tst, RESTART_VERSION, vme.Want)
	io.Pforan("err = %v\n", err)

	// unknown domain type
	domB := cubeDomain(tst, false)
	delete(domB.Reg.Domains, "multiphasic")
	err = domB.ReadRestart(write("json"), "json")
	var tle *mdl.TypeLookupError
	require.True(tst, errors.As(err, &tle))
	require.Equal(tst, "domain", tle.Kind)
	require.Equal(tst, "multiphasic", tle.Name)

	// unknown constitutive model
	domB = cubeDomain(tst, false)
	delete(domB.Reg.Mats.Solids, "neo-Hookean")
	err = domB.ReadRestart(write("gob"), "gob")
	require.True(tst, errors.As(err, &tle))
	require.Equal(tst, "constitutive", tle.Kind)
	require.Equal(tst, "neo-Hookean", tle.Name)
	io.Pforan("err = %v\n", err)

	// other constants
	domB = cubeDomain(tst, false)
	domB.Sim.Constants.Tabs = 310
	require.Error(tst, domB.ReadRestart(write("gob"), "gob"))

	// other boundary conditions
	domB = cubeDomain(tst, false)
	domB.Sim.Stages[0].NodeBcs = domB.Sim.Stages[0].NodeBcs[:2]
	require.NoError(tst, domB.SetStage(0))
	require.Error(tst, domB.ReadRestart(write("gob"), "gob"))

	// truncated file
	b := write("gob").Bytes()
	require.Error(tst, cubeDomain(tst, false).ReadRestart(bytes.NewReader(b[:len(b)/2]), "gob"))
}

func Test_fileio03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fileio03. edited json snapshot")

	var buf bytes.Buffer
	require.NoError(tst, cubeDomain(tst, true).WriteRestart(&buf, "json"))
	original := buf.String()

	// replaces the first match of a field's array by an empty array
	edit := func(field string) string {
		re := regexp.MustCompile(`"` + field + `":\[[^\]]*\]`)
		loc := re.FindStringIndex(original)
		require.NotNil(tst, loc, field)
		return original[:loc[0]] + `"` + field + `":[]` + original[loc[1]:]
	}

	for _, field := range []string{"Active", "Eq", "Val", "PrmVals"} {
		dom := cubeDomain(tst, false)
		var err error
		require.NotPanics(tst, func() {
			err = dom.ReadRestart(bytes.NewBufferString(edit(field)), "json")
		}, field)
		require.Error(tst, err, field)
		io.Pforan("%s: err = %v\n", field, err)
	}

	// unedited
	require.NoError(tst, cubeDomain(tst, false).ReadRestart(bytes.NewBufferString(original), "json"))
}
