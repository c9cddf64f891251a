// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// degrees of freedom with fixed position in the node table
//  The concentrations C0..C(N-1) follow DOF_P and the back-face concentrations D0..D(N-1)
//  follow DOF_Q; see Layout
const (
	DOF_X    = 0  // displacement x
	DOF_Y    = 1  // displacement y
	DOF_Z    = 2  // displacement z
	DOF_P    = 3  // effective fluid pressure
	DOF_RU   = 4  // rigid rotation u
	DOF_RV   = 5  // rigid rotation v
	DOF_RW   = 6  // rigid rotation w
	DOF_U    = 7  // back-face displacement x
	DOF_V    = 8  // back-face displacement y
	DOF_W    = 9  // back-face displacement z
	DOF_Q    = 10 // back-face effective fluid pressure
	DOF_NFIX = 11 // number of fixed slots
)

// fixed keys
var dofKeys = []string{"ux", "uy", "uz", "p", "rx", "ry", "rz", "sx", "sy", "sz", "q"}

// Layout defines the degrees of freedom of every node for a given number of solutes
//
//  slots: X Y Z P RU RV RW U V W Q | C0 .. C(N-1) | D0 .. D(N-1)
//  keys:  ux uy uz p rx ry rz sx sy sz q | c0 .. | d0 ..
//
type Layout struct {
	Nsol int // number of solutes
}

// Ndof returns the number of slots per node
func (o Layout) Ndof() int { return DOF_NFIX + 2*o.Nsol }

// Ndpn returns the number of element unknowns per node: 3 displacements, pressure and concentrations
func (o Layout) Ndpn() int { return 4 + o.Nsol }

// C returns the slot of the concentration of solute k
func (o Layout) C(k int) int { return DOF_NFIX + k }

// D returns the slot of the back-face concentration of solute k
func (o Layout) D(k int) int { return DOF_NFIX + o.Nsol + k }

// Key returns the key of a slot; e.g. "uz" or "c1"
func (o Layout) Key(dof int) string {
	switch {
	case dof >= 0 && dof < DOF_NFIX:
		return dofKeys[dof]
	case dof >= DOF_NFIX && dof < DOF_NFIX+o.Nsol:
		return io.Sf("c%d", dof-DOF_NFIX)
	case dof >= DOF_NFIX+o.Nsol && dof < o.Ndof():
		return io.Sf("d%d", dof-DOF_NFIX-o.Nsol)
	}
	return "?"
}

// Index returns the slot corresponding to a key
func (o Layout) Index(key string) (dof int, err error) {
	for i, k := range dofKeys {
		if k == key {
			return i, nil
		}
	}
	if len(key) > 1 && (key[0] == 'c' || key[0] == 'd') {
		k, e := strconv.Atoi(key[1:])
		if e == nil && k >= 0 && k < o.Nsol {
			if key[0] == 'c' {
				return o.C(k), nil
			}
			return o.D(k), nil
		}
	}
	return -1, chk.Err("cannot find degree of freedom with key %q. valid keys are %s and c0..c%d, d0..d%d", key, strings.Join(dofKeys, ","), o.Nsol-1, o.Nsol-1)
}
