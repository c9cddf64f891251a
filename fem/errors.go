// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"

	"github.com/cpmech/gosl/io"
)

// ErrRunningRestart indicates that the state update failed for at least one element and that the
// driver must restore the state of the beginning of the step and retry with a smaller step
var ErrRunningRestart = errors.New("running restart requested")

// DegenerateElementError reports a non-positive Jacobian, or a Jacobian not greater than the
// solid volume fraction (no room left for the fluid), at an integration point
type DegenerateElementError struct {
	Eid  int     // id of element (cell)
	Ip   int     // index of integration point
	J    float64 // offending determinant
	Phi0 float64 // solid volume fraction when J ≤ φ0; zero when J ≤ 0
}

func (o *DegenerateElementError) Error() string {
	if o.Phi0 > 0 && o.J > 0 {
		return io.Sf("non-positive porosity detected at integration point %d of element %d: J = %g ≤ φ0 = %g", o.Ip, o.Eid, o.J, o.Phi0)
	}
	return io.Sf("non-positive jacobian detected at integration point %d of element %d: J = %g", o.Ip, o.Eid, o.J)
}

// Is makes errors.Is(err, ErrRunningRestart) true for degenerate elements
func (o *DegenerateElementError) Is(target error) bool { return target == ErrRunningRestart }

// MalformedDofMapError reports an interface node whose back-face degrees of freedom do not exist
type MalformedDofMapError struct {
	Eid  int // id of element (cell)
	Vid  int // id of vertex
	Slot int // missing slot
}

func (o *MalformedDofMapError) Error() string {
	return io.Sf("element %d: interface vertex %d has no back-face degree of freedom %d", o.Eid, o.Vid, o.Slot)
}

// VersionMismatchError reports a restart file written with another format version
type VersionMismatchError struct {
	Have int // version found in file
	Want int // version of this code
}

func (o *VersionMismatchError) Error() string {
	return io.Sf("restart version mismatch: file has %d but %d is required", o.Have, o.Want)
}
