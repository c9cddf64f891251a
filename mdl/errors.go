// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import "github.com/cpmech/gosl/io"

// MissingPropertyError reports a constitutive property required by the formulation that was not given
type MissingPropertyError struct {
	Material string // name of material
	Property string // e.g. "permeability"
}

func (o *MissingPropertyError) Error() string {
	return io.Sf("material %q: missing constitutive property %q", o.Material, o.Property)
}

// TypeLookupError reports a name that cannot be found in a registry
type TypeLookupError struct {
	Kind string // e.g. "solid", "domain"
	Name string // requested name
}

func (o *TypeLookupError) Error() string {
	return io.Sf("cannot find %s model named %q", o.Kind, o.Name)
}
