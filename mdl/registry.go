// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Registry maps names of constitutive models to allocators. A registry is passed explicitly to
// whatever needs to allocate models, e.g. the input reader and the restart reader
type Registry struct {
	Solids   map[string]func() Solid
	Perms    map[string]func() Permeability
	Diffs    map[string]func() Diffusivity
	Osmotics map[string]func() Osmotic
	Solubs   map[string]func() Solubility
	Supplies map[string]func() SolventSupply
	Reacts   map[string]func() Reaction
}

// NewRegistry returns a registry holding all models implemented in this package
func NewRegistry() (o *Registry) {
	o = &Registry{
		Solids:   make(map[string]func() Solid),
		Perms:    make(map[string]func() Permeability),
		Diffs:    make(map[string]func() Diffusivity),
		Osmotics: make(map[string]func() Osmotic),
		Solubs:   make(map[string]func() Solubility),
		Supplies: make(map[string]func() SolventSupply),
		Reacts:   make(map[string]func() Reaction),
	}
	o.Solids["neo-Hookean"] = func() Solid { return new(NeoHookean) }
	o.Solids["St.Venant-Kirchhoff"] = func() Solid { return new(StVenantKirchhoff) }
	o.Perms["perm-const-iso"] = func() Permeability { return new(PermConstIso) }
	o.Perms["perm-exp-iso"] = func() Permeability { return new(PermExpIso) }
	o.Diffs["diff-const-iso"] = func() Diffusivity { return new(DiffConstIso) }
	o.Diffs["diff-porosity"] = func() Diffusivity { return new(DiffPorosity) }
	o.Osmotics["osm-coef-const"] = func() Osmotic { return new(OsmCoefConst) }
	o.Osmotics["osm-coef-linear"] = func() Osmotic { return new(OsmCoefLinear) }
	o.Solubs["solub-const"] = func() Solubility { return new(SolubConst) }
	o.Supplies["starling"] = func() SolventSupply { return new(Starling) }
	o.Reacts["mass-action-forward"] = func() Reaction { return new(MassActionForward) }
	return
}

// Solid allocates a new solid model
func (o *Registry) Solid(name string) (Solid, error) {
	if f, ok := o.Solids[name]; ok {
		return f(), nil
	}
	return nil, &TypeLookupError{"solid", name}
}

// Perm allocates a new permeability model
func (o *Registry) Perm(name string) (Permeability, error) {
	if f, ok := o.Perms[name]; ok {
		return f(), nil
	}
	return nil, &TypeLookupError{"permeability", name}
}

// Diff allocates a new diffusivity model
func (o *Registry) Diff(name string) (Diffusivity, error) {
	if f, ok := o.Diffs[name]; ok {
		return f(), nil
	}
	return nil, &TypeLookupError{"diffusivity", name}
}

// Osmotic allocates a new osmotic coefficient model
func (o *Registry) Osmotic(name string) (Osmotic, error) {
	if f, ok := o.Osmotics[name]; ok {
		return f(), nil
	}
	return nil, &TypeLookupError{"osmotic coefficient", name}
}

// Solub allocates a new solubility model
func (o *Registry) Solub(name string) (Solubility, error) {
	if f, ok := o.Solubs[name]; ok {
		return f(), nil
	}
	return nil, &TypeLookupError{"solubility", name}
}

// Supply allocates a new solvent supply model
func (o *Registry) Supply(name string) (SolventSupply, error) {
	if f, ok := o.Supplies[name]; ok {
		return f(), nil
	}
	return nil, &TypeLookupError{"solvent supply", name}
}

// React allocates a new reaction model
func (o *Registry) React(name string) (Reaction, error) {
	if f, ok := o.Reacts[name]; ok {
		return f(), nil
	}
	return nil, &TypeLookupError{"reaction", name}
}

// Names returns the sorted names of all models of a kind
//  kind -- "solid", "perm", "diff", "osmotic", "solub", "supply" or "react"
func (o *Registry) Names(kind string) (names []string, err error) {
	switch kind {
	case "solid":
		names = mapKeys(o.Solids)
	case "perm":
		names = mapKeys(o.Perms)
	case "diff":
		names = mapKeys(o.Diffs)
	case "osmotic":
		names = mapKeys(o.Osmotics)
	case "solub":
		names = mapKeys(o.Solubs)
	case "supply":
		names = mapKeys(o.Supplies)
	case "react":
		names = mapKeys(o.Reacts)
	default:
		return nil, chk.Err("registry: kind %q is not available", kind)
	}
	sort.Strings(names)
	return
}

func mapKeys[T any](m map[string]T) (keys []string) {
	for k := range m {
		keys = append(keys, k)
	}
	return
}

// Has tells whether a model of any kind is registered under name
func (o *Registry) Has(name string) bool {
	_, s := o.Solids[name]
	_, p := o.Perms[name]
	_, d := o.Diffs[name]
	_, m := o.Osmotics[name]
	_, b := o.Solubs[name]
	_, u := o.Supplies[name]
	_, r := o.Reacts[name]
	return s || p || d || m || b || u || r
}
