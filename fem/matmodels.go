// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/luzpaz/FEBio/inp"
	"github.com/luzpaz/FEBio/mdl"

	"github.com/cpmech/gosl/chk"
)

// GetMixture allocates and initialises the multiphasic material described by matdata
//  Note: models are allocated from reg; unknown names are returned as *mdl.TypeLookupError
func GetMixture(reg *mdl.Registry, matdata *inp.MaterialData, c inp.Constants) (mix *mdl.Mixture, err error) {

	// new material
	mix = &mdl.Mixture{
		Name:    matdata.Name,
		Phi0:    matdata.Phi0,
		CF0:     matdata.CF0,
		Penalty: matdata.Penalty,
		Rgas:    c.Rgas,
		Tabs:    c.Tabs,
		Fc:      c.Fc,
	}
	nsol, nsbm := len(matdata.Solutes), len(matdata.SBMs)

	// solid skeleton
	if matdata.Solid != nil {
		mix.Solid, err = reg.Solid(matdata.Solid.Type)
		if err != nil {
			return nil, err
		}
		err = mix.Solid.Init(matdata.Solid.Prms)
		if err != nil {
			return nil, chk.Err("material %q: cannot initialise solid model:\n%v", matdata.Name, err)
		}
	}

	// permeability
	if matdata.Perm != nil {
		mix.Perm, err = reg.Perm(matdata.Perm.Type)
		if err != nil {
			return nil, err
		}
		err = mix.Perm.Init(matdata.Perm.Prms)
		if err != nil {
			return nil, chk.Err("material %q: cannot initialise permeability model:\n%v", matdata.Name, err)
		}
	}

	// osmotic coefficient
	if matdata.Osmc != nil {
		mix.Osmc, err = reg.Osmotic(matdata.Osmc.Type)
		if err != nil {
			return nil, err
		}
		err = mix.Osmc.Init(matdata.Osmc.Prms)
		if err != nil {
			return nil, chk.Err("material %q: cannot initialise osmotic coefficient:\n%v", matdata.Name, err)
		}
	}

	// solvent supply
	if matdata.Supply != nil {
		mix.Supp, err = reg.Supply(matdata.Supply.Type)
		if err != nil {
			return nil, err
		}
		err = mix.Supp.Init(matdata.Supply.Prms, nsol)
		if err != nil {
			return nil, chk.Err("material %q: cannot initialise solvent supply:\n%v", matdata.Name, err)
		}
	}

	// solutes
	for _, sd := range matdata.Solutes {
		sol := &mdl.Solute{Name: sd.Name, Z: sd.Z, M: sd.M}
		if sd.Diff != nil {
			sol.Diff, err = reg.Diff(sd.Diff.Type)
			if err != nil {
				return nil, err
			}
			err = sol.Diff.Init(sd.Diff.Prms)
			if err != nil {
				return nil, chk.Err("material %q: cannot initialise diffusivity of %q:\n%v", matdata.Name, sd.Name, err)
			}
		}
		if sd.Solub != nil {
			sol.Solub, err = reg.Solub(sd.Solub.Type)
			if err != nil {
				return nil, err
			}
			err = sol.Solub.Init(sd.Solub.Prms)
			if err != nil {
				return nil, chk.Err("material %q: cannot initialise solubility of %q:\n%v", matdata.Name, sd.Name, err)
			}
		}
		mix.Solutes = append(mix.Solutes, sol)
	}

	// solid-bound molecules
	for _, sd := range matdata.SBMs {
		mix.SBMs = append(mix.SBMs, &mdl.SBM{
			Name:   sd.Name,
			Z:      sd.Z,
			M:      sd.M,
			RhoT:   sd.RhoT,
			Rho0:   sd.Rho0,
			RhoMin: sd.RhoMin,
			RhoMax: sd.RhoMax,
		})
	}

	// reactions
	for i, rd := range matdata.Reacts {
		r, e := reg.React(rd.Type)
		if e != nil {
			return nil, e
		}
		err = r.Init(rd.Prms, nsol, nsbm)
		if err != nil {
			return nil, chk.Err("material %q: cannot initialise reaction %d:\n%v", matdata.Name, i, err)
		}
		mix.Reacts = append(mix.Reacts, r)
	}

	// check and compute derived data
	err = mix.Init()
	if err != nil {
		return nil, err
	}
	return
}

// ModelNames returns the names of all models of a material in a fixed order:
// solid, permeability, osmotic coefficient, supply, {diffusivity, solubility} of each solute and reactions.
// Missing models are recorded as empty strings
func ModelNames(matdata *inp.MaterialData) (names []string) {
	name := func(m *inp.ModelData) string {
		if m == nil {
			return ""
		}
		return m.Type
	}
	names = append(names, name(matdata.Solid), name(matdata.Perm), name(matdata.Osmc), name(matdata.Supply))
	for _, sd := range matdata.Solutes {
		names = append(names, name(sd.Diff), name(sd.Solub))
	}
	for _, rd := range matdata.Reacts {
		names = append(names, name(rd))
	}
	return
}
