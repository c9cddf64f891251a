// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// ipsfactory holds integration rules; key = "kind_nip"
var ipsfactory = make(map[string][]Ipoint)

// GetIps returns the integration points of a shape
//  nip -- number of integration points; 0 => use default
func GetIps(geoType string, nip int) (ips []Ipoint, err error) {
	s, ok := factory[geoType]
	if !ok {
		return nil, chk.Err("cannot find shape %q", geoType)
	}
	key := s.IpsKey
	if nip > 0 {
		kind, _, _ := strings.Cut(s.IpsKey, "_")
		key = io.Sf("%s_%d", kind, nip)
	}
	ips, ok = ipsfactory[key]
	if !ok {
		return nil, chk.Err("cannot find integration rule %q for shape %q", key, geoType)
	}
	return
}

// register integration rules
func init() {

	// hexahedra: tensor products of Gauss-Legendre rules
	a := 1.0 / math.Sqrt(3.0)
	g2 := []float64{-a, a}
	w2 := []float64{1, 1}
	b := math.Sqrt(0.6)
	g3 := []float64{-b, 0, b}
	w3 := []float64{5.0 / 9.0, 8.0 / 9.0, 5.0 / 9.0}
	ipsfactory["hex_8"] = tensor3(g2, w2)
	ipsfactory["hex_27"] = tensor3(g3, w3)

	// tetrahedra
	ipsfactory["tet_1"] = []Ipoint{{0.25, 0.25, 0.25, 1.0 / 6.0}}
	ta, tb := 0.5854101966249685, 0.1381966011250105
	ipsfactory["tet_4"] = []Ipoint{
		{tb, tb, tb, 1.0 / 24.0},
		{ta, tb, tb, 1.0 / 24.0},
		{tb, ta, tb, 1.0 / 24.0},
		{tb, tb, ta, 1.0 / 24.0},
	}

	// wedges: 3-point triangle times 2-point line
	tri := [][]float64{{1.0 / 6.0, 1.0 / 6.0}, {2.0 / 3.0, 1.0 / 6.0}, {1.0 / 6.0, 2.0 / 3.0}}
	var wed []Ipoint
	for _, t := range g2 {
		for _, p := range tri {
			wed = append(wed, Ipoint{p[0], p[1], t, 1.0 / 6.0})
		}
	}
	ipsfactory["wed_6"] = wed
}

// tensor3 builds a 3D tensor-product rule
func tensor3(g, w []float64) (ips []Ipoint) {
	for k := range g {
		for j := range g {
			for i := range g {
				ips = append(ips, Ipoint{g[i], g[j], g[k], w[i] * w[j] * w[k]})
			}
		}
	}
	return
}
