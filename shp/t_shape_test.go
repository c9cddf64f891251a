// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"errors"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// unit cell coordinates [ndim][nverts] for each shape: the natural coordinates mapped by x = (r+1)/2
// for hexahedra/wedge heights, and x = r for simplices
func unitCell(shape *Shape) (x [][]float64) {
	x = make([][]float64, 3)
	for i := 0; i < 3; i++ {
		x[i] = make([]float64, shape.Nverts)
		for n := 0; n < shape.Nverts; n++ {
			v := shape.NatCoords[i][n]
			if shape.Type == "hex8" || shape.Type == "hex20" || (shape.Type == "penta6" && i == 2) {
				v = (v + 1.0) / 2.0
			}
			x[i][n] = v
		}
	}
	return
}

func Test_shape01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape01")

	r := []float64{0.1, 0.2, 0.15}

	verb := chk.Verbose
	for name, shape := range factory {

		io.Pfyel("--------------------------------- %-6s---------------------------------\n", name)

		// check S
		CheckShape(tst, shape, 1e-15, verb)

		// partition of unity
		CheckPartition(tst, shape, r, 1e-14)

		// check dSdR
		CheckDSdR(tst, shape, r, 1e-10, verb)

		io.PfGreen("OK\n")
	}
}

func Test_shape02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape02")

	volumes := map[string]float64{
		"hex8":   1.0,
		"hex20":  1.0,
		"tet4":   1.0 / 6.0,
		"tet10":  1.0 / 6.0,
		"penta6": 0.5,
	}
	for name, vol := range volumes {
		shape := Get(name, 1)
		if shape == nil {
			tst.Errorf("cannot get shape %q\n", name)
			return
		}
		ips, err := GetIps(name, 0)
		if err != nil {
			tst.Errorf("GetIps failed:\n%v", err)
			return
		}
		v, err := shape.Volume(unitCell(shape), ips)
		if err != nil {
			tst.Errorf("Volume failed:\n%v", err)
			return
		}
		io.Pforan("%6s: vol = %v\n", name, v)
		chk.Scalar(tst, name+": volume", 1e-14, v, vol)
	}

	// alternative rules
	for _, key := range []struct {
		geo string
		nip int
	}{{"hex8", 27}, {"tet4", 1}, {"hex20", 8}} {
		ips, err := GetIps(key.geo, key.nip)
		if err != nil {
			tst.Errorf("GetIps failed:\n%v", err)
			return
		}
		chk.IntAssert(len(ips), key.nip)
	}
	if _, err := GetIps("hex8", 5); err == nil {
		tst.Errorf("GetIps should have failed with nip=5\n")
	}
}

func Test_shape03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape03")

	// distorted hexahedron
	xmat := [][]float64{
		{10, 13, 13.5, 10, 10.2, 13, 13, 10},
		{8, 8, 9, 9, 8, 8.1, 9, 9},
		{0, 0, 0, 0.1, 1, 1, 1.2, 1},
	}
	shape := Get("hex8", 1)
	err := shape.CalcAtIp(xmat, Ipoint{0, 0, 0, 1}, true)
	if err != nil {
		tst.Errorf("CalcAtIp failed:\n%v", err)
		return
	}
	io.Pforan("J = %v\n", shape.J)
	if shape.J <= 0 {
		tst.Errorf("J must be positive\n")
		return
	}
	CheckDSdx(tst, shape, xmat, []float64{11.5, 8.5, 0.5}, 1e-6, chk.Verbose)

	// inverted element: swap bottom and top faces
	inv := [][]float64{
		append(append([]float64{}, xmat[0][4:]...), xmat[0][:4]...),
		append(append([]float64{}, xmat[1][4:]...), xmat[1][:4]...),
		append(append([]float64{}, xmat[2][4:]...), xmat[2][:4]...),
	}
	err = shape.CalcAtIp(inv, Ipoint{0, 0, 0, 1}, true)
	var derr *DetError
	if !errors.As(err, &derr) {
		tst.Errorf("CalcAtIp should have failed with DetError. err = %v\n", err)
		return
	}
	io.Pforan("err = %v\n", err)
	if derr.Det >= 0 {
		tst.Errorf("determinant of inverted element should be negative: %v\n", derr.Det)
	}
}

func Test_shape04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("shape04. inverse map and points inside cells")

	r := make([]float64, 3)
	for _, name := range []string{"hex8", "hex20", "tet4", "tet10", "penta6"} {
		shape := Get(name, 1)
		x := unitCell(shape)

		// centroid of vertices
		y := make([]float64, 3)
		for i := 0; i < 3; i++ {
			for n := 0; n < shape.Nverts; n++ {
				y[i] += x[i][n] / float64(shape.Nverts)
			}
		}
		err := shape.InvMap(r, y, x)
		if err != nil {
			tst.Errorf("%s: InvMap failed:\n%v", name, err)
			return
		}
		io.Pforan("%s: r(centroid) = %v\n", name, r)
		if !shape.IsInside(r, 1e-10) {
			tst.Errorf("%s: centroid must be inside\n", name)
		}

		// outside
		err = shape.InvMap(r, []float64{2, 2, 2}, x)
		if err != nil {
			tst.Errorf("%s: InvMap failed:\n%v", name, err)
			return
		}
		if shape.IsInside(r, 1e-10) {
			tst.Errorf("%s: point {2,2,2} must be outside. r = %v\n", name, r)
		}
	}
}
