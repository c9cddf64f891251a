// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"
)

func Test_keys01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("keys01. layout")

	lay := Layout{Nsol: 2}
	chk.IntAssert(lay.Ndof(), 15)
	chk.IntAssert(lay.Ndpn(), 6)
	chk.IntAssert(lay.C(1), 12)
	chk.IntAssert(lay.D(0), 13)

	// keys and slots
	for dof := 0; dof < lay.Ndof(); dof++ {
		key := lay.Key(dof)
		idx, err := lay.Index(key)
		require.NoError(tst, err)
		require.Equal(tst, dof, idx, "key %q", key)
	}
	require.Equal(tst, "uz", lay.Key(DOF_Z))
	require.Equal(tst, "q", lay.Key(DOF_Q))
	require.Equal(tst, "c1", lay.Key(lay.C(1)))
	require.Equal(tst, "d0", lay.Key(lay.D(0)))
	require.Equal(tst, "?", lay.Key(15))

	// errors
	for _, key := range []string{"c2", "d-1", "cx", "w", ""} {
		_, err := lay.Index(key)
		require.Error(tst, err, "key %q", key)
	}

	// biphasic
	lay = Layout{}
	chk.IntAssert(lay.Ndof(), DOF_NFIX)
	chk.IntAssert(lay.Ndpn(), 4)
	_, err := lay.Index("c0")
	require.Error(tst, err)
}
