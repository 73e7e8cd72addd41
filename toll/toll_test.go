// SPDX-License-Identifier: MIT
package toll_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/routechoice/toll"
)

func TestMarginalCostToll(t *testing.T) {
	require.Equal(t, 6.0, toll.MarginalCostToll(16, 10))
	require.Zero(t, toll.MarginalCostToll(10, 10))
}

func TestIndifferenceToll(t *testing.T) {
	// At the neutral preference the toll reduces to 2m + t.
	for _, tc := range []struct{ m, tt float64 }{{0, 10}, {6, 16}, {2.5, 40}} {
		require.InDelta(t, 2*tc.m+tc.tt, toll.IndifferenceToll(tc.m, tc.tt, toll.NeutralPreference), 1e-12)
	}
	require.InDelta(t, 16+6/0.8, toll.IndifferenceToll(6, 16, 0.8), 1e-12)
	require.Zero(t, toll.IndifferenceToll(6, 16, 0))
}

func TestSidePayment(t *testing.T) {
	require.Equal(t, 2.5, toll.SidePayment(500, 0.5, 100))
	require.Zero(t, toll.SidePayment(500, 0.5, 0))
	require.Zero(t, toll.SidePayment(500, 0, 100))
}

func TestPreferenceWeight(t *testing.T) {
	require.Equal(t, 1.0, toll.PreferenceWeight(0.5))
	require.Zero(t, toll.PreferenceWeight(1))
	require.InDelta(t, 3.0, toll.PreferenceWeight(0.25), 1e-12)
	require.True(t, math.IsInf(toll.PreferenceWeight(0), 1))
}
