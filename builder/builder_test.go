// SPDX-License-Identifier: MIT
// Package builder_test checks topology, demand and route layout of every
// benchmark constructor.
package builder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/routechoice/builder"
	"github.com/katalvlaran/routechoice/network"
)

func TestBuilders_Functional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		ctor      builder.Constructor
		wantLinks int
		od        string
		wantK     int
		check     func(t *testing.T, n *network.Network)
	}{
		{
			name: "TwoRoute", ctor: builder.TwoRoute(100, 10, 15, 0.1),
			wantLinks: 2, od: "O|D", wantK: 2,
			check: func(t *testing.T, n *network.Network) {
				r, err := n.Route("O|D", 1)
				require.NoError(t, err)
				require.Equal(t, 15.0, r.FreeFlowTime(false))
			},
		},
		{
			name: "Braess", ctor: builder.Braess(4000),
			wantLinks: 5, od: "s|t", wantK: 3,
			check: func(t *testing.T, n *network.Network) {
				r, err := n.Route("s|t", 2)
				require.NoError(t, err)
				require.Equal(t, []string{"sv", "vw", "wt"}, r.LinkIDs())
				require.Equal(t, 45.0, n.Scale())
			},
		},
		{
			name: "Pigou", ctor: builder.Pigou(10),
			wantLinks: 2, od: "s|t", wantK: 2,
			check: func(t *testing.T, n *network.Network) {
				m := n.EmptyFlowMatrix()
				require.NoError(t, m.Set(0, 1, 10))
				avg, _, err := n.EvaluateAssignment(m, nil)
				require.NoError(t, err)
				require.InDelta(t, 1.0, avg, 1e-12, "everyone on the bottom road pays 1")
			},
		},
		{
			name: "Grid(3,3)", ctor: builder.Grid(3, 3, 100),
			wantLinks: 24, od: "0,0|2,2", wantK: 3,
			check: func(t *testing.T, n *network.Network) {
				routes, err := n.Routes("0,0|2,2")
				require.NoError(t, err)
				for _, r := range routes {
					require.Equal(t, 4.0, r.FreeFlowTime(false), "all shortest grid routes have 4 hops")
				}
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			n, err := builder.BuildNetwork(nil, tc.ctor)
			require.NoError(t, err)
			require.Len(t, n.Links(), tc.wantLinks)
			require.Equal(t, tc.wantK, n.RouteSetSize(tc.od))
			tc.check(t, n)
		})
	}
}

func TestBuilders_Validation(t *testing.T) {
	_, err := builder.BuildNetwork(nil, builder.TwoRoute(0, 1, 1, 1))
	require.ErrorIs(t, err, builder.ErrInvalidDemand)
	_, err = builder.BuildNetwork(nil, builder.TwoRoute(1, -1, 1, 1))
	require.ErrorIs(t, err, builder.ErrInvalidParameter)
	_, err = builder.BuildNetwork(nil, builder.Grid(1, 5, 10))
	require.ErrorIs(t, err, builder.ErrInvalidParameter)
	_, err = builder.BuildNetwork(nil, nil)
	require.ErrorIs(t, err, builder.ErrConstructFailed)
	_, err = builder.BuildNetwork(nil)
	require.ErrorIs(t, err, builder.ErrConstructFailed)
	_, err = builder.BuildNetwork(nil, builder.Braess(1), builder.Braess(1))
	require.Error(t, err, "duplicate link IDs")

	require.Panics(t, func() { builder.WithRoutesPerOD(0) })
	require.Panics(t, func() { builder.WithDemandScale(0) })
}

func TestBuilders_Options(t *testing.T) {
	n, err := builder.BuildNetwork(
		[]builder.BuilderOption{builder.WithRoutesPerOD(5), builder.WithDemandScale(0.5)},
		builder.Grid(3, 3, 100),
	)
	require.NoError(t, err)
	require.Equal(t, 5, n.RouteSetSize("0,0|2,2"))
	require.Equal(t, 50.0, n.TotalDemand())
}

func TestByName(t *testing.T) {
	for _, name := range []string{"two-route", "Braess", " pigou ", "grid"} {
		n, err := builder.ByName(name)
		require.NoError(t, err, name)
		require.Equal(t, builder.DefaultDemand, n.TotalDemand())
	}
	_, err := builder.ByName("sioux-falls")
	require.ErrorIs(t, err, builder.ErrUnknownNetwork)
}
