// SPDX-License-Identifier: MIT
package network_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/routechoice/core"
	"github.com/katalvlaran/routechoice/costfn"
	"github.com/katalvlaran/routechoice/network"
)

const od = "O|D"

// twoRoute builds O→D over two parallel linear links.
func twoRoute(t *testing.T, demand float64, fast, slow costfn.Spec, ffFast, ffSlow, capacity float64) *network.Network {
	t.Helper()
	g := core.NewGraph(core.WithMultiLinks())
	_, err := g.AddLink("fast", "O", "D", ffFast, capacity, fast)
	require.NoError(t, err)
	_, err = g.AddLink("slow", "O", "D", ffSlow, capacity, slow)
	require.NoError(t, err)
	n, err := network.New(g, []network.Demand{{Origin: "O", Destination: "D", Flow: demand}},
		network.WithRouteSets(map[string][][]string{od: {{"fast"}, {"slow"}}}))
	require.NoError(t, err)
	return n
}

type EvaluateSuite struct {
	suite.Suite
	net *network.Network
}

func (s *EvaluateSuite) SetupTest() {
	s.net = twoRoute(s.T(), 100,
		costfn.Spec{Kind: costfn.KindLinear, Alpha: 0.1},
		costfn.Spec{Kind: costfn.KindLinear, Alpha: 0.05},
		10, 15, 0)
}

func (s *EvaluateSuite) assign(fast, slow float64) *network.FlowMatrix {
	m := s.net.EmptyFlowMatrix()
	require.NoError(s.T(), m.Set(0, 0, fast))
	require.NoError(s.T(), m.Set(0, 1, slow))
	return m
}

func (s *EvaluateSuite) TestAverages() {
	r := require.New(s.T())
	avg, norm, err := s.net.EvaluateAssignment(s.assign(60, 40), nil)
	r.NoError(err)
	r.InDelta(16.4, avg, 1e-9)
	r.InDelta(16.4/15, norm, 1e-9)
	r.Equal(15.0, s.net.Scale())

	fast, err := s.net.Route(od, 0)
	r.NoError(err)
	slow, err := s.net.Route(od, 1)
	r.NoError(err)
	r.InDelta(16.0, fast.Cost(false), 1e-9)
	r.InDelta(17.0, slow.Cost(false), 1e-9)
	r.InDelta(17.0/15, slow.Cost(true), 1e-9)
	r.InDelta(6.0, fast.MarginalCost(false), 1e-9)
	r.InDelta(2.0, slow.MarginalCost(false), 1e-9)
	r.Equal(10.0, fast.FreeFlowTime(false))
	r.InDelta(1.0, slow.FreeFlowTime(true), 1e-12)
}

func (s *EvaluateSuite) TestZeroFlowRouteStillCosted() {
	r := require.New(s.T())
	_, _, err := s.net.EvaluateAssignment(s.assign(100, 0), nil)
	r.NoError(err)
	slow, _ := s.net.Route(od, 1)
	r.Equal(15.0, slow.Cost(false))
	l, ok := s.net.Link("slow")
	r.True(ok)
	r.Zero(l.Flow())
}

func (s *EvaluateSuite) TestWeightedFlowDrivesMarginalOnly() {
	r := require.New(s.T())
	w := s.assign(30, 0) // half the fast volume is weighted
	_, _, err := s.net.EvaluateAssignment(s.assign(60, 40), w)
	r.NoError(err)
	fast, _ := s.net.Route(od, 0)
	r.InDelta(16.0, fast.Cost(false), 1e-9)
	r.InDelta(3.0, fast.MarginalCost(false), 1e-9)
}

func (s *EvaluateSuite) TestDeterministic() {
	r := require.New(s.T())
	m := s.assign(37.5, 62.5)
	a1, n1, err := s.net.EvaluateAssignment(m, nil)
	r.NoError(err)
	s.net.Reset()
	a2, n2, err := s.net.EvaluateAssignment(m.Clone(), nil)
	r.NoError(err)
	r.Equal(a1, a2)
	r.Equal(n1, n2)
}

func (s *EvaluateSuite) TestReset() {
	r := require.New(s.T())
	_, _, err := s.net.EvaluateAssignment(s.assign(60, 40), nil)
	r.NoError(err)
	s.net.Reset()
	s.net.Reset()
	for _, l := range s.net.Links() {
		r.Zero(l.Flow())
		r.Equal(l.FreeFlowTime(), l.Cost())
	}
}

func (s *EvaluateSuite) TestShapeMismatch() {
	r := require.New(s.T())
	bad, err := network.NewFlowMatrix([]int{3})
	r.NoError(err)
	_, _, err = s.net.EvaluateAssignment(bad, nil)
	r.ErrorIs(err, network.ErrShapeMismatch)
	_, _, err = s.net.EvaluateAssignment(nil, nil)
	r.ErrorIs(err, network.ErrShapeMismatch)
	_, _, err = s.net.EvaluateAssignment(s.net.EmptyFlowMatrix(), bad)
	r.ErrorIs(err, network.ErrShapeMismatch)
}

func TestEvaluateSuite(t *testing.T) {
	suite.Run(t, new(EvaluateSuite))
}

// A convex congestion function makes concentrating all demand on one route
// strictly worse than splitting it.
func TestEvaluate_ConvexSplitBeatsConcentration(t *testing.T) {
	bpr := costfn.DefaultSpec()
	n := twoRoute(t, 4200, bpr, bpr, 10, 10, 2100)

	all := n.EmptyFlowMatrix()
	require.NoError(t, all.Set(0, 0, 4200))
	concentrated, _, err := n.EvaluateAssignment(all, nil)
	require.NoError(t, err)
	r0, _ := n.Route(od, 0)
	allCost := r0.Cost(false)

	split := n.EmptyFlowMatrix()
	require.NoError(t, split.Set(0, 0, 2100))
	require.NoError(t, split.Set(0, 1, 2100))
	balanced, _, err := n.EvaluateAssignment(split, nil)
	require.NoError(t, err)

	require.Greater(t, allCost, r0.Cost(false))
	require.Greater(t, concentrated, balanced)
	require.InDelta(t, 11.5, balanced, 1e-9)
}

func TestEvaluate_FlowConservation(t *testing.T) {
	n := twoRoute(t, 100, costfn.DefaultSpec(), costfn.DefaultSpec(), 10, 15, 50)
	m := n.EmptyFlowMatrix()
	for i := 0; i < 100; i++ {
		require.NoError(t, m.Add(0, i%2, 1))
	}
	require.Equal(t, n.Demand(od), m.RowSum(0))

	_, _, err := n.EvaluateAssignment(m, nil)
	require.NoError(t, err)
	var onLinks float64
	for _, l := range n.Links() {
		onLinks += l.Flow()
	}
	require.Equal(t, 100.0, onLinks)
}

func TestNew_Validation(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddLink("a", "O", "M", 1, 1, costfn.Spec{Kind: costfn.KindConstant})
	require.NoError(t, err)
	_, err = g.AddLink("b", "M", "D", 1, 1, costfn.Spec{Kind: costfn.KindConstant})
	require.NoError(t, err)
	dem := []network.Demand{{Origin: "O", Destination: "D", Flow: 10}}

	_, err = network.New(nil, dem)
	require.ErrorIs(t, err, network.ErrNilGraph)
	_, err = network.New(g, nil)
	require.ErrorIs(t, err, network.ErrNoDemand)
	_, err = network.New(g, []network.Demand{{Origin: "O", Destination: "D", Flow: -1}})
	require.ErrorIs(t, err, network.ErrBadDemand)
	_, err = network.New(g, append(dem, dem[0]))
	require.ErrorIs(t, err, network.ErrDuplicateOD)
	_, err = network.New(g, []network.Demand{{Origin: "D", Destination: "O", Flow: 1}})
	require.ErrorIs(t, err, network.ErrNoRoutes)
	_, err = network.New(g, dem, network.WithRouteSets(map[string][][]string{od: {{"b", "a"}}}))
	require.ErrorIs(t, err, network.ErrBrokenRoute)
	_, err = network.New(g, dem, network.WithRouteSets(map[string][][]string{od: {{"a"}}}))
	require.ErrorIs(t, err, network.ErrBrokenRoute)
	_, err = network.New(g, dem, network.WithRouteSets(map[string][][]string{od: {}}))
	require.ErrorIs(t, err, network.ErrNoRoutes)

	n, err := network.New(g, dem)
	require.NoError(t, err)
	require.Equal(t, 1, n.RouteSetSize(od))
	require.Equal(t, []string{"a", "b"}, must(n.Route(od, 0)).LinkIDs())
	_, err = n.Route(od, 1)
	require.ErrorIs(t, err, network.ErrRouteIndex)
	_, err = n.Routes("X|Y")
	require.ErrorIs(t, err, network.ErrUnknownOD)
	require.Zero(t, n.RouteSetSize("X|Y"))
}

func TestLoadFile(t *testing.T) {
	n, err := network.LoadFile(filepath.Join("testdata", "two_route.yaml"))
	require.NoError(t, err)
	require.Equal(t, []int{2}, n.Shape())
	require.Equal(t, 100.0, n.TotalDemand())

	b, err := network.LoadFile(filepath.Join("testdata", "braess.toml"), network.WithRoutesPerOD(3))
	require.NoError(t, err)
	routes, err := b.Routes("s|t")
	require.NoError(t, err)
	require.Len(t, routes, 3)
	require.Equal(t, []string{"sv", "vw", "wt"}, routes[0].LinkIDs())

	// Braess paradox: everyone on the bridge is slower than the bridge-free equilibrium.
	bridge := b.EmptyFlowMatrix()
	require.NoError(t, bridge.Set(0, 0, 4000))
	withBridge, _, err := b.EvaluateAssignment(bridge, nil)
	require.NoError(t, err)
	require.InDelta(t, 80.0, withBridge, 1e-9)

	split := b.EmptyFlowMatrix()
	require.NoError(t, split.Set(0, 1, 2000))
	require.NoError(t, split.Set(0, 2, 2000))
	without, _, err := b.EvaluateAssignment(split, nil)
	require.NoError(t, err)
	require.InDelta(t, 65.0, without, 1e-9)

	_, err = network.LoadFile(filepath.Join("testdata", "two_route.json"))
	require.Error(t, err)
	_, err = network.LoadFile(filepath.Join("testdata", "unknown.yaml"))
	require.Error(t, err)
}

func TestLoadFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")
	require.NoError(t, writeFile(path, "{}"))
	_, err := network.LoadFile(path)
	require.ErrorIs(t, err, network.ErrUnsupportedFormat)
}
