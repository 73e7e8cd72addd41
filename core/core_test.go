// SPDX-License-Identifier: MIT
// Package core_test verifies core.Graph contracts: node/link lifecycle,
// constraint enforcement and deterministic ordering.
package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/routechoice/core"
	"github.com/katalvlaran/routechoice/costfn"
)

type GraphSuite struct {
	suite.Suite
	g *core.Graph
}

func (s *GraphSuite) SetupTest() {
	s.g = core.NewGraph(core.WithMultiLinks())
}

func (s *GraphSuite) TestAddNode() {
	r := require.New(s.T())
	r.ErrorIs(s.g.AddNode(""), core.ErrEmptyNodeID)
	r.NoError(s.g.AddNode("B"))
	r.NoError(s.g.AddNode("A"))
	r.NoError(s.g.AddNode("A")) // idempotent
	r.Equal([]string{"A", "B"}, s.g.Nodes())
	r.Equal(2, s.g.NodeCount())
	r.True(s.g.HasNode("A"))
	r.False(s.g.HasNode("Z"))
}

func (s *GraphSuite) TestAddLink_GeneratedAndExplicitIDs() {
	r := require.New(s.T())
	id1, err := s.g.AddLink("", "A", "B", 10, 100, costfn.DefaultSpec())
	r.NoError(err)
	r.Equal("l1", id1)

	id2, err := s.g.AddLink("bridge", "A", "B", 5, 100, costfn.Spec{Kind: costfn.KindConstant})
	r.NoError(err)
	r.Equal("bridge", id2)

	_, err = s.g.AddLink("bridge", "B", "C", 1, 1, costfn.DefaultSpec())
	r.ErrorIs(err, core.ErrDuplicateLink)

	l, err := s.g.Link("bridge")
	r.NoError(err)
	r.Equal("A", l.From)
	r.Equal(5.0, l.FreeFlowTime)

	_, err = s.g.Link("missing")
	r.ErrorIs(err, core.ErrLinkNotFound)

	r.True(s.g.HasLink("A", "B"))
	r.False(s.g.HasLink("B", "A"))
	r.Equal(2, s.g.LinkCount())
}

func (s *GraphSuite) TestAddLink_Validation() {
	r := require.New(s.T())
	_, err := s.g.AddLink("", "", "B", 1, 1, costfn.Spec{})
	r.ErrorIs(err, core.ErrEmptyNodeID)
	_, err = s.g.AddLink("", "A", "B", -1, 1, costfn.Spec{})
	r.ErrorIs(err, core.ErrBadFreeFlow)
	_, err = s.g.AddLink("", "A", "B", 1, -1, costfn.Spec{})
	r.ErrorIs(err, core.ErrBadCapacity)
	_, err = s.g.AddLink("", "A", "A", 1, 1, costfn.Spec{})
	r.ErrorIs(err, core.ErrLoopNotAllowed)

	simple := core.NewGraph()
	_, err = simple.AddLink("", "A", "B", 1, 1, costfn.Spec{})
	r.NoError(err)
	_, err = simple.AddLink("", "A", "B", 2, 1, costfn.Spec{})
	r.ErrorIs(err, core.ErrMultiLinkNotAllowed)
}

func (s *GraphSuite) TestOrdering() {
	r := require.New(s.T())
	for _, id := range []string{"z", "m", "a"} {
		_, err := s.g.AddLink(id, "O", "D", 1, 1, costfn.Spec{})
		r.NoError(err)
	}
	var got []string
	for _, l := range s.g.Links() {
		got = append(got, l.ID)
	}
	r.Equal([]string{"z", "m", "a"}, got, "Links keeps insertion order")

	out, err := s.g.OutLinks("O")
	r.NoError(err)
	r.Equal("a", out[0].ID)
	r.Equal("z", out[2].ID)

	_, err = s.g.OutLinks("nowhere")
	r.ErrorIs(err, core.ErrNodeNotFound)
}

func TestGraphSuite(t *testing.T) {
	suite.Run(t, new(GraphSuite))
}

func TestGraph_ConcurrentAddLink(t *testing.T) {
	g := core.NewGraph(core.WithMultiLinks())
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := g.AddLink("", fmt.Sprint(i%5), fmt.Sprint((i+1)%5), 1, 1, costfn.Spec{})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()
	require.Equal(t, 50, g.LinkCount())
	require.Equal(t, 5, g.NodeCount())
}
