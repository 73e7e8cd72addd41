// SPDX-License-Identifier: MIT
// Package routing_test shows free-flow shortest paths and K-shortest route
// enumeration on a tiny road graph.
package routing_test

import (
	"fmt"

	"github.com/katalvlaran/routechoice/core"
	"github.com/katalvlaran/routechoice/costfn"
	"github.com/katalvlaran/routechoice/routing"
)

// triangle: A→B (1), B→C (2), A→C (5).
func triangle() *core.Graph {
	g := core.NewGraph()
	fn := costfn.Spec{Kind: costfn.KindConstant}
	_, _ = g.AddLink("ab", "A", "B", 1, 0, fn)
	_, _ = g.AddLink("bc", "B", "C", 2, 0, fn)
	_, _ = g.AddLink("ac", "A", "C", 5, 0, fn)
	return g
}

// ExampleShortestFreeFlow computes free-flow distances from A and rebuilds
// the path to C from the predecessor links.
func ExampleShortestFreeFlow() {
	g := triangle()
	dist, prev, err := routing.ShortestFreeFlow(g, routing.Source("A"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	p, _ := routing.PathTo(g, prev, "A", "C")
	fmt.Printf("dist[C]=%g via %v\n", dist["C"], p.Links)
	// Output: dist[C]=3 via [ab bc]
}

// ExampleKShortest lists the two loopless A→C routes in free-flow order.
func ExampleKShortest() {
	paths, err := routing.KShortest(triangle(), "A", "C", 3)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for i, p := range paths {
		fmt.Printf("%d: %v %g\n", i, p.Nodes, p.FreeFlowTime)
	}
	// Output:
	// 0: [A B C] 3
	// 1: [A C] 5
}
