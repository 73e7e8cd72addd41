// SPDX-License-Identifier: MIT
package routing

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/routechoice/core"
)

// KShortest returns up to k loopless routes from origin to dest in order of
// increasing free-flow time (Yen's algorithm). Ties are broken by the link-ID
// sequence, so the result is deterministic for a given graph.
//
// Fewer than k paths are returned when the graph does not contain k distinct
// loopless routes. ErrNoPath is returned when dest is unreachable.
//
// Steps:
//  1. A[0] ← free-flow shortest path.
//  2. For each node i of the previous path (the spur node), remove the links
//     that previous paths sharing the same root use next, remove the root's
//     other nodes, and search spur → dest.
//  3. root + spur is a candidate; the cheapest unseen candidate becomes A[k].
//
// Complexity: O(k · V · (V + E) log V).
func KShortest(g *core.Graph, origin, dest string, k int) ([]Path, error) {
	// 1) Validate
	if k < 1 {
		return nil, fmt.Errorf("k=%d: %w", k, ErrBadK)
	}
	if g == nil {
		return nil, ErrNilGraph
	}
	first, err := shortestPath(g, origin, dest)
	if err != nil {
		return nil, err
	}

	accepted := []Path{first}
	seen := map[string]struct{}{first.key(): {}}
	var candidates []Path

	// 2) Deviation rounds
	for len(accepted) < k {
		last := accepted[len(accepted)-1]
		for i := 0; i < len(last.Links); i++ {
			spur := last.Nodes[i]
			root := last.Links[:i]

			var excludedLinks []string
			for _, p := range accepted {
				if len(p.Links) > i && equalPrefix(p.Links, root) {
					excludedLinks = append(excludedLinks, p.Links[i])
				}
			}
			excludedNodes := last.Nodes[:i]

			dist, prev, err := ShortestFreeFlow(g,
				Source(spur),
				WithTarget(dest),
				WithExcludedLinks(excludedLinks...),
				WithExcludedNodes(excludedNodes...),
			)
			if err != nil {
				return nil, err
			}
			if math.IsInf(dist[dest], 1) {
				continue
			}
			tail, err := PathTo(g, prev, spur, dest)
			if err != nil {
				return nil, err
			}
			cand, err := join(g, last, i, tail)
			if err != nil {
				return nil, err
			}
			if _, dup := seen[cand.key()]; dup {
				continue
			}
			seen[cand.key()] = struct{}{}
			candidates = append(candidates, cand)
		}

		// 3) Promote the cheapest candidate
		if len(candidates) == 0 {
			break
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			if candidates[a].FreeFlowTime == candidates[b].FreeFlowTime {
				return candidates[a].key() < candidates[b].key()
			}
			return candidates[a].FreeFlowTime < candidates[b].FreeFlowTime
		})
		accepted = append(accepted, candidates[0])
		candidates = candidates[1:]
	}

	return accepted, nil
}

// shortestPath is the single-route search between two nodes.
func shortestPath(g *core.Graph, origin, dest string) (Path, error) {
	if !g.HasNode(dest) {
		return Path{}, fmt.Errorf("target %q: %w", dest, ErrNodeNotFound)
	}
	dist, prev, err := ShortestFreeFlow(g, Source(origin), WithTarget(dest))
	if err != nil {
		return Path{}, err
	}
	if math.IsInf(dist[dest], 1) || origin == dest {
		return Path{}, fmt.Errorf("%s→%s: %w", origin, dest, ErrNoPath)
	}

	return PathTo(g, prev, origin, dest)
}

// join concatenates the first i links of base with tail.
func join(g *core.Graph, base Path, i int, tail Path) (Path, error) {
	links := make([]string, 0, i+len(tail.Links))
	links = append(links, base.Links[:i]...)
	links = append(links, tail.Links...)
	nodes := make([]string, 0, len(links)+1)
	nodes = append(nodes, base.Nodes[:i]...)
	nodes = append(nodes, tail.Nodes...)

	var total float64
	for _, id := range links {
		l, err := g.Link(id)
		if err != nil {
			return Path{}, err
		}
		total += l.FreeFlowTime
	}

	return Path{Links: links, Nodes: nodes, FreeFlowTime: total}, nil
}

func equalPrefix(links, root []string) bool {
	for j := range root {
		if links[j] != root[j] {
			return false
		}
	}
	return true
}
