// SPDX-License-Identifier: MIT
package routing

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/katalvlaran/routechoice/core"
)

// ShortestFreeFlow computes free-flow shortest distances from Options.Source
// to every reachable node of g.
//
// Returns:
//
//   - dist: node ID → minimum free-flow time (+Inf if unreachable).
//   - prev: node ID → ID of the link used to enter that node on the shortest
//     path ("" for the source and unreachable nodes). Links, not nodes, are
//     recorded because parallel links are legal.
//
// Preconditions and validation (in order):
//  1. Source must be non-empty (ErrEmptySource).
//  2. g must be non-nil (ErrNilGraph).
//  3. g must contain Source, and Target when set (ErrNodeNotFound).
//
// Complexity:
//
//   - Time:  O((V + E) log V)
//   - Space: O(V + E)
func ShortestFreeFlow(g *core.Graph, opts ...Option) (map[string]float64, map[string]string, error) {
	// 1) Build Options
	cfg := DefaultOptions("")
	for _, opt := range opts {
		opt(&cfg)
	}

	// 2) Validate
	if cfg.Source == "" {
		return nil, nil, ErrEmptySource
	}
	if g == nil {
		return nil, nil, ErrNilGraph
	}
	if !g.HasNode(cfg.Source) {
		return nil, nil, fmt.Errorf("source %q: %w", cfg.Source, ErrNodeNotFound)
	}
	if cfg.Target != "" && !g.HasNode(cfg.Target) {
		return nil, nil, fmt.Errorf("target %q: %w", cfg.Target, ErrNodeNotFound)
	}

	// 3) Run
	r := &runner{
		g:       g,
		options: cfg,
		dist:    make(map[string]float64, g.NodeCount()),
		prev:    make(map[string]string, g.NodeCount()),
		visited: make(map[string]bool, g.NodeCount()),
	}
	r.init()
	if err := r.process(); err != nil {
		return nil, nil, err
	}

	return r.dist, r.prev, nil
}

// runner holds the mutable state for a single search.
type runner struct {
	g       *core.Graph
	options Options
	dist    map[string]float64
	prev    map[string]string
	visited map[string]bool
	pq      nodePQ
}

// init sets every distance to +Inf and pushes the source at 0.
func (r *runner) init() {
	for _, v := range r.g.Nodes() {
		r.dist[v] = math.Inf(1)
		r.prev[v] = ""
	}
	r.dist[r.options.Source] = 0
	heap.Init(&r.pq)
	heap.Push(&r.pq, &nodeItem{id: r.options.Source, dist: 0})
}

// process settles nodes in order of increasing distance until the heap
// drains, the target is settled, or MaxCost is exceeded.
func (r *runner) process() error {
	for r.pq.Len() > 0 {
		// 1) Pop the closest node; skip stale entries.
		item := heap.Pop(&r.pq).(*nodeItem)
		if r.visited[item.id] {
			continue
		}
		if item.dist > r.options.MaxCost {
			break
		}

		// 2) Finalize.
		r.visited[item.id] = true
		if item.id == r.options.Target {
			break
		}

		// 3) Relax.
		if err := r.relax(item.id); err != nil {
			return err
		}
	}

	return nil
}

// relax improves distances through the outgoing links of u.
// Excluded links and nodes are skipped.
func (r *runner) relax(u string) error {
	out, err := r.g.OutLinks(u)
	if err != nil {
		return fmt.Errorf("routing: out-links of %q: %w", u, err)
	}

	for _, l := range out {
		if _, skip := r.options.ExcludedLinks[l.ID]; skip {
			continue
		}
		if _, skip := r.options.ExcludedNodes[l.To]; skip {
			continue
		}
		nd := r.dist[u] + l.FreeFlowTime
		// strict "<": the first link (by ID) among equals wins
		if nd >= r.dist[l.To] {
			continue
		}
		r.dist[l.To] = nd
		r.prev[l.To] = l.ID
		heap.Push(&r.pq, &nodeItem{id: l.To, dist: nd})
	}

	return nil
}

// PathTo rebuilds the path from the source to target out of a prev map
// produced by ShortestFreeFlow.
func PathTo(g *core.Graph, prev map[string]string, source, target string) (Path, error) {
	if source == target {
		return Path{Nodes: []string{source}}, nil
	}
	var (
		links []string
		total float64
		cur   = target
	)
	for cur != source {
		lid := prev[cur]
		if lid == "" {
			return Path{}, fmt.Errorf("%s→%s: %w", source, target, ErrNoPath)
		}
		l, err := g.Link(lid)
		if err != nil {
			return Path{}, err
		}
		links = append(links, lid)
		total += l.FreeFlowTime
		cur = l.From
		if len(links) > len(prev) {
			// corrupted prev map; a simple path never exceeds V links
			return Path{}, fmt.Errorf("%s→%s: cycle in predecessors: %w", source, target, ErrNoPath)
		}
	}

	// reverse into travel order
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	nodes := make([]string, 0, len(links)+1)
	nodes = append(nodes, source)
	for _, lid := range links {
		l, _ := g.Link(lid)
		nodes = append(nodes, l.To)
	}

	return Path{Links: links, Nodes: nodes, FreeFlowTime: total}, nil
}

// nodeItem is a heap entry.
type nodeItem struct {
	id   string
	dist float64
}

// nodePQ is a min-heap by distance with node ID as tie-break, using lazy
// decrease-key (stale entries are skipped when popped).
type nodePQ []*nodeItem

func (pq nodePQ) Len() int { return len(pq) }

func (pq nodePQ) Less(i, j int) bool {
	if pq[i].dist == pq[j].dist {
		return pq[i].id < pq[j].id
	}
	return pq[i].dist < pq[j].dist
}

func (pq nodePQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *nodePQ) Push(x interface{}) { *pq = append(*pq, x.(*nodeItem)) }

func (pq *nodePQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]

	return item
}
