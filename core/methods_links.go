// SPDX-License-Identifier: MIT
// File: methods_links.go
// Role: Link lifecycle & queries: AddLink/Link/Links/OutLinks/HasLink/LinkCount,
//       plus nextLinkID().
//
// Determinism:
//   - Links() returns links in insertion order.
//   - OutLinks() returns links sorted by Link.ID asc.
//   - nextLinkID() is monotonic ("l" + decimal) and skips IDs already taken.
package core

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/katalvlaran/routechoice/costfn"
)

// linkIDPrefix is the textual prefix of generated link identifiers.
const linkIDPrefix = 'l'

// AddLink creates a directed link from→to and returns its ID.
//
// Steps:
//  1. Validate node IDs, free-flow time, capacity and loops.
//  2. Ensure both endpoints exist.
//  3. Under lock, check the multi-link constraint and ID uniqueness.
//  4. Generate an ID when id == "".
//  5. Store the link and index it in out[from][to].
//
// Complexity: O(1) amortized.
func (g *Graph) AddLink(id, from, to string, freeFlow, capacity float64, fn costfn.Spec) (string, error) {
	// 1) Input validation
	if from == "" || to == "" {
		return "", ErrEmptyNodeID
	}
	if freeFlow < 0 || math.IsNaN(freeFlow) {
		return "", fmt.Errorf("link %s→%s free-flow=%g: %w", from, to, freeFlow, ErrBadFreeFlow)
	}
	if capacity < 0 || math.IsNaN(capacity) {
		return "", fmt.Errorf("link %s→%s capacity=%g: %w", from, to, capacity, ErrBadCapacity)
	}
	if from == to && !g.allowLoops {
		return "", ErrLoopNotAllowed
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// 2) Ensure endpoints
	g.addNodeLocked(from)
	g.addNodeLocked(to)

	// 3) Constraints
	if !g.allowMulti && len(g.out[from][to]) > 0 {
		return "", ErrMultiLinkNotAllowed
	}
	if id != "" {
		if _, taken := g.links[id]; taken {
			return "", fmt.Errorf("link %q: %w", id, ErrDuplicateLink)
		}
	} else {
		// 4) Generated ID
		id = g.nextLinkID()
	}

	// 5) Store
	g.links[id] = &Link{
		ID:           id,
		From:         from,
		To:           to,
		FreeFlowTime: freeFlow,
		Capacity:     capacity,
		Function:     fn,
	}
	g.order = append(g.order, id)
	g.out[from][to] = append(g.out[from][to], id)

	return id, nil
}

// nextLinkID returns the next free generated ID; caller holds g.mu.
func (g *Graph) nextLinkID() string {
	var buf [24]byte
	for {
		g.linkSeq++
		b := append(buf[:0], linkIDPrefix)
		id := string(strconv.AppendUint(b, g.linkSeq, 10))
		if _, taken := g.links[id]; !taken {
			return id
		}
	}
}

// Link returns the link with the given ID.
func (g *Graph) Link(id string) (*Link, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	l, ok := g.links[id]
	if !ok {
		return nil, fmt.Errorf("link %q: %w", id, ErrLinkNotFound)
	}

	return l, nil
}

// Links returns every link in insertion order.
// Complexity: O(E).
func (g *Graph) Links() []*Link {
	g.mu.RLock()
	defer g.mu.RUnlock()
	res := make([]*Link, 0, len(g.order))
	for _, id := range g.order {
		res = append(res, g.links[id])
	}

	return res
}

// OutLinks returns the links leaving node, sorted by ID.
// Complexity: O(d log d) for out-degree d.
func (g *Graph) OutLinks(node string) ([]*Link, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	heads, ok := g.out[node]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", node, ErrNodeNotFound)
	}
	var res []*Link
	for _, ids := range heads {
		for _, id := range ids {
			res = append(res, g.links[id])
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })

	return res, nil
}

// HasLink reports whether at least one link from→to exists.
func (g *Graph) HasLink(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.out[from][to]) > 0
}

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.links)
}
