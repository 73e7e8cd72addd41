// SPDX-License-Identifier: MIT
package network

import (
	"fmt"
	"math"

	"github.com/katalvlaran/routechoice/core"
	"github.com/katalvlaran/routechoice/costfn"
	"github.com/katalvlaran/routechoice/routing"
)

// DefaultRoutesPerOD is the route-set size used when neither explicit routes
// nor WithRoutesPerOD are given.
const DefaultRoutesPerOD = 3

// Option configures New.
type Option func(*options)

type options struct {
	routesPerOD int
	routeSets   map[string][][]string
}

// WithRoutesPerOD sets K, the number of routes enumerated per OD pair when no
// explicit route set is given. Panics when k < 1.
func WithRoutesPerOD(k int) Option {
	return func(o *options) {
		if k < 1 {
			panic(routing.ErrBadK.Error())
		}
		o.routesPerOD = k
	}
}

// WithRouteSets supplies explicit route sets: OD ID → routes → link IDs.
// OD pairs absent from the map fall back to K-shortest enumeration.
func WithRouteSets(sets map[string][][]string) Option {
	return func(o *options) { o.routeSets = sets }
}

// Network is the road network plus its per-episode traffic state.
type Network struct {
	graph       *core.Graph
	links       []*Link
	linkByID    map[string]*Link
	ods         []*ODPair
	odByID      map[string]*ODPair
	totalDemand float64
	scale       float64
}

// New builds a Network over g for the given demand.
//
// Steps:
//  1. Validate graph and demand.
//  2. Resolve every link's cost function.
//  3. Build each OD pair's route set: explicit routes are validated,
//     missing ones are enumerated with routing.KShortest.
//  4. Fix the normalization scale and reset all links.
func New(g *core.Graph, demand []Demand, opts ...Option) (*Network, error) {
	cfg := options{routesPerOD: DefaultRoutesPerOD}
	for _, opt := range opts {
		opt(&cfg)
	}

	// 1) Validation
	if g == nil {
		return nil, ErrNilGraph
	}
	if len(demand) == 0 {
		return nil, ErrNoDemand
	}

	// 2) Links
	n := &Network{
		graph:    g,
		linkByID: make(map[string]*Link, g.LinkCount()),
		odByID:   make(map[string]*ODPair, len(demand)),
	}
	for _, cl := range g.Links() {
		fn, err := costfn.New(cl.Function, cl.FreeFlowTime, cl.Capacity)
		if err != nil {
			return nil, fmt.Errorf("network: link %s: %w", cl.ID, err)
		}
		l := &Link{id: cl.ID, from: cl.From, to: cl.To, freeFlow: cl.FreeFlowTime, capacity: cl.Capacity, fn: fn}
		n.links = append(n.links, l)
		n.linkByID[l.id] = l
	}

	// 3) OD pairs and route sets
	for i, d := range demand {
		if d.Flow < 0 || math.IsNaN(d.Flow) {
			return nil, fmt.Errorf("network: OD %s: flow=%g: %w", ODID(d.Origin, d.Destination), d.Flow, ErrBadDemand)
		}
		od := &ODPair{
			id:          ODID(d.Origin, d.Destination),
			origin:      d.Origin,
			destination: d.Destination,
			demand:      d.Flow,
			order:       i,
		}
		if _, dup := n.odByID[od.id]; dup {
			return nil, fmt.Errorf("network: OD %s: %w", od.id, ErrDuplicateOD)
		}
		routes, err := n.routeSet(od, cfg)
		if err != nil {
			return nil, err
		}
		od.routes = routes
		n.ods = append(n.ods, od)
		n.odByID[od.id] = od
		n.totalDemand += od.demand
	}

	// 4) Normalization scale: the largest route free-flow time.
	for _, od := range n.ods {
		for _, r := range od.routes {
			n.scale = math.Max(n.scale, r.freeFlow)
		}
	}
	if n.scale <= 0 {
		n.scale = 1
	}
	for _, od := range n.ods {
		for _, r := range od.routes {
			r.scale = n.scale
		}
	}
	n.Reset()

	return n, nil
}

// routeSet resolves the routes of od from explicit sets or enumeration.
func (n *Network) routeSet(od *ODPair, cfg options) ([]*Route, error) {
	var paths [][]string
	if explicit, ok := cfg.routeSets[od.id]; ok {
		paths = explicit
	} else {
		found, err := routing.KShortest(n.graph, od.origin, od.destination, cfg.routesPerOD)
		if err != nil {
			return nil, fmt.Errorf("network: OD %s: %w: %w", od.id, ErrNoRoutes, err)
		}
		for _, p := range found {
			paths = append(paths, p.Links)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("network: OD %s: %w", od.id, ErrNoRoutes)
	}

	routes := make([]*Route, 0, len(paths))
	for k, ids := range paths {
		r := &Route{od: od.id, index: k}
		at := od.origin
		for _, id := range ids {
			l, ok := n.linkByID[id]
			if !ok || l.from != at {
				return nil, fmt.Errorf("network: OD %s route %d at link %q: %w", od.id, k, id, ErrBrokenRoute)
			}
			r.links = append(r.links, l)
			r.freeFlow += l.freeFlow
			at = l.to
		}
		if len(ids) == 0 || at != od.destination {
			return nil, fmt.Errorf("network: OD %s route %d ends at %q: %w", od.id, k, at, ErrBrokenRoute)
		}
		routes = append(routes, r)
	}

	return routes, nil
}

// Reset zeroes every link's flow and restores free-flow costs. Idempotent.
func (n *Network) Reset() {
	for _, l := range n.links {
		l.reset()
	}
	for _, od := range n.ods {
		for _, r := range od.routes {
			r.refresh()
		}
	}
}

// Graph returns the static topology.
func (n *Network) Graph() *core.Graph { return n.graph }

// Links returns the link state in topology insertion order.
func (n *Network) Links() []*Link { return n.links }

// Link returns the state of one link.
func (n *Network) Link(id string) (*Link, bool) {
	l, ok := n.linkByID[id]
	return l, ok
}

// ODPairs returns the OD pairs in matrix row order.
func (n *Network) ODPairs() []*ODPair { return n.ods }

// ODPair returns the OD pair with the given ID.
func (n *Network) ODPair(id string) (*ODPair, error) {
	od, ok := n.odByID[id]
	if !ok {
		return nil, fmt.Errorf("%q: %w", id, ErrUnknownOD)
	}
	return od, nil
}

// Routes returns the route set of an OD pair.
func (n *Network) Routes(od string) ([]*Route, error) {
	p, err := n.ODPair(od)
	if err != nil {
		return nil, err
	}
	return p.routes, nil
}

// Route returns route k of an OD pair.
func (n *Network) Route(od string, k int) (*Route, error) {
	p, err := n.ODPair(od)
	if err != nil {
		return nil, err
	}
	if k < 0 || k >= len(p.routes) {
		return nil, fmt.Errorf("%s route %d of %d: %w", od, k, len(p.routes), ErrRouteIndex)
	}
	return p.routes[k], nil
}

// RouteSetSize returns K for an OD pair, or 0 when the pair is unknown.
func (n *Network) RouteSetSize(od string) int {
	if p, ok := n.odByID[od]; ok {
		return len(p.routes)
	}
	return 0
}

// Demand returns the demand of an OD pair, or 0 when the pair is unknown.
func (n *Network) Demand(od string) float64 {
	if p, ok := n.odByID[od]; ok {
		return p.demand
	}
	return 0
}

// TotalDemand returns the summed demand of all OD pairs.
func (n *Network) TotalDemand() float64 { return n.totalDemand }

// Scale returns the normalization divisor.
func (n *Network) Scale() float64 { return n.scale }

// Shape returns the route-set sizes in OD order.
func (n *Network) Shape() []int {
	s := make([]int, len(n.ods))
	for i, od := range n.ods {
		s[i] = len(od.routes)
	}
	return s
}

// EmptyFlowMatrix returns a zeroed matrix shaped for this network.
func (n *Network) EmptyFlowMatrix() *FlowMatrix {
	m, _ := NewFlowMatrix(n.Shape()) // shape is validated by New
	return m
}
