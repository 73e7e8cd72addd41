// SPDX-License-Identifier: MIT
package network

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/routechoice/costfn"
)

// Sentinel errors for network construction and evaluation.
var (
	// ErrNilGraph indicates that New received a nil topology.
	ErrNilGraph = errors.New("network: graph is nil")

	// ErrNoDemand indicates that no OD pair was declared.
	ErrNoDemand = errors.New("network: no OD demand")

	// ErrBadDemand indicates a negative or NaN OD demand.
	ErrBadDemand = errors.New("network: demand must be non-negative")

	// ErrDuplicateOD indicates that the same OD pair was declared twice.
	ErrDuplicateOD = errors.New("network: duplicate OD pair")

	// ErrUnknownOD indicates a lookup of an OD pair that does not exist.
	ErrUnknownOD = errors.New("network: unknown OD pair")

	// ErrNoRoutes indicates an OD pair without any route.
	ErrNoRoutes = errors.New("network: OD pair has no routes")

	// ErrBrokenRoute indicates a route whose links do not chain origin→destination.
	ErrBrokenRoute = errors.New("network: route does not connect its OD pair")

	// ErrRouteIndex indicates a route index outside an OD pair's route set.
	ErrRouteIndex = errors.New("network: route index out of range")

	// ErrShapeMismatch indicates a flow matrix whose shape differs from the
	// network's OD/route layout. It is a configuration error.
	ErrShapeMismatch = errors.New("network: flow matrix shape mismatch")

	// ErrUnsupportedFormat indicates a network file with an unknown extension.
	ErrUnsupportedFormat = errors.New("network: unsupported file format")
)

// ODSeparator joins origin and destination into an OD pair ID.
const ODSeparator = "|"

// ODID returns the identifier of the OD pair origin→destination.
func ODID(origin, destination string) string {
	return origin + ODSeparator + destination
}

// Demand declares the flow that travels from Origin to Destination.
type Demand struct {
	Origin      string  `yaml:"origin" toml:"origin"`
	Destination string  `yaml:"destination" toml:"destination"`
	Flow        float64 `yaml:"flow" toml:"flow"`
}

// Link is the per-episode state of one road segment.
type Link struct {
	id       string
	from, to string
	freeFlow float64
	capacity float64
	fn       costfn.Function

	flow         float64 // raw volume
	weightedFlow float64 // preference-weighted volume
	cost         float64
	marginal     float64
}

// ID returns the link identifier.
func (l *Link) ID() string { return l.id }

// From returns the tail node.
func (l *Link) From() string { return l.from }

// To returns the head node.
func (l *Link) To() string { return l.to }

// FreeFlowTime returns the empty-road travel time.
func (l *Link) FreeFlowTime() float64 { return l.freeFlow }

// Capacity returns the link capacity.
func (l *Link) Capacity() float64 { return l.capacity }

// Flow returns the volume assigned in the last evaluation.
func (l *Link) Flow() float64 { return l.flow }

// WeightedFlow returns the preference-weighted volume of the last evaluation.
func (l *Link) WeightedFlow() float64 { return l.weightedFlow }

// Cost returns the travel time computed in the last evaluation.
func (l *Link) Cost() float64 { return l.cost }

// MarginalCost returns the externality computed in the last evaluation.
func (l *Link) MarginalCost() float64 { return l.marginal }

// reset zeroes the dynamic state and restores the free-flow cost.
func (l *Link) reset() {
	l.flow, l.weightedFlow, l.marginal = 0, 0, 0
	l.cost = l.fn.Cost(0)
}

// recompute evaluates the cost function at the current volume.
func (l *Link) recompute() {
	l.cost = l.fn.Cost(l.flow)
	l.marginal = costfn.Marginal(l.fn, l.flow, l.weightedFlow)
}

// Route is a fixed sequence of links serving one OD pair.
type Route struct {
	od       string
	index    int
	links    []*Link
	freeFlow float64
	scale    float64

	cost     float64
	marginal float64
}

// OD returns the OD pair this route belongs to.
func (r *Route) OD() string { return r.od }

// Index returns the stable position of the route in its OD route set.
func (r *Route) Index() int { return r.index }

// LinkIDs returns the link IDs in travel order.
func (r *Route) LinkIDs() []string {
	ids := make([]string, len(r.links))
	for i, l := range r.links {
		ids[i] = l.id
	}
	return ids
}

// FreeFlowTime returns the sum of free-flow times, optionally normalized.
func (r *Route) FreeFlowTime(normalized bool) float64 {
	return r.normalize(r.freeFlow, normalized)
}

// Cost returns the current route cost (sum of link costs), optionally normalized.
func (r *Route) Cost(normalized bool) float64 {
	return r.normalize(r.cost, normalized)
}

// MarginalCost returns the sum of link marginal costs, optionally normalized.
func (r *Route) MarginalCost(normalized bool) float64 {
	return r.normalize(r.marginal, normalized)
}

func (r *Route) normalize(v float64, normalized bool) float64 {
	if normalized {
		return v / r.scale
	}
	return v
}

// refresh sums the current link state into the route.
func (r *Route) refresh() {
	r.cost, r.marginal = 0, 0
	for _, l := range r.links {
		r.cost += l.cost
		r.marginal += l.marginal
	}
}

// String implements fmt.Stringer.
func (r *Route) String() string {
	return fmt.Sprintf("%s#%d%v", r.od, r.index, r.LinkIDs())
}

// ODPair is an origin-destination pair with its demand and route set.
type ODPair struct {
	id          string
	origin      string
	destination string
	demand      float64
	order       int
	routes      []*Route
}

// ID returns "<origin>|<destination>".
func (o *ODPair) ID() string { return o.id }

// Origin returns the origin node.
func (o *ODPair) Origin() string { return o.origin }

// Destination returns the destination node.
func (o *ODPair) Destination() string { return o.destination }

// Demand returns the total flow of the pair.
func (o *ODPair) Demand() float64 { return o.demand }

// Order returns the row index of the pair in every flow matrix.
func (o *ODPair) Order() int { return o.order }

// Routes returns the route set in index order.
func (o *ODPair) Routes() []*Route { return o.routes }
