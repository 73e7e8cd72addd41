// SPDX-License-Identifier: MIT
// Package routing defines the options, results and sentinel errors of the
// route search used to populate OD route sets: a free-flow Dijkstra and Yen's
// K loopless shortest paths built on top of it.
//
// Options:
//
//	– Source:         ID of the starting node (must be non-empty and present).
//	– Target:         optional node at which the search stops early.
//	– MaxCost:        nodes farther than this are not explored.
//	– ExcludedLinks:  links treated as removed (used by Yen's spur searches).
//	– ExcludedNodes:  nodes treated as removed (used by Yen's spur searches).
//
// Errors (sentinel):
//
//	– ErrEmptySource   if the provided source ID is empty.
//	– ErrNilGraph      if the provided graph pointer is nil.
//	– ErrNodeNotFound  if the source or target node does not exist.
//	– ErrNoPath        if the target is unreachable.
//	– ErrBadK          if K < 1.
//	– ErrBadMaxCost    if MaxCost < 0.
package routing

import (
	"errors"
	"math"
	"strings"
)

// Sentinel errors returned by the routing package.
var (
	// ErrEmptySource indicates that the provided source node ID is empty.
	ErrEmptySource = errors.New("routing: source node ID is empty")

	// ErrNilGraph indicates that a nil *core.Graph was passed in.
	ErrNilGraph = errors.New("routing: graph is nil")

	// ErrNodeNotFound indicates that the source or target node does not exist.
	ErrNodeNotFound = errors.New("routing: node not found in graph")

	// ErrNoPath indicates that the target cannot be reached from the source.
	ErrNoPath = errors.New("routing: no path between nodes")

	// ErrBadK indicates a non-positive number of requested routes.
	ErrBadK = errors.New("routing: K must be positive")

	// ErrBadMaxCost indicates that MaxCost was set to a negative value.
	ErrBadMaxCost = errors.New("routing: MaxCost must be non-negative")
)

// Options configures a single free-flow Dijkstra run.
type Options struct {
	Source        string              // starting node
	Target        string              // optional early-stop node
	MaxCost       float64             // exploration cap
	ExcludedLinks map[string]struct{} // links considered removed
	ExcludedNodes map[string]struct{} // nodes considered removed (never the source)
}

// Option represents a functional option for configuring ShortestFreeFlow.
type Option func(*Options)

// Source sets the starting node ID.
func Source(id string) Option {
	return func(o *Options) { o.Source = id }
}

// WithTarget stops the search as soon as id is settled.
func WithTarget(id string) Option {
	return func(o *Options) { o.Target = id }
}

// WithMaxCost caps the explored distance. Panics on negative input.
func WithMaxCost(max float64) Option {
	return func(o *Options) {
		if max < 0 {
			panic(ErrBadMaxCost.Error())
		}
		o.MaxCost = max
	}
}

// WithExcludedLinks treats the given links as removed.
func WithExcludedLinks(ids ...string) Option {
	return func(o *Options) {
		if o.ExcludedLinks == nil {
			o.ExcludedLinks = make(map[string]struct{}, len(ids))
		}
		for _, id := range ids {
			o.ExcludedLinks[id] = struct{}{}
		}
	}
}

// WithExcludedNodes treats the given nodes as removed.
func WithExcludedNodes(ids ...string) Option {
	return func(o *Options) {
		if o.ExcludedNodes == nil {
			o.ExcludedNodes = make(map[string]struct{}, len(ids))
		}
		for _, id := range ids {
			o.ExcludedNodes[id] = struct{}{}
		}
	}
}

// DefaultOptions returns Options for the given source with no target,
// no distance cap and nothing excluded.
func DefaultOptions(source string) Options {
	return Options{
		Source:  source,
		MaxCost: math.Inf(1),
	}
}

// Path is a loopless route through the graph.
type Path struct {
	// Links are link IDs in travel order.
	Links []string

	// Nodes are the visited node IDs, len(Nodes) == len(Links)+1.
	Nodes []string

	// FreeFlowTime is the sum of the links' free-flow times.
	FreeFlowTime float64
}

// key is a stable identity for de-duplication and tie-breaking.
func (p Path) key() string { return strings.Join(p.Links, ",") }
