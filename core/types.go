// SPDX-License-Identifier: MIT
// This file declares Node, Link, Graph, GraphOption, sentinel errors, and the
// NewGraph constructor.
//
// Errors:
//
//	ErrEmptyNodeID         - node ID is the empty string.
//	ErrNodeNotFound        - requested node does not exist.
//	ErrLinkNotFound        - requested link does not exist.
//	ErrDuplicateLink       - explicit link ID already in use.
//	ErrLoopNotAllowed      - self-loop when loops are disabled.
//	ErrMultiLinkNotAllowed - parallel link when multi-links are disabled.
//	ErrBadFreeFlow         - negative or NaN free-flow time.
//	ErrBadCapacity         - negative or NaN capacity.
package core

import (
	"errors"
	"sync"

	"github.com/katalvlaran/routechoice/costfn"
)

// Sentinel errors for core graph operations.
var (
	// ErrEmptyNodeID indicates that the provided node ID is empty.
	ErrEmptyNodeID = errors.New("core: node ID is empty")

	// ErrNodeNotFound indicates an operation referenced a non-existent node.
	ErrNodeNotFound = errors.New("core: node not found")

	// ErrLinkNotFound indicates an operation referenced a non-existent link.
	ErrLinkNotFound = errors.New("core: link not found")

	// ErrDuplicateLink indicates that an explicit link ID is already taken.
	ErrDuplicateLink = errors.New("core: duplicate link ID")

	// ErrLoopNotAllowed indicates a self-loop was attempted when loops are disabled.
	ErrLoopNotAllowed = errors.New("core: self-loop not allowed")

	// ErrMultiLinkNotAllowed indicates a parallel link was attempted when multi-links are disabled.
	ErrMultiLinkNotAllowed = errors.New("core: multi-links not allowed")

	// ErrBadFreeFlow indicates a negative or NaN free-flow time.
	ErrBadFreeFlow = errors.New("core: free-flow time must be non-negative")

	// ErrBadCapacity indicates a negative or NaN capacity.
	ErrBadCapacity = errors.New("core: capacity must be non-negative")
)

// Node is an intersection or zone centroid.
type Node struct {
	// ID is the unique label of this Node.
	ID string
}

// Link is a directed road segment with its physical attributes.
// Links are immutable once added.
type Link struct {
	// ID uniquely identifies this link in the Graph.
	ID string

	// From is the tail node ID.
	From string

	// To is the head node ID.
	To string

	// FreeFlowTime is the travel time on an empty link.
	FreeFlowTime float64

	// Capacity is the practical capacity used by capacity-based cost functions.
	Capacity float64

	// Function describes the congestion curve of the link.
	Function costfn.Spec
}

// GraphOption configures behavior of a Graph before creation.
type GraphOption func(g *Graph)

// WithMultiLinks permits parallel links between the same ordered node pair.
func WithMultiLinks() GraphOption {
	return func(g *Graph) { g.allowMulti = true }
}

// WithLoops permits self-loops.
func WithLoops() GraphOption {
	return func(g *Graph) { g.allowLoops = true }
}

// Graph is the directed road catalogue.
//
// mu guards every map and slice below. linkSeq backs generated link IDs.
type Graph struct {
	mu sync.RWMutex

	// Configuration flags
	allowMulti bool // allow parallel links
	allowLoops bool // allow self-loops

	// Storage
	linkSeq    uint64           // generated link ID counter
	nodes      map[string]*Node // node ID → Node
	links      map[string]*Link // link ID → Link
	order      []string         // link IDs in insertion order

	// out[from][to] = link IDs, in insertion order
	out map[string]map[string][]string
}

// NewGraph creates an empty Graph with the given options.
// By default, the Graph has no loops and no multi-links.
// Complexity: O(1)
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node),
		links: make(map[string]*Link),
		out:   make(map[string]map[string][]string),
	}
	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Looped reports whether self-loops are allowed.
func (g *Graph) Looped() bool { return g.allowLoops }

// Multigraph reports whether parallel links are allowed.
func (g *Graph) Multigraph() bool { return g.allowMulti }
