// SPDX-License-Identifier: MIT
// Package core provides the static road topology shared by every other
// package: a thread-safe, directed graph of nodes and links, where each link
// carries its physical attributes (free-flow time, capacity and the spec of its
// congestion function).
//
// The Graph is a catalogue, not a simulation state: flows and costs live in
// package network and are rebuilt every episode, while the topology here is
// loaded once and only read afterwards.
//
// Configuration Options (GraphOption):
//
//	– WithLoops()
//	    Permits links whose origin equals their destination.
//	    Otherwise AddLink(v,v) → ErrLoopNotAllowed.
//
//	– WithMultiLinks()
//	    Permits parallel links between the same ordered node pair (two roads
//	    from A to B). Otherwise a second AddLink(A,B) → ErrMultiLinkNotAllowed.
//
// Core Methods:
//
//	AddNode(id string) error                                         // O(1)
//	HasNode(id string) bool                                          // O(1)
//	Nodes() []string                                                 // O(V log V), sorted
//	AddLink(id, from, to string, freeFlow, capacity float64,
//	        fn costfn.Spec) (string, error)                          // O(1)†
//	Link(id string) (*Link, error)                                   // O(1)
//	Links() []*Link                                                  // O(E), insertion order
//	OutLinks(node string) ([]*Link, error)                           // O(d log d), sorted by ID
//	HasLink(from, to string) bool                                    // O(1)
//
// † amortized; an empty id asks the graph to generate "l1", "l2", …
//
// Determinism:
//
//	Nodes() and OutLinks() are sorted by ID; Links() follows insertion order,
//	which is the order link state is laid out in by package network.
//
// Concurrency:
//
//	All methods are safe for concurrent use; a single sync.RWMutex guards the
//	catalogue. Returned *Link values must be treated as read-only.
package core
