// SPDX-License-Identifier: MIT
// Package network holds the mutable traffic state of a road network: per-link
// flows and costs, per-OD route sets, and the per-episode assignment
// evaluator that turns a flow-assignment matrix into route travel costs.
//
// Lifecycle of one episode:
//
//	net.Reset()                               // zero every link
//	flows := net.EmptyFlowMatrix()            // one row per OD, one column per route
//	weighted := net.EmptyFlowMatrix()         // preference-weighted flows
//	... fill both matrices from the travelers' choices ...
//	avg, norm, err := net.EvaluateAssignment(flows, weighted)
//	cost := net.Route(od, k).Cost(true)       // normalized route cost
//
// Units and normalization:
//
//	Route costs are link-cost sums in the network's time unit. The
//	normalized variant divides by Scale(), the largest route free-flow time
//	in the catalogue, so that costs of very different networks land in a
//	comparable range.
//
// Determinism:
//
//	OD pairs keep the order they were declared in, routes keep the order
//	they were supplied (or enumerated) in, and EvaluateAssignment visits
//	both in that order. Equal inputs produce bit-identical outputs.
//
// Concurrency:
//
//	A Network is owned by one episode loop at a time and is not safe for
//	concurrent mutation. Read accessors may be shared once an evaluation
//	has returned.
package network
