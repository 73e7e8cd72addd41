// SPDX-License-Identifier: MIT
// Package builder assembles the benchmark road networks used by experiments,
// examples and tests, in the same constructor-composition style everywhere:
//
//	net, err := builder.BuildNetwork(
//	    []builder.BuilderOption{builder.WithRoutesPerOD(3)},
//	    builder.Braess(4000),
//	)
//
// Constructors:
//
//	– TwoRoute(demand, ff0, ff1, slope): one OD pair over two parallel linear
//	  roads; the smallest instance with a non-trivial equilibrium.
//	– Braess(demand): the four-node network with a zero-cost bridge whose
//	  user equilibrium is worse than without the bridge.
//	– Pigou(demand): a congestible road next to a constant one; the classic
//	  example where marginal-cost tolls reach the system optimum.
//	– Grid(rows, cols, demand): a bidirectional Manhattan grid with one OD
//	  pair between opposite corners and many equal-length routes.
//
// ByName maps the configuration names "two-route", "braess", "pigou" and
// "grid" to default instances; any other name is ErrUnknownNetwork.
//
// Guarantees:
//
//   - Deterministic: the same constructors and options produce identical
//     link IDs, OD order and route sets.
//   - Constructors validate parameters and return sentinel errors; only
//     option constructors panic.
package builder
