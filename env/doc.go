// SPDX-License-Identifier: MIT
// Package env wraps a network.Network into the one-shot episode protocol the
// learners play: every episode each driver picks a route, the assignment is
// evaluated, and each driver gets back its travel time and an agent.Info.
//
// Demand is split into drivers of equal flow (the vehicles-per-agent factor);
// a final driver carries the remainder so the assigned volume always equals
// the OD demand. Driver IDs follow the pattern driver_<od>_<i>.
//
// Step also keeps the route cost statistics the regret tracker needs and,
// when revenue redistribution is on, turns the marginal-cost tolls collected
// on each OD pair into a per-unit side payment.
package env
