// SPDX-License-Identifier: MIT
// Package routechoice simulates travelers who repeatedly choose routes
// through a congestible road network and learn from the travel times they
// experience, with optional congestion tolls.
//
// What is inside
//
//	• Link cost model: BPR, linear, polynomial and constant volume-delay functions
//	• Road network: nodes, directed links, per-OD route sets (explicit or K-shortest)
//	• Flow evaluation: one episode's assignment → link volumes, costs, marginal costs
//	• Tolling: marginal-cost tolls, preference-aware indifference tolls, side payments
//	• Policies: uniform random and decaying ε-greedy
//	• Learners: regret-minimizing (RMQ), marginal-cost tolled (TQ), generalized (GTQ)
//	• Statistics: real and estimated regret per OD pair and overall
//
// Packages
//
//	costfn/   volume-delay functions and their derivatives
//	core/     thread-safe directed multigraph of nodes and links
//	routing/  free-flow Dijkstra and Yen's K-shortest loopless routes
//	network/  road network, route sets, flow matrices, assignment evaluation, file loader
//	builder/  benchmark instances: two-route, Pigou, Braess, grid
//	toll/     toll and side-payment formulas
//	policy/   action-selection policies
//	agent/    learners and the non-learning baseline driver
//	env/      episode protocol: drivers, rewards, observations, preferences
//	stats/    route cost statistics, regret tracker, end-of-run summaries
//	sim/      the experiment loop
//	config/, logger/, report/  settings, logging, CSV and chart output
//
// Quick start
//
//	net, _ := builder.ByName(builder.NameBraess)
//	e, _ := env.New(net)
//	pol, _ := policy.NewEpsilonGreedy(1, 0)
//	drivers, _ := sim.NewDrivers(e, sim.RMQ, pol)
//	s, _ := sim.New(e, drivers, pol, sim.WithEpisodes(500))
//	res, _ := s.Run(context.Background())
//	fmt.Println(res.Global.Real)
//
// The command cmd/routechoice runs the same loop from a configuration file.
package routechoice
