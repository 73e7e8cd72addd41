// SPDX-License-Identifier: MIT
// Package agent implements the learning travelers of a route-choice game.
//
// Every learner shares one engine (Learner) and differs only in the Utility
// that turns an observed travel time into the cost it learns from:
//
//	RegretMinimizing     (RMQ)  cost = t
//	MarginalCostTolling  (TQ)   cost = t + (t − ff[a])
//	GeneralizedTolling   (GTQ)  cost = (1−p)·t + p·toll(m, t, p) − sidePayment
//
// Per episode the engine runs two calls:
//
//	a, err := l.ChooseAction()                  // iteration++, ask the policy
//	err = l.UpdateStrategy(t, info, alpha)      // utility, history, Q, regret
//
// and once the environment has published the realized best route average,
// UpdateRealRegret(trueMin).
//
// History and averages:
//
//	For the chosen action the realized sum and sample count grow; every
//	action's extrapolated sum grows by its last known cost. With
//	extrapolation the average of action i is extrapolated[i]/iteration,
//	otherwise realized[i]/samples[i] (0 while unsampled).
//
// Regret:
//
//	estimated = Σcost/iteration − min_i average[i]
//	real      = Σcost/iteration − trueMin
//	per-action estimated regret of i = average[i] − min average (0 while
//	unsampled without extrapolation)
//
// The Q update deliberately uses the raw utility cost,
// Q[a] ← (1−α)·Q[a] + α·(1 − cost), while regret comes from the history;
// the two paths are independent.
//
// Learners are not safe for concurrent use; distinct learners may be updated
// in parallel.
package agent
