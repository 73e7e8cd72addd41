// SPDX-License-Identifier: MIT
package agent

import (
	"fmt"

	"github.com/katalvlaran/routechoice/toll"
)

// Info is the per-episode observation handed to a traveler alongside its
// travel time.
type Info struct {
	// FreeFlowTimes holds the free-flow time of every route of the traveler's
	// OD pair, in the same units as the travel time.
	FreeFlowTimes []float64

	// MarginalCost is the marginal cost of the chosen route.
	MarginalCost float64

	// Preference is the traveler's money-over-time preference.
	Preference float64

	// SidePayment is the redistributed toll revenue per unit of flow.
	SidePayment float64
}

// Utility converts a travel time into the cost a learner learns from, and
// reports the toll paid for it.
type Utility interface {
	Cost(travelTime float64, action int, info Info, preference float64) (cost, paid float64, err error)
	Name() string
}

// RegretMinimizing learns from the bare travel time.
type RegretMinimizing struct{}

// Name implements Utility.
func (RegretMinimizing) Name() string { return "RMQLearning" }

// Cost implements Utility.
func (RegretMinimizing) Cost(travelTime float64, _ int, _ Info, _ float64) (float64, float64, error) {
	return travelTime, 0, nil
}

// MarginalCostTolling charges the congestion delay of the chosen route on
// top of the travel time.
type MarginalCostTolling struct{}

// Name implements Utility.
func (MarginalCostTolling) Name() string { return "TQLearning" }

// Cost implements Utility.
func (MarginalCostTolling) Cost(travelTime float64, action int, info Info, _ float64) (float64, float64, error) {
	if action < 0 || action >= len(info.FreeFlowTimes) {
		return 0, 0, fmt.Errorf("agent: action %d with %d free-flow times: %w", action, len(info.FreeFlowTimes), ErrMissingInfo)
	}
	paid := toll.MarginalCostToll(travelTime, info.FreeFlowTimes[action])

	return travelTime + paid, paid, nil
}

// GeneralizedTolling weighs time against the preference-aware indifference
// toll and credits the OD pair's side payment.
type GeneralizedTolling struct{}

// Name implements Utility.
func (GeneralizedTolling) Name() string { return "GTQLearning" }

// Cost implements Utility.
func (GeneralizedTolling) Cost(travelTime float64, _ int, info Info, preference float64) (float64, float64, error) {
	paid := toll.IndifferenceToll(info.MarginalCost, travelTime, preference)
	cost := (1-preference)*travelTime + preference*paid - info.SidePayment

	return cost, paid, nil
}
