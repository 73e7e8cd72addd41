// SPDX-License-Identifier: MIT
// Package toll computes the monetary signals attached to route choices:
// marginal-cost tolls, the preference-weighted indifference toll, and the
// per-traveler side payment that redistributes collected revenue.
//
// Preferences p ∈ (0,1] express how a traveler trades time against money:
// p = 0.5 is neutral, larger p weighs money more. All functions are pure.
package toll

import "math"

// NeutralPreference is the default preference of a traveler.
const NeutralPreference = 0.5

// MarginalCostToll returns the congestion part of a route cost, the
// difference between its current cost and its free-flow time.
func MarginalCostToll(cost, freeFlow float64) float64 {
	return cost - freeFlow
}

// IndifferenceToll returns the toll (m + t·p)/p that makes a traveler with
// preference p indifferent between paying in time and paying in money,
// where m is the route marginal cost and t the travel time.
// A non-positive p yields 0.
func IndifferenceToll(marginal, travelTime, preference float64) float64 {
	if preference <= 0 {
		return 0
	}
	return (marginal + travelTime*preference) / preference
}

// SidePayment returns the share of an OD pair's collected tolls returned to
// each unit of its demand: total·rate/demand. A non-positive demand yields 0.
func SidePayment(total, rate, demand float64) float64 {
	if demand <= 0 {
		return 0
	}
	return total * rate / demand
}

// PreferenceWeight returns (1−p)/p, the weight with which one unit of a
// traveler's flow enters the preference-weighted link volume. It is 1 for
// the neutral preference and 0 for a traveler who only cares about money.
// A non-positive p yields +Inf.
func PreferenceWeight(preference float64) float64 {
	if preference <= 0 {
		return math.Inf(1)
	}
	return (1 - preference) / preference
}
