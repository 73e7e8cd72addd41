// SPDX-License-Identifier: MIT
package stats

import (
	"github.com/samber/lo"

	"github.com/katalvlaran/routechoice/agent"
)

// ODSummary is the end-of-run picture of one OD pair.
type ODSummary struct {
	OD string

	// Regrets averaged over all episodes.
	Regrets Regrets

	// RouteCosts is each route's average cost over all episodes.
	RouteCosts []float64

	// Strategy is the flow-weighted sum of the travelers' strategies,
	// divided by the OD demand.
	Strategy []float64

	// Shares is the fraction of demand on each route in the last episode.
	Shares []float64

	// ExpectedCost is the demand-normalized Σ strategy[r]·RouteCosts[r]
	// over the pair's travelers.
	ExpectedCost float64
}

// Summary is the end-of-run picture of the whole experiment.
type Summary struct {
	ODs []ODSummary

	// ExpectedCost is the total-demand-normalized expected cost.
	ExpectedCost float64
}

// Summarize builds the end-of-run summary from the tracker, the route cost
// statistics and the final travelers.
func Summarize(t *Tracker, rc *RouteCosts, drivers []agent.Driver) Summary {
	byOD := lo.GroupBy(drivers, func(d agent.Driver) string { return d.OD() })

	var (
		out   Summary
		total float64
	)
	for _, od := range t.ods {
		avg := rc.Averages(od.ID)
		s := ODSummary{
			OD:         od.ID,
			Regrets:    t.Average(od.ID),
			RouteCosts: avg,
			Strategy:   AverageStrategy(byOD[od.ID], len(avg), od.Demand),
			Shares:     RouteShares(byOD[od.ID], len(avg), od.Demand),
		}
		s.ExpectedCost = ExpectedCost(byOD[od.ID], avg, od.Demand)
		total += s.ExpectedCost * od.Demand
		out.ODs = append(out.ODs, s)
	}
	if t.totalDemand > 0 {
		out.ExpectedCost = total / t.totalDemand
	}

	return out
}

// AverageStrategy returns Σ flow·strategy over drivers divided by demand,
// for k routes. A non-positive demand yields zeros.
func AverageStrategy(drivers []agent.Driver, k int, demand float64) []float64 {
	out := make([]float64, k)
	if demand <= 0 {
		return out
	}
	for _, d := range drivers {
		for i, v := range d.Strategy() {
			if i < k {
				out[i] += d.Flow() * v
			}
		}
	}
	for i := range out {
		out[i] /= demand
	}
	return out
}

// RouteShares returns the fraction of demand whose last action was each of
// the k routes.
func RouteShares(drivers []agent.Driver, k int, demand float64) []float64 {
	out := make([]float64, k)
	if demand <= 0 {
		return out
	}
	for _, d := range drivers {
		if a := d.LastAction(); a >= 0 && a < k {
			out[a] += d.Flow() / demand
		}
	}
	return out
}

// ExpectedCost returns Σ flow·(strategy·costs) over drivers divided by demand,
// or 0 for a non-positive demand.
func ExpectedCost(drivers []agent.Driver, costs []float64, demand float64) float64 {
	if demand <= 0 {
		return 0
	}
	var sum float64
	for _, d := range drivers {
		sum += d.Flow() * dot(d.Strategy(), costs)
	}
	return sum / demand
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		if i < len(b) {
			s += a[i] * b[i]
		}
	}
	return s
}
