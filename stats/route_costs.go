// SPDX-License-Identifier: MIT
package stats

import (
	"fmt"

	"github.com/samber/lo"
)

// RouteCosts keeps, per OD pair, the running sum of every route's cost and
// the "true minimum": the smallest route sum divided by the number of
// recorded episodes, i.e. the best average any fixed route would have given.
type RouteCosts struct {
	order    []string
	sums     map[string][]float64
	min      map[string]float64
	episodes int
}

// NewRouteCosts prepares empty statistics for ods with the given route-set sizes.
func NewRouteCosts(ods []string, sizes []int) (*RouteCosts, error) {
	if len(ods) != len(sizes) {
		return nil, fmt.Errorf("stats: %d OD pairs, %d sizes: %w", len(ods), len(sizes), ErrShape)
	}
	rc := &RouteCosts{
		order: append([]string(nil), ods...),
		sums:  make(map[string][]float64, len(ods)),
		min:   make(map[string]float64, len(ods)),
	}
	for i, od := range ods {
		if sizes[i] <= 0 {
			return nil, fmt.Errorf("stats: OD %s size %d: %w", od, sizes[i], ErrShape)
		}
		rc.sums[od] = make([]float64, sizes[i])
	}

	return rc, nil
}

// Record adds one episode of route costs. costs must carry every OD pair
// with exactly its route-set size.
func (rc *RouteCosts) Record(costs map[string][]float64) error {
	// 1) Validate before mutating
	for _, od := range rc.order {
		if len(costs[od]) != len(rc.sums[od]) {
			return fmt.Errorf("stats: OD %s: %d costs for %d routes: %w", od, len(costs[od]), len(rc.sums[od]), ErrShape)
		}
	}

	// 2) Accumulate
	rc.episodes++
	for _, od := range rc.order {
		s := rc.sums[od]
		for k, c := range costs[od] {
			s[k] += c
		}
		rc.min[od] = lo.Min(s) / float64(rc.episodes)
	}

	return nil
}

// Episodes returns the number of recorded episodes.
func (rc *RouteCosts) Episodes() int { return rc.episodes }

// Min returns the true minimum average route cost of od (0 before any episode).
func (rc *RouteCosts) Min(od string) float64 { return rc.min[od] }

// Sums returns a copy of the running route-cost sums of od.
func (rc *RouteCosts) Sums(od string) []float64 {
	return append([]float64(nil), rc.sums[od]...)
}

// Averages returns the per-route average cost of od over recorded episodes.
func (rc *RouteCosts) Averages(od string) []float64 {
	if rc.episodes == 0 {
		return make([]float64, len(rc.sums[od]))
	}
	n := float64(rc.episodes)
	return lo.Map(rc.sums[od], func(s float64, _ int) float64 { return s / n })
}

// Reset clears all accumulated statistics.
func (rc *RouteCosts) Reset() {
	rc.episodes = 0
	for _, od := range rc.order {
		clear(rc.sums[od])
		delete(rc.min, od)
	}
}
