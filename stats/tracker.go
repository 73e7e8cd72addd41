// SPDX-License-Identifier: MIT
// Package stats measures how far travelers are from the best they could have
// done: per-episode real and estimated regrets aggregated per OD pair and
// globally, their running sums, and the end-of-run strategy summaries.
//
// Every per-OD figure is the plain sum over the pair's travelers divided by
// the pair's demand; global figures divide by total demand.
package stats

import (
	"errors"
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/katalvlaran/routechoice/agent"
)

// Sentinel errors for statistics.
var (
	// ErrShape indicates mismatched OD/route layouts.
	ErrShape = errors.New("stats: layout mismatch")

	// ErrUnknownOD indicates a traveler whose OD pair is not tracked.
	ErrUnknownOD = errors.New("stats: unknown OD pair")
)

// ODDemand names an OD pair and its demand.
type ODDemand struct {
	ID     string
	Demand float64
}

// Regrets groups the four regret measures.
type Regrets struct {
	Real      float64 // realized average cost − true minimum
	Estimated float64 // realized average cost − own minimum estimate
	AbsDiff   float64 // |Estimated − Real|
	RelDiff   float64 // |Estimated − Real| / max(|Estimated|, |Real|)
}

func (r Regrets) add(o Regrets) Regrets {
	return Regrets{r.Real + o.Real, r.Estimated + o.Estimated, r.AbsDiff + o.AbsDiff, r.RelDiff + o.RelDiff}
}

func (r Regrets) scale(f float64) Regrets {
	return Regrets{r.Real * f, r.Estimated * f, r.AbsDiff * f, r.RelDiff * f}
}

// RelativeDifference returns |a−b| / max(|a|,|b|), or 0 when both are 0.
func RelativeDifference(a, b float64) float64 {
	d := math.Abs(a - b)
	m := math.Max(math.Abs(a), math.Abs(b))
	if m == 0 {
		return 0
	}
	return d / m
}

// EpisodeStats is one row of the statistics table.
type EpisodeStats struct {
	Episode       int
	AvgTravelTime float64
	Global        Regrets
	PerOD         map[string]Regrets
}

// Tracker aggregates regrets episode after episode.
type Tracker struct {
	ods         []ODDemand
	demand      map[string]float64
	totalDemand float64

	episodes   int
	cumulative map[string]Regrets
	global     Regrets
	history    []EpisodeStats
	keep       bool
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithoutHistory stops the tracker from retaining per-episode rows.
func WithoutHistory() TrackerOption {
	return func(t *Tracker) { t.keep = false }
}

// NewTracker returns a Tracker for the given OD pairs.
func NewTracker(ods []ODDemand, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		ods:        append([]ODDemand(nil), ods...),
		demand:     make(map[string]float64, len(ods)),
		cumulative: make(map[string]Regrets, len(ods)),
		keep:       true,
	}
	for _, od := range ods {
		t.demand[od.ID] = od.Demand
		t.totalDemand += od.Demand
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Observe records one episode.
//
// Steps:
//  1. Per OD, sum real, estimated, absolute and relative regret
//     differences over the travelers. Each traveler counts once whatever
//     flow it controls.
//  2. Divide each OD sum by its demand; divide the grand sum by total demand.
//  3. Add the per-OD values to the running sums.
func (t *Tracker) Observe(episode int, avgTravelTime float64, drivers []agent.Driver) (EpisodeStats, error) {
	// 1) Sums
	sums := make(map[string]Regrets, len(t.ods))
	var total Regrets
	for _, d := range drivers {
		if _, ok := t.demand[d.OD()]; !ok {
			return EpisodeStats{}, fmt.Errorf("driver %s OD %s: %w", d.ID(), d.OD(), ErrUnknownOD)
		}
		rr, er := d.RealRegret(), d.EstimatedRegret()
		r := Regrets{
			Real:      rr,
			Estimated: er,
			AbsDiff:   math.Abs(er - rr),
			RelDiff:   RelativeDifference(er, rr),
		}
		sums[d.OD()] = sums[d.OD()].add(r)
		total = total.add(r)
	}

	// 2) Averages
	row := EpisodeStats{
		Episode:       episode,
		AvgTravelTime: avgTravelTime,
		PerOD:         make(map[string]Regrets, len(t.ods)),
	}
	for _, od := range t.ods {
		var v Regrets
		if od.Demand > 0 {
			v = sums[od.ID].scale(1 / od.Demand)
		}
		row.PerOD[od.ID] = v
		// 3) Running sums
		t.cumulative[od.ID] = t.cumulative[od.ID].add(v)
	}
	if t.totalDemand > 0 {
		row.Global = total.scale(1 / t.totalDemand)
	}
	t.global = t.global.add(row.Global)
	t.episodes++
	if t.keep {
		t.history = append(t.history, row)
	}

	return row, nil
}

// Episodes returns the number of observed episodes.
func (t *Tracker) Episodes() int { return t.episodes }

// Cumulative returns the running per-episode sum of od's regrets.
func (t *Tracker) Cumulative(od string) Regrets { return t.cumulative[od] }

// Average returns od's regrets averaged over observed episodes.
func (t *Tracker) Average(od string) Regrets {
	if t.episodes == 0 {
		return Regrets{}
	}
	return t.cumulative[od].scale(1 / float64(t.episodes))
}

// GlobalAverage returns the global regrets averaged over observed episodes.
func (t *Tracker) GlobalAverage() Regrets {
	if t.episodes == 0 {
		return Regrets{}
	}
	return t.global.scale(1 / float64(t.episodes))
}

// History returns the retained episode rows.
func (t *Tracker) History() []EpisodeStats { return t.history }

// ODs returns the tracked OD pairs in order.
func (t *Tracker) ODs() []string {
	return lo.Map(t.ods, func(o ODDemand, _ int) string { return o.ID })
}
