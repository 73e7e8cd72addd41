// SPDX-License-Identifier: MIT
package agent

import (
	"fmt"
	"math"

	"github.com/katalvlaran/routechoice/policy"
	"github.com/katalvlaran/routechoice/toll"
)

// SimpleDriver is a non-learning baseline: its strategy is constant, so a
// greedy policy keeps it on the first route and only exploration moves it.
type SimpleDriver struct {
	id, od     string
	flow       float64
	policy     policy.Policy
	strategy   []float64
	lastAction int
	iteration  int
	sumCost    float64
}

// SimpleOption configures a SimpleDriver.
type SimpleOption func(*SimpleDriver)

// WithSimpleFlow sets the volume the baseline driver controls (default 1).
// Panics on flow ≤ 0.
func WithSimpleFlow(flow float64) SimpleOption {
	if flow <= 0 || math.IsNaN(flow) {
		panic("agent: WithSimpleFlow(flow<=0)")
	}
	return func(d *SimpleDriver) { d.flow = flow }
}

// NewSimpleDriver returns a baseline driver over k routes.
func NewSimpleDriver(id, od string, k int, p policy.Policy, opts ...SimpleOption) (*SimpleDriver, error) {
	if k <= 0 {
		return nil, fmt.Errorf("agent %s: k=%d: %w", id, k, ErrNoActions)
	}
	if p == nil {
		return nil, fmt.Errorf("agent %s: %w", id, ErrNilPolicy)
	}
	s := make([]float64, k)
	for i := range s {
		s[i] = 1
	}

	d := &SimpleDriver{id: id, od: od, flow: 1, policy: p, strategy: s, lastAction: -1}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

func (d *SimpleDriver) ID() string          { return d.id }
func (d *SimpleDriver) OD() string          { return d.od }
func (d *SimpleDriver) Flow() float64       { return d.flow }
func (d *SimpleDriver) Preference() float64 { return toll.NeutralPreference }
func (d *SimpleDriver) Strategy() []float64 { return d.strategy }
func (d *SimpleDriver) LastAction() int     { return d.lastAction }

// ChooseAction asks the policy for a route. A rejected choice leaves the
// driver untouched.
func (d *SimpleDriver) ChooseAction() (int, error) {
	a := d.policy.Act(d)
	if a < 0 || a >= len(d.strategy) {
		return -1, fmt.Errorf("agent %s: policy chose %d of %d: %w", d.id, a, len(d.strategy), ErrActionOutOfRange)
	}
	d.iteration++
	d.lastAction = a

	return a, nil
}

// UpdateStrategy records the travel time and learns nothing.
func (d *SimpleDriver) UpdateStrategy(travelTime float64, _ Info, _ float64) error {
	if d.lastAction < 0 {
		return fmt.Errorf("agent %s: %w", d.id, ErrNoAction)
	}
	d.sumCost += travelTime

	return nil
}

// AverageCost returns the mean travel time per episode.
func (d *SimpleDriver) AverageCost() float64 {
	if d.iteration == 0 {
		return 0
	}
	return d.sumCost / float64(d.iteration)
}

// EstimatedRegret is always 0: the baseline keeps no history.
func (d *SimpleDriver) EstimatedRegret() float64 { return 0 }

// RealRegret is always 0.
func (d *SimpleDriver) RealRegret() float64 { return 0 }

// UpdateRealRegret is a no-op.
func (d *SimpleDriver) UpdateRealRegret(float64) {}
