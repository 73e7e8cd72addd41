// SPDX-License-Identifier: MIT
package agent

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/routechoice/policy"
	"github.com/katalvlaran/routechoice/toll"
)

// Sentinel errors for agents.
var (
	// ErrNoActions indicates a learner built with an empty route set.
	ErrNoActions = errors.New("agent: no actions")

	// ErrNilPolicy indicates a learner built without a policy.
	ErrNilPolicy = errors.New("agent: policy is nil")

	// ErrActionOutOfRange indicates an action index outside the route set.
	ErrActionOutOfRange = errors.New("agent: action out of range")

	// ErrNoAction indicates an update before any action was chosen.
	ErrNoAction = errors.New("agent: no action chosen yet")

	// ErrBadAlpha indicates a learning rate outside [0,1].
	ErrBadAlpha = errors.New("agent: alpha must be in [0,1]")

	// ErrInitialCosts indicates initial costs whose length differs from the route set.
	ErrInitialCosts = errors.New("agent: initial costs do not match actions")

	// ErrMissingInfo indicates an observation lacking data the utility needs.
	ErrMissingInfo = errors.New("agent: observation lacks required data")
)

// Driver is the contract the experiment loop and the statistics tracker
// rely on.
type Driver interface {
	ID() string
	OD() string
	Flow() float64
	Preference() float64
	Strategy() []float64
	LastAction() int
	ChooseAction() (int, error)
	UpdateStrategy(travelTime float64, info Info, alpha float64) error
	AverageCost() float64
	EstimatedRegret() float64
	RealRegret() float64
	UpdateRealRegret(trueMin float64)
}

// History is the bookkeeping a learner keeps for one action.
type History struct {
	RealizedSum     float64 // Σ costs actually experienced on this action
	Samples         int     // times this action was chosen and observed
	ExtrapolatedSum float64 // Σ last-known cost, one term per episode
	AverageCost     float64 // current estimate of the action's cost
	LastCost        float64 // most recent (or initial) cost of this action
	LastTravelTime  float64 // most recent travel time observed on this action
}

// Option configures a Learner.
type Option func(*Learner)

// WithExtrapolation switches between the extrapolated average
// (extrapolatedSum/iteration) and the realized one (realizedSum/samples).
func WithExtrapolation(on bool) Option {
	return func(l *Learner) { l.extrapolate = on }
}

// WithInitialCosts seeds every action's last cost, typically with its
// free-flow time. The length must match the route set.
func WithInitialCosts(costs []float64) Option {
	return func(l *Learner) {
		l.initial = append([]float64(nil), costs...)
	}
}

// WithFlow sets the volume this learner controls. Panics on flow ≤ 0.
func WithFlow(flow float64) Option {
	if flow <= 0 || math.IsNaN(flow) {
		panic("agent: WithFlow(flow<=0)")
	}
	return func(l *Learner) { l.flow = flow }
}

// WithPreference sets the money-over-time preference. Panics outside (0,1].
func WithPreference(p float64) Option {
	if p <= 0 || p > 1 || math.IsNaN(p) {
		panic("agent: WithPreference(p∉(0,1])")
	}
	return func(l *Learner) { l.preference = p }
}

// Learner is the shared engine of RMQ, TQ and GTQ travelers.
type Learner struct {
	id, od     string
	flow       float64
	preference float64

	policy      policy.Policy
	utility     Utility
	extrapolate bool
	initial     []float64

	q            []float64
	history      []History
	actionRegret []float64

	iteration  int
	lastAction int
	minAverage float64
	sumCost    float64
	estRegret  float64
	realRegret float64
	lastToll   float64
	tollsPaid  float64
}

// NewLearner builds a learner over k actions with the given utility.
func NewLearner(id, od string, k int, u Utility, p policy.Policy, opts ...Option) (*Learner, error) {
	// 1) Validate
	if k <= 0 {
		return nil, fmt.Errorf("agent %s: k=%d: %w", id, k, ErrNoActions)
	}
	if p == nil {
		return nil, fmt.Errorf("agent %s: %w", id, ErrNilPolicy)
	}

	// 2) Defaults and options
	l := &Learner{
		id:         id,
		od:         od,
		flow:       1,
		preference: toll.NeutralPreference,
		policy:     p,
		utility:    u,
		lastAction: -1,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.initial != nil && len(l.initial) != k {
		return nil, fmt.Errorf("agent %s: %d initial costs for %d actions: %w", id, len(l.initial), k, ErrInitialCosts)
	}

	// 3) Tables
	l.q = make([]float64, k)
	l.history = make([]History, k)
	l.actionRegret = make([]float64, k)
	for i := range l.history {
		if l.initial != nil {
			l.history[i].LastCost = l.initial[i]
		}
	}

	return l, nil
}

// NewRMQLearning builds a regret-minimizing learner. It extrapolates costs
// unless an option says otherwise.
func NewRMQLearning(id, od string, k int, p policy.Policy, opts ...Option) (*Learner, error) {
	return NewLearner(id, od, k, RegretMinimizing{}, p, append([]Option{WithExtrapolation(true)}, opts...)...)
}

// NewTQLearning builds a marginal-cost-tolled learner.
func NewTQLearning(id, od string, k int, p policy.Policy, opts ...Option) (*Learner, error) {
	return NewLearner(id, od, k, MarginalCostTolling{}, p, opts...)
}

// NewGTQLearning builds a preference-aware tolled learner.
func NewGTQLearning(id, od string, k int, p policy.Policy, opts ...Option) (*Learner, error) {
	return NewLearner(id, od, k, GeneralizedTolling{}, p, opts...)
}

// ID returns the traveler identifier.
func (l *Learner) ID() string { return l.id }

// OD returns the traveler's OD pair.
func (l *Learner) OD() string { return l.od }

// Flow returns the volume the traveler controls.
func (l *Learner) Flow() float64 { return l.flow }

// Preference returns the money-over-time preference.
func (l *Learner) Preference() float64 { return l.preference }

// Algorithm names the utility in use.
func (l *Learner) Algorithm() string { return l.utility.Name() }

// Strategy returns the Q-table. The slice is shared; do not modify it.
func (l *Learner) Strategy() []float64 { return l.q }

// LastAction returns the most recent action, or -1 before the first choice.
func (l *Learner) LastAction() int { return l.lastAction }

// Iteration returns the number of choices made so far.
func (l *Learner) Iteration() int { return l.iteration }

// History returns a copy of the bookkeeping of action a.
func (l *Learner) History(a int) (History, error) {
	if a < 0 || a >= len(l.history) {
		return History{}, fmt.Errorf("agent %s: action %d: %w", l.id, a, ErrActionOutOfRange)
	}
	return l.history[a], nil
}

// MinAverageCost returns the smallest per-action average cost.
func (l *Learner) MinAverageCost() float64 { return l.minAverage }

// AverageCost returns the mean utility cost per episode so far.
func (l *Learner) AverageCost() float64 {
	if l.iteration == 0 {
		return 0
	}
	return l.sumCost / float64(l.iteration)
}

// EstimatedRegret returns the regret against the learner's own history.
func (l *Learner) EstimatedRegret() float64 { return l.estRegret }

// ActionRegret returns the estimated regret of action a, 0 when out of range.
func (l *Learner) ActionRegret(a int) float64 {
	if a < 0 || a >= len(l.actionRegret) {
		return 0
	}
	return l.actionRegret[a]
}

// RealRegret returns the regret against the network's true minimum.
func (l *Learner) RealRegret() float64 { return l.realRegret }

// LastToll returns the toll paid in the last update.
func (l *Learner) LastToll() float64 { return l.lastToll }

// TollsPaid returns the total toll paid so far.
func (l *Learner) TollsPaid() float64 { return l.tollsPaid }

// ChooseAction asks the policy for a route and advances the iteration once
// the choice is accepted.
func (l *Learner) ChooseAction() (int, error) {
	a := l.policy.Act(l)
	if a < 0 || a >= len(l.q) {
		return -1, fmt.Errorf("agent %s: policy chose %d of %d: %w", l.id, a, len(l.q), ErrActionOutOfRange)
	}
	l.iteration++
	l.lastAction = a

	return a, nil
}

// UpdateStrategy learns from the travel time of the last chosen action.
//
// Steps:
//  1. Utility: cost and toll for the last action.
//  2. History: chosen action's realized stats, every action's extrapolated
//     sum and average, and the minimum average.
//  3. Q[a] ← (1−α)·Q[a] + α·(1 − cost).
//  4. Estimated regret, overall and per action.
func (l *Learner) UpdateStrategy(travelTime float64, info Info, alpha float64) error {
	if l.lastAction < 0 {
		return fmt.Errorf("agent %s: %w", l.id, ErrNoAction)
	}
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return fmt.Errorf("agent %s: alpha=%g: %w", l.id, alpha, ErrBadAlpha)
	}
	a := l.lastAction

	// 1) Utility
	cost, paid, err := l.utility.Cost(travelTime, a, info, l.preference)
	if err != nil {
		return fmt.Errorf("agent %s: %w", l.id, err)
	}
	l.sumCost += cost
	l.lastToll = paid
	l.tollsPaid += paid

	// 2) History
	l.updateHistory(a, cost, travelTime)

	// 3) Q
	l.q[a] = (1-alpha)*l.q[a] + alpha*(1-cost)

	// 4) Regret
	l.updateRegret()

	return nil
}

// updateHistory applies the bookkeeping of step 2.
func (l *Learner) updateHistory(a int, cost, travelTime float64) {
	h := &l.history[a]
	h.RealizedSum += cost
	h.Samples++
	h.LastCost = cost
	h.LastTravelTime = travelTime

	l.minAverage = math.Inf(1)
	for i := range l.history {
		h = &l.history[i]
		h.ExtrapolatedSum += h.LastCost
		switch {
		case l.extrapolate:
			h.AverageCost = h.ExtrapolatedSum / float64(l.iteration)
		case h.Samples > 0:
			h.AverageCost = h.RealizedSum / float64(h.Samples)
		default:
			h.AverageCost = 0
		}
		l.minAverage = math.Min(l.minAverage, h.AverageCost)
	}
}

// updateRegret applies step 4.
func (l *Learner) updateRegret() {
	l.estRegret = l.AverageCost() - l.minAverage
	for i, h := range l.history {
		if !l.extrapolate && h.Samples == 0 {
			l.actionRegret[i] = 0
			continue
		}
		l.actionRegret[i] = h.AverageCost - l.minAverage
	}
}

// UpdateRealRegret sets the regret against trueMin, the best route's
// realized average cost for this learner's OD pair.
func (l *Learner) UpdateRealRegret(trueMin float64) {
	l.realRegret = l.AverageCost() - trueMin
}
