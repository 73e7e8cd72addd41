// SPDX-License-Identifier: MIT
package env

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/routechoice/agent"
	"github.com/katalvlaran/routechoice/logger"
	"github.com/katalvlaran/routechoice/network"
	"github.com/katalvlaran/routechoice/stats"
	"github.com/katalvlaran/routechoice/toll"
)

// Sentinel errors for the environment.
var (
	// ErrNilNetwork indicates New was called without a network.
	ErrNilNetwork = errors.New("env: network is nil")

	// ErrActionOutOfRange indicates a route index outside the driver's route set.
	ErrActionOutOfRange = errors.New("env: action out of range")

	// ErrUnknownDriver indicates a lookup of a driver the environment does not hold.
	ErrUnknownDriver = errors.New("env: unknown driver")

	// ErrUnknownDistribution indicates an unsupported preference distribution name.
	ErrUnknownDistribution = errors.New("env: unknown preference distribution")
)

// DefaultVehiclesPerAgent is the flow each driver controls by default.
const DefaultVehiclesPerAgent = 1.0

const flowEpsilon = 1e-9

// Option configures New.
type Option func(*Env)

// WithVehiclesPerAgent sets the flow each driver controls. Panics on f ≤ 0.
func WithVehiclesPerAgent(f float64) Option {
	if f <= 0 || math.IsNaN(f) {
		panic("env: WithVehiclesPerAgent(f<=0)")
	}
	return func(e *Env) { e.factor = f }
}

// WithNormalizedCosts chooses whether rewards and infos are divided by the
// network scale. On by default.
func WithNormalizedCosts(on bool) Option {
	return func(e *Env) { e.normalized = on }
}

// WithRevenueRedistribution sets the share of collected tolls paid back to
// each OD pair's drivers. Panics outside [0,1].
func WithRevenueRedistribution(rate float64) Option {
	if rate < 0 || rate > 1 || math.IsNaN(rate) {
		panic("env: WithRevenueRedistribution(rate∉[0,1])")
	}
	return func(e *Env) { e.redistribution = rate }
}

// WithPreferences draws each driver's preference from d.
func WithPreferences(d Distribution) Option {
	return func(e *Env) { e.preferences = d }
}

// WithLogger sets the logger. Defaults to logger.GetLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Env) { e.log = l }
}

// Driver is the environment's view of one traveler.
type Driver struct {
	ID         string
	OD         string
	Flow       float64
	Preference float64

	order int
	route int
}

// StepResult carries the per-driver outcome of an episode.
type StepResult struct {
	Rewards map[string]float64
	Infos   map[string]agent.Info
}

// Env is the episode protocol around a road network.
type Env struct {
	net            *network.Network
	factor         float64
	normalized     bool
	redistribution float64
	preferences    Distribution
	log            logrus.FieldLogger

	drivers []*Driver
	byID    map[string]*Driver

	flows, weighted *network.FlowMatrix
	routeCosts      *stats.RouteCosts
	sidePayments    map[string]float64

	avgTravelTime     float64
	normAvgTravelTime float64
	iteration         int
}

// New builds an environment over net and creates its drivers.
//
// Steps:
//  1. Apply options and validate the network.
//  2. Split each OD demand into ⌊demand/f⌋ drivers of flow f plus one
//     remainder driver.
//  3. Draw preferences and prepare the flow matrices and route statistics.
func New(net *network.Network, opts ...Option) (*Env, error) {
	// 1) Options
	if net == nil {
		return nil, ErrNilNetwork
	}
	e := &Env{
		net:          net,
		factor:       DefaultVehiclesPerAgent,
		normalized:   true,
		preferences:  Fixed(toll.NeutralPreference),
		log:          logger.GetLogger(),
		byID:         make(map[string]*Driver),
		sidePayments: make(map[string]float64),
	}
	for _, opt := range opts {
		opt(e)
	}

	// 2) Drivers
	ods := net.ODPairs()
	ids := make([]string, len(ods))
	for i, od := range ods {
		ids[i] = od.ID()
		n := int(math.Floor(od.Demand()/e.factor + flowEpsilon))
		for j := 0; j < n; j++ {
			e.addDriver(od, j, e.factor)
		}
		if rest := od.Demand() - float64(n)*e.factor; rest > flowEpsilon {
			e.addDriver(od, n, rest)
		}
	}

	// 3) State
	e.flows = net.EmptyFlowMatrix()
	e.weighted = net.EmptyFlowMatrix()
	rc, err := stats.NewRouteCosts(ids, net.Shape())
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	e.routeCosts = rc
	e.log.WithFields(logrus.Fields{
		"drivers": len(e.drivers),
		"ods":     len(ods),
		"factor":  e.factor,
	}).Debug("environment ready")

	return e, nil
}

func (e *Env) addDriver(od *network.ODPair, i int, flow float64) {
	d := &Driver{
		ID:         fmt.Sprintf("driver_%s_%d", od.ID(), i),
		OD:         od.ID(),
		Flow:       flow,
		Preference: e.preferences.Sample(),
		order:      od.Order(),
		route:      -1,
	}
	e.drivers = append(e.drivers, d)
	e.byID[d.ID] = d
}

// Network returns the underlying network.
func (e *Env) Network() *network.Network { return e.net }

// Normalized reports whether costs are divided by the network scale.
func (e *Env) Normalized() bool { return e.normalized }

// Drivers returns the drivers in creation order.
func (e *Env) Drivers() []Driver {
	out := make([]Driver, len(e.drivers))
	for i, d := range e.drivers {
		out[i] = *d
	}
	return out
}

// Driver looks up one driver by ID.
func (e *Env) Driver(id string) (Driver, error) {
	d, ok := e.byID[id]
	if !ok {
		return Driver{}, fmt.Errorf("env: %s: %w", id, ErrUnknownDriver)
	}
	return *d, nil
}

// Iteration returns the number of completed steps.
func (e *Env) Iteration() int { return e.iteration }

// AvgTravelTime returns the last episode's demand-weighted travel time.
func (e *Env) AvgTravelTime() float64 { return e.avgTravelTime }

// NormalizedAvgTravelTime returns AvgTravelTime divided by the network scale.
func (e *Env) NormalizedAvgTravelTime() float64 { return e.normAvgTravelTime }

// FlowDistribution returns a copy of the last episode's assignment.
func (e *Env) FlowDistribution() *network.FlowMatrix { return e.flows.Clone() }

// RouteCosts returns the running route cost statistics.
func (e *Env) RouteCosts() *stats.RouteCosts { return e.routeCosts }

// SidePayment returns the last side payment per unit of flow on od.
func (e *Env) SidePayment(od string) float64 { return e.sidePayments[od] }

// FreeFlowTimes returns the free-flow time of every route of od, in reward units.
func (e *Env) FreeFlowTimes(od string) ([]float64, error) {
	routes, err := e.net.Routes(od)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	out := make([]float64, len(routes))
	for i, r := range routes {
		out[i] = r.FreeFlowTime(e.normalized)
	}
	return out, nil
}

// Reset restores free-flow conditions and returns every driver's initial info.
func (e *Env) Reset() map[string]agent.Info {
	e.net.Reset()
	e.flows.Zero()
	e.weighted.Zero()
	clear(e.sidePayments)

	infos := make(map[string]agent.Info, len(e.drivers))
	for _, d := range e.drivers {
		infos[d.ID] = e.info(d, -1)
	}
	return infos
}

// Step plays one episode.
//
// Steps:
//  1. Route each known driver's flow onto its chosen route; unknown drivers
//     are logged and skipped, out-of-range routes abort the step.
//  2. Evaluate the assignment on the network.
//  3. Record route costs and compute per-OD side payments.
//  4. Build each acting driver's reward and info.
func (e *Env) Step(actions map[string]int) (*StepResult, error) {
	// 1) Assignment
	e.flows.Zero()
	e.weighted.Zero()
	ids := make([]string, 0, len(actions))
	for id := range actions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	acted := make([]*Driver, 0, len(ids))
	for _, id := range ids {
		d, ok := e.byID[id]
		if !ok {
			e.log.WithField("driver", id).Warn("driver does not exist in the environment")
			continue
		}
		a := actions[id]
		if a < 0 || a >= e.net.RouteSetSize(d.OD) {
			return nil, fmt.Errorf("env: driver %s route %d of %d: %w", id, a, e.net.RouteSetSize(d.OD), ErrActionOutOfRange)
		}
		d.route = a
		if err := e.flows.Add(d.order, a, d.Flow); err != nil {
			return nil, fmt.Errorf("env: %w", err)
		}
		if err := e.weighted.Add(d.order, a, d.Flow*toll.PreferenceWeight(d.Preference)); err != nil {
			return nil, fmt.Errorf("env: %w", err)
		}
		acted = append(acted, d)
	}

	// 2) Evaluation
	avg, norm, err := e.net.EvaluateAssignment(e.flows, e.weighted)
	if err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}
	e.avgTravelTime, e.normAvgTravelTime = avg, norm

	// 3) Statistics and side payments
	costs := make(map[string][]float64, len(e.net.ODPairs()))
	for _, od := range e.net.ODPairs() {
		row := e.flows.Row(od.Order())
		var revenue float64
		cs := make([]float64, len(od.Routes()))
		for k, r := range od.Routes() {
			cs[k] = r.Cost(e.normalized)
			revenue += row[k] * r.MarginalCost(e.normalized)
		}
		costs[od.ID()] = cs
		e.sidePayments[od.ID()] = toll.SidePayment(revenue, e.redistribution, od.Demand())
	}
	if err = e.routeCosts.Record(costs); err != nil {
		return nil, fmt.Errorf("env: %w", err)
	}

	// 4) Outcome
	res := &StepResult{
		Rewards: make(map[string]float64, len(acted)),
		Infos:   make(map[string]agent.Info, len(acted)),
	}
	for _, d := range acted {
		r, _ := e.net.Route(d.OD, d.route)
		res.Rewards[d.ID] = r.Cost(e.normalized)
		res.Infos[d.ID] = e.info(d, d.route)
	}
	e.iteration++

	return res, nil
}

// info describes the driver's OD pair and, for route ≥ 0, its chosen route.
func (e *Env) info(d *Driver, route int) agent.Info {
	fft, _ := e.FreeFlowTimes(d.OD)
	in := agent.Info{
		FreeFlowTimes: fft,
		Preference:    d.Preference,
		SidePayment:   e.sidePayments[d.OD],
	}
	if route >= 0 {
		if r, err := e.net.Route(d.OD, route); err == nil {
			in.MarginalCost = r.MarginalCost(e.normalized)
		}
	}
	return in
}
