// SPDX-License-Identifier: MIT
// Package sim runs repeated route-choice episodes: drivers pick routes, the
// environment evaluates the assignment, drivers learn, and the regret
// tracker records how far they are from the best fixed route.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/routechoice/agent"
	"github.com/katalvlaran/routechoice/env"
	"github.com/katalvlaran/routechoice/logger"
	"github.com/katalvlaran/routechoice/network"
	"github.com/katalvlaran/routechoice/policy"
	"github.com/katalvlaran/routechoice/stats"
)

// Defaults for a Simulation.
const (
	DefaultEpisodes     = 1000
	DefaultAlphaDecay   = 0.99
	DefaultEpsilonDecay = 0.99
	DefaultLogEvery     = 100
)

// Sentinel errors for the experiment loop.
var (
	// ErrNoDrivers indicates a simulation without travelers.
	ErrNoDrivers = errors.New("sim: no drivers")

	// ErrNilEnv indicates a simulation without an environment.
	ErrNilEnv = errors.New("sim: environment is nil")
)

// Hook observes every finished episode.
type Hook func(stats.EpisodeStats)

// Option configures a Simulation.
type Option func(*Simulation)

// WithEpisodes sets the number of episodes. Panics on n < 1.
func WithEpisodes(n int) Option {
	if n < 1 {
		panic("sim: WithEpisodes(n<1)")
	}
	return func(s *Simulation) { s.episodes = n }
}

// WithAlphaDecay sets the per-episode learning-rate decay. Panics outside (0,1].
func WithAlphaDecay(d float64) Option {
	if d <= 0 || d > 1 || math.IsNaN(d) {
		panic("sim: WithAlphaDecay(d∉(0,1])")
	}
	return func(s *Simulation) { s.alphaDecay = d }
}

// WithMinAlpha sets the learning-rate floor. Panics outside [0,1].
func WithMinAlpha(m float64) Option {
	if m < 0 || m > 1 || math.IsNaN(m) {
		panic("sim: WithMinAlpha(m∉[0,1])")
	}
	return func(s *Simulation) { s.minAlpha = m }
}

// WithEpsilonDecay sets the decay handed to the policy every episode.
func WithEpsilonDecay(d float64) Option {
	if d <= 0 || d > 1 || math.IsNaN(d) {
		panic("sim: WithEpsilonDecay(d∉(0,1])")
	}
	return func(s *Simulation) { s.epsilonDecay = d }
}

// WithWorkers updates drivers on an ants pool of n goroutines when n > 1.
func WithWorkers(n int) Option {
	if n < 1 {
		panic("sim: WithWorkers(n<1)")
	}
	return func(s *Simulation) { s.workers = n }
}

// WithLogEvery logs progress every n episodes; 0 disables progress lines.
func WithLogEvery(n int) Option {
	return func(s *Simulation) { s.logEvery = n }
}

// WithLogger sets the logger. Defaults to logger.GetLogger().
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Simulation) { s.log = l }
}

// OnEpisode registers a hook called after every episode.
func OnEpisode(h Hook) Option {
	return func(s *Simulation) { s.hooks = append(s.hooks, h) }
}

// Result is the outcome of a run.
type Result struct {
	Episodes          int
	BestAvgTravelTime float64
	LastAvgTravelTime float64
	FinalAlpha        float64
	FinalEpsilon      float64
	Flows             *network.FlowMatrix
	Summary           stats.Summary
	Global            stats.Regrets
	History           []stats.EpisodeStats
}

// Simulation owns the loop state of one experiment.
type Simulation struct {
	env     *env.Env
	drivers []agent.Driver
	policy  policy.Policy
	tracker *stats.Tracker
	log     logrus.FieldLogger
	hooks   []Hook

	episodes     int
	alpha        float64
	alphaDecay   float64
	minAlpha     float64
	epsilonDecay float64
	workers      int
	logEvery     int
}

// New wires an experiment. drivers must be the travelers of e, typically
// built with NewDrivers, and p the policy they share.
func New(e *env.Env, drivers []agent.Driver, p policy.Policy, opts ...Option) (*Simulation, error) {
	if e == nil {
		return nil, ErrNilEnv
	}
	if len(drivers) == 0 {
		return nil, ErrNoDrivers
	}
	if p == nil {
		return nil, fmt.Errorf("sim: %w", agent.ErrNilPolicy)
	}
	s := &Simulation{
		env:          e,
		drivers:      drivers,
		policy:       p,
		log:          logger.GetLogger(),
		episodes:     DefaultEpisodes,
		alpha:        1,
		alphaDecay:   DefaultAlphaDecay,
		epsilonDecay: DefaultEpsilonDecay,
		workers:      1,
		logEvery:     DefaultLogEvery,
	}
	for _, opt := range opts {
		opt(s)
	}

	ods := make([]stats.ODDemand, 0, len(e.Network().ODPairs()))
	for _, od := range e.Network().ODPairs() {
		ods = append(ods, stats.ODDemand{ID: od.ID(), Demand: od.Demand()})
	}
	s.tracker = stats.NewTracker(ods)

	return s, nil
}

// Tracker returns the regret tracker.
func (s *Simulation) Tracker() *stats.Tracker { return s.tracker }

// Alpha returns the current learning rate.
func (s *Simulation) Alpha() float64 { return s.alpha }

// Run plays all episodes, stopping early with ctx.Err() when ctx is done.
//
// Each episode:
//  1. Every driver chooses a route; the policy then decays.
//  2. The environment evaluates the assignment; the best average is kept.
//  3. Drivers learn from their reward with the current α, which then decays.
//  4. Real regrets are refreshed against the environment's true minimum and
//     the tracker records the episode.
//  5. Hooks run and the environment resets.
func (s *Simulation) Run(ctx context.Context) (*Result, error) {
	var pool *ants.Pool
	if s.workers > 1 {
		p, err := ants.NewPool(s.workers)
		if err != nil {
			return nil, fmt.Errorf("sim: pool: %w", err)
		}
		defer p.Release()
		pool = p
	}

	res := &Result{BestAvgTravelTime: math.Inf(1)}
	rc := s.env.RouteCosts()
	for ep := 1; ep <= s.episodes; ep++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		// 1) Choice
		actions := make(map[string]int, len(s.drivers))
		for _, d := range s.drivers {
			a, err := d.ChooseAction()
			if err != nil {
				return res, fmt.Errorf("sim: episode %d: %w", ep, err)
			}
			actions[d.ID()] = a
		}
		s.policy.Update(s.epsilonDecay)

		// 2) Evaluation
		step, err := s.env.Step(actions)
		if err != nil {
			return res, fmt.Errorf("sim: episode %d: %w", ep, err)
		}
		avg := s.env.AvgTravelTime()
		res.BestAvgTravelTime = math.Min(res.BestAvgTravelTime, avg)
		res.LastAvgTravelTime = avg

		// 3) Learning
		if err = s.learn(pool, step); err != nil {
			return res, fmt.Errorf("sim: episode %d: %w", ep, err)
		}
		if s.alpha > s.minAlpha {
			s.alpha *= s.alphaDecay
		} else {
			s.alpha = s.minAlpha
		}

		// 4) Regret
		for _, d := range s.drivers {
			d.UpdateRealRegret(rc.Min(d.OD()))
		}
		row, err := s.tracker.Observe(ep, avg, s.drivers)
		if err != nil {
			return res, fmt.Errorf("sim: episode %d: %w", ep, err)
		}
		if s.logEvery > 0 && ep%s.logEvery == 0 {
			s.log.WithFields(logrus.Fields{
				"episode":   ep,
				"avg_tt":    avg,
				"real":      row.Global.Real,
				"estimated": row.Global.Estimated,
				"alpha":     s.alpha,
			}).Info("episode")
		}

		// 5) Hooks
		for _, h := range s.hooks {
			h(row)
		}
		res.Flows = s.env.FlowDistribution()
		res.Episodes = ep
		s.env.Reset()
	}

	res.FinalAlpha = s.alpha
	if eg, ok := s.policy.(*policy.EpsilonGreedy); ok {
		res.FinalEpsilon = eg.Epsilon()
	}
	res.Summary = stats.Summarize(s.tracker, rc, s.drivers)
	res.Global = s.tracker.GlobalAverage()
	res.History = s.tracker.History()

	return res, nil
}

// learn feeds every driver its reward, on the pool when one is given.
func (s *Simulation) learn(pool *ants.Pool, step *env.StepResult) error {
	update := func(d agent.Driver) error {
		return d.UpdateStrategy(step.Rewards[d.ID()], step.Infos[d.ID()], s.alpha)
	}
	if pool == nil {
		for _, d := range s.drivers {
			if err := update(d); err != nil {
				return err
			}
		}
		return nil
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		first error
	)
	for _, d := range s.drivers {
		wg.Add(1)
		d := d
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := update(d); err != nil {
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
		}); err != nil {
			wg.Done()
			mu.Lock()
			if first == nil {
				first = fmt.Errorf("sim: submit: %w", err)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	return first
}
