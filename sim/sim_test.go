// SPDX-License-Identifier: MIT
package sim_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/routechoice/agent"
	"github.com/katalvlaran/routechoice/builder"
	"github.com/katalvlaran/routechoice/env"
	"github.com/katalvlaran/routechoice/policy"
	"github.com/katalvlaran/routechoice/sim"
	"github.com/katalvlaran/routechoice/stats"
)

func quiet() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// setup builds a two-route environment, its learners and the shared policy.
func setup(t *testing.T, alg sim.Algorithm, demand, ff0, ff1, slope, eps float64, seed uint64) (*env.Env, []agent.Driver, *policy.EpsilonGreedy) {
	t.Helper()
	net, err := builder.BuildNetwork(nil, builder.TwoRoute(demand, ff0, ff1, slope))
	require.NoError(t, err)
	e, err := env.New(net, env.WithLogger(quiet()))
	require.NoError(t, err)
	p, err := policy.NewEpsilonGreedy(eps, 0, policy.WithSeed(seed))
	require.NoError(t, err)
	ds, err := sim.NewDrivers(e, alg, p)
	require.NoError(t, err)
	return e, ds, p
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]sim.Algorithm{
		"RMQ":          sim.RMQ,
		"rmqlearning":  sim.RMQ,
		"TQLearning":   sim.TQ,
		" gtq ":        sim.GTQ,
		"simple":       sim.Simple,
		"SimpleDriver": sim.Simple,
	} {
		got, err := sim.ParseAlgorithm(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := sim.ParseAlgorithm("SARSA")
	require.ErrorIs(t, err, sim.ErrUnknownAlgorithm)
}

func TestNewDrivers(t *testing.T) {
	e, ds, _ := setup(t, sim.RMQ, 5, 10, 20, 1, 1, 1)
	require.Len(t, ds, 5)
	l, ok := ds[0].(*agent.Learner)
	require.True(t, ok)
	require.Equal(t, "RMQLearning", l.Algorithm())
	h, err := l.History(1)
	require.NoError(t, err)
	require.Equal(t, 1.0, h.LastCost, "RMQ starts from normalized free-flow times")

	p, _ := policy.NewEpsilonGreedy(1, 0)
	for alg, name := range map[sim.Algorithm]string{sim.TQ: "TQLearning", sim.GTQ: "GTQLearning"} {
		ds, err := sim.NewDrivers(e, alg, p)
		require.NoError(t, err)
		require.Equal(t, name, ds[0].(*agent.Learner).Algorithm())
	}
	ds, err = sim.NewDrivers(e, sim.Simple, p)
	require.NoError(t, err)
	require.IsType(t, &agent.SimpleDriver{}, ds[0])

	_, err = sim.NewDrivers(e, "SARSA", p)
	require.ErrorIs(t, err, sim.ErrUnknownAlgorithm)

	// Baseline drivers carry the environment's vehicles per agent.
	net, err := builder.BuildNetwork(nil, builder.TwoRoute(10, 10, 20, 1))
	require.NoError(t, err)
	grouped, err := env.New(net, env.WithVehiclesPerAgent(4), env.WithLogger(quiet()))
	require.NoError(t, err)
	ds, err = sim.NewDrivers(grouped, sim.Simple, p)
	require.NoError(t, err)
	require.Len(t, ds, 3)
	var total float64
	for i, d := range ds {
		require.Equal(t, grouped.Drivers()[i].Flow, d.Flow())
		total += d.Flow()
	}
	require.InDelta(t, 10.0, total, 1e-9)
}

type RunSuite struct {
	suite.Suite
}

// TestGreedyConverges plays r0 (10 + v) against r1 (30 + v) with 10 greedy
// drivers: everyone stays on r0, whose normalized cost is 20/30.
func (s *RunSuite) TestGreedyConverges() {
	r := require.New(s.T())
	e, ds, p := setup(s.T(), sim.RMQ, 10, 10, 30, 1, 0, 1)
	var seen int
	run, err := sim.New(e, ds, p,
		sim.WithEpisodes(25),
		sim.WithLogger(quiet()),
		sim.OnEpisode(func(stats.EpisodeStats) { seen++ }),
	)
	r.NoError(err)
	res, err := run.Run(context.Background())
	r.NoError(err)

	r.Equal(25, res.Episodes)
	r.Equal(25, seen)
	r.Len(res.History, 25)
	r.InDelta(20, res.BestAvgTravelTime, 1e-9)
	r.InDelta(20, res.LastAvgTravelTime, 1e-9)
	r.Equal([]float64{10, 0}, res.Flows.Row(0))

	r.Len(res.Summary.ODs, 1)
	od := res.Summary.ODs[0]
	r.InDeltaSlice([]float64{2.0 / 3, 1}, od.RouteCosts, 1e-9)
	r.InDeltaSlice([]float64{1, 0}, od.Shares, 1e-9)
	r.InDelta(0, res.Global.Real, 1e-9)
	r.InDelta(0, res.Global.Estimated, 1e-9)
	r.InDelta(2.0/3, e.RouteCosts().Min("O|D"), 1e-9)
}

func (s *RunSuite) TestAlphaDecay() {
	r := require.New(s.T())
	e, ds, p := setup(s.T(), sim.RMQ, 4, 10, 30, 1, 1, 2)
	run, err := sim.New(e, ds, p,
		sim.WithEpisodes(3), sim.WithAlphaDecay(0.5), sim.WithMinAlpha(0.5),
		sim.WithEpsilonDecay(0.5), sim.WithLogger(quiet()))
	r.NoError(err)
	res, err := run.Run(context.Background())
	r.NoError(err)
	r.Equal(0.5, res.FinalAlpha)
	r.Equal(0.125, res.FinalEpsilon)
}

// TestRegretDecreases runs 100 learners on a network where r0 dominates and
// compares the global real regret of the first and last 20 episodes.
func (s *RunSuite) TestRegretDecreases() {
	r := require.New(s.T())
	e, ds, p := setup(s.T(), sim.RMQ, 100, 10, 15, 0.01, 1, 12345)
	run, err := sim.New(e, ds, p, sim.WithEpisodes(300), sim.WithLogger(quiet()))
	r.NoError(err)
	res, err := run.Run(context.Background())
	r.NoError(err)

	mean := func(rows []stats.EpisodeStats) float64 {
		var sum float64
		for _, row := range rows {
			sum += row.Global.Real
		}
		return sum / float64(len(rows))
	}
	first, last := mean(res.History[:20]), mean(res.History[280:])
	r.Less(last, first)
	r.Greater(res.Summary.ODs[0].Strategy[0], res.Summary.ODs[0].Strategy[1])
}

// TestPoolMatchesSequential checks that updating drivers on a worker pool
// changes nothing: every driver only touches its own state.
func (s *RunSuite) TestPoolMatchesSequential() {
	r := require.New(s.T())
	play := func(workers int) *sim.Result {
		e, ds, p := setup(s.T(), sim.GTQ, 40, 10, 15, 0.1, 1, 99)
		run, err := sim.New(e, ds, p, sim.WithEpisodes(50), sim.WithWorkers(workers), sim.WithLogger(quiet()))
		r.NoError(err)
		res, err := run.Run(context.Background())
		r.NoError(err)
		return res
	}
	seq, par := play(1), play(4)
	r.Equal(seq.History, par.History)
	r.Equal(seq.Summary, par.Summary)
}

func (s *RunSuite) TestCancelled() {
	r := require.New(s.T())
	e, ds, p := setup(s.T(), sim.TQ, 4, 10, 30, 1, 1, 3)
	run, err := sim.New(e, ds, p, sim.WithLogger(quiet()))
	r.NoError(err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := run.Run(ctx)
	r.ErrorIs(err, context.Canceled)
	r.Zero(res.Episodes)
}

func (s *RunSuite) TestErrors() {
	r := require.New(s.T())
	e, ds, p := setup(s.T(), sim.RMQ, 4, 10, 30, 1, 1, 3)
	_, err := sim.New(nil, ds, p)
	r.ErrorIs(err, sim.ErrNilEnv)
	_, err = sim.New(e, nil, p)
	r.ErrorIs(err, sim.ErrNoDrivers)
	_, err = sim.New(e, ds, nil)
	r.ErrorIs(err, agent.ErrNilPolicy)
	r.Panics(func() { sim.WithEpisodes(0) })
	r.Panics(func() { sim.WithWorkers(0) })
	r.Panics(func() { sim.WithAlphaDecay(0) })
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(RunSuite))
}
