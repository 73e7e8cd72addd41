// SPDX-License-Identifier: MIT
// Command routechoice runs a route-choice learning experiment described by a
// configuration file and environment overrides, and optionally writes CSV
// and chart reports.
//
// Usage:
//
//	routechoice -config experiment.yaml
//	ROUTECHOICE_SIMULATION_ALGORITHM=GTQ routechoice
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/routechoice/builder"
	"github.com/katalvlaran/routechoice/config"
	"github.com/katalvlaran/routechoice/env"
	"github.com/katalvlaran/routechoice/logger"
	"github.com/katalvlaran/routechoice/network"
	"github.com/katalvlaran/routechoice/policy"
	"github.com/katalvlaran/routechoice/report"
	"github.com/katalvlaran/routechoice/sim"
)

func main() {
	path := flag.String("config", "", "configuration file (yaml, toml or json)")
	flag.Parse()

	cfg, err := config.LoadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logger.Initialize(&cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("run failed")
		stop()
		os.Exit(1)
	}
}

// loadNetwork builds the configured network: a catalogue file when one is
// set, otherwise a built-in instance scaled to the configured demand.
func loadNetwork(cfg config.NetworkConfig) (*network.Network, error) {
	if cfg.File != "" {
		return network.LoadFile(cfg.File, network.WithRoutesPerOD(cfg.RoutesPerOD))
	}
	bopts := []builder.BuilderOption{builder.WithRoutesPerOD(cfg.RoutesPerOD)}
	if cfg.Demand > 0 {
		bopts = append(bopts, builder.WithDemandScale(cfg.Demand/builder.DefaultDemand))
	}
	return builder.ByName(cfg.Name, bopts...)
}

// run wires one experiment from cfg and reports its outcome.
func run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) error {
	s := cfg.Simulation

	// 1) Network and environment
	net, err := loadNetwork(cfg.Network)
	if err != nil {
		return err
	}
	prefs, err := env.ParseDistribution(s.Preferences, s.Seed)
	if err != nil {
		return err
	}
	e, err := env.New(net,
		env.WithVehiclesPerAgent(s.VehiclesPerAgent),
		env.WithNormalizedCosts(s.NormalizeCosts),
		env.WithRevenueRedistribution(s.RevenueRate),
		env.WithPreferences(prefs),
		env.WithLogger(log),
	)
	if err != nil {
		return err
	}

	// 2) Drivers
	alg, err := sim.ParseAlgorithm(s.Algorithm)
	if err != nil {
		return err
	}
	pol, err := policy.NewEpsilonGreedy(1, s.MinEpsilon, policy.WithSeed(s.Seed))
	if err != nil {
		return err
	}
	drivers, err := sim.NewDrivers(e, alg, pol)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"algorithm": alg,
		"drivers":   len(drivers),
		"ods":       len(net.ODPairs()),
		"links":     len(net.Links()),
		"episodes":  s.Episodes,
	}).Info("starting experiment")

	// 3) Loop
	experiment, err := sim.New(e, drivers, pol,
		sim.WithEpisodes(s.Episodes),
		sim.WithAlphaDecay(s.AlphaDecay),
		sim.WithMinAlpha(s.MinAlpha),
		sim.WithEpsilonDecay(s.EpsilonDecay),
		sim.WithWorkers(s.Workers),
		sim.WithLogEvery(s.LogEvery),
		sim.WithLogger(log),
	)
	if err != nil {
		return err
	}
	res, err := experiment.Run(ctx)
	if err != nil {
		return err
	}

	// 4) Outcome
	log.WithFields(logrus.Fields{
		"best_avg_tt":   res.BestAvgTravelTime,
		"last_avg_tt":   res.LastAvgTravelTime,
		"real":          res.Global.Real,
		"estimated":     res.Global.Estimated,
		"expected_cost": res.Summary.ExpectedCost,
	}).Info("experiment finished")
	for _, od := range res.Summary.ODs {
		log.WithFields(logrus.Fields{
			"od":         od.OD,
			"route_cost": od.RouteCosts,
			"shares":     od.Shares,
			"real":       od.Regrets.Real,
		}).Info("od summary")
	}

	if cfg.Report.Dir == "" {
		return nil
	}
	paths, err := report.Write(cfg.Report.Dir, res, experiment.Tracker().ODs(), report.Options{
		CSV:   cfg.Report.CSV,
		Chart: cfg.Report.Chart,
		Title: fmt.Sprintf("%s on %s", alg, cfg.Network.Name),
	})
	if err != nil {
		return err
	}
	log.WithField("files", paths).Info("reports written")

	return nil
}
