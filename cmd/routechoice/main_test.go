// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/routechoice/config"
	"github.com/katalvlaran/routechoice/report"
)

func TestRun(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Simulation.Algorithm = "GTQ"
	cfg.Simulation.Episodes = 10
	cfg.Simulation.RevenueRate = 0.5
	cfg.Simulation.Preferences = "DIST_UNIFORM"
	cfg.Network.Name = "braess"
	cfg.Network.Demand = 40
	cfg.Report.Dir = t.TempDir()

	require.NoError(t, run(context.Background(), cfg, l))
	for _, name := range []string{report.EpisodesFile, report.RoutesFile, report.ChartFile} {
		_, err := os.Stat(filepath.Join(cfg.Report.Dir, name))
		require.NoError(t, err, name)
	}
}

func TestRunFromFile(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Simulation.Episodes = 5
	cfg.Simulation.Workers = 2
	cfg.Network.File = filepath.Join("..", "..", "network", "testdata", "two_route.yaml")
	require.NoError(t, run(context.Background(), cfg, l))

	cfg.Network.File = ""
	cfg.Network.Name = "nowhere"
	require.Error(t, run(context.Background(), cfg, l))
}
