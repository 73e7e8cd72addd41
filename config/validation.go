// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"strings"
)

var (
	algorithms    = []string{"RMQ", "TQ", "GTQ", "SIMPLE"}
	distributions = []string{"DIST_FIXED", "DIST_UNIFORM", "DIST_NORMAL", "DIST_TRUNC_NORMAL"}
	levels        = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}
	formats       = []string{"json", "text"}
)

// validateConfig collects every problem with c into one ErrInvalid.
func validateConfig(c *Config) error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	// Simulation
	s := c.Simulation
	if !oneOf(s.Algorithm, algorithms) {
		add("simulation.algorithm %q must be one of %v", s.Algorithm, algorithms)
	}
	if s.Episodes <= 0 {
		add("simulation.episodes must be positive")
	}
	if s.AlphaDecay <= 0 || s.AlphaDecay > 1 {
		add("simulation.alpha_decay must be in (0,1]")
	}
	if s.MinAlpha < 0 || s.MinAlpha > 1 {
		add("simulation.min_alpha must be in [0,1]")
	}
	if s.EpsilonDecay <= 0 || s.EpsilonDecay > 1 {
		add("simulation.epsilon_decay must be in (0,1]")
	}
	if s.MinEpsilon < 0 || s.MinEpsilon > 1 {
		add("simulation.min_epsilon must be in [0,1]")
	}
	if s.VehiclesPerAgent <= 0 {
		add("simulation.vehicles_per_agent must be positive")
	}
	if s.RevenueRate < 0 || s.RevenueRate > 1 {
		add("simulation.revenue_redistribution_rate must be in [0,1]")
	}
	if !oneOf(s.Preferences, distributions) {
		add("simulation.preference_distribution %q must be one of %v", s.Preferences, distributions)
	}
	if s.Workers <= 0 {
		add("simulation.workers must be positive")
	}
	if s.LogEvery < 0 {
		add("simulation.log_every must not be negative")
	}

	// Network
	if c.Network.Name == "" && c.Network.File == "" {
		add("network.name or network.file is required")
	}
	if c.Network.RoutesPerOD <= 0 {
		add("network.routes_per_od must be positive")
	}
	if c.Network.Demand < 0 {
		add("network.demand must not be negative")
	}

	// Logging
	if !oneOf(c.Logging.Level, levels) {
		add("logging.level %q is not a log level", c.Logging.Level)
	}
	if !oneOf(c.Logging.Format, formats) {
		add("logging.format %q must be json or text", c.Logging.Format)
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return true
		}
	}
	return false
}
