// SPDX-License-Identifier: MIT
package config

import "github.com/spf13/viper"

// setDefaults configures the default value of every key.
func setDefaults(v *viper.Viper) {
	// Simulation
	v.SetDefault("simulation.algorithm", "RMQ")
	v.SetDefault("simulation.episodes", 1000)
	v.SetDefault("simulation.alpha_decay", 0.99)
	v.SetDefault("simulation.min_alpha", 0.0)
	v.SetDefault("simulation.epsilon_decay", 0.99)
	v.SetDefault("simulation.min_epsilon", 0.0)
	v.SetDefault("simulation.vehicles_per_agent", 1.0)
	v.SetDefault("simulation.normalize_costs", true)
	v.SetDefault("simulation.revenue_redistribution_rate", 0.0)
	v.SetDefault("simulation.preference_distribution", "DIST_FIXED")
	v.SetDefault("simulation.seed", 1)
	v.SetDefault("simulation.workers", 1)
	v.SetDefault("simulation.log_every", 100)

	// Network
	v.SetDefault("network.name", "braess")
	v.SetDefault("network.file", "")
	v.SetDefault("network.routes_per_od", 3)
	v.SetDefault("network.demand", 0.0)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	// Report
	v.SetDefault("report.dir", "")
	v.SetDefault("report.csv", true)
	v.SetDefault("report.chart", true)
}
