// SPDX-License-Identifier: MIT
// Package config loads experiment settings from a file, environment
// variables (prefix ROUTECHOICE_) and built-in defaults, in that order of
// precedence: env over file over defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment override, e.g.
// ROUTECHOICE_SIMULATION_EPISODES.
const EnvPrefix = "ROUTECHOICE"

// ErrInvalid indicates a configuration that failed validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config is the root configuration.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation"`
	Network    NetworkConfig    `mapstructure:"network"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Report     ReportConfig     `mapstructure:"report"`
}

// SimulationConfig holds the learning experiment parameters.
type SimulationConfig struct {
	Algorithm        string  `mapstructure:"algorithm"` // RMQ, TQ, GTQ or SIMPLE
	Episodes         int     `mapstructure:"episodes"`
	AlphaDecay       float64 `mapstructure:"alpha_decay"`
	MinAlpha         float64 `mapstructure:"min_alpha"`
	EpsilonDecay     float64 `mapstructure:"epsilon_decay"`
	MinEpsilon       float64 `mapstructure:"min_epsilon"`
	VehiclesPerAgent float64 `mapstructure:"vehicles_per_agent"`
	NormalizeCosts   bool    `mapstructure:"normalize_costs"`
	RevenueRate      float64 `mapstructure:"revenue_redistribution_rate"`
	Preferences      string  `mapstructure:"preference_distribution"`
	Seed             uint64  `mapstructure:"seed"`
	Workers          int     `mapstructure:"workers"`
	LogEvery         int     `mapstructure:"log_every"`
}

// NetworkConfig selects the road network: either a built-in instance by
// name or a catalogue file (YAML or TOML), the file taking precedence.
type NetworkConfig struct {
	Name        string  `mapstructure:"name"`
	File        string  `mapstructure:"file"`
	RoutesPerOD int     `mapstructure:"routes_per_od"`
	Demand      float64 `mapstructure:"demand"` // 0 keeps the instance default
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or text
	Output string `mapstructure:"output"` // stdout, stderr or a file path
}

// ReportConfig controls the files written after a run.
type ReportConfig struct {
	Dir   string `mapstructure:"dir"` // empty disables reports
	CSV   bool   `mapstructure:"csv"`
	Chart bool   `mapstructure:"chart"`
}

// LoadConfig reads path (or ./routechoice.* and ./config/routechoice.* when
// path is empty), applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	setDefaults(v)

	// File
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.SetConfigName("routechoice")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}
