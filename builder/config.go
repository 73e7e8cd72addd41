// SPDX-License-Identifier: MIT
// Package: routechoice/builder
//
// config.go: internal configuration, deterministic defaults and options.
//
// Deterministic defaults:
//   • routesPerOD = network.DefaultRoutesPerOD
//   • demandScale = 1.0
//   • capacity    = 0 (constructors pick their own when a function needs it)

package builder

import (
	"math"

	"github.com/katalvlaran/routechoice/network"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	routesPerOD int     // K for enumerated route sets
	demandScale float64 // multiplier applied to every OD demand
}

// newBuilderConfig constructs a config with defaults and applies opts in order.
func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		routesPerOD: network.DefaultRoutesPerOD,
		demandScale: 1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// BuilderOption customizes a builderConfig before construction begins.
type BuilderOption func(*builderConfig)

// WithRoutesPerOD sets K for OD pairs whose routes are enumerated.
// Panics on k < 1.
func WithRoutesPerOD(k int) BuilderOption {
	if k < 1 {
		panic("builder: WithRoutesPerOD(k<1)")
	}
	return func(c *builderConfig) { c.routesPerOD = k }
}

// WithDemandScale multiplies every declared demand by f.
// Panics on non-positive or NaN f.
func WithDemandScale(f float64) BuilderOption {
	if f <= 0 || math.IsNaN(f) {
		panic("builder: WithDemandScale(f<=0)")
	}
	return func(c *builderConfig) { c.demandScale = f }
}
