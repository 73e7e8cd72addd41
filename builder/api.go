// SPDX-License-Identifier: MIT
// Package: routechoice/builder
//
// api.go - public entry-points for the builder package.
//
// Design contract:
//   - One orchestrator: BuildNetwork(bopts, cons...). Creates the scenario,
//     resolves cfg, runs cons in order, then hands the result to network.New.
//   - Constructors only add topology, demand and (optionally) explicit routes;
//     the route enumeration and state layout belong to package network.

package builder

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/routechoice/core"
	"github.com/katalvlaran/routechoice/network"
)

// Scenario is the mutable draft constructors write into.
type Scenario struct {
	// Graph is the topology; created with parallel links allowed.
	Graph *core.Graph

	// Demand lists OD pairs in declaration order.
	Demand []network.Demand

	// Routes holds explicit route sets; OD pairs absent here are enumerated.
	Routes map[string][][]string
}

// Constructor applies a deterministic mutation to a Scenario.
type Constructor func(s *Scenario, cfg builderConfig) error

// BuildNetwork resolves bopts, applies all constructors in order and builds
// the network. Constructor errors are wrapped with "BuildNetwork: %w".
func BuildNetwork(bopts []BuilderOption, cons ...Constructor) (*network.Network, error) {
	cfg := newBuilderConfig(bopts...)
	s := &Scenario{
		Graph:  core.NewGraph(core.WithMultiLinks()),
		Routes: make(map[string][][]string),
	}

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildNetwork: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(s, cfg); err != nil {
			return nil, fmt.Errorf("BuildNetwork: %w", err)
		}
	}

	for i := range s.Demand {
		s.Demand[i].Flow *= cfg.demandScale
	}

	net, err := network.New(s.Graph, s.Demand,
		network.WithRoutesPerOD(cfg.routesPerOD),
		network.WithRouteSets(s.Routes),
	)
	if err != nil {
		return nil, fmt.Errorf("BuildNetwork: %w: %w", ErrConstructFailed, err)
	}

	return net, nil
}

// Default instance parameters used by ByName.
const (
	DefaultDemand       = 4000.0
	defaultTwoRouteFast = 10.0
	defaultTwoRouteSlow = 15.0
	defaultTwoRouteK    = 0.005
	defaultGridSide     = 4
)

// Names accepted by ByName.
const (
	NameTwoRoute = "two-route"
	NameBraess   = "braess"
	NamePigou    = "pigou"
	NameGrid     = "grid"
)

// ByName builds a default instance of a named benchmark network.
func ByName(name string, bopts ...BuilderOption) (*network.Network, error) {
	var con Constructor
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameTwoRoute:
		con = TwoRoute(DefaultDemand, defaultTwoRouteFast, defaultTwoRouteSlow, defaultTwoRouteK)
	case NameBraess:
		con = Braess(DefaultDemand)
	case NamePigou:
		con = Pigou(DefaultDemand)
	case NameGrid:
		con = Grid(defaultGridSide, defaultGridSide, DefaultDemand)
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownNetwork)
	}

	return BuildNetwork(bopts, con)
}
