// SPDX-License-Identifier: MIT
// Package: routechoice/builder
//
// impl_classic.go - the small textbook networks: TwoRoute, Braess, Pigou.
//
// Contract:
//   - demand > 0 (else ErrInvalidDemand); free-flow times and slopes ≥ 0
//     (else ErrInvalidParameter).
//   - Link IDs are fixed and documented per constructor.
//   - Each constructor declares explicit routes so route indices are stable
//     regardless of K.

package builder

import (
	"fmt"
	"math"

	"github.com/katalvlaran/routechoice/costfn"
	"github.com/katalvlaran/routechoice/network"
)

const (
	methodTwoRoute = "TwoRoute"
	methodBraess   = "Braess"
	methodPigou    = "Pigou"

	// braessSlope makes the congestible Braess links cost x/100.
	braessSlope = 0.01
	// braessFixed is the constant cost of the uncongestible Braess links.
	braessFixed = 45.0
)

// link is a compact description used by the classic constructors.
type link struct {
	id, from, to string
	freeFlow     float64
	capacity     float64
	fn           costfn.Spec
}

// addLinks inserts ls in order and tags failures with method.
func addLinks(s *Scenario, method string, ls []link) error {
	for _, l := range ls {
		if _, err := s.Graph.AddLink(l.id, l.from, l.to, l.freeFlow, l.capacity, l.fn); err != nil {
			return fmt.Errorf("%s: AddLink(%s): %w", method, l.id, err)
		}
	}
	return nil
}

func validDemand(method string, demand float64) error {
	if demand <= 0 || math.IsNaN(demand) {
		return fmt.Errorf("%s: demand=%g: %w", method, demand, ErrInvalidDemand)
	}
	return nil
}

// TwoRoute returns a Constructor for one OD pair "O|D" over two parallel
// roads "r0" and "r1" with costs ff0 + slope·v and ff1 + slope·v.
func TwoRoute(demand, ff0, ff1, slope float64) Constructor {
	return func(s *Scenario, _ builderConfig) error {
		if err := validDemand(methodTwoRoute, demand); err != nil {
			return err
		}
		if ff0 < 0 || ff1 < 0 || slope < 0 {
			return fmt.Errorf("%s: ff0=%g ff1=%g slope=%g: %w", methodTwoRoute, ff0, ff1, slope, ErrInvalidParameter)
		}
		fn := costfn.Spec{Kind: costfn.KindLinear, Alpha: slope}
		if err := addLinks(s, methodTwoRoute, []link{
			{"r0", "O", "D", ff0, 0, fn},
			{"r1", "O", "D", ff1, 0, fn},
		}); err != nil {
			return err
		}
		s.Demand = append(s.Demand, network.Demand{Origin: "O", Destination: "D", Flow: demand})
		s.Routes[network.ODID("O", "D")] = [][]string{{"r0"}, {"r1"}}

		return nil
	}
}

// Braess returns a Constructor for the Braess network on OD "s|t":
//
//	s→v  x/100     v→t  45
//	s→w  45        w→t  x/100
//	v→w  0 (bridge)
//
// Routes: 0 = s-v-t, 1 = s-w-t, 2 = s-v-w-t.
func Braess(demand float64) Constructor {
	return func(s *Scenario, _ builderConfig) error {
		if err := validDemand(methodBraess, demand); err != nil {
			return err
		}
		lin := costfn.Spec{Kind: costfn.KindLinear, Alpha: braessSlope}
		con := costfn.Spec{Kind: costfn.KindConstant}
		if err := addLinks(s, methodBraess, []link{
			{"sv", "s", "v", 0, 0, lin},
			{"sw", "s", "w", braessFixed, 0, con},
			{"vt", "v", "t", braessFixed, 0, con},
			{"wt", "w", "t", 0, 0, lin},
			{"vw", "v", "w", 0, 0, con},
		}); err != nil {
			return err
		}
		s.Demand = append(s.Demand, network.Demand{Origin: "s", Destination: "t", Flow: demand})
		s.Routes[network.ODID("s", "t")] = [][]string{{"sv", "vt"}, {"sw", "wt"}, {"sv", "vw", "wt"}}

		return nil
	}
}

// Pigou returns a Constructor for Pigou's network on OD "s|t": road "top"
// always costs 1, road "bottom" costs v/demand. Routes: 0 = top, 1 = bottom.
func Pigou(demand float64) Constructor {
	return func(s *Scenario, _ builderConfig) error {
		if err := validDemand(methodPigou, demand); err != nil {
			return err
		}
		if err := addLinks(s, methodPigou, []link{
			{"top", "s", "t", 1, 0, costfn.Spec{Kind: costfn.KindConstant}},
			{"bottom", "s", "t", 0, 0, costfn.Spec{Kind: costfn.KindLinear, Alpha: 1 / demand}},
		}); err != nil {
			return err
		}
		s.Demand = append(s.Demand, network.Demand{Origin: "s", Destination: "t", Flow: demand})
		s.Routes[network.ODID("s", "t")] = [][]string{{"top"}, {"bottom"}}

		return nil
	}
}
