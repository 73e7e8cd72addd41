// SPDX-License-Identifier: MIT
// Package: routechoice/builder
//
// impl_grid.go - implementation of Grid(rows, cols, demand).
//
// Contract:
//   - rows, cols ≥ 2 (else ErrInvalidParameter); demand > 0.
//   - Node IDs "r,c"; every adjacent pair is joined in both directions by
//     BPR links with free-flow time 1 and capacity demand/2.
//   - One OD pair from "0,0" to "rows-1,cols-1"; routes are enumerated
//     (K from WithRoutesPerOD).
//
// Determinism:
//   - Row-major node order; for each (r,c) emit Right then Down, each as the
//     forward link followed by its reverse.

package builder

import (
	"fmt"

	"github.com/katalvlaran/routechoice/costfn"
	"github.com/katalvlaran/routechoice/network"
)

const (
	methodGrid = "Grid"
	minGridDim = 2
	gridIDFmt  = "%d,%d"
)

// Grid returns a Constructor that builds a rows×cols bidirectional road grid.
func Grid(rows, cols int, demand float64) Constructor {
	return func(s *Scenario, _ builderConfig) error {
		// 1) Validate
		if rows < minGridDim || cols < minGridDim {
			return fmt.Errorf("%s: rows=%d, cols=%d (each must be ≥ %d): %w",
				methodGrid, rows, cols, minGridDim, ErrInvalidParameter)
		}
		if err := validDemand(methodGrid, demand); err != nil {
			return err
		}

		// 2) Links
		fn := costfn.DefaultSpec()
		capacity := demand / 2
		id := func(r, c int) string { return fmt.Sprintf(gridIDFmt, r, c) }
		join := func(a, b string) error {
			if _, err := s.Graph.AddLink("", a, b, 1, capacity, fn); err != nil {
				return fmt.Errorf("%s: AddLink(%s,%s): %w", methodGrid, a, b, err)
			}
			if _, err := s.Graph.AddLink("", b, a, 1, capacity, fn); err != nil {
				return fmt.Errorf("%s: AddLink(%s,%s): %w", methodGrid, b, a, err)
			}
			return nil
		}
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if c+1 < cols {
					if err := join(id(r, c), id(r, c+1)); err != nil {
						return err
					}
				}
				if r+1 < rows {
					if err := join(id(r, c), id(r+1, c)); err != nil {
						return err
					}
				}
			}
		}

		// 3) Demand between opposite corners
		s.Demand = append(s.Demand, network.Demand{
			Origin:      id(0, 0),
			Destination: id(rows-1, cols-1),
			Flow:        demand,
		})

		return nil
	}
}
