// SPDX-License-Identifier: MIT
package network

import "fmt"

// EvaluateAssignment loads an assignment onto the network and returns the
// demand-weighted average travel time and its normalized counterpart.
//
// flows[i][k] is the volume of OD pair i on route k; weighted carries the
// preference-weighted volumes used for marginal costs (nil means "same as
// flows", i.e. every traveler has the neutral preference).
//
// Steps:
//  1. Check both matrices against the network's shape (ErrShapeMismatch).
//  2. Zero every link.
//  3. For every route with nonzero flow, add its raw and weighted volume to
//     each of its links.
//  4. Recompute every link's cost and marginal cost.
//  5. Refresh every route (zero-flow routes included) and accumulate
//     Σ route_cost · route_flow.
//  6. Divide by total demand (0 when there is none) and by Scale().
//
// Complexity: O(Σ_routes |route| + |links|).
func (n *Network) EvaluateAssignment(flows, weighted *FlowMatrix) (float64, float64, error) {
	// 1) Shape
	shape := n.Shape()
	if !flows.sameShape(shape) {
		return 0, 0, fmt.Errorf("flows: want %v: %w", shape, ErrShapeMismatch)
	}
	if weighted == nil {
		weighted = flows
	} else if !weighted.sameShape(shape) {
		return 0, 0, fmt.Errorf("weighted flows: want %v: %w", shape, ErrShapeMismatch)
	}

	// 2) Zero
	for _, l := range n.links {
		l.flow, l.weightedFlow = 0, 0
	}

	// 3) Load
	for i, od := range n.ods {
		base := flows.offsets[i]
		for k, r := range od.routes {
			f := flows.data[base+k]
			if f == 0 {
				continue
			}
			w := weighted.data[weighted.offsets[i]+k]
			for _, l := range r.links {
				l.flow += f
				l.weightedFlow += w
			}
		}
	}

	// 4) Links
	for _, l := range n.links {
		l.recompute()
	}

	// 5) Routes
	var total float64
	for i, od := range n.ods {
		base := flows.offsets[i]
		for k, r := range od.routes {
			r.refresh()
			total += r.cost * flows.data[base+k]
		}
	}

	// 6) Averages
	if n.totalDemand <= 0 {
		return 0, 0, nil
	}
	avg := total / n.totalDemand

	return avg, avg / n.scale, nil
}
