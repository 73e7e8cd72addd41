// SPDX-License-Identifier: MIT
// Package costfn defines the link cost functions of a road network:
// pure maps from the flow on a link to its travel time.
//
// Every Function is total for flow ≥ 0 and exposes its first derivative, so the
// marginal externality of one extra unit of flow (the marginal-cost toll) can be
// derived without knowing the concrete shape.
//
// Kinds:
//
//	bpr       t0·(1 + α·(v/c)^β)    Bureau of Public Roads volume-delay curve
//	linear    t0 + α·v
//	poly      t0 + α·v^β
//	constant  t0
//
// Errors:
//
//	ErrUnknownKind   - Spec.Kind is not one of the kinds above.
//	ErrBadCapacity   - bpr requires capacity > 0.
//	ErrBadParameter  - negative or NaN α/β, or negative free-flow time.
package costfn

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Sentinel errors for cost function construction.
var (
	// ErrUnknownKind indicates that a Spec names an unsupported cost function.
	ErrUnknownKind = errors.New("costfn: unknown cost function kind")

	// ErrBadCapacity indicates a non-positive capacity for a capacity-based function.
	ErrBadCapacity = errors.New("costfn: capacity must be positive")

	// ErrBadParameter indicates a negative or NaN function parameter.
	ErrBadParameter = errors.New("costfn: bad parameter")
)

// Supported kinds, as written in network files.
const (
	KindBPR      = "bpr"
	KindLinear   = "linear"
	KindPoly     = "poly"
	KindConstant = "constant"
)

// Function maps link flow to travel time.
type Function interface {
	// Cost returns the travel time at the given flow.
	Cost(flow float64) float64

	// Derivative returns dCost/dflow at the given flow.
	Derivative(flow float64) float64
}

// Spec is the declarative form of a cost function, as stored on a link.
// FreeFlow and Capacity come from the link itself.
type Spec struct {
	Kind  string  `yaml:"kind" toml:"kind"`
	Alpha float64 `yaml:"alpha" toml:"alpha"`
	Beta  float64 `yaml:"beta" toml:"beta"`
}

// DefaultSpec is the classic BPR curve (α=0.15, β=4).
func DefaultSpec() Spec {
	return Spec{Kind: KindBPR, Alpha: 0.15, Beta: 4}
}

// New resolves spec into a Function for a link with the given free-flow time
// and capacity. An empty Kind resolves to DefaultSpec.
func New(spec Spec, freeFlow, capacity float64) (Function, error) {
	// 1) Shared parameter validation.
	if freeFlow < 0 || math.IsNaN(freeFlow) {
		return nil, fmt.Errorf("free-flow=%g: %w", freeFlow, ErrBadParameter)
	}
	if spec.Alpha < 0 || spec.Beta < 0 || math.IsNaN(spec.Alpha) || math.IsNaN(spec.Beta) {
		return nil, fmt.Errorf("alpha=%g beta=%g: %w", spec.Alpha, spec.Beta, ErrBadParameter)
	}

	// 2) Dispatch by kind.
	switch strings.ToLower(strings.TrimSpace(spec.Kind)) {
	case "":
		return New(DefaultSpec(), freeFlow, capacity)
	case KindBPR:
		if capacity <= 0 {
			return nil, fmt.Errorf("%s: capacity=%g: %w", KindBPR, capacity, ErrBadCapacity)
		}
		return BPR{FreeFlow: freeFlow, Capacity: capacity, Alpha: spec.Alpha, Beta: spec.Beta}, nil
	case KindLinear:
		return Linear{FreeFlow: freeFlow, Slope: spec.Alpha}, nil
	case KindPoly:
		return Poly{FreeFlow: freeFlow, Coef: spec.Alpha, Exp: spec.Beta}, nil
	case KindConstant:
		return Constant{Value: freeFlow}, nil
	default:
		return nil, fmt.Errorf("%q: %w", spec.Kind, ErrUnknownKind)
	}
}

// Marginal returns the externality a marginal unit imposes on the travelers
// already using the link: weightedFlow · c'(flow).
// weightedFlow is the preference-weighted volume; it equals flow when every
// traveler has the neutral preference. An idle link has no externality.
func Marginal(fn Function, flow, weightedFlow float64) float64 {
	if weightedFlow == 0 {
		return 0
	}
	return weightedFlow * fn.Derivative(flow)
}

// BPR is the Bureau of Public Roads function t0·(1 + α·(v/c)^β).
type BPR struct {
	FreeFlow float64
	Capacity float64
	Alpha    float64
	Beta     float64
}

// Cost implements Function.
func (f BPR) Cost(flow float64) float64 {
	return f.FreeFlow * (1 + f.Alpha*math.Pow(flow/f.Capacity, f.Beta))
}

// Derivative implements Function. For β < 1 the slope at zero flow is
// unbounded and reported as 0.
func (f BPR) Derivative(flow float64) float64 {
	if f.Beta == 0 || (flow <= 0 && f.Beta < 1) {
		return 0
	}
	return f.FreeFlow * f.Alpha * f.Beta * math.Pow(flow, f.Beta-1) / math.Pow(f.Capacity, f.Beta)
}

// Linear is t0 + a·v.
type Linear struct {
	FreeFlow float64
	Slope    float64
}

// Cost implements Function.
func (f Linear) Cost(flow float64) float64 { return f.FreeFlow + f.Slope*flow }

// Derivative implements Function.
func (f Linear) Derivative(float64) float64 { return f.Slope }

// Poly is t0 + a·v^n.
type Poly struct {
	FreeFlow float64
	Coef     float64
	Exp      float64
}

// Cost implements Function.
func (f Poly) Cost(flow float64) float64 {
	return f.FreeFlow + f.Coef*math.Pow(flow, f.Exp)
}

// Derivative implements Function. Like BPR, an exponent below 1 reports
// 0 at zero flow.
func (f Poly) Derivative(flow float64) float64 {
	if f.Exp == 0 || (flow <= 0 && f.Exp < 1) {
		return 0
	}
	return f.Coef * f.Exp * math.Pow(flow, f.Exp-1)
}

// Constant ignores congestion.
type Constant struct {
	Value float64
}

// Cost implements Function.
func (f Constant) Cost(float64) float64 { return f.Value }

// Derivative implements Function.
func (Constant) Derivative(float64) float64 { return 0 }
