// SPDX-License-Identifier: MIT
// Package: routechoice/builder
//
// errors.go: sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context with %w and the constructor's method tag.
//   • Constructors never panic; validation panics live in option constructors.

package builder

import "errors"

// ErrInvalidDemand indicates a non-positive or NaN demand.
var ErrInvalidDemand = errors.New("builder: demand must be positive")

// ErrInvalidParameter indicates a negative free-flow time, slope or dimension.
var ErrInvalidParameter = errors.New("builder: invalid parameter")

// ErrConstructFailed indicates that the scenario could not be turned into a
// network (nil constructor, or the network layer rejected it).
var ErrConstructFailed = errors.New("builder: construction failed")

// ErrUnknownNetwork indicates that ByName was given a name it does not know.
var ErrUnknownNetwork = errors.New("builder: unknown network")
