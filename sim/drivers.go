// SPDX-License-Identifier: MIT
package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/routechoice/agent"
	"github.com/katalvlaran/routechoice/env"
	"github.com/katalvlaran/routechoice/policy"
)

// ErrUnknownAlgorithm indicates an algorithm name ParseAlgorithm does not know.
var ErrUnknownAlgorithm = errors.New("sim: unknown algorithm")

// Algorithm selects the kind of traveler NewDrivers builds.
type Algorithm string

// Supported algorithms.
const (
	RMQ    Algorithm = "RMQ"
	TQ     Algorithm = "TQ"
	GTQ    Algorithm = "GTQ"
	Simple Algorithm = "SIMPLE"
)

// ParseAlgorithm accepts the short names above, case-insensitively, as well
// as the long learner names (RMQLearning, TQLearning, GTQLearning).
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, "LEARNING")
	switch Algorithm(n) {
	case RMQ, TQ, GTQ, Simple:
		return Algorithm(n), nil
	case "SIMPLEDRIVER":
		return Simple, nil
	default:
		return "", fmt.Errorf("sim: %q: %w", name, ErrUnknownAlgorithm)
	}
}

// NewDrivers builds one learner per environment driver, all sharing p.
// RMQ learners extrapolate from the free-flow times of their routes; TQ and
// GTQ learners average realized costs only.
func NewDrivers(e *env.Env, alg Algorithm, p policy.Policy) ([]agent.Driver, error) {
	fft := make(map[string][]float64)
	out := make([]agent.Driver, 0, len(e.Drivers()))
	for _, d := range e.Drivers() {
		initial, ok := fft[d.OD]
		if !ok {
			var err error
			if initial, err = e.FreeFlowTimes(d.OD); err != nil {
				return nil, fmt.Errorf("sim: %w", err)
			}
			fft[d.OD] = initial
		}
		k := len(initial)
		opts := []agent.Option{agent.WithFlow(d.Flow), agent.WithPreference(d.Preference)}

		var (
			drv agent.Driver
			err error
		)
		switch alg {
		case RMQ:
			drv, err = agent.NewRMQLearning(d.ID, d.OD, k, p, append(opts, agent.WithInitialCosts(initial))...)
		case TQ:
			drv, err = agent.NewTQLearning(d.ID, d.OD, k, p, opts...)
		case GTQ:
			drv, err = agent.NewGTQLearning(d.ID, d.OD, k, p, opts...)
		case Simple:
			drv, err = agent.NewSimpleDriver(d.ID, d.OD, k, p, agent.WithSimpleFlow(d.Flow))
		default:
			return nil, fmt.Errorf("sim: %q: %w", alg, ErrUnknownAlgorithm)
		}
		if err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
		out = append(out, drv)
	}

	return out, nil
}
