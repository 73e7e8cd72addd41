// SPDX-License-Identifier: MIT
// Package policy implements the action-selection rules shared by learning
// agents. A single Policy instance is injected into every agent of an
// experiment; its exploration rate decays once per episode through Update.
package policy

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

// ErrBadEpsilon indicates an exploration rate outside [0,1] or a floor above it.
var ErrBadEpsilon = errors.New("policy: epsilon must satisfy 0 ≤ min ≤ epsilon ≤ 1")

// Valued is anything exposing one value per action.
type Valued interface {
	Strategy() []float64
}

// Policy picks an action index for a Valued agent.
type Policy interface {
	// Act returns an index in [0, len(v.Strategy())), or -1 when there are no actions.
	Act(v Valued) int

	// Update advances the policy's schedule by one decay step.
	Update(decay float64)
}

// Option configures a policy.
type Option func(*source)

// WithSeed makes the policy draw from a PCG generator seeded with seed.
func WithSeed(seed uint64) Option {
	return func(s *source) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithRand makes the policy draw from r. Panics on nil.
func WithRand(r *rand.Rand) Option {
	if r == nil {
		panic("policy: WithRand(nil)")
	}
	return func(s *source) { s.rng = r }
}

// source is the guarded random stream shared by the concrete policies.
type source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newSource(opts []Option) *source {
	s := &source{}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// uniformIndex returns floor(U·n) for U ~ U[0,1); caller holds mu.
func (s *source) uniformIndex(n int) int {
	i := int(s.rng.Float64() * float64(n))
	if i >= n { // guards float rounding at the upper end
		i = n - 1
	}
	return i
}

// Random picks uniformly among the actions.
type Random struct {
	src *source
}

// NewRandom returns a uniform policy.
func NewRandom(opts ...Option) *Random {
	return &Random{src: newSource(opts)}
}

// Act implements Policy.
func (p *Random) Act(v Valued) int {
	n := len(v.Strategy())
	if n == 0 {
		return -1
	}
	p.src.mu.Lock()
	defer p.src.mu.Unlock()

	return p.src.uniformIndex(n)
}

// Update implements Policy; a uniform policy has no schedule.
func (p *Random) Update(float64) {}

// EpsilonGreedy explores uniformly with probability ε and otherwise exploits
// the highest-valued action (first index on ties).
type EpsilonGreedy struct {
	src     *source
	epsilon float64
	min     float64
}

// NewEpsilonGreedy returns an ε-greedy policy with the given initial rate
// and floor.
func NewEpsilonGreedy(epsilon, min float64, opts ...Option) (*EpsilonGreedy, error) {
	if min < 0 || epsilon > 1 || min > epsilon {
		return nil, fmt.Errorf("epsilon=%g min=%g: %w", epsilon, min, ErrBadEpsilon)
	}
	return &EpsilonGreedy{src: newSource(opts), epsilon: epsilon, min: min}, nil
}

// Act implements Policy.
func (p *EpsilonGreedy) Act(v Valued) int {
	q := v.Strategy()
	if len(q) == 0 {
		return -1
	}
	p.src.mu.Lock()
	defer p.src.mu.Unlock()

	if p.src.rng.Float64() < p.epsilon {
		return p.src.uniformIndex(len(q))
	}

	return Argmax(q)
}

// Update implements Policy: ε ← ε·decay while above the floor, then pinned to it.
func (p *EpsilonGreedy) Update(decay float64) {
	p.src.mu.Lock()
	defer p.src.mu.Unlock()
	if p.epsilon > p.min {
		p.epsilon *= decay
	} else {
		p.epsilon = p.min
	}
}

// Epsilon returns the current exploration rate.
func (p *EpsilonGreedy) Epsilon() float64 {
	p.src.mu.Lock()
	defer p.src.mu.Unlock()
	return p.epsilon
}

// Argmax returns the index of the largest value, the first one on ties,
// or -1 for an empty slice.
func Argmax(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
