// SPDX-License-Identifier: MIT
package env

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/routechoice/toll"
)

// Distribution names accepted by ParseDistribution.
const (
	DistFixed      = "DIST_FIXED"
	DistUniform    = "DIST_UNIFORM"
	DistNormal     = "DIST_NORMAL"
	DistTruncated  = "DIST_TRUNC_NORMAL"
	MinPreference  = 0.01
	PreferenceMean = toll.NeutralPreference
	PreferenceSD   = 0.2
	maxRedraws     = 64
)

// Distribution draws money-over-time preferences. Every sample lies in
// [MinPreference, 1].
type Distribution interface {
	Sample() float64
	Name() string
}

// Fixed gives every traveler the same preference.
type Fixed float64

// Sample implements Distribution.
func (f Fixed) Sample() float64 { return lo.Clamp(float64(f), MinPreference, 1) }

// Name implements Distribution.
func (Fixed) Name() string { return DistFixed }

type drawer interface{ Rand() float64 }

// sampled wraps a gonum distribution and clamps its draws.
type sampled struct {
	name      string
	d         drawer
	truncated bool
}

func (s sampled) Name() string { return s.name }

func (s sampled) Sample() float64 {
	v := s.d.Rand()
	if s.truncated {
		for i := 0; i < maxRedraws && (v < MinPreference || v > 1); i++ {
			v = s.d.Rand()
		}
	}
	return lo.Clamp(v, MinPreference, 1)
}

func source(seed uint64) rand.Source { return rand.NewPCG(seed, seed^0x9e3779b97f4a7c15) }

// Uniform draws preferences uniformly from [MinPreference, 1].
func Uniform(seed uint64) Distribution {
	return sampled{name: DistUniform, d: distuv.Uniform{Min: MinPreference, Max: 1, Src: source(seed)}}
}

// Normal draws from N(mean, sd) and clamps the result.
func Normal(mean, sd float64, seed uint64) Distribution {
	return sampled{name: DistNormal, d: distuv.Normal{Mu: mean, Sigma: sd, Src: source(seed)}}
}

// TruncatedNormal redraws N(mean, sd) until the value is a valid preference.
func TruncatedNormal(mean, sd float64, seed uint64) Distribution {
	return sampled{name: DistTruncated, d: distuv.Normal{Mu: mean, Sigma: sd, Src: source(seed)}, truncated: true}
}

// ParseDistribution maps a distribution name to a seeded Distribution. The
// normal variants are centred on the neutral preference.
func ParseDistribution(name string, seed uint64) (Distribution, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", DistFixed:
		return Fixed(toll.NeutralPreference), nil
	case DistUniform:
		return Uniform(seed), nil
	case DistNormal:
		return Normal(PreferenceMean, PreferenceSD, seed), nil
	case DistTruncated:
		return TruncatedNormal(PreferenceMean, PreferenceSD, seed), nil
	default:
		return nil, fmt.Errorf("env: %q: %w", name, ErrUnknownDistribution)
	}
}
