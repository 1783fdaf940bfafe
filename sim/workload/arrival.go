// Package workload provides the arrival processes that release loads into a line.
package workload

import (
	"fmt"
	"math"

	"github.com/linesim/linesim/sim/random"
)

// ArrivalSampler times the releases of a source.
type ArrivalSampler interface {
	// First returns the virtual time of the first release.
	First() float64
	// Next returns the delay from a release at now to the following one.
	// Always returns a value >= 0.
	Next(now float64) float64
}

// FixedInterval releases one load every Interval time units starting at 0.
type FixedInterval struct {
	Interval float64
}

func (s *FixedInterval) First() float64 { return 0 }

func (s *FixedInterval) Next(float64) float64 { return s.Interval }

// Stochastic draws inter-arrival times from a duration sampler, starting at 0.
type Stochastic struct {
	sampler random.Sampler
}

// NewStochastic builds inter-arrival times from spec using g.
func NewStochastic(spec random.DistSpec, g *random.Generator) (*Stochastic, error) {
	if g == nil {
		return nil, fmt.Errorf("stochastic arrivals need a generator")
	}
	s, err := random.NewSampler(spec, g)
	if err != nil {
		return nil, fmt.Errorf("interval distribution: %w", err)
	}
	return &Stochastic{sampler: s}, nil
}

func (s *Stochastic) First() float64 { return 0 }

func (s *Stochastic) Next(float64) float64 {
	d := s.sampler.Sample()
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	return d
}
