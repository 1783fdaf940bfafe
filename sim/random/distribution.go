package random

import (
	"fmt"
	"math"
	"sort"
)

// Sampler draws non-negative durations.
type Sampler interface {
	// Sample returns a duration >= 0.
	Sample() float64
}

// DistSpec parameterizes a duration distribution.
type DistSpec struct {
	Type   string             `yaml:"type" json:"type" hcl:"type"`
	Params map[string]float64 `yaml:"params,omitempty" json:"params,omitempty" hcl:"params,optional"`
}

// ConstantSampler always returns the same value.
type ConstantSampler struct {
	value float64
}

// NewConstantSampler returns a sampler fixed at value (clamped to 0).
func NewConstantSampler(value float64) *ConstantSampler {
	return &ConstantSampler{value: math.Max(0, value)}
}

func (s *ConstantSampler) Sample() float64 {
	return s.value
}

// funcSampler adapts a generator draw; negative draws (normal tails) clamp to 0.
type funcSampler struct {
	draw func() float64
}

func (s *funcSampler) Sample() float64 {
	v := s.draw()
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("distribution requires parameter %q", k)
		}
	}
	return nil
}

// Validate checks the spec without building a sampler.
func (spec DistSpec) Validate() error {
	_, err := NewSampler(spec, nil)
	return err
}

// String renders the spec as type(k=v, ...) with sorted keys.
func (spec DistSpec) String() string {
	keys := make([]string, 0, len(spec.Params))
	for k := range spec.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := spec.Type + "("
	for i, k := range keys {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s=%g", k, spec.Params[k])
	}
	return s + ")"
}

// NewSampler creates a Sampler from a DistSpec drawing from g.
// A nil g validates the spec and returns a nil Sampler.
func NewSampler(spec DistSpec, g *Generator) (Sampler, error) {
	p := spec.Params
	var draw func() float64

	switch spec.Type {
	case "constant":
		if err := requireParam(p, "value"); err != nil {
			return nil, err
		}
		if p["value"] < 0 {
			return nil, fmt.Errorf("constant value must be non-negative, got %g", p["value"])
		}
		if g == nil {
			return nil, nil
		}
		return NewConstantSampler(p["value"]), nil

	case "uniform":
		if err := requireParam(p, "low", "high"); err != nil {
			return nil, err
		}
		if p["low"] > p["high"] {
			return nil, fmt.Errorf("uniform low %g exceeds high %g", p["low"], p["high"])
		}
		if g != nil {
			draw = func() float64 { return g.Uniform(p["low"], p["high"]) }
		}

	case "exponential":
		if err := requireParam(p, "mean"); err != nil {
			return nil, err
		}
		if p["mean"] <= 0 {
			return nil, fmt.Errorf("exponential mean must be positive, got %g", p["mean"])
		}
		if g != nil {
			draw = func() float64 { return g.Exponential(p["mean"]) }
		}

	case "triangular":
		if err := requireParam(p, "min", "mode", "max"); err != nil {
			return nil, err
		}
		if !(p["min"] <= p["mode"] && p["mode"] <= p["max"]) {
			return nil, fmt.Errorf("triangular requires min <= mode <= max, got %g, %g, %g", p["min"], p["mode"], p["max"])
		}
		if g != nil {
			draw = func() float64 { return g.Triangular(p["min"], p["mode"], p["max"]) }
		}

	case "normal":
		if err := requireParam(p, "mean", "std_dev"); err != nil {
			return nil, err
		}
		if p["std_dev"] < 0 {
			return nil, fmt.Errorf("normal std_dev must be non-negative, got %g", p["std_dev"])
		}
		if g != nil {
			draw = func() float64 { return g.Normal(p["mean"], p["std_dev"]) }
		}

	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}

	if g == nil {
		return nil, nil
	}
	return &funcSampler{draw: draw}, nil
}
