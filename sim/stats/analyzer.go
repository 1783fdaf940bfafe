// Package stats computes summary statistics over observed samples such as
// lead times or per-replication averages.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrEmptySample is returned when an analyzer is built from no observations.
	ErrEmptySample = errors.New("stats: empty sample")
	// ErrNonFinite is returned when a sample contains NaN or ±Inf.
	ErrNonFinite = errors.New("stats: sample contains non-finite value")
)

// DefaultConfidence is the confidence level used when none is requested.
const DefaultConfidence = 0.95

// Analyzer holds an immutable copy of a sample.
type Analyzer struct {
	data   []float64
	sorted []float64
}

// New copies sample into an Analyzer.
func New(sample []float64) (*Analyzer, error) {
	if len(sample) == 0 {
		return nil, ErrEmptySample
	}
	data := make([]float64, len(sample))
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
		data[i] = v
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return &Analyzer{data: data, sorted: sorted}, nil
}

// Count returns the number of observations.
func (a *Analyzer) Count() int {
	return len(a.data)
}

// Mean returns the arithmetic mean.
func (a *Analyzer) Mean() float64 {
	return stat.Mean(a.data, nil)
}

// StdDev returns the sample standard deviation (n-1 denominator).
// A single observation has zero spread.
func (a *Analyzer) StdDev() float64 {
	if len(a.data) < 2 {
		return 0
	}
	return stat.StdDev(a.data, nil)
}

// Min returns the smallest observation.
func (a *Analyzer) Min() float64 {
	return floats.Min(a.data)
}

// Max returns the largest observation.
func (a *Analyzer) Max() float64 {
	return floats.Max(a.data)
}

// Median returns the middle observation, averaging the two middle values
// when the count is even.
func (a *Analyzer) Median() float64 {
	n := len(a.sorted)
	if n%2 == 1 {
		return a.sorted[n/2]
	}
	return (a.sorted[n/2-1] + a.sorted[n/2]) / 2
}

// ConfidenceInterval returns the two-sided Student-t interval for the mean at
// the given level. Fewer than two observations give (mean, mean).
func (a *Analyzer) ConfidenceInterval(level float64) (low, high float64, err error) {
	if !(level > 0 && level < 1) {
		return 0, 0, fmt.Errorf("stats: confidence level must be in (0, 1), got %g", level)
	}
	mean := a.Mean()
	n := len(a.data)
	if n < 2 {
		return mean, mean, nil
	}
	df := float64(n - 1)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile((1 + level) / 2)
	half := t * a.StdDev() / math.Sqrt(float64(n))
	return mean - half, mean + half, nil
}

// Summary is the bundle of descriptive statistics for one sample.
type Summary struct {
	Mean               float64    `json:"mean" yaml:"mean"`
	StandardDeviation  float64    `json:"standard_deviation" yaml:"standard_deviation"`
	ConfidenceInterval [2]float64 `json:"confidence_interval" yaml:"confidence_interval"`
	ConfidenceLevel    float64    `json:"confidence_level" yaml:"confidence_level"`
	Min                float64    `json:"min" yaml:"min"`
	Max                float64    `json:"max" yaml:"max"`
	Median             float64    `json:"median" yaml:"median"`
	Count              int        `json:"count" yaml:"count"`
}

// Summary computes every statistic at the given confidence level.
func (a *Analyzer) Summary(level float64) (Summary, error) {
	low, high, err := a.ConfidenceInterval(level)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Mean:               a.Mean(),
		StandardDeviation:  a.StdDev(),
		ConfidenceInterval: [2]float64{low, high},
		ConfidenceLevel:    level,
		Min:                a.Min(),
		Max:                a.Max(),
		Median:             a.Median(),
		Count:              a.Count(),
	}, nil
}

// Round rounds v to the given number of decimal places, half away from zero.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
