package random

import (
	"math"
	"math/rand"
)

// Generator samples random variates from a single seeded stream.
// Same seed and same call sequence give identical samples.
//
// Thread-safety: NOT thread-safe.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a Generator seeded with seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Uniform returns a sample from U[low, high).
func (g *Generator) Uniform(low, high float64) float64 {
	return low + g.rng.Float64()*(high-low)
}

// Exponential returns a sample from the exponential distribution with the given mean.
func (g *Generator) Exponential(mean float64) float64 {
	return g.rng.ExpFloat64() * mean
}

// Triangular returns a sample from the triangular distribution on [min, max]
// with peak at mode, using the inverse CDF.
func (g *Generator) Triangular(min, mode, max float64) float64 {
	if min == max {
		return min
	}
	u := g.rng.Float64()
	c := (mode - min) / (max - min)
	if u <= c {
		return min + math.Sqrt(u*(max-min)*(mode-min))
	}
	return max - math.Sqrt((1-u)*(max-min)*(max-mode))
}

// Normal returns a sample from N(mean, stddev²).
func (g *Generator) Normal(mean, stddev float64) float64 {
	return g.rng.NormFloat64()*stddev + mean
}

// Poisson returns a Poisson-distributed count with rate lambda.
// Returns 0 for lambda <= 0.
func (g *Generator) Poisson(lambda float64) int {
	if lambda <= 0 {
		return 0
	}
	if lambda < 30 {
		return g.poissonKnuth(lambda)
	}
	return g.poissonPTRS(lambda)
}

// poissonKnuth multiplies uniforms until the product drops below e^-lambda.
func (g *Generator) poissonKnuth(lambda float64) int {
	limit := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= g.rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}

// poissonPTRS is Hörmann's transformed rejection with squeeze.
// Knuth's method underflows e^-lambda and runs in O(lambda) for large rates.
func (g *Generator) poissonPTRS(lambda float64) int {
	slam := math.Sqrt(lambda)
	loglam := math.Log(lambda)
	b := 0.931 + 2.53*slam
	a := -0.059 + 0.02483*b
	invalpha := 1.1239 + 1.1328/(b-3.4)
	vr := 0.9277 - 3.6224/(b-2)

	for {
		u := g.rng.Float64() - 0.5
		v := g.rng.Float64()
		us := 0.5 - math.Abs(u)
		k := math.Floor((2*a/us+b)*u + lambda + 0.43)
		if us >= 0.07 && v <= vr {
			return int(k)
		}
		if k < 0 || (us < 0.013 && v > us) {
			continue
		}
		lgam, _ := math.Lgamma(k + 1)
		if math.Log(v)+math.Log(invalpha)-math.Log(a/(us*us)+b) <= -lambda+k*loglam-lgam {
			return int(k)
		}
	}
}

// UniformN returns n samples from U[low, high).
func (g *Generator) UniformN(low, high float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Uniform(low, high)
	}
	return out
}

// ExponentialN returns n exponential samples with the given mean.
func (g *Generator) ExponentialN(mean float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Exponential(mean)
	}
	return out
}

// TriangularN returns n triangular samples.
func (g *Generator) TriangularN(min, mode, max float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Triangular(min, mode, max)
	}
	return out
}

// NormalN returns n normal samples.
func (g *Generator) NormalN(mean, stddev float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = g.Normal(mean, stddev)
	}
	return out
}

// PoissonN returns n Poisson counts.
func (g *Generator) PoissonN(lambda float64, n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = g.Poisson(lambda)
	}
	return out
}
