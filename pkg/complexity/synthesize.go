package complexity

import (
	"math"
	"math/rand/v2"
)

// InputSizes is the fixed benchmark ladder. The judge thresholds are
// calibrated against its 100x span.
var InputSizes = []int{10, 50, 100, 200, 500, 1000}

const (
	scaleQuadratic = 0.0001
	scaleLinear    = 0.05
	scaleConstant  = 0.5

	noiseMin = 0.9
	noiseMax = 1.1

	epsilonMs = 0.001
)

// NoiseSource returns a multiplicative noise factor in [0.9, 1.1].
type NoiseSource func() float64

// UniformNoise draws from the global, concurrency-safe generator.
func UniformNoise() float64 {
	return noiseMin + rand.Float64()*(noiseMax-noiseMin)
}

// FixedNoise always returns f, clamped into the noise band.
func FixedNoise(f float64) NoiseSource {
	f = math.Max(noiseMin, math.Min(noiseMax, f))
	return func() float64 { return f }
}

// Synthesize produces a noisy latency curve shaped like class.
func Synthesize(class Class) BenchmarkCurve {
	return SynthesizeWith(class, UniformNoise)
}

// SynthesizeWith is Synthesize with an explicit noise source.
func SynthesizeWith(class Class, noise NoiseSource) BenchmarkCurve {
	if noise == nil {
		noise = UniformNoise
	}
	curve := make(BenchmarkCurve, 0, len(InputSizes))
	for _, n := range InputSizes {
		curve = append(curve, MetricPoint{
			InputSize: n,
			TimeMs:    round3(expectedTime(class, n) * noise()),
		})
	}
	return curve
}

// ExpectedTime is the noise-free latency for class at input size n.
func ExpectedTime(class Class, n int) float64 {
	return expectedTime(class, n)
}

func expectedTime(class Class, n int) float64 {
	x := float64(n)
	switch class {
	case Quadratic:
		return x * x * scaleQuadratic
	case Linear:
		return x * scaleLinear
	default:
		return scaleConstant
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
