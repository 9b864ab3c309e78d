package complexity

const (
	VerdictConfirmed  = "Confirmed"
	VerdictDivergence = "Divergence Detected"

	ConfidenceMatch    = 0.95
	ConfidenceMismatch = 0.45
)

// Growth-ratio cut points, at the geometric midpoints between the expected
// ratios 1x, 100x and 10000x over InputSizes.
const (
	quadraticRatio = 5000
	linearRatio    = 50
)

// ObservedClass re-derives a class from a curve's growth ratio.
func ObservedClass(curve BenchmarkCurve) Class {
	return classForRatio(curve.GrowthRatio())
}

func classForRatio(ratio float64) Class {
	switch {
	case ratio > quadraticRatio:
		return Quadratic
	case ratio > linearRatio:
		return Linear
	default:
		return Constant
	}
}

// Judge compares the static class against the class observed on curve.
// Confidence is one of two constants; it does not scale with how far the
// ratio sits from a threshold.
func Judge(static Class, curve BenchmarkCurve) Judgment {
	ratio := curve.GrowthRatio()
	observed := classForRatio(ratio)
	j := Judgment{
		Match:    static == observed,
		Observed: observed,
		Ratio:    ratio,
	}
	if j.Match {
		j.Verdict = VerdictConfirmed
		j.Confidence = ConfidenceMatch
	} else {
		j.Verdict = VerdictDivergence
		j.Confidence = ConfidenceMismatch
	}
	return j
}
