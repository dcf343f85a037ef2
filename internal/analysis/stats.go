package analysis

import "math"

// Mean returns the arithmetic mean of xs, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// SampleSD returns the Bessel-corrected sample standard deviation of xs
// (divide by n-1). It is 0 when fewer than two values are present.
func SampleSD(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	mean := Mean(xs)
	sumSq := 0.0
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// CoefficientOfVariation returns SampleSD(xs) / Mean(xs). The second return
// is false when the CV is undefined: fewer than two values or a zero mean.
func CoefficientOfVariation(xs []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	mean := Mean(xs)
	if mean == 0 {
		return 0, false
	}
	return SampleSD(xs) / mean, true
}
