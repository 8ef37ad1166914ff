package recurring

import "math"

// mean returns the arithmetic mean of values, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the population standard deviation of values.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// coefficientOfVariation returns stdDev/mean as a scale-free spread
// measure. A zero mean is treated as maximal spread rather than a
// division error.
func coefficientOfVariation(values []float64) float64 {
	m := mean(values)
	if m == 0 {
		return 1
	}
	return stdDev(values) / m
}
