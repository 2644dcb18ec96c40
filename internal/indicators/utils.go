package indicators

import (
	"errors"
	"math"
)

var (
	// ErrInvalidPeriod is returned when an indicator period is not positive.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrInvalidStdDev is returned when a band multiplier is negative.
	ErrInvalidStdDev = errors.New("invalid standard deviation multiplier")
)

// Defined reports whether an indicator value exists at an index. Values
// before enough history accumulates are NaN, never zero.
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// undefinedSeries returns a slice of n NaN values.
func undefinedSeries(n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return values
}

// sum calculates the sum of a slice of float64.
func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// mean calculates the arithmetic mean of a slice of float64.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// sampleStdDev calculates the sample standard deviation (n-1 divisor).
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}
