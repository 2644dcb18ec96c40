package indicators

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property: RSI is bounded in [0, 100] for every defined index, for any
// positive close series and any valid period.
func TestProperty_RSIBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("RSI stays within [0, 100]", prop.ForAll(
		func(closes []float64, period int) bool {
			bars := barsFromCloses(closes...)
			result, err := NewRSI(period).Calculate(bars)
			if err != nil {
				t.Logf("Calculate failed: %v", err)
				return false
			}
			for i, v := range result {
				if !Defined(v) {
					continue
				}
				if v < 0 || v > 100 {
					t.Logf("RSI[%d] = %v out of bounds for closes %v", i, v, closes)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0.01, 10000)),
		gen.IntRange(1, 50),
	))

	properties.TestingRun(t)
}

// Property: Bollinger upper >= mid >= lower at every defined index for
// any non-negative multiplier.
func TestProperty_BollingerBandOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("band ordering holds", prop.ForAll(
		func(closes []float64, period int, mul float64) bool {
			bars := barsFromCloses(closes...)
			result, err := NewBollingerBands(period, mul).Calculate(bars)
			if err != nil {
				t.Logf("Calculate failed: %v", err)
				return false
			}
			mid := result[ColBBMid]
			upper := result[ColBBUpper]
			lower := result[ColBBLower]
			for i := range mid {
				if !Defined(mid[i]) {
					if Defined(upper[i]) || Defined(lower[i]) {
						t.Logf("bands defined while mid undefined at %d", i)
						return false
					}
					continue
				}
				if upper[i] < mid[i] || mid[i] < lower[i] {
					t.Logf("ordering violated at %d: %v / %v / %v", i, lower[i], mid[i], upper[i])
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0.01, 10000)),
		gen.IntRange(1, 30),
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t)
}

// Property: SMA at index i equals the arithmetic mean of the trailing
// window, and is undefined before a full window exists.
func TestProperty_SMAMatchesWindowMean(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("SMA equals window mean", prop.ForAll(
		func(closes []float64, period int) bool {
			bars := barsFromCloses(closes...)
			result, err := NewSMA(period).Calculate(bars)
			if err != nil {
				t.Logf("Calculate failed: %v", err)
				return false
			}
			for i := range result {
				if i < period-1 {
					if Defined(result[i]) {
						t.Logf("SMA[%d] defined before full window", i)
						return false
					}
					continue
				}
				sum := 0.0
				for j := i - period + 1; j <= i; j++ {
					sum += closes[j]
				}
				want := sum / float64(period)
				if math.Abs(result[i]-want) > 1e-6 {
					t.Logf("SMA[%d] = %v, want %v", i, result[i], want)
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0.01, 10000)),
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t)
}
