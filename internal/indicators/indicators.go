// Package indicators computes technical indicators over OHLCV series.
package indicators

import (
	"fmt"

	"finboard/internal/models"
)

// Indicator defines the interface for single-column indicators. The
// returned slice is aligned index-for-index with the input bars; entries
// before enough history are NaN.
type Indicator interface {
	Name() string
	Calculate(bars []models.Bar) ([]float64, error)
	Period() int
}

// MultiValueIndicator defines the interface for indicators producing
// several aligned columns.
type MultiValueIndicator interface {
	Name() string
	Calculate(bars []models.Bar) (map[string][]float64, error)
	Period() int
}

// SMA calculates the simple moving average of close prices.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return MAColumn(s.period)
}

func (s *SMA) Period() int {
	return s.period
}

func (s *SMA) Calculate(bars []models.Bar) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}

	result := undefinedSeries(len(bars))
	closes := models.ClosePrices(bars)

	for i := s.period - 1; i < len(bars); i++ {
		result[i] = mean(closes[i-s.period+1 : i+1])
	}
	return result, nil
}

// RSI calculates the Relative Strength Index with recursive exponential
// smoothing (alpha = 1/period) seeded from the first price delta.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return RSIColumn(r.period)
}

func (r *RSI) Period() int {
	return r.period
}

func (r *RSI) Calculate(bars []models.Bar) ([]float64, error) {
	if r.period <= 0 {
		return nil, ErrInvalidPeriod
	}

	n := len(bars)
	result := undefinedSeries(n)
	if n < 2 {
		return result, nil
	}

	closes := models.ClosePrices(bars)
	alpha := 1.0 / float64(r.period)

	var avgGain, avgLoss float64
	for i := 1; i < n; i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		if i == 1 {
			avgGain = gain
			avgLoss = loss
		} else {
			avgGain += alpha * (gain - avgGain)
			avgLoss += alpha * (loss - avgLoss)
		}

		// avgLoss of zero would make RS infinite; RSI saturates at 100.
		if avgLoss == 0 {
			result[i] = 100
		} else {
			rs := avgGain / avgLoss
			result[i] = 100 - 100/(1+rs)
		}
	}
	return result, nil
}

// BollingerBands calculates the middle, upper and lower bands: a simple
// moving average plus/minus a multiple of the rolling sample standard
// deviation of close prices.
type BollingerBands struct {
	period    int
	stdDevMul float64
}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands(period int, stdDevMul float64) *BollingerBands {
	return &BollingerBands{period: period, stdDevMul: stdDevMul}
}

func (b *BollingerBands) Name() string {
	return fmt.Sprintf("BB_%d_%.1f", b.period, b.stdDevMul)
}

func (b *BollingerBands) Period() int {
	return b.period
}

func (b *BollingerBands) Calculate(bars []models.Bar) (map[string][]float64, error) {
	if b.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if b.stdDevMul < 0 {
		return nil, ErrInvalidStdDev
	}

	n := len(bars)
	closes := models.ClosePrices(bars)
	middle := undefinedSeries(n)
	upper := undefinedSeries(n)
	lower := undefinedSeries(n)

	for i := b.period - 1; i < n; i++ {
		window := closes[i-b.period+1 : i+1]
		sma := mean(window)
		width := sampleStdDev(window) * b.stdDevMul

		middle[i] = sma
		upper[i] = sma + width
		lower[i] = sma - width
	}

	return map[string][]float64{
		ColBBMid:   middle,
		ColBBUpper: upper,
		ColBBLower: lower,
	}, nil
}

var (
	_ Indicator           = (*SMA)(nil)
	_ Indicator           = (*RSI)(nil)
	_ MultiValueIndicator = (*BollingerBands)(nil)
)
