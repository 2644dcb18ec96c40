// Package models provides domain models for the finance dashboard.
package models

import (
	"errors"
	"strings"
	"time"
)

// Timeframe represents the candle interval of a price series.
type Timeframe string

const (
	TimeframeDaily     Timeframe = "1D"
	TimeframeWeekly    Timeframe = "1W" // week ending Friday
	TimeframeMonthly   Timeframe = "1M"
	TimeframeQuarterly Timeframe = "3M"
)

// OrderSide represents the side of a trade.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Bar represents OHLCV data for a single period.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Quote represents a live market quote.
type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
	Timestamp     time.Time
}

// ErrInvalidTicker is returned when a ticker symbol fails basic format checks.
var ErrInvalidTicker = errors.New("invalid ticker symbol")

// ValidateTicker performs a basic format check on a ticker symbol:
// non-empty, at most 10 characters, alphanumeric aside from '.' and '-'.
func ValidateTicker(ticker string) error {
	if ticker == "" || len(ticker) > 10 {
		return ErrInvalidTicker
	}
	for _, r := range ticker {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-':
		default:
			return ErrInvalidTicker
		}
	}
	return nil
}

// NormalizeTicker trims and upper-cases a ticker, then validates it.
func NormalizeTicker(ticker string) (string, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if err := ValidateTicker(ticker); err != nil {
		return "", err
	}
	return ticker, nil
}

// ClosePrices extracts close prices from a series of bars.
func ClosePrices(bars []Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.Close
	}
	return prices
}
