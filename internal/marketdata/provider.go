// Package marketdata provides market data retrieval for the dashboard core.
package marketdata

import (
	"context"
	"errors"

	"finboard/internal/models"
)

// Period represents the historical range of a series request.
type Period string

const (
	Period1Y Period = "1y"
	Period2Y Period = "2y"
	Period5Y Period = "5y"
)

var (
	// ErrNotFound is returned when a ticker has no data upstream.
	ErrNotFound = errors.New("ticker not found")
	// ErrNetwork is returned when the upstream call fails.
	ErrNetwork = errors.New("market data request failed")
)

// Provider defines the market data capability the core depends on.
// FetchQuotes may return partial results: a ticker missing from the map
// means its lookup failed, and must not abort the other tickers.
type Provider interface {
	FetchSeries(ctx context.Context, ticker string, period Period) ([]models.Bar, error)
	FetchQuote(ctx context.Context, ticker string) (*models.Quote, error)
	FetchQuotes(ctx context.Context, tickers []string) (map[string]*models.Quote, error)
}
