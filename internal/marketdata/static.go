package marketdata

import (
	"context"
	"sync"

	"finboard/internal/models"
)

// StaticProvider serves fixed in-memory data. It backs offline use and
// tests that need deterministic quotes without network access.
type StaticProvider struct {
	mu     sync.RWMutex
	series map[string][]models.Bar
	quotes map[string]*models.Quote

	// QuoteCalls counts FetchQuote/FetchQuotes invocations, letting
	// tests assert that batched operations make a single provider call.
	QuoteCalls int
}

// NewStaticProvider creates an empty static provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		series: make(map[string][]models.Bar),
		quotes: make(map[string]*models.Quote),
	}
}

// SetSeries registers a series for a ticker.
func (s *StaticProvider) SetSeries(ticker string, bars []models.Bar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[ticker] = bars
}

// SetQuote registers the current quote for a ticker.
func (s *StaticProvider) SetQuote(ticker string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[ticker] = &models.Quote{Symbol: ticker, Price: price}
}

// RemoveQuote drops a ticker's quote so subsequent lookups fail.
func (s *StaticProvider) RemoveQuote(ticker string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, ticker)
}

// FetchSeries returns the registered series or ErrNotFound.
func (s *StaticProvider) FetchSeries(ctx context.Context, ticker string, period Period) ([]models.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bars, ok := s.series[ticker]
	if !ok {
		return nil, ErrNotFound
	}
	return bars, nil
}

// FetchQuote returns the registered quote or ErrNotFound.
func (s *StaticProvider) FetchQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	s.mu.Lock()
	s.QuoteCalls++
	s.mu.Unlock()

	s.mu.RLock()
	defer s.mu.RUnlock()
	quote, ok := s.quotes[ticker]
	if !ok {
		return nil, ErrNotFound
	}
	q := *quote
	return &q, nil
}

// FetchQuotes returns quotes for the registered subset of tickers.
func (s *StaticProvider) FetchQuotes(ctx context.Context, tickers []string) (map[string]*models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.QuoteCalls++

	quotes := make(map[string]*models.Quote, len(tickers))
	for _, ticker := range tickers {
		if quote, ok := s.quotes[ticker]; ok {
			q := *quote
			quotes[ticker] = &q
		}
	}
	return quotes, nil
}

var _ Provider = (*StaticProvider)(nil)
