package session

import (
	"context"
	"fmt"
	"sync"

	"finboard/internal/marketdata"
	"finboard/internal/models"
)

// Watchlist is an ordered set of tickers the user is tracking.
type Watchlist struct {
	provider marketdata.Provider

	mu      sync.Mutex
	tickers []string
}

// NewWatchlist creates an empty watchlist backed by the given provider.
func NewWatchlist(provider marketdata.Provider) *Watchlist {
	return &Watchlist{provider: provider}
}

// Add appends ticker to the watchlist. Adding a ticker that is already
// present is a no-op; the returned bool reports whether it was added.
func (w *Watchlist) Add(ticker string) (bool, error) {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return false, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for _, t := range w.tickers {
		if t == ticker {
			return false, nil
		}
	}
	w.tickers = append(w.tickers, ticker)
	return true, nil
}

// Remove drops ticker from the watchlist, reporting whether it was present.
func (w *Watchlist) Remove(ticker string) bool {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for i, t := range w.tickers {
		if t == ticker {
			w.tickers = append(w.tickers[:i], w.tickers[i+1:]...)
			return true
		}
	}
	return false
}

// Tickers returns the watched tickers in insertion order.
func (w *Watchlist) Tickers() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, len(w.tickers))
	copy(out, w.tickers)
	return out
}

// Prices fetches a quote snapshot for the whole watchlist in one batched
// call. Tickers the provider cannot price are absent from the result.
func (w *Watchlist) Prices(ctx context.Context) (map[string]*models.Quote, error) {
	tickers := w.Tickers()
	if len(tickers) == 0 {
		return map[string]*models.Quote{}, nil
	}

	quotes, err := w.provider.FetchQuotes(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("fetching watchlist quotes: %w", err)
	}
	return quotes, nil
}

// Restore replaces the watchlist contents, used when loading persisted
// state at startup. Invalid and duplicate tickers are dropped.
func (w *Watchlist) Restore(tickers []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tickers = w.tickers[:0]
	seen := make(map[string]bool)
	for _, raw := range tickers {
		ticker, err := models.NormalizeTicker(raw)
		if err != nil || seen[ticker] {
			continue
		}
		seen[ticker] = true
		w.tickers = append(w.tickers, ticker)
	}
}
