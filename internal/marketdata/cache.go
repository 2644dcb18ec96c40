package marketdata

import (
	"context"
	"fmt"
	"sync"
	"time"

	"finboard/internal/models"
)

// Default TTLs match the upstream call cadence the dashboard was built
// around: historical series refresh hourly, quotes every minute.
const (
	DefaultSeriesTTL = time.Hour
	DefaultQuoteTTL  = time.Minute
)

type seriesEntry struct {
	bars    []models.Bar
	expires time.Time
}

type quoteEntry struct {
	quote   *models.Quote
	expires time.Time
}

// CachedProvider wraps a Provider with TTL caching so repeated requests
// within the TTL window do not hit the upstream API. Errors are never
// cached; a failed fetch is retried on the next call.
type CachedProvider struct {
	upstream  Provider
	seriesTTL time.Duration
	quoteTTL  time.Duration

	mu     sync.RWMutex
	series map[string]seriesEntry
	quotes map[string]quoteEntry

	// now is swappable for tests.
	now func() time.Time
}

// NewCachedProvider creates a caching decorator around a provider.
func NewCachedProvider(upstream Provider, seriesTTL, quoteTTL time.Duration) *CachedProvider {
	if seriesTTL <= 0 {
		seriesTTL = DefaultSeriesTTL
	}
	if quoteTTL <= 0 {
		quoteTTL = DefaultQuoteTTL
	}
	return &CachedProvider{
		upstream:  upstream,
		seriesTTL: seriesTTL,
		quoteTTL:  quoteTTL,
		series:    make(map[string]seriesEntry),
		quotes:    make(map[string]quoteEntry),
		now:       time.Now,
	}
}

// FetchSeries returns a cached series when fresh, fetching otherwise.
func (c *CachedProvider) FetchSeries(ctx context.Context, ticker string, period Period) ([]models.Bar, error) {
	key := fmt.Sprintf("%s:%s", ticker, period)

	c.mu.RLock()
	entry, ok := c.series[key]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expires) {
		return entry.bars, nil
	}

	bars, err := c.upstream.FetchSeries(ctx, ticker, period)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.series[key] = seriesEntry{bars: bars, expires: c.now().Add(c.seriesTTL)}
	c.mu.Unlock()
	return bars, nil
}

// FetchQuote returns a cached quote when fresh, fetching otherwise.
func (c *CachedProvider) FetchQuote(ctx context.Context, ticker string) (*models.Quote, error) {
	c.mu.RLock()
	entry, ok := c.quotes[ticker]
	c.mu.RUnlock()
	if ok && c.now().Before(entry.expires) {
		return entry.quote, nil
	}

	quote, err := c.upstream.FetchQuote(ctx, ticker)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.quotes[ticker] = quoteEntry{quote: quote, expires: c.now().Add(c.quoteTTL)}
	c.mu.Unlock()
	return quote, nil
}

// FetchQuotes serves fresh cached quotes and fetches only the stale
// remainder from upstream in one call.
func (c *CachedProvider) FetchQuotes(ctx context.Context, tickers []string) (map[string]*models.Quote, error) {
	quotes := make(map[string]*models.Quote, len(tickers))
	var stale []string

	c.mu.RLock()
	for _, ticker := range tickers {
		if entry, ok := c.quotes[ticker]; ok && c.now().Before(entry.expires) {
			quotes[ticker] = entry.quote
		} else {
			stale = append(stale, ticker)
		}
	}
	c.mu.RUnlock()

	if len(stale) == 0 {
		return quotes, nil
	}

	fetched, err := c.upstream.FetchQuotes(ctx, stale)
	if err != nil {
		return quotes, err
	}

	c.mu.Lock()
	expires := c.now().Add(c.quoteTTL)
	for ticker, quote := range fetched {
		c.quotes[ticker] = quoteEntry{quote: quote, expires: expires}
		quotes[ticker] = quote
	}
	c.mu.Unlock()
	return quotes, nil
}

// Invalidate drops all cached entries.
func (c *CachedProvider) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series = make(map[string]seriesEntry)
	c.quotes = make(map[string]quoteEntry)
}

var _ Provider = (*CachedProvider)(nil)
