package marketdata

import (
	"context"
	"testing"
	"time"

	"finboard/internal/models"
)

func TestCachedProviderQuoteTTL(t *testing.T) {
	ctx := context.Background()
	upstream := NewStaticProvider()
	upstream.SetQuote("X", 10)

	cached := NewCachedProvider(upstream, time.Hour, time.Minute)
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return clock }

	if _, err := cached.FetchQuote(ctx, "X"); err != nil {
		t.Fatal(err)
	}
	if upstream.QuoteCalls != 1 {
		t.Fatalf("expected 1 upstream call, got %d", upstream.QuoteCalls)
	}

	// Within the TTL the cached quote is served, even after the
	// upstream price changes.
	upstream.SetQuote("X", 20)
	clock = clock.Add(30 * time.Second)
	quote, err := cached.FetchQuote(ctx, "X")
	if err != nil {
		t.Fatal(err)
	}
	if quote.Price != 10 {
		t.Errorf("expected cached price 10, got %v", quote.Price)
	}
	if upstream.QuoteCalls != 1 {
		t.Errorf("upstream called while cache fresh: %d", upstream.QuoteCalls)
	}

	// Past the TTL the quote is refetched.
	clock = clock.Add(time.Minute)
	quote, err = cached.FetchQuote(ctx, "X")
	if err != nil {
		t.Fatal(err)
	}
	if quote.Price != 20 {
		t.Errorf("expected refreshed price 20, got %v", quote.Price)
	}
	if upstream.QuoteCalls != 2 {
		t.Errorf("expected 2 upstream calls, got %d", upstream.QuoteCalls)
	}
}

func TestCachedProviderSeriesTTL(t *testing.T) {
	ctx := context.Background()
	upstream := NewStaticProvider()
	upstream.SetSeries("X", []models.Bar{{Close: 1}})

	cached := NewCachedProvider(upstream, time.Hour, time.Minute)
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return clock }

	first, err := cached.FetchSeries(ctx, "X", Period1Y)
	if err != nil {
		t.Fatal(err)
	}

	upstream.SetSeries("X", []models.Bar{{Close: 1}, {Close: 2}})
	clock = clock.Add(30 * time.Minute)
	second, err := cached.FetchSeries(ctx, "X", Period1Y)
	if err != nil {
		t.Fatal(err)
	}
	if len(second) != len(first) {
		t.Error("cache served refreshed series before expiry")
	}

	clock = clock.Add(time.Hour)
	third, err := cached.FetchSeries(ctx, "X", Period1Y)
	if err != nil {
		t.Fatal(err)
	}
	if len(third) != 2 {
		t.Errorf("expected refreshed series of 2 bars, got %d", len(third))
	}
}

func TestCachedProviderSeriesKeyedByPeriod(t *testing.T) {
	ctx := context.Background()
	upstream := NewStaticProvider()
	upstream.SetSeries("X", []models.Bar{{Close: 1}})

	cached := NewCachedProvider(upstream, time.Hour, time.Minute)

	if _, err := cached.FetchSeries(ctx, "X", Period1Y); err != nil {
		t.Fatal(err)
	}

	// A different period is a cache miss, not a hit on the 1y entry.
	upstream.SetSeries("X", []models.Bar{{Close: 1}, {Close: 2}})
	series, err := cached.FetchSeries(ctx, "X", Period5Y)
	if err != nil {
		t.Fatal(err)
	}
	if len(series) != 2 {
		t.Errorf("expected fresh fetch for new period, got %d bars", len(series))
	}
}

func TestCachedProviderBatchFetchesOnlyStale(t *testing.T) {
	ctx := context.Background()
	upstream := NewStaticProvider()
	upstream.SetQuote("A", 1)
	upstream.SetQuote("B", 2)

	cached := NewCachedProvider(upstream, time.Hour, time.Minute)
	clock := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return clock }

	// Prime A only.
	if _, err := cached.FetchQuote(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	upstream.QuoteCalls = 0

	quotes, err := cached.FetchQuotes(ctx, []string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	// Only B was stale, so exactly one upstream batch happened.
	if upstream.QuoteCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", upstream.QuoteCalls)
	}

	// Everything fresh now: no upstream calls at all.
	upstream.QuoteCalls = 0
	if _, err := cached.FetchQuotes(ctx, []string{"A", "B"}); err != nil {
		t.Fatal(err)
	}
	if upstream.QuoteCalls != 0 {
		t.Errorf("upstream called with all quotes fresh: %d", upstream.QuoteCalls)
	}
}

func TestCachedProviderErrorsNotCached(t *testing.T) {
	ctx := context.Background()
	upstream := NewStaticProvider()
	cached := NewCachedProvider(upstream, time.Hour, time.Minute)

	if _, err := cached.FetchQuote(ctx, "X"); err == nil {
		t.Fatal("expected error for unknown ticker")
	}

	// Once the upstream can price it, the cache must not remember the failure.
	upstream.SetQuote("X", 5)
	quote, err := cached.FetchQuote(ctx, "X")
	if err != nil {
		t.Fatalf("expected success after upstream recovery: %v", err)
	}
	if quote.Price != 5 {
		t.Errorf("price: got %v, want 5", quote.Price)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	upstream := NewStaticProvider()
	upstream.SetQuote("X", 10)
	cached := NewCachedProvider(upstream, time.Hour, time.Minute)

	if _, err := cached.FetchQuote(ctx, "X"); err != nil {
		t.Fatal(err)
	}
	cached.Invalidate()

	upstream.QuoteCalls = 0
	if _, err := cached.FetchQuote(ctx, "X"); err != nil {
		t.Fatal(err)
	}
	if upstream.QuoteCalls != 1 {
		t.Errorf("expected refetch after invalidate, got %d calls", upstream.QuoteCalls)
	}
}
