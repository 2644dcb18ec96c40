package session

import (
	"context"
	"testing"
	"time"

	"finboard/internal/marketdata"
	"finboard/internal/models"
)

func TestRestoreReplaysTradeLog(t *testing.T) {
	provider := marketdata.NewStaticProvider()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	state := State{
		InitialBalance: 100000,
		Trades: []models.Trade{
			{Symbol: "AAPL", Side: models.OrderSideBuy, Quantity: 10, Price: 50, TotalValue: 500, Timestamp: base},
			{Symbol: "AAPL", Side: models.OrderSideBuy, Quantity: 10, Price: 70, TotalValue: 700, Timestamp: base.Add(time.Hour)},
			{Symbol: "AAPL", Side: models.OrderSideSell, Quantity: 5, Price: 80, TotalValue: 400, Timestamp: base.Add(2 * time.Hour)},
		},
		Watchlist: []string{"AAPL", "MSFT"},
	}

	s, err := Restore(provider, state)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	pos, ok := s.Account.Position("AAPL")
	if !ok {
		t.Fatal("position not rebuilt")
	}
	if pos.Quantity != 15 || pos.AvgPrice != 60 {
		t.Errorf("position: %+v", pos)
	}
	wantCash := 100000.0 - 500 - 700 + 400
	if s.Account.Cash() != wantCash {
		t.Errorf("cash: got %v, want %v", s.Account.Cash(), wantCash)
	}
	if got := s.Watchlist.Tickers(); len(got) != 2 {
		t.Errorf("watchlist: %v", got)
	}
}

func TestRestoreSortsTradesChronologically(t *testing.T) {
	provider := marketdata.NewStaticProvider()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	// Trades arrive newest first, the order a history export uses. A
	// sell before its buy would fail, so Restore must sort first.
	state := State{
		InitialBalance: 10000,
		Trades: []models.Trade{
			{Symbol: "X", Side: models.OrderSideSell, Quantity: 5, Price: 60, Timestamp: base.Add(time.Hour)},
			{Symbol: "X", Side: models.OrderSideBuy, Quantity: 10, Price: 50, Timestamp: base},
		},
	}

	s, err := Restore(provider, state)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	pos, _ := s.Account.Position("X")
	if pos.Quantity != 5 {
		t.Errorf("quantity: got %d, want 5", pos.Quantity)
	}
}

func TestRestoreRejectsInconsistentLog(t *testing.T) {
	provider := marketdata.NewStaticProvider()

	state := State{
		InitialBalance: 100,
		Trades: []models.Trade{
			{Symbol: "X", Side: models.OrderSideBuy, Quantity: 100, Price: 50,
				Timestamp: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	if _, err := Restore(provider, state); err == nil {
		t.Fatal("expected error replaying unaffordable trade")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	provider := marketdata.NewStaticProvider()

	s := New(provider, 50000)
	if _, err := s.Account.ExecuteTrade(ctx, "A", models.OrderSideBuy, 10, 25); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Alerts.Add("A", models.AlertAbove, 30); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Watchlist.Add("A"); err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(provider, s.Snapshot())
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if restored.Account.Cash() != s.Account.Cash() {
		t.Errorf("cash: got %v, want %v", restored.Account.Cash(), s.Account.Cash())
	}
	if len(restored.Alerts.All()) != 1 {
		t.Errorf("alerts not restored")
	}
	if got := restored.Watchlist.Tickers(); len(got) != 1 || got[0] != "A" {
		t.Errorf("watchlist: %v", got)
	}
}

func TestWatchlistAddRemove(t *testing.T) {
	w := NewWatchlist(marketdata.NewStaticProvider())

	added, err := w.Add("aapl")
	if err != nil || !added {
		t.Fatalf("add failed: %v, added=%v", err, added)
	}
	// Duplicate adds are no-ops.
	added, err = w.Add("AAPL")
	if err != nil || added {
		t.Errorf("duplicate add: err=%v, added=%v", err, added)
	}
	if _, err := w.Add("bad ticker!"); err == nil {
		t.Error("expected error for invalid ticker")
	}

	if !w.Remove("AAPL") {
		t.Error("remove reported ticker missing")
	}
	if w.Remove("AAPL") {
		t.Error("second remove reported success")
	}
}

func TestWatchlistPricesBatched(t *testing.T) {
	ctx := context.Background()
	provider := marketdata.NewStaticProvider()
	provider.SetQuote("A", 1)
	provider.SetQuote("B", 2)

	w := NewWatchlist(provider)
	for _, ticker := range []string{"A", "B", "C"} {
		if _, err := w.Add(ticker); err != nil {
			t.Fatal(err)
		}
	}

	provider.QuoteCalls = 0
	quotes, err := w.Prices(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if provider.QuoteCalls != 1 {
		t.Errorf("expected one batched call, got %d", provider.QuoteCalls)
	}
	// C has no quote and is simply absent.
	if len(quotes) != 2 {
		t.Errorf("quotes: %v", quotes)
	}
}

func TestWatchlistRestoreDropsInvalidAndDuplicates(t *testing.T) {
	w := NewWatchlist(marketdata.NewStaticProvider())
	w.Restore([]string{"A", "a", "not a ticker!", "B"})

	got := w.Tickers()
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("tickers: %v", got)
	}
}
