package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finboard/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "finboard_test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBarsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	bars := []models.Bar{
		{Timestamp: start, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Timestamp: start.AddDate(0, 0, 1), Open: 11, High: 13, Low: 10, Close: 12, Volume: 200},
	}

	if err := s.SaveBars(ctx, "AAPL", models.TimeframeDaily, bars); err != nil {
		t.Fatalf("SaveBars failed: %v", err)
	}

	got, err := s.GetBars(ctx, "AAPL", models.TimeframeDaily, start, start.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("GetBars failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(got))
	}
	if got[0].Close != 11 || got[1].Close != 12 {
		t.Errorf("bars out of order or corrupted: %+v", got)
	}

	// Re-saving the same timestamps replaces rather than duplicates.
	if err := s.SaveBars(ctx, "AAPL", models.TimeframeDaily, bars); err != nil {
		t.Fatalf("re-save failed: %v", err)
	}
	got, _ = s.GetBars(ctx, "AAPL", models.TimeframeDaily, start, start.AddDate(0, 0, 7))
	if len(got) != 2 {
		t.Errorf("duplicate rows after re-save: %d", len(got))
	}

	freshness, err := s.GetBarsFreshness(ctx, "AAPL", models.TimeframeDaily)
	if err != nil {
		t.Fatalf("GetBarsFreshness failed: %v", err)
	}
	if !freshness.Equal(bars[1].Timestamp) {
		t.Errorf("freshness: got %v, want %v", freshness, bars[1].Timestamp)
	}
}

func TestTradesRoundTripAndOrdering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	trades := []models.Trade{
		{Symbol: "A", Side: models.OrderSideBuy, Quantity: 10, Price: 50, TotalValue: 500, Timestamp: base},
		{Symbol: "B", Side: models.OrderSideBuy, Quantity: 5, Price: 30, TotalValue: 150, Timestamp: base.Add(time.Hour)},
		{Symbol: "A", Side: models.OrderSideSell, Quantity: 4, Price: 55, TotalValue: 220, Timestamp: base.Add(2 * time.Hour)},
	}
	for _, tr := range trades {
		if err := s.LogTrade(ctx, tr); err != nil {
			t.Fatalf("LogTrade failed: %v", err)
		}
	}

	// Default order is most recent first.
	got, err := s.GetTrades(ctx, TradeFilter{})
	if err != nil {
		t.Fatalf("GetTrades failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 trades, got %d", len(got))
	}
	if got[0].Side != models.OrderSideSell || got[2].Symbol != "A" {
		t.Errorf("ordering wrong: %+v", got)
	}

	// Ascending gives replay order.
	asc, err := s.GetTrades(ctx, TradeFilter{Ascending: true})
	if err != nil {
		t.Fatal(err)
	}
	if !asc[0].Timestamp.Equal(base) {
		t.Errorf("ascending order wrong: %+v", asc)
	}

	// Symbol filter.
	onlyA, err := s.GetTrades(ctx, TradeFilter{Symbol: "A"})
	if err != nil {
		t.Fatal(err)
	}
	if len(onlyA) != 2 {
		t.Errorf("symbol filter: got %d trades, want 2", len(onlyA))
	}

	// Limit.
	limited, err := s.GetTrades(ctx, TradeFilter{Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit: got %d trades, want 1", len(limited))
	}

	if err := s.ClearTrades(ctx); err != nil {
		t.Fatalf("ClearTrades failed: %v", err)
	}
	got, _ = s.GetTrades(ctx, TradeFilter{})
	if len(got) != 0 {
		t.Errorf("trades remain after clear: %d", len(got))
	}
}

func TestAlertsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	firedAt := created.Add(time.Hour)
	alerts := []models.Alert{
		{Symbol: "A", Direction: models.AlertAbove, TargetPrice: 100, CreatedAt: created},
		{Symbol: "B", Direction: models.AlertBelow, TargetPrice: 50, CreatedAt: created,
			Triggered: true, TriggeredAt: &firedAt},
	}

	if err := s.SaveAlerts(ctx, alerts); err != nil {
		t.Fatalf("SaveAlerts failed: %v", err)
	}

	got, err := s.GetAlerts(ctx)
	if err != nil {
		t.Fatalf("GetAlerts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(got))
	}
	if got[0].Symbol != "A" || got[0].Triggered {
		t.Errorf("first alert: %+v", got[0])
	}
	if !got[1].Triggered || got[1].TriggeredAt == nil || !got[1].TriggeredAt.Equal(firedAt) {
		t.Errorf("second alert: %+v", got[1])
	}

	// SaveAlerts replaces the whole set.
	if err := s.SaveAlerts(ctx, alerts[:1]); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetAlerts(ctx)
	if len(got) != 1 {
		t.Errorf("expected 1 alert after replace, got %d", len(got))
	}
}

func TestWatchlistPersistence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, sym := range []string{"A", "B", "A"} {
		if err := s.AddToWatchlist(ctx, sym); err != nil {
			t.Fatalf("AddToWatchlist failed: %v", err)
		}
	}

	got, err := s.GetWatchlist(ctx)
	if err != nil {
		t.Fatalf("GetWatchlist failed: %v", err)
	}
	if len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("watchlist: %v", got)
	}

	if err := s.RemoveFromWatchlist(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetWatchlist(ctx)
	if len(got) != 1 || got[0] != "B" {
		t.Errorf("watchlist after remove: %v", got)
	}
}

func TestInitialBalanceSetting(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetInitialBalance(ctx)
	if err != nil {
		t.Fatalf("GetInitialBalance failed: %v", err)
	}
	if ok {
		t.Error("balance reported set on fresh store")
	}

	if err := s.SetInitialBalance(ctx, 250000); err != nil {
		t.Fatalf("SetInitialBalance failed: %v", err)
	}
	amount, ok, err := s.GetInitialBalance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || amount != 250000 {
		t.Errorf("balance: got %v (set=%v), want 250000", amount, ok)
	}
}

func TestLastSyncPersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "sync_test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := s.SetLastSync("bars", ts); err != nil {
		t.Fatalf("SetLastSync failed: %v", err)
	}
	if !s.GetLastSync("bars").Equal(ts) {
		t.Errorf("in-memory sync time wrong")
	}
	s.Close()

	// Reopen: the sync time survives.
	reopened, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	if !reopened.GetLastSync("bars").Equal(ts) {
		t.Errorf("sync time lost across restart: %v", reopened.GetLastSync("bars"))
	}
}
