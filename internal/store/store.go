// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"finboard/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Bars
	SaveBars(ctx context.Context, symbol string, timeframe models.Timeframe, bars []models.Bar) error
	GetBars(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Bar, error)
	GetBarsFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error)

	// Trades
	LogTrade(ctx context.Context, trade models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	ClearTrades(ctx context.Context) error

	// Alerts
	SaveAlerts(ctx context.Context, alerts []models.Alert) error
	GetAlerts(ctx context.Context) ([]models.Alert, error)

	// Watchlist
	AddToWatchlist(ctx context.Context, symbol string) error
	RemoveFromWatchlist(ctx context.Context, symbol string) error
	GetWatchlist(ctx context.Context) ([]string, error)

	// Settings
	SetInitialBalance(ctx context.Context, amount float64) error
	GetInitialBalance(ctx context.Context) (float64, bool, error)

	// Sync
	GetLastSync(dataType string) time.Time
	SetLastSync(dataType string, t time.Time) error

	// Lifecycle
	Close() error
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Side      string
	Limit     int
	Ascending bool
}
