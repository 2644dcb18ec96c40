// Package alerts implements one-shot price alerts checked against live quotes.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"finboard/internal/marketdata"
	"finboard/internal/models"
)

var (
	// ErrInvalidTarget indicates a non-positive target price.
	ErrInvalidTarget = errors.New("target price must be positive")
	// ErrInvalidDirection indicates an unknown alert direction.
	ErrInvalidDirection = errors.New("invalid alert direction")
	// ErrAlertNotFound indicates an out-of-range alert index.
	ErrAlertNotFound = errors.New("alert not found")
)

// Manager owns a set of price alerts and evaluates them against quotes
// from a market data provider. An alert fires at most once; triggered
// alerts are kept for display until explicitly cleared.
type Manager struct {
	provider marketdata.Provider

	mu     sync.Mutex
	alerts []models.Alert

	now func() time.Time
}

// NewManager creates an alert manager backed by the given provider.
func NewManager(provider marketdata.Provider) *Manager {
	return &Manager{
		provider: provider,
		now:      time.Now,
	}
}

// Add registers a new untriggered alert for ticker.
func (m *Manager) Add(ticker string, direction models.AlertDirection, target float64) (models.Alert, error) {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return models.Alert{}, err
	}
	if direction != models.AlertAbove && direction != models.AlertBelow {
		return models.Alert{}, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	if target <= 0 {
		return models.Alert{}, fmt.Errorf("%w: %.2f", ErrInvalidTarget, target)
	}

	alert := models.Alert{
		Symbol:      ticker,
		Direction:   direction,
		TargetPrice: target,
		CreatedAt:   m.now(),
	}

	m.mu.Lock()
	m.alerts = append(m.alerts, alert)
	m.mu.Unlock()

	return alert, nil
}

// Remove deletes the alert at index (position in the full alert list).
func (m *Manager) Remove(index int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index < 0 || index >= len(m.alerts) {
		return fmt.Errorf("%w: index %d", ErrAlertNotFound, index)
	}
	m.alerts = append(m.alerts[:index], m.alerts[index+1:]...)
	return nil
}

// CheckAll evaluates every untriggered alert against current quotes and
// returns the alerts that fired on this pass. Quotes are fetched in a
// single batched call; tickers the provider cannot price are left
// untriggered for the next check.
func (m *Manager) CheckAll(ctx context.Context) ([]models.Alert, error) {
	m.mu.Lock()
	tickers := m.pendingTickersLocked()
	m.mu.Unlock()

	if len(tickers) == 0 {
		return nil, nil
	}

	quotes, err := m.provider.FetchQuotes(ctx, tickers)
	if err != nil {
		return nil, fmt.Errorf("fetching quotes for alert check: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	checkedAt := m.now()
	var fired []models.Alert
	for i := range m.alerts {
		alert := &m.alerts[i]
		if alert.Triggered {
			continue
		}
		quote, ok := quotes[alert.Symbol]
		if !ok || quote == nil {
			continue
		}
		if !crossed(alert.Direction, quote.Price, alert.TargetPrice) {
			continue
		}
		alert.Triggered = true
		ts := checkedAt
		alert.TriggeredAt = &ts
		fired = append(fired, *alert)
	}
	return fired, nil
}

// crossed reports whether price satisfies the alert condition. Both
// directions are inclusive: an exact touch of the target fires.
func crossed(direction models.AlertDirection, price, target float64) bool {
	if direction == models.AlertAbove {
		return price >= target
	}
	return price <= target
}

// pendingTickersLocked returns the distinct tickers with at least one
// untriggered alert. Caller must hold m.mu.
func (m *Manager) pendingTickersLocked() []string {
	seen := make(map[string]bool)
	var tickers []string
	for _, alert := range m.alerts {
		if alert.Triggered || seen[alert.Symbol] {
			continue
		}
		seen[alert.Symbol] = true
		tickers = append(tickers, alert.Symbol)
	}
	return tickers
}

// Active returns copies of the alerts that have not yet fired.
func (m *Manager) Active() []models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	var active []models.Alert
	for _, alert := range m.alerts {
		if !alert.Triggered {
			active = append(active, alert)
		}
	}
	return active
}

// Triggered returns copies of the alerts that have fired.
func (m *Manager) Triggered() []models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	var triggered []models.Alert
	for _, alert := range m.alerts {
		if alert.Triggered {
			triggered = append(triggered, alert)
		}
	}
	return triggered
}

// All returns copies of every alert in registration order.
func (m *Manager) All() []models.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.Alert, len(m.alerts))
	copy(out, m.alerts)
	return out
}

// ClearTriggered drops all fired alerts and reports how many were removed.
func (m *Manager) ClearTriggered() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.alerts[:0]
	removed := 0
	for _, alert := range m.alerts {
		if alert.Triggered {
			removed++
			continue
		}
		kept = append(kept, alert)
	}
	m.alerts = kept
	return removed
}

// Restore replaces the manager's alert list, used when loading persisted
// alerts at startup.
func (m *Manager) Restore(alerts []models.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.alerts = make([]models.Alert, len(alerts))
	copy(m.alerts, alerts)
}
