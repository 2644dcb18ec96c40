// Package session ties the paper-trading account, price alerts and
// watchlist together into a single dashboard session.
package session

import (
	"fmt"
	"sort"
	"time"

	"finboard/internal/alerts"
	"finboard/internal/ledger"
	"finboard/internal/marketdata"
	"finboard/internal/models"
)

// Session is the top-level state of one dashboard user: a paper-trading
// account, the alert set and the watchlist, all sharing one provider.
type Session struct {
	Account   *ledger.Account
	Alerts    *alerts.Manager
	Watchlist *Watchlist

	createdAt time.Time
}

// New creates a fresh session with the given starting cash balance.
func New(provider marketdata.Provider, initialBalance float64) *Session {
	return &Session{
		Account:   ledger.NewAccount(provider, initialBalance),
		Alerts:    alerts.NewManager(provider),
		Watchlist: NewWatchlist(provider),
		createdAt: time.Now(),
	}
}

// State is the persisted form of a session.
type State struct {
	InitialBalance float64
	Trades         []models.Trade
	Alerts         []models.Alert
	Watchlist      []string
}

// Restore rebuilds a session from persisted state by replaying the trade
// log through a fresh account in chronological order. Every persisted
// trade carries its execution price, so the replay needs no market data.
func Restore(provider marketdata.Provider, state State) (*Session, error) {
	s := New(provider, state.InitialBalance)

	trades := make([]models.Trade, len(state.Trades))
	copy(trades, state.Trades)
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})

	if err := s.Account.Replay(trades); err != nil {
		return nil, fmt.Errorf("restoring account: %w", err)
	}

	s.Alerts.Restore(state.Alerts)
	s.Watchlist.Restore(state.Watchlist)
	return s, nil
}

// Snapshot captures the session's persistable state. Trades are returned
// oldest first so a later Restore replays them in order.
func (s *Session) Snapshot() State {
	trades := s.Account.History()
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.Before(trades[j].Timestamp)
	})

	return State{
		InitialBalance: s.Account.InitialBalance(),
		Trades:         trades,
		Alerts:         s.Alerts.All(),
		Watchlist:      s.Watchlist.Tickers(),
	}
}

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}
