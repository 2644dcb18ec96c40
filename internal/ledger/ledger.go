// Package ledger implements the paper-trading account: cash balance,
// positions with average-cost accounting, and an immutable trade history.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"finboard/internal/marketdata"
	"finboard/internal/models"
)

// DefaultInitialBalance is the starting cash of a fresh account.
const DefaultInitialBalance = 100000

var (
	// ErrInsufficientFunds is returned when a BUY exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientShares is returned when a SELL exceeds the held quantity.
	ErrInsufficientShares = errors.New("insufficient shares")
	// ErrQuoteUnavailable is returned when a market-price trade cannot
	// obtain a live quote.
	ErrQuoteUnavailable = errors.New("quote unavailable")
	// ErrInvalidQuantity is returned for a non-positive trade quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrInvalidPrice is returned for a negative explicit trade price.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidSide is returned for a trade side other than BUY or SELL.
	ErrInvalidSide = errors.New("invalid trade side")
)

// Account is a paper-trading ledger. A failed operation leaves cash,
// positions and history untouched; every mutation is all-or-nothing.
type Account struct {
	provider marketdata.Provider

	mu             sync.RWMutex
	initialBalance float64
	cash           float64
	positions      map[string]*Position
	history        []models.Trade
	createdAt      time.Time

	// now is swappable for tests.
	now func() time.Time
}

// NewAccount creates a paper-trading account. A zero or negative initial
// balance falls back to the default.
func NewAccount(provider marketdata.Provider, initialBalance float64) *Account {
	if initialBalance <= 0 {
		initialBalance = DefaultInitialBalance
	}
	return &Account{
		provider:       provider,
		initialBalance: initialBalance,
		cash:           initialBalance,
		positions:      make(map[string]*Position),
		createdAt:      time.Now(),
		now:            time.Now,
	}
}

// ExecuteTrade executes a BUY or SELL for a ticker. A price of zero
// means "at market": the current quote is fetched from the provider and
// the trade fails with ErrQuoteUnavailable if none can be obtained.
func (a *Account) ExecuteTrade(ctx context.Context, ticker string, side models.OrderSide, quantity int, price float64) (models.Trade, error) {
	return a.execute(ctx, ticker, side, quantity, price, time.Time{})
}

// execute is ExecuteTrade with an optional explicit timestamp; a zero
// timestamp stamps the trade with the current clock.
func (a *Account) execute(ctx context.Context, ticker string, side models.OrderSide, quantity int, price float64, at time.Time) (models.Trade, error) {
	ticker, err := models.NormalizeTicker(ticker)
	if err != nil {
		return models.Trade{}, err
	}
	if quantity <= 0 {
		return models.Trade{}, ErrInvalidQuantity
	}
	if price < 0 {
		return models.Trade{}, ErrInvalidPrice
	}
	if side != models.OrderSideBuy && side != models.OrderSideSell {
		return models.Trade{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	// Resolve the market price before taking the lock: the quote fetch
	// is the only blocking step and must not hold ledger state hostage.
	if price == 0 {
		quote, err := a.provider.FetchQuote(ctx, ticker)
		if err != nil {
			return models.Trade{}, fmt.Errorf("%w: %s: %v", ErrQuoteUnavailable, ticker, err)
		}
		price = quote.Price
	}
	if price <= 0 {
		return models.Trade{}, ErrInvalidPrice
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch side {
	case models.OrderSideBuy:
		cost := float64(quantity) * price
		if cost > a.cash {
			return models.Trade{}, fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, cost, a.cash)
		}
		a.cash -= cost
		pos, ok := a.positions[ticker]
		if !ok {
			pos = &Position{Symbol: ticker}
			a.positions[ticker] = pos
		}
		pos.addShares(quantity, price)

	case models.OrderSideSell:
		pos, ok := a.positions[ticker]
		if !ok || pos.Quantity < quantity {
			held := 0
			if ok {
				held = pos.Quantity
			}
			return models.Trade{}, fmt.Errorf("%w: have %d, trying to sell %d", ErrInsufficientShares, held, quantity)
		}
		a.cash += float64(quantity) * price
		pos.removeShares(quantity)
		if pos.Quantity == 0 {
			delete(a.positions, ticker)
		}
	}

	if at.IsZero() {
		at = a.now()
	}
	trade := models.NewTrade(ticker, side, quantity, price, at)
	a.history = append(a.history, trade)
	return trade, nil
}

// Replay re-applies a recorded trade log in order, preserving each
// trade's original timestamp. Used when restoring a session from
// persisted state; every replayed trade carries an explicit price, so
// no market data is consulted.
func (a *Account) Replay(trades []models.Trade) error {
	ctx := context.Background()
	for _, trade := range trades {
		if _, err := a.execute(ctx, trade.Symbol, trade.Side, trade.Quantity, trade.Price, trade.Timestamp); err != nil {
			return fmt.Errorf("replaying %s %s x%d: %w", trade.Side, trade.Symbol, trade.Quantity, err)
		}
	}
	return nil
}

// PositionValue is a position priced at the current market.
type PositionValue struct {
	Position
	CurrentPrice float64
	Value        float64
	PnL          float64
	PnLPercent   float64
}

// Valuation is a priced snapshot of the account. Tickers whose quote
// could not be obtained contribute zero to the total and are listed in
// Unpriced rather than silently dropped.
type Valuation struct {
	Cash      float64
	Total     float64
	Positions []PositionValue
	Unpriced  []string
}

// PortfolioValue prices all held positions with one batched quote call.
// A failed lookup for one ticker never aborts valuation of the rest.
func (a *Account) PortfolioValue(ctx context.Context) (Valuation, error) {
	a.mu.RLock()
	tickers := make([]string, 0, len(a.positions))
	for ticker := range a.positions {
		tickers = append(tickers, ticker)
	}
	cash := a.cash
	a.mu.RUnlock()
	sort.Strings(tickers)

	valuation := Valuation{Cash: cash, Total: cash}
	if len(tickers) == 0 {
		return valuation, nil
	}

	quotes, err := a.provider.FetchQuotes(ctx, tickers)
	if err != nil && len(quotes) == 0 {
		return Valuation{}, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, ticker := range tickers {
		pos, ok := a.positions[ticker]
		if !ok {
			continue
		}
		quote, ok := quotes[ticker]
		if !ok {
			valuation.Unpriced = append(valuation.Unpriced, ticker)
			valuation.Positions = append(valuation.Positions, PositionValue{Position: *pos})
			continue
		}
		pv := PositionValue{
			Position:     *pos,
			CurrentPrice: quote.Price,
			Value:        pos.CurrentValue(quote.Price),
			PnL:          pos.PnL(quote.Price),
			PnLPercent:   pos.PnLPercent(quote.Price),
		}
		valuation.Total += pv.Value
		valuation.Positions = append(valuation.Positions, pv)
	}
	return valuation, nil
}

// TotalPnL returns the profit or loss of the account against its
// initial balance, priced at current market.
func (a *Account) TotalPnL(ctx context.Context) (float64, error) {
	valuation, err := a.PortfolioValue(ctx)
	if err != nil {
		return 0, err
	}
	return valuation.Total - a.InitialBalance(), nil
}

// TotalPnLPercent returns TotalPnL as a percentage of the initial balance.
func (a *Account) TotalPnLPercent(ctx context.Context) (float64, error) {
	pnl, err := a.TotalPnL(ctx)
	if err != nil {
		return 0, err
	}
	initial := a.InitialBalance()
	if initial == 0 {
		return 0, nil
	}
	return pnl / initial * 100, nil
}

// Cash returns the current cash balance.
func (a *Account) Cash() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cash
}

// InitialBalance returns the account's starting cash.
func (a *Account) InitialBalance() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.initialBalance
}

// Position returns a copy of the position for a ticker, if held.
func (a *Account) Position(ticker string) (Position, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	pos, ok := a.positions[strings.ToUpper(ticker)]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all held positions sorted by ticker.
func (a *Account) Positions() []Position {
	a.mu.RLock()
	defer a.mu.RUnlock()
	positions := make([]Position, 0, len(a.positions))
	for _, pos := range a.positions {
		positions = append(positions, *pos)
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })
	return positions
}

// History returns the trade history, most recent first.
func (a *Account) History() []models.Trade {
	a.mu.RLock()
	defer a.mu.RUnlock()
	history := make([]models.Trade, len(a.history))
	for i, trade := range a.history {
		history[len(a.history)-1-i] = trade
	}
	return history
}

// Reset restores the initial cash balance and clears all positions and
// trade history. The reset is irreversible.
func (a *Account) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cash = a.initialBalance
	a.positions = make(map[string]*Position)
	a.history = nil
	a.createdAt = a.now()
}

// CreatedAt returns when the account was created or last reset.
func (a *Account) CreatedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.createdAt
}
