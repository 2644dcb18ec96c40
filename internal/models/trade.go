package models

import "time"

// Trade represents a completed paper trade. Trades are immutable once
// recorded: they are appended to the ledger history and never modified.
type Trade struct {
	Symbol     string
	Side       OrderSide
	Quantity   int
	Price      float64
	TotalValue float64
	Timestamp  time.Time
}

// NewTrade creates a trade record with its total value derived from
// quantity and price.
func NewTrade(symbol string, side OrderSide, quantity int, price float64, at time.Time) Trade {
	return Trade{
		Symbol:     symbol,
		Side:       side,
		Quantity:   quantity,
		Price:      price,
		TotalValue: float64(quantity) * price,
		Timestamp:  at,
	}
}
