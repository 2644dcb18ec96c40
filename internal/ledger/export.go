package ledger

import (
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"

	"finboard/internal/models"
)

// tradeRecord is the CSV row shape of an exported trade.
type tradeRecord struct {
	Ticker     string  `csv:"ticker"`
	Side       string  `csv:"side"`
	Quantity   int     `csv:"quantity"`
	Price      float64 `csv:"price"`
	TotalValue float64 `csv:"total_value"`
	Timestamp  string  `csv:"timestamp"`
}

// ExportHistory writes the account's trade history as CSV, most recent
// trade first.
func (a *Account) ExportHistory(w io.Writer) error {
	trades := a.History()
	records := make([]tradeRecord, len(trades))
	for i, trade := range trades {
		records[i] = tradeRecord{
			Ticker:     trade.Symbol,
			Side:       string(trade.Side),
			Quantity:   trade.Quantity,
			Price:      trade.Price,
			TotalValue: trade.TotalValue,
			Timestamp:  trade.Timestamp.Format(time.RFC3339),
		}
	}
	return gocsv.Marshal(records, w)
}

// ImportHistory parses a CSV trade-history table previously produced by
// ExportHistory. Rows are returned in file order (most recent first);
// the account itself is not modified.
func ImportHistory(r io.Reader) ([]models.Trade, error) {
	var records []tradeRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return nil, fmt.Errorf("parsing trade history: %w", err)
	}

	trades := make([]models.Trade, len(records))
	for i, rec := range records {
		side := models.OrderSide(rec.Side)
		if side != models.OrderSideBuy && side != models.OrderSideSell {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSide, rec.Side)
		}
		ts, err := time.Parse(time.RFC3339, rec.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("parsing trade timestamp %q: %w", rec.Timestamp, err)
		}
		trades[i] = models.Trade{
			Symbol:     rec.Ticker,
			Side:       side,
			Quantity:   rec.Quantity,
			Price:      rec.Price,
			TotalValue: rec.TotalValue,
			Timestamp:  ts,
		}
	}
	return trades, nil
}
