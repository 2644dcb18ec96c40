// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"finboard/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	syncTimes map[string]time.Time
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		syncTimes: make(map[string]time.Time),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Bars table for historical OHLCV data
	CREATE TABLE IF NOT EXISTS bars (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, timestamp)
	);

	-- Trades table for the paper-trading trade log
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		total_value REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Alerts table for one-shot price alerts
	CREATE TABLE IF NOT EXISTS alerts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		direction TEXT NOT NULL,
		target_price REAL NOT NULL,
		created_at DATETIME NOT NULL,
		triggered INTEGER DEFAULT 0,
		triggered_at DATETIME
	);

	-- Watchlist table, ordered by insertion
	CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		added_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Settings key/value table
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Sync metadata table
	CREATE TABLE IF NOT EXISTS sync_meta (
		data_type TEXT PRIMARY KEY,
		last_sync DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bars_lookup ON bars(symbol, timeframe, timestamp);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return s.loadSyncTimes()
}

// loadSyncTimes populates the in-memory sync map from the database.
func (s *SQLiteStore) loadSyncTimes() error {
	rows, err := s.db.Query(`SELECT data_type, last_sync FROM sync_meta`)
	if err != nil {
		return fmt.Errorf("failed to load sync metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var dataType string
		var lastSync time.Time
		if err := rows.Scan(&dataType, &lastSync); err != nil {
			return fmt.Errorf("failed to scan sync metadata: %w", err)
		}
		s.syncTimes[dataType] = lastSync
	}
	return rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Bars Methods
// ============================================================================

// SaveBars stores a batch of bars in a single transaction.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, timeframe models.Timeframe, bars []models.Bar) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO bars (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		_, err := stmt.ExecContext(ctx, symbol, string(timeframe), b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert bar: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetBars retrieves bars from the database in ascending timestamp order.
func (s *SQLiteStore) GetBars(ctx context.Context, symbol string, timeframe models.Timeframe, from, to time.Time) ([]models.Bar, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM bars
		WHERE symbol = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, symbol, string(timeframe), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	var bars []models.Bar
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar: %w", err)
		}
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bars: %w", err)
	}

	return bars, nil
}

// GetBarsFreshness returns the timestamp of the most recent stored bar.
func (s *SQLiteStore) GetBarsFreshness(ctx context.Context, symbol string, timeframe models.Timeframe) (time.Time, error) {
	var timestamp sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM bars WHERE symbol = ? AND timeframe = ?
	`, symbol, string(timeframe)).Scan(&timestamp)
	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("failed to get bars freshness: %w", err)
	}
	if !timestamp.Valid {
		return time.Time{}, nil
	}
	return timestamp.Time, nil
}

// ============================================================================
// Trades Methods
// ============================================================================

// LogTrade appends a trade to the persisted trade log.
func (s *SQLiteStore) LogTrade(ctx context.Context, trade models.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (timestamp, symbol, side, quantity, price, total_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`, trade.Timestamp, trade.Symbol, string(trade.Side), trade.Quantity, trade.Price, trade.TotalValue)
	if err != nil {
		return fmt.Errorf("failed to log trade: %w", err)
	}
	return nil
}

// GetTrades retrieves trades from the database. The default order is
// most recent first; set filter.Ascending for chronological replay order.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT timestamp, symbol, side, quantity, price, total_value FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate)
	}
	if filter.Side != "" {
		query += " AND side = ?"
		args = append(args, filter.Side)
	}

	if filter.Ascending {
		query += " ORDER BY timestamp ASC, id ASC"
	} else {
		query += " ORDER BY timestamp DESC, id DESC"
	}
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var side string
		if err := rows.Scan(&t.Timestamp, &t.Symbol, &side, &t.Quantity, &t.Price, &t.TotalValue); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.Side = models.OrderSide(side)
		trades = append(trades, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

// ClearTrades deletes the entire trade log.
func (s *SQLiteStore) ClearTrades(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM trades`); err != nil {
		return fmt.Errorf("failed to clear trades: %w", err)
	}
	return nil
}

// ============================================================================
// Alerts Methods
// ============================================================================

// SaveAlerts replaces the persisted alert set with the given alerts.
func (s *SQLiteStore) SaveAlerts(ctx context.Context, alerts []models.Alert) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM alerts`); err != nil {
		return fmt.Errorf("failed to clear alerts: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO alerts (symbol, direction, target_price, created_at, triggered, triggered_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range alerts {
		triggered := 0
		if a.Triggered {
			triggered = 1
		}
		var triggeredAt interface{}
		if a.TriggeredAt != nil {
			triggeredAt = *a.TriggeredAt
		}
		_, err := stmt.ExecContext(ctx, a.Symbol, string(a.Direction), a.TargetPrice, a.CreatedAt, triggered, triggeredAt)
		if err != nil {
			return fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetAlerts retrieves all persisted alerts in creation order.
func (s *SQLiteStore) GetAlerts(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol, direction, target_price, created_at, triggered, triggered_at
		FROM alerts ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		var a models.Alert
		var direction string
		var triggered int
		var triggeredAt sql.NullTime
		if err := rows.Scan(&a.Symbol, &direction, &a.TargetPrice, &a.CreatedAt, &triggered, &triggeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Direction = models.AlertDirection(direction)
		a.Triggered = triggered != 0
		if triggeredAt.Valid {
			ts := triggeredAt.Time
			a.TriggeredAt = &ts
		}
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating alerts: %w", err)
	}

	return alerts, nil
}

// ============================================================================
// Watchlist Methods
// ============================================================================

// AddToWatchlist adds a symbol to the watchlist.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, symbol string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (symbol) VALUES (?)
	`, symbol)
	if err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return nil
}

// RemoveFromWatchlist removes a symbol from the watchlist.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE symbol = ?
	`, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	return nil
}

// GetWatchlist retrieves the watchlist in insertion order.
func (s *SQLiteStore) GetWatchlist(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol FROM watchlist ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return symbols, nil
}

// ============================================================================
// Settings Methods
// ============================================================================

// SetInitialBalance persists the account's starting cash balance.
func (s *SQLiteStore) SetInitialBalance(ctx context.Context, amount float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES ('initial_balance', ?, CURRENT_TIMESTAMP)
	`, fmt.Sprintf("%.2f", amount))
	if err != nil {
		return fmt.Errorf("failed to set initial balance: %w", err)
	}
	return nil
}

// GetInitialBalance returns the persisted starting balance. The bool
// reports whether a value was ever stored.
func (s *SQLiteStore) GetInitialBalance(ctx context.Context) (float64, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE key = 'initial_balance'
	`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get initial balance: %w", err)
	}

	var amount float64
	if _, err := fmt.Sscanf(value, "%f", &amount); err != nil {
		return 0, false, fmt.Errorf("failed to parse initial balance %q: %w", value, err)
	}
	return amount, true, nil
}

// ============================================================================
// Sync Methods
// ============================================================================

// GetLastSync returns the last sync time for a data type.
func (s *SQLiteStore) GetLastSync(dataType string) time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncTimes[dataType]
}

// SetLastSync records the last sync time for a data type.
func (s *SQLiteStore) SetLastSync(dataType string, t time.Time) error {
	s.mu.Lock()
	s.syncTimes[dataType] = t
	s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO sync_meta (data_type, last_sync) VALUES (?, ?)
	`, dataType, t)
	if err != nil {
		return fmt.Errorf("failed to persist sync time: %w", err)
	}
	return nil
}
