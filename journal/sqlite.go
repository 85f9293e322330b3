package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal stores records in a SQLite database file.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and ensures the
// schema exists.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordSignal(r SignalRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO signals
		(id, symbol, kind, action, confidence, entry, stop_loss, take_profit, atr, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Symbol, r.Kind, r.Action, r.Confidence,
		r.Entry, r.StopLoss, r.TakeProfit, r.ATR, r.Time,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(r TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(ticket, symbol, size, entry, exit, open_time, close_time, pnl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Ticket, r.Symbol, r.Size, r.Entry, r.Exit,
		r.OpenTime, r.CloseTime, r.PnL, r.Reason,
	)
	return err
}

// Signals returns all recorded signals, oldest first.
func (j *SQLiteJournal) Signals() ([]SignalRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, symbol, kind, action, confidence, entry, stop_loss, take_profit, atr, time
		FROM signals ORDER BY time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SignalRecord
	for rows.Next() {
		var r SignalRecord
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Kind, &r.Action, &r.Confidence,
			&r.Entry, &r.StopLoss, &r.TakeProfit, &r.ATR, &r.Time); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Trades returns all recorded trades, oldest close first.
func (j *SQLiteJournal) Trades() ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT ticket, symbol, size, entry, exit, open_time, close_time, pnl, reason
		FROM trades ORDER BY close_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var r TradeRecord
		if err := rows.Scan(&r.Ticket, &r.Symbol, &r.Size, &r.Entry, &r.Exit,
			&r.OpenTime, &r.CloseTime, &r.PnL, &r.Reason); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
