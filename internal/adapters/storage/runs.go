package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/levswing/internal/domain"
)

const runsSchema = `
CREATE TABLE IF NOT EXISTS runs (
    id                 TEXT PRIMARY KEY,
    mode               TEXT     NOT NULL,
    created_at         TEXT     NOT NULL,
    bull               TEXT     NOT NULL,
    bear               TEXT     NOT NULL,
    first_date         TEXT,
    last_date          TEXT,
    initial_cash       REAL     NOT NULL DEFAULT 0,
    proximity          REAL     NOT NULL DEFAULT 0,
    take_profit        REAL     NOT NULL DEFAULT 0,
    stop_loss          REAL     NOT NULL DEFAULT 0,
    allow_short        INTEGER  NOT NULL DEFAULT 0,
    max_trades_per_day INTEGER  NOT NULL DEFAULT 0,
    window_years       INTEGER  NOT NULL DEFAULT 0,
    final_equity       REAL     NOT NULL DEFAULT 0,
    cagr               REAL     NOT NULL DEFAULT 0,
    max_drawdown       REAL     NOT NULL DEFAULT 0,
    trades             INTEGER  NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS run_trades (
    run_id  TEXT    NOT NULL,
    seq     INTEGER NOT NULL,
    date    TEXT    NOT NULL,
    side    TEXT    NOT NULL,
    symbol  TEXT    NOT NULL,
    reason  TEXT    NOT NULL,
    qty     REAL    NOT NULL,
    price   REAL    NOT NULL,
    cash    REAL    NOT NULL,
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`

// createdLayout is fixed-width so created_at sorts as text.
const createdLayout = "2006-01-02T15:04:05.000000Z07:00"

// SaveRun inserts a finished run and its trade ledger in one transaction.
// A missing ID or CreatedAt is filled in; the run ID is returned.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run domain.RunRecord) (string, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("storage.SaveRun: begin tx: %w", err)
	}
	defer tx.Rollback()

	p, st := run.Params, run.Stats
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, mode, created_at, bull, bear, first_date, last_date,
		                  initial_cash, proximity, take_profit, stop_loss, allow_short,
		                  max_trades_per_day, window_years,
		                  final_equity, cagr, max_drawdown, trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.CreatedAt.UTC().Format(createdLayout), run.Bull, run.Bear,
		formatDate(run.FirstDate), formatDate(run.LastDate),
		p.InitialCash, p.Proximity, p.TakeProfit, p.StopLoss, boolToInt(p.AllowShort),
		p.MaxTradesPerDay, p.WindowYears,
		st.FinalEquity, st.CAGR, st.MaxDrawdown, st.Trades,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("storage.SaveRun: %s: %w", run.ID, ErrDuplicateKey)
		}
		return "", fmt.Errorf("storage.SaveRun: insert run: %w", err)
	}

	if len(run.Trades) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO run_trades (run_id, seq, date, side, symbol, reason, qty, price, cash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return "", fmt.Errorf("storage.SaveRun: prepare trades: %w", err)
		}
		defer stmt.Close()

		for i, t := range run.Trades {
			if _, err := stmt.ExecContext(ctx,
				run.ID, i, formatDate(t.Date), string(t.Side), t.Symbol, string(t.Reason),
				t.Qty, t.Price, t.Cash,
			); err != nil {
				return "", fmt.Errorf("storage.SaveRun: insert trade %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage.SaveRun: commit: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs first. Trades are not loaded.
// A non-positive limit returns every run.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mode, created_at, bull, bear, first_date, last_date,
		       initial_cash, proximity, take_profit, stop_loss, allow_short,
		       max_trades_per_day, window_years,
		       final_equity, cagr, max_drawdown, trades
		FROM runs
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord
	for rows.Next() {
		var r domain.RunRecord
		var createdAt string
		var firstDate, lastDate sql.NullString
		var allowShort int
		if err := rows.Scan(
			&r.ID, &r.Mode, &createdAt, &r.Bull, &r.Bear, &firstDate, &lastDate,
			&r.Params.InitialCash, &r.Params.Proximity, &r.Params.TakeProfit, &r.Params.StopLoss,
			&allowShort, &r.Params.MaxTradesPerDay, &r.Params.WindowYears,
			&r.Stats.FinalEquity, &r.Stats.CAGR, &r.Stats.MaxDrawdown, &r.Stats.Trades,
		); err != nil {
			return nil, fmt.Errorf("storage.ListRuns: scan row: %w", err)
		}
		r.CreatedAt, _ = time.Parse(createdLayout, createdAt)
		r.FirstDate = parseDate(firstDate)
		r.LastDate = parseDate(lastDate)
		r.Params.AllowShort = allowShort == 1
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunTrades returns the saved ledger of a run in execution order.
// It returns ErrNotFound when the run does not exist.
func (s *SQLiteStorage) GetRunTrades(ctx context.Context, runID string) ([]domain.TradeRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM runs WHERE id = ?`, runID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage.GetRunTrades: run %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage.GetRunTrades: lookup run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, side, symbol, reason, qty, price, cash
		FROM run_trades
		WHERE run_id = ?
		ORDER BY seq ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRunTrades: query: %w", err)
	}
	defer rows.Close()

	var trades []domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var date, side, reason string
		if err := rows.Scan(&date, &side, &t.Symbol, &reason, &t.Qty, &t.Price, &t.Cash); err != nil {
			return nil, fmt.Errorf("storage.GetRunTrades: scan row: %w", err)
		}
		t.Date = parseDate(sql.NullString{String: date, Valid: true})
		t.Side = domain.TradeSide(side)
		t.Reason = domain.TradeReason(reason)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func formatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, _ := time.Parse(dateLayout, s.String)
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// isUniqueViolation reports a primary-key conflict.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
