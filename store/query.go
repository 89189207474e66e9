package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/fxbook/trade"
)

const selectTradeSQL = `
	SELECT id, trade_reference, trade_date, value_date, direction,
	       base_currency, quote_currency, base_amount, exchange_rate, quote_amount,
	       counterparty, trader, notes, status,
	       created_at, created_by, updated_at, updated_by, version
	FROM trades`

// Filter narrows a trade listing. Zero dates mean unbounded; an empty
// status matches every status. From/To are inclusive calendar dates.
type Filter struct {
	From   time.Time
	To     time.Time
	Status trade.Status
}

// GetTrade returns a single trade by id.
func (s *Store) GetTrade(ctx context.Context, id int64) (*trade.Trade, error) {
	row := s.reader.QueryRowContext(ctx, selectTradeSQL+` WHERE id = ?`, id)
	tr, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &trade.NotFoundError{ID: id}
	}
	return tr, err
}

// GetByReference returns a single trade by its unique reference.
func (s *Store) GetByReference(ctx context.Context, ref string) (*trade.Trade, error) {
	row := s.reader.QueryRowContext(ctx, selectTradeSQL+` WHERE trade_reference = ?`, ref)
	tr, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("trade %q not found", ref)
	}
	return tr, err
}

// ListTrades returns trades matching f, trade date descending (newest
// booking day first, ties broken by id descending).
func (s *Store) ListTrades(ctx context.Context, f Filter) ([]trade.Trade, error) {
	q := selectTradeSQL + ` WHERE 1=1`
	var args []any
	if !f.From.IsZero() {
		q += ` AND trade_date >= ?`
		args = append(args, dateText(f.From))
	}
	if !f.To.IsZero() {
		q += ` AND trade_date <= ?`
		args = append(args, dateText(f.To))
	}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	q += ` ORDER BY trade_date DESC, id DESC`

	rows, err := s.reader.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapSQLiteErr(err)
	}
	defer rows.Close()

	var out []trade.Trade
	for rows.Next() {
		tr, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *tr)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteErr(err)
	}
	return out, nil
}

// AuditHistory returns the audit trail for a trade, most recent first by
// (audit_timestamp, id). An unknown trade id yields an empty history,
// not an error.
func (s *Store) AuditHistory(ctx context.Context, tradeID int64) ([]trade.Audit, error) {
	rows, err := s.reader.QueryContext(ctx, `
		SELECT id, trade_id, trade_reference, audit_timestamp, audit_user, action,
		       correlation_id, before_snapshot, after_snapshot
		FROM trade_audit
		WHERE trade_id = ?
		ORDER BY audit_timestamp DESC, id DESC`, tradeID)
	if err != nil {
		return nil, mapSQLiteErr(err)
	}
	defer rows.Close()

	var out []trade.Audit
	for rows.Next() {
		var (
			a      trade.Audit
			action string
			before sql.NullString
		)
		if err := rows.Scan(
			&a.ID, &a.TradeID, &a.Reference, &a.Timestamp, &a.User, &action,
			&a.CorrelationID, &before, &a.After,
		); err != nil {
			return nil, err
		}
		a.Action = trade.AuditAction(action)
		a.Before = before.String
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteErr(err)
	}
	return out, nil
}

// NextSequenceHint returns the stored next_sequence for a date without
// locking, for operational inspection only. Missing dates report 1.
func (s *Store) NextSequenceHint(ctx context.Context, date time.Time) (int64, error) {
	var next int64
	err := s.reader.QueryRowContext(ctx,
		`SELECT next_sequence FROM trade_sequence WHERE trade_date = ?`, dateText(date),
	).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, mapSQLiteErr(err)
	}
	return next, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (*trade.Trade, error) {
	var (
		t                    trade.Trade
		tradeDate, valueDate string
		direction, status    string
		base, rate, quote    string
	)
	err := row.Scan(
		&t.ID, &t.Reference, &tradeDate, &valueDate, &direction,
		&t.BaseCurrency, &t.QuoteCurrency, &base, &rate, &quote,
		&t.Counterparty, &t.Trader, &t.Notes, &status,
		&t.CreatedAt, &t.CreatedBy, &t.UpdatedAt, &t.UpdatedBy, &t.Version,
	)
	if err != nil {
		return nil, err
	}

	if t.TradeDate, err = parseDate(tradeDate); err != nil {
		return nil, fmt.Errorf("trade %d: bad trade_date: %w", t.ID, err)
	}
	if t.ValueDate, err = parseDate(valueDate); err != nil {
		return nil, fmt.Errorf("trade %d: bad value_date: %w", t.ID, err)
	}
	if t.BaseAmount, err = decimal.NewFromString(base); err != nil {
		return nil, fmt.Errorf("trade %d: bad base_amount: %w", t.ID, err)
	}
	if t.ExchangeRate, err = decimal.NewFromString(rate); err != nil {
		return nil, fmt.Errorf("trade %d: bad exchange_rate: %w", t.ID, err)
	}
	if t.QuoteAmount, err = decimal.NewFromString(quote); err != nil {
		return nil, fmt.Errorf("trade %d: bad quote_amount: %w", t.ID, err)
	}
	t.Direction = trade.Direction(direction)
	t.Status = trade.Status(status)
	return &t, nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
