package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/fxbook/trade"
)

type sqliteTx struct {
	tx *sql.Tx
}

// allocateSQL performs the whole read-modify-write in one statement: the
// first allocation for a date stores next_sequence=2 and returns 1;
// later allocations bump the stored value and return what it was.
const allocateSQL = `
INSERT INTO trade_sequence (trade_date, next_sequence, last_updated)
VALUES (?, 2, ?)
ON CONFLICT(trade_date) DO UPDATE SET
	next_sequence = next_sequence + 1,
	last_updated  = excluded.last_updated
RETURNING next_sequence - 1`

func (t *sqliteTx) AllocateSequence(date, now time.Time) (int64, error) {
	var seq int64
	err := t.tx.QueryRow(allocateSQL, dateText(date), now.UTC()).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("allocate sequence for %s: %w", dateText(date), mapSQLiteErr(err))
	}
	return seq, nil
}

func (t *sqliteTx) InsertTrade(tr *trade.Trade) error {
	res, err := t.tx.Exec(`
		INSERT INTO trades
		(trade_reference, trade_date, value_date, direction, base_currency, quote_currency,
		 base_amount, exchange_rate, quote_amount, counterparty, trader, notes, status,
		 created_at, created_by, updated_at, updated_by, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.Reference, dateText(tr.TradeDate), dateText(tr.ValueDate),
		string(tr.Direction), tr.BaseCurrency, tr.QuoteCurrency,
		tr.BaseAmount.StringFixed(trade.AmountScale),
		tr.ExchangeRate.StringFixed(trade.RateScale),
		tr.QuoteAmount.StringFixed(trade.AmountScale),
		tr.Counterparty, tr.Trader, tr.Notes, string(tr.Status),
		tr.CreatedAt.UTC(), tr.CreatedBy, tr.UpdatedAt.UTC(), tr.UpdatedBy, tr.Version,
	)
	if err != nil {
		if isUniqueViolation(err, "trades.trade_reference") {
			return &trade.UniquenessError{Reference: tr.Reference}
		}
		return fmt.Errorf("insert trade %s: %w", tr.Reference, mapSQLiteErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert trade %s: last insert id: %w", tr.Reference, err)
	}
	tr.ID = id
	return nil
}

func (t *sqliteTx) UpdateTrade(tr *trade.Trade) error {
	res, err := t.tx.Exec(`
		UPDATE trades
		SET status = ?, notes = ?, counterparty = ?, updated_at = ?, updated_by = ?,
		    version = version + 1
		WHERE id = ? AND version = ?`,
		string(tr.Status), tr.Notes, tr.Counterparty,
		tr.UpdatedAt.UTC(), tr.UpdatedBy,
		tr.ID, tr.Version,
	)
	if err != nil {
		return fmt.Errorf("update trade %d: %w", tr.ID, mapSQLiteErr(err))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update trade %d: rows affected: %w", tr.ID, err)
	}
	if n == 0 {
		// Either the row is gone or someone else bumped the version.
		var current int64
		err := t.tx.QueryRow(`SELECT version FROM trades WHERE id = ?`, tr.ID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return &trade.NotFoundError{ID: tr.ID}
		}
		if err != nil {
			return fmt.Errorf("update trade %d: %w", tr.ID, mapSQLiteErr(err))
		}
		return &trade.ConflictError{ID: tr.ID, Expected: tr.Version, Actual: current}
	}

	tr.Version++
	return nil
}

func (t *sqliteTx) GetTrade(id int64) (*trade.Trade, error) {
	row := t.tx.QueryRow(selectTradeSQL+` WHERE id = ?`, id)
	tr, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &trade.NotFoundError{ID: id}
	}
	return tr, err
}

func (t *sqliteTx) InsertAudit(a *trade.Audit) error {
	before := sql.NullString{String: a.Before, Valid: a.Before != ""}

	res, err := t.tx.Exec(`
		INSERT INTO trade_audit
		(trade_id, trade_reference, audit_timestamp, audit_user, action, correlation_id,
		 before_snapshot, after_snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.TradeID, a.Reference, a.Timestamp.UTC(), a.User, string(a.Action),
		a.CorrelationID, before, a.After,
	)
	if err != nil {
		return fmt.Errorf("insert audit for trade %d: %w", a.TradeID, mapSQLiteErr(err))
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert audit for trade %d: last insert id: %w", a.TradeID, err)
	}
	a.ID = id
	return nil
}

func isUniqueViolation(err error, column string) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique &&
		strings.Contains(se.Error(), column)
}

func dateText(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
