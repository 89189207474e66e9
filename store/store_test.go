package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/fxbook/trade"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "book.db")

	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s, path
}

func testTrade(ref string) *trade.Trade {
	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	return &trade.Trade{
		Reference:     ref,
		TradeDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		ValueDate:     time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Direction:     trade.Buy,
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		BaseAmount:    decimal.RequireFromString("1000000.00"),
		ExchangeRate:  decimal.RequireFromString("1.085000"),
		QuoteAmount:   decimal.RequireFromString("1085000.0000"),
		Counterparty:  "ACME Bank",
		Trader:        "jdoe",
		Status:        trade.Pending,
		CreatedAt:     now,
		CreatedBy:     "jdoe",
		UpdatedAt:     now,
		UpdatedBy:     "jdoe",
		Version:       1,
	}
}

func insertTestTrade(t *testing.T, s *Store, ref string) *trade.Trade {
	t.Helper()

	tr := testTrade(ref)
	err := s.WithTx(context.Background(), func(tx Tx) error {
		return tx.InsertTrade(tr)
	})
	require.NoError(t, err)
	return tr
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()

	s, path := newTestStore(t)
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('trades','trade_sequence','trade_audit')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["trade_sequence"])
	assert.True(t, found["trade_audit"])
}

func TestWALMode(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	var mode string
	require.NoError(t, s.writer.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestTradeRoundTripPrecision(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	tr := testTrade("FX-20260828-0001")
	tr.BaseAmount = decimal.RequireFromString("1234567.8901")
	tr.QuoteAmount = trade.ComputeQuoteAmount(tr.BaseAmount, tr.ExchangeRate)

	err := s.WithTx(context.Background(), func(tx Tx) error {
		return tx.InsertTrade(tr)
	})
	require.NoError(t, err)
	require.NotZero(t, tr.ID)

	got, err := s.GetTrade(context.Background(), tr.ID)
	require.NoError(t, err)

	assert.Equal(t, "1234567.8901", got.BaseAmount.StringFixed(trade.AmountScale))
	assert.True(t, got.BaseAmount.Equal(tr.BaseAmount))
	assert.Equal(t, "1.085000", got.ExchangeRate.StringFixed(trade.RateScale))
	assert.True(t, got.TradeDate.Equal(tr.TradeDate))
	assert.True(t, got.ValueDate.Equal(tr.ValueDate))
	assert.Equal(t, tr.Reference, got.Reference)
	assert.Equal(t, tr.Status, got.Status)
	assert.Equal(t, int64(1), got.Version)
}

func TestGetTradeNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	_, err := s.GetTrade(context.Background(), 9999)
	var nf *trade.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(9999), nf.ID)
}

func TestGetByReference(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	tr := insertTestTrade(t, s, "FX-20260828-0001")

	got, err := s.GetByReference(context.Background(), "FX-20260828-0001")
	require.NoError(t, err)
	assert.Equal(t, tr.ID, got.ID)

	_, err = s.GetByReference(context.Background(), "FX-20260828-9999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDuplicateReferenceRejected(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	insertTestTrade(t, s, "FX-20260828-0001")

	dup := testTrade("FX-20260828-0001")
	err := s.WithTx(context.Background(), func(tx Tx) error {
		return tx.InsertTrade(dup)
	})
	var ue *trade.UniquenessError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "FX-20260828-0001", ue.Reference)
}

func TestUpdateTradeVersionConflict(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	tr := insertTestTrade(t, s, "FX-20260828-0001")

	// First update succeeds and bumps the version.
	upd := tr.Clone()
	upd.Status = trade.Confirmed
	err := s.WithTx(context.Background(), func(tx Tx) error {
		return tx.UpdateTrade(upd)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), upd.Version)

	// Second update against the stale version must conflict.
	stale := tr.Clone() // still version 1
	stale.Status = trade.Settled
	err = s.WithTx(context.Background(), func(tx Tx) error {
		return tx.UpdateTrade(stale)
	})
	var conflict *trade.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, tr.ID, conflict.ID)
	assert.Equal(t, int64(1), conflict.Expected)
	assert.Equal(t, int64(2), conflict.Actual)
}

func TestUpdateTradeNotFound(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	ghost := testTrade("FX-20260828-0042")
	ghost.ID = 4242
	err := s.WithTx(context.Background(), func(tx Tx) error {
		return tx.UpdateTrade(ghost)
	})
	var nf *trade.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, int64(4242), nf.ID)
}

func TestListTradesOrderAndFilter(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	dates := []string{"2026-08-25", "2026-08-27", "2026-08-26"}
	for i, d := range dates {
		tr := testTrade(trade.FormatReference(mustDate(t, d), int64(i+1)))
		tr.TradeDate = mustDate(t, d)
		tr.ValueDate = tr.TradeDate.AddDate(0, 0, 2)
		if i == 1 {
			tr.Status = trade.Confirmed
		}
		err := s.WithTx(ctx, func(tx Tx) error { return tx.InsertTrade(tr) })
		require.NoError(t, err)
	}

	all, err := s.ListTrades(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2026-08-27", all[0].TradeDate.Format("2006-01-02"))
	assert.Equal(t, "2026-08-26", all[1].TradeDate.Format("2006-01-02"))
	assert.Equal(t, "2026-08-25", all[2].TradeDate.Format("2006-01-02"))

	ranged, err := s.ListTrades(ctx, Filter{
		From: mustDate(t, "2026-08-26"),
		To:   mustDate(t, "2026-08-27"),
	})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	confirmed, err := s.ListTrades(ctx, Filter{Status: trade.Confirmed})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, "2026-08-27", confirmed[0].TradeDate.Format("2006-01-02"))
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	require.NoError(t, err)
	return d
}
