package trade

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to Status
		ok       bool
	}{
		{Pending, Pending, true},
		{Pending, Confirmed, true},
		{Pending, Settled, true}, // forward skip is allowed
		{Confirmed, Settled, true},
		{Confirmed, Pending, false},
		{Settled, Confirmed, false},
		{Settled, Pending, false},
		{Settled, Settled, true},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	assert.True(t, Pending.Valid())
	assert.True(t, Confirmed.Valid())
	assert.True(t, Settled.Valid())
	assert.False(t, Status("CANCELLED").Valid())
	assert.False(t, Status("").Valid())
}

func TestComputeQuoteAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, rate, want string
	}{
		{"1000000.00", "1.085000", "1085000.0000"},
		{"0.01", "1.5", "0.0150"},
		{"250000.50", "190.123456", "47530959.0617"}, // 47530959.061728 rounds half-up
		{"1.00", "0.333333", "0.3333"},
		{"3.00", "0.333350", "1.0001"}, // 1.00005 rounds up at scale 4
	}
	for _, tc := range tests {
		base := decimal.RequireFromString(tc.base)
		rate := decimal.RequireFromString(tc.rate)
		got := ComputeQuoteAmount(base, rate)
		assert.Equal(t, tc.want, got.StringFixed(AmountScale),
			"%s * %s", tc.base, tc.rate)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := &Trade{
		ID:        1,
		Reference: "FX-20260828-0001",
		Status:    Pending,
		Notes:     "original",
	}
	c := orig.Clone()
	c.Status = Confirmed
	c.Notes = "changed"

	assert.Equal(t, Pending, orig.Status)
	assert.Equal(t, "original", orig.Notes)
}

func TestSnapshotContent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	tr := &Trade{
		ID:            7,
		Reference:     "FX-20260828-0007",
		TradeDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		ValueDate:     time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Direction:     Sell,
		BaseCurrency:  "GBP",
		QuoteCurrency: "JPY",
		BaseAmount:    decimal.RequireFromString("250000.5"),
		ExchangeRate:  decimal.RequireFromString("190.123456"),
		QuoteAmount:   decimal.RequireFromString("47530959.0617"),
		Status:        Pending,
		CreatedAt:     now,
		CreatedBy:     "jdoe",
		UpdatedAt:     now,
		UpdatedBy:     "jdoe",
		Version:       1,
	}

	snap, err := Snapshot(tr)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(snap), &m))

	assert.Equal(t, "FX-20260828-0007", m["tradeReference"])
	assert.Equal(t, "2026-08-28", m["tradeDate"])
	assert.Equal(t, "SELL", m["direction"])
	assert.Equal(t, "250000.5000", m["baseAmount"])
	assert.Equal(t, "190.123456", m["exchangeRate"])
	assert.Equal(t, "PENDING", m["status"])
	assert.Equal(t, float64(1), m["version"])

	// A snapshot is a value capture: mutating the trade afterwards must
	// not change an already-taken snapshot.
	tr.Status = Confirmed
	again, err := Snapshot(tr)
	require.NoError(t, err)
	assert.NotEqual(t, snap, again)
	assert.Contains(t, snap, "PENDING")
	assert.Contains(t, again, "CONFIRMED")
}
