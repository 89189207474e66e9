package trade

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testToday = time.Date(2026, 8, 28, 14, 0, 0, 0, time.UTC)

func validInput() Input {
	return Input{
		TradeDate:     time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		ValueDate:     time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		Direction:     Buy,
		BaseCurrency:  "EUR",
		QuoteCurrency: "USD",
		BaseAmount:    decimal.RequireFromString("1000000.00"),
		ExchangeRate:  decimal.RequireFromString("1.085"),
	}
}

func TestValidateNewAccepts(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateNew(validInput(), DefaultLimits(), testToday))
}

func TestValidateNewRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Input)
		field    string
		contains string
	}{
		{
			name:   "zero base amount",
			mutate: func(in *Input) { in.BaseAmount = decimal.Zero },
			field:  "baseAmount", contains: "at least",
		},
		{
			name:   "negative base amount",
			mutate: func(in *Input) { in.BaseAmount = decimal.RequireFromString("-5") },
			field:  "baseAmount", contains: "at least",
		},
		{
			name:   "base amount over maximum",
			mutate: func(in *Input) { in.BaseAmount = decimal.RequireFromString("10000000.01") },
			field:  "baseAmount", contains: "cannot exceed",
		},
		{
			name:   "base amount too fine-grained",
			mutate: func(in *Input) { in.BaseAmount = decimal.RequireFromString("1.00001") },
			field:  "baseAmount", contains: "scale",
		},
		{
			name:   "zero rate",
			mutate: func(in *Input) { in.ExchangeRate = decimal.Zero },
			field:  "exchangeRate", contains: "at least",
		},
		{
			name:   "rate over maximum",
			mutate: func(in *Input) { in.ExchangeRate = decimal.RequireFromString("1000001") },
			field:  "exchangeRate", contains: "cannot exceed",
		},
		{
			name:   "unknown base currency",
			mutate: func(in *Input) { in.BaseCurrency = "XXX" },
			field:  "baseCurrency", contains: "invalid currency code",
		},
		{
			name:   "unknown quote currency",
			mutate: func(in *Input) { in.QuoteCurrency = "BTC" },
			field:  "quoteCurrency", contains: "invalid currency code",
		},
		{
			name:   "missing direction",
			mutate: func(in *Input) { in.Direction = "" },
			field:  "direction", contains: "BUY or SELL",
		},
		{
			name: "trade date in the future",
			mutate: func(in *Input) {
				in.TradeDate = testToday.AddDate(0, 0, 1)
				in.ValueDate = testToday.AddDate(0, 0, 3)
			},
			field: "tradeDate", contains: "future",
		},
		{
			name: "trade date too old",
			mutate: func(in *Input) {
				in.TradeDate = testToday.AddDate(0, 0, -366)
				in.ValueDate = in.TradeDate.AddDate(0, 0, 2)
			},
			field: "tradeDate", contains: "past",
		},
		{
			name: "value date before trade date",
			mutate: func(in *Input) {
				in.ValueDate = in.TradeDate.AddDate(0, 0, -1)
			},
			field: "valueDate", contains: "on or after",
		},
		{
			name: "value date too far out",
			mutate: func(in *Input) {
				in.ValueDate = in.TradeDate.AddDate(0, 0, 8)
			},
			field: "valueDate", contains: "7 days",
		},
		{
			name:   "bogus status",
			mutate: func(in *Input) { in.Status = "CANCELLED" },
			field:  "status", contains: "must be one of",
		},
		{
			name:   "counterparty too long",
			mutate: func(in *Input) { in.Counterparty = strings.Repeat("x", 101) },
			field:  "counterparty", contains: "100",
		},
		{
			name:   "notes too long",
			mutate: func(in *Input) { in.Notes = strings.Repeat("x", 501) },
			field:  "notes", contains: "500",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			in := validInput()
			tc.mutate(&in)

			err := ValidateNew(in, DefaultLimits(), testToday)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)

			found := false
			for _, v := range verr.Violations {
				if v.Field == tc.field {
					found = true
					assert.Contains(t, v.Message, tc.contains)
				}
			}
			assert.True(t, found, "expected violation on %s, got %v", tc.field, verr.Violations)
		})
	}
}

func TestValidateNewCollectsAllViolations(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.BaseAmount = decimal.Zero
	in.BaseCurrency = "XYZ"
	in.Direction = "LONG"

	err := ValidateNew(in, DefaultLimits(), testToday)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Violations), 3)
}

func TestValueDateEqualToTradeDateAllowed(t *testing.T) {
	t.Parallel()

	in := validInput()
	in.ValueDate = in.TradeDate
	assert.NoError(t, ValidateNew(in, DefaultLimits(), testToday))
}
