package trade

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Limits holds the configurable validation bounds for new trades.
type Limits struct {
	MinTradeAmount     decimal.Decimal
	MaxTradeAmount     decimal.Decimal
	MinExchangeRate    decimal.Decimal
	MaxExchangeRate    decimal.Decimal
	AllowedCurrencies  []string
	MaxFutureDays      int
	MaxPastDays        int
	MaxValueDateOffset int
}

// DefaultLimits mirrors the desk's standing configuration: spot-sized
// amounts, G10-plus-Scandies currencies, same-day booking, T+7 value cap.
func DefaultLimits() Limits {
	return Limits{
		MinTradeAmount:  decimal.RequireFromString("0.01"),
		MaxTradeAmount:  decimal.RequireFromString("10000000"),
		MinExchangeRate: decimal.RequireFromString("0.000001"),
		MaxExchangeRate: decimal.RequireFromString("1000000"),
		AllowedCurrencies: []string{
			"EUR", "USD", "GBP", "JPY", "CHF", "AUD", "CAD", "NZD", "SEK", "NOK", "DKK",
		},
		MaxFutureDays:      0,
		MaxPastDays:        365,
		MaxValueDateOffset: 7,
	}
}

func (l Limits) currencyAllowed(code string) bool {
	for _, c := range l.AllowedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

const (
	maxCounterpartyLen = 100
	maxTraderLen       = 50
	maxNotesLen        = 500
)

// rule is one pure validation predicate over the input. A nil result
// means the rule passed.
type rule func(in Input, l Limits, today time.Time) *Violation

var newTradeRules = []rule{
	ruleDirection,
	ruleBaseCurrency,
	ruleQuoteCurrency,
	ruleBaseAmount,
	ruleExchangeRate,
	ruleTradeDate,
	ruleValueDate,
	ruleStatus,
	ruleTextBounds,
}

// ValidateNew checks a booking input against every rule and returns a
// ValidationError listing all violations, or nil when the input is
// clean. today is the clock's current UTC date.
func ValidateNew(in Input, l Limits, today time.Time) error {
	var violations []Violation
	for _, r := range newTradeRules {
		if v := r(in, l, today); v != nil {
			violations = append(violations, *v)
		}
	}
	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func ruleDirection(in Input, _ Limits, _ time.Time) *Violation {
	if in.Direction != Buy && in.Direction != Sell {
		return &Violation{Field: "direction", Message: fmt.Sprintf("must be %s or %s", Buy, Sell)}
	}
	return nil
}

func ruleBaseCurrency(in Input, l Limits, _ time.Time) *Violation {
	return checkCurrency("baseCurrency", in.BaseCurrency, l)
}

func ruleQuoteCurrency(in Input, l Limits, _ time.Time) *Violation {
	return checkCurrency("quoteCurrency", in.QuoteCurrency, l)
}

func checkCurrency(field, code string, l Limits) *Violation {
	if code == "" {
		return &Violation{Field: field, Message: "is required"}
	}
	if !l.currencyAllowed(code) {
		allowed := append([]string(nil), l.AllowedCurrencies...)
		sort.Strings(allowed)
		return &Violation{
			Field:   field,
			Message: fmt.Sprintf("invalid currency code %q, must be one of %s", code, strings.Join(allowed, ",")),
		}
	}
	return nil
}

func ruleBaseAmount(in Input, l Limits, _ time.Time) *Violation {
	if in.BaseAmount.Cmp(l.MinTradeAmount) < 0 {
		return &Violation{Field: "baseAmount", Message: "must be at least " + l.MinTradeAmount.String()}
	}
	if in.BaseAmount.Cmp(l.MaxTradeAmount) > 0 {
		return &Violation{Field: "baseAmount", Message: "cannot exceed " + l.MaxTradeAmount.String()}
	}
	if -in.BaseAmount.Exponent() > AmountScale {
		return &Violation{Field: "baseAmount", Message: fmt.Sprintf("scale exceeds %d decimal places", AmountScale)}
	}
	return nil
}

func ruleExchangeRate(in Input, l Limits, _ time.Time) *Violation {
	if in.ExchangeRate.Cmp(l.MinExchangeRate) < 0 {
		return &Violation{Field: "exchangeRate", Message: "must be at least " + l.MinExchangeRate.String()}
	}
	if in.ExchangeRate.Cmp(l.MaxExchangeRate) > 0 {
		return &Violation{Field: "exchangeRate", Message: "cannot exceed " + l.MaxExchangeRate.String()}
	}
	if -in.ExchangeRate.Exponent() > RateScale {
		return &Violation{Field: "exchangeRate", Message: fmt.Sprintf("scale exceeds %d decimal places", RateScale)}
	}
	return nil
}

func ruleTradeDate(in Input, l Limits, today time.Time) *Violation {
	if in.TradeDate.IsZero() {
		return &Violation{Field: "tradeDate", Message: "is required"}
	}
	td := DateOnly(in.TradeDate)
	if td.After(DateOnly(today).AddDate(0, 0, l.MaxFutureDays)) {
		return &Violation{Field: "tradeDate", Message: fmt.Sprintf("cannot be more than %d days in the future", l.MaxFutureDays)}
	}
	if td.Before(DateOnly(today).AddDate(0, 0, -l.MaxPastDays)) {
		return &Violation{Field: "tradeDate", Message: fmt.Sprintf("cannot be more than %d days in the past", l.MaxPastDays)}
	}
	return nil
}

func ruleValueDate(in Input, l Limits, _ time.Time) *Violation {
	if in.ValueDate.IsZero() {
		return &Violation{Field: "valueDate", Message: "is required"}
	}
	if in.TradeDate.IsZero() {
		return nil // tradeDate rule already fired
	}
	td, vd := DateOnly(in.TradeDate), DateOnly(in.ValueDate)
	if vd.Before(td) {
		return &Violation{Field: "valueDate", Message: "must be on or after trade date"}
	}
	if vd.After(td.AddDate(0, 0, l.MaxValueDateOffset)) {
		return &Violation{Field: "valueDate", Message: fmt.Sprintf("cannot be more than %d days after trade date", l.MaxValueDateOffset)}
	}
	return nil
}

func ruleStatus(in Input, _ Limits, _ time.Time) *Violation {
	if in.Status != "" && !in.Status.Valid() {
		return &Violation{Field: "status", Message: fmt.Sprintf("must be one of %s, %s, %s", Pending, Confirmed, Settled)}
	}
	return nil
}

func ruleTextBounds(in Input, _ Limits, _ time.Time) *Violation {
	switch {
	case len(in.Counterparty) > maxCounterpartyLen:
		return &Violation{Field: "counterparty", Message: fmt.Sprintf("cannot exceed %d characters", maxCounterpartyLen)}
	case len(in.Trader) > maxTraderLen:
		return &Violation{Field: "trader", Message: fmt.Sprintf("cannot exceed %d characters", maxTraderLen)}
	case len(in.Notes) > maxNotesLen:
		return &Violation{Field: "notes", Message: fmt.Sprintf("cannot exceed %d characters", maxNotesLen)}
	}
	return nil
}

// DateOnly truncates t to its calendar date at UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
