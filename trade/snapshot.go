package trade

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// snapshot is the serialized form of a trade used for audit before/after
// records. Field names follow the external wire contract; a snapshot is
// built from a value copy of the trade so later mutations cannot alias
// into an already-captured state.
type snapshot struct {
	ID            int64  `json:"id"`
	Reference     string `json:"tradeReference"`
	TradeDate     string `json:"tradeDate"`
	ValueDate     string `json:"valueDate"`
	Direction     string `json:"direction"`
	BaseCurrency  string `json:"baseCurrency"`
	QuoteCurrency string `json:"quoteCurrency"`
	BaseAmount    string `json:"baseAmount"`
	ExchangeRate  string `json:"exchangeRate"`
	QuoteAmount   string `json:"quoteAmount"`
	Counterparty  string `json:"counterparty,omitempty"`
	Trader        string `json:"trader,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	CreatedBy     string `json:"createdBy"`
	UpdatedAt     string `json:"updatedAt"`
	UpdatedBy     string `json:"updatedBy"`
	Version       int64  `json:"version"`
}

// Snapshot serializes the full state of t as the canonical audit JSON.
func Snapshot(t *Trade) (string, error) {
	s := snapshot{
		ID:            t.ID,
		Reference:     t.Reference,
		TradeDate:     t.TradeDate.Format("2006-01-02"),
		ValueDate:     t.ValueDate.Format("2006-01-02"),
		Direction:     string(t.Direction),
		BaseCurrency:  t.BaseCurrency,
		QuoteCurrency: t.QuoteCurrency,
		BaseAmount:    fixed(t.BaseAmount, AmountScale),
		ExchangeRate:  fixed(t.ExchangeRate, RateScale),
		QuoteAmount:   fixed(t.QuoteAmount, AmountScale),
		Counterparty:  t.Counterparty,
		Trader:        t.Trader,
		Notes:         t.Notes,
		Status:        string(t.Status),
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339Nano),
		CreatedBy:     t.CreatedBy,
		UpdatedAt:     t.UpdatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedBy:     t.UpdatedBy,
		Version:       t.Version,
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fixed(d decimal.Decimal, scale int32) string {
	return d.StringFixed(scale)
}
