package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction of the deal from the booking desk's point of view.
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Status is the trade lifecycle state. Transitions are forward-only:
// PENDING -> CONFIRMED -> SETTLED. Skipping ahead is allowed, moving
// backward is not.
type Status string

const (
	Pending   Status = "PENDING"
	Confirmed Status = "CONFIRMED"
	Settled   Status = "SETTLED"
)

var statusRank = map[Status]int{
	Pending:   0,
	Confirmed: 1,
	Settled:   2,
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving from s to next is a legal
// forward transition. A no-op transition (same status) is legal.
func (s Status) CanTransitionTo(next Status) bool {
	a, ok := statusRank[s]
	if !ok {
		return false
	}
	b, ok := statusRank[next]
	if !ok {
		return false
	}
	return b >= a
}

// AuditAction identifies what a Trade audit entry records.
type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
)

// Trade is one FX spot deal. The reference is assigned once at booking
// time and never changes; economics are immutable after creation and
// only status, notes and counterparty may be patched.
type Trade struct {
	ID             int64
	Reference      string
	TradeDate      time.Time // date only, UTC midnight
	ValueDate      time.Time // date only, UTC midnight
	Direction      Direction
	BaseCurrency   string
	QuoteCurrency  string
	BaseAmount     decimal.Decimal // scale 4
	ExchangeRate   decimal.Decimal // scale 6
	QuoteAmount    decimal.Decimal // scale 4, BaseAmount * ExchangeRate
	Counterparty   string
	Trader         string
	Notes          string
	Status         Status
	CreatedAt      time.Time
	CreatedBy      string
	UpdatedAt      time.Time
	UpdatedBy      string
	Version        int64
}

// Clone returns an independent copy of t. Decimal values are immutable
// so a shallow field copy is sufficient.
func (t *Trade) Clone() *Trade {
	c := *t
	return &c
}

// Audit is one immutable entry in the trade audit trail. Before is the
// empty string for CREATE entries; After always holds the full state of
// the trade as persisted by the operation.
type Audit struct {
	ID            int64
	TradeID       int64
	Reference     string
	Timestamp     time.Time
	User          string
	Action        AuditAction
	CorrelationID string
	Before        string // JSON snapshot, "" for CREATE
	After         string // JSON snapshot
}

// Input carries the caller-supplied fields for booking a new trade.
// QuoteAmount may be left nil, in which case it is derived from
// BaseAmount and ExchangeRate.
type Input struct {
	TradeDate     time.Time
	ValueDate     time.Time
	Direction     Direction
	BaseCurrency  string
	QuoteCurrency string
	BaseAmount    decimal.Decimal
	ExchangeRate  decimal.Decimal
	QuoteAmount   *decimal.Decimal
	Counterparty  string
	Trader        string
	Notes         string
	Status        Status // defaults to PENDING when empty
}

// Patch carries the mutable fields of an update. Nil fields are left
// untouched. Version, when set, is the version the caller read before
// deciding on the update; a mismatch with the persisted version fails
// the update with a ConflictError.
type Patch struct {
	Status       *Status
	Notes        *string
	Counterparty *string
	Version      *int64
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Status == nil && p.Notes == nil && p.Counterparty == nil
}

// Persisted decimal scales.
const (
	AmountScale = 4
	RateScale   = 6
)

// ComputeQuoteAmount derives the quote-side amount: base * rate at
// scale 4, rounded half-up.
func ComputeQuoteAmount(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Round(AmountScale)
}
