package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rustyeddy/fxbook/id"
	"github.com/rustyeddy/fxbook/store"
	"github.com/rustyeddy/fxbook/trade"
)

// Store is the persistence surface the service needs. *store.Store
// satisfies it; tests substitute fault-injecting wrappers.
type Store interface {
	WithTx(ctx context.Context, fn func(tx store.Tx) error) error
	GetTrade(ctx context.Context, id int64) (*trade.Trade, error)
	GetByReference(ctx context.Context, ref string) (*trade.Trade, error)
	ListTrades(ctx context.Context, f store.Filter) ([]trade.Trade, error)
	AuditHistory(ctx context.Context, tradeID int64) ([]trade.Audit, error)
}

// Service books and amends FX spot trades. Every mutation runs as one
// storage transaction covering the sequence allocation, the trade row
// and the audit row, so a trade without an audit entry (or the reverse)
// is never observable.
type Service struct {
	store  Store
	limits trade.Limits
	log    *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService builds a Service over st with the given validation limits.
func NewService(st Store, limits trade.Limits, opts ...Option) *Service {
	s := &Service{
		store:  st,
		limits: limits,
		log:    slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Record validates and books a new trade on behalf of user. On success
// the trade has its reference, derived quote amount, provenance stamps
// and a CREATE audit entry, all committed atomically.
func (s *Service) Record(ctx context.Context, in trade.Input, user string) (*trade.Trade, error) {
	now := s.now().UTC()

	if err := trade.ValidateNew(in, s.limits, now); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = trade.Pending
	}

	quote := trade.ComputeQuoteAmount(in.BaseAmount, in.ExchangeRate)
	if in.QuoteAmount != nil {
		quote = *in.QuoteAmount
	}

	t := &trade.Trade{
		TradeDate:     trade.DateOnly(in.TradeDate),
		ValueDate:     trade.DateOnly(in.ValueDate),
		Direction:     in.Direction,
		BaseCurrency:  in.BaseCurrency,
		QuoteCurrency: in.QuoteCurrency,
		BaseAmount:    in.BaseAmount,
		ExchangeRate:  in.ExchangeRate,
		QuoteAmount:   quote,
		Counterparty:  in.Counterparty,
		Trader:        in.Trader,
		Notes:         in.Notes,
		Status:        status,
		CreatedAt:     now,
		CreatedBy:     user,
		UpdatedAt:     now,
		UpdatedBy:     user,
		Version:       1,
	}

	correlationID := id.New()

	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		// The reference is scoped to the booking day, not the trade's
		// economic date.
		seq, err := tx.AllocateSequence(now, now)
		if err != nil {
			return err
		}
		t.Reference = trade.FormatReference(now, seq)

		if err := tx.InsertTrade(t); err != nil {
			return err
		}

		after, err := trade.Snapshot(t)
		if err != nil {
			return fmt.Errorf("snapshot trade %s: %w", t.Reference, err)
		}
		return tx.InsertAudit(&trade.Audit{
			TradeID:       t.ID,
			Reference:     t.Reference,
			Timestamp:     now,
			User:          user,
			Action:        trade.ActionCreate,
			CorrelationID: correlationID,
			After:         after,
		})
	})
	if err != nil {
		s.log.Error("trade booking failed",
			"user", user, "correlation_id", correlationID, "err", err)
		return nil, err
	}

	s.log.Info("trade booked",
		"reference", t.Reference, "id", t.ID,
		"pair", t.BaseCurrency+"/"+t.QuoteCurrency,
		"user", user, "correlation_id", correlationID)
	return t, nil
}

// Update applies a partial amendment to a trade. Only status, notes and
// counterparty are mutable; everything else is fixed at booking time.
// The whole read-amend-audit sequence runs in one transaction, and the
// persisted version guards against concurrent amendments.
func (s *Service) Update(ctx context.Context, tradeID int64, p trade.Patch, user string) (*trade.Trade, error) {
	now := s.now().UTC()
	correlationID := id.New()

	var updated *trade.Trade
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		current, err := tx.GetTrade(tradeID)
		if err != nil {
			return err
		}

		if p.Version != nil && *p.Version != current.Version {
			return &trade.ConflictError{ID: tradeID, Expected: *p.Version, Actual: current.Version}
		}

		// Capture the pre-mutation state before touching anything.
		before, err := trade.Snapshot(current)
		if err != nil {
			return fmt.Errorf("snapshot trade %d: %w", tradeID, err)
		}

		next := current.Clone()
		if p.Status != nil {
			if !p.Status.Valid() {
				return &trade.ValidationError{Violations: []trade.Violation{{
					Field:   "status",
					Message: fmt.Sprintf("unknown status %q", *p.Status),
				}}}
			}
			if !current.Status.CanTransitionTo(*p.Status) {
				return &trade.ValidationError{Violations: []trade.Violation{{
					Field:   "status",
					Message: fmt.Sprintf("cannot move %s back to %s", current.Status, *p.Status),
				}}}
			}
			next.Status = *p.Status
		}
		if p.Notes != nil {
			if len(*p.Notes) > 500 {
				return &trade.ValidationError{Violations: []trade.Violation{{
					Field: "notes", Message: "cannot exceed 500 characters",
				}}}
			}
			next.Notes = *p.Notes
		}
		if p.Counterparty != nil {
			if len(*p.Counterparty) > 100 {
				return &trade.ValidationError{Violations: []trade.Violation{{
					Field: "counterparty", Message: "cannot exceed 100 characters",
				}}}
			}
			next.Counterparty = *p.Counterparty
		}
		next.UpdatedAt = now
		next.UpdatedBy = user

		if err := tx.UpdateTrade(next); err != nil {
			return err
		}

		after, err := trade.Snapshot(next)
		if err != nil {
			return fmt.Errorf("snapshot trade %d: %w", tradeID, err)
		}
		if err := tx.InsertAudit(&trade.Audit{
			TradeID:       next.ID,
			Reference:     next.Reference,
			Timestamp:     now,
			User:          user,
			Action:        trade.ActionUpdate,
			CorrelationID: correlationID,
			Before:        before,
			After:         after,
		}); err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		s.log.Error("trade update failed",
			"id", tradeID, "user", user, "correlation_id", correlationID, "err", err)
		return nil, err
	}

	s.log.Info("trade updated",
		"reference", updated.Reference, "id", updated.ID, "version", updated.Version,
		"user", user, "correlation_id", correlationID)
	return updated, nil
}

// FindByID returns one trade by surrogate id.
func (s *Service) FindByID(ctx context.Context, tradeID int64) (*trade.Trade, error) {
	return s.store.GetTrade(ctx, tradeID)
}

// FindByReference returns one trade by its unique reference.
func (s *Service) FindByReference(ctx context.Context, ref string) (*trade.Trade, error) {
	return s.store.GetByReference(ctx, ref)
}

// ListTrades returns trades matching the filter, trade date descending.
func (s *Service) ListTrades(ctx context.Context, f store.Filter) ([]trade.Trade, error) {
	return s.store.ListTrades(ctx, f)
}

// AuditHistory returns the full audit trail for a trade, newest first.
// An unknown id yields an empty history.
func (s *Service) AuditHistory(ctx context.Context, tradeID int64) ([]trade.Audit, error) {
	return s.store.AuditHistory(ctx, tradeID)
}
