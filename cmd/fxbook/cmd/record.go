package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbook/trade"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Book a new FX spot trade",
	Long: `Book a new FX spot trade and print its assigned reference.

Examples:
  fxbook record --pair EUR/USD --direction BUY --amount 1000000 --rate 1.0850
  fxbook record --pair GBP/JPY --direction SELL --amount 250000.50 --rate 190.123456 \
      --value-date 2026-09-01 --counterparty "ACME Bank" --trader jdoe`,
	Args: cobra.NoArgs,
	RunE: runRecord,
}

var recordFlags struct {
	pair         string
	direction    string
	amount       string
	rate         string
	quoteAmount  string
	tradeDate    string
	valueDate    string
	counterparty string
	trader       string
	notes        string
}

func init() {
	rootCmd.AddCommand(recordCmd)

	f := recordCmd.Flags()
	f.StringVar(&recordFlags.pair, "pair", "", "currency pair, BASE/QUOTE (e.g. EUR/USD)")
	f.StringVar(&recordFlags.direction, "direction", "", "BUY or SELL")
	f.StringVar(&recordFlags.amount, "amount", "", "base amount (decimal, scale 4)")
	f.StringVar(&recordFlags.rate, "rate", "", "exchange rate (decimal, scale 6)")
	f.StringVar(&recordFlags.quoteAmount, "quote-amount", "", "quote amount override (computed when omitted)")
	f.StringVar(&recordFlags.tradeDate, "trade-date", "", "trade date YYYY-MM-DD (default today)")
	f.StringVar(&recordFlags.valueDate, "value-date", "", "value date YYYY-MM-DD (default T+2)")
	f.StringVar(&recordFlags.counterparty, "counterparty", "", "counterparty name")
	f.StringVar(&recordFlags.trader, "trader", "", "trader name")
	f.StringVar(&recordFlags.notes, "notes", "", "free-text notes")

	_ = recordCmd.MarkFlagRequired("pair")
	_ = recordCmd.MarkFlagRequired("direction")
	_ = recordCmd.MarkFlagRequired("amount")
	_ = recordCmd.MarkFlagRequired("rate")
}

func runRecord(cmd *cobra.Command, args []string) error {
	in, err := buildInput()
	if err != nil {
		return err
	}

	svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	t, err := svc.Record(context.Background(), in, currentUser())
	if err != nil {
		return err
	}

	fmt.Println(formatTrade(t))
	return nil
}

func buildInput() (trade.Input, error) {
	var in trade.Input

	base, quote, err := splitPair(recordFlags.pair)
	if err != nil {
		return in, err
	}
	in.BaseCurrency = base
	in.QuoteCurrency = quote
	in.Direction = trade.Direction(strings.ToUpper(recordFlags.direction))

	if in.BaseAmount, err = decimal.NewFromString(recordFlags.amount); err != nil {
		return in, fmt.Errorf("bad --amount: %w", err)
	}
	if in.ExchangeRate, err = decimal.NewFromString(recordFlags.rate); err != nil {
		return in, fmt.Errorf("bad --rate: %w", err)
	}
	if recordFlags.quoteAmount != "" {
		q, err := decimal.NewFromString(recordFlags.quoteAmount)
		if err != nil {
			return in, fmt.Errorf("bad --quote-amount: %w", err)
		}
		in.QuoteAmount = &q
	}

	today := trade.DateOnly(time.Now().UTC())
	in.TradeDate = today
	if recordFlags.tradeDate != "" {
		if in.TradeDate, err = parseDate(recordFlags.tradeDate); err != nil {
			return in, fmt.Errorf("bad --trade-date: %w", err)
		}
	}
	// Spot convention: settle T+2 unless told otherwise.
	in.ValueDate = in.TradeDate.AddDate(0, 0, 2)
	if recordFlags.valueDate != "" {
		if in.ValueDate, err = parseDate(recordFlags.valueDate); err != nil {
			return in, fmt.Errorf("bad --value-date: %w", err)
		}
	}

	in.Counterparty = recordFlags.counterparty
	in.Trader = recordFlags.trader
	in.Notes = recordFlags.notes
	return in, nil
}

func splitPair(pair string) (string, string, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(pair)), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("bad --pair %q: want BASE/QUOTE like EUR/USD", pair)
	}
	return parts[0], parts[1], nil
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.UTC)
}
