package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbook/store"
	"github.com/rustyeddy/fxbook/trade"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List trades, newest booking day first",
	Long: `List trades, optionally narrowed by trade-date range and status.

Examples:
  fxbook list
  fxbook list --from 2026-08-01 --to 2026-08-31
  fxbook list --status PENDING`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var listFlags struct {
	from   string
	to     string
	status string
}

func init() {
	rootCmd.AddCommand(listCmd)

	f := listCmd.Flags()
	f.StringVar(&listFlags.from, "from", "", "earliest trade date YYYY-MM-DD (inclusive)")
	f.StringVar(&listFlags.to, "to", "", "latest trade date YYYY-MM-DD (inclusive)")
	f.StringVar(&listFlags.status, "status", "", "only this status (PENDING, CONFIRMED, SETTLED)")
}

func runList(cmd *cobra.Command, args []string) error {
	f, err := buildFilter()
	if err != nil {
		return err
	}

	svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	trades, err := svc.ListTrades(context.Background(), f)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Println("no trades")
		return nil
	}

	fmt.Printf("%-6s %-20s %-10s %-4s %-8s %18s %12s %-10s\n",
		"ID", "REFERENCE", "DATE", "DIR", "PAIR", "AMOUNT", "RATE", "STATUS")
	for _, t := range trades {
		fmt.Printf("%-6d %-20s %-10s %-4s %-8s %18s %12s %-10s\n",
			t.ID, t.Reference, t.TradeDate.Format("2006-01-02"),
			t.Direction, t.BaseCurrency+"/"+t.QuoteCurrency,
			t.BaseAmount.StringFixed(trade.AmountScale),
			t.ExchangeRate.StringFixed(trade.RateScale),
			t.Status)
	}
	return nil
}

func buildFilter() (store.Filter, error) {
	var f store.Filter
	var err error
	if listFlags.from != "" {
		if f.From, err = parseDate(listFlags.from); err != nil {
			return f, fmt.Errorf("bad --from: %w", err)
		}
	}
	if listFlags.to != "" {
		if f.To, err = parseDate(listFlags.to); err != nil {
			return f, fmt.Errorf("bad --to: %w", err)
		}
	}
	if listFlags.status != "" {
		st := trade.Status(strings.ToUpper(listFlags.status))
		if !st.Valid() {
			return f, fmt.Errorf("bad --status %q", listFlags.status)
		}
		f.Status = st
	}
	return f, nil
}
