package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbook/trade"
)

var showCmd = &cobra.Command{
	Use:   "show <trade-id | reference>",
	Short: "Show a single trade",
	Long: `Show one trade, addressed either by its numeric id or by its
reference (FX-YYYYMMDD-NNNN).`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	key := args[0]

	var t *trade.Trade
	if strings.HasPrefix(key, trade.ReferencePrefix+"-") {
		t, err = svc.FindByReference(ctx, key)
	} else {
		var tradeID int64
		tradeID, err = strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("bad trade id %q: %w", key, err)
		}
		t, err = svc.FindByID(ctx, tradeID)
	}
	if err != nil {
		return err
	}

	fmt.Println(formatTrade(t))
	return nil
}

// formatTrade renders one trade as an aligned block for terminal use.
func formatTrade(t *trade.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trade %d  %s\n", t.ID, t.Reference)
	fmt.Fprintf(&b, "  %-14s %s %s/%s\n", "deal:", t.Direction, t.BaseCurrency, t.QuoteCurrency)
	fmt.Fprintf(&b, "  %-14s %s %s @ %s = %s %s\n", "economics:",
		t.BaseAmount.StringFixed(trade.AmountScale), t.BaseCurrency,
		t.ExchangeRate.StringFixed(trade.RateScale),
		t.QuoteAmount.StringFixed(trade.AmountScale), t.QuoteCurrency)
	fmt.Fprintf(&b, "  %-14s trade %s, value %s\n", "dates:",
		t.TradeDate.Format("2006-01-02"), t.ValueDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "  %-14s %s (version %d)\n", "status:", t.Status, t.Version)
	if t.Counterparty != "" {
		fmt.Fprintf(&b, "  %-14s %s\n", "counterparty:", t.Counterparty)
	}
	if t.Trader != "" {
		fmt.Fprintf(&b, "  %-14s %s\n", "trader:", t.Trader)
	}
	if t.Notes != "" {
		fmt.Fprintf(&b, "  %-14s %s\n", "notes:", t.Notes)
	}
	fmt.Fprintf(&b, "  %-14s %s by %s\n", "created:", t.CreatedAt.UTC().Format("2006-01-02 15:04:05"), t.CreatedBy)
	fmt.Fprintf(&b, "  %-14s %s by %s", "updated:", t.UpdatedAt.UTC().Format("2006-01-02 15:04:05"), t.UpdatedBy)
	return b.String()
}
