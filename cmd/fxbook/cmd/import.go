package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbook/archive"
)

var importCmd = &cobra.Command{
	Use:   "import <trades.zip>",
	Short: "Bulk-book trades from a zip archive of CSV files",
	Long: `Bulk-book trades from a zip archive containing one or more CSV files
with columns:

  trade_date,value_date,direction,base_currency,quote_currency,
  base_amount,exchange_rate,counterparty,trader,notes

Each row goes through the normal booking path, so every imported trade
gets its own reference and CREATE audit entry. The import stops at the
first row that fails validation; rows already booked stay booked.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	inputs, err := archive.ReadZip(args[0])
	if err != nil {
		return err
	}

	svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	user := currentUser()
	for i, in := range inputs {
		t, err := svc.Record(ctx, in, user)
		if err != nil {
			return fmt.Errorf("row %d of %d: %w", i+1, len(inputs), err)
		}
		fmt.Printf("booked %s  %s %s/%s %s\n",
			t.Reference, t.Direction, t.BaseCurrency, t.QuoteCurrency,
			t.BaseAmount.StringFixed(4))
	}

	fmt.Printf("imported %d trades\n", len(inputs))
	return nil
}
