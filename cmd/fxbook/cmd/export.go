package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbook/archive"
)

var exportCmd = &cobra.Command{
	Use:   "export <output.csv|output.csv.xz>",
	Short: "Export trades as CSV, optionally xz-compressed",
	Long: `Export trades matching the list filters to a CSV file. An output
path ending in .xz writes an xz-compressed stream.

Examples:
  fxbook export trades.csv
  fxbook export --from 2026-01-01 --status SETTLED settled-2026.csv.xz`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	f := exportCmd.Flags()
	f.StringVar(&listFlags.from, "from", "", "earliest trade date YYYY-MM-DD (inclusive)")
	f.StringVar(&listFlags.to, "to", "", "latest trade date YYYY-MM-DD (inclusive)")
	f.StringVar(&listFlags.status, "status", "", "only this status")
}

func runExport(cmd *cobra.Command, args []string) error {
	filter, err := buildFilter()
	if err != nil {
		return err
	}

	svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	trades, err := svc.ListTrades(context.Background(), filter)
	if err != nil {
		return err
	}

	out := args[0]
	if err := archive.ExportFile(out, trades); err != nil {
		return err
	}

	fmt.Printf("exported %d trades to %s\n", len(trades), out)
	return nil
}
