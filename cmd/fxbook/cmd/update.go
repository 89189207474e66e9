package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxbook/trade"
)

var updateCmd = &cobra.Command{
	Use:   "update <trade-id>",
	Short: "Amend a trade's status, notes or counterparty",
	Long: `Amend the mutable fields of a booked trade. Status moves forward only
(PENDING -> CONFIRMED -> SETTLED). Pass --version with the version you
last read to fail fast on concurrent amendments.

Examples:
  fxbook update 42 --status CONFIRMED
  fxbook update 42 --notes "client confirmed by phone" --version 2`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

var updateFlags struct {
	status       string
	notes        string
	counterparty string
	version      int64
}

func init() {
	rootCmd.AddCommand(updateCmd)

	f := updateCmd.Flags()
	f.StringVar(&updateFlags.status, "status", "", "new status (PENDING, CONFIRMED, SETTLED)")
	f.StringVar(&updateFlags.notes, "notes", "", "replacement notes")
	f.StringVar(&updateFlags.counterparty, "counterparty", "", "replacement counterparty")
	f.Int64Var(&updateFlags.version, "version", 0, "expected trade version (optimistic concurrency check)")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	tradeID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad trade id %q: %w", args[0], err)
	}

	var p trade.Patch
	if cmd.Flags().Changed("status") {
		st := trade.Status(strings.ToUpper(updateFlags.status))
		p.Status = &st
	}
	if cmd.Flags().Changed("notes") {
		p.Notes = &updateFlags.notes
	}
	if cmd.Flags().Changed("counterparty") {
		p.Counterparty = &updateFlags.counterparty
	}
	if cmd.Flags().Changed("version") {
		p.Version = &updateFlags.version
	}
	if p.Empty() {
		return fmt.Errorf("nothing to update: pass --status, --notes or --counterparty")
	}

	svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	t, err := svc.Update(context.Background(), tradeID, p, currentUser())
	if err != nil {
		return err
	}

	fmt.Println(formatTrade(t))
	return nil
}
