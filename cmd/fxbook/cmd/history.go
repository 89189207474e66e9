package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history <trade-id>",
	Short: "Show the audit trail of a trade, newest first",
	Long: `Show every audit entry for a trade: who did what, when, and the
full before/after state each mutation captured.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

var historyVerbose bool

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolVarP(&historyVerbose, "verbose", "v", false, "print before/after snapshots")
}

func runHistory(cmd *cobra.Command, args []string) error {
	tradeID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad trade id %q: %w", args[0], err)
	}

	svc, st, err := openService()
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := svc.AuditHistory(context.Background(), tradeID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Printf("no audit history for trade %d\n", tradeID)
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-6s  %s  by %s  [%s]\n",
			e.Timestamp.UTC().Format("2006-01-02 15:04:05.000"),
			e.Action, e.Reference, e.User, e.CorrelationID)
		if historyVerbose {
			if e.Before != "" {
				fmt.Printf("  before: %s\n", e.Before)
			}
			fmt.Printf("  after:  %s\n", e.After)
		}
	}
	return nil
}
