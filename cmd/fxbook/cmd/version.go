package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the fxbook CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fxbook version %s\n", version)
		fmt.Println("An FX spot trade book with an immutable audit trail")
		fmt.Println("https://github.com/rustyeddy/fxbook")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
