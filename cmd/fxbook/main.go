package main

import (
	"os"

	"github.com/rustyeddy/fxbook/cmd/fxbook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
