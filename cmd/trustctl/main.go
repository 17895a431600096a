package main

import (
	"os"

	"github.com/IntegraLedger/trust-documentation-sub003/cmd/trustctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
