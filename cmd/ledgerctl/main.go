// Command ledgerctl inspects and maintains a ledger database offline.
package main

import (
	"os"

	"github.com/carson-networks/finance-ledger/cmd/ledgerctl/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
