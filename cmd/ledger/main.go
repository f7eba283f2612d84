package main

import (
	"os"

	"github.com/cmlabs-hris/punch-ledger-go/cmd/ledger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
