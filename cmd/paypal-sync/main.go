// Package main is the entry point for paypal-sync CLI.
package main

import (
	"os"

	"github.com/shunichi-ikebuchi/paypal-ledger/cmd/paypal-sync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
