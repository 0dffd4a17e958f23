// Package main is the entry point for apple-stock-notifier.
package main

import (
	"os"

	"github.com/donaldgifford/apple-stock-notifier/cmd/apple-stock-notifier/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
