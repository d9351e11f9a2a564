// Package main provides the CLI for the crease cricket analytics dashboard.
package main

import (
	"os"

	"github.com/leapstack-labs/crease/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
