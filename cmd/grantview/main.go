// Package main provides the grantview CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/grantview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
