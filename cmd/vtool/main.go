// Package main provides the vtool PDS label validator CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/vtool/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
