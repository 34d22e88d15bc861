// Package main provides the dremio-connector CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/dremio-connector/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
