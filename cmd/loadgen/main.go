package main

import (
	"os"

	"github.com/McValls/inspt-demo-newrelic/internal/cli"
)

// Main runs the load generator and returns the process exit code.
func Main() int {
	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(Main())
}
