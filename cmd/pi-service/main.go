package main

import (
	"os"

	"github.com/McValls/inspt-demo-newrelic/internal/cli"
)

func main() {
	if err := cli.ExecuteService(); err != nil {
		os.Exit(1)
	}
}
