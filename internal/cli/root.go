package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

// NewRootCommand builds the load generator command tree. Running the root
// command without a subcommand starts a load test.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "loadgen",
		Short:   "Batch load generator for the PI service",
		Version: version,
		Long: `Sends a fixed number of GET requests to the PI service in sequential
batches of concurrent requests, pausing between batches, and prints a
latency and error report.

Settings come from defaults, an optional --config file, the environment
and flags, later sources winning:

  loadgen --total 500 --concurrent 25 --delay 250
  CONCURRENT_REQUESTS=5 TOTAL_REQUESTS=12 loadgen --output json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runLoadTest,
	}

	addRunFlags(cmd)
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loadgen %s\n", version)
		},
	}
}

// Execute runs the load generator command line.
func Execute() error {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
