package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/McValls/inspt-demo-newrelic/internal/config"
	lghttp "github.com/McValls/inspt-demo-newrelic/internal/http"
	"github.com/McValls/inspt-demo-newrelic/internal/loadgen"
	"github.com/McValls/inspt-demo-newrelic/internal/output"
	"github.com/McValls/inspt-demo-newrelic/internal/report"
)

func addRunFlags(cmd *cobra.Command) {
	defaults := config.Default()

	cmd.Flags().Int("concurrent", defaults.Concurrency, "Maximum requests in flight per batch")
	cmd.Flags().Int("total", defaults.TotalRequests, "Total number of requests to send")
	cmd.Flags().Int("delay", int(defaults.Delay.Millis()), "Pause between batches in milliseconds")
	cmd.Flags().Int("timeout", int(defaults.Timeout.Millis()), "Per-request timeout in milliseconds")
	cmd.Flags().String("base-url", defaults.BaseURL, "Base URL of the service under test")
	cmd.Flags().String("path", defaults.Path, "Path requested on every iteration")
	cmd.Flags().BoolP("verbose", "v", false, "Log every request")
	cmd.Flags().StringP("config", "c", "", "YAML or JSON configuration file")
	cmd.Flags().StringP("output", "o", defaults.Output, "Report format: text, json or yaml")
	cmd.Flags().Bool("no-color", false, "Disable coloured output")
	cmd.Flags().String("extract", "", "JSON path logged for each response in verbose mode (e.g. $.pi)")
}

// resolveConfig layers flags the user actually set over the file and
// environment, then validates the result.
func resolveConfig(cmd *cobra.Command, lookup config.LookupFunc) (config.Config, error) {
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config")
	cfg, err := config.Resolve(configFile, lookup)
	if err != nil {
		return cfg, err
	}

	if flags.Changed("concurrent") {
		cfg.Concurrency, _ = flags.GetInt("concurrent")
	}
	if flags.Changed("total") {
		cfg.TotalRequests, _ = flags.GetInt("total")
	}
	if flags.Changed("delay") {
		ms, _ := flags.GetInt("delay")
		cfg.Delay = config.Duration(msDuration(ms))
	}
	if flags.Changed("timeout") {
		ms, _ := flags.GetInt("timeout")
		cfg.Timeout = config.Duration(msDuration(ms))
	}
	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("path") {
		cfg.Path, _ = flags.GetString("path")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("no-color") {
		cfg.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("extract") {
		cfg.Extract, _ = flags.GetString("extract")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runLoadTest(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, os.LookupEnv)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	scheme := output.NewColorScheme(output.UseColor(out, cfg.NoColor))

	// Machine-readable reports own stdout; progress goes to stderr.
	progressOut := out
	if cfg.Output != config.OutputText {
		progressOut = cmd.ErrOrStderr()
	}

	client := lghttp.NewClient(
		lghttp.WithBaseURL(cfg.BaseURL),
		lghttp.WithTimeout(cfg.Timeout.Std()),
		lghttp.WithHeader("User-Agent", "inspt-loadgen/"+version),
	)

	var execOpts []loadgen.ExecutorOption
	if cfg.Extract != "" {
		execOpts = append(execOpts, loadgen.WithExtract(cfg.Extract))
	}
	executor := loadgen.NewExecutor(client, cfg.Path, execOpts...)

	runner := loadgen.NewRunner(executor, cfg.TotalRequests, cfg.Concurrency, cfg.Delay.Std(),
		loadgen.WithObserver(output.NewProgress(progressOut, scheme, cfg.Verbose)))

	target := targetURL(cfg)
	printHeader(progressOut, scheme, cfg, target)

	stats, err := runner.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("load test failed: %w", err)
	}

	if cfg.Output == config.OutputText {
		fmt.Fprintln(out)
	}
	return report.Write(out, cfg.Output, report.Summarize(target, stats), scheme)
}

func msDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

func targetURL(cfg config.Config) string {
	u, err := lghttp.Get(cfg.Path).URL(cfg.BaseURL)
	if err != nil {
		return cfg.BaseURL + cfg.Path
	}
	return u.String()
}

func printHeader(w io.Writer, scheme *output.ColorScheme, cfg config.Config, target string) {
	fmt.Fprintf(w, "%s %s\n", scheme.Title.Sprint("Load test:"), scheme.Value.Sprint(target))
	fmt.Fprintf(w, "  %s %d  %s %d  %s %s  %s %s\n\n",
		scheme.Label.Sprint("requests"), cfg.TotalRequests,
		scheme.Label.Sprint("concurrency"), cfg.Concurrency,
		scheme.Label.Sprint("delay"), cfg.Delay,
		scheme.Label.Sprint("timeout"), cfg.Timeout)
}
