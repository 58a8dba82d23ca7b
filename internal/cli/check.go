package cli

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/McValls/inspt-demo-newrelic/internal/config"
	lghttp "github.com/McValls/inspt-demo-newrelic/internal/http"
	"github.com/McValls/inspt-demo-newrelic/internal/output"
	"github.com/McValls/inspt-demo-newrelic/internal/service"
	"github.com/McValls/inspt-demo-newrelic/pkg/jsonpath"
	"github.com/McValls/inspt-demo-newrelic/pkg/jsonschema"
)

var (
	//go:embed schemas/root.json
	rootSchema string
	//go:embed schemas/health.json
	healthSchema string
	//go:embed schemas/pi.json
	piSchema string
)

// assertion compares the value at a JSON path with an expected string or,
// when want is an int64, an expected number.
type assertion struct {
	path string
	want interface{}
}

// endpointCheck describes one smoke-checked endpoint.
type endpointCheck struct {
	path    string
	schema  *jsonschema.Schema
	asserts []assertion
}

func defaultChecks() []endpointCheck {
	return []endpointCheck{
		{
			path:   "/",
			schema: jsonschema.MustCompile("root", rootSchema),
			asserts: []assertion{
				{path: "$.endpoints.health", want: "/health"},
				{path: "$.endpoints.pi", want: "/pi"},
			},
		},
		{
			path:    "/health",
			schema:  jsonschema.MustCompile("health", healthSchema),
			asserts: []assertion{{path: "$.status", want: "OK"}},
		},
		{
			path:   "/pi",
			schema: jsonschema.MustCompile("pi", piSchema),
			asserts: []assertion{
				{path: "$.pi", want: service.PiValue},
				{path: "$.digits", want: int64(service.PiDigits)},
			},
		},
	}
}

func newCheckCommand() *cobra.Command {
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Smoke-test every endpoint of the service",
		Long: `Requests /, /health and /pi once each, validates every body against its
JSON schema and checks the returned values. Exits non-zero on any failure.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	cmd.Flags().String("base-url", defaults.BaseURL, "Base URL of the service under test")
	cmd.Flags().Int("timeout", int(defaults.Timeout.Millis()), "Per-request timeout in milliseconds")
	cmd.Flags().Bool("no-color", false, "Disable coloured output")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := resolveCheckConfig(cmd)
	if err != nil {
		return err
	}

	client := lghttp.NewClient(
		lghttp.WithBaseURL(cfg.BaseURL),
		lghttp.WithTimeout(cfg.Timeout.Std()),
		lghttp.WithHeader("User-Agent", "inspt-loadgen/"+version),
	)

	out := cmd.OutOrStdout()
	failed := checkEndpoints(cmd.Context(), out, client, defaultChecks(), !output.UseColor(out, cfg.NoColor))
	if failed > 0 {
		return fmt.Errorf("smoke check failed: %d endpoint(s) did not pass", failed)
	}
	return nil
}

func resolveCheckConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load("")
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("timeout") {
		ms, _ := flags.GetInt("timeout")
		cfg.Timeout = config.Duration(msDuration(ms))
	}
	cfg.NoColor, _ = flags.GetBool("no-color")

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// checkEndpoints runs every check, printing one line each followed by the
// timing breakdown of the exchange, and returns the number that failed.
func checkEndpoints(ctx context.Context, w io.Writer, client *lghttp.Client, checks []endpointCheck, noColor bool) int {
	scheme := output.NewColorScheme(!noColor)
	failed := 0

	for _, c := range checks {
		resp, err := checkEndpoint(ctx, client, c)
		if err != nil {
			failed++
			fmt.Fprintf(w, "%s GET %s: %s\n", scheme.ErrorIcon(), c.path, scheme.Error.Sprint(err))
		} else {
			fmt.Fprintf(w, "%s GET %s %s\n", scheme.SuccessIcon(), c.path,
				scheme.Dim.Sprintf("(%.2fms)", resp.Timing.TotalMillis()))
		}
		if resp != nil {
			fmt.Fprintf(w, "    %s\n", output.FormatTiming(scheme, resp.Timing))
		}
	}

	return failed
}

// checkEndpoint returns the response whenever one arrived, even if the
// check failed.
func checkEndpoint(ctx context.Context, client *lghttp.Client, c endpointCheck) (*lghttp.Response, error) {
	req := lghttp.Get(c.path).WithHeader("Accept", "application/json")
	resp, err := client.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.IsServerError():
		return resp, fmt.Errorf("server error: status %d", resp.StatusCode)
	case resp.IsClientError():
		return resp, fmt.Errorf("client error: status %d", resp.StatusCode)
	case !resp.IsSuccess():
		return resp, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if ct := resp.Header("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		return resp, fmt.Errorf("unexpected content type %q", ct)
	}

	body := resp.BodyString()
	if err := c.schema.Validate(body); err != nil {
		return resp, fmt.Errorf("schema %s: %w", c.schema.Name(), err)
	}

	for _, a := range c.asserts {
		if err := a.check(body); err != nil {
			return resp, err
		}
	}

	return resp, nil
}

func (a assertion) check(body string) error {
	switch want := a.want.(type) {
	case int64:
		got, err := jsonpath.ExtractInt(body, a.path)
		if err != nil {
			return err
		}
		if got != want {
			return fmt.Errorf("%s: expected %d, got %d", a.path, want, got)
		}
	default:
		got, err := jsonpath.Extract(body, a.path)
		if err != nil {
			return err
		}
		if got != fmt.Sprint(want) {
			return fmt.Errorf("%s: expected %q, got %q", a.path, want, got)
		}
	}
	return nil
}
