package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/McValls/inspt-demo-newrelic/internal/output"
)

const (
	ruleWidth = 56
	barWidth  = 30
)

// Write renders s in the given format ("text", "json" or "yaml").
func Write(w io.Writer, format string, s *Summary, scheme *output.ColorScheme) error {
	switch format {
	case "json":
		return WriteJSON(w, s)
	case "yaml":
		return WriteYAML(w, s)
	case "", "text":
		WriteText(w, s, scheme)
		return nil
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// WriteYAML writes s as YAML.
func WriteYAML(w io.Writer, s *Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return enc.Close()
}

// WriteText prints the human-readable report.
func WriteText(w io.Writer, s *Summary, scheme *output.ColorScheme) {
	line := strings.Repeat("━", ruleWidth)
	status := scheme.Success.Sprint("Completed ✓")
	if s.Failed > 0 {
		status = scheme.Warn.Sprintf("Completed with %d failures", s.Failed)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, scheme.Value.Sprint(line))
	fmt.Fprintf(w, "%s - %s\n", scheme.Title.Sprint("Load Test Results"), status)
	fmt.Fprintln(w, scheme.Value.Sprint(line))
	fmt.Fprintln(w)

	if s.Target != "" {
		fmt.Fprintf(w, "Target:        %s\n", scheme.Value.Sprint(s.Target))
	}
	fmt.Fprintf(w, "Duration:      %s\n", scheme.Value.Sprint(formatDuration(s.DurationSeconds)))
	fmt.Fprintf(w, "Total Reqs:    %s\n", scheme.Value.Sprint(formatNumber(s.TotalRequests)))
	fmt.Fprintf(w, "Successful:    %s\n", scheme.Success.Sprint(formatNumber(s.Successful)))
	fmt.Fprintf(w, "Failed:        %s\n", failedColor(scheme, s.Failed).Sprint(formatNumber(s.Failed)))
	fmt.Fprintf(w, "Success Rate:  %s\n", scheme.Rate(s.SuccessRate).Sprintf("%.2f%%", s.SuccessRate))
	fmt.Fprintf(w, "Throughput:    %s\n", scheme.Value.Sprintf("%.2f req/s", s.Throughput))
	fmt.Fprintln(w)

	if s.Latency != nil {
		fmt.Fprintln(w, scheme.Title.Sprint("Response Times:"))
		fmt.Fprintf(w, "  Average:   %s\n", ms(s.Latency.Average))
		fmt.Fprintf(w, "  Min:       %s\n", ms(s.Latency.Min))
		fmt.Fprintf(w, "  Max:       %s\n", ms(s.Latency.Max))
		fmt.Fprintf(w, "  P50:       %s\n", ms(s.Latency.P50))
		fmt.Fprintf(w, "  P90:       %s\n", ms(s.Latency.P90))
		fmt.Fprintf(w, "  P95:       %s\n", ms(s.Latency.P95))
		fmt.Fprintf(w, "  P99:       %s\n", ms(s.Latency.P99))
		fmt.Fprintln(w)
	}

	if len(s.Distribution) > 0 {
		fmt.Fprintln(w, scheme.Title.Sprint("Latency Distribution:"))
		writeDistribution(w, s.Distribution, scheme)
		fmt.Fprintln(w)
	}

	if len(s.StatusCodes) > 0 {
		fmt.Fprintln(w, scheme.Title.Sprint("Status Codes:"))
		codes := make([]int, 0, len(s.StatusCodes))
		for code := range s.StatusCodes {
			codes = append(codes, code)
		}
		sort.Ints(codes)
		for _, code := range codes {
			fmt.Fprintf(w, "  %d: %s\n", code, scheme.Value.Sprint(formatNumber(s.StatusCodes[code])))
		}
		fmt.Fprintln(w)
	}

	if len(s.Errors) > 0 {
		fmt.Fprintln(w, scheme.Title.Sprint("Errors:"))
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s %s\n", scheme.Error.Sprintf("%dx", e.Count), e.Message)
		}
		fmt.Fprintln(w)
	}
}

func writeDistribution(w io.Writer, buckets []Bucket, scheme *output.ColorScheme) {
	var peak int64
	for _, b := range buckets {
		if b.Count > peak {
			peak = b.Count
		}
	}

	for _, b := range buckets {
		filled := 0
		if peak > 0 {
			filled = int(float64(b.Count) / float64(peak) * barWidth)
		}
		if b.Count > 0 && filled == 0 {
			filled = 1
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(w, "  %9.2fms - %9.2fms %s %d\n", b.From, b.To, scheme.Success.Sprint(bar), b.Count)
	}
}

func failedColor(scheme *output.ColorScheme, failed int) *color.Color {
	if failed > 0 {
		return scheme.Error
	}
	return scheme.Success
}

func ms(v float64) string {
	return fmt.Sprintf("%.2fms", v)
}

// formatDuration formats seconds in a human-readable format.
func formatDuration(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %02ds", m, s)
}

// formatNumber formats a number with thousands separators.
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	offset := len(str) % 3
	if offset > 0 {
		result.WriteString(str[:offset])
	}
	for i := offset; i < len(str); i += 3 {
		if result.Len() > 0 {
			result.WriteString(",")
		}
		result.WriteString(str[i : i+3])
	}
	return result.String()
}
