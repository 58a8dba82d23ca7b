package output

import (
	"fmt"
	"io"
	"time"

	"github.com/McValls/inspt-demo-newrelic/internal/loadgen"
)

// timestampLayout matches ISO-8601 with milliseconds, UTC.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Progress prints batch progress and, in verbose mode, one line per request.
// It implements loadgen.Observer.
type Progress struct {
	w       io.Writer
	scheme  *ColorScheme
	verbose bool
}

// NewProgress creates a progress printer writing to w.
func NewProgress(w io.Writer, scheme *ColorScheme, verbose bool) *Progress {
	return &Progress{w: w, scheme: scheme, verbose: verbose}
}

// BatchStarted implements loadgen.Observer.
func (p *Progress) BatchStarted(batch, numBatches, size int) {
	fmt.Fprintf(p.w, "%s %s\n",
		p.scheme.Highlight.Sprintf("Batch %d/%d", batch+1, numBatches),
		p.scheme.Dim.Sprintf("(%d requests)", size))
}

// Outcome implements loadgen.Observer.
func (p *Progress) Outcome(o loadgen.Outcome) {
	if !p.verbose {
		return
	}
	fmt.Fprintln(p.w, p.FormatOutcome(o))
}

// BatchFinished implements loadgen.Observer.
func (p *Progress) BatchFinished(batch int, took time.Duration) {
	fmt.Fprintf(p.w, "  %s\n", p.scheme.Dim.Sprintf("done in %.2fms", float64(took.Microseconds())/1000.0))
}

// FormatOutcome renders one request line:
//
//	[2024-01-01T10:00:00.000Z] Request #3: 12.34ms - Status: 200
func (p *Progress) FormatOutcome(o loadgen.Outcome) string {
	prefix := fmt.Sprintf("[%s] Request #%d: %.2fms",
		o.Timestamp.UTC().Format(timestampLayout), o.ID, o.ElapsedMillis())

	if !o.Success {
		return fmt.Sprintf("%s - %s", prefix, p.scheme.Error.Sprintf("Error: %s", o.Err))
	}

	line := fmt.Sprintf("%s - %s", prefix, p.status(o.StatusCode))
	if o.Extracted != "" {
		line += " " + p.scheme.Value.Sprint(o.Extracted)
	}
	return line
}

func (p *Progress) status(code int) string {
	c := p.scheme.Success
	switch {
	case code >= 500:
		c = p.scheme.Error
	case code >= 400:
		c = p.scheme.Warn
	}
	return c.Sprintf("Status: %d", code)
}
