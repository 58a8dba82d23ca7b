package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	lghttp "github.com/McValls/inspt-demo-newrelic/internal/http"
	"github.com/McValls/inspt-demo-newrelic/internal/loadgen"
)

func TestColorSchemes(t *testing.T) {
	for _, scheme := range []*ColorScheme{DefaultColorScheme(), NoColorScheme()} {
		for i, c := range scheme.all() {
			assert.NotNil(t, c, "color %d should not be nil", i)
		}
	}

	plain := NoColorScheme()
	assert.Equal(t, "42", plain.Value.Sprint("42"))

	colored := NewColorScheme(true)
	assert.Contains(t, colored.Error.Sprint("x"), "\x1b[")
}

func TestColorScheme_Rate(t *testing.T) {
	s := DefaultColorScheme()
	assert.Same(t, s.Success, s.Rate(100))
	assert.Same(t, s.Warn, s.Rate(97))
	assert.Same(t, s.Error, s.Rate(50))
}

func TestIcons(t *testing.T) {
	plain := NoColorScheme()
	assert.Equal(t, "✓", plain.SuccessIcon())
	assert.Equal(t, "✗", plain.ErrorIcon())
}

func TestIconsFollowSchemeOverGlobalNoColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()

	colored := NewColorScheme(true)
	assert.Contains(t, colored.SuccessIcon(), "\x1b[")
	assert.Contains(t, colored.SuccessIcon(), "✓")
	assert.Contains(t, colored.ErrorIcon(), "\x1b[")
	assert.Contains(t, colored.ErrorIcon(), "✗")
}

func TestFormatTiming(t *testing.T) {
	timing := lghttp.TimingInfo{
		DNSLookupTime:       1200 * time.Microsecond,
		TCPConnectTime:      300 * time.Microsecond,
		TimeToFirstByte:     2500 * time.Microsecond,
		ContentTransferTime: 50 * time.Microsecond,
		TotalTime:           4050 * time.Microsecond,
	}

	got := FormatTiming(NoColorScheme(), timing)
	assert.Equal(t, "dns 1.20ms  connect 0.30ms  ttfb 2.50ms  transfer 0.05ms  total 4.05ms", got)

	timing.TLSHandshakeTime = 3 * time.Millisecond
	assert.Contains(t, FormatTiming(NoColorScheme(), timing), "tls 3.00ms")

	reused := lghttp.TimingInfo{TimeToFirstByte: time.Millisecond, TotalTime: time.Millisecond}
	assert.Equal(t, "ttfb 1.00ms  transfer 0.00ms  total 1.00ms", FormatTiming(NoColorScheme(), reused))
}

func TestUseColor(t *testing.T) {
	var buf bytes.Buffer
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")

	assert.False(t, UseColor(&buf, false), "buffers are not terminals")
	assert.False(t, UseColor(&buf, true))

	t.Setenv("FORCE_COLOR", "1")
	assert.True(t, UseColor(&buf, false))
	assert.False(t, UseColor(&buf, true), "--no-color wins over FORCE_COLOR")

	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColor(&buf, false))
}

func TestProgress_FormatOutcome(t *testing.T) {
	p := NewProgress(&bytes.Buffer{}, NoColorScheme(), true)
	ts := time.Date(2024, 3, 14, 15, 9, 26, 535000000, time.UTC)

	ok := p.FormatOutcome(loadgen.Outcome{ID: 3, Success: true, StatusCode: 200, Elapsed: 12340 * time.Microsecond, Timestamp: ts})
	assert.Equal(t, "[2024-03-14T15:09:26.535Z] Request #3: 12.34ms - Status: 200", ok)

	failed := p.FormatOutcome(loadgen.Outcome{ID: 4, Err: "connection refused", Elapsed: time.Millisecond, Timestamp: ts})
	assert.Equal(t, "[2024-03-14T15:09:26.535Z] Request #4: 1.00ms - Error: connection refused", failed)

	extracted := p.FormatOutcome(loadgen.Outcome{ID: 5, Success: true, StatusCode: 200, Extracted: "3.141592654", Timestamp: ts})
	assert.True(t, strings.HasSuffix(extracted, "Status: 200 3.141592654"))
}

func TestProgress_QuietUnlessVerbose(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, NoColorScheme(), false)

	p.BatchStarted(0, 3, 4)
	p.Outcome(loadgen.Outcome{ID: 1, Success: true, StatusCode: 200})
	p.BatchFinished(0, 1500*time.Microsecond)

	out := buf.String()
	assert.Contains(t, out, "Batch 1/3 (4 requests)")
	assert.Contains(t, out, "done in 1.50ms")
	assert.NotContains(t, out, "Request #1")

	buf.Reset()
	NewProgress(&buf, NoColorScheme(), true).Outcome(loadgen.Outcome{ID: 1, Success: true, StatusCode: 200})
	assert.Contains(t, buf.String(), "Request #1")
}
