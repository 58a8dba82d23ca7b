package output

import (
	"fmt"
	"strings"
	"time"

	lghttp "github.com/McValls/inspt-demo-newrelic/internal/http"
)

// FormatTiming renders the network phases of one exchange on a single line.
// DNS, connect and TLS are left out when they did not happen, as on a
// reused connection.
func FormatTiming(scheme *ColorScheme, t lghttp.TimingInfo) string {
	var parts []string
	add := func(label string, d time.Duration) {
		parts = append(parts, fmt.Sprintf("%s %s", scheme.Label.Sprint(label),
			scheme.Value.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)))
	}

	if t.DNSLookupTime > 0 {
		add("dns", t.DNSLookupTime)
	}
	if t.TCPConnectTime > 0 {
		add("connect", t.TCPConnectTime)
	}
	if t.TLSHandshakeTime > 0 {
		add("tls", t.TLSHandshakeTime)
	}
	add("ttfb", t.TimeToFirstByte)
	add("transfer", t.ContentTransferTime)
	add("total", t.TotalTime)

	return strings.Join(parts, "  ")
}
