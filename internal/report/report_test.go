package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/McValls/inspt-demo-newrelic/internal/loadgen"
	"github.com/McValls/inspt-demo-newrelic/internal/output"
)

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		p    float64
		want float64
	}{
		{50, 30},
		{90, 50},
		{95, 50},
		{99, 50},
		{20, 10},
		{21, 20},
		{0, 10},
		{100, 50},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentile(sorted, tt.p), "P%v", tt.p)
	}
}

func TestPercentile_Edges(t *testing.T) {
	assert.Zero(t, Percentile(nil, 50))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 99))

	hundred := make([]float64, 100)
	for i := range hundred {
		hundred[i] = float64(i + 1)
	}
	assert.Equal(t, 99.0, Percentile(hundred, 99))
	assert.Equal(t, 50.0, Percentile(hundred, 50))
}

func TestGroupErrors(t *testing.T) {
	groups := GroupErrors([]loadgen.ErrorRecord{
		{ID: 1, Message: "dial tcp 127.0.0.1:3000: connect: connection refused"},
		{ID: 2, Message: "dial tcp 127.0.0.1:3000: connect: connection refused"},
		{ID: 3, Message: "context deadline exceeded (Client.Timeout exceeded while awaiting headers)"},
		{ID: 4, Message: "EOF"},
		{ID: 5, Message: "EOF"},
	})

	assert.Equal(t, []ErrorGroup{
		{Message: "EOF", Count: 2},
		{Message: "dial tcp 127.0.0.1", Count: 2},
		{Message: "context deadline exceeded (Client.Timeout exceeded while awaiting headers)", Count: 1},
	}, groups)
}

func TestErrorKey(t *testing.T) {
	assert.Equal(t, "connect ECONNREFUSED 127.0.0.1", ErrorKey("connect ECONNREFUSED 127.0.0.1:3000"))
	assert.Equal(t, "timeout of 5000ms exceeded", ErrorKey("timeout of 5000ms exceeded"))
	assert.Equal(t, "", ErrorKey(": leading colon"))
}

func finishedStats(t *testing.T, outcomes ...loadgen.Outcome) *loadgen.Statistics {
	t.Helper()
	stats := loadgen.NewStatistics()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	stats.Start(start)
	for _, o := range outcomes {
		stats.Record(o)
	}
	stats.Finish(start.Add(2 * time.Second))
	return stats
}

func TestSummarize(t *testing.T) {
	stats := finishedStats(t,
		loadgen.Outcome{ID: 1, Success: true, StatusCode: 200, Elapsed: 10 * time.Millisecond},
		loadgen.Outcome{ID: 2, Success: true, StatusCode: 200, Elapsed: 20 * time.Millisecond},
		loadgen.Outcome{ID: 3, Success: true, StatusCode: 200, Elapsed: 30 * time.Millisecond},
		loadgen.Outcome{ID: 4, Success: true, StatusCode: 200, Elapsed: 40 * time.Millisecond},
		loadgen.Outcome{ID: 5, Success: true, StatusCode: 200, Elapsed: 50 * time.Millisecond},
		loadgen.Outcome{ID: 6, Err: "EOF", Elapsed: time.Millisecond},
	)

	s := Summarize("GET http://localhost:3000/pi", stats)

	assert.Equal(t, 6, s.TotalRequests)
	assert.Equal(t, 5, s.Successful)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, s.TotalRequests, s.Successful+s.Failed)
	assert.InDelta(t, 83.333, s.SuccessRate, 0.001)
	assert.InDelta(t, 3.0, s.Throughput, 1e-9)
	assert.InDelta(t, 2.0, s.DurationSeconds, 1e-9)

	require.NotNil(t, s.Latency)
	assert.InDelta(t, 30.0, s.Latency.Average, 1e-9)
	assert.InDelta(t, 10.0, s.Latency.Min, 1e-9)
	assert.InDelta(t, 50.0, s.Latency.Max, 1e-9)
	assert.InDelta(t, 30.0, s.Latency.P50, 1e-9)
	assert.InDelta(t, 50.0, s.Latency.P90, 1e-9)

	assert.Equal(t, []ErrorGroup{{Message: "EOF", Count: 1}}, s.Errors)
	assert.Equal(t, map[int]int{200: 5}, s.StatusCodes)

	var counted int64
	for _, b := range s.Distribution {
		counted += b.Count
	}
	assert.Equal(t, int64(5), counted)
}

func TestSummarize_ZeroRequests(t *testing.T) {
	stats := loadgen.NewStatistics()
	now := time.Now()
	stats.Start(now)
	stats.Finish(now)

	s := Summarize("", stats)

	assert.Zero(t, s.TotalRequests)
	assert.Zero(t, s.SuccessRate)
	assert.Zero(t, s.Throughput)
	assert.Nil(t, s.Latency)
	assert.Empty(t, s.Errors)

	var buf bytes.Buffer
	WriteText(&buf, s, output.NoColorScheme())
	assert.Contains(t, buf.String(), "Success Rate:  0.00%")
	assert.Contains(t, buf.String(), "Throughput:    0.00 req/s")
	assert.NotContains(t, buf.String(), "NaN")
	assert.NotContains(t, buf.String(), "Response Times:")
}

func TestDistribution(t *testing.T) {
	hist := hdrhistogram.New(1, 3600000000, 3)
	for _, v := range []int64{1000, 1000, 2000, 5000, 10000} {
		require.NoError(t, hist.RecordValue(v))
	}

	buckets := Distribution(hist, 4)
	require.Len(t, buckets, 4)

	var total int64
	for _, b := range buckets {
		total += b.Count
		assert.Less(t, b.From, b.To)
	}
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(3), buckets[0].Count)
	assert.Equal(t, int64(1), buckets[3].Count)

	assert.Nil(t, Distribution(hdrhistogram.New(1, 1000, 3), 4))
}

func TestDistribution_SingleValue(t *testing.T) {
	hist := hdrhistogram.New(1, 3600000000, 3)
	require.NoError(t, hist.RecordValue(1500))
	require.NoError(t, hist.RecordValue(1500))

	buckets := Distribution(hist, 10)
	require.Len(t, buckets, 1)
	assert.Equal(t, int64(2), buckets[0].Count)
}

func TestWriteText(t *testing.T) {
	stats := finishedStats(t,
		loadgen.Outcome{ID: 1, Success: true, StatusCode: 200, Elapsed: 10 * time.Millisecond},
		loadgen.Outcome{ID: 2, Err: "dial tcp 127.0.0.1:3000: connect: connection refused"},
	)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "text", Summarize("GET http://localhost:3000/pi", stats), output.NoColorScheme()))
	out := buf.String()

	for _, want := range []string{
		"Load Test Results - Completed with 1 failures",
		"Target:        GET http://localhost:3000/pi",
		"Duration:      2.00s",
		"Total Reqs:    2",
		"Success Rate:  50.00%",
		"Throughput:    1.00 req/s",
		"P99:       10.00ms",
		"Latency Distribution:",
		"200: 1",
		"1x dial tcp 127.0.0.1",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteJSONAndYAML(t *testing.T) {
	stats := finishedStats(t,
		loadgen.Outcome{ID: 1, Success: true, StatusCode: 200, Elapsed: 10 * time.Millisecond},
	)
	s := Summarize("GET http://localhost:3000/pi", stats)

	var jsonBuf bytes.Buffer
	require.NoError(t, Write(&jsonBuf, "json", s, output.NoColorScheme()))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(jsonBuf.Bytes(), &decoded))
	assert.Equal(t, float64(1), decoded["totalRequests"])
	assert.Equal(t, float64(100), decoded["successRate"])

	var yamlBuf bytes.Buffer
	require.NoError(t, Write(&yamlBuf, "yaml", s, output.NoColorScheme()))
	var decodedYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(yamlBuf.Bytes(), &decodedYAML))
	assert.Equal(t, 1, decodedYAML["successful"])

	assert.Error(t, Write(&bytes.Buffer{}, "xml", s, output.NoColorScheme()))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,000", formatNumber(1000))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
