// Package report turns finished run statistics into a summary and renders
// it as coloured text, JSON or YAML.
package report

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/McValls/inspt-demo-newrelic/internal/loadgen"
)

// Summary is the final report of a run. Latency values are milliseconds.
type Summary struct {
	Target          string       `json:"target" yaml:"target"`
	StartTime       time.Time    `json:"startTime" yaml:"startTime"`
	EndTime         time.Time    `json:"endTime" yaml:"endTime"`
	DurationSeconds float64      `json:"durationSeconds" yaml:"durationSeconds"`
	TotalRequests   int          `json:"totalRequests" yaml:"totalRequests"`
	Successful      int          `json:"successful" yaml:"successful"`
	Failed          int          `json:"failed" yaml:"failed"`
	SuccessRate     float64      `json:"successRate" yaml:"successRate"`
	Throughput      float64      `json:"throughput" yaml:"throughput"`
	Latency         *Latency     `json:"latency,omitempty" yaml:"latency,omitempty"`
	StatusCodes     map[int]int  `json:"statusCodes,omitempty" yaml:"statusCodes,omitempty"`
	Errors          []ErrorGroup `json:"errors,omitempty" yaml:"errors,omitempty"`
	Distribution    []Bucket     `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// Latency holds response-time statistics over successful requests.
type Latency struct {
	Average float64 `json:"average" yaml:"average"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
	P50     float64 `json:"p50" yaml:"p50"`
	P90     float64 `json:"p90" yaml:"p90"`
	P95     float64 `json:"p95" yaml:"p95"`
	P99     float64 `json:"p99" yaml:"p99"`
}

// Summarize computes the report. Zero requests or a zero duration produce
// a zero success rate and throughput rather than NaN.
func Summarize(target string, stats *loadgen.Statistics) *Summary {
	s := &Summary{
		Target:        target,
		StartTime:     stats.StartTime(),
		EndTime:       stats.EndTime(),
		TotalRequests: stats.Total(),
		Successful:    stats.Successful(),
		Failed:        stats.Failed(),
		StatusCodes:   stats.StatusCodes(),
		Errors:        GroupErrors(stats.Errors()),
	}

	duration := stats.Duration()
	s.DurationSeconds = duration.Seconds()

	if s.TotalRequests > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.TotalRequests) * 100
	}
	if s.DurationSeconds > 0 {
		s.Throughput = float64(s.TotalRequests) / s.DurationSeconds
	}

	if s.Successful > 0 {
		sorted := stats.SortedElapsed()
		s.Latency = &Latency{
			Average: stats.Average(),
			Min:     stats.Min(),
			Max:     stats.Max(),
			P50:     Percentile(sorted, 50),
			P90:     Percentile(sorted, 90),
			P95:     Percentile(sorted, 95),
			P99:     Percentile(sorted, 99),
		}
		s.Distribution = Distribution(stats.Histogram(), DefaultBuckets)
	}

	return s
}

// DefaultBuckets is the number of bars in the latency chart.
const DefaultBuckets = 10

// Bucket is one bar of the latency distribution, bounds in milliseconds.
type Bucket struct {
	From  float64 `json:"from" yaml:"from"`
	To    float64 `json:"to" yaml:"to"`
	Count int64   `json:"count" yaml:"count"`
}

// Distribution folds a microsecond histogram into n equal-width buckets
// between its min and max.
func Distribution(hist *hdrhistogram.Histogram, n int) []Bucket {
	if hist.TotalCount() == 0 || n < 1 {
		return nil
	}

	lo, hi := hist.Min(), hist.Max()
	if hi <= lo {
		return []Bucket{{From: micros(lo), To: micros(hi), Count: hist.TotalCount()}}
	}

	width := float64(hi-lo) / float64(n)
	buckets := make([]Bucket, n)
	for i := range buckets {
		buckets[i].From = micros(lo) + float64(i)*width/1000
		buckets[i].To = micros(lo) + float64(i+1)*width/1000
	}

	for _, bar := range hist.Distribution() {
		if bar.Count == 0 {
			continue
		}
		idx := int(float64(bar.From-lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= n {
			idx = n - 1
		}
		buckets[idx].Count += bar.Count
	}
	return buckets
}

func micros(v int64) float64 {
	return float64(v) / 1000
}
