package loadgen

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram bounds, in microseconds: 1µs to 1h at 3 significant figures.
const (
	histMin     = 1
	histMax     = 3600000000
	histSigFigs = 3
)

// Statistics is the running aggregate of a run. It is safe for concurrent
// use; the Runner folds a batch's outcomes into it after the batch joins.
//
// Invariants: Total() == Successful() + Failed() after every Record, and
// Min() <= every recorded elapsed time <= Max() once a success exists.
type Statistics struct {
	mu sync.Mutex

	total      int
	successful int
	failed     int

	// success latencies, in milliseconds
	totalMs float64
	minMs   float64
	maxMs   float64
	elapsed []float64

	statusCodes map[int]int
	errors      []ErrorRecord

	// mirror of elapsed for the distribution chart
	hist *hdrhistogram.Histogram

	startTime time.Time
	endTime   time.Time
}

// NewStatistics creates an empty aggregate.
func NewStatistics() *Statistics {
	return &Statistics{
		minMs:       math.Inf(1),
		maxMs:       0,
		elapsed:     make([]float64, 0),
		statusCodes: make(map[int]int),
		errors:      make([]ErrorRecord, 0),
		hist:        hdrhistogram.New(histMin, histMax, histSigFigs),
	}
}

// Start stamps the beginning of the run.
func (s *Statistics) Start(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startTime = t
}

// Finish stamps the end of the run.
func (s *Statistics) Finish(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endTime = t
}

// Record folds one outcome into the aggregate.
func (s *Statistics) Record(o Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	ms := o.ElapsedMillis()

	if !o.Success {
		s.failed++
		s.errors = append(s.errors, ErrorRecord{ID: o.ID, Message: o.Err, ElapsedMs: ms})
		return
	}

	s.successful++
	s.totalMs += ms
	if ms < s.minMs {
		s.minMs = ms
	}
	if ms > s.maxMs {
		s.maxMs = ms
	}
	s.elapsed = append(s.elapsed, ms)
	s.statusCodes[o.StatusCode]++

	micros := o.Elapsed.Microseconds()
	if micros < histMin {
		micros = histMin
	}
	if micros > histMax {
		micros = histMax
	}
	// Clamped above, so RecordValue cannot fail.
	_ = s.hist.RecordValue(micros)
}

// Total returns the number of completed requests.
func (s *Statistics) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// Successful returns the number of requests that got a response.
func (s *Statistics) Successful() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.successful
}

// Failed returns the number of requests that errored or timed out.
func (s *Statistics) Failed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failed
}

// Min returns the smallest success latency in ms, or 0 with no successes.
func (s *Statistics) Min() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.successful == 0 {
		return 0
	}
	return s.minMs
}

// Max returns the largest success latency in ms.
func (s *Statistics) Max() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxMs
}

// TotalMillis returns the cumulative success latency in ms.
func (s *Statistics) TotalMillis() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalMs
}

// Average returns the mean success latency in ms, or 0 with no successes.
func (s *Statistics) Average() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.successful == 0 {
		return 0
	}
	return s.totalMs / float64(s.successful)
}

// SortedElapsed returns a sorted copy of all success latencies in ms.
func (s *Statistics) SortedElapsed() []float64 {
	s.mu.Lock()
	out := make([]float64, len(s.elapsed))
	copy(out, s.elapsed)
	s.mu.Unlock()

	sort.Float64s(out)
	return out
}

// Errors returns a copy of the per-request error records, in record order.
func (s *Statistics) Errors() []ErrorRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ErrorRecord, len(s.errors))
	copy(out, s.errors)
	return out
}

// StatusCodes returns a copy of the per-status success counts.
func (s *Statistics) StatusCodes() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.statusCodes))
	for k, v := range s.statusCodes {
		out[k] = v
	}
	return out
}

// Histogram returns a copy of the latency histogram (microseconds).
func (s *Statistics) Histogram() *hdrhistogram.Histogram {
	s.mu.Lock()
	defer s.mu.Unlock()
	return hdrhistogram.Import(s.hist.Export())
}

// Duration returns the wall-clock span of the run. Before Finish it measures
// up to now.
func (s *Statistics) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startTime.IsZero() {
		return 0
	}
	if s.endTime.IsZero() {
		return time.Since(s.startTime)
	}
	return s.endTime.Sub(s.startTime)
}

// StartTime returns the run start stamp.
func (s *Statistics) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}

// EndTime returns the run end stamp.
func (s *Statistics) EndTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endTime
}
