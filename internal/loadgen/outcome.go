package loadgen

import "time"

// Outcome is the result of a single request.
type Outcome struct {
	ID         int
	Batch      int
	Success    bool
	Elapsed    time.Duration
	StatusCode int
	Err        string

	// Extracted holds the configured JSON path value, if any.
	Extracted string

	Timestamp time.Time
}

// ElapsedMillis returns the elapsed time in fractional milliseconds.
func (o Outcome) ElapsedMillis() float64 {
	return toMillis(o.Elapsed)
}

// ErrorRecord is kept for every failed request.
type ErrorRecord struct {
	ID        int     `json:"id" yaml:"id"`
	Message   string  `json:"error" yaml:"error"`
	ElapsedMs float64 `json:"elapsedMs" yaml:"elapsedMs"`
}

func toMillis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / float64(time.Millisecond)
}
