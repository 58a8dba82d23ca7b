// Package config resolves the load generator's run configuration.
//
// Sources are layered, later ones winning:
//
//	defaults -> config file (--config) -> environment -> command-line flags
//
// Flags are applied by the CLI layer; this package owns the first three.
//
// Example YAML:
//
//	baseUrl: "http://localhost:3000"
//	path: /pi
//	concurrency: 10
//	totalRequests: 100
//	delay: 1s
//	timeout: 5s
package config

import (
	"strconv"
	"time"
)

// Defaults applied before any other source.
const (
	DefaultBaseURL       = "http://localhost:3000"
	DefaultPath          = "/pi"
	DefaultConcurrency   = 10
	DefaultTotalRequests = 100
	DefaultDelay         = 1000 * time.Millisecond
	DefaultTimeout       = 5000 * time.Millisecond
	DefaultOutput        = OutputText
)

// Report formats accepted by Config.Output.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is immutable for the duration of a run.
type Config struct {
	// BaseURL of the service under test
	BaseURL string `json:"baseUrl" yaml:"baseUrl"`

	// Path requested on every iteration
	Path string `json:"path" yaml:"path"`

	// Concurrency is the maximum batch size
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// TotalRequests across all batches
	TotalRequests int `json:"totalRequests" yaml:"totalRequests"`

	// Delay between the end of one batch and the start of the next
	Delay Duration `json:"delay" yaml:"delay"`

	// Timeout per request
	Timeout Duration `json:"timeout" yaml:"timeout"`

	Verbose bool `json:"verbose" yaml:"verbose"`
	NoColor bool `json:"noColor" yaml:"noColor"`

	// Output is the report format: text, json or yaml
	Output string `json:"output" yaml:"output"`

	// Extract is an optional JSON path logged for each response in verbose mode
	Extract string `json:"extract,omitempty" yaml:"extract,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		Path:          DefaultPath,
		Concurrency:   DefaultConcurrency,
		TotalRequests: DefaultTotalRequests,
		Delay:         Duration(DefaultDelay),
		Timeout:       Duration(DefaultTimeout),
		Output:        DefaultOutput,
	}
}

// Duration is a time.Duration that reads either a duration string ("1s",
// "250ms") or a bare integer, taken as milliseconds.
type Duration time.Duration

// ParseMillis parses s as a Duration. Bare integers are milliseconds.
func ParseMillis(s string) (Duration, error) {
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return Duration(d), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Millis returns the duration in whole milliseconds.
func (d Duration) Millis() int64 {
	return time.Duration(d).Milliseconds()
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "null" {
		s = ""
	}

	dur, err := ParseMillis(s)
	if err != nil {
		return err
	}
	*d = dur
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	dur, err := ParseMillis(s)
	if err != nil {
		return err
	}
	*d = dur
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}
