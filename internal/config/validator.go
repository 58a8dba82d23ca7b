package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate returns nil if the configuration can drive a run, or a
// *ValidationErrors listing every problem found.
func (c Config) Validate() error {
	errs := &ValidationErrors{}

	if c.Concurrency < 1 {
		errs.Add("concurrency", "must be at least 1")
	}
	if c.TotalRequests < 0 {
		errs.Add("totalRequests", "cannot be negative")
	}
	if c.Delay < 0 {
		errs.Add("delay", "cannot be negative")
	}
	if c.Timeout <= 0 {
		errs.Add("timeout", "must be positive")
	}

	if c.BaseURL == "" {
		errs.Add("baseUrl", "is required")
	} else if u, err := url.Parse(c.BaseURL); err != nil {
		errs.Add("baseUrl", fmt.Sprintf("invalid URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs.Add("baseUrl", fmt.Sprintf("unsupported scheme %q", u.Scheme))
	} else if u.Host == "" {
		errs.Add("baseUrl", "missing host")
	}

	switch c.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		errs.Add("output", fmt.Sprintf("unknown format %q (want text, json or yaml)", c.Output))
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
