package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvConcurrency = "CONCURRENT_REQUESTS"
	EnvTotal       = "TOTAL_REQUESTS"
	EnvDelay       = "DELAY_BETWEEN_BATCHES"
	EnvTimeout     = "TIMEOUT"
	EnvBaseURL     = "BASE_URL"
	EnvPath        = "TARGET_PATH"
	EnvVerbose     = "VERBOSE"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Load resolves defaults, the optional config file and the process
// environment, in that order.
func Load(path string) (Config, error) {
	return Resolve(path, os.LookupEnv)
}

// Resolve is Load with an injectable environment.
func Resolve(path string, lookup LookupFunc) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := ParseInto(&cfg, data, path); err != nil {
			return cfg, err
		}
	}

	if err := ApplyEnv(&cfg, lookup); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseInto decodes data over cfg, leaving fields the file omits untouched.
// The format follows the file extension; anything but .json is read as YAML.
func ParseInto(cfg *Config, data []byte, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}
	return nil
}

// ApplyEnv overlays the environment onto cfg. Unset or empty variables are
// ignored; malformed ones are reported together.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	errs := &ValidationErrors{}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get(EnvConcurrency); ok {
		if n, err := strconv.Atoi(v); err != nil {
			errs.Add(EnvConcurrency, fmt.Sprintf("not an integer: %q", v))
		} else {
			cfg.Concurrency = n
		}
	}
	if v, ok := get(EnvTotal); ok {
		if n, err := strconv.Atoi(v); err != nil {
			errs.Add(EnvTotal, fmt.Sprintf("not an integer: %q", v))
		} else {
			cfg.TotalRequests = n
		}
	}
	if v, ok := get(EnvDelay); ok {
		if d, err := ParseMillis(v); err != nil {
			errs.Add(EnvDelay, fmt.Sprintf("not a duration: %q", v))
		} else {
			cfg.Delay = d
		}
	}
	if v, ok := get(EnvTimeout); ok {
		if d, err := ParseMillis(v); err != nil {
			errs.Add(EnvTimeout, fmt.Sprintf("not a duration: %q", v))
		} else {
			cfg.Timeout = d
		}
	}
	if v, ok := get(EnvBaseURL); ok {
		cfg.BaseURL = v
	}
	if v, ok := get(EnvPath); ok {
		cfg.Path = v
	}
	if v, ok := get(EnvVerbose); ok {
		if b, err := strconv.ParseBool(v); err != nil {
			errs.Add(EnvVerbose, fmt.Sprintf("not a boolean: %q", v))
		} else {
			cfg.Verbose = b
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
