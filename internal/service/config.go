package service

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Service defaults.
const (
	DefaultPort        = 3000
	DefaultEnvironment = "development"
	DefaultAppName     = "inspt-demo-newrelic"
	Version            = "1.0.0"
)

// Config holds the service settings read from the environment.
type Config struct {
	Port        int
	Environment string

	// New Relic. The agent stays disabled without a license key.
	AppName    string
	LicenseKey string
}

// LoadConfig reads envFile and then the environment. A missing envFile is
// only an error when mustExist is set. Variables already set in the process
// take precedence over the file.
func LoadConfig(envFile string, mustExist bool) (Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		if mustExist || !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("failed to load env file: %w", err)
		}
	}
	return ConfigFromLookup(os.LookupEnv)
}

// ConfigFromLookup builds a Config from an environment lookup function.
func ConfigFromLookup(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		Port:        DefaultPort,
		Environment: DefaultEnvironment,
		AppName:     DefaultAppName,
	}

	if v, ok := lookup("PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return cfg, fmt.Errorf("invalid PORT %q", v)
		}
		cfg.Port = port
	}
	if v, ok := lookup("ENVIRONMENT"); ok && v != "" {
		cfg.Environment = v
	} else if v, ok := lookup("NODE_ENV"); ok && v != "" {
		cfg.Environment = v
	}
	if v, ok := lookup("NEW_RELIC_APP_NAME"); ok && v != "" {
		cfg.AppName = v
	}
	if v, ok := lookup("NEW_RELIC_LICENSE_KEY"); ok {
		cfg.LicenseKey = v
	}

	return cfg, nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
