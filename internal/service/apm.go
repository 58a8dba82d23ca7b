package service

import (
	"fmt"

	"github.com/newrelic/go-agent/v3/newrelic"
)

// NewAPM creates the New Relic application. Remaining agent settings
// (NEW_RELIC_*) are read from the environment by the agent itself.
func NewAPM(cfg Config) (*newrelic.Application, error) {
	app, err := newrelic.NewApplication(
		newrelic.ConfigAppName(cfg.AppName),
		newrelic.ConfigFromEnvironment(),
		newrelic.ConfigLicense(cfg.LicenseKey),
		newrelic.ConfigEnabled(cfg.LicenseKey != ""),
		newrelic.ConfigDistributedTracerEnabled(true),
		func(c *newrelic.Config) {
			c.Labels = map[string]string{"environment": cfg.Environment}
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create New Relic application: %w", err)
	}
	return app, nil
}
