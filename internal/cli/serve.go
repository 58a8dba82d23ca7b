package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/McValls/inspt-demo-newrelic/internal/service"
)

// NewServiceCommand builds the pi-service command line.
func NewServiceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pi-service",
		Short:   "PI HTTP service with New Relic monitoring",
		Version: service.Version,
		Long: `Serves GET /, GET /health and GET /pi. Settings are read from the
environment (PORT, ENVIRONMENT, NEW_RELIC_APP_NAME, NEW_RELIC_LICENSE_KEY),
optionally seeded from a .env file. New Relic stays disabled without a
license key.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runService,
	}

	cmd.Flags().IntP("port", "p", service.DefaultPort, "Port to listen on (overrides PORT)")
	cmd.Flags().String("env-file", ".env", "Optional dotenv file loaded before the environment is read")

	return cmd
}

// serviceConfig loads the service settings. The default .env may be absent;
// a file named with --env-file must exist.
func serviceConfig(cmd *cobra.Command) (service.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := service.LoadConfig(envFile, cmd.Flags().Changed("env-file"))
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port, _ = cmd.Flags().GetInt("port")
	}
	return cfg, nil
}

func runService(cmd *cobra.Command, args []string) error {
	cfg, err := serviceConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := service.NewLogger(cfg.Environment)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	app, err := service.NewAPM(cfg)
	if err != nil {
		return err
	}
	defer app.Shutdown(service.ShutdownTimeout)

	if cfg.LicenseKey == "" {
		logger.Warn("NEW_RELIC_LICENSE_KEY not set, New Relic agent disabled")
	} else {
		logger.Info("New Relic agent enabled", zap.String("app_name", cfg.AppName))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return service.New(cfg, logger, service.WithAPM(app)).Run(ctx)
}

// ExecuteService runs the pi-service command line.
func ExecuteService() error {
	if err := NewServiceCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
