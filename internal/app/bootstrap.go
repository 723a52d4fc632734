package app

import (
	"context"
	"fmt"
	"os"

	"swit-mcp/internal/config"
	"swit-mcp/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs swit-mcp.
//
// Example usage:
//
//	cfg := app.NewConfig(false, "", version)
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration, configures logging and initializes the
// services. It does not bind any port.
func NewApplication(cfg *Config) (*Application, error) {
	if cfg.SwitConfig == nil {
		switCfg, err := config.Load(config.LoadOptions{ConfigDir: cfg.ConfigDir, EnvFile: cfg.EnvFile})
		if err != nil {
			return nil, fmt.Errorf("failed to load swit-mcp configuration: %w", err)
		}
		cfg.SwitConfig = switCfg
	}

	if err := setupLogging(cfg); err != nil {
		return nil, err
	}

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services exposes the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run executes the application until ctx is cancelled or the MCP client
// disconnects.
func (a *Application) Run(ctx context.Context) error {
	defer logging.Close()
	return runServer(ctx, a.services, os.Stdin, os.Stdout)
}

func setupLogging(cfg *Config) error {
	level := logging.ParseLevel(cfg.SwitConfig.LogLevel)
	if cfg.Debug {
		level = logging.LevelDebug
	}

	if cfg.SwitConfig.LogFile != "" {
		if err := logging.InitWithFile(level, cfg.SwitConfig.LogFile); err != nil {
			return fmt.Errorf("failed to open log file %s: %w", cfg.SwitConfig.LogFile, err)
		}
		return nil
	}

	logging.Init(level, os.Stderr)
	return nil
}
