package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"swit-mcp/pkg/logging"
)

const (
	userConfigDir  = ".config/swit-mcp"
	configFileName = "config.yaml"

	// DefaultEnvFile is loaded from the working directory when present.
	DefaultEnvFile = ".env"
)

// osUserHomeDir is replaced in tests.
var osUserHomeDir = os.UserHomeDir

// DefaultConfigDir returns ~/.config/swit-mcp.
func DefaultConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// LoadOptions selects the files Load reads. Empty fields use the defaults.
type LoadOptions struct {
	ConfigDir string
	EnvFile   string
}

// Load resolves the configuration from defaults, the YAML file and the
// environment, then validates it.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := loadEnvFile(envFile); err != nil {
		return nil, err
	}

	dir := opts.ConfigDir
	if dir == "" {
		var err error
		if dir, err = DefaultConfigDir(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	if err := loadFile(filepath.Join(dir, configFileName), &cfg); err != nil {
		return nil, err
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile loads KEY=VALUE pairs without overriding variables that are
// already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	logging.Debug("ConfigLoader", "Loaded environment from %s", path)
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", path)
			return nil
		}
		return fmt.Errorf("error reading config from %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("error loading config from %s: %w", path, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return nil
}
