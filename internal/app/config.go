package app

import (
	"swit-mcp/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of the configured level.
	Debug bool

	// ConfigDir overrides ~/.config/swit-mcp.
	ConfigDir string

	// EnvFile overrides the .env file loaded at startup.
	EnvFile string

	// Version is announced to MCP clients.
	Version string

	// SwitConfig is filled by NewApplication. Tests may pre-populate it to
	// skip loading from disk and the environment.
	SwitConfig *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configDir, version string) *Config {
	return &Config{
		Debug:     debug,
		ConfigDir: configDir,
		Version:   version,
	}
}
