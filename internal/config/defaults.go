package config

import (
	"swit-mcp/internal/oauth"
	"swit-mcp/internal/swit"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		OAuthPort:  oauth.DefaultPort,
		Scopes:     oauth.DefaultScopes(),
		APIBaseURL: swit.DefaultBaseURL,
		LogLevel:   "info",
	}
}
