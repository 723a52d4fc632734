package config

import (
	"swit-mcp/internal/oauth"
)

// Config is the resolved swit-mcp configuration.
type Config struct {
	ClientID     string   `yaml:"clientId,omitempty" env:"SWIT_CLIENT_ID"`
	ClientSecret string   `yaml:"clientSecret,omitempty" env:"SWIT_CLIENT_SECRET"`
	OAuthPort    int      `yaml:"oauthPort,omitempty" env:"OAUTH_PORT"`
	Scopes       []string `yaml:"scopes,omitempty" env:"SWIT_OAUTH_SCOPES" envSeparator:","`

	// APIToken is used when OAuth is not configured.
	APIToken   string `yaml:"-" env:"SWIT_API_TOKEN"`
	APIBaseURL string `yaml:"apiBaseUrl,omitempty" env:"SWIT_API_BASE_URL"`

	TokenFile string `yaml:"tokenFile,omitempty" env:"SWIT_MCP_TOKEN_FILE"`
	LogLevel  string `yaml:"logLevel,omitempty" env:"SWIT_MCP_LOG_LEVEL"`
	LogFile   string `yaml:"logFile,omitempty" env:"SWIT_MCP_LOG_FILE"`
}

// HasOAuth reports whether both OAuth client credentials are present.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// OAuthSettings builds validated OAuth settings from the configuration.
func (c *Config) OAuthSettings() (oauth.Settings, error) {
	return oauth.NewSettings(c.ClientID, c.ClientSecret, c.OAuthPort, c.Scopes)
}

// TokenStore returns the store at TokenFile, or at the default path.
func (c *Config) TokenStore() *oauth.TokenStore {
	return oauth.NewTokenStore(c.TokenFile)
}
