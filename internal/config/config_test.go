package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swit-mcp/internal/oauth"
	"swit-mcp/internal/swit"
)

// clearEnv unsets every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SWIT_CLIENT_ID", "SWIT_CLIENT_SECRET", "OAUTH_PORT", "SWIT_OAUTH_SCOPES",
		"SWIT_API_TOKEN", "SWIT_API_BASE_URL", "SWIT_MCP_TOKEN_FILE",
		"SWIT_MCP_LOG_LEVEL", "SWIT_MCP_LOG_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(LoadOptions{ConfigDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, oauth.DefaultPort, cfg.OAuthPort)
	assert.Equal(t, oauth.DefaultScopes(), cfg.Scopes)
	assert.Equal(t, swit.DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.HasOAuth())
}

func TestLoad_YAMLThenEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), `
clientId: yaml-client
oauthPort: 3100
scopes:
  - workspace:read
logLevel: debug
tokenFile: /tmp/yaml-token.json
`)

	t.Setenv("OAUTH_PORT", "3200")
	t.Setenv("SWIT_CLIENT_SECRET", "env-secret")

	cfg, err := Load(LoadOptions{ConfigDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "yaml-client", cfg.ClientID)
	assert.Equal(t, "env-secret", cfg.ClientSecret)
	assert.Equal(t, 3200, cfg.OAuthPort)
	assert.Equal(t, []string{"workspace:read"}, cfg.Scopes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/tmp/yaml-token.json", cfg.TokenFile)
	assert.True(t, cfg.HasOAuth())
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "SWIT_CLIENT_ID=dotenv-id\nSWIT_CLIENT_SECRET=dotenv-secret\nSWIT_API_TOKEN=dotenv-token\n")
	t.Cleanup(func() {
		os.Unsetenv("SWIT_CLIENT_ID")
		os.Unsetenv("SWIT_CLIENT_SECRET")
		os.Unsetenv("SWIT_API_TOKEN")
	})

	cfg, err := Load(LoadOptions{ConfigDir: dir, EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "dotenv-id", cfg.ClientID)
	assert.Equal(t, "dotenv-secret", cfg.ClientSecret)
	assert.Equal(t, "dotenv-token", cfg.APIToken)
}

func TestLoad_ScopesFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SWIT_OAUTH_SCOPES", "workspace:read,message:write")

	dir := t.TempDir()
	cfg, err := Load(LoadOptions{ConfigDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, []string{"workspace:read", "message:write"}, cfg.Scopes)
}

func TestLoad_MalformedYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.yaml"), "oauthPort: [not a number")

	_, err := Load(LoadOptions{ConfigDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading config from")
}

func TestLoad_InvalidPortFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("OAUTH_PORT", "not-a-port")

	dir := t.TempDir()
	_, err := Load(LoadOptions{ConfigDir: dir, EnvFile: filepath.Join(dir, "missing.env")})
	assert.Error(t, err)
}

func TestDefaultConfigDir(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()
	osUserHomeDir = func() (string, error) { return "/home/tester", nil }

	dir, err := DefaultConfigDir()
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.config/swit-mcp", dir)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "port zero", mutate: func(c *Config) { c.OAuthPort = 0 }, field: "oauthPort"},
		{name: "port too large", mutate: func(c *Config) { c.OAuthPort = 70000 }, field: "oauthPort"},
		{name: "blank scope", mutate: func(c *Config) { c.Scopes = []string{"workspace:read", " "} }, field: "scopes[1]"},
		{name: "relative base url", mutate: func(c *Config) { c.APIBaseURL = "/v1" }, field: "apiBaseUrl"},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "verbose" }, field: "logLevel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestConfig_OAuthSettings(t *testing.T) {
	cfg := Default()
	cfg.ClientID = "id"
	cfg.ClientSecret = "secret"
	cfg.OAuthPort = 3100

	settings, err := cfg.OAuthSettings()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3100/callback", settings.RedirectURI())
	assert.Equal(t, oauth.DefaultScopes(), settings.Scopes())

	cfg.ClientSecret = ""
	_, err = cfg.OAuthSettings()
	assert.Error(t, err)
}

func TestConfig_TokenStore(t *testing.T) {
	cfg := Default()
	cfg.TokenFile = filepath.Join(t.TempDir(), "token.json")
	assert.Equal(t, cfg.TokenFile, cfg.TokenStore().Path())
}
