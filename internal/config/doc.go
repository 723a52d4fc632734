// Package config loads swit-mcp settings.
//
// Values are resolved in three layers, later layers winning:
//
//  1. built-in defaults (see Default)
//  2. an optional YAML file, ~/.config/swit-mcp/config.yaml
//  3. environment variables, after an optional .env file has been loaded
//
// The YAML file is meant for stable per-user settings such as the callback
// port, scopes or token file location. Client secrets and static API tokens
// are normally supplied through the environment.
//
// Example config.yaml:
//
//	clientId: my-client-id
//	oauthPort: 3100
//	scopes:
//	  - workspace:read
//	  - channel:read
//	logLevel: debug
package config
