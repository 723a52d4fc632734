// Package oauth implements the Swit OAuth 2.0 authorization-code flow for the
// local MCP server.
//
// # Components
//
//   - Settings: client credentials, callback port and scopes, validated at construction
//   - TokenStore: persists the single Credential as JSON in the user's home directory
//   - Coordinator: owns the in-memory Credential, exchanges codes and refreshes tokens
//   - CallbackServer: local HTTP listener receiving the provider redirect
//   - TokenWatcher: reloads the Coordinator when another process rewrites the token file
//
// # Token lifecycle
//
// A Credential is created by ExchangeCode or Refresh and persisted after each
// change. AccessToken returns the cached access token while it is valid for more
// than RefreshSkew; closer to expiry it refreshes first. Concurrent refreshes are
// collapsed into one token request.
//
// # Security
//
// The token file is written with 0600 permissions via a temporary file and a
// rename. Token values are never logged: Credential implements slog.LogValuer and
// fmt.Stringer with redacted output.
package oauth
