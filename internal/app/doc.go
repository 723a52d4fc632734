// Package app wires swit-mcp together and runs it.
//
// Bootstrap happens in two phases:
//
//  1. NewApplication loads the configuration, initializes logging and builds
//     the long-lived services (metrics, OAuth coordinator, Swit client).
//  2. Run starts the OAuth callback server, the token file watcher and the
//     MCP stdio server under one errgroup, and shuts them down together.
//
// # OAuth fallback
//
// OAuth is optional. When SWIT_CLIENT_ID or SWIT_CLIENT_SECRET is missing, or
// the callback port is already taken, the application logs the reason and
// continues with a client that authenticates using SWIT_API_TOKEN. In that
// mode the OAuth tools report that the web server is unavailable.
//
// Logging never goes to stdout, which carries the MCP protocol. It is written
// to stderr or to the file named by SWIT_MCP_LOG_FILE.
package app
