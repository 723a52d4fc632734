// Package logging provides the structured, subsystem-tagged logger used across swit-mcp.
//
// It is a thin layer over log/slog. Every entry carries a subsystem attribute so
// OAuth, callback-server and API-client output can be filtered independently.
//
// # Output
//
// The MCP stdio transport owns stdout, so log output must never go there. Use
// stderr (the default) or a file:
//
//	logging.Init(logging.LevelInfo, os.Stderr)
//	if err := logging.InitWithFile(logging.LevelDebug, "/tmp/swit-mcp.log"); err != nil {
//	    return err
//	}
//	defer logging.Close()
//
// # Usage
//
//	logging.Info("OAuth", "Token refreshed, expires at %s", expiry.Format(time.RFC3339))
//	logging.Error("SwitAPI", err, "Request to %s failed", endpoint)
//
// # Audit Logging
//
// Credential lifecycle events (exchange, refresh, logout) are recorded with Audit.
// Token values are never passed to the logger.
//
//	logging.Audit(logging.AuditEvent{Action: "token_refresh", Outcome: "success"})
package logging
