// Package cli provides terminal helpers for the swit-mcp auth commands:
// authentication errors that map to exit codes, a status table rendered with
// go-pretty, and a spinner for blocking waits.
package cli
