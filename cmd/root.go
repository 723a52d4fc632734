package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"swit-mcp/internal/cli"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeAuthRequired indicates authentication is required but not available.
	ExitCodeAuthRequired = 2
	// ExitCodeAuthFailed indicates the OAuth flow failed.
	ExitCodeAuthFailed = 3
)

// Global flags shared by every command.
var (
	rootDebug     bool
	rootConfigDir string
	rootEnvFile   string
)

// rootCmd represents the base command for the swit-mcp application.
// Without a subcommand it serves MCP over stdio, which is how MCP clients
// launch it.
var rootCmd = &cobra.Command{
	Use:   "swit-mcp",
	Short: "MCP server for the Swit collaboration API",
	Long: `swit-mcp exposes Swit workspaces, channels, messages, comments and
projects as MCP tools over stdio.

Requests are authenticated with OAuth when SWIT_CLIENT_ID and
SWIT_CLIENT_SECRET are set, and with SWIT_API_TOKEN otherwise. Run
'swit-mcp auth login' once to store an OAuth token, or let the MCP client
call the swit-oauth-start tool.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runServe,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "swit-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var authRequired *cli.AuthRequiredError
	if errors.As(err, &authRequired) {
		return ExitCodeAuthRequired
	}

	var authExpired *cli.AuthExpiredError
	if errors.As(err, &authExpired) {
		return ExitCodeAuthRequired
	}

	var authFailed *cli.AuthFailedError
	if errors.As(err, &authFailed) {
		return ExitCodeAuthFailed
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().BoolVar(&rootDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootConfigDir, "config-dir", "", "Configuration directory (default ~/.config/swit-mcp)")
	rootCmd.PersistentFlags().StringVar(&rootEnvFile, "env-file", "", "Environment file to load (default ./.env)")
}
