package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"swit-mcp/internal/config"
	"swit-mcp/internal/oauth"
	"swit-mcp/pkg/logging"
)

var authQuiet bool

// authCmd represents the auth command group
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the stored Swit OAuth token",
	Long: `Manage the OAuth token used by the MCP server.

The token is stored in a single JSON file shared with running servers; a
login from the command line is picked up by a running server without a
restart.

Examples:
  swit-mcp auth login                  # Sign in through the browser
  swit-mcp auth status                 # Show the stored token state
  swit-mcp auth refresh                # Force a token refresh
  swit-mcp auth logout                 # Delete the stored token`,
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Delete the stored OAuth token",
	Long: `Delete the stored OAuth token.

Running servers notice the removal and stop using the token. Calling logout
when no token is stored is not an error.`,
	Args: cobra.NoArgs,
	RunE: runAuthLogout,
}

// authRefreshCmd represents the auth refresh command
var authRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Force token refresh",
	Long: `Exchange the stored refresh token for a new access token now,
regardless of the current expiry.`,
	Args: cobra.NoArgs,
	RunE: runAuthRefresh,
}

// authPrint prints output only if the --quiet flag is not set.
func authPrint(w io.Writer, format string, args ...interface{}) {
	if !authQuiet {
		fmt.Fprintf(w, format, args...)
	}
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRefreshCmd)

	authCmd.PersistentFlags().BoolVarP(&authQuiet, "quiet", "q", false, "Suppress non-essential output")
}

// loadAuthConfig loads the configuration for the auth commands and routes
// logs to stderr at warn level unless --debug is set.
func loadAuthConfig() (*config.Config, error) {
	level := logging.LevelWarn
	if rootDebug {
		level = logging.LevelDebug
	}
	logging.Init(level, os.Stderr)

	cfg, err := config.Load(config.LoadOptions{ConfigDir: rootConfigDir, EnvFile: rootEnvFile})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// newCoordinator builds a coordinator from cfg. It fails when the OAuth
// client credentials are missing.
func newCoordinator(cfg *config.Config) (*oauth.Coordinator, error) {
	if !cfg.HasOAuth() {
		return nil, fmt.Errorf("OAuth is not configured: set SWIT_CLIENT_ID and SWIT_CLIENT_SECRET")
	}
	settings, err := cfg.OAuthSettings()
	if err != nil {
		return nil, err
	}
	return oauth.NewCoordinator(settings, cfg.TokenStore()), nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	cfg, err := loadAuthConfig()
	if err != nil {
		return err
	}

	store := cfg.TokenStore()
	if !store.Exists() {
		authPrint(cmd.OutOrStdout(), "No stored token at %s\n", store.Path())
		return nil
	}

	store.Clear()
	if store.Exists() {
		return fmt.Errorf("failed to delete %s", store.Path())
	}
	logging.Audit(logging.AuditEvent{Action: "logout", Outcome: "success", Details: "cli"})
	authPrint(cmd.OutOrStdout(), "Logged out, removed %s\n", store.Path())
	return nil
}

func runAuthRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := loadAuthConfig()
	if err != nil {
		return err
	}
	coordinator, err := newCoordinator(cfg)
	if err != nil {
		return err
	}
	if !coordinator.HasCredential() {
		return requiredError(cfg)
	}

	authPrint(cmd.OutOrStdout(), "Refreshing token...\n")
	if err := coordinator.Refresh(cmd.Context()); err != nil {
		return failedError(err)
	}

	cred := coordinator.Credential()
	authPrint(cmd.OutOrStdout(), "Token refreshed, valid until %s\n", cred.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}
