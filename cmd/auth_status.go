package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"swit-mcp/internal/cli"
	"swit-mcp/internal/config"
)

// Status-specific flags
var statusCheck bool

// now is replaced in tests.
var now = time.Now

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show authentication status",
	Long: `Show the state of the stored OAuth token: whether one exists, when it
expires, and whether it can be refreshed. Token values are never printed.

With --check the command exits with code 2 when no valid token is stored,
which is useful in scripts.`,
	Args: cobra.NoArgs,
	RunE: runAuthStatus,
}

func init() {
	authStatusCmd.Flags().BoolVar(&statusCheck, "check", false, "Exit with code 2 when not authenticated")
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadAuthConfig()
	if err != nil {
		return err
	}
	return showStatus(cmd, cfg)
}

func showStatus(cmd *cobra.Command, cfg *config.Config) error {
	store := cfg.TokenStore()
	cred, _ := store.Load()

	status := cli.AuthStatus{
		TokenFile:    store.Path(),
		Credential:   cred,
		OAuthEnabled: cfg.HasOAuth(),
	}
	if settings, err := cfg.OAuthSettings(); err == nil {
		status.RedirectURI = settings.RedirectURI()
		status.Scopes = settings.Scopes()
	}

	current := now()
	if !authQuiet {
		cli.RenderStatus(cmd.OutOrStdout(), status, current)
	}

	if !statusCheck {
		return nil
	}
	switch {
	case cred == nil:
		return requiredError(cfg)
	case !cred.ValidAt(current):
		return &cli.AuthExpiredError{ExpiredAt: cred.ExpiresAt}
	}
	return nil
}
