package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"swit-mcp/internal/cli"
	"swit-mcp/internal/config"
	"swit-mcp/internal/oauth"
)

// Login-specific flags
var (
	loginNoBrowser bool
	loginForce     bool
)

// openBrowser is replaced in tests.
var openBrowser = oauth.OpenBrowser

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to Swit through the browser",
	Long: `Sign in to Swit using the OAuth authorization code flow.

A local web server is started on OAUTH_PORT to receive the callback, the
authorization page is opened in the browser, and the command waits until the
token has been stored.

If a swit-mcp server is already running it owns the callback port; use its
swit-oauth-start tool instead.

Examples:
  swit-mcp auth login                  # Open the browser and wait
  swit-mcp auth login --no-browser     # Print the URL only
  swit-mcp auth login --force          # Sign in again with a valid token`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

func init() {
	authLoginCmd.Flags().BoolVar(&loginNoBrowser, "no-browser", false, "Print the authorization URL without opening a browser")
	authLoginCmd.Flags().BoolVar(&loginForce, "force", false, "Sign in even if a valid token is stored")
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadAuthConfig()
	if err != nil {
		return err
	}
	coordinator, err := newCoordinator(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return login(ctx, cmd, cfg, coordinator, oauth.NewCallbackServer(coordinator.Settings(), coordinator))
}

func login(ctx context.Context, cmd *cobra.Command, cfg *config.Config, coordinator *oauth.Coordinator, server *oauth.CallbackServer) error {
	out := cmd.OutOrStdout()

	if coordinator.IsTokenValid() && !loginForce {
		authPrint(out, "%s Already authenticated. Use --force to sign in again.\n", text.FgGreen.Sprint("✓"))
		return nil
	}

	if err := server.Start(ctx); err != nil {
		var portErr *oauth.PortInUseError
		if errors.As(err, &portErr) {
			return fmt.Errorf("%w\nIf a swit-mcp server is running, use its swit-oauth-start tool instead", err)
		}
		return err
	}
	defer server.Shutdown(context.WithoutCancel(ctx))

	authURL := server.AuthorizationURL()
	authPrint(out, "Open the following URL to sign in:\n\n  %s\n\n", authURL)
	if !loginNoBrowser {
		if err := openBrowser(authURL); err != nil {
			authPrint(out, "Could not open a browser (%v), open the URL manually.\n", err)
		}
	}

	waitCtx, cancel := context.WithTimeout(ctx, oauth.CallbackTimeout)
	defer cancel()

	progress := cli.StartProgress(cmd.ErrOrStderr(), "Waiting for authentication...", authQuiet)
	cred, err := server.WaitForAuthentication(waitCtx)
	if err != nil {
		progress.Fail("Authentication failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return failedError(fmt.Errorf("no callback received within %s", oauth.CallbackTimeout))
		}
		return failedError(err)
	}

	progress.Succeed("Authenticated")
	authPrint(out, "Token stored in %s, valid until %s\n",
		cfg.TokenStore().Path(), cred.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func requiredError(cfg *config.Config) error {
	return &cli.AuthRequiredError{TokenFile: cfg.TokenStore().Path()}
}

func failedError(err error) error {
	return &cli.AuthFailedError{Reason: err}
}
