package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"swit-mcp/internal/app"
)

// serveCmd runs the MCP server on stdio. It is also the root command's
// default action.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Swit tools over MCP stdio",
	Long: `Starts the MCP server on stdin/stdout.

When OAuth is configured, a local web server is started on OAUTH_PORT
(default 3000) to receive the authorization callback, and the token file is
watched so that a login performed by another process is picked up.

Configuration:
  Values are read from ~/.config/swit-mcp/config.yaml, then from the
  environment (after loading ./.env). Environment variables win.

  SWIT_CLIENT_ID, SWIT_CLIENT_SECRET   OAuth client credentials
  OAUTH_PORT                           callback port (default 3000)
  SWIT_API_TOKEN                       static token used without OAuth
  SWIT_API_BASE_URL                    API root (default https://openapi.swit.io/v1)
  SWIT_MCP_TOKEN_FILE                  token file (default ~/.swit-mcp-token.json)
  SWIT_MCP_LOG_LEVEL, SWIT_MCP_LOG_FILE`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

// runServe is the main entry point for the serve command
func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(rootDebug, rootConfigDir, GetVersion())
	cfg.EnvFile = rootEnvFile

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
