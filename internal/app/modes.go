package app

import (
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"swit-mcp/pkg/logging"
)

// shutdownTimeout bounds the callback server shutdown.
const shutdownTimeout = 5 * time.Second

// runServer serves MCP on in/out. The token watcher runs alongside it and
// everything stops when the MCP session ends or ctx is cancelled.
func runServer(ctx context.Context, services *Services, in io.Reader, out io.Writer) error {
	if err := services.Start(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	if services.TokenWatcher != nil {
		g.Go(func() error {
			return services.TokenWatcher.Run(gctx)
		})
	}

	g.Go(func() error {
		// The session ending stops the rest of the group.
		defer cancel()
		err := services.Tools.Serve(gctx, in, out)
		if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer stop()
		if err := services.Stop(shutdownCtx); err != nil {
			logging.Error("Bootstrap", err, "Failed to stop OAuth callback server")
		}
		return nil
	})

	err := g.Wait()
	logging.Info("Bootstrap", "MCP server stopped")
	return err
}
