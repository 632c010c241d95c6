package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/MGhunch/dot-hub/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve Dot to an MCP client over stdio",
		Long: `Sign in with the PIN in DOTHUB_MCP_PIN and serve the MCP tools over
stdin and stdout. Logs go to stderr so stdout stays clean for JSON-RPC.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stderr)
			if err != nil {
				return err
			}
			defer a.Close()
			return runStdio(cmd.Context(), a)
		},
	}
}

func runStdio(ctx context.Context, a *app) error {
	if a.cfg.Transport.PIN == "" {
		return errors.New("a PIN is required: set DOTHUB_MCP_PIN")
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	e, err := a.hub.Login(ctx, a.cfg.Transport.PIN, nil)
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	sess := e.Session
	defer func() {
		if err := a.hub.Logout(context.Background(), sess.ID); err != nil {
			a.logger.Warn("signing out failed", "error", err)
		}
	}()

	server := mcp.NewServer(mcp.Config{
		Services:      a.mcpServices(),
		SessionID:     sess.ID,
		TransportMode: mcp.ModeStdio,
		Logger:        a.logger,
	})

	a.logger.Info("starting stdio transport", "user", sess.User.Name)
	// Run blocks until stdin closes or the context is cancelled.
	if err := server.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}
