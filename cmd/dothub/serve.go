package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/MGhunch/dot-hub/internal/mcp"
	"github.com/MGhunch/dot-hub/internal/transport"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the hub HTTP API",
		Long: `Serve the hub API under /api, Prometheus metrics under /metrics and
the MCP streamable HTTP endpoint under /mcp.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(os.Stdout)
			if err != nil {
				return err
			}
			defer a.Close()
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	if a.cfg.Session.Secret == "" {
		return errors.New("a session secret is required: set DOTHUB_SESSION_SECRET")
	}

	pruned, err := a.sessions.Prune(ctx, time.Now().Add(-a.cfg.Session.TokenTTL))
	if err != nil {
		a.logger.Warn("pruning old sessions failed", "error", err)
	} else if pruned > 0 {
		a.logger.Info("pruned old sessions", "count", pruned)
	}

	tokens := transport.NewTokens(a.cfg.Session.Secret, a.cfg.Session.TokenTTL)
	router := transport.NewServer(a.hub, tokens, transport.Options{
		SecureCookie: a.cfg.Session.SecureCookie,
		Logger:       a.logger,
	})

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      a.mcpServices(),
		Resolver:      tokens,
		TransportMode: mcp.ModeHTTP,
		Logger:        a.logger,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

func (a *app) mcpServices() mcp.Services {
	return mcp.Services{
		Jobs:         a.hub.Jobs(),
		Budgets:      a.hub.Tracker(),
		Conversation: a.hub,
	}
}
