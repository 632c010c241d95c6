package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
)

// Transport modes.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
)

// JobService defines the job queries needed by MCP.
type JobService interface {
	Jobs() []job.Job
	Filter(mods job.Modifiers, includeAllStatuses bool) []job.Job
	Search(mods job.Modifiers, terms []string) []job.Job
}

// BudgetService defines the tracker queries needed by MCP.
type BudgetService interface {
	PeriodSummary(ctx context.Context, code, period string) (tracker.Summary, error)
}

// ConversationService runs a turn for a signed-in session.
type ConversationService interface {
	Ask(ctx context.Context, sessionID, question string) (conversation.Turn, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Jobs         JobService
	Budgets      BudgetService
	Conversation ConversationService
}

// Config contains server configuration.
type Config struct {
	Services Services
	// Resolver verifies bearer tokens in http mode.
	Resolver SessionResolver
	// SessionID is the hub session used in stdio mode.
	SessionID     string
	TransportMode string
	Now           func() time.Time
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "dot-hub",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	if cfg.TransportMode == ModeHTTP && cfg.Resolver != nil {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(fixedSessionMiddleware(cfg.SessionID))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, NewHandler(cfg.Services, cfg.Now))

	return server
}

func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args []byte
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, getSessionID(ctx), name, args)
			if err != nil {
				return errorResult(err), nil
			}
			return textResult(result), nil
		})
	}
}
