package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MGhunch/dot-hub/internal/domain/wip"
)

const defaultPeriod = "this_month"

// Handler dispatches MCP tool calls.
type Handler struct {
	jobs    JobService
	budgets BudgetService
	convo   ConversationService
	now     func() time.Time
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		jobs:    services.Jobs,
		budgets: services.Budgets,
		convo:   services.Conversation,
		now:     now,
	}
}

// Handle dispatches a tool call to domain services.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "filter_jobs":
		var req FilterJobsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		jobs := h.jobs.Filter(req.modifiers(), req.IncludeAllStatuses)
		return JobsResponse{Count: len(jobs), Jobs: jobs}, nil
	case "search_jobs":
		var req SearchJobsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if len(req.Terms) == 0 {
			return nil, fmt.Errorf("%w: terms are required", errInvalidParams)
		}
		jobs := h.jobs.Search(ModifierParams{Client: req.Client}.modifiers(), req.Terms)
		return JobsResponse{Count: len(jobs), Jobs: jobs}, nil
	case "wip_board":
		var req WipBoardParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return wip.Build(req.Mode, h.jobs.Jobs(), req.Client, h.now()), nil
	case "tracker_summary":
		var req TrackerSummaryParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Client == "" {
			return nil, fmt.Errorf("%w: client is required", errInvalidParams)
		}
		if req.Period == "" {
			req.Period = defaultPeriod
		}
		return h.budgets.PeriodSummary(ctx, req.Client, req.Period)
	case "ask_dot":
		var req AskDotParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.convo.Ask(ctx, sessionID, req.Question)
	default:
		return nil, &APIError{Code: "UNKNOWN_TOOL", Message: fmt.Sprintf("unknown tool %q", method)}
	}
}

func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

func textResult(payload any) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: formatPayload(payload)}},
	}
}

func errorResult(err error) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: formatPayload(MapError(err))}},
	}
}
