package mcp

// ToolDefinition describes one MCP tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

var modifierProperties = map[string]any{
	"client": map[string]any{
		"type":        "string",
		"description": "Three-letter client code, e.g. SKY",
	},
	"status": map[string]any{
		"type":        "string",
		"description": "Job status",
		"enum":        []string{"Incoming", "In Progress", "On Hold", "Completed", "Archived"},
	},
	"with_client": map[string]any{
		"type":        "boolean",
		"description": "Only jobs waiting on the client (true) or on us (false)",
	},
	"date_range": map[string]any{
		"type":        "string",
		"description": "Due date bound",
		"enum":        []string{"today", "tomorrow", "week", "next"},
	},
	"sort_by": map[string]any{
		"type": "string",
		"enum": []string{"dueDate", "updated", "jobNumber"},
	},
	"sort_order": map[string]any{
		"type": "string",
		"enum": []string{"asc", "desc"},
	},
}

func withProperties(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "filter_jobs",
			Description: "List jobs matching the given modifiers. Without a status only In Progress jobs are returned.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": withProperties(modifierProperties, map[string]any{
					"include_all_statuses": map[string]any{
						"type":        "boolean",
						"description": "Return every status when no status is given",
					},
				}),
			},
		},
		{
			Name:        "search_jobs",
			Description: "Rank jobs of any status by how well they match the search terms",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"terms": map[string]any{
						"type":        "array",
						"description": "Search terms, matched case-insensitively",
						"items":       map[string]any{"type": "string"},
					},
					"client": modifierProperties["client"],
				},
				"required": []string{"terms"},
			},
		},
		{
			Name:        "wip_board",
			Description: "Group live jobs into the WIP board sections",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"client": map[string]any{
						"type":        "string",
						"description": "Client code, or all",
					},
					"mode": map[string]any{
						"type":        "string",
						"description": "todo groups by due date, wip by who has the ball",
						"enum":        []string{"todo", "wip"},
					},
				},
			},
		},
		{
			Name:        "tracker_summary",
			Description: "Budget, spend and remaining for a client over a period",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"client": modifierProperties["client"],
					"period": map[string]any{
						"type": "string",
						"enum": []string{"this_month", "last_month", "this_quarter"},
					},
				},
				"required": []string{"client"},
			},
		},
		{
			Name:        "ask_dot",
			Description: "Ask Dot a question in plain English, exactly as typed into the hub",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": map[string]any{
						"type": "string",
					},
				},
				"required": []string{"question"},
			},
		},
	}
}
