package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `dot-hub answers questions about Hunch's live client work: jobs, the WIP board and client budgets.

Tools:
- filter_jobs: list jobs by client, status, who has the ball, and due date. Without a status only In Progress jobs come back.
- search_jobs: rank jobs of any status against free-text terms.
- wip_board: the grouped board (todo by due date, wip by ownership).
- tracker_summary: budget, spend and remaining for one client this month, last month or this quarter.
- ask_dot: hand a plain-English question to Dot, the same way the hub's chat does.

Client codes are three letters (SKY, TOW, ONE). Job numbers look like "SKY 042".

Docs:
- dothub://docs/index
- dothub://docs/budgets
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "dothub://docs/index",
		Name:        "docs_index",
		Title:       "dot-hub docs index",
		Description: "What the job tools return and how to read them.",
		Content: `# dot-hub

## Jobs

A job has a number (` + "`SKY 042`" + `), a name, a status, a stage and two dates:
the update due date and the live date. ` + "`withClient`" + ` is true while the ball is in the
client's court.

Job numbers ending in 000 or 999 are placeholders and never show on the WIP board.

## Filtering

- No status given: In Progress only. Pass ` + "`include_all_statuses`" + ` to see everything; it overrides ` + "`status`" + `.
- ` + "`date_range`" + `: today, tomorrow (today and tomorrow), week (the next seven days), next
  (no bound, sorted by due date).
- Jobs without a due date sort last.

## WIP board

- ` + "`todo`" + `: DO IT NOW (due within a day or overdue), DO IT SOON (within five days),
  COMING UP, WITH CLIENT. On Hold jobs are left off.
- ` + "`wip`" + `: INCOMING, ON HOLD, JOBS WITH YOU, JOBS WITH US.
`,
	},
	{
		URI:         "dothub://docs/budgets",
		Name:        "docs_budgets",
		Title:       "Reading tracker summaries",
		Description: "How budget, spend and rollover are computed.",
		Content: `# Budgets

Each client has a committed monthly budget. Spend is the sum of line items in the period.

- ` + "`this_quarter`" + ` budgets the three months of the quarter.
- ` + "`level`" + ` is ok up to 80% used, high above that, and over once spend passes budget.
- Rollover credit is reported separately, only in the quarter it can be used.
- ` + "`quarterLabel`" + ` uses the client's own financial-year quarter naming.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
