package mcp

import (
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/wip"
)

type ModifierParams struct {
	Client     string        `json:"client,omitempty"`
	Status     job.Status    `json:"status,omitempty"`
	WithClient *bool         `json:"with_client,omitempty"`
	DateRange  job.DateRange `json:"date_range,omitempty"`
	SortBy     job.SortField `json:"sort_by,omitempty"`
	SortOrder  job.SortOrder `json:"sort_order,omitempty"`
}

func (p ModifierParams) modifiers() job.Modifiers {
	client := p.Client
	if client == wip.AllClients {
		client = ""
	}
	return job.Modifiers{
		Client:     client,
		Status:     p.Status,
		WithClient: p.WithClient,
		DateRange:  p.DateRange,
		SortBy:     p.SortBy,
		SortOrder:  p.SortOrder,
	}
}

type FilterJobsParams struct {
	ModifierParams
	IncludeAllStatuses bool `json:"include_all_statuses,omitempty"`
}

type SearchJobsParams struct {
	Terms  []string `json:"terms"`
	Client string   `json:"client,omitempty"`
}

type WipBoardParams struct {
	Client string   `json:"client,omitempty"`
	Mode   wip.Mode `json:"mode,omitempty"`
}

type TrackerSummaryParams struct {
	Client string `json:"client"`
	Period string `json:"period,omitempty"`
}

type AskDotParams struct {
	Question string `json:"question"`
}

// JobsResponse wraps a job list with its size.
type JobsResponse struct {
	Count int       `json:"count"`
	Jobs  []job.Job `json:"jobs"`
}
