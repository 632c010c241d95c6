package conversation

import (
	"context"

	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
)

// Intent is the remote natural-language service. Ask returns the raw reply
// body.
type Intent interface {
	Ask(ctx context.Context, req Request) ([]byte, error)
	Clear(ctx context.Context, sessionID string) error
}

// Jobs is the local job cache the legacy replies run against.
type Jobs interface {
	Filter(mods job.Modifiers, includeAllStatuses bool) []job.Job
	Search(mods job.Modifiers, terms []string) []job.Job
	Clients() []job.Client
	ClientCounts() []job.ClientCount
}

// Budgets answers legacy budget questions.
type Budgets interface {
	PeriodSummary(ctx context.Context, code, period string) (tracker.Summary, error)
}

// Navigator switches the active view of the asking session.
type Navigator interface {
	Redirect(view, client string)
}

// RandomSource picks an index in [0, n).
type RandomSource interface {
	IntN(n int) int
}
