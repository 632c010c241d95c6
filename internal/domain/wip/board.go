// Package wip buckets a client's jobs for the work-in-progress board.
package wip

import (
	"cmp"
	"slices"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
	"github.com/MGhunch/dot-hub/internal/domain/job"
)

// Mode selects the taxonomy.
type Mode string

const (
	// ModeTodo groups by urgency.
	ModeTodo Mode = "todo"
	// ModeWip groups by who holds the ball.
	ModeWip Mode = "wip"
)

// AllClients disables the client filter.
const AllClients = "all"

// Section is one named bucket of the board.
type Section struct {
	Key     string    `json:"key"`
	Title   string    `json:"title"`
	Compact bool      `json:"compact"`
	Jobs    []job.Job `json:"jobs"`
}

// Board is the grouped view.
type Board struct {
	Mode     Mode      `json:"mode"`
	Client   string    `json:"client"`
	Sections []Section `json:"sections"`
}

// Eligible keeps the jobs of client (or every client for "all" or "") and
// drops placeholder job numbers. The result holds copies.
func Eligible(jobs []job.Job, client string) []job.Job {
	out := make([]job.Job, 0, len(jobs))
	for _, j := range jobs {
		if client != "" && client != AllClients && j.ClientCode != client {
			continue
		}
		if job.IsPlaceholder(j.JobNumber) {
			continue
		}
		out = append(out, j.Clone())
	}
	return out
}

// GroupTodo buckets jobs by urgency: DO IT NOW, DO IT SOON, COMING UP and
// WITH CLIENT. On Hold, Completed and Archived jobs are dropped.
func GroupTodo(jobs []job.Job, now time.Time) []Section {
	sections := []Section{
		{Key: "now", Title: "DO IT NOW"},
		{Key: "soon", Title: "DO IT SOON"},
		{Key: "comingUp", Title: "COMING UP", Compact: true},
		{Key: "withClient", Title: "WITH CLIENT", Compact: true},
	}
	const (
		doNow = iota
		doSoon
		comingUp
		withClient
	)

	for _, j := range Eligible(jobs, AllClients) {
		switch j.Status {
		case job.StatusOnHold, job.StatusCompleted, job.StatusArchived:
			continue
		}
		idx := comingUp
		switch {
		case j.WithClient:
			idx = withClient
		case j.Status == job.StatusIncoming:
			idx = comingUp
		default:
			switch days := dates.DaysUntilDue(j.Due(now.Location()), now); {
			case days <= 1:
				idx = doNow
			case days <= 5:
				idx = doSoon
			}
		}
		sections[idx].Jobs = append(sections[idx].Jobs, j)
	}
	return sortSections(sections, now)
}

// GroupWip buckets jobs by ownership: INCOMING, ON HOLD, JOBS WITH YOU and
// JOBS WITH US. Completed and Archived jobs are dropped.
func GroupWip(jobs []job.Job, now time.Time) []Section {
	sections := []Section{
		{Key: "incoming", Title: "INCOMING", Compact: true},
		{Key: "onHold", Title: "ON HOLD", Compact: true},
		{Key: "withYou", Title: "JOBS WITH YOU"},
		{Key: "withUs", Title: "JOBS WITH US"},
	}
	const (
		incoming = iota
		onHold
		withYou
		withUs
	)

	for _, j := range Eligible(jobs, AllClients) {
		var idx int
		switch {
		case j.Status == job.StatusIncoming:
			idx = incoming
		case j.Status == job.StatusOnHold:
			idx = onHold
		case j.Status == job.StatusCompleted, j.Status == job.StatusArchived:
			continue
		case j.WithClient:
			idx = withYou
		default:
			idx = withUs
		}
		sections[idx].Jobs = append(sections[idx].Jobs, j)
	}
	return sortSections(sections, now)
}

func sortSections(sections []Section, now time.Time) []Section {
	loc := now.Location()
	for i := range sections {
		if sections[i].Jobs == nil {
			sections[i].Jobs = []job.Job{}
		}
		slices.SortStableFunc(sections[i].Jobs, func(a, b job.Job) int {
			return cmp.Compare(dates.DaysUntilDue(a.Due(loc), now), dates.DaysUntilDue(b.Due(loc), now))
		})
	}
	return sections
}

// Build filters jobs to client and groups them under mode. Unknown modes use
// the todo taxonomy.
func Build(mode Mode, jobs []job.Job, client string, now time.Time) Board {
	if client == "" {
		client = AllClients
	}
	eligible := Eligible(jobs, client)
	board := Board{Mode: mode, Client: client}
	switch mode {
	case ModeWip:
		board.Sections = GroupWip(eligible, now)
	default:
		board.Mode = ModeTodo
		board.Sections = GroupTodo(eligible, now)
	}
	return board
}

// Count returns the number of jobs across every section.
func (b Board) Count() int {
	n := 0
	for _, s := range b.Sections {
		n += len(s.Jobs)
	}
	return n
}
