package conversation

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/dates"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
)

// Legacy core requests.
const (
	RequestClarify = "CLARIFY"
	RequestHandoff = "HANDOFF"
	RequestUnknown = "UNKNOWN"
	RequestDue     = "DUE"
	RequestFind    = "FIND"
	RequestUpdate  = "UPDATE"
	RequestTracker = "TRACKER"
	RequestQuery   = "QUERY"
	RequestHelp    = "HELP"
)

// MaxSearchCards caps the job cards a legacy search shows.
const MaxSearchCards = 5

const openTrackerDelay = 500 * time.Millisecond

const helpMessage = "I'm Dot, Hunch's admin-bot! I can help you:\n\n" +
	"• Check on jobs and client work\n" +
	"• See what's due or coming up\n" +
	"• Find contact info\n" +
	"• Look up budget and spend\n\n" +
	"Try asking about a client or what's due!"

var dueLabels = map[job.DateRange]string{
	job.RangeToday:    "today",
	job.RangeTomorrow: "by tomorrow",
	job.RangeWeek:     "this week",
}

func (c *Controller) runLegacy(ctx context.Context, question string, l Legacy) Turn {
	t := Turn{Question: question, Type: KindAnswer, NextPrompt: l.NextPrompt}

	switch {
	case l.CoreRequest == RequestClarify:
		t.Type = KindClarify
		t.Message = or(l.ResponseText, "Remind me, which client?")
		return t
	case l.CoreRequest == RequestHandoff:
		h := NewHandoff(c.cfg.HandoffEmail, or(l.HandoffQuestion, question))
		t.Message = or(l.ResponseText, "That's a question for a human...")
		t.Handoff = &h
		return t
	case l.Understood != nil && !*l.Understood, l.CoreRequest == RequestUnknown:
		t.Message = or(l.ResponseText, "That's outside my wheelhouse. I just do Hunch stuff!")
		return t
	}

	switch l.CoreRequest {
	case RequestDue:
		c.legacyDue(&t, l)
	case RequestFind:
		c.legacyFind(&t, l)
	case RequestUpdate:
		c.legacyUpdate(&t, l)
	case RequestTracker:
		c.legacyTracker(ctx, &t, l)
	case RequestQuery:
		t.Message = or(l.ResponseText, "I can look that up! (This feature is coming soon)")
	default:
		t.Message = or(l.ResponseText, helpMessage)
		t.NextPrompt = or(l.NextPrompt, "What's most urgent?")
	}
	return t
}

func (c *Controller) legacyDue(t *Turn, l Legacy) {
	jobs := c.filter(l.Modifiers, false)
	name, hasClient := c.clientName(l.Modifiers.Client)
	now := c.cfg.Clock.Now()

	if l.Modifiers.DateRange == job.RangeNext {
		if len(jobs) == 0 {
			msg := "No upcoming deadlines."
			if hasClient {
				msg = fmt.Sprintf("No upcoming deadlines for %s.", name)
			}
			t.Message = or(l.ResponseText, msg)
			return
		}
		next := jobs[0]
		due := dates.DueDateLabel(next.Due(now.Location()), now)
		t.Message = or(l.ResponseText, fmt.Sprintf("Next up is %s | %s, due %s.", next.JobNumber, next.JobName, due))
		t.Jobs = []job.Job{next}
		return
	}

	label, ok := dueLabels[l.Modifiers.DateRange]
	if !ok {
		label = "coming up"
	}
	var msg string
	switch {
	case len(jobs) == 0 && hasClient:
		msg = fmt.Sprintf("Nothing due %s for %s! 🎉", label, name)
	case len(jobs) == 0:
		msg = fmt.Sprintf("Nothing due %s! 🎉", label)
	case hasClient:
		msg = fmt.Sprintf("%s due %s for %s:", countJobs(len(jobs)), label, name)
	default:
		msg = fmt.Sprintf("%s due %s:", countJobs(len(jobs)), label)
	}
	t.Message = or(l.ResponseText, msg)
	t.Jobs = jobs
}

func (c *Controller) legacyFind(t *Turn, l Legacy) {
	mods := l.Modifiers
	name, hasClient := c.clientName(mods.Client)

	if len(l.SearchTerms) > 0 {
		var jobs []job.Job
		if c.cfg.Jobs != nil {
			jobs = c.cfg.Jobs.Search(mods, l.SearchTerms)
		}
		switch {
		case len(jobs) == 0 && hasClient:
			t.Message = or(l.ResponseText, fmt.Sprintf("Couldn't find a %s job matching that.", name))
		case len(jobs) == 0:
			t.Message = or(l.ResponseText, "Couldn't find a job matching that.")
		case len(jobs) == 1:
			t.Message = or(l.ResponseText, fmt.Sprintf("Found it! %s | %s", jobs[0].JobNumber, jobs[0].JobName))
			t.Jobs = jobs
		default:
			t.Message = or(l.ResponseText, fmt.Sprintf("Found %d jobs that might match:", len(jobs)))
			t.Jobs = jobs[:min(len(jobs), MaxSearchCards)]
		}
		return
	}

	withClient := mods.WithClient != nil && *mods.WithClient
	if withClient || mods.Status == job.StatusOnHold || mods.Status == job.StatusCompleted {
		jobs := c.filter(mods, false)
		label := strings.ToLower(string(mods.Status))
		if withClient {
			label = "with client"
		}
		var msg string
		switch {
		case len(jobs) == 0 && hasClient:
			msg = fmt.Sprintf("No %s jobs for %s.", label, name)
		case len(jobs) == 0:
			msg = fmt.Sprintf("No jobs %s right now.", label)
		case hasClient:
			msg = fmt.Sprintf("%d %s job%s for %s:", len(jobs), label, plural(len(jobs)), name)
		default:
			msg = fmt.Sprintf("%s %s:", countJobs(len(jobs)), label)
		}
		t.Message = or(l.ResponseText, msg)
		t.Jobs = jobs
		return
	}

	if hasClient {
		jobs := c.filter(mods, false)
		if len(jobs) == 0 {
			t.Message = or(l.ResponseText, fmt.Sprintf("No active jobs for %s.", name))
			return
		}
		t.Message = or(l.ResponseText, fmt.Sprintf("Here's what's on for %s:", name))
		t.Jobs = jobs
		return
	}

	t.Message = "Which client?"
	t.NextPrompt = ""
	if c.cfg.Jobs != nil {
		t.Clients = c.cfg.Jobs.ClientCounts()
	}
}

func (c *Controller) legacyUpdate(t *Turn, l Legacy) {
	if l.Modifiers.Client == "" {
		t.Message = or(l.ResponseText, "Which job do you want to update? Tell me the client and I'll help you find it.")
		return
	}
	name, _ := c.clientName(l.Modifiers.Client)
	t.Message = or(l.ResponseText, fmt.Sprintf("Which %s job do you want to update?", name))
}

func (c *Controller) legacyTracker(ctx context.Context, t *Turn, l Legacy) {
	code := l.Modifiers.Client
	if code == "" {
		t.Message = or(l.ResponseText, "Opening Tracker...")
		t.NextPrompt = ""
		t.Redirect = c.scheduleRedirect("tracker", "", openTrackerDelay)
		return
	}
	period := or(l.Modifiers.Period, "this_month")

	if c.cfg.Budgets == nil {
		t.Message = "Hmm, couldn't pull those numbers. Try opening the tracker?"
		t.NextPrompt = "Open Tracker"
		return
	}
	s, err := c.cfg.Budgets.PeriodSummary(ctx, code, period)
	if err != nil {
		c.logger.Warn("budget summary failed", "client", code, "period", period, "error", err)
		t.Message = "Hmm, couldn't pull those numbers. Try opening the tracker?"
		t.NextPrompt = "Open Tracker"
		return
	}

	spent := tracker.FormatShortMoney(s.Spend)
	remaining := tracker.FormatShortMoney(math.Abs(s.Remaining))
	switch s.Level {
	case tracker.LevelOver:
		t.Message = fmt.Sprintf("%s's %s: %s spent, %s over budget! 😬", s.ClientName, s.Period, spent, remaining)
	case tracker.LevelHigh:
		t.Message = fmt.Sprintf("%s's %s: %s spent, %s left (%d%% used)", s.ClientName, s.Period, spent, remaining, s.PercentUsed)
	default:
		t.Message = fmt.Sprintf("%s's %s: %s spent, %s still to play with 👍", s.ClientName, s.Period, spent, remaining)
	}
	t.NextPrompt = or(l.NextPrompt, "Open full tracker?")
}

func (c *Controller) filter(mods job.Modifiers, includeAll bool) []job.Job {
	if c.cfg.Jobs == nil {
		return nil
	}
	return c.cfg.Jobs.Filter(mods, includeAll)
}

// clientName resolves a client code to its display name. Unknown codes are
// echoed back and reported as not found.
func (c *Controller) clientName(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	if c.cfg.Jobs != nil {
		if cl, ok := job.FindClient(c.cfg.Jobs.Clients(), code); ok {
			return job.DisplayName(cl), true
		}
	}
	return code, false
}

func countJobs(n int) string {
	return fmt.Sprintf("%d job%s", n, plural(n))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func or(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
