package conversation_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func day(offset int) string {
	return now.AddDate(0, 0, offset).Format("2006-01-02")
}

type budgetStub struct {
	summary tracker.Summary
	err     error
	period  string
}

func (b *budgetStub) PeriodSummary(ctx context.Context, code, period string) (tracker.Summary, error) {
	b.period = period
	return b.summary, b.err
}

func newJobs(jobs ...job.Job) *job.Service {
	store := job.NewStore()
	store.Replace(jobs)
	store.SetClients([]job.Client{
		{Code: "SKY", Name: "Sky"},
		{Code: "TOW", Name: "Tower"},
	})
	return job.NewService(nil, store, nil).WithClock(func() time.Time { return now })
}

func askLegacy(t *testing.T, cfg conversation.Config, body string) conversation.Turn {
	t.Helper()
	cfg.Intent = &intentStub{body: body}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewFakeClockAt(now)
	}
	turn, err := conversation.NewController(cfg).Ask(context.Background(), michael, "question")
	require.NoError(t, err)
	return turn
}

func TestLegacy_Due(t *testing.T) {
	jobs := newJobs(
		job.Job{JobNumber: "SKY 002", JobName: "Later", ClientCode: "SKY", Status: job.StatusInProgress, UpdateDue: day(1)},
		job.Job{JobNumber: "SKY 001", JobName: "Now", ClientCode: "SKY", Status: job.StatusInProgress, UpdateDue: day(0)},
		job.Job{JobNumber: "TOW 001", JobName: "Far", ClientCode: "TOW", Status: job.StatusInProgress, UpdateDue: day(10)},
	)
	cfg := conversation.Config{Jobs: jobs}

	turn := askLegacy(t, cfg, `{"coreRequest":"DUE","modifiers":{"dateRange":"today"}}`)
	require.Equal(t, "1 job due today:", turn.Message)
	require.Len(t, turn.Jobs, 1)

	turn = askLegacy(t, cfg, `{"coreRequest":"DUE","modifiers":{"client":"SKY","dateRange":"tomorrow"}}`)
	require.Equal(t, "2 jobs due by tomorrow for Sky:", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"DUE","modifiers":{"client":"TOW","dateRange":"week"}}`)
	require.Equal(t, "Nothing due this week for Tower! 🎉", turn.Message)
	require.Empty(t, turn.Jobs)

	turn = askLegacy(t, cfg, `{"coreRequest":"DUE","modifiers":{"dateRange":"next"},"nextPrompt":"And after?"}`)
	require.Equal(t, "Next up is SKY 001 | Now, due Today.", turn.Message)
	require.Equal(t, []string{"SKY 001"}, []string{turn.Jobs[0].JobNumber})
	require.Equal(t, "And after?", turn.NextPrompt)

	turn = askLegacy(t, cfg, `{"coreRequest":"DUE","responseText":"Custom","modifiers":{}}`)
	require.Equal(t, "Custom", turn.Message)
	require.Len(t, turn.Jobs, 3)
}

func TestLegacy_FindSearchCapsCards(t *testing.T) {
	var all []job.Job
	for i := 1; i <= 7; i++ {
		all = append(all, job.Job{JobNumber: fmt.Sprintf("SKY %03d", i), JobName: "Banner refresh", ClientCode: "SKY", Status: job.StatusInProgress})
	}
	cfg := conversation.Config{Jobs: newJobs(all...)}

	turn := askLegacy(t, cfg, `{"coreRequest":"FIND","searchTerms":["banner"],"modifiers":{}}`)
	require.Equal(t, "Found 7 jobs that might match:", turn.Message)
	require.Len(t, turn.Jobs, conversation.MaxSearchCards)

	turn = askLegacy(t, cfg, `{"coreRequest":"FIND","searchTerms":["sky 004"],"modifiers":{}}`)
	require.Equal(t, "Found it! SKY 004 | Banner refresh", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"FIND","searchTerms":["zebra"],"modifiers":{"client":"SKY"}}`)
	require.Equal(t, "Couldn't find a Sky job matching that.", turn.Message)
}

func TestLegacy_FindListings(t *testing.T) {
	jobs := newJobs(
		job.Job{JobNumber: "SKY 001", ClientCode: "SKY", Status: job.StatusOnHold},
		job.Job{JobNumber: "SKY 002", ClientCode: "SKY", Status: job.StatusInProgress, WithClient: true},
		job.Job{JobNumber: "TOW 001", ClientCode: "TOW", Status: job.StatusInProgress},
	)
	cfg := conversation.Config{Jobs: jobs}

	turn := askLegacy(t, cfg, `{"coreRequest":"FIND","modifiers":{"status":"On Hold"}}`)
	require.Equal(t, "1 job on hold:", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"FIND","modifiers":{"withClient":true,"client":"TOW"}}`)
	require.Equal(t, "No with client jobs for Tower.", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"FIND","modifiers":{"client":"SKY"}}`)
	require.Equal(t, "Here's what's on for Sky:", turn.Message)
	require.Len(t, turn.Jobs, 1)

	turn = askLegacy(t, cfg, `{"coreRequest":"FIND","modifiers":{},"nextPrompt":"x"}`)
	require.Equal(t, "Which client?", turn.Message)
	require.Empty(t, turn.NextPrompt)
	require.Len(t, turn.Clients, 2)
	require.Equal(t, "SKY", turn.Clients[0].Code, "key clients first")
}

func TestLegacy_TextReplies(t *testing.T) {
	cfg := conversation.Config{Jobs: newJobs()}

	turn := askLegacy(t, cfg, `{"coreRequest":"CLARIFY","modifiers":{}}`)
	require.Equal(t, conversation.KindClarify, turn.Type)
	require.Equal(t, "Remind me, which client?", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"FIND","understood":false,"modifiers":{}}`)
	require.Equal(t, "That's outside my wheelhouse. I just do Hunch stuff!", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"UPDATE","modifiers":{"client":"SKY"}}`)
	require.Equal(t, "Which Sky job do you want to update?", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"QUERY","modifiers":{}}`)
	require.Equal(t, "I can look that up! (This feature is coming soon)", turn.Message)

	turn = askLegacy(t, cfg, `{"coreRequest":"HELP","modifiers":{}}`)
	require.Contains(t, turn.Message, "I'm Dot, Hunch's admin-bot!")
	require.Equal(t, "What's most urgent?", turn.NextPrompt)

	turn = askLegacy(t, cfg, `{"coreRequest":"HANDOFF","handoffQuestion":"Can I get a raise?","modifiers":{}}`)
	require.Equal(t, "That's a question for a human...", turn.Message)
	require.Equal(t, "Can I get a raise?", turn.Handoff.Question)

	turn = askLegacy(t, conversation.Config{HandoffEmail: "ops@hunch.co.nz"}, `{"coreRequest":"HANDOFF","modifiers":{}}`)
	require.Equal(t, "question", turn.Handoff.Question)
	require.Equal(t, "ops@hunch.co.nz", turn.Handoff.To)
}

func TestLegacy_Tracker(t *testing.T) {
	budgets := &budgetStub{summary: tracker.Summary{
		ClientName: "Sky", Period: "February", Spend: 12500, Remaining: 2500, Level: tracker.LevelHigh, PercentUsed: 83,
	}}
	cfg := conversation.Config{Jobs: newJobs(), Budgets: budgets}

	turn := askLegacy(t, cfg, `{"coreRequest":"TRACKER","modifiers":{"client":"SKY"}}`)
	require.Equal(t, "Sky's February: $12.5K spent, $2.5K left (83% used)", turn.Message)
	require.Equal(t, "Open full tracker?", turn.NextPrompt)
	require.Equal(t, "this_month", budgets.period)

	budgets.summary = tracker.Summary{ClientName: "Sky", Period: "Q3 (Jan–Mar)", Spend: 31000, Remaining: -1000, Level: tracker.LevelOver}
	turn = askLegacy(t, cfg, `{"coreRequest":"TRACKER","modifiers":{"client":"SKY","period":"this_quarter"}}`)
	require.Equal(t, "Sky's Q3 (Jan–Mar): $31K spent, $1K over budget! 😬", turn.Message)
	require.Equal(t, "this_quarter", budgets.period)

	budgets.summary = tracker.Summary{ClientName: "Sky", Period: "February", Spend: 500, Remaining: 9500, Level: tracker.LevelOK}
	turn = askLegacy(t, cfg, `{"coreRequest":"TRACKER","modifiers":{"client":"SKY"}}`)
	require.Equal(t, "Sky's February: $500 spent, $9.5K still to play with 👍", turn.Message)

	budgets.err = errors.New("down")
	turn = askLegacy(t, cfg, `{"coreRequest":"TRACKER","modifiers":{"client":"SKY"}}`)
	require.Equal(t, "Hmm, couldn't pull those numbers. Try opening the tracker?", turn.Message)
	require.Equal(t, "Open Tracker", turn.NextPrompt)
}

func TestLegacy_TrackerWithoutClientOpensTracker(t *testing.T) {
	clk := clockwork.NewFakeClockAt(now)
	nav := &navRecorder{}
	turn := askLegacy(t, conversation.Config{Clock: clk, Navigator: nav}, `{"coreRequest":"TRACKER","modifiers":{}}`)
	require.Equal(t, "Opening Tracker...", turn.Message)

	clk.Advance(500 * time.Millisecond)
	waitForRedirect(t, nav, 1)
	views, _ := nav.seen()
	require.Equal(t, []string{"tracker"}, views)
}
