package hub_test

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/MGhunch/dot-hub/internal/domain/wip"
	"github.com/MGhunch/dot-hub/internal/hub"
	"github.com/MGhunch/dot-hub/internal/sqlite"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

type backend struct {
	jobs    []job.Job
	clients []job.Client
}

func (b *backend) Clients(ctx context.Context) ([]job.Client, error) { return b.clients, nil }
func (b *backend) Jobs(ctx context.Context) ([]job.Job, error)       { return b.jobs, nil }
func (b *backend) UpdateJob(ctx context.Context, jobNumber string, patch job.Patch) error {
	return nil
}
func (b *backend) AppendNote(ctx context.Context, note job.Note) error { return nil }
func (b *backend) People(ctx context.Context, clientCode string) ([]job.Person, error) {
	return nil, nil
}
func (b *backend) TrackerClients(ctx context.Context) ([]job.Client, error) { return b.clients, nil }
func (b *backend) TrackerData(ctx context.Context, clientCode string) ([]tracker.LineItem, error) {
	return []tracker.LineItem{}, nil
}
func (b *backend) UpdateTrackerItem(ctx context.Context, id string, patch tracker.Patch) error {
	return nil
}

type intent struct {
	mu      sync.Mutex
	body    string
	cleared []string
}

func (i *intent) Ask(ctx context.Context, req conversation.Request) ([]byte, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return []byte(i.body), nil
}

func (i *intent) Clear(ctx context.Context, sessionID string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.cleared = append(i.cleared, sessionID)
	return nil
}

func (i *intent) clears() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]string(nil), i.cleared...)
}

type fixture struct {
	hub    *hub.Hub
	clock  *clockwork.FakeClock
	intent *intent
	prefs  *sqlite.PreferenceRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	clk := clockwork.NewFakeClockAt(now)
	be := &backend{
		clients: []job.Client{{Code: "SKY", Name: "Sky"}, {Code: "TOW", Name: "Tower"}},
		jobs: []job.Job{
			{JobNumber: "SKY 001", JobName: "Launch", ClientCode: "SKY", Status: job.StatusInProgress, UpdateDue: "2026-03-04"},
			{JobNumber: "TOW 001", JobName: "Renewal", ClientCode: "TOW", Status: job.StatusInProgress, UpdateDue: "2026-03-05"},
			{JobNumber: "TOW 999", JobName: "Placeholder", ClientCode: "TOW", Status: job.StatusInProgress},
		},
	}
	prefs := sqlite.NewPreferenceRepository(db)
	in := &intent{}
	h := hub.New(hub.Deps{
		Jobs:     job.NewService(be, job.NewStore(), nil).WithClock(clk.Now),
		Tracker:  tracker.NewService(be, prefs, "", nil).WithClock(clk.Now),
		Sessions: session.NewService(sqlite.NewSessionRepository(db), clk, session.DefaultInactivityTimeout, nil),
		Intent:   in,
		Clock:    clk,
	})
	t.Cleanup(h.Close)
	return &fixture{hub: h, clock: clk, intent: in, prefs: prefs}
}

func TestLogin_DefaultView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.hub.Login(ctx, "9871", nil)
	require.NoError(t, err)
	require.Equal(t, "Michael", e.Session.User.Name)
	require.Equal(t, hub.ViewState{
		View:          session.ViewHome,
		WipMode:       wip.ModeTodo,
		WipClient:     wip.AllClients,
		TrackerClient: "SKY",
		Month:         "March",
	}, e.View)
	require.Nil(t, e.Query)
	require.Len(t, f.hub.Jobs().Jobs(), 3)
}

func TestLogin_BadPIN(t *testing.T) {
	f := newFixture(t)
	_, err := f.hub.Login(context.Background(), "1234", nil)
	require.ErrorIs(t, err, session.ErrInvalidPIN)
}

func TestLogin_DeepLink(t *testing.T) {
	f := newFixture(t)
	q := url.Values{"view": {"tracker"}, "client": {"tow"}, "month": {"current"}, "quarter": {"true"}, "ref": {"mail"}}

	e, err := f.hub.Login(context.Background(), "1919", q)
	require.NoError(t, err)
	require.Equal(t, session.ViewTracker, e.View.View)
	require.Equal(t, "TOW", e.View.TrackerClient)
	require.Equal(t, "March", e.View.Month)
	require.True(t, e.View.Quarter)
	require.Equal(t, url.Values{"ref": {"mail"}}, e.Query)

	// The link is one-shot; a reload without it keeps the state.
	e, err = f.hub.Resume(context.Background(), e.Session.ID, nil)
	require.NoError(t, err)
	require.Equal(t, "TOW", e.View.TrackerClient)
	require.Nil(t, e.Query)
}

func TestSetTracker_RemembersClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.hub.Login(ctx, "9871", nil)
	require.NoError(t, err)
	sess := e.Session

	require.NoError(t, f.hub.SetTracker(ctx, sess.ID, "TOW", "feb", nil))
	view := f.hub.View(sess.ID)
	require.Equal(t, "TOW", view.TrackerClient)
	require.Equal(t, "February", view.Month)

	require.ErrorIs(t, f.hub.SetTracker(ctx, sess.ID, "", "Smarch", nil), hub.ErrUnknownMonth)

	// A fresh sign-in starts on the remembered client.
	e, err = f.hub.Login(ctx, "9871", nil)
	require.NoError(t, err)
	require.Equal(t, "TOW", e.View.TrackerClient)

	dash, err := f.hub.TrackerDashboard(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, "Tower", dash.Client.Name)
	require.Equal(t, "February", dash.View.Month)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.hub.Login(ctx, "9871", nil)
	require.NoError(t, err)
	sess := e.Session

	view, client, mode := session.ViewWip, "TOW", wip.ModeWip
	state, err := f.hub.Update(ctx, sess.ID, hub.ViewUpdate{View: &view, WipClient: &client, WipMode: &mode})
	require.NoError(t, err)
	require.Equal(t, session.ViewWip, state.View)
	require.Equal(t, "TOW", state.WipClient)
	require.Equal(t, wip.ModeWip, state.WipMode)

	board := f.hub.WipBoard(sess.ID)
	require.Equal(t, 1, board.Count())

	bad := session.View("settings")
	_, err = f.hub.Update(ctx, sess.ID, hub.ViewUpdate{View: &bad})
	require.ErrorIs(t, err, hub.ErrUnknownView)
}

func TestAsk_RedirectMovesView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.hub.Login(ctx, "9871", nil)
	require.NoError(t, err)
	sess := e.Session

	f.intent.body = `{"type":"redirect","message":"Opening WIP","redirectTo":"wip","redirectParams":{"client":"SKY"}}`
	turn, err := f.hub.Ask(ctx, sess.ID, "show me sky wip")
	require.NoError(t, err)
	require.Equal(t, conversation.KindRedirect, turn.Type)
	require.Equal(t, session.ViewHome, f.hub.View(sess.ID).View)

	f.clock.Advance(conversation.RedirectDelay)
	require.Eventually(t, func() bool {
		return f.hub.View(sess.ID).View == session.ViewWip
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "SKY", f.hub.View(sess.ID).WipClient)
	require.False(t, f.hub.Thinking(sess.ID))
}

func TestAsk_UnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.hub.Ask(context.Background(), "missing", "hello")
	require.ErrorIs(t, err, session.ErrSessionNotFound)
}

func TestLogout_ClearsConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.hub.Login(ctx, "9871", nil)
	require.NoError(t, err)
	sess := e.Session

	require.NoError(t, f.hub.Logout(ctx, sess.ID))
	require.Eventually(t, func() bool {
		return len(f.intent.clears()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"Michael"}, f.intent.clears())

	_, _, err = f.hub.Session(ctx, sess.ID)
	require.ErrorIs(t, err, session.ErrSessionNotFound)
	require.ErrorIs(t, f.hub.Logout(ctx, sess.ID), session.ErrSessionNotFound)
}

func TestIdle_ClearsConversationOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.hub.Login(ctx, "1919", nil)
	require.NoError(t, err)
	sess := e.Session

	f.clock.Advance(session.DefaultInactivityTimeout + time.Second)
	require.Eventually(t, func() bool {
		return len(f.intent.clears()) == 1
	}, time.Second, 5*time.Millisecond)

	got, _, err := f.hub.Session(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, "Team", got.User.Name)
}

func TestRedirect_AfterLogoutIsDropped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e, err := f.hub.Login(ctx, "9871", nil)
	require.NoError(t, err)
	sess := e.Session

	f.intent.body = `{"type":"redirect","message":"Opening Tracker","redirectTo":"tracker","redirectParams":{"client":"TOW"}}`
	_, err = f.hub.Ask(ctx, sess.ID, "open the tracker")
	require.NoError(t, err)
	require.NoError(t, f.hub.Logout(ctx, sess.ID))

	f.hub.Redirect(sess.ID, "tracker", "TOW")
	f.clock.Advance(conversation.RedirectDelay)

	// A signed-out session has no view state; View falls back to the default.
	require.Never(t, func() bool {
		return f.hub.View(sess.ID).TrackerClient == "TOW"
	}, 50*time.Millisecond, 5*time.Millisecond)
	require.Equal(t, session.ViewHome, f.hub.View(sess.ID).View)
}
