// Package hub holds the application state of every signed-in session: the
// shared job and tracker caches, one conversation per session, and what each
// session is looking at.
package hub

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/MGhunch/dot-hub/internal/domain/conversation"
	"github.com/MGhunch/dot-hub/internal/domain/dates"
	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/domain/session"
	"github.com/MGhunch/dot-hub/internal/domain/tracker"
	"github.com/MGhunch/dot-hub/internal/domain/wip"
	"github.com/MGhunch/dot-hub/internal/metrics"
)

// Deps wires a Hub.
type Deps struct {
	Jobs         *job.Service
	Tracker      *tracker.Service
	Sessions     *session.Service
	Intent       conversation.Intent
	Clock        clockwork.Clock
	Rand         conversation.RandomSource
	HandoffEmail string
	Logger       *slog.Logger
}

// Hub is the application-state container.
type Hub struct {
	jobs     *job.Service
	tracker  *tracker.Service
	sessions *session.Service
	intent   conversation.Intent
	clock    clockwork.Clock
	rand     conversation.RandomSource
	handoff  string
	logger   *slog.Logger

	mu     sync.Mutex
	views  map[string]*ViewState
	convos map[string]*conversation.Controller
}

// New creates a hub and registers the idle callback on the session service.
func New(d Deps) *Hub {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	h := &Hub{
		jobs:     d.Jobs,
		tracker:  d.Tracker,
		sessions: d.Sessions,
		intent:   d.Intent,
		clock:    d.Clock,
		rand:     d.Rand,
		handoff:  d.HandoffEmail,
		logger:   logger,
		views:    make(map[string]*ViewState),
		convos:   make(map[string]*conversation.Controller),
	}
	h.sessions.OnExpire(func(s session.Session) {
		go h.conversation(s).Clear(context.Background(), speaker(s.User))
	})
	return h
}

// Jobs returns the job service.
func (h *Hub) Jobs() *job.Service { return h.jobs }

// Tracker returns the tracker service.
func (h *Hub) Tracker() *tracker.Service { return h.tracker }

// Entry is where a session lands after signing in or resuming.
type Entry struct {
	Session *session.Session
	View    ViewState
	// Query is the page query with the deep-link parameters removed. It is
	// nil unless a deep link was applied.
	Query url.Values
}

// Login signs in with a PIN. Jobs and clients are loaded before it returns,
// and any deep link in query is applied once.
func (h *Hub) Login(ctx context.Context, pin string, query url.Values) (Entry, error) {
	sess, applied, err := h.sessions.SignIn(ctx, pin, session.CaptureDeepLink(query))
	switch {
	case errors.Is(err, session.ErrInvalidPIN):
		metrics.IncrementSignIn("rejected")
		return Entry{}, err
	case err != nil:
		metrics.IncrementSignIn("error")
		return Entry{}, err
	}
	metrics.IncrementSignIn("success")

	h.jobs.Load(ctx)
	return entry(sess, h.start(ctx, sess, applied), applied), nil
}

// Resume restores an existing session, for example after a reload.
func (h *Hub) Resume(ctx context.Context, id string, query url.Values) (Entry, error) {
	sess, applied, err := h.sessions.Restore(ctx, id, session.CaptureDeepLink(query))
	if err != nil {
		return Entry{}, err
	}
	if len(h.jobs.Jobs()) == 0 {
		h.jobs.Load(ctx)
	}
	h.mu.Lock()
	state, ok := h.views[id]
	h.mu.Unlock()
	if !ok {
		return entry(sess, h.start(ctx, sess, applied), applied), nil
	}
	if applied != nil {
		h.mu.Lock()
		h.applyLink(state, applied.DeepLink)
		h.mu.Unlock()
	}
	return entry(sess, h.View(id), applied), nil
}

// Session loads a session and its view state.
func (h *Hub) Session(ctx context.Context, id string) (*session.Session, ViewState, error) {
	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		return nil, ViewState{}, err
	}
	h.mu.Lock()
	_, ok := h.views[id]
	h.mu.Unlock()
	if !ok {
		h.start(ctx, sess, nil)
	}
	return sess, h.View(id), nil
}

// Logout signs out, dropping the session's view and conversation. The remote
// conversation memory is cleared in the background.
func (h *Hub) Logout(ctx context.Context, id string) error {
	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	go h.conversation(*sess).Clear(context.Background(), speaker(sess.User))

	if err := h.sessions.SignOut(ctx, id); err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.views, id)
	delete(h.convos, id)
	h.mu.Unlock()
	return nil
}

// Activity records user interaction.
func (h *Hub) Activity(ctx context.Context, id string) error {
	return h.sessions.Touch(ctx, id)
}

// Visible runs the stale check when the tab wakes up.
func (h *Hub) Visible(ctx context.Context, id string) (bool, error) {
	return h.sessions.Visible(ctx, id)
}

// Ask runs one conversation turn for the session.
func (h *Hub) Ask(ctx context.Context, id, question string) (conversation.Turn, error) {
	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		return conversation.Turn{}, err
	}
	turn, err := h.conversation(*sess).Ask(ctx, speaker(sess.User), question)
	if err != nil {
		return turn, err
	}
	metrics.IncrementTurn(string(turn.Type))
	return turn, nil
}

// Thinking reports whether the session has a question pending.
func (h *Hub) Thinking(id string) bool {
	h.mu.Lock()
	c, ok := h.convos[id]
	h.mu.Unlock()
	return ok && c.Thinking()
}

// View returns a copy of the session's view state.
func (h *Hub) View(id string) ViewState {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.views[id]; ok {
		return *v
	}
	return h.defaultView()
}

// Navigate switches the active view.
func (h *Hub) Navigate(id string, view session.View) error {
	if !view.Valid() {
		return ErrUnknownView
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state(id).View = view
	return nil
}

// SetWipClient changes the board filter and, when mode is set, the taxonomy.
func (h *Hub) SetWipClient(id, client string, mode wip.Mode) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.state(id)
	if client != "" {
		s.WipClient = client
	}
	if mode != "" {
		s.WipMode = mode
	}
}

// SetTracker changes the tracker selection. A picked client is remembered for
// the next session of the same user.
func (h *Hub) SetTracker(ctx context.Context, id, client, month string, quarter *bool) error {
	if month != "" {
		resolved, ok := h.resolveMonth(month)
		if !ok {
			return ErrUnknownMonth
		}
		month = resolved
	}
	h.mu.Lock()
	s := h.state(id)
	if client != "" {
		s.TrackerClient = client
	}
	if month != "" {
		s.Month = month
	}
	if quarter != nil {
		s.Quarter = *quarter
	}
	h.mu.Unlock()

	if client == "" {
		return nil
	}
	sess, err := h.sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	return h.tracker.Remember(ctx, sess.User.Name, client)
}

// Update applies a partial view change.
func (h *Hub) Update(ctx context.Context, id string, u ViewUpdate) (ViewState, error) {
	if u.View != nil {
		if err := h.Navigate(id, *u.View); err != nil {
			return ViewState{}, err
		}
	}
	if u.WipClient != nil || u.WipMode != nil {
		var client string
		var mode wip.Mode
		if u.WipClient != nil {
			client = *u.WipClient
		}
		if u.WipMode != nil {
			mode = *u.WipMode
		}
		h.SetWipClient(id, client, mode)
	}
	if u.TrackerClient != nil || u.Month != nil || u.Quarter != nil {
		var client, month string
		if u.TrackerClient != nil {
			client = *u.TrackerClient
		}
		if u.Month != nil {
			month = *u.Month
		}
		if err := h.SetTracker(ctx, id, client, month, u.Quarter); err != nil {
			return ViewState{}, err
		}
	}
	return h.View(id), nil
}

// ApplyDeepLink seeds the view state from a deep link.
func (h *Hub) ApplyDeepLink(id string, link session.DeepLink) ViewState {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.state(id)
	h.applyLink(s, link)
	return *s
}

// Redirect is the conversation navigator for one session. A redirect that
// lands after the session signed out is dropped.
func (h *Hub) Redirect(id, view, client string) {
	v := session.View(strings.ToLower(view))
	if !v.Valid() {
		h.logger.Warn("redirect to unknown view", "session_id", id, "view", view)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.views[id]
	if !ok {
		h.logger.Debug("redirect for signed-out session", "session_id", id)
		return
	}
	s.View = v
	if client == "" {
		return
	}
	switch v {
	case session.ViewWip:
		s.WipClient = client
	case session.ViewTracker:
		s.TrackerClient = client
	}
}

// WipBoard builds the board the session is looking at.
func (h *Hub) WipBoard(id string) wip.Board {
	v := h.View(id)
	return wip.Build(v.WipMode, h.jobs.Jobs(), v.WipClient, h.clock.Now())
}

// TrackerDashboard builds the tracker view the session is looking at.
func (h *Hub) TrackerDashboard(ctx context.Context, id string) (tracker.Dashboard, error) {
	v := h.View(id)
	client := v.TrackerClient
	if client == "" {
		sess, err := h.sessions.Get(ctx, id)
		if err != nil {
			return tracker.Dashboard{}, err
		}
		client = h.tracker.DefaultClient(ctx, sess.User.Name, h.tracker.Clients(ctx))
	}
	return h.tracker.Dashboard(ctx, client, tracker.View{Month: v.Month, Quarter: v.Quarter})
}

// Close stops every session timer.
func (h *Hub) Close() {
	h.sessions.Close()
}

func (h *Hub) start(ctx context.Context, sess *session.Session, link *session.Applied) ViewState {
	state := h.defaultView()
	if !sess.User.AllClients() {
		state.WipClient = sess.User.Client
	}
	if link == nil || link.Client == "" {
		state.TrackerClient = h.tracker.DefaultClient(ctx, sess.User.Name, h.tracker.Clients(ctx))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.views[sess.ID] = &state
	if link != nil {
		h.applyLink(&state, link.DeepLink)
	}
	return state
}

func entry(sess *session.Session, view ViewState, applied *session.Applied) Entry {
	e := Entry{Session: sess, View: view}
	if applied != nil {
		e.Query = applied.Query
	}
	return e
}

func (h *Hub) applyLink(s *ViewState, link session.DeepLink) {
	if link.View != "" {
		s.View = link.View
	}
	if link.Client != "" {
		switch s.View {
		case session.ViewTracker:
			s.TrackerClient = link.Client
		default:
			s.WipClient = link.Client
			s.TrackerClient = link.Client
		}
	}
	if link.Month != "" {
		if m, ok := h.resolveMonth(link.Month); ok {
			s.Month = m
		}
	}
	if link.Quarter {
		s.Quarter = true
	}
}

func (h *Hub) resolveMonth(month string) (string, bool) {
	if strings.EqualFold(month, session.CurrentMonth) {
		return h.clock.Now().Month().String(), true
	}
	m, ok := dates.ParseMonth(month)
	if !ok {
		return "", false
	}
	return m.String(), true
}

func (h *Hub) defaultView() ViewState {
	return ViewState{
		View:      session.ViewHome,
		WipMode:   wip.ModeTodo,
		WipClient: wip.AllClients,
		Month:     h.clock.Now().Month().String(),
	}
}

// state returns the session's view state, creating it if needed. The caller
// holds h.mu.
func (h *Hub) state(id string) *ViewState {
	s, ok := h.views[id]
	if !ok {
		v := h.defaultView()
		s = &v
		h.views[id] = s
	}
	return s
}

func (h *Hub) conversation(sess session.Session) *conversation.Controller {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.convos[sess.ID]; ok {
		return c
	}
	id := sess.ID
	c := conversation.NewController(conversation.Config{
		Intent:       h.intent,
		Jobs:         h.jobs,
		Budgets:      h.tracker,
		Navigator:    navigator{hub: h, id: id},
		Clock:        h.clock,
		Rand:         h.rand,
		HandoffEmail: h.handoff,
		Logger:       h.logger,
		Touch: func() {
			if err := h.sessions.Touch(context.Background(), id); err != nil {
				h.logger.Debug("touching session failed", "session_id", id, "error", err)
			}
		},
	})
	h.convos[id] = c
	return c
}

type navigator struct {
	hub *Hub
	id  string
}

func (n navigator) Redirect(view, client string) {
	n.hub.Redirect(n.id, view, client)
}

func speaker(u session.User) conversation.Speaker {
	return conversation.Speaker{Name: u.Name, FullName: u.FullName, Email: u.Email}
}
