package conversation

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Config wires a Controller. Intent is required; the rest may be left zero.
type Config struct {
	Intent    Intent
	Jobs      Jobs
	Budgets   Budgets
	Navigator Navigator
	Clock     clockwork.Clock
	Rand      RandomSource
	// Touch is called at the start of every turn to reset the idle timer.
	Touch         func()
	HandoffEmail  string
	RedirectDelay time.Duration
	Logger        *slog.Logger
}

// Controller runs the question and answer turns of one session.
type Controller struct {
	cfg      Config
	logger   *slog.Logger
	thinking atomic.Bool
}

// NewController creates a controller.
func NewController(cfg Config) *Controller {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = RedirectDelay
	}
	if cfg.HandoffEmail == "" {
		cfg.HandoffEmail = DefaultHandoffEmail
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{cfg: cfg, logger: logger}
}

// Thinking reports whether a question is waiting on the intent service.
func (c *Controller) Thinking() bool {
	return c.thinking.Load()
}

// Ask sends one question and turns the reply into something to show. Only
// one question may be pending at a time. Failures talking to the intent
// service become an apology turn, never an error.
func (c *Controller) Ask(ctx context.Context, sp Speaker, question string) (Turn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Turn{}, ErrEmptyQuestion
	}
	if !c.thinking.CompareAndSwap(false, true) {
		return Turn{}, ErrTurnInProgress
	}

	reply, ok := func() (Reply, bool) {
		defer c.thinking.Store(false)
		return c.send(ctx, sp, question)
	}()

	if !ok {
		return c.apology(question), nil
	}
	switch {
	case reply.Envelope != nil:
		return c.dispatch(question, *reply.Envelope), nil
	case reply.Legacy != nil:
		return c.runLegacy(ctx, question, *reply.Legacy), nil
	default:
		return c.apology(question), nil
	}
}

func (c *Controller) send(ctx context.Context, sp Speaker, question string) (Reply, bool) {
	if c.cfg.Touch != nil {
		c.cfg.Touch()
	}

	body, err := c.cfg.Intent.Ask(ctx, NewRequest(sp, question))
	if err != nil {
		c.logger.Warn("intent service failed", "session_id", sp.SessionID(), "error", err)
		return Reply{}, false
	}
	reply, err := Decode(body)
	if err != nil {
		c.logger.Warn("intent reply unreadable", "session_id", sp.SessionID(), "error", err)
		return Reply{}, false
	}
	return reply, true
}

// Clear drops the remote conversation memory for the speaker. Failures are
// logged and otherwise ignored.
func (c *Controller) Clear(ctx context.Context, sp Speaker) {
	if err := c.cfg.Intent.Clear(ctx, sp.SessionID()); err != nil {
		c.logger.Debug("clearing conversation failed", "session_id", sp.SessionID(), "error", err)
	}
}

func (c *Controller) apology(question string) Turn {
	return Turn{
		Question:   question,
		Type:       KindError,
		Message:    PickMessage(Apologies, c.cfg.Rand),
		NextPrompt: RetryPrompt,
	}
}

func (c *Controller) dispatch(question string, e Envelope) Turn {
	t := Turn{Question: question, Type: e.Type, Message: e.Message}
	switch e.Type {
	case KindAnswer:
		t.Jobs = e.Jobs
		t.NextPrompt = e.NextPrompt
	case KindAction:
		t.NextPrompt = e.NextPrompt
	case KindConfirm:
		t.Jobs = e.Jobs
		t.Pickable = true
	case KindClarify:
	case KindRedirect:
		if e.RedirectTo != "" {
			var client string
			if e.RedirectParams != nil {
				client = e.RedirectParams.Client
			}
			t.Redirect = c.scheduleRedirect(e.RedirectTo, client, c.cfg.RedirectDelay)
		}
	case KindError:
		if t.Message == "" {
			t.Message = muddleMessage
		}
		t.NextPrompt = RetryPrompt
	default:
		t.Type = KindAnswer
		if t.Message == "" {
			t.Message = unknownMessage
		}
		t.Jobs = e.Jobs
		t.NextPrompt = e.NextPrompt
	}
	return t
}

func (c *Controller) scheduleRedirect(to, client string, after time.Duration) *Redirect {
	if nav := c.cfg.Navigator; nav != nil {
		c.cfg.Clock.AfterFunc(after, func() { nav.Redirect(to, client) })
	}
	return &Redirect{To: to, Client: client, After: after}
}
