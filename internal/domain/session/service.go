package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/MGhunch/dot-hub/internal/repository"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Service handles sign-in and the session lifecycle.
type Service struct {
	sessions SessionRepository
	clock    clockwork.Clock
	timeout  time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	onExpire func(Session)
	idle     map[string]*Inactivity
}

// NewService creates a new session service. A zero timeout uses
// DefaultInactivityTimeout.
func NewService(sessions SessionRepository, clk clockwork.Clock, timeout time.Duration, logger *slog.Logger) *Service {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	return &Service{
		sessions: sessions,
		clock:    clk,
		timeout:  timeout,
		logger:   logger,
		idle:     make(map[string]*Inactivity),
	}
}

// OnExpire sets the callback run when a session goes idle.
func (s *Service) OnExpire(fn func(Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = fn
}

// SignIn checks the PIN, persists a new session and starts its inactivity
// timer. A pending deep link is handed back once.
func (s *Service) SignIn(ctx context.Context, pin string, pending *Pending) (*Session, *Applied, error) {
	user, ok := Lookup(pin)
	if !ok {
		s.logger.Info("pin rejected")
		return nil, nil, ErrInvalidPIN
	}

	now := s.clock.Now()
	sess := &Session{
		ID:           uuid.NewString(),
		User:         user,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, nil, fmt.Errorf("creating session: %w", err)
	}
	s.tracker(*sess).Touch()
	s.logger.Info("signed in", "session_id", sess.ID, "user", user.Name)

	return sess, applyPending(pending), nil
}

// Restore loads an existing session, for example after a page reload.
func (s *Service) Restore(ctx context.Context, id string, pending *Pending) (*Session, *Applied, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	_, running := s.idle[id]
	s.mu.Unlock()
	if !running {
		s.tracker(*sess).Touch()
	}
	return sess, applyPending(pending), nil
}

// Get loads a session without side effects.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

// Touch records user activity on the session.
func (s *Service) Touch(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.sessions.Touch(ctx, id, s.clock.Now()); err != nil {
		return fmt.Errorf("touching session: %w", err)
	}
	s.tracker(*sess).Touch()
	return nil
}

// Visible runs the stale check when the user comes back to the tab. It
// reports whether the conversation was cleared.
func (s *Service) Visible(ctx context.Context, id string) (bool, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	a, ok := s.idle[id]
	s.mu.Unlock()
	if !ok {
		// Process restarted since the last touch; fall back to the stored time.
		if s.clock.Now().Sub(sess.LastActivity) > s.timeout {
			s.expire(*sess)
			return true, nil
		}
		return false, nil
	}
	return a.CheckStale(), nil
}

// SignOut deletes the session and stops its timer.
func (s *Service) SignOut(ctx context.Context, id string) error {
	s.mu.Lock()
	if a, ok := s.idle[id]; ok {
		a.Stop()
		delete(s.idle, id)
	}
	s.mu.Unlock()

	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Close stops every inactivity timer.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.idle {
		a.Stop()
		delete(s.idle, id)
	}
}

func (s *Service) tracker(sess Session) *Inactivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.idle[sess.ID]; ok {
		return a
	}
	a := NewInactivity(s.clock, s.timeout, func() { s.expire(sess) })
	s.idle[sess.ID] = a
	return a
}

func (s *Service) expire(sess Session) {
	s.mu.Lock()
	fn := s.onExpire
	s.mu.Unlock()
	s.logger.Debug("session idle", "session_id", sess.ID)
	if fn != nil {
		fn(sess)
	}
}

func applyPending(p *Pending) *Applied {
	link, query, ok := p.Apply()
	if !ok {
		return nil
	}
	return &Applied{DeepLink: link, Query: query}
}
