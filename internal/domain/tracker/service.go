package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MGhunch/dot-hub/internal/domain/job"
	"github.com/MGhunch/dot-hub/internal/repository"
)

// LastClientKey is the preference holding the last tracker client picked.
const LastClientKey = "trackerLastClient"

// fallbackClients is served when the tracker store cannot be reached, so the
// client picker still renders.
var fallbackClients = []job.Client{
	{Code: "ONE", Name: "One NZ (Marketing)"},
	{Code: "ONB", Name: "One NZ (Business)"},
	{Code: "ONS", Name: "One NZ (Simplification)"},
	{Code: "SKY", Name: "Sky"},
	{Code: "TOW", Name: "Tower"},
}

// FallbackClients returns a copy of the degraded client roster.
func FallbackClients() []job.Client {
	return append([]job.Client(nil), fallbackClients...)
}

// Service loads tracker data and computes dashboards.
type Service struct {
	backend Backend
	prefs   Preferences
	pdfBase string
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	profiles []job.Client
}

// NewService creates a tracker service. pdfBase is the export service URL.
func NewService(backend Backend, prefs Preferences, pdfBase string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{backend: backend, prefs: prefs, pdfBase: pdfBase, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Clients returns the budget profiles, fetching them on first use. A failed
// fetch serves the fallback roster and is retried next time.
func (s *Service) Clients(ctx context.Context) []job.Client {
	s.mu.RLock()
	cached := s.profiles
	s.mu.RUnlock()
	if cached != nil {
		return append([]job.Client(nil), cached...)
	}

	profiles, err := s.backend.TrackerClients(ctx)
	if err != nil {
		s.logger.Warn("loading tracker clients failed", "error", err)
		return FallbackClients()
	}
	if profiles == nil {
		profiles = []job.Client{}
	}
	s.mu.Lock()
	s.profiles = profiles
	s.mu.Unlock()
	return append([]job.Client(nil), profiles...)
}

// Reset drops the cached profiles.
func (s *Service) Reset() {
	s.mu.Lock()
	s.profiles = nil
	s.mu.Unlock()
}

// Client returns one profile.
func (s *Service) Client(ctx context.Context, code string) (job.Client, error) {
	c, ok := job.FindClient(s.Clients(ctx), code)
	if !ok {
		return job.Client{}, ErrUnknownClient
	}
	return c, nil
}

// Items loads a client's line items. Failures yield an empty list.
func (s *Service) Items(ctx context.Context, code string) []LineItem {
	items, err := s.backend.TrackerData(ctx, code)
	if err != nil {
		s.logger.Warn("loading tracker data failed", "client", code, "error", err)
		return []LineItem{}
	}
	return items
}

// Dashboard computes the summary and table for a client and view. An empty
// month means the current one.
func (s *Service) Dashboard(ctx context.Context, code string, view View) (Dashboard, error) {
	c, err := s.Client(ctx, code)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	if view.Month == "" || strings.EqualFold(view.Month, "current") {
		view.Month = now.Month().String()
	}
	items := s.Items(ctx, code)
	return Dashboard{
		Client:  c,
		View:    view,
		Summary: Summarize(c, items, view, now),
		Rows:    Rows(items, view),
		PDFURL:  s.PDFURL(code, view),
	}, nil
}

// PeriodSummary answers chat budget questions. Period is this_month,
// last_month or this_quarter.
func (s *Service) PeriodSummary(ctx context.Context, code, period string) (Summary, error) {
	c, err := s.Client(ctx, code)
	if err != nil {
		return Summary{}, err
	}
	now := s.now()
	view := View{Month: now.Month().String()}
	switch period {
	case "last_month":
		view.Month = now.AddDate(0, -1, 0).Month().String()
	case "this_quarter", "quarter":
		view.Quarter = true
	}
	return Summarize(c, s.Items(ctx, code), view, now), nil
}

// UpdateItem persists a partial line item edit.
func (s *Service) UpdateItem(ctx context.Context, id string, patch Patch) error {
	if patch.Empty() {
		return ErrNoChanges
	}
	if patch.SpendType != nil {
		switch *patch.SpendType {
		case SpendProjectBudget, SpendExtraBudget, SpendProjectOnUs:
		default:
			return ErrInvalidSpendType
		}
	}
	if err := s.backend.UpdateTrackerItem(ctx, id, patch); err != nil {
		return fmt.Errorf("updating tracker item %s: %w", id, err)
	}
	return nil
}

// DefaultClient picks the tracker client to open: the remembered one if it is
// still on the roster, otherwise the first.
func (s *Service) DefaultClient(ctx context.Context, owner string, clients []job.Client) string {
	if len(clients) == 0 {
		return ""
	}
	if s.prefs != nil && owner != "" {
		last, err := s.prefs.Get(ctx, owner, LastClientKey)
		switch {
		case err == nil:
			if _, ok := job.FindClient(clients, last); ok {
				return last
			}
		case !errors.Is(err, repository.ErrNotFound):
			s.logger.Warn("reading last tracker client failed", "owner", owner, "error", err)
		}
	}
	return clients[0].Code
}

// Remember stores the client picked from the dropdown.
func (s *Service) Remember(ctx context.Context, owner, code string) error {
	if s.prefs == nil || owner == "" || code == "" {
		return nil
	}
	if err := s.prefs.Set(ctx, owner, LastClientKey, code); err != nil {
		return fmt.Errorf("remembering tracker client: %w", err)
	}
	return nil
}

// PDFURL builds the export service link for a view.
func (s *Service) PDFURL(code string, view View) string {
	if s.pdfBase == "" {
		return ""
	}
	q := url.Values{}
	q.Set("client", code)
	q.Set("month", view.Month)
	if view.Quarter {
		q.Set("quarter", "true")
	}
	return s.pdfBase + "?" + q.Encode()
}
