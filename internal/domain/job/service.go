package job

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service owns the job cache and the mutations posted from job cards.
type Service struct {
	backend Backend
	store   *Store
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a job service over the given cache.
func NewService(backend Backend, store *Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if store == nil {
		store = NewStore()
	}
	return &Service{backend: backend, store: store, logger: logger, now: time.Now}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Load refreshes clients and jobs. A failed fetch leaves an empty collection
// in place rather than failing the caller.
func (s *Service) Load(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error {
		clients, err := s.backend.Clients(ctx)
		if err != nil {
			s.logger.Warn("loading clients failed", "error", err)
			clients = []Client{}
		}
		s.store.SetClients(clients)
		return nil
	})
	g.Go(func() error {
		jobs, err := s.backend.Jobs(ctx)
		if err != nil {
			s.logger.Warn("loading jobs failed", "error", err)
			jobs = []Job{}
		}
		s.store.Replace(jobs)
		return nil
	})
	_ = g.Wait()
}

// Jobs returns a copy of the cache.
func (s *Service) Jobs() []Job {
	return s.store.Snapshot()
}

// Clients returns the roster.
func (s *Service) Clients() []Client {
	return s.store.Clients()
}

// Job returns one cached job.
func (s *Service) Job(jobNumber string) (Job, error) {
	j, ok := s.store.Find(jobNumber)
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return j, nil
}

// Filter runs Filter over the cache at the service clock.
func (s *Service) Filter(mods Modifiers, includeAllStatuses bool) []Job {
	return Filter(s.store.Snapshot(), mods, FilterOptions{
		IncludeAllStatuses: includeAllStatuses,
		Now:                s.now(),
	})
}

// Search runs Search over the cache.
func (s *Service) Search(mods Modifiers, terms []string) []Job {
	return Search(s.store.Snapshot(), mods, terms)
}

// ClientCounts returns picker entries for the cached roster.
func (s *Service) ClientCounts() []ClientCount {
	return ClientCounts(s.store.Clients(), s.store.Snapshot())
}

// People lists owner candidates for a client. Failures yield an empty list.
func (s *Service) People(ctx context.Context, clientCode string) []Person {
	people, err := s.backend.People(ctx, clientCode)
	if err != nil {
		s.logger.Warn("loading people failed", "client", clientCode, "error", err)
		return []Person{}
	}
	return people
}

// ToggleWithClient flips the with-client flag optimistically. The cached value
// changes before the backend call and is restored to the captured prior value
// if the call fails.
func (s *Service) ToggleWithClient(ctx context.Context, jobNumber string, withClient bool) error {
	var previous bool
	cached := s.store.Update(jobNumber, func(j *Job) {
		previous = j.WithClient
		j.WithClient = withClient
	})

	err := s.backend.UpdateJob(ctx, jobNumber, Patch{WithClient: &withClient})
	if err != nil {
		if cached {
			s.store.Update(jobNumber, func(j *Job) { j.WithClient = previous })
		}
		s.logger.Warn("with-client toggle reverted", "job", jobNumber, "error", err)
		return fmt.Errorf("updating with-client flag for %s: %w", jobNumber, err)
	}
	return nil
}

// Validate checks an update before it goes anywhere near the network.
func (r UpdateRequest) Validate() error {
	if strings.TrimSpace(r.JobNumber) == "" {
		return &ValidationError{Field: "jobNumber", Message: "Which job is this for?"}
	}
	if r.Status != "" && !r.Status.Valid() {
		return &ValidationError{Field: "status", Message: "That status doesn't look right."}
	}
	if strings.TrimSpace(r.Message) != "" && strings.TrimSpace(r.UpdateDue) == "" {
		return &ValidationError{Field: "updateDue", Message: "Pop in a new update due date first."}
	}
	return nil
}

// SubmitUpdate posts the job fields and the note together. Both calls must
// succeed before the cache is touched. A half-applied update on the backend
// is reported as a failure and left as is.
func (s *Service) SubmitUpdate(ctx context.Context, req UpdateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	message := strings.TrimSpace(req.Message)

	var g errgroup.Group
	g.Go(func() error {
		return s.backend.UpdateJob(ctx, req.JobNumber, Patch{
			Stage:     req.Stage,
			Status:    req.Status,
			UpdateDue: req.UpdateDue,
			LiveDate:  req.LiveDate,
		})
	})
	if message != "" {
		g.Go(func() error {
			return s.backend.AppendNote(ctx, Note{
				ClientCode: ClientCodeOf(req.JobNumber),
				JobNumber:  req.JobNumber,
				Message:    message,
			})
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("submitting update for %s: %w", req.JobNumber, err)
	}

	s.store.Update(req.JobNumber, func(j *Job) {
		if req.Stage != "" {
			j.Stage = req.Stage
		}
		if req.Status != "" {
			j.Status = req.Status
		}
		if req.UpdateDue != "" {
			j.UpdateDue = req.UpdateDue
		}
		if req.LiveDate != "" {
			j.LiveDate = req.LiveDate
		}
		if message != "" {
			j.Update = message
			j.UpdateHistory = append(j.UpdateHistory, message)
		}
		j.LastUpdated = s.now().Format(time.RFC3339)
	})
	return nil
}
