package job

import "sync"

// Store is the process-wide cache of jobs and clients. Readers get copies;
// writers go through Replace, SetClients and Update.
type Store struct {
	mu      sync.RWMutex
	jobs    []Job
	clients []Client
}

// NewStore returns an empty cache.
func NewStore() *Store {
	return &Store{}
}

// Replace swaps the whole job list.
func (s *Store) Replace(jobs []Job) {
	cp := make([]Job, len(jobs))
	for i, j := range jobs {
		cp[i] = j.Clone()
	}
	s.mu.Lock()
	s.jobs = cp
	s.mu.Unlock()
}

// SetClients swaps the client roster.
func (s *Store) SetClients(clients []Client) {
	cp := append([]Client(nil), clients...)
	s.mu.Lock()
	s.clients = cp
	s.mu.Unlock()
}

// Snapshot returns a copy of every cached job.
func (s *Store) Snapshot() []Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Job, len(s.jobs))
	for i, j := range s.jobs {
		out[i] = j.Clone()
	}
	return out
}

// Clients returns a copy of the roster.
func (s *Store) Clients() []Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Client(nil), s.clients...)
}

// Find returns a copy of the job with the given number.
func (s *Store) Find(jobNumber string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, j := range s.jobs {
		if j.JobNumber == jobNumber {
			return j.Clone(), true
		}
	}
	return Job{}, false
}

// Update applies fn to the cached job in place. It reports false when the
// job is not cached.
func (s *Store) Update(jobNumber string, fn func(*Job)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.jobs {
		if s.jobs[i].JobNumber == jobNumber {
			fn(&s.jobs[i])
			return true
		}
	}
	return false
}
