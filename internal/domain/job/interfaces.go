package job

import "context"

// Backend is the remote job store.
type Backend interface {
	Clients(ctx context.Context) ([]Client, error)
	Jobs(ctx context.Context) ([]Job, error)
	UpdateJob(ctx context.Context, jobNumber string, patch Patch) error
	AppendNote(ctx context.Context, note Note) error
	People(ctx context.Context, clientCode string) ([]Person, error)
}
