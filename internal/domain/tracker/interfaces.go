package tracker

import (
	"context"

	"github.com/MGhunch/dot-hub/internal/domain/job"
)

// Backend is the remote tracker store.
type Backend interface {
	TrackerClients(ctx context.Context) ([]job.Client, error)
	TrackerData(ctx context.Context, clientCode string) ([]LineItem, error)
	UpdateTrackerItem(ctx context.Context, id string, patch Patch) error
}

// Preferences remembers small per-user settings across sessions.
type Preferences interface {
	Get(ctx context.Context, owner, key string) (string, error)
	Set(ctx context.Context, owner, key, value string) error
}
